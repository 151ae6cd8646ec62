package model

import "encoding/json"

// UploadedFile describes the single source document attached to the wizard's
// file step. Content is carried base64-encoded so the whole descriptor can be
// persisted and shipped in the pipeline payload as-is.
type UploadedFile struct {
	Name          string `json:"name"`
	SizeBytes     int64  `json:"size"`
	MIMEType      string `json:"type"`
	Base64Content string `json:"base64"`
}

type ProductLink struct {
	URL string `json:"url"`
}

// OutlineItem is one section of the article outline. Slice order is display
// order; there is no separate sort key.
type OutlineItem struct {
	ID           int      `json:"id"`
	Title        string   `json:"title"`
	Expanded     bool     `json:"open"`
	LengthWeight int      `json:"length"`
	Keywords     []string `json:"keywords"`
	InternalLink bool     `json:"link"`

	// LegacyKeyword is the old singular field; folded into Keywords on load.
	LegacyKeyword string `json:"keyword,omitempty"`
}

// Catalog is the remote configuration catalog that populates the setup form's
// selectable fields.
type Catalog struct {
	ContentTypes []string `json:"content_types"`
	WritingTones []string `json:"writing_tones"`
	Languages    []string `json:"languages"`
	Bots         []string `json:"bots"`
}

// ArticleDraft is the on-demand saved subset of the setup form.
type ArticleDraft struct {
	Query string `json:"query"`
	Title string `json:"title"`
	Type  string `json:"type"`
	Bot   string `json:"bot"`
}

type PayloadConfig struct {
	Title   string   `json:"title"`
	Type    string   `json:"type"`
	Tone    string   `json:"tone"`
	Lang    string   `json:"lang"`
	Bot     string   `json:"bot"`
	Length  string   `json:"len"`
	Tags    []string `json:"tags"`
	Context string   `json:"context"`
	Website string   `json:"website"`
}

type PrivateData struct {
	Files []UploadedFile `json:"files"`
	Text  string         `json:"text"`
	Links []ProductLink  `json:"links"`
}

// StageResults carries the three stage response bodies verbatim. They are
// opaque to this program; the outline/editor page interprets them.
type StageResults struct {
	Search json.RawMessage `json:"search"`
	Crawl  json.RawMessage `json:"crawl"`
	Filter json.RawMessage `json:"filter"`
}

// PipelinePayload is written once to the handoff slot at the end of a
// successful generation run and consumed exactly once by the outline screen.
type PipelinePayload struct {
	RunID       string        `json:"run_id"`
	UserQuery   string        `json:"user_query"`
	SourceType  string        `json:"source_type"`
	Config      PayloadConfig `json:"config"`
	PrivateData PrivateData   `json:"private_data"`
	Results     StageResults  `json:"results"`
}
