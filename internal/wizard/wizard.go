// Package wizard owns the private-data entry steps of the setup screen and
// the watermark that gates them. All mutation funnels through Engine methods,
// which persist immediately; UI layers only read.
package wizard

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"artigen/internal/model"
	"artigen/internal/store"
)

type Step int

const (
	StepFile Step = iota
	StepText
	StepLink
)

func (s Step) String() string {
	switch s {
	case StepFile:
		return "file"
	case StepText:
		return "text"
	case StepLink:
		return "link"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// LockState is the rendering contract for one sub-step tab.
type LockState int

const (
	// Completed: the step sits below the watermark; open for review, inputs
	// read-only.
	Completed LockState = iota
	// Active: the step equals the watermark and accepts input.
	Active
	// Locked: the step is above the watermark; dimmed and non-interactive.
	Locked
)

// MIME types accepted by the file step.
const (
	MIMEPDF  = "application/pdf"
	MIMEDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEXlsx = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// freeTextAdvanceLen is the trimmed length the free-text step must exceed
// before the watermark moves past it.
const freeTextAdvanceLen = 10

var ErrNoValidFiles = errors.New("chỉ chấp nhận file PDF, DOCX hoặc Excel")

type Engine struct {
	st store.Store

	watermark int
	file      *model.UploadedFile
	freeText  string
	linkDraft string
	links     []model.ProductLink
}

// NewEngine restores persisted wizard state from st.
func NewEngine(st store.Store) *Engine {
	e := &Engine{st: st}

	if raw, ok := st.Get(store.KeyMaxCompletedStep); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && n >= 0 && n <= 3 {
			e.watermark = n
		}
	}

	// Files persist as a list for key compatibility, but at most one is kept.
	var files []model.UploadedFile
	if st.GetJSON(store.KeyUploadedFiles, &files) && len(files) > 0 {
		f := files[0]
		e.file = &f
	}

	if raw, ok := st.Get(store.KeyFreeText); ok {
		e.freeText = raw
	}
	if raw, ok := st.Get(store.KeyLinkDraft); ok {
		e.linkDraft = raw
	}
	st.GetJSON(store.KeyProductLinks, &e.links)

	return e
}

func (e *Engine) Watermark() int { return e.watermark }

func (e *Engine) LockState(s Step) LockState {
	switch {
	case int(s) < e.watermark:
		return Completed
	case int(s) == e.watermark:
		return Active
	default:
		return Locked
	}
}

func (e *Engine) File() *model.UploadedFile {
	if e.file == nil {
		return nil
	}
	f := *e.file
	return &f
}

func (e *Engine) FreeText() string  { return e.freeText }
func (e *Engine) LinkDraft() string { return e.linkDraft }

func (e *Engine) Links() []model.ProductLink {
	out := make([]model.ProductLink, len(e.links))
	copy(out, e.links)
	return out
}

func allowedMIME(t string) bool {
	switch t {
	case MIMEPDF, MIMEDocx, MIMEXlsx:
		return true
	default:
		return false
	}
}

// SubmitFiles filters candidates by the MIME allow-list and keeps the first
// valid one, replacing any previous file. Extra valid files in the same batch
// are dropped. Returns ErrNoValidFiles (state untouched) when nothing passes
// the filter.
func (e *Engine) SubmitFiles(files []model.UploadedFile) error {
	var valid *model.UploadedFile
	for i := range files {
		if allowedMIME(files[i].MIMEType) {
			f := files[i]
			valid = &f
			break
		}
	}
	if valid == nil {
		return ErrNoValidFiles
	}

	e.file = valid
	e.persistFiles()

	// First-ever successful upload unlocks the free-text step.
	if e.watermark == 0 {
		e.watermark = 1
		e.persistWatermark()
	}
	return nil
}

// RemoveFile clears the uploaded file. A watermark of exactly 1 falls back to
// 0; later-step data stays in the store but its steps relock.
func (e *Engine) RemoveFile() {
	e.file = nil
	e.persistFiles()
	if e.watermark == 1 {
		e.watermark = 0
		e.persistWatermark()
	}
}

// SetFreeText stores text verbatim and advances the watermark to 2 the first
// time the trimmed length exceeds the threshold. The watermark never regresses
// from here.
func (e *Engine) SetFreeText(text string) {
	e.freeText = text
	_ = e.st.Set(store.KeyFreeText, text)

	if len([]rune(strings.TrimSpace(text))) > freeTextAdvanceLen && e.watermark < 2 {
		e.watermark = 2
		e.persistWatermark()
	}
}

// SetLinkDraft persists the in-progress link input so a half-typed URL
// survives a restart.
func (e *Engine) SetLinkDraft(text string) {
	e.linkDraft = text
	_ = e.st.Set(store.KeyLinkDraft, text)
}

// AddProductLink appends url as-is; links are accepted as free text.
func (e *Engine) AddProductLink(url string) {
	e.links = append(e.links, model.ProductLink{URL: url})
	e.persistLinks()
}

func (e *Engine) RemoveProductLink(index int) {
	if index < 0 || index >= len(e.links) {
		return
	}
	e.links = append(e.links[:index], e.links[index+1:]...)
	e.persistLinks()
}

// PrivateData aggregates the wizard's collected inputs for the payload.
func (e *Engine) PrivateData() model.PrivateData {
	var files []model.UploadedFile
	if e.file != nil {
		files = []model.UploadedFile{*e.file}
	}
	return model.PrivateData{
		Files: files,
		Text:  e.freeText,
		Links: e.Links(),
	}
}

// Persistence failures are best-effort by design: a quota or I/O error must
// not wedge the wizard.
func (e *Engine) persistWatermark() {
	_ = e.st.Set(store.KeyMaxCompletedStep, strconv.Itoa(e.watermark))
}

func (e *Engine) persistFiles() {
	files := []model.UploadedFile{}
	if e.file != nil {
		files = append(files, *e.file)
	}
	_ = e.st.SetJSON(store.KeyUploadedFiles, files)
}

func (e *Engine) persistLinks() {
	links := e.links
	if links == nil {
		links = []model.ProductLink{}
	}
	_ = e.st.SetJSON(store.KeyProductLinks, links)
}

var extMIME = map[string]string{
	".pdf":  MIMEPDF,
	".docx": MIMEDocx,
	".xlsx": MIMEXlsx,
}

// LoadFile reads path into an UploadedFile descriptor, inferring the MIME
// type from the extension. Unknown extensions yield an empty MIME type, which
// SubmitFiles then rejects.
func LoadFile(path string) (model.UploadedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.UploadedFile{}, fmt.Errorf("failed to read file: %w", err)
	}
	return model.UploadedFile{
		Name:          filepath.Base(path),
		SizeBytes:     int64(len(data)),
		MIMEType:      extMIME[strings.ToLower(filepath.Ext(path))],
		Base64Content: base64.StdEncoding.EncodeToString(data),
	}, nil
}
