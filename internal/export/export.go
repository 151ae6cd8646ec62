// Package export writes the current outline as a markdown brief, the format
// writers paste into their CMS or hand to an editor.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"artigen/internal/model"
	"artigen/internal/outline"
	"artigen/internal/store"
)

type WriteOptions struct {
	// Title overrides the document heading; defaults to the saved draft
	// title, then the main keyword.
	Title     string
	Overwrite bool
}

type WriteResult struct {
	Written string `json:"written"`
}

type RenderOptions struct {
	Title string
	Query string
}

// RenderMarkdown produces the brief for the given outline items.
func RenderMarkdown(items []model.OutlineItem, opt RenderOptions) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	title := strings.TrimSpace(opt.Title)
	if title == "" {
		title = strings.TrimSpace(opt.Query)
	}
	if title == "" {
		title = "Dàn ý bài viết"
	}
	writeLn("# " + title)
	writeLn("")
	if q := strings.TrimSpace(opt.Query); q != "" {
		writeLn("Từ khóa chính: **" + q + "**")
		writeLn("")
	}

	for _, it := range items {
		heading := strings.TrimSpace(it.Title)
		if heading == "" {
			heading = "(chưa đặt tên)"
		}
		writeLn("## " + heading)
		writeLn("")
		writeLn(fmt.Sprintf("- Tỷ trọng độ dài: %d%%", it.LengthWeight))
		if len(it.Keywords) > 0 {
			writeLn("- Từ khóa phụ: " + strings.Join(it.Keywords, ", "))
		}
		if it.InternalLink {
			writeLn("- Chèn link nội bộ")
		}
		writeLn("")
	}
	return buf.String()
}

// WriteOutline renders the persisted outline and writes it under toDir.
func WriteOutline(st store.Store, toDir string, opt WriteOptions) (WriteResult, error) {
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing output dir")
	}
	toDir = filepath.Clean(toDir)

	ed := outline.NewEditor(st)

	var draft model.ArticleDraft
	_ = st.GetJSON(store.KeyArticleDraft, &draft)
	title := strings.TrimSpace(opt.Title)
	if title == "" {
		title = draft.Title
	}

	md := RenderMarkdown(ed.Items(), RenderOptions{Title: title, Query: draft.Query})

	if err := os.MkdirAll(toDir, 0o755); err != nil {
		return WriteResult{}, err
	}
	outPath := filepath.Join(toDir, "outline.md")
	if err := writeFile(outPath, []byte(md), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Written: outPath}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
