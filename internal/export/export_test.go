package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"artigen/internal/model"
	"artigen/internal/store"
)

func TestRenderMarkdown(t *testing.T) {
	items := []model.OutlineItem{
		{ID: 1, Title: "Mở đầu", LengthWeight: 20, Keywords: []string{"máy in", "văn phòng"}},
		{ID: 2, Title: "So sánh các dòng máy", LengthWeight: 60, InternalLink: true},
	}
	md := RenderMarkdown(items, RenderOptions{Title: "Top máy in 2026", Query: "máy in laser"})

	for _, want := range []string{
		"# Top máy in 2026",
		"Từ khóa chính: **máy in laser**",
		"## Mở đầu",
		"- Tỷ trọng độ dài: 20%",
		"- Từ khóa phụ: máy in, văn phòng",
		"## So sánh các dòng máy",
		"- Chèn link nội bộ",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("missing %q in output:\n%s", want, md)
		}
	}
}

func TestRenderMarkdownFallbackTitle(t *testing.T) {
	md := RenderMarkdown(nil, RenderOptions{})
	if !strings.HasPrefix(md, "# Dàn ý bài viết") {
		t.Errorf("unexpected heading:\n%s", md)
	}
}

func TestWriteOutline(t *testing.T) {
	st := store.Store{Dir: t.TempDir()}
	if err := st.SetJSON(store.KeyArticleDraft, model.ArticleDraft{Query: "máy in laser", Title: "Top máy in"}); err != nil {
		t.Fatal(err)
	}

	outDir := t.TempDir()
	res, err := WriteOutline(st, outDir, WriteOptions{})
	if err != nil {
		t.Fatalf("WriteOutline: %v", err)
	}
	if res.Written != filepath.Join(outDir, "outline.md") {
		t.Errorf("written = %s", res.Written)
	}

	b, err := os.ReadFile(res.Written)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "# Top máy in") {
		t.Errorf("file missing draft title:\n%s", b)
	}

	// Default outline items are seeded when nothing was edited yet.
	if !strings.Contains(string(b), "## ") {
		t.Error("file has no section headings")
	}
}

func TestWriteOutlineRefusesOverwrite(t *testing.T) {
	st := store.Store{Dir: t.TempDir()}
	outDir := t.TempDir()

	if _, err := WriteOutline(st, outDir, WriteOptions{}); err != nil {
		t.Fatal(err)
	}
	if _, err := WriteOutline(st, outDir, WriteOptions{}); err == nil {
		t.Fatal("expected overwrite refusal")
	}
	if _, err := WriteOutline(st, outDir, WriteOptions{Overwrite: true}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
}
