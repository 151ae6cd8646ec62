package outline

import (
	"reflect"
	"testing"

	"artigen/internal/model"
	"artigen/internal/store"
)

func newTestEditor(t *testing.T) *Editor {
	t.Helper()
	return NewEditor(store.Store{Dir: t.TempDir()})
}

func ids(items []model.OutlineItem) []int {
	out := make([]int, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestSeedsDefaultsWhenEmpty(t *testing.T) {
	ed := newTestEditor(t)
	items := ed.Items()
	if len(items) != 6 {
		t.Fatalf("default seed has %d items, want 6", len(items))
	}
	if items[0].Title != "Máy tính AI lên ngôi" || items[0].Keywords[0] != "AI doanh nghiệp" {
		t.Fatalf("first default item = %+v", items[0])
	}
	for _, it := range items {
		if it.LengthWeight != 50 || !it.InternalLink || it.Expanded {
			t.Fatalf("default item %d has unexpected fields: %+v", it.ID, it)
		}
	}
}

func TestAddAssignsMaxPlusOne(t *testing.T) {
	st := store.Store{Dir: t.TempDir()}
	if err := st.SetJSON(store.KeyOutlineData, []model.OutlineItem{
		{ID: 1, Title: "a", Keywords: []string{}},
		{ID: 3, Title: "b", Keywords: []string{}},
		{ID: 5, Title: "c", Keywords: []string{}},
	}); err != nil {
		t.Fatal(err)
	}

	ed := NewEditor(st)
	got := ed.Add()
	if got.ID != 6 {
		t.Fatalf("Add on ids {1,3,5} produced id %d, want 6", got.ID)
	}
	if got.Title != "Tiêu đề mới" || got.LengthWeight != 50 || !got.InternalLink {
		t.Fatalf("new item defaults wrong: %+v", got)
	}
}

func TestAddOnEmptyListStartsAtOne(t *testing.T) {
	ed := newTestEditor(t)
	for _, it := range ed.Items() {
		ed.Delete(it.ID)
	}
	if len(ed.Items()) != 0 {
		t.Fatalf("expected empty list after deleting all")
	}
	// max+1 is computed over existing items only, so an emptied list starts
	// over at 1.
	if got := ed.Add(); got.ID != 1 {
		t.Fatalf("Add on empty list produced id %d, want 1", got.ID)
	}
}

func TestToggleGatedByRenameMode(t *testing.T) {
	ed := newTestEditor(t)

	if !ed.Toggle(2) {
		t.Fatalf("Toggle failed")
	}
	if !ed.Items()[1].Expanded {
		t.Fatalf("item 2 not expanded")
	}

	ed.BeginRename(3)
	if ed.Toggle(2) {
		t.Fatalf("Toggle must be a no-op while rename mode is active")
	}
	if !ed.Items()[1].Expanded {
		t.Fatalf("toggle mutated state while gated")
	}

	ed.CommitRename(3, "Tên mới")
	if !ed.Toggle(2) {
		t.Fatalf("Toggle still gated after rename committed")
	}
}

func TestCommitRename(t *testing.T) {
	ed := newTestEditor(t)
	prev := ed.Items()[0].Title

	ed.BeginRename(1)
	ed.CommitRename(1, "   ")
	if got := ed.Items()[0].Title; got != prev {
		t.Fatalf("blank commit changed title to %q", got)
	}
	if _, renaming := ed.RenamingID(); renaming {
		t.Fatalf("rename mode survived a blank commit")
	}

	ed.BeginRename(1)
	ed.CommitRename(1, "  Xu hướng 2026  ")
	if got := ed.Items()[0].Title; got != "Xu hướng 2026" {
		t.Fatalf("title = %q", got)
	}
}

func TestReorder(t *testing.T) {
	dir := t.TempDir()
	ed := NewEditor(store.Store{Dir: dir})

	before := ids(ed.Items()) // [1 2 3 4 5 6]
	ed.Reorder(2, 0)
	got := ids(ed.Items())
	want := []int{before[2], before[0], before[1], before[3], before[4], before[5]}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Reorder(2,0) = %v, want %v", got, want)
	}

	// Persist + reload reproduces the same order.
	ed2 := NewEditor(store.Store{Dir: dir})
	if !reflect.DeepEqual(ids(ed2.Items()), want) {
		t.Fatalf("reloaded order = %v, want %v", ids(ed2.Items()), want)
	}

	// Out-of-range and identity moves are no-ops.
	ed.Reorder(0, 0)
	ed.Reorder(-1, 3)
	ed.Reorder(2, 17)
	if !reflect.DeepEqual(ids(ed.Items()), want) {
		t.Fatalf("no-op reorders mutated order: %v", ids(ed.Items()))
	}

	ed.Reorder(0, 5)
	got = ids(ed.Items())
	if got[5] != want[0] || got[0] != want[1] {
		t.Fatalf("Reorder(0,5) = %v", got)
	}
}

func TestKeywordRoundTrip(t *testing.T) {
	ed := newTestEditor(t)

	prev := ed.Items()[0].Keywords
	if !ed.AddKeyword(1, "x") {
		t.Fatalf("AddKeyword failed")
	}
	kws := ed.Items()[0].Keywords
	if len(kws) != len(prev)+1 || kws[len(kws)-1] != "x" {
		t.Fatalf("keywords after add = %v", kws)
	}

	ed.RemoveKeyword(1, len(kws)-1)
	if got := ed.Items()[0].Keywords; !reflect.DeepEqual(got, prev) {
		t.Fatalf("add/remove round trip: got %v, want %v", got, prev)
	}

	// Duplicates within an item are allowed.
	ed.AddKeyword(2, "seo")
	ed.AddKeyword(2, "seo")
	if got := ed.Items()[1].Keywords; len(got) != 2 {
		t.Fatalf("duplicate keyword rejected: %v", got)
	}
}

func TestLegacyKeywordMigration(t *testing.T) {
	st := store.Store{Dir: t.TempDir()}
	// Persist the legacy shape directly: singular keyword, no keywords array.
	if err := st.Set(store.KeyOutlineData,
		`[{"id":1,"title":"Cũ","open":false,"length":40,"link":true,"keyword":"từ khóa cũ"},`+
			`{"id":2,"title":"Trống","open":false,"length":50,"link":false}]`); err != nil {
		t.Fatal(err)
	}

	ed := NewEditor(st)
	items := ed.Items()
	if !reflect.DeepEqual(items[0].Keywords, []string{"từ khóa cũ"}) {
		t.Fatalf("legacy keyword not folded: %v", items[0].Keywords)
	}
	if items[1].Keywords == nil || len(items[1].Keywords) != 0 {
		t.Fatalf("missing keywords should migrate to empty list, got %v", items[1].Keywords)
	}
}

func TestSetLengthWeightClamps(t *testing.T) {
	ed := newTestEditor(t)
	ed.SetLengthWeight(1, 130)
	if got := ed.Items()[0].LengthWeight; got != 100 {
		t.Fatalf("LengthWeight = %d, want clamp to 100", got)
	}
	ed.SetLengthWeight(1, -5)
	if got := ed.Items()[0].LengthWeight; got != 0 {
		t.Fatalf("LengthWeight = %d, want clamp to 0", got)
	}
	ed.SetLengthWeight(1, 72)
	if got := ed.Items()[0].LengthWeight; got != 72 {
		t.Fatalf("LengthWeight = %d", got)
	}
}

func TestEveryMutationPersists(t *testing.T) {
	dir := t.TempDir()
	ed := NewEditor(store.Store{Dir: dir})

	ed.Toggle(1)
	ed.SetInternalLink(2, false)
	ed.AddKeyword(3, "kw")
	ed.Delete(5)
	ed.Add() // max over {1,2,3,4,6} + 1 = 7

	re := NewEditor(store.Store{Dir: dir})
	items := re.Items()
	if !items[0].Expanded {
		t.Errorf("expanded flag not persisted")
	}
	if items[1].InternalLink {
		t.Errorf("internal link flag not persisted")
	}
	if len(items[2].Keywords) != 1 || items[2].Keywords[0] != "kw" {
		t.Errorf("keywords not persisted: %v", items[2].Keywords)
	}
	if got := ids(items); !reflect.DeepEqual(got, []int{1, 2, 3, 4, 6, 7}) {
		t.Errorf("ids after delete+add = %v", got)
	}
}
