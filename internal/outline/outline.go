// Package outline is the reorderable section editor backing the outline
// screen. The Editor owns the item list; every mutation persists the whole
// list immediately, so a reload always reproduces the last state.
package outline

import (
	"strings"

	"artigen/internal/model"
	"artigen/internal/store"
)

const (
	newItemTitle     = "Tiêu đề mới"
	defaultLengthPct = 50
	minLengthWeight  = 0
	maxLengthWeight  = 100
)

// DefaultItems returns the seed list used when no outline has been persisted
// yet.
func DefaultItems() []model.OutlineItem {
	return []model.OutlineItem{
		{ID: 1, Title: "Máy tính AI lên ngôi", LengthWeight: 50, Keywords: []string{"AI doanh nghiệp"}, InternalLink: true},
		{ID: 2, Title: "Ưu tiên xử lý tại chỗ (Edge AI)", LengthWeight: 50, Keywords: []string{}, InternalLink: true},
		{ID: 3, Title: "Bảo mật thông minh", LengthWeight: 50, Keywords: []string{}, InternalLink: true},
		{ID: 4, Title: "Làm việc lai tối ưu", LengthWeight: 50, Keywords: []string{}, InternalLink: true},
		{ID: 5, Title: "Tự động hóa sâu", LengthWeight: 50, Keywords: []string{}, InternalLink: true},
		{ID: 6, Title: "Tối ưu chi phí vận hành", LengthWeight: 50, Keywords: []string{}, InternalLink: true},
	}
}

type Editor struct {
	st    store.Store
	items []model.OutlineItem

	// renameID is the id currently in rename mode; 0 means none. Rename mode
	// is exclusive and gates Toggle.
	renameID int
}

// NewEditor loads the persisted outline (migrating the legacy singular
// keyword field) or seeds the default list.
func NewEditor(st store.Store) *Editor {
	ed := &Editor{st: st}

	var items []model.OutlineItem
	if st.GetJSON(store.KeyOutlineData, &items) && len(items) > 0 {
		for i := range items {
			if items[i].Keywords == nil {
				if items[i].LegacyKeyword != "" {
					items[i].Keywords = []string{items[i].LegacyKeyword}
				} else {
					items[i].Keywords = []string{}
				}
			}
			items[i].LegacyKeyword = ""
		}
		ed.items = items
	} else {
		ed.items = DefaultItems()
		ed.persist()
	}
	return ed
}

func (ed *Editor) Items() []model.OutlineItem {
	out := make([]model.OutlineItem, len(ed.items))
	copy(out, ed.items)
	return out
}

func (ed *Editor) Len() int { return len(ed.items) }

func (ed *Editor) find(id int) *model.OutlineItem {
	for i := range ed.items {
		if ed.items[i].ID == id {
			return &ed.items[i]
		}
	}
	return nil
}

// Toggle flips the expanded flag. It is a no-op while any item is being
// renamed.
func (ed *Editor) Toggle(id int) bool {
	if ed.renameID != 0 {
		return false
	}
	it := ed.find(id)
	if it == nil {
		return false
	}
	it.Expanded = !it.Expanded
	ed.persist()
	return true
}

// BeginRename puts id into rename mode. At most one item is renamable at a
// time; a second call while renaming switches the target.
func (ed *Editor) BeginRename(id int) bool {
	if ed.find(id) == nil {
		return false
	}
	ed.renameID = id
	return true
}

// RenamingID returns the id in rename mode, if any.
func (ed *Editor) RenamingID() (int, bool) {
	if ed.renameID == 0 {
		return 0, false
	}
	return ed.renameID, true
}

// CommitRename applies title to id and always exits rename mode. A blank or
// whitespace-only title discards the edit and keeps the previous title.
func (ed *Editor) CommitRename(id int, title string) {
	if it := ed.find(id); it != nil {
		if t := strings.TrimSpace(title); t != "" {
			it.Title = t
		}
	}
	ed.renameID = 0
	ed.persist()
}

// Delete removes id immediately; confirmation, if any, belongs to the UI.
func (ed *Editor) Delete(id int) {
	for i := range ed.items {
		if ed.items[i].ID == id {
			ed.items = append(ed.items[:i], ed.items[i+1:]...)
			ed.persist()
			return
		}
	}
}

// Add appends a fresh item. IDs are max(existing)+1 and never reused, so a
// deleted id stays dead.
func (ed *Editor) Add() model.OutlineItem {
	id := 1
	for _, it := range ed.items {
		if it.ID >= id {
			id = it.ID + 1
		}
	}
	item := model.OutlineItem{
		ID:           id,
		Title:        newItemTitle,
		LengthWeight: defaultLengthPct,
		Keywords:     []string{},
		InternalLink: true,
	}
	ed.items = append(ed.items, item)
	ed.persist()
	return item
}

func (ed *Editor) SetLengthWeight(id, value int) {
	if value < minLengthWeight {
		value = minLengthWeight
	}
	if value > maxLengthWeight {
		value = maxLengthWeight
	}
	if it := ed.find(id); it != nil {
		it.LengthWeight = value
		ed.persist()
	}
}

func (ed *Editor) SetInternalLink(id int, on bool) {
	if it := ed.find(id); it != nil {
		it.InternalLink = on
		ed.persist()
	}
}

// AddKeyword appends text to the item's keyword list. Blank input is rejected
// before it reaches this operation; duplicates within an item are allowed.
func (ed *Editor) AddKeyword(id int, text string) bool {
	it := ed.find(id)
	if it == nil {
		return false
	}
	it.Keywords = append(it.Keywords, text)
	ed.persist()
	return true
}

func (ed *Editor) RemoveKeyword(id, index int) {
	it := ed.find(id)
	if it == nil || index < 0 || index >= len(it.Keywords) {
		return
	}
	it.Keywords = append(it.Keywords[:index], it.Keywords[index+1:]...)
	ed.persist()
}

// Reorder removes the item at oldIndex and reinserts it at newIndex.
func (ed *Editor) Reorder(oldIndex, newIndex int) {
	n := len(ed.items)
	if oldIndex < 0 || oldIndex >= n || newIndex < 0 || newIndex >= n || oldIndex == newIndex {
		return
	}
	it := ed.items[oldIndex]
	ed.items = append(ed.items[:oldIndex], ed.items[oldIndex+1:]...)
	rest := append([]model.OutlineItem{}, ed.items[newIndex:]...)
	ed.items = append(ed.items[:newIndex], it)
	ed.items = append(ed.items, rest...)
	ed.persist()
}

func (ed *Editor) persist() {
	_ = ed.st.SetJSON(store.KeyOutlineData, ed.items)
}
