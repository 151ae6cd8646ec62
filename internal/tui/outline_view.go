package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"artigen/internal/notify"
)

const lengthWeightStep = 10

// refreshOutline rebuilds the list rows from the editor, keeping the cursor
// in place where possible.
func (m *appModel) refreshOutline() {
	idx := m.itemsList.Index()
	renameID, renaming := m.ed.RenamingID()
	items := m.ed.Items()
	rows := make([]list.Item, len(items))
	for i, it := range items {
		rows[i] = outlineRowItem{item: it, renaming: renaming && it.ID == renameID}
	}
	m.itemsList.SetItems(rows)
	if idx >= len(rows) {
		idx = len(rows) - 1
	}
	if idx >= 0 {
		m.itemsList.Select(idx)
	}
}

func (m appModel) selectedItemID() (int, bool) {
	row, ok := m.itemsList.SelectedItem().(outlineRowItem)
	if !ok {
		return 0, false
	}
	return row.item.ID, true
}

func (m appModel) updateOutline(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "esc", "b":
		m.view = viewSetup
		return m, nil

	case "enter", " ":
		if id, ok := m.selectedItemID(); ok {
			if !m.ed.Toggle(id) {
				return m, m.flash(notify.Warning, "Đang đổi tên, nhấn Enter để lưu trước")
			}
			m.refreshOutline()
		}
		return m, nil

	case "r":
		if id, ok := m.selectedItemID(); ok && m.ed.BeginRename(id) {
			row, _ := m.itemsList.SelectedItem().(outlineRowItem)
			m.modal = modalRename
			m.input.Placeholder = "Tiêu đề mục"
			m.input.SetValue(row.item.Title)
			m.input.Focus()
			m.refreshOutline()
		}
		return m, nil

	case "k":
		if id, ok := m.selectedItemID(); ok {
			m.modal = modalKeyword
			m.modalForID = id
			m.input.Placeholder = "Từ khóa phụ"
			m.input.SetValue("")
			m.input.Focus()
		}
		return m, nil

	case "d":
		if id, ok := m.selectedItemID(); ok {
			m.modal = modalConfirmDelete
			m.modalForID = id
		}
		return m, nil

	case "a":
		item := m.ed.Add()
		m.refreshOutline()
		m.selectByID(item.ID)
		return m, nil

	case "+", "=":
		m.adjustLength(lengthWeightStep)
		return m, nil
	case "-":
		m.adjustLength(-lengthWeightStep)
		return m, nil

	case "l":
		if id, ok := m.selectedItemID(); ok {
			row, _ := m.itemsList.SelectedItem().(outlineRowItem)
			m.ed.SetInternalLink(id, !row.item.InternalLink)
			m.refreshOutline()
		}
		return m, nil

	case "shift+up", "K":
		m.moveSelected(-1)
		return m, nil
	case "shift+down", "J":
		m.moveSelected(1)
		return m, nil
	}

	var cmd tea.Cmd
	m.itemsList, cmd = m.itemsList.Update(msg)
	return m, cmd
}

func (m *appModel) adjustLength(delta int) {
	row, ok := m.itemsList.SelectedItem().(outlineRowItem)
	if !ok {
		return
	}
	m.ed.SetLengthWeight(row.item.ID, row.item.LengthWeight+delta)
	m.refreshOutline()
}

func (m *appModel) moveSelected(delta int) {
	from := m.itemsList.Index()
	to := from + delta
	if from < 0 || to < 0 || to >= len(m.itemsList.Items()) {
		return
	}
	m.ed.Reorder(from, to)
	m.refreshOutline()
	m.itemsList.Select(to)
}

func (m *appModel) selectByID(id int) {
	for i, it := range m.itemsList.Items() {
		if row, ok := it.(outlineRowItem); ok && row.item.ID == id {
			m.itemsList.Select(i)
			return
		}
	}
}

func (m appModel) viewOutline() string {
	var b strings.Builder
	if m.lastPayload != nil {
		title := strings.TrimSpace(m.lastPayload.Config.Title)
		if title == "" {
			title = m.lastPayload.UserQuery
		}
		b.WriteString("  " + styleHeader().Render(title) + "\n")
		b.WriteString("  " + styleMuted().Render(
			fmt.Sprintf("Từ khóa %q · run %s", m.lastPayload.UserQuery, shortID(m.lastPayload.RunID))) + "\n")
	}
	b.WriteString(m.itemsList.View())
	b.WriteString("\n" + styleMuted().Render(
		"enter mở/đóng · r đổi tên · k từ khóa · a thêm · d xóa · +/- độ dài · "+
			"l link nội bộ · shift+↑/↓ sắp xếp · esc quay lại · q thoát"))
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
