package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"artigen/internal/model"
	"artigen/internal/notify"
	"artigen/internal/util"
	"artigen/internal/wizard"
)

func (m *appModel) closeModal() {
	m.modal = modalNone
	m.modalForID = 0
	m.input.SetValue("")
	m.input.Blur()
	m.freeTextArea.Blur()
}

func (m appModel) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.modal {
	case modalFilePath:
		return m.updateFileModal(msg)
	case modalFreeText:
		return m.updateFreeTextModal(msg)
	case modalProductLink:
		return m.updateLinkModal(msg)
	case modalRename:
		return m.updateRenameModal(msg)
	case modalKeyword:
		return m.updateKeywordModal(msg)
	case modalConfirmDelete:
		return m.updateConfirmDeleteModal(msg)
	}
	m.closeModal()
	return m, nil
}

func (m appModel) updateFileModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		m.closeModal()
		return m, nil
	case "enter":
		path := strings.TrimSpace(m.input.Value())
		m.closeModal()
		if path == "" {
			return m, nil
		}
		file, err := wizard.LoadFile(path)
		if err != nil {
			return m, m.flash(notify.Error, "Không đọc được file: "+err.Error())
		}
		if err := m.wiz.SubmitFiles([]model.UploadedFile{file}); err != nil {
			return m, m.flash(notify.Error, err.Error())
		}
		return m, m.flash(notify.Success,
			fmt.Sprintf("Đã tải lên %s (%s)", file.Name, util.FormatFileSize(file.SizeBytes)))
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m appModel) updateFreeTextModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		m.closeModal()
		return m, nil
	}
	var cmd tea.Cmd
	m.freeTextArea, cmd = m.freeTextArea.Update(msg)
	// Mirror each edit into the engine so the sub-step advances as the user
	// types, exactly like the form behaves.
	m.wiz.SetFreeText(m.freeTextArea.Value())
	return m, cmd
}

func (m appModel) updateLinkModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.wiz.SetLinkDraft(m.input.Value())
		m.closeModal()
		return m, nil
	case "ctrl+x":
		if n := len(m.wiz.Links()); n > 0 {
			m.wiz.RemoveProductLink(n - 1)
		}
		return m, nil
	case "enter":
		url := strings.TrimSpace(m.input.Value())
		if url == "" {
			m.wiz.SetLinkDraft("")
			m.closeModal()
			return m, nil
		}
		m.wiz.AddProductLink(url)
		m.wiz.SetLinkDraft("")
		m.input.SetValue("")
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m appModel) updateRenameModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id, ok := m.ed.RenamingID()
	if !ok {
		m.closeModal()
		return m, nil
	}
	switch msg.String() {
	case "esc":
		// Blank commit keeps the old title and clears the mode.
		m.ed.CommitRename(id, "")
		m.closeModal()
		m.refreshOutline()
		return m, nil
	case "enter":
		m.ed.CommitRename(id, m.input.Value())
		m.closeModal()
		m.refreshOutline()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m appModel) updateKeywordModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		m.closeModal()
		m.refreshOutline()
		return m, nil
	case "enter":
		if m.ed.AddKeyword(m.modalForID, m.input.Value()) {
			m.input.SetValue("")
			m.refreshOutline()
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m appModel) updateConfirmDeleteModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		m.ed.Delete(m.modalForID)
		m.closeModal()
		m.refreshOutline()
		return m, m.flash(notify.Info, "Đã xóa mục")
	case "n", "esc":
		m.closeModal()
		return m, nil
	}
	return m, nil
}

func (m appModel) viewModal() string {
	var title, body string
	switch m.modal {
	case modalFilePath:
		title = "Tải file lên"
		body = m.input.View()
	case modalFreeText:
		title = fmt.Sprintf("Nội dung tham khảo (%d từ)", util.CountWords(m.freeTextArea.Value()))
		preview := renderMarkdown(m.freeTextArea.Value(), modalWidth(m.width)-4)
		body = m.freeTextArea.View()
		if preview != "" {
			body += "\n" + styleMuted().Render("Xem trước:") + "\n" + preview
		}
	case modalProductLink:
		title = "Link sản phẩm"
		var links []string
		for i, l := range m.wiz.Links() {
			links = append(links, fmt.Sprintf("%d. %s", i+1, l.URL))
		}
		body = m.input.View()
		if len(links) > 0 {
			body += "\n" + styleMuted().Render(strings.Join(links, "\n"))
		}
		body += "\n" + styleMuted().Render("enter thêm · ctrl+x xóa link cuối · esc đóng")
	case modalRename:
		title = "Đổi tên mục"
		body = m.input.View()
	case modalKeyword:
		title = "Thêm từ khóa"
		body = m.input.View()
	case modalConfirmDelete:
		title = "Xóa mục?"
		body = "y xác nhận · n hủy"
	}

	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Width(modalWidth(m.width))
	return frame.Render(styleHeader().Render(title) + "\n" + body)
}

func modalWidth(w int) int {
	if w <= 0 {
		return 60
	}
	if w > 70 {
		return 66
	}
	if w < 24 {
		return w
	}
	return w - 4
}
