package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"artigen/internal/model"
	"artigen/internal/notify"
	"artigen/internal/pipeline"
	"artigen/internal/store"
	"artigen/internal/util"
	"artigen/internal/wizard"
)

func (m appModel) updateSetup(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "tab":
		m.setFocus((m.focus + 1) % focusCount)
		return m, nil
	case "shift+tab":
		m.setFocus((m.focus - 1 + focusCount) % focusCount)
		return m, nil

	case "left", "right":
		if m.cycleSelection(msg.String() == "right") {
			return m, nil
		}

	case "enter":
		switch m.focus {
		case focusTags:
			if tag := strings.TrimSpace(m.tagInput.Value()); tag != "" {
				m.addTag(tag)
				m.tagInput.SetValue("")
			}
			return m, nil
		case focusGenerate:
			return m.startPipeline()
		}

	case "ctrl+g":
		return m.startPipeline()

	case "ctrl+f":
		m.modal = modalFilePath
		m.input.Placeholder = "Đường dẫn file (.pdf, .docx, .xlsx)"
		m.input.SetValue("")
		m.input.Focus()
		return m, nil

	case "ctrl+x":
		if m.wiz.File() != nil {
			m.wiz.RemoveFile()
			return m, m.flash(notify.Info, "Đã xóa file, quay lại bước tải lên")
		}
		return m, nil

	case "ctrl+t":
		if m.wiz.LockState(wizard.StepText) == wizard.Locked {
			return m, m.flash(notify.Warning, "Hoàn thành bước tải file trước đã!")
		}
		m.modal = modalFreeText
		m.freeTextArea.SetValue(m.wiz.FreeText())
		m.freeTextArea.Focus()
		return m, nil

	case "ctrl+l":
		if m.wiz.LockState(wizard.StepLink) == wizard.Locked {
			return m, m.flash(notify.Warning, "Hoàn thành bước nhập nội dung trước đã!")
		}
		m.modal = modalProductLink
		m.input.Placeholder = "URL sản phẩm"
		m.input.SetValue(m.wiz.LinkDraft())
		m.input.Focus()
		return m, nil

	case "ctrl+d":
		draft := model.ArticleDraft{
			Query: m.queryInput.Value(),
			Title: m.titleInput.Value(),
			Type:  m.selected(m.catalog.ContentTypes, m.typeIdx),
			Bot:   m.selected(m.catalog.Bots, m.botIdx),
		}
		if err := m.st.SetJSON(store.KeyArticleDraft, draft); err != nil {
			return m, m.flash(notify.Error, "Không lưu được bản nháp")
		}
		return m, m.flash(notify.Success, "Đã lưu bản nháp")

	case "ctrl+r":
		var draft model.ArticleDraft
		if !m.st.GetJSON(store.KeyArticleDraft, &draft) {
			return m, m.flash(notify.Warning, "Chưa có bản nháp nào")
		}
		m.queryInput.SetValue(draft.Query)
		m.titleInput.SetValue(draft.Title)
		m.typeIdx = indexOf(m.catalog.ContentTypes, draft.Type)
		m.botIdx = indexOf(m.catalog.Bots, draft.Bot)
		return m, m.flash(notify.Success, "Đã khôi phục bản nháp")

	case "ctrl+o":
		m.view = viewOutline
		m.refreshOutline()
		return m, nil
	}

	// Everything else feeds the focused input.
	var cmd tea.Cmd
	switch m.focus {
	case focusQuery:
		before := m.queryInput.Value()
		m.queryInput, cmd = m.queryInput.Update(msg)
		if q := strings.TrimSpace(m.queryInput.Value()); q != before && len([]rune(q)) >= 3 {
			return m, tea.Batch(cmd, m.suggestCmd(m.queryInput.Value()))
		}
	case focusTitle:
		m.titleInput, cmd = m.titleInput.Update(msg)
	case focusLength:
		m.lengthInput, cmd = m.lengthInput.Update(msg)
	case focusTags:
		m.tagInput, cmd = m.tagInput.Update(msg)
	case focusContext:
		m.contextArea, cmd = m.contextArea.Update(msg)
	case focusWebsite:
		m.websiteInput, cmd = m.websiteInput.Update(msg)
	}
	return m, cmd
}

func (m *appModel) setFocus(f setupFocus) {
	m.focus = f
	m.queryInput.Blur()
	m.titleInput.Blur()
	m.lengthInput.Blur()
	m.tagInput.Blur()
	m.contextArea.Blur()
	m.websiteInput.Blur()
	switch f {
	case focusQuery:
		m.queryInput.Focus()
	case focusTitle:
		m.titleInput.Focus()
	case focusLength:
		m.lengthInput.Focus()
	case focusTags:
		m.tagInput.Focus()
	case focusContext:
		m.contextArea.Focus()
	case focusWebsite:
		m.websiteInput.Focus()
	}
}

// cycleSelection moves the focused select field. Returns false when the focus
// is not on a select so arrow keys can reach the text inputs.
func (m *appModel) cycleSelection(forward bool) bool {
	step := 1
	if !forward {
		step = -1
	}
	switch m.focus {
	case focusType:
		m.typeIdx = cycle(m.typeIdx, step, len(m.catalog.ContentTypes))
	case focusTone:
		m.toneIdx = cycle(m.toneIdx, step, len(m.catalog.WritingTones))
	case focusLang:
		m.langIdx = cycle(m.langIdx, step, len(m.catalog.Languages))
	case focusBot:
		m.botIdx = cycle(m.botIdx, step, len(m.catalog.Bots))
	case focusSource:
		m.sourceInternet = !m.sourceInternet
	default:
		return false
	}
	return true
}

func cycle(i, step, n int) int {
	if n == 0 {
		return 0
	}
	return (i + step + n) % n
}

func (m *appModel) addTag(tag string) {
	for _, t := range m.tags {
		if strings.EqualFold(t, tag) {
			return
		}
	}
	m.tags = append(m.tags, tag)
}

func (m appModel) selected(opts []string, idx int) string {
	if idx < 0 || idx >= len(opts) {
		return ""
	}
	return opts[idx]
}

func indexOf(opts []string, v string) int {
	for i, o := range opts {
		if o == v {
			return i
		}
	}
	return 0
}

func (m appModel) startPipeline() (tea.Model, tea.Cmd) {
	if m.running {
		return m, nil
	}

	input := pipeline.Input{
		SourceType:  "internet",
		Query:       m.queryInput.Value(),
		Title:       m.titleInput.Value(),
		Context:     m.contextArea.Value(),
		Website:     m.websiteInput.Value(),
		ContentType: m.selected(m.catalog.ContentTypes, m.typeIdx),
		Tone:        m.selected(m.catalog.WritingTones, m.toneIdx),
		Language:    m.selected(m.catalog.Languages, m.langIdx),
		Bot:         m.selected(m.catalog.Bots, m.botIdx),
		Length:      m.lengthInput.Value(),
		Tags:        m.tags,
		Private:     m.wiz.PrivateData(),
	}
	if !m.sourceInternet {
		input.SourceType = "private"
	}

	ch := make(chan tea.Msg, 32)
	m.msgCh = ch
	m.running = true
	m.view = viewThinking
	m.stageDoneCount = 0
	m.activeStage = pipeline.StageSearch
	m.countdownLeft = thinkingCountdownSeconds
	m.countdownSeq++

	runner := pipeline.NewRunner(m.client, m.st, notify.Func(func(l notify.Level, text string) {
		ch <- notifyMsg{level: l, text: text}
	}), m.logger)
	runner.OnStage = func(s pipeline.Stage, done bool) {
		ch <- stageMsg{stage: s, done: done}
	}

	run := func() tea.Msg {
		payload, err := runner.Run(context.Background(), input)
		ch <- pipelineDoneMsg{payload: payload, err: err}
		return nil
	}
	return m, tea.Batch(listenCh(ch), run, m.countdownTick())
}

func (m appModel) viewSetup() string {
	var b strings.Builder

	kv := func(f setupFocus, label, value string) {
		marker := "  "
		if m.focus == f {
			marker = styleAccent().Render("> ")
		}
		fmt.Fprintf(&b, "%s%s %s\n", marker, styleMuted().Render(label), value)
	}

	kv(focusQuery, "Từ khóa chính:", m.queryInput.View())
	if len(m.suggestions) > 0 && m.focus == focusQuery {
		b.WriteString("    " + styleMuted().Render("Gợi ý: "+strings.Join(m.suggestions, " · ")) + "\n")
	}
	kv(focusTitle, "Tiêu đề:     ", m.titleInput.View())
	kv(focusType, "Loại bài:    ", selectView(m.catalog.ContentTypes, m.typeIdx))
	kv(focusTone, "Giọng văn:   ", selectView(m.catalog.WritingTones, m.toneIdx))
	kv(focusLang, "Ngôn ngữ:    ", selectView(m.catalog.Languages, m.langIdx))
	kv(focusBot, "AI Model:    ", selectView(m.catalog.Bots, m.botIdx))
	kv(focusLength, "Số từ:       ", m.lengthInput.View())
	kv(focusTags, "Tags:        ", m.tagInput.View()+"  "+renderTags(m.tags))
	kv(focusContext, "Ngữ cảnh:    ", contextCountLabel(m.contextArea.Value()))
	b.WriteString(indentLines(m.contextArea.View(), "    ") + "\n")
	kv(focusWebsite, "Website:     ", m.websiteInput.View())
	kv(focusSource, "Nguồn:       ", sourceLabel(m.sourceInternet))

	b.WriteString("\n" + m.viewWizardPanel() + "\n")

	genLabel := " Tạo dàn ý "
	if m.focus == focusGenerate {
		genLabel = styleSelected().Render(genLabel)
	} else {
		genLabel = styleAccent().Render(genLabel)
	}
	b.WriteString("\n  " + genLabel + "\n")
	b.WriteString("\n" + styleMuted().Render(
		"tab chuyển trường · ctrl+f file · ctrl+t nội dung · ctrl+l link sản phẩm · "+
			"ctrl+d lưu nháp · ctrl+r mở nháp · ctrl+g tạo · ctrl+c thoát"))
	return b.String()
}

// contextWordLimit is when the word counter turns into a warning.
const contextWordLimit = 300

func contextCountLabel(text string) string {
	n := util.CountWords(text)
	if n == 0 {
		return ""
	}
	label := fmt.Sprintf("%d từ", n)
	if n > contextWordLimit {
		return styleFlash(notify.Warning).Render(label + " (quá dài)")
	}
	return styleMuted().Render(label)
}

func selectView(opts []string, idx int) string {
	if len(opts) == 0 {
		return styleMuted().Render("(trống)")
	}
	if idx < 0 || idx >= len(opts) {
		idx = 0
	}
	return fmt.Sprintf("◂ %s ▸", opts[idx])
}

func sourceLabel(internet bool) string {
	if internet {
		return "◂ Internet ▸"
	}
	return "◂ Dữ liệu riêng ▸"
}

func renderTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = "#" + t
	}
	return styleMuted().Render(strings.Join(parts, " "))
}

// viewWizardPanel renders the gated sub-steps with their lock states.
func (m appModel) viewWizardPanel() string {
	var b strings.Builder
	b.WriteString("  " + styleHeader().Render("Dữ liệu riêng") + "\n")

	steps := []wizard.Step{wizard.StepFile, wizard.StepText, wizard.StepLink}
	for _, s := range steps {
		state := m.wiz.LockState(s)
		line := fmt.Sprintf("  %s %s", lockGlyph(state), s.String())
		if detail := m.stepDetail(s); detail != "" {
			line += "  " + styleMuted().Render(detail)
		}
		if state == wizard.Locked {
			line = styleMuted().Render(line)
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func lockGlyph(s wizard.LockState) string {
	switch s {
	case wizard.Completed:
		return glyphDone
	case wizard.Active:
		return glyphActive
	default:
		return glyphLocked
	}
}

func (m appModel) stepDetail(s wizard.Step) string {
	switch s {
	case wizard.StepFile:
		if f := m.wiz.File(); f != nil {
			return fmt.Sprintf("%s (%s)", f.Name, util.FormatFileSize(f.SizeBytes))
		}
		return "chưa có file"
	case wizard.StepText:
		if n := util.CountWords(m.wiz.FreeText()); n > 0 {
			return fmt.Sprintf("%d từ", n)
		}
		return ""
	case wizard.StepLink:
		if n := len(m.wiz.Links()); n > 0 {
			return fmt.Sprintf("%d link", n)
		}
		return ""
	}
	return ""
}

func indentLines(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = prefix + lines[i]
	}
	return strings.Join(lines, "\n")
}
