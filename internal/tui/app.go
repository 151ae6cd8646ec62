package tui

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"artigen/internal/api"
	"artigen/internal/config"
	"artigen/internal/model"
	"artigen/internal/notify"
	"artigen/internal/outline"
	"artigen/internal/pipeline"
	"artigen/internal/store"
	"artigen/internal/wizard"
)

type appModel struct {
	cfg    *config.Config
	st     store.Store
	logger *slog.Logger
	client *api.Client
	wiz    *wizard.Engine
	ed     *outline.Editor

	width  int
	height int

	view view

	// Setup form state.
	focus        setupFocus
	queryInput   textinput.Model
	titleInput   textinput.Model
	lengthInput  textinput.Model
	tagInput     textinput.Model
	websiteInput textinput.Model
	contextArea  textarea.Model
	tags         []string
	// sourceInternet selects the pipeline input source; the wizard's private
	// data is sent either way.
	sourceInternet bool

	catalog         model.Catalog
	catalogDegraded bool
	typeIdx         int
	toneIdx         int
	langIdx         int
	botIdx          int

	suggestions []string

	// Modal state. input is shared by the single-line modals; freeTextArea
	// backs the free-text modal.
	modal        modalKind
	modalForID   int
	input        textinput.Model
	freeTextArea textarea.Model

	// Thinking screen state.
	stageDoneCount int
	activeStage    pipeline.Stage
	msgCh          chan tea.Msg
	running        bool
	countdownLeft  int
	countdownSeq   int

	// Outline screen.
	itemsList   list.Model
	lastPayload *model.PipelinePayload

	flashText  string
	flashLevel notify.Level
	flashSeq   int

	navigateSeq int
}

func newAppModel(cfg *config.Config, st store.Store, logger *slog.Logger) appModel {
	client := api.NewClient(cfg.API.BaseURL, cfg.Timeout(), cfg.API.RatePerMinute, logger)
	m := appModel{
		cfg:            cfg,
		st:             st,
		logger:         logger,
		client:         client,
		wiz:            wizard.NewEngine(st),
		ed:             outline.NewEditor(st),
		catalog:        api.FallbackCatalog(),
		sourceInternet: true,
	}
	m.queryInput = textinput.New()
	m.queryInput.Placeholder = "Từ khóa chính"
	m.queryInput.Focus()
	m.titleInput = textinput.New()
	m.titleInput.Placeholder = "Tiêu đề bài viết"
	m.lengthInput = textinput.New()
	m.lengthInput.Placeholder = "1500"
	m.lengthInput.SetValue("1500")
	m.tagInput = textinput.New()
	m.tagInput.Placeholder = "Thêm tag rồi Enter"
	m.websiteInput = textinput.New()
	m.websiteInput.Placeholder = "https://..."
	m.contextArea = textarea.New()
	m.contextArea.Placeholder = "Ngữ cảnh bổ sung"
	m.contextArea.SetHeight(3)

	m.input = textinput.New()
	m.freeTextArea = textarea.New()
	m.freeTextArea.Placeholder = "Dán nội dung tham khảo..."
	m.freeTextArea.SetHeight(8)
	m.freeTextArea.SetValue(m.wiz.FreeText())

	m.itemsList = newOutlineList()
	m.refreshOutline()

	// Restore the saved draft, if any, the way the form did on page load.
	var draft model.ArticleDraft
	if st.GetJSON(store.KeyArticleDraft, &draft) {
		m.queryInput.SetValue(draft.Query)
		m.titleInput.SetValue(draft.Title)
		m.typeIdx = indexOf(m.catalog.ContentTypes, draft.Type)
		m.botIdx = indexOf(m.catalog.Bots, draft.Bot)
		m.flashText = "Đã khôi phục bản nháp"
		m.flashLevel = notify.Info
		m.flashSeq = 1
	}
	return m
}

func newOutlineList() list.Model {
	l := list.New([]list.Item{}, newOutlineDelegate(), 0, 0)
	// The app renders its own chrome, so keep the list bare.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	l.KeyMap.Quit.SetKeys("q")
	return l
}

func (m appModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadCatalogCmd()}
	if m.flashText != "" {
		seq := m.flashSeq
		cmds = append(cmds, tea.Tick(m.cfg.FlashDuration(), func(time.Time) tea.Msg {
			return flashDoneMsg{seq: seq}
		}))
	}
	return tea.Batch(cmds...)
}

func (m appModel) loadCatalogCmd() tea.Cmd {
	client := m.client
	timeout := m.cfg.Timeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		cat, degraded := client.LoadCatalog(ctx)
		return catalogMsg{catalog: cat, degraded: degraded}
	}
}

// suggestCmd fetches keyword suggestions; stale responses are dropped by
// comparing against the query input when the message arrives.
func (m appModel) suggestCmd(query string) tea.Cmd {
	client := m.client
	timeout := m.cfg.Timeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		suggestions, degraded := client.SuggestKeywords(ctx, query)
		return suggestMsg{query: query, suggestions: suggestions, degraded: degraded}
	}
}

// flash shows a transient message; the returned cmd clears it after the
// configured duration unless a newer flash superseded it.
func (m *appModel) flash(level notify.Level, text string) tea.Cmd {
	m.flashText = text
	m.flashLevel = level
	m.flashSeq++
	seq := m.flashSeq
	return tea.Tick(m.cfg.FlashDuration(), func(time.Time) tea.Msg { return flashDoneMsg{seq: seq} })
}

func listenCh(ch chan tea.Msg) tea.Cmd {
	return func() tea.Msg { return <-ch }
}

func (m appModel) countdownTick() tea.Cmd {
	seq := m.countdownSeq
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return countdownTickMsg{seq: seq} })
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.itemsList.SetSize(msg.Width-2, msg.Height-6)
		return m, nil

	case flashDoneMsg:
		if msg.seq == m.flashSeq {
			m.flashText = ""
		}
		return m, nil

	case countdownTickMsg:
		if msg.seq != m.countdownSeq || !m.running || m.countdownLeft <= 0 {
			return m, nil
		}
		m.countdownLeft--
		return m, m.countdownTick()

	case catalogMsg:
		m.catalog = msg.catalog
		m.catalogDegraded = msg.degraded
		m.clampSelections()
		if msg.degraded {
			return m, m.flash(notify.Warning, "Không kết nối được máy chủ, dùng danh mục ngoại tuyến")
		}
		return m, nil

	case suggestMsg:
		// Drop stale responses from earlier keystrokes.
		if msg.query != m.queryInput.Value() {
			return m, nil
		}
		m.suggestions = msg.suggestions
		return m, nil

	case notifyMsg:
		cmd := m.flash(msg.level, msg.text)
		if m.running {
			return m, tea.Batch(cmd, listenCh(m.msgCh))
		}
		return m, cmd

	case stageMsg:
		if msg.done {
			m.stageDoneCount++
		} else {
			m.activeStage = msg.stage
		}
		if m.running {
			return m, listenCh(m.msgCh)
		}
		return m, nil

	case pipelineDoneMsg:
		m.running = false
		m.msgCh = nil
		if msg.err != nil {
			m.view = viewSetup
			return m, nil
		}
		m.navigateSeq++
		seq := m.navigateSeq
		return m, tea.Tick(m.cfg.NavigateDelay(), func(time.Time) tea.Msg {
			return navigateOutlineMsg{seq: seq}
		})

	case navigateOutlineMsg:
		if msg.seq != m.navigateSeq {
			return m, nil
		}
		m.consumePayload()
		m.view = viewOutline
		m.refreshOutline()
		return m, nil

	case tea.KeyMsg:
		if m.modal != modalNone {
			return m.updateModal(msg)
		}
		switch m.view {
		case viewSetup:
			return m.updateSetup(msg)
		case viewThinking:
			return m.updateThinking(msg)
		case viewOutline:
			return m.updateOutline(msg)
		}
	}

	return m, nil
}

// consumePayload takes the pending pipeline payload, if any. Reads are
// destructive; a reload of the outline screen will not see it again.
func (m *appModel) consumePayload() {
	raw, ok := m.st.TakeHandoff(store.HandoffPipelinePayload)
	if !ok {
		return
	}
	var p model.PipelinePayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		m.logger.Warn("Discarding unreadable pipeline payload", "error", err)
		return
	}
	m.lastPayload = &p
}

func (m *appModel) clampSelections() {
	m.typeIdx = clampIdx(m.typeIdx, len(m.catalog.ContentTypes))
	m.toneIdx = clampIdx(m.toneIdx, len(m.catalog.WritingTones))
	m.langIdx = clampIdx(m.langIdx, len(m.catalog.Languages))
	m.botIdx = clampIdx(m.botIdx, len(m.catalog.Bots))
}

func clampIdx(i, n int) int {
	if n == 0 {
		return 0
	}
	if i < 0 || i >= n {
		return 0
	}
	return i
}

func (m appModel) View() string {
	var body string
	switch m.view {
	case viewThinking:
		body = m.viewThinking()
	case viewOutline:
		body = m.viewOutline()
	default:
		body = m.viewSetup()
	}
	if m.modal != modalNone {
		body = m.viewModal()
	}

	header := styleHeader().Render("artigen · " + screenTitle(m.view))
	flash := ""
	if m.flashText != "" {
		flash = styleFlash(m.flashLevel).Render(m.flashText)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, flash)
}

func screenTitle(v view) string {
	switch v {
	case viewThinking:
		return "Đang xử lý"
	case viewOutline:
		return "Dàn ý bài viết"
	default:
		return "Thiết lập bài viết"
	}
}
