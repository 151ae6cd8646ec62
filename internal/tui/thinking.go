package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"artigen/internal/notify"
	"artigen/internal/pipeline"
)

func (m appModel) updateThinking(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		// The run keeps going in the background; only the screen goes back.
		if !m.running {
			m.view = viewSetup
		}
		return m, nil
	}
	return m, nil
}

// thinkingCountdownSeconds is the upper-bound hint shown while a run is in
// flight; it is cosmetic and does not cancel the run.
const thinkingCountdownSeconds = 120

var thinkingStages = []pipeline.Stage{
	pipeline.StageSearch,
	pipeline.StageCrawl,
	pipeline.StageFilter,
}

func (m appModel) viewThinking() string {
	var b strings.Builder
	b.WriteString("\n  " + styleAccent().Render("Đang tạo dàn ý, vui lòng chờ...") + "\n\n")

	for i, s := range thinkingStages {
		glyph := glyphPending
		label := s.String()
		switch {
		case i < m.stageDoneCount:
			glyph = styleFlash(notify.Success).Render(glyphDone)
		case m.running && s == m.activeStage:
			glyph = styleAccent().Render(glyphActive)
			label = styleHeader().Render(label)
		default:
			label = styleMuted().Render(label)
		}
		fmt.Fprintf(&b, "   %s %s\n", glyph, label)
	}

	fmt.Fprintf(&b, "\n  %s\n", styleMuted().Render(
		fmt.Sprintf("%d/%d bước hoàn tất", m.stageDoneCount, len(thinkingStages))))
	if m.running && m.countdownLeft > 0 {
		fmt.Fprintf(&b, "  %s\n", styleMuted().Render(
			fmt.Sprintf("Còn tối đa %d:%02d", m.countdownLeft/60, m.countdownLeft%60)))
	}
	if !m.running && m.stageDoneCount == len(thinkingStages) {
		b.WriteString("  " + styleMuted().Render("Chuyển sang màn hình dàn ý...") + "\n")
	}
	return b.String()
}
