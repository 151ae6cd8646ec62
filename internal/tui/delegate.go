package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"artigen/internal/model"
)

// outlineRowItem adapts an outline item for the bubbles list.
type outlineRowItem struct {
	item     model.OutlineItem
	renaming bool
}

func (i outlineRowItem) FilterValue() string { return i.item.Title }

func (i outlineRowItem) headerLine() string {
	twisty := glyphPending
	if i.item.Expanded {
		twisty = glyphActive
	}
	title := strings.TrimSpace(i.item.Title)
	if title == "" {
		title = "(chưa đặt tên)"
	}
	if i.renaming {
		title = title + " …"
	}
	link := ""
	if i.item.InternalLink {
		link = "  " + styleAccent().Render("[link]")
	}
	return fmt.Sprintf("%s H2: %s%s", twisty, title, link)
}

// detailLines renders the expanded body: length slider and keyword chips.
func (i outlineRowItem) detailLines() []string {
	if !i.item.Expanded {
		return nil
	}
	lines := []string{
		"   " + styleMuted().Render(fmt.Sprintf("Độ dài: %s %d%%", lengthBar(i.item.LengthWeight), i.item.LengthWeight)),
	}
	if len(i.item.Keywords) > 0 {
		chips := make([]string, len(i.item.Keywords))
		for k, kw := range i.item.Keywords {
			chips[k] = "[" + kw + "]"
		}
		lines = append(lines, "   "+styleMuted().Render("Từ khóa: "+strings.Join(chips, " ")))
	}
	return lines
}

func lengthBar(pct int) string {
	const cells = 10
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := pct * cells / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", cells-filled)
}

type outlineDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
}

func newOutlineDelegate() outlineDelegate {
	return outlineDelegate{
		normal:   lipgloss.NewStyle(),
		selected: styleSelected(),
	}
}

func (d outlineDelegate) Height() int  { return 3 }
func (d outlineDelegate) Spacing() int { return 0 }
func (d outlineDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d outlineDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	row, ok := item.(outlineRowItem)
	if !ok {
		return
	}
	contentW := m.Width()
	if contentW < 4 {
		return
	}

	style := d.normal
	if index == m.Index() {
		style = d.selected
	}

	lines := append([]string{row.headerLine()}, row.detailLines()...)
	for len(lines) < d.Height() {
		lines = append(lines, "")
	}
	lines = lines[:d.Height()]

	for li, line := range lines {
		if li > 0 {
			fmt.Fprint(w, "\n")
		}
		lineW := xansi.StringWidth(line)
		if lineW < contentW {
			line += strings.Repeat(" ", contentW-lineW)
		} else if lineW > contentW {
			line = xansi.Cut(line, 0, contentW)
		}
		fmt.Fprint(w, style.Render(line))
	}
}
