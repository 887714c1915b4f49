package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/valpere/codetran/internal/language"
	"github.com/valpere/codetran/internal/session"
)

const (
	sideBySideMinWidth = 100
	maxPaneLines       = 30
)

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderPanes())
	b.WriteString("\n")
	if m.notice != "" {
		b.WriteString(NoticeStyle(m.noticeErr).Render(m.notice))
		b.WriteString("\n")
	}
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(HelpStyle().Render(m.helpLine()))

	return b.String()
}

func (m *Model) renderHeader() string {
	from := LanguageStyle(true).Render(displayName(m.snap.InputLanguage))
	to := LanguageStyle(true).Render(displayName(m.snap.OutputLanguage))
	return lipgloss.JoinHorizontal(lipgloss.Center,
		TitleStyle().Render("codetran"),
		from,
		LanguageStyle(false).Render("→"),
		to,
	)
}

func (m *Model) renderPanes() string {
	translatedTitle := "Translated"
	if m.snap.CopyAcknowledged {
		translatedTitle += " (copied)"
	}

	if m.width >= sideBySideMinWidth {
		w := m.width/2 - 4
		return lipgloss.JoinHorizontal(lipgloss.Top,
			renderPane("Source", m.snap.SourceCode, w, m.mode == modeInsert),
			renderPane(translatedTitle, m.snap.TranslatedCode, w, false),
		)
	}
	w := m.width - 4
	return lipgloss.JoinVertical(lipgloss.Left,
		renderPane("Source", m.snap.SourceCode, w, m.mode == modeInsert),
		renderPane(translatedTitle, m.snap.TranslatedCode, w, false),
	)
}

func renderPane(title, body string, width int, focused bool) string {
	if width < 10 {
		width = 10
	}
	return PaneStyle(width, focused).Render(
		PaneTitleStyle().Render(title) + "\n" + tail(body, maxPaneLines),
	)
}

func (m *Model) renderStatus() string {
	status := m.snap.Status.String()
	text := statusColor(status).Render(status)
	if m.snap.Status == session.StatusInFlight {
		text += strings.Repeat(".", m.dots)
	}
	if m.mode == modePrompt {
		text = ":" + m.prompt
	}
	return StatusStyle(m.width).Render(text)
}

func (m *Model) helpLine() string {
	switch m.mode {
	case modeInsert:
		return "editing source · esc done"
	case modePrompt:
		return "load <path> · from <lang> · to <lang> · save · esc cancel"
	}
	return "t translate · tab/shift+tab languages · s swap · i edit · x clear · 1-4 examples · c copy · d download · : command · q quit"
}

func displayName(opt language.Option) string {
	if opt.IsZero() {
		return "(none)"
	}
	return opt.DisplayName
}

// tail keeps the last n lines so streamed output stays in view.
func tail(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return fmt.Sprintf("… %d lines above\n%s", len(lines)-n, strings.Join(lines[len(lines)-n:], "\n"))
}
