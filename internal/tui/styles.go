package tui

import "github.com/charmbracelet/lipgloss"

func TitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("141")).
		Bold(true).
		Padding(0, 1)
}

func LanguageStyle(active bool) lipgloss.Style {
	style := lipgloss.NewStyle().Padding(0, 1)
	if active {
		return style.Foreground(lipgloss.Color("39")).Bold(true)
	}
	return style.Foreground(lipgloss.Color("245"))
}

func PaneStyle(width int, focused bool) lipgloss.Style {
	color := lipgloss.Color("240")
	if focused {
		color = lipgloss.Color("62")
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1).
		Width(width)
}

func PaneTitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("214")).
		Bold(true)
}

func StatusStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Background(lipgloss.Color("235")).
		Padding(0, 1).
		Width(width)
}

func NoticeStyle(isError bool) lipgloss.Style {
	if isError {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Padding(0, 1)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Padding(0, 1)
}

func HelpStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Padding(0, 1)
}

func statusColor(status string) lipgloss.Style {
	style := lipgloss.NewStyle().Bold(true)
	switch status {
	case "in_flight":
		return style.Foreground(lipgloss.Color("220"))
	case "succeeded":
		return style.Foreground(lipgloss.Color("78"))
	case "failed":
		return style.Foreground(lipgloss.Color("203"))
	}
	return style.Foreground(lipgloss.Color("245"))
}
