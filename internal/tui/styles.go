package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var styleTitle = lipgloss.NewStyle().
	Bold(true).
	PaddingRight(1)

var styleLabel = lipgloss.NewStyle().
	Faint(true).
	Width(8)

var styleLabelFocused = lipgloss.NewStyle().
	Bold(true).
	Width(8)

var styleMethod = lipgloss.NewStyle().
	PaddingLeft(1).
	PaddingRight(1)

var styleMethodSelected = lipgloss.NewStyle().
	Bold(true).
	Reverse(true).
	PaddingLeft(1).
	PaddingRight(1)

var styleHelp = lipgloss.NewStyle().Faint(true)

var styleDefault = lipgloss.NewStyle().
	Bold(true).
	PaddingRight(1)

var style2xx = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#04B575")).
	PaddingRight(1)

var style3xx = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#FDD835")).
	PaddingRight(1)

var style4xx = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#FFA726")).
	PaddingRight(1)

var style5xx = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#FF7043")).
	PaddingRight(1)

// StatusStyle picks the colour for a status line by its leading code.
func StatusStyle(status string) lipgloss.Style {
	code, _ := strconv.Atoi(strings.SplitN(status, " ", 2)[0])
	switch {
	case code >= 200 && code < 300:
		return style2xx
	case code >= 300 && code < 400:
		return style3xx
	case code >= 400 && code < 500:
		return style4xx
	case code >= 500 && code < 600:
		return style5xx
	case code == 0 && status != "":
		return style5xx
	}
	return styleDefault
}
