package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
)

// RAMA theme colors
var (
	RAMARed        = lipgloss.Color("#ef233c")
	RAMAFireRed    = lipgloss.Color("#d90429")
	RAMABackground = lipgloss.Color("#2b2d42")
	RAMAForeground = lipgloss.Color("#edf2f4")
	RAMAMuted      = lipgloss.Color("#8d99ae")

	ColorSuccess = lipgloss.Color("#2ecc71")
	ColorWarning = lipgloss.Color("#f39c12")
	ColorError   = RAMARed
	ColorInfo    = lipgloss.Color("#3498db")
)

// Styles for TUI components
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(RAMAForeground).
			Background(RAMARed).
			Padding(0, 1).
			Width(80)

	FooterStyle = lipgloss.NewStyle().
			Foreground(RAMAMuted).
			Background(RAMABackground).
			Padding(0, 1).
			Width(80)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(RAMARed).
			MarginBottom(1)

	ContentStyle = lipgloss.NewStyle().
			Foreground(RAMAForeground)

	MutedStyle = lipgloss.NewStyle().
			Foreground(RAMAMuted)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorInfo).
			Width(12)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true)

	StatStyle = lipgloss.NewStyle().
			Foreground(RAMARed).
			Bold(true)

	// Match view panes; the focused one gets the accent border
	FocusedPaneStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(RAMARed).
				Padding(0, 1)

	BlurredPaneStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(RAMAMuted).
				Padding(0, 1)
)

// newListDelegate styles list rows with the RAMA palette
func newListDelegate() list.DefaultDelegate {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = lipgloss.NewStyle().
		Foreground(RAMABackground).
		Background(RAMARed).
		Bold(true).
		Padding(0, 0, 0, 1)
	delegate.Styles.SelectedDesc = lipgloss.NewStyle().
		Foreground(RAMABackground).
		Background(RAMAFireRed).
		Padding(0, 0, 0, 1)
	delegate.Styles.NormalTitle = lipgloss.NewStyle().
		Foreground(RAMAForeground).
		Padding(0, 0, 0, 1)
	delegate.Styles.NormalDesc = lipgloss.NewStyle().
		Foreground(RAMAMuted).
		Padding(0, 0, 0, 1)
	return delegate
}

// FormatKeybinding formats a keybinding for display in footer
func FormatKeybinding(key, description string) string {
	keyStyle := lipgloss.NewStyle().
		Foreground(RAMARed).
		Bold(true)

	return keyStyle.Render(key) + " " + MutedStyle.Render(description)
}

// FormatHeader formats a header with consistent styling
func FormatHeader(title string) string {
	return HeaderStyle.Render(title)
}

// FormatFooter formats footer with keybindings
func FormatFooter(keybindings ...string) string {
	return FooterStyle.Render(strings.Join(keybindings, "  "))
}

// Status marker styles
var (
	OKMarker   = lipgloss.NewStyle().Foreground(ColorSuccess).SetString("[OK]")
	InfoMarker = lipgloss.NewStyle().Foreground(ColorInfo).SetString("[INFO]")
	WarnMarker = lipgloss.NewStyle().Foreground(ColorWarning).SetString("[WARN]")
	FailMarker = lipgloss.NewStyle().Foreground(ColorError).SetString("[FAIL]")
)

type statusKind int

const (
	statusNone statusKind = iota
	statusOK
	statusInfo
	statusWarn
	statusFail
)

// formatStatus prefixes message with the marker for kind
func formatStatus(kind statusKind, message string) string {
	switch kind {
	case statusOK:
		return OKMarker.String() + " " + message
	case statusInfo:
		return InfoMarker.String() + " " + message
	case statusWarn:
		return WarnMarker.String() + " " + message
	case statusFail:
		return FailMarker.String() + " " + message
	default:
		return message
	}
}
