package ui

import "github.com/charmbracelet/lipgloss"

// ASCII art for the seriesrenamer header, kept as one string so the spacing survives
const headerASCII = `████████ ████████ ██████   ██ ████████ ████████ ██████   ████████ ██    ██   ████   ██      ██ ████████ ██████
██       ██       ██    ██ ██ ██       ██       ██    ██ ██       ████  ██ ██    ██ ████  ████ ██       ██    ██
████████ ██████   ██████   ██ ██████   ████████ ██████   ██████   ██  ████ ████████ ██  ██  ██ ██████   ██████
      ██ ██       ██  ██   ██ ██             ██ ██  ██   ██       ██    ██ ██    ██ ██      ██ ██       ██  ██
████████ ████████ ██    ██ ██ ████████ ████████ ██    ██ ████████ ██    ██ ██    ██ ██      ██ ████████ ██    ██`

// compactHeader replaces the block art on narrow terminals
const compactHeader = "S E R I E S R E N A M E R"

// FormatASCIIHeader renders the header for the given terminal width
func FormatASCIIHeader(width int) string {
	headerStyle := lipgloss.NewStyle().
		Foreground(RAMARed).
		Bold(true)

	if width > 0 && width < lipgloss.Width(headerASCII) {
		return headerStyle.Render(compactHeader)
	}
	return headerStyle.Render(headerASCII)
}

// FormatASCIIHeaderWithSubtext renders header with subtitle
func FormatASCIIHeaderWithSubtext(width int, subtext string) string {
	subtitle := lipgloss.NewStyle().
		Foreground(RAMAMuted).
		Render(subtext)

	return FormatASCIIHeader(width) + "\n\n" + subtitle
}
