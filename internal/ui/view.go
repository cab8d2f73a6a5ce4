package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var header, body, footer string

	switch m.mode {
	case ViewForm:
		body = m.renderForm()
		footer = FormatFooter(
			FormatKeybinding("Tab", "Next field"),
			FormatKeybinding("Enter", "Fetch"),
			FormatKeybinding("Esc", "Exit"),
		)
		return lipgloss.JoinVertical(lipgloss.Left, body, footer)

	case ViewMatch:
		header = FormatHeader(fmt.Sprintf("MATCH FILES TO SEASON %d", m.season))
		body = m.renderMatch()
		footer = FormatFooter(
			FormatKeybinding("Tab", "Switch pane"),
			FormatKeybinding("Enter", "Assign"),
			FormatKeybinding("U", "Unassign"),
			FormatKeybinding("A", "Auto-match"),
			FormatKeybinding("C", "Confirm"),
			FormatKeybinding("Esc", "Back"),
		)

	case ViewConfirm:
		header = FormatHeader("CONFIRM RENAMES")
		if m.opts.DryRun {
			header = FormatHeader("CONFIRM RENAMES (DRY RUN)")
		}
		body = m.viewport.View()
		footer = FormatFooter(
			FormatKeybinding("Y", "Rename"),
			FormatKeybinding("N", "Back"),
			FormatKeybinding("↑↓", "Scroll"),
			MutedStyle.Render(fmt.Sprintf("%d%%", int(m.viewport.ScrollPercent()*100))),
		)

	case ViewRenaming:
		header = FormatHeader("RENAMING")
		body = "\n  " + m.spinner.View() + " " + ContentStyle.Render(fmt.Sprintf("Renaming %d file(s)...", m.assign.Len()))
		footer = FormatFooter(MutedStyle.Render("Please wait..."))

	case ViewReport:
		header = FormatHeader("RENAME REPORT")
		body = m.viewport.View()
		footer = FormatFooter(
			FormatKeybinding("R", "Start over"),
			FormatKeybinding("↑↓", "Scroll"),
			FormatKeybinding("Esc", "Exit"),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m Model) renderForm() string {
	var sb strings.Builder

	sb.WriteString(FormatASCIIHeaderWithSubtext(m.width, "Rename a season of episodes from its IMDb listing") + "\n\n")

	labels := [inputCount]string{"IMDb link", "Directory", "Season"}
	for i, in := range m.inputs {
		label := LabelStyle.Render(labels[i])
		if i == m.focused {
			label = LabelStyle.Foreground(RAMARed).Bold(true).Render(labels[i])
		}
		sb.WriteString(label + " " + in.View() + "\n")
	}
	sb.WriteString("\n")

	if m.fetching {
		sb.WriteString(m.spinner.View() + " ")
	}
	if m.status != "" {
		sb.WriteString(formatStatus(m.statusKind, m.status))
	}
	sb.WriteString("\n")

	return sb.String()
}

func (m Model) renderMatch() string {
	epStyle, fileStyle := BlurredPaneStyle, FocusedPaneStyle
	if m.pane == paneEpisodes {
		epStyle, fileStyle = FocusedPaneStyle, BlurredPaneStyle
	}

	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		epStyle.Render(m.episodes.View()),
		fileStyle.Render(m.files.View()),
	)

	counts := fmt.Sprintf("%s of %s episodes assigned, %s files unassigned",
		StatStyle.Render(fmt.Sprintf("%d", m.assign.Len())),
		StatStyle.Render(fmt.Sprintf("%d", len(m.assign.Episodes()))),
		StatStyle.Render(fmt.Sprintf("%d", len(m.assign.Unassigned()))),
	)

	status := ""
	if m.status != "" {
		status = formatStatus(m.statusKind, m.status)
	}

	return lipgloss.JoinVertical(lipgloss.Left, panes, MutedStyle.Render(counts), status)
}

// renderPreview lists the planned names for the confirm view
func (m Model) renderPreview() string {
	var sb strings.Builder

	if m.root != "" {
		sb.WriteString(LabelStyle.Render("Directory") + " " + ContentStyle.Render(m.root) + "\n\n")
	}

	failures := 0
	for _, entry := range m.preview {
		old := filepath.Base(entry.File.Path)
		if entry.Err != nil {
			failures++
			sb.WriteString(fmt.Sprintf("  %s %s %s\n",
				ErrorStyle.Render("SKIP"),
				ContentStyle.Render(old),
				MutedStyle.Render("("+entry.Err.Error()+")")))
			continue
		}
		marker := SuccessStyle.Render("  OK")
		if old == entry.TargetName {
			marker = MutedStyle.Render("SAME")
		}
		sb.WriteString(fmt.Sprintf("  %s %s\n       %s %s\n",
			marker,
			MutedStyle.Render(old),
			MutedStyle.Render("→"),
			ContentStyle.Render(entry.TargetName)))
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%s file(s) will be renamed", StatStyle.Render(fmt.Sprintf("%d", len(m.preview)-failures))))
	if failures > 0 {
		sb.WriteString(", " + WarningStyle.Render(fmt.Sprintf("%d will fail", failures)))
	}
	if unassigned := len(m.assign.Unassigned()); unassigned > 0 {
		sb.WriteString(MutedStyle.Render(fmt.Sprintf(" (%d unassigned file(s) left untouched)", unassigned)))
	}
	sb.WriteString("\n")

	return sb.String()
}

func (m Model) renderReport(msg renameDoneMsg) string {
	var sb strings.Builder

	sb.WriteString(formatStatus(m.statusKind, m.status) + "\n\n")

	for _, o := range msg.outcomes {
		if o.Success {
			sb.WriteString(formatStatus(statusOK, fmt.Sprintf("%s → %s", filepath.Base(o.OldPath), filepath.Base(o.NewPath))) + "\n")
		} else {
			sb.WriteString(formatStatus(statusFail, fmt.Sprintf("%s: %s", filepath.Base(o.OldPath), o.Error)) + "\n")
		}
	}
	sb.WriteString("\n")

	if m.opts.DryRun {
		sb.WriteString(WarningStyle.Render("Dry run: no files were changed") + "\n")
	}
	if msg.journalID != "" {
		sb.WriteString(MutedStyle.Render("Undo with: seriesrenamer undo "+msg.journalID) + "\n")
	}
	if msg.reportPath != "" {
		sb.WriteString(MutedStyle.Render("Report saved to "+msg.reportPath) + "\n")
	}
	if msg.reportErr != nil {
		sb.WriteString(formatStatus(statusWarn, "Report not saved: "+msg.reportErr.Error()) + "\n")
	}

	return sb.String()
}
