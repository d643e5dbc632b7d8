package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/varunsharma/ostexplorer/internal/daterange"
)

// chromeLines is the vertical space taken by the header, filter summary,
// prompt area, and footer around the email list.
const chromeLines = 8

// Monochrome theme - adaptive for light and dark terminals
var (
	bgBase   = lipgloss.AdaptiveColor{Light: "#ffffff", Dark: "#000000"}
	bgCursor = lipgloss.AdaptiveColor{Light: "#e0e0e0", Dark: "#282828"}

	titleBarStyle = lipgloss.NewStyle().
			Bold(true).
			Background(lipgloss.AdaptiveColor{Light: "#e0e0e0", Dark: "#333333"}).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"}).
			Padding(0, 1)

	statsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#999999"}).
			Background(bgBase).
			Padding(0, 1)

	tableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Background(bgBase)

	separatorStyle = lipgloss.NewStyle().
			Faint(true).
			Background(bgBase)

	cursorRowStyle = lipgloss.NewStyle().
			Background(bgCursor)

	normalRowStyle = lipgloss.NewStyle().
			Background(bgBase)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#999999"}).
			Background(bgBase).
			Padding(0, 1)

	hiddenNoticeStyle = lipgloss.NewStyle().
				Italic(true).
				Faint(true).
				Background(bgBase).
				Padding(0, 1)

	spinnerStyle = lipgloss.NewStyle().
			Bold(true).
			Background(bgBase)

	flashStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#996600", Dark: "#ffcc00"}).
			Background(bgBase)

	detailHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Background(bgBase)

	selectedFieldStyle = lipgloss.NewStyle().
				Bold(true).
				Background(bgCursor)

	fieldStyle = lipgloss.NewStyle().
			Background(bgBase)
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.buildTitleBar())
	b.WriteString("\n")
	b.WriteString(m.buildStatsLine())
	b.WriteString("\n")

	if m.inputMode != inputNone {
		b.WriteString(m.buildPromptLine())
		b.WriteString("\n")
	}

	switch {
	case m.focus == focusDetail:
		b.WriteString(m.buildDetailView())
	case m.focus == focusFilter:
		b.WriteString(m.buildFilterPanel())
	default:
		b.WriteString(m.buildListView())
	}

	b.WriteString("\n")
	b.WriteString(m.buildFooter())
	return b.String()
}

// buildTitleBar builds the title bar line.
func (m Model) buildTitleBar() string {
	title := "ostexplorer"
	if m.version != "" && m.version != "dev" {
		title = fmt.Sprintf("ostexplorer [%s]", m.version)
	}
	return titleBarStyle.Render(title)
}

// buildStatsLine shows ingestion counts, the active range, and busy state.
func (m Model) buildStatsLine() string {
	parts := []string{
		fmt.Sprintf("%d loaded", m.sess.FullCount()),
		fmt.Sprintf("%d shown", m.sess.FilteredCount()),
	}
	if rng := m.sess.ActiveRange(); !rng.IsZero() {
		parts = append(parts, "filter: "+formatRange(rng))
	}
	if !m.sess.Visible() {
		parts = append(parts, "hidden")
	}
	line := statsStyle.Render(strings.Join(parts, " | "))

	if m.loading {
		frame := spinnerStyle.Render(spinnerFrames[m.spinnerFrame])
		pct := m.uploadPct
		if pct > 0 && pct < 100 {
			line += spinnerStyle.Render(fmt.Sprintf(" %s uploading %d%%", frame, pct))
		} else {
			line += spinnerStyle.Render(" " + frame + " working")
		}
	}
	return line
}

// buildPromptLine renders the path prompt.
func (m Model) buildPromptLine() string {
	label := "Upload path: "
	if m.inputMode == inputBrowsePath {
		label = "Service path: "
	}
	return statsStyle.Render(label) + m.input.View()
}

// buildListView renders the filtered email list, or the appropriate notice
// when there is nothing to render.
func (m Model) buildListView() string {
	if !m.sess.Visible() {
		if m.sess.FullCount() == 0 {
			return hiddenNoticeStyle.Render("No emails loaded. Press u to upload, b to browse, or l for sample data.")
		}
		return hiddenNoticeStyle.Render(fmt.Sprintf("%d emails loaded but hidden. Press v to show them.", m.sess.FullCount()))
	}

	emails := m.sess.FilteredSet()
	if len(emails) == 0 {
		return hiddenNoticeStyle.Render("No emails match the current filter. Press r to reset.")
	}

	width := m.width
	if width <= 0 {
		width = 100
	}
	dateW, senderW := 16, 24
	subjectW := width - dateW - senderW - 8
	if subjectW < 10 {
		subjectW = 10
	}

	var b strings.Builder
	header := fmt.Sprintf("  %-*s  %-*s  %-*s", dateW, "Date", senderW, "Sender", subjectW, "Subject")
	b.WriteString(tableHeaderStyle.Render(header))
	b.WriteString("\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("-", min(width, dateW+senderW+subjectW+6))))
	b.WriteString("\n")

	page := m.listPageSize()
	endRow := m.scrollOffset + page
	if endRow > len(emails) {
		endRow = len(emails)
	}

	for i := m.scrollOffset; i < endRow; i++ {
		e := emails[i]
		marker := " "
		attach := " "
		if e.HasAttachments {
			attach = "@"
		}
		row := fmt.Sprintf("%s %-*s %s %-*s  %-*s",
			marker,
			dateW, formatEmailDate(e.Date),
			attach,
			senderW, truncate(e.DisplaySender(), senderW),
			subjectW, truncate(e.DisplaySubject(), subjectW),
		)
		if i == m.cursor {
			b.WriteString(cursorRowStyle.Render(row))
		} else {
			b.WriteString(normalRowStyle.Render(row))
		}
		b.WriteString("\n")
	}

	b.WriteString(footerStyle.Render(fmt.Sprintf("%d-%d of %d", m.scrollOffset+1, endRow, len(emails))))
	return b.String()
}

// buildFilterPanel renders the six date fields and the presets.
func (m Model) buildFilterPanel() string {
	var b strings.Builder
	b.WriteString(tableHeaderStyle.Render("Date Filter"))
	b.WriteString("\n")

	rows := []struct {
		row   filterRow
		label string
		value string
	}{
		{rowStartYear, "Start year", fieldValue(m.builder, daterange.SideStart, 0)},
		{rowStartMonth, "Start month", fieldValue(m.builder, daterange.SideStart, 1)},
		{rowStartDay, "Start day", fieldValue(m.builder, daterange.SideStart, 2)},
		{rowEndYear, "End year", fieldValue(m.builder, daterange.SideEnd, 0)},
		{rowEndMonth, "End month", fieldValue(m.builder, daterange.SideEnd, 1)},
		{rowEndDay, "End day", fieldValue(m.builder, daterange.SideEnd, 2)},
	}
	for _, r := range rows {
		line := fmt.Sprintf("  %-12s %s", r.label, r.value)
		if m.filterCursor == r.row {
			b.WriteString(selectedFieldStyle.Render(line))
		} else {
			b.WriteString(fieldStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString(separatorStyle.Render("  presets"))
	b.WriteString("\n")
	for i, p := range daterange.Presets() {
		line := fmt.Sprintf("  %d. %s", i+1, p)
		if m.filterCursor == rowPresetFirst+filterRow(i) {
			b.WriteString(selectedFieldStyle.Render(line))
		} else {
			b.WriteString(fieldStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if rng := m.builder.Range(); !rng.IsZero() {
		b.WriteString(statsStyle.Render("pending: " + formatRange(rng)))
		b.WriteString("\n")
	}
	return b.String()
}

// buildDetailView renders the open email.
func (m Model) buildDetailView() string {
	e, ok := m.sess.Selected()
	if !ok {
		return hiddenNoticeStyle.Render("Nothing selected.")
	}

	var b strings.Builder
	b.WriteString(detailHeaderStyle.Render("Subject: " + e.DisplaySubject()))
	b.WriteString("\n")
	b.WriteString(fieldStyle.Render(fmt.Sprintf("From: %s <%s>", e.DisplaySender(), e.SenderEmail)))
	b.WriteString("\n")
	if e.Recipients != "" {
		b.WriteString(fieldStyle.Render("To: " + e.Recipients))
		b.WriteString("\n")
	}
	b.WriteString(fieldStyle.Render("Date: " + formatEmailDate(e.Date)))
	b.WriteString("\n")
	if e.HasAttachments {
		b.WriteString(fieldStyle.Render(fmt.Sprintf("Attachments (%d): %s", e.AttachmentCount, strings.Join(e.AttachmentNames, ", "))))
		b.WriteString("\n")
	}
	b.WriteString(separatorStyle.Render(strings.Repeat("-", 40)))
	b.WriteString("\n")

	lines := strings.Split(e.Body, "\n")
	start := m.detailScroll
	if start >= len(lines) {
		start = len(lines) - 1
	}
	if start < 0 {
		start = 0
	}
	page := m.listPageSize()
	end := start + page
	if end > len(lines) {
		end = len(lines)
	}
	for _, line := range lines[start:end] {
		b.WriteString(normalRowStyle.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

// buildFooter shows the flash message when present, otherwise key help.
func (m Model) buildFooter() string {
	if m.flashMessage != "" {
		return flashStyle.Render(m.flashMessage)
	}

	var help string
	switch {
	case m.inputMode != inputNone:
		help = "enter: go | esc: cancel"
	case m.focus == focusFilter:
		help = "j/k: field | h/l: change | enter: apply | c: clear | s: search | esc: back"
	case m.focus == focusDetail:
		help = "j/k: scroll | esc: back | q: quit"
	default:
		help = "u: upload | b: browse | l: sample | f: filter | s: search | r: reset | v: hide/show | enter: open | q: quit"
	}
	return footerStyle.Render(help)
}

// fieldValue formats one of a side's selections for the filter panel.
func fieldValue(b *daterange.Builder, side daterange.Side, field int) string {
	year, month, day := b.Selected(side)
	switch field {
	case 0:
		if year == 0 {
			return "----"
		}
		return fmt.Sprintf("%d", year)
	case 1:
		if month == 0 {
			return "---"
		}
		return month.String()[:3]
	default:
		if day == 0 {
			return "--"
		}
		return fmt.Sprintf("%d", day)
	}
}
