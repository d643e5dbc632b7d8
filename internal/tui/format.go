package tui

import (
	"strings"

	"github.com/varunsharma/ostexplorer/internal/daterange"
	"github.com/varunsharma/ostexplorer/internal/model"
)

// formatEmailDate renders a message timestamp for list and detail rows.
func formatEmailDate(ts *model.Timestamp) string {
	if ts == nil {
		return "(no date)"
	}
	return ts.Time().Format("2006-01-02 15:04")
}

// formatRange renders a date range compactly, eliding unset bounds.
func formatRange(rng daterange.Range) string {
	const day = "2006-01-02"
	switch {
	case rng.Start != nil && rng.End != nil:
		return rng.Start.Format(day) + " .. " + rng.End.Format(day)
	case rng.Start != nil:
		return "from " + rng.Start.Format(day)
	case rng.End != nil:
		return "until " + rng.End.Format(day)
	default:
		return "none"
	}
}

// truncate shortens s to fit in width columns, appending an ellipsis when
// anything was cut. Multi-line values collapse to their first line.
func truncate(s string, width int) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 1 {
		return string(runes[:width])
	}
	return string(runes[:width-1]) + "…"
}
