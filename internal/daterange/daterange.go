// Package daterange builds validated date ranges from cascading
// year/month/day selections or named presets.
package daterange

import (
	"fmt"
	"time"
)

// Range is a pair of optional instants bounding a date filter. A range whose
// start is after its end is legal and simply matches nothing.
type Range struct {
	Start *time.Time
	End   *time.Time
}

// IsZero reports whether neither bound is set.
func (r Range) IsZero() bool {
	return r.Start == nil && r.End == nil
}

// Side identifies which end of the range a field selection affects.
type Side int

const (
	SideStart Side = iota
	SideEnd
)

// stage is how far a side's cascading selection has progressed. Each later
// field depends on the earlier ones; re-selecting an earlier field drops the
// side back to its stage, clearing the dependents.
type stage int

const (
	stageEmpty stage = iota
	stageYear
	stageYearMonth
	stageComplete
)

// fields holds one side's selections.
type fields struct {
	stage stage
	year  int
	month time.Month
	day   int
}

// Year and month menus offered by the original picker.
const (
	minYear = 2001
	maxYear = 2025
)

// Builder accumulates the six field selections and produces Range values.
// It never invokes filtering itself; the caller reads Range() when the user
// explicitly searches.
type Builder struct {
	start fields
	end   fields
	rng   Range
}

// NewBuilder returns a Builder with both sides unselected.
func NewBuilder() *Builder {
	return &Builder{}
}

// Range returns the currently built range.
func (b *Builder) Range() Range {
	return b.rng
}

// Clear resets both sides' selections and the built range.
func (b *Builder) Clear() {
	*b = Builder{}
}

// side returns the fields for the given side.
func (b *Builder) side(s Side) *fields {
	if s == SideStart {
		return &b.start
	}
	return &b.end
}

// SelectYear sets a side's year, clearing its month and day. The side's
// range bound is left as-is until the selection completes again.
func (b *Builder) SelectYear(s Side, year int) {
	f := b.side(s)
	f.year = year
	f.month = 0
	f.day = 0
	f.stage = stageYear
}

// SelectMonth sets a side's month, clearing its day. It is rejected until a
// year has been selected for that side.
func (b *Builder) SelectMonth(s Side, month time.Month) error {
	f := b.side(s)
	if f.stage < stageYear {
		return fmt.Errorf("select a year before a month")
	}
	if month < time.January || month > time.December {
		return fmt.Errorf("invalid month %d", month)
	}
	f.month = month
	f.day = 0
	f.stage = stageYearMonth
	return nil
}

// SelectDay completes a side, updating that side's range bound only.
// It is rejected until a year and month have been selected for that side, or
// when the day falls outside the month.
func (b *Builder) SelectDay(s Side, day int) error {
	f := b.side(s)
	if f.stage < stageYearMonth {
		return fmt.Errorf("select a year and month before a day")
	}
	if day < 1 || day > DaysInMonth(f.year, f.month) {
		return fmt.Errorf("day %d out of range for %s %d", day, f.month, f.year)
	}
	f.day = day
	f.stage = stageComplete
	b.setBound(s)
	return nil
}

// setBound writes a completed side into the range, normalizing the start to
// 00:00:00 and the end to 23:59:59 of the selected day (inclusive day
// granularity).
func (b *Builder) setBound(s Side) {
	f := b.side(s)
	if s == SideStart {
		t := time.Date(f.year, f.month, f.day, 0, 0, 0, 0, time.UTC)
		b.rng.Start = &t
	} else {
		t := time.Date(f.year, f.month, f.day, 23, 59, 59, 0, time.UTC)
		b.rng.End = &t
	}
}

// Selected returns a side's chosen fields; zero values mean unselected.
func (b *Builder) Selected(s Side) (year int, month time.Month, day int) {
	f := b.side(s)
	return f.year, f.month, f.day
}

// Years returns the selectable years, newest first.
func Years() []int {
	years := make([]int, 0, maxYear-minYear+1)
	for y := maxYear; y >= minYear; y-- {
		years = append(years, y)
	}
	return years
}

// DayOptions returns the days selectable for a side: 1..daysInMonth once a
// month is chosen, and the permissive 1..31 superset before that.
func (b *Builder) DayOptions(s Side) []int {
	f := b.side(s)
	n := 31
	if f.stage >= stageYearMonth {
		n = DaysInMonth(f.year, f.month)
	}
	days := make([]int, n)
	for i := range days {
		days[i] = i + 1
	}
	return days
}

// DaysInMonth returns the number of days in the given month, accounting for
// Gregorian leap years.
func DaysInMonth(year int, month time.Month) int {
	switch month {
	case time.April, time.June, time.September, time.November:
		return 30
	case time.February:
		if isLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 31
	}
}

// isLeapYear implements the Gregorian rule: divisible by 4, and not by 100
// unless also by 400.
func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// Preset is a named relative range.
type Preset int

const (
	Last7Days Preset = iota
	Last30Days
	Last90Days
	ThisYear
)

// String returns the preset's display label.
func (p Preset) String() string {
	switch p {
	case Last7Days:
		return "Last 7 Days"
	case Last30Days:
		return "Last 30 Days"
	case Last90Days:
		return "Last 90 Days"
	case ThisYear:
		return "This Year"
	default:
		return "Unknown"
	}
}

// Presets lists every preset in display order.
func Presets() []Preset {
	return []Preset{Last7Days, Last30Days, Last90Days, ThisYear}
}

// ApplyPreset computes the preset's range from now, overwriting both sides'
// field selections to reflect it. The start normalizes to 00:00:00 of its
// day and the end to 23:59:59 of now's day.
func (b *Builder) ApplyPreset(p Preset, now time.Time) {
	var startDay time.Time
	switch p {
	case Last7Days:
		startDay = now.AddDate(0, 0, -7)
	case Last30Days:
		startDay = now.AddDate(0, 0, -30)
	case Last90Days:
		startDay = now.AddDate(0, 0, -90)
	case ThisYear:
		startDay = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	default:
		return
	}

	b.start = fields{stage: stageComplete, year: startDay.Year(), month: startDay.Month(), day: startDay.Day()}
	b.end = fields{stage: stageComplete, year: now.Year(), month: now.Month(), day: now.Day()}

	start := time.Date(startDay.Year(), startDay.Month(), startDay.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, time.UTC)
	b.rng = Range{Start: &start, End: &end}
}
