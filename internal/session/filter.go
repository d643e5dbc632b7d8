package session

import (
	"github.com/varunsharma/ostexplorer/internal/daterange"
	"github.com/varunsharma/ostexplorer/internal/model"
)

// Filter returns the subsequence of emails whose dates fall within rng,
// preserving relative order. An email with no date is excluded whenever
// either bound is set and included only when the range is fully unset.
// A range whose start is after its end yields an empty result; that is
// documented behavior, not an error.
func Filter(emails []model.Email, rng daterange.Range) []model.Email {
	filtered := make([]model.Email, 0, len(emails))
	for _, e := range emails {
		if matches(e, rng) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

func matches(e model.Email, rng daterange.Range) bool {
	if rng.IsZero() {
		return true
	}
	if e.Date == nil {
		return false
	}
	t := e.Date.Time()
	if rng.Start != nil && t.Before(*rng.Start) {
		return false
	}
	if rng.End != nil && t.After(*rng.End) {
		return false
	}
	return true
}
