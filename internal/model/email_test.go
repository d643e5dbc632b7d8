package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"rfc3339", "2025-01-15T09:30:00Z", time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)},
		{"rfc3339 offset", "2025-01-15T09:30:00+02:00", time.Date(2025, 1, 15, 9, 30, 0, 0, time.FixedZone("", 2*3600))},
		{"no zone", "2025-01-15T09:30:00", time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)},
		{"legacy space form", "2025-01-15 09:30:00", time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)},
		{"legacy with fraction", "2025-01-15 09:30:00.123456", time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)},
		{"date only", "2025-01-15", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if err != nil {
				t.Fatalf("ParseDate(%q): %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	if _, err := ParseDate("yesterday"); err == nil {
		t.Error("expected error for unrecognized date")
	}
}

func TestEmailRoundTrip(t *testing.T) {
	in := Email{
		Subject:         "Q4 Financial Report",
		SenderName:      "John Smith",
		SenderEmail:     "john.smith@company.com",
		Recipients:      "finance-team@company.com",
		Date:            NewTimestamp(time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)),
		Body:            "Please find attached the Q4 financial report.",
		HasAttachments:  true,
		AttachmentCount: 2,
		AttachmentNames: []string{"Q4_Report.pdf", "Financial_Summary.xlsx"},
	}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var out Email
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	sameInstant := cmp.Comparer(func(a, b Timestamp) bool {
		return a.Time().Equal(b.Time())
	})
	if diff := cmp.Diff(in, out, sameInstant); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEmailAbsentDate(t *testing.T) {
	var e Email
	if err := json.Unmarshal([]byte(`{"subject":"hi"}`), &e); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if e.Date != nil {
		t.Errorf("absent date should stay nil, got %v", e.Date)
	}

	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal map: %v", err)
	}
	if _, ok := m["date"]; ok {
		t.Error("nil date should be omitted from JSON")
	}
}

func TestDisplayHelpers(t *testing.T) {
	e := Email{}
	if got := e.DisplaySender(); got != "Unknown Sender" {
		t.Errorf("DisplaySender() = %q", got)
	}
	if got := e.DisplaySubject(); got != "(No Subject)" {
		t.Errorf("DisplaySubject() = %q", got)
	}

	e = Email{SenderEmail: "a@b.com"}
	if got := e.DisplaySender(); got != "a@b.com" {
		t.Errorf("DisplaySender() = %q", got)
	}
	e.SenderName = "Alice"
	if got := e.DisplaySender(); got != "Alice" {
		t.Errorf("DisplaySender() = %q", got)
	}
}
