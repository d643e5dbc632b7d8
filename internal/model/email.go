// Package model defines the email records and wire payloads shared by the
// parsing service and its clients.
package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Email is a single message extracted from an archive. Records are immutable
// once returned by an ingestion; identity within a session is the position in
// the returned list (archives do not guarantee a unique native ID).
type Email struct {
	EmailID         string     `json:"email_id,omitempty"`
	Subject         string     `json:"subject,omitempty"`
	SenderName      string     `json:"sender_name,omitempty"`
	SenderEmail     string     `json:"sender_email,omitempty"`
	Recipients      string     `json:"recipients,omitempty"`
	Date            *Timestamp `json:"date,omitempty"`
	Body            string     `json:"body,omitempty"`
	HasAttachments  bool       `json:"has_attachments"`
	AttachmentCount int        `json:"attachment_count"`
	AttachmentNames []string   `json:"attachment_names,omitempty"`
}

// EmailList is the success envelope returned by every parse/query endpoint.
type EmailList struct {
	Success    bool    `json:"success"`
	Message    string  `json:"message,omitempty"`
	EmailCount int     `json:"email_count"`
	Emails     []Email `json:"emails"`
}

// SearchRequest is the body of POST /api/search-emails. Bounds are RFC 3339
// strings; null means the bound is unset.
type SearchRequest struct {
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
}

// FilePathRequest is the body of POST /api/browse-file.
type FilePathRequest struct {
	FilePath string `json:"file_path"`
}

// timestampLayouts are the accepted wire forms for message dates. Archives
// parsed by the original backend emit the space-separated form; everything
// else is RFC 3339 with or without a zone.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp is a message date on the wire. Marshals as RFC 3339;
// unmarshals any of timestampLayouts.
type Timestamp struct {
	t time.Time
}

// NewTimestamp wraps t for use in an Email.
func NewTimestamp(t time.Time) *Timestamp {
	return &Timestamp{t: t}
}

// Time returns the underlying instant.
func (ts Timestamp) Time() time.Time {
	return ts.t
}

// MarshalJSON implements json.Marshaler.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(ts.t.Format(time.RFC3339))
}

// UnmarshalJSON implements json.Unmarshaler.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	t, err := ParseDate(s)
	if err != nil {
		return err
	}
	ts.t = t
	return nil
}

// ParseDate parses a wire date in any accepted layout.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	// Fractional seconds in the legacy form ("2025-01-15 09:30:00.123")
	// carry no filtering significance; drop them.
	if i := strings.IndexByte(s, '.'); i >= 0 && !strings.Contains(s, "T") {
		s = s[:i]
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// DisplaySender returns the best available sender label for list rendering.
func (e Email) DisplaySender() string {
	if e.SenderName != "" {
		return e.SenderName
	}
	if e.SenderEmail != "" {
		return e.SenderEmail
	}
	return "Unknown Sender"
}

// DisplaySubject returns the subject, substituting a placeholder when empty.
func (e Email) DisplaySubject() string {
	if e.Subject == "" {
		return "(No Subject)"
	}
	return e.Subject
}
