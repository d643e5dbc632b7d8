// Package session is the client-side state engine for exploring a parsed
// email archive: it coordinates ingestion, date filtering, list visibility,
// and detail selection, and is the single source of truth for the
// presentation layer.
package session

import (
	"context"
	"io"
	"strings"

	"github.com/varunsharma/ostexplorer/internal/daterange"
	"github.com/varunsharma/ostexplorer/internal/model"
)

// archiveExt is the only accepted archive file extension.
const archiveExt = ".ost"

// ProgressFunc receives upload progress as a 0-100 percentage. It is
// advisory display state only, never used for control flow.
type ProgressFunc func(pct int)

// Service is the external parsing/query service the engine ingests from.
// Implemented by the remote package; tests substitute stubs.
type Service interface {
	// UploadArchive streams an archive file to the service and returns the
	// parsed email list. progress may be nil.
	UploadArchive(ctx context.Context, filename string, r io.Reader, size int64, progress ProgressFunc) (*model.EmailList, error)

	// BrowseLocalPath asks the service to parse an archive at a path local
	// to it.
	BrowseLocalPath(ctx context.Context, path string) (*model.EmailList, error)

	// LoadSampleData fetches the fixed demonstration dataset.
	LoadSampleData(ctx context.Context) (*model.EmailList, error)
}

// Session owns all mutable exploration state. It has exactly one writer (the
// UI event loop); operations between service calls are atomic, and a busy
// guard rejects a second ingestion or search while one is in flight.
type Session struct {
	svc Service

	fullSet        []model.Email
	filteredSet    []model.Email
	visible        bool
	selected       int // index into filteredSet, -1 when nothing is open
	uploadProgress int
	busy           bool
	activeRange    daterange.Range
}

// New returns an empty session backed by svc. The list starts visible (the
// default) but with nothing to show.
func New(svc Service) *Session {
	return &Session{
		svc:      svc,
		visible:  true,
		selected: -1,
	}
}

// ValidateArchiveName rejects filenames without the accepted extension.
// The check is purely local and never reaches the network.
func ValidateArchiveName(filename string) error {
	if !strings.HasSuffix(strings.ToLower(filename), archiveExt) {
		return &ValidationError{Reason: "only OST files are supported"}
	}
	return nil
}

// ValidateServicePath rejects empty or whitespace-only browse paths.
func ValidateServicePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return &ValidationError{Reason: "please enter a file path"}
	}
	return nil
}

// BeginIngestion marks an ingestion as in flight, rejecting overlap. Drivers
// that run the service call on another goroutine (the TUI) call this before
// dispatching and FinishIngestion with the outcome; both run on the session's
// single writer, so the service call itself is the only thing off-loop.
func (s *Session) BeginIngestion() error {
	if s.busy {
		return ErrBusy
	}
	s.busy = true
	s.uploadProgress = 0
	return nil
}

// FinishIngestion settles an in-flight ingestion. On success the full and
// filtered sets are replaced wholesale and the list is hidden; loading
// replaces content but does not auto-reveal it. On failure previously loaded
// data is left untouched and err is returned as-is.
func (s *Session) FinishIngestion(list *model.EmailList, err error) error {
	s.busy = false
	s.uploadProgress = 0
	if err != nil {
		return err
	}
	s.replaceAll(list.Emails)
	return nil
}

// UploadArchive validates the filename locally, then streams the file to the
// service and applies the result synchronously.
func (s *Session) UploadArchive(ctx context.Context, filename string, r io.Reader, size int64, progress ProgressFunc) error {
	if err := ValidateArchiveName(filename); err != nil {
		return err
	}
	if err := s.BeginIngestion(); err != nil {
		return err
	}

	list, err := s.svc.UploadArchive(ctx, filename, r, size, func(pct int) {
		s.uploadProgress = pct
		if progress != nil {
			progress(pct)
		}
	})
	return s.FinishIngestion(list, err)
}

// BrowseLocalPath asks the service to parse an archive at the given path.
// Empty or whitespace-only input is rejected locally.
func (s *Session) BrowseLocalPath(ctx context.Context, path string) error {
	if err := ValidateServicePath(path); err != nil {
		return err
	}
	if err := s.BeginIngestion(); err != nil {
		return err
	}

	list, err := s.svc.BrowseLocalPath(ctx, path)
	return s.FinishIngestion(list, err)
}

// LoadSampleData fetches the demonstration dataset.
func (s *Session) LoadSampleData(ctx context.Context) error {
	if err := s.BeginIngestion(); err != nil {
		return err
	}

	list, err := s.svc.LoadSampleData(ctx)
	return s.FinishIngestion(list, err)
}

// replaceAll installs a freshly ingested email set. The previous full set,
// filtered set, selection, and active range are fully discarded; archives
// are never merged.
func (s *Session) replaceAll(emails []model.Email) {
	s.fullSet = emails
	s.filteredSet = emails
	s.selected = -1
	s.activeRange = daterange.Range{}
	s.visible = false
}

// Search filters the loaded full set by rng and reveals the result.
// Searching before any ingestion is a user-facing error, not a silent empty
// result; the filtered set is left unchanged in that case.
func (s *Session) Search(rng daterange.Range) error {
	if s.busy {
		return ErrBusy
	}
	if len(s.fullSet) == 0 {
		return &ValidationError{Reason: "no emails loaded"}
	}

	s.filteredSet = Filter(s.fullSet, rng)
	s.activeRange = rng
	s.selected = -1
	s.visible = true
	return nil
}

// Reset restores the filtered set to the full set, clears the active range,
// and re-reveals the list when there is anything to show.
func (s *Session) Reset() {
	s.filteredSet = s.fullSet
	s.activeRange = daterange.Range{}
	s.selected = -1
	if len(s.fullSet) > 0 {
		s.visible = true
	}
}

// ToggleVisibility flips the list gate. Hiding preserves the filtered set;
// un-hiding always shows the current full set, discarding any filter applied
// before hiding. The asymmetry is deliberate.
func (s *Session) ToggleVisibility() {
	if s.visible {
		s.visible = false
		s.selected = -1
		return
	}
	s.filteredSet = s.fullSet
	s.selected = -1
	s.visible = true
}

// Select opens the email at index i of the filtered set in detail view. The
// presentation layer guards against selecting while hidden; the engine
// rejects it defensively as well.
func (s *Session) Select(i int) error {
	if !s.visible {
		return &ValidationError{Reason: "emails are hidden"}
	}
	if i < 0 || i >= len(s.filteredSet) {
		return &ValidationError{Reason: "no such email"}
	}
	s.selected = i
	return nil
}

// ClearSelection closes the detail view, returning to the list.
func (s *Session) ClearSelection() {
	s.selected = -1
}

// FullSet returns the complete set from the most recent ingestion. Callers
// must treat it as read-only.
func (s *Session) FullSet() []model.Email {
	return s.fullSet
}

// FilteredSet returns the subsequence currently eligible for display.
// Callers must treat it as read-only.
func (s *Session) FilteredSet() []model.Email {
	return s.filteredSet
}

// FullCount returns the size of the full set.
func (s *Session) FullCount() int {
	return len(s.fullSet)
}

// FilteredCount returns the size of the filtered set.
func (s *Session) FilteredCount() int {
	return len(s.filteredSet)
}

// Visible reports whether the filtered set is rendered as a list.
func (s *Session) Visible() bool {
	return s.visible
}

// Selected returns the email open in detail view, if any.
func (s *Session) Selected() (model.Email, bool) {
	if s.selected < 0 || s.selected >= len(s.filteredSet) {
		return model.Email{}, false
	}
	return s.filteredSet[s.selected], true
}

// SelectedIndex returns the filtered-set index of the open email, or -1.
func (s *Session) SelectedIndex() int {
	return s.selected
}

// UploadProgress returns the advisory upload percentage; meaningful only
// while an upload is in flight.
func (s *Session) UploadProgress() int {
	return s.uploadProgress
}

// Busy reports whether an ingestion is in flight.
func (s *Session) Busy() bool {
	return s.busy
}

// ActiveRange returns the range applied by the most recent search.
func (s *Session) ActiveRange() daterange.Range {
	return s.activeRange
}
