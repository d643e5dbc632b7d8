// Package tui provides the terminal user interface for exploring an email
// archive through the session engine.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/varunsharma/ostexplorer/internal/daterange"
	"github.com/varunsharma/ostexplorer/internal/model"
	"github.com/varunsharma/ostexplorer/internal/session"
)

// focusArea is the panel currently receiving navigation keys.
type focusArea int

const (
	focusList focusArea = iota
	focusFilter
	focusDetail
)

// inputMode tracks what the path prompt is collecting, if anything.
type inputMode int

const (
	inputNone inputMode = iota
	inputUploadPath
	inputBrowsePath
)

// filterRow is a cursor position inside the filter panel: six date fields
// followed by the four presets.
type filterRow int

const (
	rowStartYear filterRow = iota
	rowStartMonth
	rowStartDay
	rowEndYear
	rowEndMonth
	rowEndDay
	rowPresetFirst // presets occupy rowPresetFirst..rowPresetFirst+3
)

const filterRowCount = int(rowPresetFirst) + 4

// Options configuration for TUI.
type Options struct {
	Version string
}

// Model is the main TUI model following the Elm architecture. The session is
// mutated exclusively inside Update on the program goroutine; commands talk
// to the service only and report back through messages.
type Model struct {
	sess    *session.Session
	svc     session.Service
	builder *daterange.Builder

	version string

	// Navigation
	focus        focusArea
	filterCursor filterRow
	cursor       int // index into the filtered set
	scrollOffset int
	detailScroll int

	// Path prompt
	input     textinput.Model
	inputMode inputMode

	// Terminal dimensions
	width  int
	height int

	// Loading state
	loading       bool
	spinnerFrame  int
	spinnerActive bool

	// Request tracking to ignore stale async results
	ingestRequestID uint64

	// Upload progress, fed by progressMsg while a file streams up
	uploadPct  int
	progressCh chan int

	// Flash message (temporary notification)
	flashMessage   string
	flashExpiresAt time.Time

	quitting bool
}

// New creates a new TUI model bound to a session and the service it ingests
// from.
func New(sess *session.Session, svc session.Service, opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "/path/to/archive.ost"
	ti.CharLimit = 500
	ti.Width = 60

	return Model{
		sess:    sess,
		svc:     svc,
		builder: daterange.NewBuilder(),
		version: opts.Version,
		input:   ti,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// ingestDoneMsg carries the service response of an upload, browse, or sample
// load back to Update, where the session mutation happens.
type ingestDoneMsg struct {
	list      *model.EmailList
	err       error
	requestID uint64 // To detect stale responses
}

// progressMsg reports upload progress routed off the transport goroutine.
type progressMsg struct {
	pct       int
	requestID uint64
}

// flashClearMsg clears the flash message after timeout.
type flashClearMsg struct{}

// spinnerTickMsg advances the loading spinner animation.
type spinnerTickMsg struct{}

// spinnerFrames are the Braille dot animation frames for the loading spinner.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinnerInterval is how fast the spinner animates.
const spinnerInterval = 80 * time.Millisecond

// flashDuration is how long flash messages are displayed.
const flashDuration = 4 * time.Second

// serviceDownFlashDuration is how long a parser-unavailable notice stays up.
// Users need time to read it; it explains why uploads cannot work at all.
const serviceDownFlashDuration = 8 * time.Second

func spinnerTick() tea.Cmd {
	return tea.Tick(spinnerInterval, func(time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}

func flashClearAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return flashClearMsg{}
	})
}

// uploadCmd streams the file at path to the service. Progress percentages go
// through progressCh; the session itself is never touched here.
func (m Model) uploadCmd(path string, progressCh chan<- int) tea.Cmd {
	requestID := m.ingestRequestID
	svc := m.svc
	return func() tea.Msg {
		defer close(progressCh)

		f, err := os.Open(path)
		if err != nil {
			return ingestDoneMsg{err: fmt.Errorf("open file: %w", err), requestID: requestID}
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			return ingestDoneMsg{err: fmt.Errorf("stat file: %w", err), requestID: requestID}
		}

		list, err := svc.UploadArchive(context.Background(), filepath.Base(path), f, info.Size(), func(pct int) {
			select {
			case progressCh <- pct:
			default: // Listener behind; the percentage is advisory, drop it
			}
		})
		return ingestDoneMsg{list: list, err: err, requestID: requestID}
	}
}

// browseCmd asks the service to parse a path local to it.
func (m Model) browseCmd(path string) tea.Cmd {
	requestID := m.ingestRequestID
	svc := m.svc
	return func() tea.Msg {
		list, err := svc.BrowseLocalPath(context.Background(), path)
		return ingestDoneMsg{list: list, err: err, requestID: requestID}
	}
}

// sampleCmd loads the demonstration dataset.
func (m Model) sampleCmd() tea.Cmd {
	requestID := m.ingestRequestID
	svc := m.svc
	return func() tea.Msg {
		list, err := svc.LoadSampleData(context.Background())
		return ingestDoneMsg{list: list, err: err, requestID: requestID}
	}
}

// listenProgress waits for the next upload percentage. The channel closes
// when the upload settles, ending the listen loop.
func listenProgress(ch <-chan int, requestID uint64) tea.Cmd {
	return func() tea.Msg {
		pct, ok := <-ch
		if !ok {
			return nil
		}
		return progressMsg{pct: pct, requestID: requestID}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.inputMode != inputNone {
			return m.updatePathPrompt(msg)
		}
		return m.updateKeys(msg)

	case ingestDoneMsg:
		if msg.requestID != m.ingestRequestID {
			return m, nil // Stale result from a superseded ingestion
		}
		m.loading = false
		m.spinnerActive = false
		m.uploadPct = 0
		m.progressCh = nil
		if err := m.sess.FinishIngestion(msg.list, msg.err); err != nil {
			return m.flashError(err)
		}
		m.cursor = 0
		m.scrollOffset = 0
		m.detailScroll = 0
		m.focus = focusList
		return m.flashInfo(fmt.Sprintf("Loaded %d emails (press v to show them)", m.sess.FullCount()))

	case progressMsg:
		if msg.requestID != m.ingestRequestID || m.progressCh == nil {
			return m, nil
		}
		m.uploadPct = msg.pct
		return m, listenProgress(m.progressCh, msg.requestID)

	case spinnerTickMsg:
		if !m.spinnerActive {
			return m, nil
		}
		m.spinnerFrame = (m.spinnerFrame + 1) % len(spinnerFrames)
		return m, spinnerTick()

	case flashClearMsg:
		if time.Now().After(m.flashExpiresAt) {
			m.flashMessage = ""
		}
		return m, nil
	}

	return m, nil
}

// updatePathPrompt handles keys while the path prompt is open.
func (m Model) updatePathPrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.inputMode = inputNone
		m.input.Blur()
		m.input.SetValue("")
		return m, nil

	case "enter":
		path := m.input.Value()
		mode := m.inputMode
		m.inputMode = inputNone
		m.input.Blur()
		m.input.SetValue("")
		return m.startIngestion(mode, path)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// startIngestion validates the input locally, marks the session busy, and
// kicks off the async service call for the given prompt mode.
func (m Model) startIngestion(mode inputMode, path string) (tea.Model, tea.Cmd) {
	var err error
	switch mode {
	case inputUploadPath:
		err = session.ValidateArchiveName(filepath.Base(path))
	case inputBrowsePath:
		err = session.ValidateServicePath(path)
	default:
		return m, nil
	}
	if err != nil {
		return m.flashError(err)
	}
	if err := m.sess.BeginIngestion(); err != nil {
		return m.flashError(err)
	}

	m.ingestRequestID++
	m.loading = true
	m.spinnerActive = true
	m.uploadPct = 0

	if mode == inputUploadPath {
		ch := make(chan int, 1)
		m.progressCh = ch
		return m, tea.Batch(m.uploadCmd(path, ch), listenProgress(ch, m.ingestRequestID), spinnerTick())
	}
	return m, tea.Batch(m.browseCmd(path), spinnerTick())
}

// updateKeys handles keys outside the path prompt.
func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Filter-panel navigation keys shadow the global bindings (notably "l",
	// which is sample-load elsewhere but cycle-right here).
	if m.focus == focusFilter {
		switch msg.String() {
		case "up", "k", "down", "j", "left", "h", "right", "l", "enter", "c":
			return m.updateFilterKeys(msg)
		}
	}
	if m.focus == focusDetail {
		switch msg.String() {
		case "up", "k", "down", "j", "g", "home":
			return m.updateDetailKeys(msg)
		}
	}

	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit

	case "u":
		m.inputMode = inputUploadPath
		m.input.Placeholder = "/path/to/local/archive.ost (streamed to service)"
		m.input.Focus()
		return m, textinput.Blink

	case "b":
		m.inputMode = inputBrowsePath
		m.input.Placeholder = "/path/on/service/host/archive.ost"
		m.input.Focus()
		return m, textinput.Blink

	case "l":
		if err := m.sess.BeginIngestion(); err != nil {
			return m.flashError(err)
		}
		m.ingestRequestID++
		m.loading = true
		m.spinnerActive = true
		return m, tea.Batch(m.sampleCmd(), spinnerTick())

	case "v":
		m.sess.ToggleVisibility()
		m.cursor = 0
		m.scrollOffset = 0
		if m.focus == focusDetail {
			m.focus = focusList
		}
		return m, nil

	case "s":
		if err := m.sess.Search(m.builder.Range()); err != nil {
			return m.flashError(err)
		}
		m.cursor = 0
		m.scrollOffset = 0
		m.focus = focusList
		return m.flashInfo(fmt.Sprintf("Found %d of %d emails", m.sess.FilteredCount(), m.sess.FullCount()))

	case "r":
		m.sess.Reset()
		m.builder.Clear()
		m.cursor = 0
		m.scrollOffset = 0
		return m, nil

	case "f":
		if m.focus == focusFilter {
			m.focus = focusList
		} else {
			m.focus = focusFilter
		}
		return m, nil

	case "1", "2", "3", "4":
		presets := daterange.Presets()
		p := presets[int(msg.String()[0]-'1')]
		m.builder.ApplyPreset(p, time.Now())
		return m.flashInfo(fmt.Sprintf("Preset applied: %s (press s to search)", p))

	case "esc":
		if m.focus == focusDetail {
			m.sess.ClearSelection()
			m.detailScroll = 0
			m.focus = focusList
			return m, nil
		}
		if m.focus == focusFilter {
			m.focus = focusList
			return m, nil
		}
		return m, nil
	}

	switch m.focus {
	case focusFilter:
		return m.updateFilterKeys(msg)
	case focusDetail:
		return m.updateDetailKeys(msg)
	default:
		return m.updateListKeys(msg)
	}
}

// updateListKeys handles navigation within the email list.
func (m Model) updateListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := m.sess.FilteredCount()

	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < count-1 {
			m.cursor++
		}
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		if count > 0 {
			m.cursor = count - 1
		}
	case "enter":
		if err := m.sess.Select(m.cursor); err != nil {
			return m.flashError(err)
		}
		m.detailScroll = 0
		m.focus = focusDetail
	}

	m.clampScroll()
	return m, nil
}

// updateFilterKeys handles navigation and value cycling in the filter panel.
func (m Model) updateFilterKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.filterCursor > 0 {
			m.filterCursor--
		}
	case "down", "j":
		if int(m.filterCursor) < filterRowCount-1 {
			m.filterCursor++
		}
	case "left", "h":
		return m.cycleField(-1)
	case "right", "l":
		return m.cycleField(1)
	case "enter":
		if m.filterCursor >= rowPresetFirst {
			p := daterange.Presets()[int(m.filterCursor-rowPresetFirst)]
			m.builder.ApplyPreset(p, time.Now())
			return m.flashInfo(fmt.Sprintf("Preset applied: %s (press s to search)", p))
		}
		return m.cycleField(1)
	case "c":
		m.builder.Clear()
		return m.flashInfo("Date selections cleared")
	}
	return m, nil
}

// cycleField steps the value of the filter field under the cursor.
func (m Model) cycleField(dir int) (tea.Model, tea.Cmd) {
	if m.filterCursor >= rowPresetFirst {
		return m, nil
	}

	side := daterange.SideStart
	row := m.filterCursor
	if row >= rowEndYear {
		side = daterange.SideEnd
		row -= 3
	}
	year, month, day := m.builder.Selected(side)

	switch row {
	case rowStartYear:
		years := daterange.Years()
		idx := indexOf(years, year)
		m.builder.SelectYear(side, years[step(idx, dir, len(years))])

	case rowStartMonth:
		months := monthOptions()
		idx := indexOf(months, month)
		if err := m.builder.SelectMonth(side, months[step(idx, dir, len(months))]); err != nil {
			return m.flashError(err)
		}

	case rowStartDay:
		days := m.builder.DayOptions(side)
		idx := indexOf(days, day)
		if err := m.builder.SelectDay(side, days[step(idx, dir, len(days))]); err != nil {
			return m.flashError(err)
		}
	}
	return m, nil
}

// updateDetailKeys scrolls the detail view.
func (m Model) updateDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.detailScroll > 0 {
			m.detailScroll--
		}
	case "down", "j":
		m.detailScroll++
	case "g", "home":
		m.detailScroll = 0
	}
	return m, nil
}

// clampScroll keeps the cursor inside the visible window.
func (m *Model) clampScroll() {
	page := m.listPageSize()
	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	}
	if m.cursor >= m.scrollOffset+page {
		m.scrollOffset = m.cursor - page + 1
	}
	if m.scrollOffset < 0 {
		m.scrollOffset = 0
	}
}

// listPageSize is how many list rows fit between header and footer.
func (m Model) listPageSize() int {
	if m.height <= 0 {
		return 20
	}
	page := m.height - chromeLines
	if page < 1 {
		page = 1
	}
	return page
}

// flashError sets an error flash; service-unavailable notices linger longer.
func (m Model) flashError(err error) (tea.Model, tea.Cmd) {
	d := flashDuration
	var svcErr *session.ServiceUnavailableError
	if errors.As(err, &svcErr) {
		d = serviceDownFlashDuration
	}
	m.flashMessage = err.Error()
	m.flashExpiresAt = time.Now().Add(d)
	return m, flashClearAfter(d)
}

// flashInfo sets an informational flash.
func (m Model) flashInfo(text string) (tea.Model, tea.Cmd) {
	m.flashMessage = text
	m.flashExpiresAt = time.Now().Add(flashDuration)
	return m, flashClearAfter(flashDuration)
}

// monthOptions lists the selectable months in calendar order.
func monthOptions() []time.Month {
	months := make([]time.Month, 12)
	for i := range months {
		months[i] = time.Month(i + 1)
	}
	return months
}

// indexOf returns the position of v in opts, or -1 when unset.
func indexOf[T comparable](opts []T, v T) int {
	for i, o := range opts {
		if o == v {
			return i
		}
	}
	return -1
}

// step moves an option index by dir with wrap-around; -1 (unset) lands on the
// first option regardless of direction.
func step(idx, dir, n int) int {
	if idx < 0 {
		return 0
	}
	return ((idx+dir)%n + n) % n
}
