// Package browse runs live question-browsing sessions over WebSocket.
//
// A Session owns the view state of one browser tab. Client events are
// applied one at a time; every resulting change is pushed to a Sink.
package browse

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rahulpattadi/toppers/internal/bank"
	"github.com/rahulpattadi/toppers/internal/config"
	"github.com/rahulpattadi/toppers/internal/domain"
)

// Event types sent by the client.
const (
	EventSearch      = "search"
	EventClearSearch = "clear_search"
	EventFilter      = "filter"
	EventTag         = "tag"
	EventPage        = "page"
	EventPrev        = "prev"
	EventNext        = "next"
	EventToggle      = "toggle"
	EventResize      = "resize"
	EventImageOpen   = "image_open"
	EventImageClose  = "image_close"
	EventKey         = "key"
	EventThemeToggle = "theme_toggle"
	EventPing        = "ping"
)

// Message types sent to the client.
const (
	MessageLoading = "loading"
	MessageView    = "view"
	MessagePanels  = "panels"
	MessageImage   = "image"
	MessageTheme   = "theme"
	MessagePong    = "pong"
	MessageError   = "error"
)

// Filter fields accepted by EventFilter.
const (
	FieldDifficulty = "difficulty"
	FieldType       = "type"
)

// ErrSessionClosed is returned by Handle after Close.
var ErrSessionClosed = errors.New("session closed")

// Event is one client action.
type Event struct {
	Type   string `json:"type"`
	Value  string `json:"value,omitempty"`
	Field  string `json:"field,omitempty"`
	Page   int    `json:"page,omitempty"`
	ID     int    `json:"id,omitempty"`
	Height int    `json:"height,omitempty"`
	Key    string `json:"key,omitempty"`
	Ctrl   bool   `json:"ctrl,omitempty"`
	Meta   bool   `json:"meta,omitempty"`
}

// Message is one server push.
type Message struct {
	Type    string             `json:"type"`
	View    *bank.View         `json:"view,omitempty"`
	HTML    string             `json:"html,omitempty"`
	Panels  []bank.PanelHeight `json:"panels,omitempty"`
	Image   *bank.ImageViewer  `json:"image,omitempty"`
	Theme   domain.Theme       `json:"theme,omitempty"`
	Version uint64             `json:"version,omitempty"`
	Error   string             `json:"error,omitempty"`
}

// Sink receives the messages of one session.
type Sink interface {
	Send(msg Message) error
	Close(reason string) error
}

// ThemeStore persists the theme preference of a device.
type ThemeStore interface {
	SetTheme(ctx context.Context, deviceID string, theme domain.Theme) error
}

// FragmentRenderer renders a view into the HTML of the question list.
type FragmentRenderer func(v bank.View) (string, error)

// Options configures a Session.
type Options struct {
	DeviceID  string
	SessionID string
	Theme     domain.Theme
	Site      *config.SiteConfig
	Themes    ThemeStore
	Fragment  FragmentRenderer
}

// Session is the browsing state of one tab.
type Session struct {
	deviceID  string
	sessionID string
	site      *config.SiteConfig
	themes    ThemeStore
	fragment  FragmentRenderer
	sink      Sink
	debounce  *bank.Debouncer

	mu      sync.Mutex
	state   bank.ViewState
	acc     bank.Accordion
	viewer  bank.ImageViewer
	search  string
	theme   domain.Theme
	version uint64
	closed  bool
}

// NewSession creates a session over snap.
func NewSession(snap bank.Snapshot, sink Sink, opts Options) *Session {
	site := opts.Site
	if site == nil {
		site = config.DefaultSiteConfig()
	}
	theme := opts.Theme
	if !theme.Valid() {
		theme = domain.Theme(site.Display.DefaultTheme)
	}
	return &Session{
		deviceID:  opts.DeviceID,
		sessionID: opts.SessionID,
		site:      site,
		themes:    opts.Themes,
		fragment:  opts.Fragment,
		sink:      sink,
		debounce:  bank.NewDebouncer(site.SearchDebounce()),
		state:     bank.NewViewState(snap.Questions, site.Display.QuestionsPerPage),
		theme:     theme,
		version:   snap.Version,
	}
}

// DeviceID returns the owning device.
func (s *Session) DeviceID() string { return s.deviceID }

// SessionID returns the tab id.
func (s *Session) SessionID() string { return s.sessionID }

// State returns the current view state.
func (s *Session) State() bank.ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Theme returns the current theme.
func (s *Session) Theme() domain.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

// Viewer returns the image viewer state.
func (s *Session) Viewer() bank.ImageViewer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewer
}

// Start pushes the theme and the first page.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.sink.Send(Message{Type: MessageTheme, Theme: s.theme}); err != nil {
		return err
	}
	return s.sendViewLocked()
}

// Close stops the session and closes its sink.
func (s *Session) Close(reason string) error {
	s.debounce.Stop()
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()
	return s.sink.Close(reason)
}

// Reload swaps in a newly loaded question set. The current criteria are
// re-applied and the view returns to page 1.
func (s *Session) Reload(snap bank.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || snap.Version == s.version {
		return nil
	}
	s.version = snap.Version
	s.state = s.state.Reload(snap.Questions)
	s.resetPanelsLocked()
	return s.sendViewLocked()
}

// Handle applies one client event. The returned error means the sink
// failed and the session should end; invalid events are answered with an
// error message instead.
//
//nolint:gocyclo // One case per event type.
func (s *Session) Handle(ctx context.Context, ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}

	switch ev.Type {
	case EventSearch:
		s.search = ev.Value
		s.debounce.Trigger(s.flushSearch)
		return nil
	case EventClearSearch:
		s.search = ""
		return s.applyLocked(s.state.Criteria())
	case EventFilter:
		return s.handleFilterLocked(ev)
	case EventTag:
		if !s.site.Filters.EnableTagFilter {
			return s.sendErrorLocked("tag filter is disabled")
		}
		c := s.state.Criteria()
		c.Tag = ev.Value
		return s.applyLocked(c)
	case EventPage:
		next, changed := s.state.GoToPage(ev.Page)
		return s.movePageLocked(next, changed)
	case EventPrev:
		next, changed := s.state.Prev()
		return s.movePageLocked(next, changed)
	case EventNext:
		next, changed := s.state.Next()
		return s.movePageLocked(next, changed)
	case EventToggle:
		if !s.visibleLocked(ev.ID) {
			return s.sendErrorLocked(fmt.Sprintf("question %d is not on this page", ev.ID))
		}
		return s.sink.Send(Message{Type: MessagePanels, Panels: s.acc.Toggle(ev.ID, ev.Height)})
	case EventResize:
		if ph, ok := s.acc.Resize(ev.ID, ev.Height); ok {
			return s.sink.Send(Message{Type: MessagePanels, Panels: []bank.PanelHeight{ph}})
		}
		return nil
	case EventImageOpen:
		return s.openImageLocked(ev.ID)
	case EventImageClose:
		return s.closeImageLocked()
	case EventKey:
		return s.handleKeyLocked(ev)
	case EventThemeToggle:
		return s.toggleThemeLocked(ctx)
	case EventPing:
		return s.sink.Send(Message{Type: MessagePong})
	default:
		return s.sendErrorLocked(fmt.Sprintf("unknown event %q", ev.Type))
	}
}

// flushSearch runs when the search input has been quiet for the debounce
// delay.
func (s *Session) flushSearch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if err := s.applyLocked(s.state.Criteria()); err != nil {
		slog.Debug("Failed to push search results", "error", err, "session_id", s.sessionID)
	}
}

func (s *Session) handleFilterLocked(ev Event) error {
	c := s.state.Criteria()
	switch ev.Field {
	case FieldDifficulty:
		if !s.site.Filters.EnableDifficultyFilter {
			return s.sendErrorLocked("difficulty filter is disabled")
		}
		if ev.Value != "" && ev.Value != bank.All && !domain.Difficulty(ev.Value).Valid() {
			return s.sendErrorLocked(fmt.Sprintf("unknown difficulty %q", ev.Value))
		}
		c.Difficulty = ev.Value
	case FieldType:
		if !s.site.Filters.EnableTypeFilter {
			return s.sendErrorLocked("type filter is disabled")
		}
		if ev.Value != "" && ev.Value != bank.All && !domain.QuestionType(ev.Value).Valid() {
			return s.sendErrorLocked(fmt.Sprintf("unknown type %q", ev.Value))
		}
		c.Type = ev.Value
	default:
		return s.sendErrorLocked(fmt.Sprintf("unknown filter %q", ev.Field))
	}
	return s.applyLocked(c)
}

// applyLocked filters with c and the latest search input. Any pending
// debounced search is dropped since it would read the same input.
func (s *Session) applyLocked(c bank.Criteria) error {
	s.debounce.Cancel()
	c.Search = s.search
	s.state = s.state.ApplyFilters(c)
	s.resetPanelsLocked()
	return s.sendViewLocked()
}

func (s *Session) movePageLocked(next bank.ViewState, changed bool) error {
	if !changed {
		return nil
	}
	s.state = next
	s.resetPanelsLocked()
	return s.sendViewLocked()
}

func (s *Session) handleKeyLocked(ev Event) error {
	if !s.site.Display.EnableKeyboardNavigation {
		return nil
	}
	switch {
	case ev.Key == "Escape":
		return s.closeImageLocked()
	case ev.Key == "ArrowLeft" && (ev.Ctrl || ev.Meta):
		next, changed := s.state.Prev()
		return s.movePageLocked(next, changed)
	case ev.Key == "ArrowRight" && (ev.Ctrl || ev.Meta):
		next, changed := s.state.Next()
		return s.movePageLocked(next, changed)
	}
	return nil
}

func (s *Session) openImageLocked(id int) error {
	if !s.site.Display.EnableImageModal {
		return s.sendErrorLocked("image viewer is disabled")
	}
	view := bank.Render(s.state, nil)
	for i := range view.Cards {
		if view.Cards[i].ID != id {
			continue
		}
		if !s.viewer.OpenCard(&view.Cards[i]) {
			return s.sendErrorLocked(fmt.Sprintf("question %d has no image", id))
		}
		viewer := s.viewer
		return s.sink.Send(Message{Type: MessageImage, Image: &viewer})
	}
	return s.sendErrorLocked(fmt.Sprintf("question %d is not on this page", id))
}

func (s *Session) closeImageLocked() error {
	if !s.viewer.Close() {
		return nil
	}
	return s.sink.Send(Message{Type: MessageImage, Image: &bank.ImageViewer{}})
}

func (s *Session) toggleThemeLocked(ctx context.Context) error {
	if !s.site.Display.EnableDarkMode {
		return s.sendErrorLocked("theme switching is disabled")
	}
	s.theme = s.theme.Toggle()
	if s.themes != nil && s.deviceID != "" {
		if err := s.themes.SetTheme(ctx, s.deviceID, s.theme); err != nil {
			slog.Warn("Failed to save theme preference", "error", err, "device_id", s.deviceID)
		}
	}
	return s.sink.Send(Message{Type: MessageTheme, Theme: s.theme})
}

func (s *Session) visibleLocked(id int) bool {
	for _, q := range s.state.Page().Visible {
		if q.ID == id {
			return true
		}
	}
	return false
}

// resetPanelsLocked collapses every panel and closes the viewer. Cards are
// rebuilt on every view change.
func (s *Session) resetPanelsLocked() {
	s.acc.Reset()
	s.viewer.Close()
}

func (s *Session) sendViewLocked() error {
	view := bank.Render(s.state, &s.acc)
	msg := Message{Type: MessageView, View: &view, Version: s.version}
	if s.fragment != nil {
		html, err := s.fragment(view)
		if err != nil {
			slog.Error("Failed to render question list", "error", err)
		} else {
			msg.HTML = html
		}
	}
	return s.sink.Send(msg)
}

func (s *Session) sendErrorLocked(msg string) error {
	return s.sink.Send(Message{Type: MessageError, Error: msg})
}
