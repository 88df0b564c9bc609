package browse

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/coder/websocket"
	"github.com/rahulpattadi/toppers/internal/bank"
	"github.com/rahulpattadi/toppers/internal/config"
	"github.com/rahulpattadi/toppers/internal/domain"
	"github.com/rahulpattadi/toppers/internal/identity"
	"github.com/rahulpattadi/toppers/internal/store"
)

const writeTimeout = 5 * time.Second

// WebSocketHandler serves live browse sessions.
type WebSocketHandler struct {
	catalog        *bank.Catalog
	repo           store.Repository
	sm             *SessionManager
	site           *config.SiteConfig
	fragment       FragmentRenderer
	allowedOrigins []string
	isDev          bool
}

// NewWebSocketHandler creates a new WebSocket handler.
func NewWebSocketHandler(catalog *bank.Catalog, repo store.Repository, sm *SessionManager, site *config.SiteConfig, allowedOrigins []string, isDev bool) *WebSocketHandler {
	return &WebSocketHandler{
		catalog:        catalog,
		repo:           repo,
		sm:             sm,
		site:           site,
		allowedOrigins: allowedOrigins,
		isDev:          isDev,
	}
}

// SetFragmentRenderer sets the renderer used to push HTML with each view.
func (h *WebSocketHandler) SetFragmentRenderer(fn FragmentRenderer) {
	h.fragment = fn
}

// wsSink adapts websocket.Conn to Sink. ctx is the connection context.
type wsSink struct {
	conn *websocket.Conn
	ctx  context.Context
}

func (s *wsSink) Send(msg Message) error {
	if s.ctx.Err() != nil {
		return s.ctx.Err()
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(s.ctx, writeTimeout)
	defer cancel()
	if err := s.conn.Write(ctx, websocket.MessageText, data); err != nil {
		if s.ctx.Err() != nil {
			return s.ctx.Err()
		}
		slog.Debug("WebSocket write error", "error", err)
		return err
	}
	return nil
}

func (s *wsSink) Close(reason string) error {
	return s.conn.Close(websocket.StatusNormalClosure, reason)
}

// ServeHTTP implements http.Handler for WebSocket upgrade.
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	deviceID := identity.DeviceIDFromContext(r.Context())
	sessionID := identity.SessionIDFromContext(r.Context())
	slog.Info("WebSocket connection request", "device_id", deviceID, "session_id", sessionID, "ip", r.RemoteAddr)

	if !h.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err, "device_id", deviceID)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "session ended"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr, "device_id", deviceID)
		}
	}()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	sink := &wsSink{conn: ws, ctx: ctx}

	snap, ok := h.waitForCatalog(ctx, sink)
	if !ok {
		return
	}

	theme := domain.Theme(h.site.Display.DefaultTheme)
	if device, err := h.repo.GetDevice(ctx, deviceID); err != nil {
		slog.Warn("Failed to read theme preference", "error", err, "device_id", deviceID)
	} else {
		theme = device.ThemeOr(theme)
	}

	sess := NewSession(snap, sink, Options{
		DeviceID:  deviceID,
		SessionID: sessionID,
		Theme:     theme,
		Site:      h.site,
		Themes:    h.repo,
		Fragment:  h.fragment,
	})
	h.sm.Register(sess)
	defer h.sm.Unregister(sess)
	defer sess.debounce.Stop()

	if err := sess.Start(); err != nil {
		slog.Debug("Failed to start browse session", "error", err, "device_id", deviceID)
		return
	}

	// A reload may have landed between the snapshot and registration.
	if latest, ok := h.catalog.Snapshot(); ok {
		_ = sess.Reload(latest)
	}

	h.readLoop(ctx, ws, sess)
	slog.Info("Browse session ended", "device_id", deviceID, "session_id", sessionID)
}

// waitForCatalog shows the loading indicator until the first question set
// is stored.
func (h *WebSocketHandler) waitForCatalog(ctx context.Context, sink Sink) (bank.Snapshot, bool) {
	if snap, ok := h.catalog.Snapshot(); ok {
		return snap, true
	}
	if err := sink.Send(Message{Type: MessageLoading}); err != nil {
		return bank.Snapshot{}, false
	}
	select {
	case <-h.catalog.Ready():
		return h.catalog.Snapshot()
	case <-ctx.Done():
		return bank.Snapshot{}, false
	}
}

func (h *WebSocketHandler) readLoop(ctx context.Context, ws *websocket.Conn, sess *Session) {
	for {
		_, data, err := ws.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				slog.Debug("WebSocket closed by client", "device_id", sess.deviceID)
			} else if ctx.Err() == nil {
				slog.Warn("WebSocket read error", "error", err, "device_id", sess.deviceID)
			}
			return
		}

		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			if err := sess.sink.Send(Message{Type: MessageError, Error: "malformed event"}); err != nil {
				return
			}
			continue
		}

		if err := sess.Handle(ctx, ev); err != nil {
			slog.Debug("Browse session stopped", "error", err, "device_id", sess.deviceID)
			return
		}
	}
}

func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	if h.isDev {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if u, err := url.Parse(origin); err == nil && u.Host == r.Host {
		return true
	}
	for _, allowed := range h.allowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	slog.Warn("WebSocket origin rejected", "origin", origin, "allowed", h.allowedOrigins)
	return false
}
