package live

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/devflow-dev/devflow/pkg/middleware"
	"github.com/devflow-dev/devflow/pkg/notice"
	"github.com/devflow-dev/devflow/pkg/search"
)

// Option configures a Handler.
type Option func(*Handler)

// WithSearchConfig sets the template for every hosted search input. The
// route and key announced in hello override TargetRoute and Key.
func WithSearchConfig(cfg search.Config) Option {
	return func(h *Handler) {
		h.search = cfg
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithCheckOrigin sets the websocket origin check.
func WithCheckOrigin(fn func(r *http.Request) bool) Option {
	return func(h *Handler) {
		h.upgrader.CheckOrigin = fn
	}
}

// WithWriteTimeout bounds every frame write. Default: 10s.
func WithWriteTimeout(d time.Duration) Option {
	return func(h *Handler) {
		h.writeTimeout = d
	}
}

// WithReadLimit caps the size of a client frame. Default: 4KiB.
func WithReadLimit(n int64) Option {
	return func(h *Handler) {
		h.readLimit = n
	}
}

// Handler serves the live search websocket. Each connection hosts one
// search input whose navigations are pushed back to the browser.
type Handler struct {
	upgrader     websocket.Upgrader
	search       search.Config
	logger       *slog.Logger
	writeTimeout time.Duration
	readLimit    int64

	mu       sync.Mutex
	sessions map[string]*Session
	closing  bool
	wg       sync.WaitGroup
}

// NewHandler creates a Handler.
func NewHandler(opts ...Option) *Handler {
	h := &Handler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger:       slog.Default(),
		writeTimeout: 10 * time.Second,
		readLimit:    4096,
		sessions:     make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ServeHTTP upgrades the connection and runs the session until the client
// disconnects or the handler is closed.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.closing {
		h.mu.Unlock()
		http.Error(w, "live search unavailable", http.StatusServiceUnavailable)
		return
	}
	h.wg.Add(1)
	h.mu.Unlock()
	defer h.wg.Done()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("live: upgrade failed", "error", err)
		middleware.RecordWebSocketError(err)
		return
	}
	conn.SetReadLimit(h.readLimit)

	s := newSession(uuid.NewString(), conn, h.logger, h.writeTimeout)
	if !h.register(s) {
		s.close()
		return
	}
	middleware.RecordSessionCreate()
	s.logger.Debug("live: session opened", "remote", r.RemoteAddr)

	defer func() {
		h.unregister(s)
		s.close()
		middleware.RecordSessionDestroy()
		s.logger.Debug("live: session closed")
	}()

	h.readLoop(s)
}

func (h *Handler) readLoop(s *Session) {
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("live: read error", "error", err)
				middleware.RecordWebSocketError(err)
			}
			return
		}

		var f ClientFrame
		if err := json.Unmarshal(data, &f); err != nil {
			middleware.RecordWebSocketError(errors.New("invalid frame: " + err.Error()))
			notice.Show(s, notice.Warning("Ignored a malformed live search frame."))
			continue
		}
		middleware.RecordFrame("in", string(f.Type))

		if err := h.handle(s, f); err != nil {
			s.logger.Debug("live: frame rejected", "type", f.Type, "error", err)
			notice.Show(s, notice.Warning(err.Error()))
		}
	}
}

var (
	errHelloRequired  = errors.New("live search is not initialised yet")
	errDuplicateHello = errors.New("live search is already initialised")
	errUnknownFrame   = errors.New("unsupported live search frame")
)

func (h *Handler) handle(s *Session, f ClientFrame) error {
	switch f.Type {
	case FrameHello:
		cfg := h.search
		if f.Route != "" {
			cfg.TargetRoute = f.Route
		}
		if f.Key != "" {
			cfg.Key = f.Key
		}
		if cfg.Logger == nil {
			cfg.Logger = s.logger
		}
		cfg.OnSync = chainOnSync(h.search.OnSync)
		if !s.mount(cfg, f.Path, f.Query) {
			return errDuplicateHello
		}
		return s.write(ServerFrame{Type: FrameReady, Session: s.ID})

	case FrameInput:
		in := s.Input()
		if in == nil {
			return errHelloRequired
		}
		in.Type(f.Value)
		return nil

	case FrameFlush:
		in := s.Input()
		if in == nil {
			return errHelloRequired
		}
		in.Flush()
		return nil

	case FrameLocation:
		if s.Input() == nil {
			return errHelloRequired
		}
		s.setLocation(f.Path, f.Query)
		return nil

	default:
		return errUnknownFrame
	}
}

// chainOnSync records every synchronization before calling next.
func chainOnSync(next func(search.SyncEvent)) func(search.SyncEvent) {
	return func(ev search.SyncEvent) {
		middleware.RecordSearchSync(string(ev.Action))
		if next != nil {
			next(ev)
		}
	}
}

func (h *Handler) register(s *Session) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closing {
		return false
	}
	h.sessions[s.ID] = s
	return true
}

func (h *Handler) unregister(s *Session) {
	h.mu.Lock()
	delete(h.sessions, s.ID)
	h.mu.Unlock()
}

// SessionCount returns the number of open sessions.
func (h *Handler) SessionCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// Session returns the open session with id.
func (h *Handler) Session(id string) (*Session, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.sessions[id]
	return s, ok
}

// Close rejects new connections, closes the open ones and waits for their
// goroutines to finish.
func (h *Handler) Close() {
	h.mu.Lock()
	h.closing = true
	sessions := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.mu.Unlock()

	for _, s := range sessions {
		s.close()
	}
	h.wg.Wait()
}
