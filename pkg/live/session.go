package live

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/devflow-dev/devflow/pkg/middleware"
	"github.com/devflow-dev/devflow/pkg/notice"
	"github.com/devflow-dev/devflow/pkg/search"
)

// ErrSessionClosed is returned when writing to a closed session.
var ErrSessionClosed = errors.New("live: session closed")

// Session is one live search connection. It is the search.Router of the
// Input it hosts: the location is the last one the client reported, and
// navigations are written back as navigate frames.
type Session struct {
	ID string

	conn         *websocket.Conn
	logger       *slog.Logger
	writeTimeout time.Duration

	writeMu sync.Mutex
	closed  bool

	locMu sync.RWMutex
	path  string
	query string

	inputMu sync.Mutex
	input   *search.Input
}

var (
	_ search.Router  = (*Session)(nil)
	_ notice.Emitter = (*Session)(nil)
)

func newSession(id string, conn *websocket.Conn, logger *slog.Logger, writeTimeout time.Duration) *Session {
	return &Session{
		ID:           id,
		conn:         conn,
		logger:       logger.With("session", id),
		writeTimeout: writeTimeout,
		path:         "/",
	}
}

// Path implements search.Location.
func (s *Session) Path() string {
	s.locMu.RLock()
	defer s.locMu.RUnlock()
	return s.path
}

// RawQuery implements search.Location.
func (s *Session) RawQuery() string {
	s.locMu.RLock()
	defer s.locMu.RUnlock()
	return s.query
}

func (s *Session) setLocation(path, query string) {
	if path == "" {
		path = "/"
	}
	s.locMu.Lock()
	s.path, s.query = path, query
	s.locMu.Unlock()
}

// Navigate implements search.Navigator. The client is expected to follow,
// so the session location moves to target immediately.
func (s *Session) Navigate(target string, opts search.NavigateOptions) {
	path, query := splitURL(target)
	s.setLocation(path, query)

	scroll := opts.Scroll
	err := s.write(ServerFrame{
		Type:    FrameNavigate,
		URL:     target,
		Scroll:  &scroll,
		Replace: opts.Replace,
	})
	if err != nil && !errors.Is(err, ErrSessionClosed) {
		s.logger.Warn("live: navigate write failed", "url", target, "error", err)
		middleware.RecordWebSocketError(err)
	}
}

// Emit implements notice.Emitter.
func (s *Session) Emit(name string, data any) {
	if err := s.write(ServerFrame{Type: FrameEvent, Name: name, Data: data}); err != nil && !errors.Is(err, ErrSessionClosed) {
		s.logger.Warn("live: event write failed", "name", name, "error", err)
	}
}

// Input returns the hosted search input, or nil before hello.
func (s *Session) Input() *search.Input {
	s.inputMu.Lock()
	defer s.inputMu.Unlock()
	return s.input
}

// mount moves the session to the hello location and hosts a search input
// seeded from it. It returns false, leaving the location untouched, if an
// input is already mounted.
func (s *Session) mount(cfg search.Config, path, query string) bool {
	s.inputMu.Lock()
	defer s.inputMu.Unlock()
	if s.input != nil {
		return false
	}
	s.setLocation(path, query)
	s.input = search.Mount(s, cfg)
	return true
}

func (s *Session) write(f ServerFrame) error {
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("live: encode %s frame: %w", f.Type, err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if s.writeTimeout > 0 {
		_ = s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	}
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return err
	}
	middleware.RecordFrame("out", string(f.Type))
	return nil
}

// close unmounts the input and closes the connection. Safe to call more
// than once.
func (s *Session) close() {
	if in := s.Input(); in != nil {
		in.Unmount()
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	_ = s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	_ = s.conn.Close()
}

func splitURL(target string) (path, query string) {
	path, query, _ = strings.Cut(target, "?")
	return path, query
}
