package live

// FrameType identifies a live frame.
type FrameType string

// Client to server frames.
const (
	// FrameHello opens the session: the page location and the search box
	// wiring read from its data-* attributes.
	FrameHello FrameType = "hello"

	// FrameInput carries the full input value after a keystroke.
	FrameInput FrameType = "input"

	// FrameFlush asks for the pending input to be synchronized now, as
	// when the user presses Enter.
	FrameFlush FrameType = "flush"

	// FrameLocation reports that the page location changed.
	FrameLocation FrameType = "location"
)

// Server to client frames.
const (
	// FrameReady acknowledges hello and carries the session id.
	FrameReady FrameType = "ready"

	// FrameNavigate asks the client to navigate to URL.
	FrameNavigate FrameType = "navigate"

	// FrameEvent dispatches a named custom event, such as a notice.
	FrameEvent FrameType = "event"
)

// ClientFrame is a frame sent by the browser.
type ClientFrame struct {
	Type  FrameType `json:"type"`
	Path  string    `json:"path,omitempty"`
	Query string    `json:"query,omitempty"`
	Value string    `json:"value,omitempty"`

	// Route and Key are only read from hello.
	Route string `json:"route,omitempty"`
	Key   string `json:"key,omitempty"`
}

// ServerFrame is a frame sent to the browser.
type ServerFrame struct {
	Type    FrameType `json:"type"`
	Session string    `json:"session,omitempty"`
	URL     string    `json:"url,omitempty"`
	Scroll  *bool     `json:"scroll,omitempty"`
	Replace bool      `json:"replace,omitempty"`
	Name    string    `json:"name,omitempty"`
	Data    any       `json:"data,omitempty"`
}
