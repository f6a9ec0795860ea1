// Package notice provides dismissible page notices.
//
// A Notice is either rendered into a page:
//
//	notice.Error("Sign in failed").Render()
//
// or pushed to a live client through an Emitter:
//
//	notice.Show(conn, notice.Warning("Search is reconnecting"))
//
// The client receives a custom event named EventName whose detail is
// { level, title?, message }.
package notice

import "github.com/devflow-dev/devflow/pkg/vdom"

// EventName is the event name dispatched for notices.
const EventName = "devflow:notice"

// Level is the notice severity.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
)

// Notice is a single message shown to the user.
type Notice struct {
	Level   Level
	Title   string
	Message string
}

// Success returns a success notice.
func Success(message string) Notice { return Notice{Level: LevelSuccess, Message: message} }

// Error returns an error notice.
func Error(message string) Notice { return Notice{Level: LevelError, Message: message} }

// Warning returns a warning notice.
func Warning(message string) Notice { return Notice{Level: LevelWarning, Message: message} }

// Info returns an info notice.
func Info(message string) Notice { return Notice{Level: LevelInfo, Message: message} }

// WithTitle returns a copy of n with a title.
//
//	notice.Error("Try again in a minute.").WithTitle("Sign in failed")
func (n Notice) WithTitle(title string) Notice {
	n.Title = title
	return n
}

// Payload returns the event detail sent to live clients.
func (n Notice) Payload() map[string]any {
	data := map[string]any{
		"level":   string(n.Level),
		"message": n.Message,
	}
	if n.Title != "" {
		data["title"] = n.Title
	}
	return data
}

// Render returns the notice markup. Errors are announced assertively,
// everything else politely.
func (n Notice) Render() *vdom.VNode {
	live := "polite"
	if n.Level == LevelError {
		live = "assertive"
	}
	return vdom.Div(
		vdom.Class("notice", "notice-"+string(n.Level)),
		vdom.Role("alert"),
		vdom.AriaLive(live),
		vdom.Data("notice", string(n.Level)),
		vdom.If(n.Title != "", vdom.Strong(vdom.Class("notice-title"), n.Title)),
		vdom.P(vdom.Class("notice-message"), n.Message),
		vdom.Button(
			vdom.Type("button"),
			vdom.Class("notice-dismiss"),
			vdom.AriaLabel("Dismiss"),
			vdom.Data("dismiss", "notice"),
			"×",
		),
	)
}

// Emitter dispatches a named event to a client.
type Emitter interface {
	Emit(name string, data any)
}

// Show pushes n to the client behind e.
func Show(e Emitter, n Notice) {
	e.Emit(EventName, n.Payload())
}
