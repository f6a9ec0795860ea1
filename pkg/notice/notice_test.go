package notice_test

import (
	"strings"
	"testing"

	"github.com/devflow-dev/devflow/pkg/notice"
	"github.com/devflow-dev/devflow/pkg/render"
)

// mockEmitter captures emitted events for verification.
type mockEmitter struct {
	emittedEvents []emittedEvent
}

type emittedEvent struct {
	name string
	data any
}

func (m *mockEmitter) Emit(name string, data any) {
	m.emittedEvents = append(m.emittedEvents, emittedEvent{name, data})
}

func TestShow(t *testing.T) {
	tests := []struct {
		notice notice.Notice
		level  string
	}{
		{notice.Success("Item saved!"), "success"},
		{notice.Error("Failed"), "error"},
		{notice.Warning("Careful"), "warning"},
		{notice.Info("FYI"), "info"},
	}

	for _, tt := range tests {
		e := &mockEmitter{}
		notice.Show(e, tt.notice)

		if len(e.emittedEvents) != 1 {
			t.Fatalf("expected 1 event, got %d", len(e.emittedEvents))
		}
		event := e.emittedEvents[0]
		if event.name != notice.EventName {
			t.Errorf("expected event name %q, got %q", notice.EventName, event.name)
		}
		data := event.data.(map[string]any)
		if data["level"] != tt.level {
			t.Errorf("expected level %s, got %v", tt.level, data["level"])
		}
		if data["message"] != tt.notice.Message {
			t.Errorf("expected message %q, got %v", tt.notice.Message, data["message"])
		}
		if _, ok := data["title"]; ok {
			t.Error("untitled notice carried a title")
		}
	}
}

func TestWithTitle(t *testing.T) {
	e := &mockEmitter{}
	notice.Show(e, notice.Error("Try again.").WithTitle("Sign in failed"))

	data := e.emittedEvents[0].data.(map[string]any)
	if data["title"] != "Sign in failed" {
		t.Errorf("expected title, got %v", data["title"])
	}
}

func TestRender(t *testing.T) {
	html, err := render.NewRenderer(render.RendererConfig{}).
		RenderToString(notice.Error("Invalid <credentials>").WithTitle("Oops").Render())
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		`class="notice notice-error"`,
		`role="alert"`,
		`aria-live="assertive"`,
		`<strong class="notice-title">Oops</strong>`,
		`Invalid &lt;credentials&gt;`,
		`data-dismiss="notice"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("render missing %s\n%s", want, html)
		}
	}
}
