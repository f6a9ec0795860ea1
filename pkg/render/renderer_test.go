package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/devflow-dev/devflow/pkg/vdom"
)

func TestRenderElement(t *testing.T) {
	r := NewRenderer(RendererConfig{})

	tests := []struct {
		name string
		node *vdom.VNode
		want string
	}{
		{
			name: "sorted attributes",
			node: vdom.Div(vdom.ID("x"), vdom.Class("a"), vdom.Text("hi")),
			want: `<div class="a" id="x">hi</div>`,
		},
		{
			name: "void element",
			node: vdom.Input(vdom.Type("text"), vdom.Value("")),
			want: `<input type="text" value="">`,
		},
		{
			name: "boolean attributes",
			node: vdom.Button(vdom.Disabled(true), vdom.Text("Go")),
			want: `<button disabled>Go</button>`,
		},
		{
			name: "false boolean omitted",
			node: vdom.Button(vdom.Disabled(false), vdom.Required(), vdom.Text("Go")),
			want: `<button required>Go</button>`,
		},
		{
			name: "text escaped",
			node: vdom.P(vdom.Text(`<script>"x"</script>`)),
			want: `<p>&lt;script&gt;&quot;x&quot;&lt;/script&gt;</p>`,
		},
		{
			name: "attribute escaped",
			node: vdom.A(vdom.Href("/?a=1&b=2")),
			want: `<a href="/?a=1&amp;b=2"></a>`,
		},
		{
			name: "fragment and raw",
			node: vdom.Fragment(vdom.Text("a"), vdom.Raw("<b>b</b>")),
			want: `a<b>b</b>`,
		},
		{
			name: "int attribute",
			node: vdom.Img(vdom.Src("/i.svg"), vdom.Width(24)),
			want: `<img src="/i.svg" width="24">`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.RenderToString(tt.node)
			if err != nil {
				t.Fatalf("RenderToString() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestRenderNilAndEmptyTag(t *testing.T) {
	r := NewRenderer(RendererConfig{})
	if got, err := r.RenderToString(nil); err != nil || got != "" {
		t.Errorf("nil node: got %q, %v", got, err)
	}
	if _, err := r.RenderToString(&vdom.VNode{Kind: vdom.KindElement}); err == nil {
		t.Error("expected error for element without tag")
	}
}

func TestRenderPage(t *testing.T) {
	r := NewRenderer(RendererConfig{})
	var buf bytes.Buffer
	err := r.RenderPage(&buf, PageData{
		Title:       "DevFlow",
		Body:        vdom.Main(vdom.Text("body")),
		StyleSheets: []string{"/static/app.css"},
		Scripts:     []string{"/_devflow/live.js"},
	})
	if err != nil {
		t.Fatalf("RenderPage() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"<!DOCTYPE html>",
		`<html lang="en">`,
		"<title>DevFlow</title>",
		`<link href="/static/app.css" rel="stylesheet">`,
		`<script defer src="/_devflow/live.js"></script>`,
		"<main>body</main>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("page missing %q\n%s", want, out)
		}
	}
}

func TestRenderPretty(t *testing.T) {
	r := NewRenderer(RendererConfig{Pretty: true})
	got, err := r.RenderToString(vdom.Div(vdom.Span(vdom.Text("x"))))
	if err != nil {
		t.Fatal(err)
	}
	want := "<div>\n  <span>x</span>\n</div>\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
