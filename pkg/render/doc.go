// Package render turns vdom trees into HTML.
//
// Attributes are written in sorted order so the same tree always produces
// the same bytes. Text is HTML-escaped; Raw nodes are written verbatim.
//
//	r := render.NewRenderer(render.RendererConfig{})
//	html, err := r.RenderToString(vdom.P(vdom.Text("hi")))
//
// RenderPage wraps a body tree in a full HTML document with head metadata,
// stylesheets, and deferred scripts.
package render
