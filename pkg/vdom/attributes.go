package vdom

import "strings"

// attr creates an Attr with the given key and value.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// AttrOf sets an arbitrary attribute.
func AttrOf(key string, value any) Attr { return attr(key, value) }

// Key sets the list identity of a node. It is not rendered.
func Key(key string) Attr { return attr("key", key) }

// Identity attributes

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
// Empty class names are skipped.
func Class(classes ...string) Attr {
	parts := make([]string, 0, len(classes))
	for _, c := range classes {
		if c = strings.TrimSpace(c); c != "" {
			parts = append(parts, c)
		}
	}
	if len(parts) == 0 {
		return Attr{}
	}
	return attr("class", strings.Join(parts, " "))
}

// Data creates a data-* attribute.
// Example: Data("route", "/") → data-route="/"
func Data(key, value string) Attr { return attr("data-"+key, value) }

// Accessibility attributes

// Role sets the role attribute.
func Role(role string) Attr { return attr("role", role) }

// AriaLabel sets the aria-label attribute.
func AriaLabel(label string) Attr { return attr("aria-label", label) }

// AriaLive sets the aria-live attribute.
func AriaLive(mode string) Attr { return attr("aria-live", mode) }

// AriaInvalid sets aria-invalid="true" when invalid is true.
func AriaInvalid(invalid bool) Attr {
	if !invalid {
		return Attr{}
	}
	return attr("aria-invalid", "true")
}

// AriaDescribedBy sets the aria-describedby attribute.
func AriaDescribedBy(id string) Attr { return attr("aria-describedby", id) }

// Link and media attributes

// Href sets the href attribute.
func Href(url string) Attr { return attr("href", url) }

// Src sets the src attribute.
func Src(url string) Attr { return attr("src", url) }

// Alt sets the alt attribute.
func Alt(text string) Attr { return attr("alt", text) }

// Width sets the width attribute.
func Width(w int) Attr { return attr("width", w) }

// Height sets the height attribute.
func Height(h int) Attr { return attr("height", h) }

// Rel sets the rel attribute.
func Rel(rel string) Attr { return attr("rel", rel) }

// Charset sets the charset attribute.
func Charset(charset string) Attr { return attr("charset", charset) }

// Content sets the content attribute.
func Content(content string) Attr { return attr("content", content) }

// NameAttr sets the name attribute.
func NameAttr(name string) Attr { return attr("name", name) }

// Lang sets the lang attribute.
func Lang(lang string) Attr { return attr("lang", lang) }

// Defer sets the defer attribute.
func Defer() Attr { return attr("defer", true) }

// Form attributes

// Type sets the type attribute.
func Type(t string) Attr { return attr("type", t) }

// Value sets the value attribute.
func Value(v string) Attr { return attr("value", v) }

// Placeholder sets the placeholder attribute.
func Placeholder(text string) Attr { return attr("placeholder", text) }

// Required sets the required attribute.
func Required() Attr { return attr("required", true) }

// Disabled sets the disabled attribute when disabled is true.
func Disabled(disabled bool) Attr { return attr("disabled", disabled) }

// Method sets the form method attribute.
func Method(m string) Attr { return attr("method", m) }

// Action sets the form action attribute.
func Action(url string) Attr { return attr("action", url) }

// For sets the for attribute of a label.
func For(id string) Attr { return attr("for", id) }

// AutoComplete sets the autocomplete attribute.
func AutoComplete(value string) Attr { return attr("autocomplete", value) }

// NoValidate sets the novalidate attribute.
func NoValidate() Attr { return attr("novalidate", true) }
