// Package vdom provides the node tree DevFlow pages are composed from.
//
// A VNode represents an element, text, a fragment, or trusted raw HTML.
// Props holds attributes; Attr values are produced by the attribute helpers.
//
// # Element API
//
// Elements are created using variadic factory functions:
//
//	Form(Method("post"), Action("/sign-in"),
//	    Label(For("email"), Text("Email Address")),
//	    Input(Type("text"), ID("email"), NameAttr("email"), Required()),
//	    Button(Type("submit"), Text("Sign in")),
//	)
//
// nil arguments are ignored, so conditional children and attributes can be
// passed inline with If.
//
// Trees are turned into HTML by package render.
package vdom
