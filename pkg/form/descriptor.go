package form

import (
	"unicode"
	"unicode/utf8"
)

// Descriptor is the presentation of a single field.
type Descriptor struct {
	Name         string
	Label        string
	Placeholder  string
	Masked       bool
	Required     bool
	AutoComplete string
}

// DescribeField derives the default presentation of name: the key with its
// first letter upper-cased as label, "Enter your <name>" as placeholder, a
// plain required text input.
func DescribeField(name string) Descriptor {
	return Descriptor{
		Name:        name,
		Label:       capitalize(name),
		Placeholder: "Enter your " + name,
		Required:    true,
	}
}

// InputType returns the HTML input type for the descriptor.
func (d Descriptor) InputType() string {
	if d.Masked {
		return "password"
	}
	return "text"
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
