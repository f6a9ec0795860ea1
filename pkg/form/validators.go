package form

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf16"
)

// Validator checks a single field value.
type Validator interface {
	// Validate returns nil if value is valid, or an error carrying the
	// message to show beneath the field.
	Validate(value string) error
}

// ValidatorFunc is a function that implements Validator.
type ValidatorFunc func(value string) error

func (f ValidatorFunc) Validate(value string) error {
	return f(value)
}

// ValidationError represents a validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

// ----------------------------------------------------------------------------
// String Validators
// ----------------------------------------------------------------------------

// Required validates that the value is non-blank.
func Required(msg string) Validator {
	if msg == "" {
		msg = "This field is required"
	}
	return ValidatorFunc(func(value string) error {
		if strings.TrimSpace(value) == "" {
			return ValidationError{Message: msg}
		}
		return nil
	})
}

// MinLength validates that a string has at least n characters, counted in
// UTF-16 code units as browsers count them. Unlike the
// other validators it also rejects the empty string when n > 0.
func MinLength(n int, msg string) Validator {
	if msg == "" {
		msg = fmt.Sprintf("Must be at least %d characters", n)
	}
	return ValidatorFunc(func(value string) error {
		if textLength(value) < n {
			return ValidationError{Message: msg}
		}
		return nil
	})
}

// MaxLength validates that a string has at most n characters, counted
// like MinLength.
func MaxLength(n int, msg string) Validator {
	if msg == "" {
		msg = fmt.Sprintf("Must be at most %d characters", n)
	}
	return ValidatorFunc(func(value string) error {
		if textLength(value) > n {
			return ValidationError{Message: msg}
		}
		return nil
	})
}

func textLength(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// Pattern validates that the whole value matches the given regular
// expression. Empty values are left to MinLength or Required.
func Pattern(pattern string, msg string) Validator {
	re := regexp.MustCompile(pattern)
	if msg == "" {
		msg = "Invalid format"
	}
	return ValidatorFunc(func(value string) error {
		if value == "" {
			return nil
		}
		if !re.MatchString(value) {
			return ValidationError{Message: msg}
		}
		return nil
	})
}

// Contains validates that the value has at least one match of pattern
// anywhere in it.
func Contains(pattern string, msg string) Validator {
	re := regexp.MustCompile(pattern)
	if msg == "" {
		msg = "Invalid format"
	}
	return ValidatorFunc(func(value string) error {
		if !re.MatchString(value) {
			return ValidationError{Message: msg}
		}
		return nil
	})
}

var (
	emailLocal  = regexp.MustCompile(`(?i)^[A-Z0-9_'+\-.]*[A-Z0-9_+\-]$`)
	emailDomain = regexp.MustCompile(`(?i)^([A-Z0-9][A-Z0-9\-]*\.)+[A-Z]{2,}$`)
)

// IsEmail reports whether s is a syntactically valid email address: no
// leading dot, no consecutive dots, a local part that does not end in a dot
// or quote, and a dotted domain with an alphabetic top-level label.
func IsEmail(s string) bool {
	if strings.HasPrefix(s, ".") || strings.Contains(s, "..") {
		return false
	}
	local, domain, ok := strings.Cut(s, "@")
	if !ok {
		return false
	}
	return emailLocal.MatchString(local) && emailDomain.MatchString(domain)
}

// Email validates that the value is a valid email address. Empty values are
// left to MinLength or Required.
func Email(msg string) Validator {
	if msg == "" {
		msg = "Invalid email address"
	}
	return ValidatorFunc(func(value string) error {
		if value == "" {
			return nil
		}
		if !IsEmail(value) {
			return ValidationError{Message: msg}
		}
		return nil
	})
}

// Custom creates a validator from a predicate.
func Custom(fn func(value string) bool, msg string) Validator {
	if msg == "" {
		msg = "Invalid value"
	}
	return ValidatorFunc(func(value string) error {
		if !fn(value) {
			return ValidationError{Message: msg}
		}
		return nil
	})
}
