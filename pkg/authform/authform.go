// Package authform provides the sign-in and sign-up forms.
package authform

import (
	"context"
	"log/slog"
	"time"

	"github.com/devflow-dev/devflow/pkg/form"
	"github.com/devflow-dev/devflow/pkg/routes"
	"github.com/devflow-dev/devflow/pkg/vdom"
)

// Kind selects one of the authentication forms.
type Kind uint8

const (
	SignIn Kind = iota
	SignUp
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case SignIn:
		return "SIGN_IN"
	case SignUp:
		return "SIGN_UP"
	default:
		return "UNKNOWN"
	}
}

// ParseKind accepts "sign-in"/"sign-up" as well as the String forms.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "sign-in", "signin", "SIGN_IN":
		return SignIn, true
	case "sign-up", "signup", "SIGN_UP":
		return SignUp, true
	default:
		return 0, false
	}
}

// Title is the human-readable name of the form.
func (k Kind) Title() string {
	if k == SignUp {
		return "Sign up"
	}
	return "Sign in"
}

// Route returns the page the form lives on.
func (k Kind) Route() string {
	if k == SignUp {
		return routes.SignUp
	}
	return routes.SignIn
}

const (
	namePattern = `^[a-zA-Z0-9_]+$`
)

func emailRules() []form.Validator {
	return []form.Validator{
		form.MinLength(1, "Email is required"),
		form.Email("Please enter a valid email address"),
	}
}

func passwordLength() []form.Validator {
	return []form.Validator{
		form.MinLength(6, "Password must be at least 6 characters"),
		form.MaxLength(32, "Password must be less than 32 characters"),
	}
}

// SignInSchema validates {email, password}.
func SignInSchema() *form.Rules {
	return form.NewRules().
		Field("email", emailRules()...).
		Field("password", passwordLength()...)
}

// SignUpSchema validates {username, name, email, password}.
func SignUpSchema() *form.Rules {
	return form.NewRules().
		Field("username",
			form.MinLength(3, "Username must be at least 3 characters"),
			form.MaxLength(32, "Username must be less than 32 characters"),
			form.Pattern(namePattern, "Username must contain only letters, numbers, and underscores"),
		).
		Field("name",
			form.MinLength(3, "Name must be at least 3 characters"),
			form.MaxLength(32, "Name must be less than 32 characters"),
			form.Pattern(namePattern, "Name must contain only letters, numbers, and underscores"),
		).
		Field("email", emailRules()...).
		Field("password", append(passwordLength(),
			form.Contains(`[A-Z]`, "Password must contain at least one uppercase letter"),
			form.Contains(`[a-z]`, "Password must contain at least one lowercase letter"),
			form.Contains(`[0-9]`, "Password must contain at least one number"),
			form.Contains(`[^a-zA-Z0-9]`, "Password must contain at least one special character"),
		)...)
}

// SignInDefaults returns the empty sign-in values.
func SignInDefaults() form.FieldSet {
	return form.NewFieldSet(form.P("email", ""), form.P("password", ""))
}

// SignUpDefaults returns the empty sign-up values.
func SignUpDefaults() form.FieldSet {
	return form.NewFieldSet(
		form.P("username", ""),
		form.P("name", ""),
		form.P("email", ""),
		form.P("password", ""),
	)
}

// Descriptors returns the presentation of the fields of fs: the derived
// defaults, with the email field relabelled and the password field masked.
func Descriptors(fs form.FieldSet) []form.Descriptor {
	keys := fs.Keys()
	out := make([]form.Descriptor, 0, len(keys))
	for _, k := range keys {
		d := form.DescribeField(k)
		switch k {
		case "email":
			d.Label = "Email Address"
			d.Placeholder = "Enter your email address"
			d.AutoComplete = "email"
		case "password":
			d.Masked = true
			d.AutoComplete = "current-password"
		case "username":
			d.AutoComplete = "username"
		}
		out = append(out, d)
	}
	return out
}

// Chrome returns the button labels and cross-link footer for kind.
func Chrome(kind Kind) form.Chrome {
	if kind == SignUp {
		return form.Chrome{
			SubmitLabel:     "Sign up",
			SubmittingLabel: "Signing up...",
			Footer:          footer("Already have an account?", "Sign in", routes.SignIn),
		}
	}
	return form.Chrome{
		SubmitLabel:     "Sign in",
		SubmittingLabel: "Signing in...",
		Footer:          footer("Don't have an account?", "Sign up", routes.SignUp),
	}
}

func footer(prompt, label, href string) *vdom.VNode {
	return vdom.P(
		vdom.Class("form-footer"),
		prompt+" ",
		vdom.A(vdom.Href(href), vdom.Class("form-footer-link"), label),
	)
}

// New returns the engine for kind. Options are applied after the
// kind-specific ones and may override them.
func New(kind Kind, submit form.SubmitFunc, opts ...form.Option) *form.Engine {
	schema, defaults := SignInSchema(), SignInDefaults()
	if kind == SignUp {
		schema, defaults = SignUpSchema(), SignUpDefaults()
	}

	descriptors := Descriptors(defaults)
	if kind == SignUp {
		for i := range descriptors {
			if descriptors[i].Name == "password" {
				descriptors[i].AutoComplete = "new-password"
			}
		}
	}

	base := []form.Option{
		form.WithName(nameOf(kind)),
		form.WithAction(kind.Route()),
		form.WithDescriptors(descriptors...),
		form.WithChrome(Chrome(kind)),
	}
	return form.New(schema, defaults, submit, append(base, opts...)...)
}

func nameOf(kind Kind) string {
	if kind == SignUp {
		return "sign-up"
	}
	return "sign-in"
}

// MockSubmit is the stubbed backend: after delay it settles with success
// and echoes the values. It honours ctx cancellation.
func MockSubmit(delay time.Duration, logger *slog.Logger) form.SubmitFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, values form.FieldSet) (form.Result, error) {
		if delay > 0 {
			t := time.NewTimer(delay)
			defer t.Stop()
			select {
			case <-ctx.Done():
				return form.Result{}, ctx.Err()
			case <-t.C:
			}
		}
		logger.Info("auth submission accepted", "fields", values.Keys())
		return form.Result{Success: true, Data: values}, nil
	}
}
