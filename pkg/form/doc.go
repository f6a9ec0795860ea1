// Package form renders and submits schema-driven forms.
//
// # Overview
//
// An Engine is built from a Schema, an ordered FieldSet of default values,
// and a SubmitFunc. It renders one input per default key, in key order, and
// runs a two-state machine:
//
//	Idle --Submit--> Submitting --validation failed--> Idle
//	                 Submitting --callback settled---> Idle
//
// While Submitting, the submit button is disabled and a second Submit
// returns ErrSubmitInFlight.
//
// # Basic Usage
//
//	schema := form.NewRules().
//	    Field("email", form.MinLength(1, "Email is required"), form.Email("")).
//	    Field("password", form.MinLength(6, ""), form.MaxLength(32, ""))
//
//	engine := form.New(schema,
//	    form.NewFieldSet(form.P("email", ""), form.P("password", "")),
//	    signIn,
//	    form.WithDescriptors(form.Descriptor{Name: "password", Label: "Password", Masked: true, Required: true}),
//	    form.WithOnComplete(func(o form.Outcome) { ... }),
//	)
//
//	engine.Bind(r.PostForm)
//	outcome, err := engine.Submit(r.Context())
//
// # Validation
//
// Validation failures never surface as Go errors. Each failing field keeps
// the message of its first failing validator, which is rendered beneath the
// field:
//
//   - Required: non-blank value
//   - MinLength/MaxLength: length in characters
//   - Pattern: whole-value regular expression
//   - Contains: at least one match anywhere in the value
//   - Email: email address syntax
//   - Custom: user-defined predicate
package form
