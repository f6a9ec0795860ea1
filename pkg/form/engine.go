package form

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"runtime/debug"
	"sync"

	"github.com/devflow-dev/devflow/pkg/vdom"
)

// ErrSubmitInFlight is returned by Submit while an earlier submission has
// not settled.
var ErrSubmitInFlight = errors.New("form: submission in flight")

// ErrSchemaPanic wraps a panic raised while validating.
var ErrSchemaPanic = errors.New("form: schema panicked")

// State is the submission state of an Engine.
type State uint8

const (
	Idle State = iota
	Submitting
)

// String returns the string representation of the State.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	default:
		return "unknown"
	}
}

// Result is what a SubmitFunc settles with.
type Result struct {
	Success bool     `json:"success"`
	Data    FieldSet `json:"data,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// SubmitFunc receives the validated values. A returned error is folded into
// a failed Result.
type SubmitFunc func(ctx context.Context, values FieldSet) (Result, error)

// Outcome describes one settled call to Submit.
type Outcome struct {
	// Values are the values that were validated.
	Values FieldSet

	// Errors holds the per-field messages when validation failed.
	Errors FieldErrors

	// Result is nil when validation failed and the callback was not run.
	Result *Result
}

// Valid reports whether validation passed.
func (o Outcome) Valid() bool {
	return len(o.Errors) == 0
}

// Succeeded reports whether the callback ran and reported success.
func (o Outcome) Succeeded() bool {
	return o.Result != nil && o.Result.Success
}

// Chrome is the form-kind specific decoration around the fields.
type Chrome struct {
	SubmitLabel     string
	SubmittingLabel string

	// Footer is rendered after the submit button, typically a cross-link.
	Footer *vdom.VNode
}

// Field is a rendered field: its presentation and current state.
type Field struct {
	Descriptor
	Value string
	Error string
}

// Option configures an Engine.
type Option func(*Engine)

// WithDescriptors overrides the derived presentation of the named fields.
// Descriptors for names outside the defaults are ignored.
func WithDescriptors(ds ...Descriptor) Option {
	return func(e *Engine) {
		for _, d := range ds {
			if _, ok := e.descriptors[d.Name]; ok {
				e.descriptors[d.Name] = d
			}
		}
	}
}

// WithChrome sets the button labels and footer.
func WithChrome(c Chrome) Option {
	return func(e *Engine) {
		if c.SubmitLabel != "" {
			e.chrome.SubmitLabel = c.SubmitLabel
		}
		if c.SubmittingLabel != "" {
			e.chrome.SubmittingLabel = c.SubmittingLabel
		}
		e.chrome.Footer = c.Footer
	}
}

// WithOnComplete registers the completion hook. It receives every Outcome
// for which the callback ran, after the engine is back to Idle.
func WithOnComplete(fn func(Outcome)) Option {
	return func(e *Engine) {
		e.onComplete = fn
	}
}

// WithName names the form in logs and markup.
func WithName(name string) Option {
	return func(e *Engine) {
		e.name = name
	}
}

// WithAction sets the URL the rendered form posts to.
func WithAction(action string) Option {
	return func(e *Engine) {
		e.action = action
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// Engine renders a form from a schema and an ordered set of defaults and
// runs its submission state machine.
type Engine struct {
	name        string
	action      string
	schema      Schema
	defaults    FieldSet
	submit      SubmitFunc
	descriptors map[string]Descriptor
	chrome      Chrome
	onComplete  func(Outcome)
	logger      *slog.Logger

	mu     sync.Mutex
	state  State
	values FieldSet
	errors FieldErrors
	last   *Result
}

// New creates an Engine. The editable values start as a copy of defaults
// and the fields are rendered in the order of its keys.
func New(schema Schema, defaults FieldSet, submit SubmitFunc, opts ...Option) *Engine {
	e := &Engine{
		name:        "form",
		schema:      schema,
		defaults:    defaults.Clone(),
		submit:      submit,
		descriptors: make(map[string]Descriptor, defaults.Len()),
		chrome: Chrome{
			SubmitLabel:     "Submit",
			SubmittingLabel: "Submitting...",
		},
		logger: slog.Default(),
		values: defaults.Clone(),
	}
	for _, k := range defaults.Keys() {
		e.descriptors[k] = DescribeField(k)
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name returns the form name.
func (e *Engine) Name() string {
	return e.name
}

// Fields returns one entry per default key, in order.
func (e *Engine) Fields() []Field {
	e.mu.Lock()
	defer e.mu.Unlock()

	keys := e.defaults.Keys()
	out := make([]Field, 0, len(keys))
	for _, k := range keys {
		out = append(out, Field{
			Descriptor: e.descriptors[k],
			Value:      e.values.Get(k),
			Error:      e.errors[k],
		})
	}
	return out
}

// Set updates the value of a field. Names outside the defaults are ignored.
func (e *Engine) Set(name, value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.defaults.Has(name) {
		e.values.Set(name, value)
	}
}

// Bind copies the engine's own fields from submitted form values. Other
// keys are ignored; fields absent from vs keep their current value.
func (e *Engine) Bind(vs url.Values) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, k := range e.defaults.Keys() {
		if _, ok := vs[k]; ok {
			e.values.Set(k, vs.Get(k))
		}
	}
}

// Reset restores the defaults and clears errors. It does not interrupt a
// submission in flight.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.values = e.defaults.Clone()
	e.errors = nil
	e.last = nil
}

// State returns the submission state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Errors returns a copy of the current field errors.
func (e *Engine) Errors() FieldErrors {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.errors) == 0 {
		return nil
	}
	out := make(FieldErrors, len(e.errors))
	for k, v := range e.errors {
		out[k] = v
	}
	return out
}

// Values returns a copy of the current values.
func (e *Engine) Values() FieldSet {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.values.Clone()
}

// LastResult returns the result of the most recent callback run, or nil.
func (e *Engine) LastResult() *Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.last == nil {
		return nil
	}
	r := *e.last
	return &r
}

// ButtonLabel returns the submit label for the current state.
func (e *Engine) ButtonLabel() string {
	if e.State() == Submitting {
		return e.chrome.SubmittingLabel
	}
	return e.chrome.SubmitLabel
}

// Disabled reports whether the submit control is disabled.
func (e *Engine) Disabled() bool {
	return e.State() == Submitting
}

// Submit validates the current values and, when they are valid, runs the
// callback with the validated value. It returns ErrSubmitInFlight if a
// previous submission has not settled. Validation failures are reported in
// the Outcome, never as an error. A panicking schema returns the engine to
// Idle and is reported as ErrSchemaPanic.
func (e *Engine) Submit(ctx context.Context) (Outcome, error) {
	e.mu.Lock()
	if e.state == Submitting {
		e.mu.Unlock()
		return Outcome{}, ErrSubmitInFlight
	}
	e.state = Submitting
	values := e.values.Clone()
	e.mu.Unlock()

	validated, errs, err := e.validate(values)
	if err != nil {
		e.mu.Lock()
		e.state = Idle
		e.mu.Unlock()
		return Outcome{Values: values}, err
	}
	if len(errs) > 0 {
		e.mu.Lock()
		e.errors = errs
		e.state = Idle
		e.mu.Unlock()

		e.logger.Debug("form validation failed",
			"form", e.name,
			"fields", errs.Fields())
		return Outcome{Values: values, Errors: errs}, nil
	}

	e.mu.Lock()
	e.errors = nil
	e.mu.Unlock()

	result := e.call(ctx, validated)

	e.mu.Lock()
	e.state = Idle
	e.last = &result
	e.mu.Unlock()

	if result.Success {
		e.logger.Debug("form submitted", "form", e.name)
	} else {
		e.logger.Warn("form submission failed", "form", e.name, "error", result.Error)
	}

	r := result
	outcome := Outcome{Values: values, Result: &r}
	if e.onComplete != nil {
		e.onComplete(outcome)
	}
	return outcome, nil
}

// validate runs the schema, folding a panic into ErrSchemaPanic.
func (e *Engine) validate(values FieldSet) (validated FieldSet, errs FieldErrors, err error) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("form schema panic",
				"form", e.name,
				"panic", r,
				"stack", string(debug.Stack()))
			err = fmt.Errorf("%w: %v", ErrSchemaPanic, r)
		}
	}()
	validated, errs = e.schema.Validate(values)
	return validated, errs, nil
}

// call runs the callback, folding errors and panics into a failed Result.
func (e *Engine) call(ctx context.Context, values FieldSet) (result Result) {
	if e.submit == nil {
		return Result{Success: true, Data: values}
	}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("form submit panic",
				"form", e.name,
				"panic", r,
				"stack", string(debug.Stack()))
			result = Result{Success: false, Error: fmt.Sprintf("submit panicked: %v", r)}
		}
	}()

	res, err := e.submit(ctx, values)
	if err != nil {
		return Result{Success: false, Error: err.Error()}
	}
	return res
}
