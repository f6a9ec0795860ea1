// Package prompt fills a form.Engine from the terminal: one prompt per
// field in order, masked for secret fields, re-asking only the fields that
// failed validation.
package prompt

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/devflow-dev/devflow/pkg/form"
)

// DefaultAttempts is how many times a form is asked before giving up.
const DefaultAttempts = 3

// Option configures a Runner.
type Option func(*Runner)

// WithDriver sets the prompt driver. Default: SurveyDriver().
func WithDriver(d Driver) Option {
	return func(r *Runner) {
		if d != nil {
			r.driver = d
		}
	}
}

// WithOutput sets where validation messages are printed. Default: stderr.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) {
		if w != nil {
			r.out = w
		}
	}
}

// WithAttempts bounds the number of rounds. Values below 1 mean 1.
func WithAttempts(n int) Option {
	return func(r *Runner) {
		if n < 1 {
			n = 1
		}
		r.attempts = n
	}
}

// Runner drives an Engine from prompts.
type Runner struct {
	driver   Driver
	out      io.Writer
	attempts int
}

// New creates a Runner.
func New(opts ...Option) *Runner {
	r := &Runner{
		driver:   SurveyDriver(),
		out:      os.Stderr,
		attempts: DefaultAttempts,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run prompts every field, submits, and repeats for the invalid fields
// until the values validate or the attempts run out. The last Outcome is
// returned either way; err is only set when prompting or submitting could
// not happen at all.
func (r *Runner) Run(ctx context.Context, e *form.Engine) (form.Outcome, error) {
	var outcome form.Outcome
	for attempt := 1; attempt <= r.attempts; attempt++ {
		for _, f := range e.Fields() {
			if attempt > 1 && f.Error == "" {
				continue
			}
			if f.Error != "" {
				fmt.Fprintf(r.out, "%s: %s\n", f.Label, f.Error)
			}
			v, err := r.ask(ctx, f)
			if err != nil {
				return outcome, err
			}
			e.Set(f.Name, v)
		}

		var err error
		outcome, err = e.Submit(ctx)
		if err != nil {
			return outcome, err
		}
		if outcome.Valid() {
			return outcome, nil
		}
	}
	return outcome, nil
}

func (r *Runner) ask(ctx context.Context, f form.Field) (string, error) {
	cfg := InputConfig{
		Message: f.Label,
		Help:    f.Placeholder,
	}
	if f.Masked {
		return r.driver.Password(ctx, cfg)
	}
	cfg.Default = f.Value
	return r.driver.Input(ctx, cfg)
}
