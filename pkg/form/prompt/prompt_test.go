package prompt

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/devflow-dev/devflow/pkg/form"
)

// stubDriver answers prompts from per-label queues and records the calls.
type stubDriver struct {
	answers map[string][]string
	asked   []string
	masked  []string
	err     error
}

func (d *stubDriver) next(cfg InputConfig) (string, error) {
	if d.err != nil {
		return "", d.err
	}
	q := d.answers[cfg.Message]
	if len(q) == 0 {
		return cfg.Default, nil
	}
	d.answers[cfg.Message] = q[1:]
	return q[0], nil
}

func (d *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	d.asked = append(d.asked, cfg.Message)
	return d.next(cfg)
}

func (d *stubDriver) Password(_ context.Context, cfg InputConfig) (string, error) {
	d.asked = append(d.asked, cfg.Message)
	d.masked = append(d.masked, cfg.Message)
	return d.next(cfg)
}

func newEngine(submit form.SubmitFunc) *form.Engine {
	schema := form.NewRules().
		Field("email", form.MinLength(1, "Email is required"), form.Email("Please enter a valid email address")).
		Field("password", form.MinLength(6, "Password must be at least 6 characters"))
	defaults := form.NewFieldSet(form.P("email", ""), form.P("password", ""))
	return form.New(schema, defaults, submit,
		form.WithDescriptors(
			form.Descriptor{Name: "email", Label: "Email Address", Required: true},
			form.Descriptor{Name: "password", Label: "Password", Masked: true, Required: true},
		))
}

func TestRunAsksEveryFieldInOrder(t *testing.T) {
	var got form.FieldSet
	e := newEngine(func(_ context.Context, v form.FieldSet) (form.Result, error) {
		got = v
		return form.Result{Success: true}, nil
	})
	d := &stubDriver{answers: map[string][]string{
		"Email Address": {"dev@example.com"},
		"Password":      {"secret1"},
	}}

	outcome, err := New(WithDriver(d), WithOutput(&bytes.Buffer{})).Run(context.Background(), e)
	if err != nil {
		t.Fatal(err)
	}
	if !outcome.Succeeded() {
		t.Fatalf("outcome = %+v", outcome)
	}
	if diff := cmp.Diff([]string{"Email Address", "Password"}, d.asked); diff != "" {
		t.Errorf("prompt order (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Password"}, d.masked); diff != "" {
		t.Errorf("masked prompts (-want +got):\n%s", diff)
	}
	if got.Get("email") != "dev@example.com" {
		t.Errorf("submitted email = %q", got.Get("email"))
	}
}

func TestRunReasksOnlyInvalidFields(t *testing.T) {
	calls := 0
	e := newEngine(func(context.Context, form.FieldSet) (form.Result, error) {
		calls++
		return form.Result{Success: true}, nil
	})
	d := &stubDriver{answers: map[string][]string{
		"Email Address": {"not-an-email", "dev@example.com"},
		"Password":      {"secret1"},
	}}
	var out bytes.Buffer

	outcome, err := New(WithDriver(d), WithOutput(&out)).Run(context.Background(), e)
	if err != nil {
		t.Fatal(err)
	}
	if !outcome.Succeeded() || calls != 1 {
		t.Fatalf("outcome = %+v, calls = %d", outcome, calls)
	}
	want := []string{"Email Address", "Password", "Email Address"}
	if diff := cmp.Diff(want, d.asked); diff != "" {
		t.Errorf("prompts (-want +got):\n%s", diff)
	}
	if !strings.Contains(out.String(), "Email Address: Please enter a valid email address") {
		t.Errorf("output = %q", out.String())
	}
}

func TestRunGivesUpAfterAttempts(t *testing.T) {
	e := newEngine(func(context.Context, form.FieldSet) (form.Result, error) {
		t.Error("callback must not run for invalid input")
		return form.Result{}, nil
	})
	d := &stubDriver{answers: map[string][]string{
		"Email Address": {"a", "b"},
		"Password":      {"123"},
	}}

	outcome, err := New(WithDriver(d), WithAttempts(2), WithOutput(&bytes.Buffer{})).Run(context.Background(), e)
	if err != nil {
		t.Fatal(err)
	}
	if outcome.Valid() {
		t.Fatal("expected invalid outcome")
	}
	if !outcome.Errors.Has("email") || !outcome.Errors.Has("password") {
		t.Errorf("errors = %v", outcome.Errors)
	}
}

func TestRunAborted(t *testing.T) {
	e := newEngine(nil)
	d := &stubDriver{err: ErrAborted}

	_, err := New(WithDriver(d)).Run(context.Background(), e)
	if !errors.Is(err, ErrAborted) {
		t.Errorf("err = %v, want ErrAborted", err)
	}
	if e.State() != form.Idle {
		t.Errorf("state = %s, want idle", e.State())
	}
}
