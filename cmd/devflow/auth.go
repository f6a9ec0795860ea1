package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/devflow-dev/devflow/internal/errors"
	"github.com/devflow-dev/devflow/pkg/authform"
	"github.com/devflow-dev/devflow/pkg/form"
	"github.com/devflow-dev/devflow/pkg/form/prompt"
)

func authCmd() *cobra.Command {
	var (
		delay    time.Duration
		attempts int
	)

	cmd := &cobra.Command{
		Use:   "auth <sign-in|sign-up>",
		Short: "Fill in an auth form from the terminal",
		Long: `Prompts for each field of the sign-in or sign-up form, validates the
answers with the same rules as the web form and submits them to the
mock backend.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"sign-in", "sign-up"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, ok := authform.ParseKind(args[0])
			if !ok {
				return errors.New(errors.CodeUnknownForm).
					WithDetail(fmt.Sprintf("%q is not a form", args[0]))
			}
			engine := authform.New(kind,
				authform.MockSubmit(delay, slog.Default()),
				form.WithLogger(slog.Default()),
			)
			runner := prompt.New(
				prompt.WithAttempts(attempts),
				prompt.WithOutput(cmd.ErrOrStderr()),
			)
			return runAuth(cmd.Context(), kind, engine, runner)
		},
	}

	cmd.Flags().DurationVar(&delay, "delay", 0, "Simulated backend latency")
	cmd.Flags().IntVar(&attempts, "attempts", prompt.DefaultAttempts, "Prompt rounds before giving up")

	return cmd
}

func runAuth(ctx context.Context, kind authform.Kind, e *form.Engine, r *prompt.Runner) error {
	if ctx == nil {
		ctx = context.Background()
	}
	outcome, err := r.Run(ctx, e)
	if err != nil {
		if stderrors.Is(err, prompt.ErrAborted) {
			return errors.New(errors.CodePromptAborted)
		}
		return errors.New(errors.CodeSubmitFailed).Wrap(err)
	}

	if !outcome.Valid() {
		lines := make([]string, 0, len(outcome.Errors))
		for _, name := range outcome.Errors.Fields() {
			lines = append(lines, name+": "+outcome.Errors[name])
		}
		return errors.New(errors.CodeFormInvalid).WithDetail(strings.Join(lines, "\n"))
	}
	if !outcome.Succeeded() {
		msg := "the backend rejected the submission"
		if outcome.Result != nil && outcome.Result.Error != "" {
			msg = outcome.Result.Error
		}
		return errors.New(errors.CodeSubmitFailed).WithDetail(msg)
	}

	success("%s succeeded", kind.Title())
	for _, d := range authform.Descriptors(outcome.Values) {
		if d.Masked {
			continue
		}
		info("%s: %s", d.Label, outcome.Values.Get(d.Name))
	}
	return nil
}
