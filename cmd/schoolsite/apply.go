package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	schoolsite "github.com/goliatone/go-schoolsite"
	"github.com/goliatone/go-schoolsite/pkg/prompt"
	"github.com/goliatone/go-schoolsite/pkg/submission"
	"github.com/goliatone/go-schoolsite/pkg/validation"
)

type applyFlags struct {
	seed   string
	output string
	yes    bool
}

func newApplyCmd(root *rootFlags) *cobra.Command {
	var flags applyFlags
	cmd := &cobra.Command{
		Use:   "apply <form>",
		Short: "Fill in a form interactively",
		Long:  "Prompts for every field of the admissions or careers form, checking each answer as it is entered.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(root.configPath)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runApply(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), cfg.Forms.Dir, args[0], flags, nil)
		},
	}
	f := cmd.Flags()
	f.StringVar(&flags.seed, "seed", "", "YAML or JSON values file used as defaults")
	f.StringVarP(&flags.output, "output", "o", "", "Write the collected values to this file")
	f.BoolVarP(&flags.yes, "yes", "y", false, "Submit without asking for confirmation")
	return cmd
}

// runApply drives the prompt session. A nil driver uses the terminal.
func runApply(ctx context.Context, stdin io.Reader, out io.Writer, formsDir, formID string, flags applyFlags, driver prompt.Driver) error {
	store, err := schoolsite.LoadForms(formsDir)
	if err != nil {
		return codeError(exitUsage, "%s", err)
	}
	form, err := store.Form(formID)
	if err != nil {
		return codeError(exitUsage, "%s (known forms: %v)", err, store.IDs())
	}
	validator, err := store.Validator(formID)
	if err != nil {
		return codeError(exitUsage, "%s", err)
	}

	var seed validation.Values
	if flags.seed != "" {
		if seed, err = readValues(flags.seed, stdin); err != nil {
			return codeError(exitUsage, "%s", err)
		}
	}

	if driver == nil {
		driver = prompt.NewSurveyDriver(out)
	}
	filler := prompt.New(prompt.WithDriver(driver))

	values, err := filler.Fill(ctx, form, validator, seed)
	if err != nil {
		if errors.Is(err, prompt.ErrAborted) {
			return codeError(exitAborted, "aborted")
		}
		if errors.Is(err, prompt.ErrTooManyAttempts) {
			return codeError(exitInvalid, "%s", err)
		}
		return err
	}

	printSummary(out, values)

	if flags.output != "" {
		if err := saveValues(flags.output, values); err != nil {
			return err
		}
		fmt.Fprintln(out, mutedStyle.Render("Values written to "+flags.output))
	}

	if !flags.yes {
		ok, err := filler.Confirm(ctx, "Submit "+strings.ToLower(form.Title)+"?")
		if err != nil {
			if errors.Is(err, prompt.ErrAborted) {
				return codeError(exitAborted, "aborted")
			}
			return err
		}
		if !ok {
			fmt.Fprintln(out, mutedStyle.Render("Not submitted."))
			return nil
		}
	}

	processor, err := submission.NewProcessor(store, submission.WithSink(submission.SinkFunc(
		func(_ context.Context, entry submission.Submission) error {
			_, err := fmt.Fprintln(out, mutedStyle.Render("Reference "+entry.ID.String()))
			return err
		},
	)))
	if err != nil {
		return err
	}
	outcome, err := processor.Submit(ctx, formID, values)
	if err != nil {
		return err
	}
	if !outcome.Accepted {
		printResult(out, form, outcome.Result)
		return codeError(exitInvalid, "")
	}
	fmt.Fprintln(out, successStyle.Render(outcome.Notice.Title))
	if outcome.Notice.Message != "" {
		fmt.Fprintln(out, outcome.Notice.Message)
	}
	return nil
}

func printSummary(out io.Writer, values validation.Values) {
	names := sortedNames(values)
	width := 0
	for _, name := range names {
		if len(name) > width {
			width = len(name)
		}
	}
	fmt.Fprintln(out, titleStyle.Render("Summary"))
	for _, name := range names {
		value := values[name]
		shown := value.Raw
		if len(value.Files) > 0 {
			shown = strings.Join(value.Files, ", ")
		}
		fmt.Fprintf(out, "  %s  %s\n", fieldStyle.Render(padRight(name, width)), shown)
	}
}

func saveValues(path string, values validation.Values) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write values: %w", err)
	}
	if err := writeValues(f, values); err != nil {
		_ = f.Close()
		return fmt.Errorf("write values: %w", err)
	}
	return f.Close()
}
