package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	schoolsite "github.com/goliatone/go-schoolsite"
	"github.com/goliatone/go-schoolsite/pkg/model"
	"github.com/goliatone/go-schoolsite/pkg/validation"
)

type validateFlags struct {
	asJSON bool
}

func newValidateCmd(root *rootFlags) *cobra.Command {
	var flags validateFlags
	cmd := &cobra.Command{
		Use:   "validate <form> <values-file>",
		Short: "Check a set of form values against the form rules",
		Long: "Validates a YAML or JSON file of field values against the admissions or careers rules.\n" +
			"Exits 2 when a field is invalid. Use - to read values from stdin.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(root.configPath)
			if err != nil {
				return err
			}
			return runValidate(cmd.InOrStdin(), cmd.OutOrStdout(), cfg.Forms.Dir, args[0], args[1], flags)
		},
	}
	cmd.Flags().BoolVar(&flags.asJSON, "json", false, "Print the result as JSON")
	return cmd
}

func runValidate(stdin io.Reader, out io.Writer, formsDir, formID, path string, flags validateFlags) error {
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

	values, err := readValues(path, stdin)
	if err != nil {
		return codeError(exitUsage, "%s", err)
	}

	result := validator.Validate(values)
	if flags.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else {
		printResult(out, form, result)
	}

	if !result.Valid {
		return codeError(exitInvalid, "")
	}
	return nil
}

func printResult(out io.Writer, form model.FormModel, result validation.Result) {
	if result.Valid {
		fmt.Fprintf(out, "%s %s\n", successStyle.Render("✓ "+form.ID), fmt.Sprintf("all %d fields valid", len(form.Fields)))
		return
	}

	fields := result.Fields()
	noun := "fields"
	if len(fields) == 1 {
		noun = "field"
	}
	fmt.Fprintf(out, "%s %d %s invalid\n", errorStyle.Render("✗ "+form.ID), len(fields), noun)

	width := 0
	for _, name := range fields {
		if len(name) > width {
			width = len(name)
		}
	}
	for _, name := range fields {
		fmt.Fprintf(out, "  %s  %s\n", fieldStyle.Render(padRight(name, width)), result.Errors[name])
	}
}
