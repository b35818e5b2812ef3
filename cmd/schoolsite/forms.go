package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	schoolsite "github.com/goliatone/go-schoolsite"
)

func newFormsCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "forms",
		Short: "List the available forms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(root.configPath)
			if err != nil {
				return err
			}
			return runForms(cmd.OutOrStdout(), cfg.Forms.Dir)
		},
	}
}

func runForms(out io.Writer, formsDir string) error {
	store, err := schoolsite.LoadForms(formsDir)
	if err != nil {
		return codeError(exitUsage, "%s", err)
	}
	for _, form := range store.Forms() {
		fmt.Fprintf(out, "%s  %s %s\n", titleStyle.Render(padRight(form.ID, 12)), form.Method, form.Endpoint)
		for _, field := range form.Fields {
			marker := " "
			if field.Required {
				marker = "*"
			}
			fmt.Fprintf(out, "  %s %s %s\n", marker, padRight(field.Name, 18), mutedStyle.Render(string(field.Kind)))
		}
	}
	return nil
}
