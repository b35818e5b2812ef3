package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	schoolsite "github.com/goliatone/go-schoolsite"
	"github.com/goliatone/go-schoolsite/pkg/apidoc"
)

type openAPIFlags struct {
	out    string
	server string
}

func newOpenAPICmd(root *rootFlags) *cobra.Command {
	var flags openAPIFlags
	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Print the OpenAPI document for the forms API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(root.configPath)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runOpenAPI(ctx, cmd.OutOrStdout(), cfg.Forms.Dir, flags)
		},
	}
	cmd.Flags().StringVarP(&flags.out, "out", "o", "", "Write the document to a file instead of stdout")
	cmd.Flags().StringVar(&flags.server, "server", "", "Server URL listed in the document")
	return cmd
}

func runOpenAPI(ctx context.Context, out io.Writer, formsDir string, flags openAPIFlags) error {
	store, err := schoolsite.LoadForms(formsDir)
	if err != nil {
		return codeError(exitUsage, "%s", err)
	}
	opts := []apidoc.Option{apidoc.WithInfo("", version)}
	if flags.server != "" {
		opts = append(opts, apidoc.WithServer(flags.server))
	}
	data, err := apidoc.JSON(ctx, store.Forms(), opts...)
	if err != nil {
		return err
	}
	if flags.out == "" {
		_, err = fmt.Fprintln(out, string(data))
		return err
	}
	if err := os.WriteFile(flags.out, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", flags.out, err)
	}
	return nil
}
