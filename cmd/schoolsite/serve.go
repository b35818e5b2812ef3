package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	schoolsite "github.com/goliatone/go-schoolsite"
	"github.com/goliatone/go-schoolsite/internal/config"
	"github.com/goliatone/go-schoolsite/internal/logging"
)

type serveFlags struct {
	addr       string
	contentDir string
	formsDir   string
	theme      string
	variant    string
	logLevel   string
	logFormat  string
	noWatch    bool
}

func newServeCmd(root *rootFlags) *cobra.Command {
	var flags serveFlags
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the website",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(root.configPath)
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, cfg); err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.addr, "addr", "", "Listen address (overrides server.addr)")
	f.StringVar(&flags.contentDir, "content-dir", "", "Directory holding site.yaml (overrides content.dir)")
	f.StringVar(&flags.formsDir, "forms-dir", "", "Directory of form definitions (overrides forms.dir)")
	f.StringVar(&flags.theme, "theme", "", "Theme name")
	f.StringVar(&flags.variant, "variant", "", "Theme variant: light or dark")
	f.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	f.StringVar(&flags.logFormat, "log-format", "", "Log format: json or console")
	f.BoolVar(&flags.noWatch, "no-watch", false, "Do not reload content when site.yaml changes")
	return cmd
}

// apply copies explicitly set flags over the loaded configuration.
func (f serveFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	set := func(name string, dst *string, value string) {
		if cmd.Flags().Changed(name) {
			*dst = value
		}
	}
	set("addr", &cfg.Server.Addr, f.addr)
	set("content-dir", &cfg.Content.Dir, f.contentDir)
	set("forms-dir", &cfg.Forms.Dir, f.formsDir)
	set("theme", &cfg.Theme.Name, f.theme)
	set("variant", &cfg.Theme.Variant, f.variant)
	set("log-level", &cfg.Logging.Level, f.logLevel)
	set("log-format", &cfg.Logging.Format, f.logFormat)
	if f.noWatch {
		cfg.Content.Watch = false
	}
	if err := cfg.Validate(); err != nil {
		return codeError(exitUsage, "%s", err)
	}
	return nil
}

func runServe(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return codeError(exitUsage, "%s", err)
	}
	defer func() { _ = logger.Sync() }()

	app, err := schoolsite.NewApp(cfg, logger, schoolsite.WithVersion(version))
	if err != nil {
		return codeError(exitUsage, "%s", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		logger.Error("server stopped", zap.Error(err))
		return err
	}
	logger.Info("server stopped")
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, codeError(exitUsage, "%s", err)
	}
	return cfg, nil
}
