// Package schoolsite assembles the Endeavour school website: the content
// store, the admissions and careers forms with their validation rules, and
// the HTTP server that renders and accepts them.
package schoolsite

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-schoolsite/internal/config"
	"github.com/goliatone/go-schoolsite/pkg/content"
	"github.com/goliatone/go-schoolsite/pkg/forms"
	"github.com/goliatone/go-schoolsite/pkg/render"
	"github.com/goliatone/go-schoolsite/pkg/server"
	"github.com/goliatone/go-schoolsite/pkg/theming"
	"github.com/goliatone/go-schoolsite/pkg/validation"
)

// RenderOptions describes per-request overrides that renderers use to prefill
// values or surface validation errors.
type RenderOptions = render.RenderOptions

// Values aliases validation.Values.
type Values = validation.Values

// Result aliases validation.Result.
type Result = validation.Result

// Config aliases the binary configuration so embedders can build one with
// DefaultConfig and adjust it.
type Config = config.Config

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return config.DefaultConfig()
}

// LoadForms returns the embedded forms when dir is empty, otherwise the
// definitions found under dir.
func LoadForms(dir string) (*forms.Store, error) {
	if dir == "" {
		return forms.Default(), nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("schoolsite: forms dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("schoolsite: forms dir %s is not a directory", dir)
	}
	store, err := forms.LoadFS(os.DirFS(dir))
	if err != nil {
		return nil, err
	}
	if store.Empty() {
		return nil, fmt.Errorf("schoolsite: no form definitions in %s", dir)
	}
	return store, nil
}

// ValidateForm checks values against one of the embedded forms.
func ValidateForm(formID string, values Values) (Result, error) {
	validator, err := forms.Default().Validator(formID)
	if err != nil {
		return Result{}, err
	}
	return validator.Validate(values), nil
}

// App is a configured site ready to serve.
type App struct {
	Config  *Config
	Logger  *zap.Logger
	Content *content.Store
	Forms   *forms.Store
	Server  *server.Server
}

// AppOption customises NewApp.
type AppOption func(*appOptions)

type appOptions struct {
	version string
	server  []server.Option
}

// WithVersion sets the version reported by /healthz and /openapi.json.
func WithVersion(version string) AppOption {
	return func(o *appOptions) {
		o.version = version
	}
}

// WithServerOptions appends options passed to server.New after the ones
// derived from the configuration.
func WithServerOptions(opts ...server.Option) AppOption {
	return func(o *appOptions) {
		o.server = append(o.server, opts...)
	}
}

// NewApp loads content and forms and builds the server from cfg.
func NewApp(cfg *Config, logger *zap.Logger, opts ...AppOption) (*App, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	o := appOptions{version: "dev"}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	site, err := content.NewStore(
		content.WithDir(cfg.Content.Dir),
		content.WithLogger(logger.Named("content")),
	)
	if err != nil {
		return nil, fmt.Errorf("schoolsite: content: %w", err)
	}

	store, err := LoadForms(cfg.Forms.Dir)
	if err != nil {
		return nil, err
	}

	themeCfg, err := theming.Default().RendererConfig(cfg.Theme.Name, cfg.Theme.Variant)
	if err != nil {
		return nil, fmt.Errorf("schoolsite: theme: %w", err)
	}

	serverOpts := []server.Option{
		server.WithAddr(cfg.Server.Addr),
		server.WithLogger(logger.Named("http")),
		server.WithTheme(themeCfg),
		server.WithMaxUploadBytes(cfg.Server.MaxUploadBytes),
		server.WithShutdownTimeout(cfg.GetShutdownTimeout()),
		server.WithTimeouts(cfg.GetReadTimeout(), cfg.GetWriteTimeout()),
		server.WithVersion(o.version),
	}
	srv, err := server.New(site, store, append(serverOpts, o.server...)...)
	if err != nil {
		return nil, err
	}

	return &App{
		Config:  cfg,
		Logger:  logger,
		Content: site,
		Forms:   store,
		Server:  srv,
	}, nil
}

// Run serves until ctx is cancelled. When content comes from a directory and
// watching is enabled, edits are reloaded without a restart.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	if a.Config.Content.Watch && a.Content.Dir() != "" {
		watcher, err := content.NewWatcher(a.Content, a.Logger.Named("content"),
			content.WithDebounce(a.Config.GetContentDebounce()),
		)
		if err != nil {
			return err
		}
		g.Go(func() error {
			if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("schoolsite: content watcher: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		a.Logger.Info("serving", zap.String("addr", a.Server.Addr()), zap.Strings("forms", a.Forms.IDs()))
		return a.Server.Run(ctx)
	})

	return g.Wait()
}
