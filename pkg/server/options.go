package server

import (
	"io/fs"
	"time"

	theme "github.com/goliatone/go-theme"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	htmlrenderer "github.com/goliatone/go-schoolsite/pkg/renderers/html"
	"github.com/goliatone/go-schoolsite/pkg/submission"
)

const (
	defaultAddr            = ":8080"
	defaultMaxUploadBytes  = 10 << 20
	defaultMaxAPIBodyBytes = 1 << 20
	defaultShutdownTimeout = 10 * time.Second
	defaultReadTimeout     = 15 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	liveReadLimit          = 64 << 10
	liveWriteTimeout       = 10 * time.Second
	livePingInterval       = 30 * time.Second
)

type Option func(*Server)

// WithAddr sets the listen address used by Run.
func WithAddr(addr string) Option {
	return func(s *Server) {
		if addr != "" {
			s.addr = addr
		}
	}
}

// WithLogger sets the request and lifecycle logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRenderer replaces the default HTML renderer.
func WithRenderer(renderer *htmlrenderer.Renderer) Option {
	return func(s *Server) {
		if renderer != nil {
			s.renderer = renderer
		}
	}
}

// WithTheme selects the theme applied to every page.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(s *Server) {
		if cfg != nil {
			s.theme = cfg
		}
	}
}

// WithProcessor replaces the default submission processor.
func WithProcessor(p *submission.Processor) Option {
	return func(s *Server) {
		if p != nil {
			s.processor = p
		}
	}
}

// WithRegistry sets the Prometheus registry exposed on /metrics. HTTP and
// submission collectors are registered with it.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		if reg != nil {
			s.registry = reg
		}
	}
}

// WithAssets replaces the filesystem served under /assets.
func WithAssets(assets fs.FS) Option {
	return func(s *Server) {
		if assets != nil {
			s.assets = assets
		}
	}
}

// WithMaxUploadBytes caps the size of a form POST body.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxUploadBytes = n
		}
	}
}

// WithShutdownTimeout bounds graceful shutdown in Run.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.shutdownTimeout = d
		}
	}
}

// WithTimeouts sets the http.Server read and write timeouts.
func WithTimeouts(read, write time.Duration) Option {
	return func(s *Server) {
		if read > 0 {
			s.readTimeout = read
		}
		if write > 0 {
			s.writeTimeout = write
		}
	}
}

// WithClock overrides the clock used for the footer year.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// WithVersion sets the version reported by /healthz and the API document.
func WithVersion(version string) Option {
	return func(s *Server) {
		if version != "" {
			s.version = version
		}
	}
}
