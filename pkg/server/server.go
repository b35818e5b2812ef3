// Package server exposes the school site over HTTP: the content pages, the
// admissions and careers form submissions, a JSON validation API, a
// websocket channel for live field revalidation and the operational
// endpoints (/healthz, /metrics, /openapi.json).
package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	theme "github.com/goliatone/go-theme"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/goliatone/go-schoolsite/pkg/apidoc"
	"github.com/goliatone/go-schoolsite/pkg/content"
	"github.com/goliatone/go-schoolsite/pkg/forms"
	htmlrenderer "github.com/goliatone/go-schoolsite/pkg/renderers/html"
	"github.com/goliatone/go-schoolsite/pkg/submission"
)

// Server wires the content store, the compiled forms and the renderer into
// an http.Handler.
type Server struct {
	addr            string
	logger          *zap.Logger
	content         *content.Store
	forms           *forms.Store
	renderer        *htmlrenderer.Renderer
	processor       *submission.Processor
	theme           *theme.RendererConfig
	registry        *prometheus.Registry
	assets          fs.FS
	maxUploadBytes  int64
	shutdownTimeout time.Duration
	readTimeout     time.Duration
	writeTimeout    time.Duration
	now             func() time.Time
	version         string

	endpoints map[string]string
	metrics   *httpMetrics
	upgrader  websocket.Upgrader
	apiDoc    func() ([]byte, error)
	handler   http.Handler

	closing   chan struct{}
	closeOnce sync.Once
}

// New builds a Server for the given content and forms.
func New(site *content.Store, store *forms.Store, opts ...Option) (*Server, error) {
	if site == nil {
		return nil, errors.New("server: content store is nil")
	}
	if store == nil || store.Empty() {
		return nil, errors.New("server: no forms loaded")
	}

	s := &Server{
		addr:            defaultAddr,
		logger:          zap.NewNop(),
		content:         site,
		forms:           store,
		assets:          htmlrenderer.AssetsFS(),
		maxUploadBytes:  defaultMaxUploadBytes,
		shutdownTimeout: defaultShutdownTimeout,
		readTimeout:     defaultReadTimeout,
		writeTimeout:    defaultWriteTimeout,
		now:             time.Now,
		version:         "dev",
		endpoints:       make(map[string]string),
		closing:         make(chan struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
		s.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	if s.renderer == nil {
		renderer, err := htmlrenderer.New(htmlrenderer.WithTheme(s.theme))
		if err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
		s.renderer = renderer
	}
	if s.processor == nil {
		processor, err := submission.NewProcessor(store,
			submission.WithLogger(s.logger),
			submission.WithRegisterer(s.registry),
		)
		if err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
		s.processor = processor
	}

	for _, form := range store.Forms() {
		if form.Endpoint == "" {
			continue
		}
		if other, dup := s.endpoints[form.Endpoint]; dup {
			return nil, fmt.Errorf("server: forms %q and %q share endpoint %s", other, form.ID, form.Endpoint)
		}
		s.endpoints[form.Endpoint] = form.ID
	}

	s.metrics = newHTTPMetrics(s.registry)
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
	}
	s.apiDoc = sync.OnceValues(func() ([]byte, error) {
		return apidoc.JSON(context.Background(), store.Forms(), apidoc.WithInfo("", s.version))
	})
	s.handler = s.routes()
	return s, nil
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(tracing)
	r.Use(s.metrics.middleware)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	r.Get("/openapi.json", s.handleOpenAPI)
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(s.assets))))

	r.Route(apidoc.FormsPath, func(r chi.Router) {
		r.Get("/", s.handleListForms)
		r.Get("/{form}", s.handleGetForm)
		r.Post("/{form}/validate", s.handleValidate)
		r.Get("/{form}/live", s.handleLive)
	})

	r.Get("/", s.handlePage)
	r.Get("/{page}", s.handlePage)
	r.Post("/{page}", s.handleSubmit)
	return r
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Registry returns the metrics registry served on /metrics.
func (s *Server) Registry() *prometheus.Registry {
	return s.registry
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully. Open live validation sockets are closed on shutdown.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: s.readTimeout,
		ReadTimeout:       s.readTimeout,
		WriteTimeout:      s.writeTimeout,
		ErrorLog:          zap.NewStdLog(s.logger),
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		s.close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: serve: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("http server shutting down")
	s.close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: serve: %w", err)
	}
	return nil
}

func (s *Server) close() {
	s.closeOnce.Do(func() { close(s.closing) })
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"forms":   s.forms.IDs(),
	})
}

func (s *Server) handleOpenAPI(w http.ResponseWriter, _ *http.Request) {
	doc, err := s.apiDoc()
	if err != nil {
		s.logger.Error("build api document", zap.Error(err))
		writeProblem(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}
