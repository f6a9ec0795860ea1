package server

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/devflow-dev/devflow/pkg/assets"
	"github.com/devflow-dev/devflow/pkg/authform"
	"github.com/devflow-dev/devflow/pkg/form"
	"github.com/devflow-dev/devflow/pkg/live"
	"github.com/devflow-dev/devflow/pkg/middleware"
	"github.com/devflow-dev/devflow/pkg/questions"
	"github.com/devflow-dev/devflow/pkg/render"
	"github.com/devflow-dev/devflow/pkg/routes"
	"github.com/devflow-dev/devflow/pkg/search"
)

// Config configures a Server.
type Config struct {
	// Addr is the listen address. Default: ":3000".
	Addr string

	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration

	// ShutdownTimeout bounds graceful shutdown. Default: 10 seconds.
	ShutdownTimeout time.Duration

	// Search is the template for the home page search input and the live
	// search sessions.
	Search search.Config

	// Metrics mounts the Prometheus handler at MetricsPath.
	Metrics     bool
	MetricsPath string

	// MetricsNamespace prefixes every metric. Default: "devflow".
	MetricsNamespace string

	// TracerName names the OpenTelemetry tracer. Default: "devflow".
	TracerName string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr:              ":3000",
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ShutdownTimeout:   10 * time.Second,
		Search: search.Config{
			TargetRoute: routes.Home,
			Key:         search.DefaultKey,
			Delay:       search.DefaultDelay,
		},
		Metrics:          true,
		MetricsPath:      routes.Metrics,
		MetricsNamespace: "devflow",
		TracerName:       "devflow",
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Addr == "" {
		c.Addr = d.Addr
	}
	if c.ReadHeaderTimeout == 0 {
		c.ReadHeaderTimeout = d.ReadHeaderTimeout
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = d.ReadTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = d.IdleTimeout
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
	if c.Search.TargetRoute == "" {
		c.Search.TargetRoute = d.Search.TargetRoute
	}
	if c.MetricsPath == "" {
		c.MetricsPath = d.MetricsPath
	}
	if c.MetricsNamespace == "" {
		c.MetricsNamespace = d.MetricsNamespace
	}
	if c.TracerName == "" {
		c.TracerName = d.TracerName
	}
	return c
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSubmit sets the callback of an auth form. Default: authform.MockSubmit.
func WithSubmit(kind authform.Kind, fn form.SubmitFunc) Option {
	return func(s *Server) {
		s.submit[kind] = fn
	}
}

// WithRegistry sets the Prometheus registry metrics are registered with
// and served from. Default: the global registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		s.registerer = reg
		s.gatherer = reg
	}
}

// WithCheckOrigin sets the origin check of the live search websocket.
func WithCheckOrigin(fn func(r *http.Request) bool) Option {
	return func(s *Server) {
		s.checkOrigin = fn
	}
}

// Server is the DevFlow web server.
type Server struct {
	config      Config
	store       *questions.Store
	logger      *slog.Logger
	submit      map[authform.Kind]form.SubmitFunc
	registerer  prometheus.Registerer
	gatherer    prometheus.Gatherer
	checkOrigin func(r *http.Request) bool

	renderer *render.Renderer
	staticFS fs.FS
	manifest *assets.Manifest
	assets   assets.Resolver
	live     *live.Handler
	router   chi.Router

	httpServer *http.Server
}

// New creates a Server that lists questions from store.
func New(config Config, store *questions.Store, opts ...Option) *Server {
	s := &Server{
		config:     config.withDefaults(),
		store:      store,
		logger:     slog.Default(),
		submit:     make(map[authform.Kind]form.SubmitFunc, 2),
		registerer: prometheus.DefaultRegisterer,
		gatherer:   prometheus.DefaultGatherer,
		renderer:   render.NewRenderer(render.RendererConfig{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "server")

	sub, manifest, err := staticAssets()
	if err != nil {
		s.logger.Warn("static assets not fingerprinted", "error", err)
		manifest = assets.NewManifest()
		s.assets = assets.NewPassthroughResolver(staticPrefix)
	} else {
		s.assets = assets.NewResolver(manifest, staticPrefix)
	}
	if sub == nil {
		sub = staticFiles
	}
	s.staticFS, s.manifest = sub, manifest

	for _, kind := range []authform.Kind{authform.SignIn, authform.SignUp} {
		if s.submit[kind] == nil {
			s.submit[kind] = authform.MockSubmit(0, s.logger)
		}
	}

	liveOpts := []live.Option{
		live.WithSearchConfig(s.config.Search),
		live.WithLogger(s.logger),
	}
	if s.checkOrigin != nil {
		liveOpts = append(liveOpts, live.WithCheckOrigin(s.checkOrigin))
	}
	s.live = live.NewHandler(liveOpts...)
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(s.recoverer)
	if s.config.Metrics {
		r.Use(middleware.Prometheus(
			middleware.WithNamespace(s.config.MetricsNamespace),
			middleware.WithRegistry(s.registerer),
		))
	}
	r.Use(middleware.OpenTelemetry(
		middleware.WithTracerName(s.config.TracerName),
		middleware.WithRequestFilter(func(r *http.Request) bool {
			return r.URL.Path != routes.Health && r.URL.Path != s.config.MetricsPath
		}),
	))

	r.Get(routes.Home, s.handleHome)
	r.Get("/question/{id}", s.handleQuestion)
	r.Get(routes.Tags, s.handleTags)
	for _, link := range routes.NavLinks {
		switch link.Route {
		case routes.Home, routes.Tags:
			continue
		}
		r.Get(link.Route, s.handlePlaceholder(link))
	}

	r.Get(routes.SignIn, s.handleAuthPage(authform.SignIn))
	r.Post(routes.SignIn, s.handleAuthSubmit(authform.SignIn))
	r.Get(routes.SignUp, s.handleAuthPage(authform.SignUp))
	r.Post(routes.SignUp, s.handleAuthSubmit(authform.SignUp))

	r.Handle(routes.Live, s.live)
	r.Get(routes.LiveScript, handleLiveScript)
	r.Handle(staticPrefix+"*", s.staticHandler())
	r.Get(routes.Health, s.handleHealth)
	if s.config.Metrics {
		r.Handle(s.config.MetricsPath, promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.NotFound(s.handleNotFound)
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Live returns the live search handler.
func (s *Server) Live() *live.Handler {
	return s.live
}

// Config returns the effective configuration.
func (s *Server) Config() Config {
	return s.config
}

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.httpServer = &http.Server{
		Handler:           s,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
		ReadTimeout:       s.config.ReadTimeout,
		WriteTimeout:      s.config.WriteTimeout,
		IdleTimeout:       s.config.IdleTimeout,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", ln.Addr().String())
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		if err := s.Shutdown(context.Background()); err != nil {
			return err
		}
		<-errCh
		return nil
	}
}

// Shutdown closes the live sessions and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	// Hijacked websocket connections are not tracked by http.Server.
	s.live.Close()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}

// requestLocation is a search.Router over an incoming request. Server
// renders never navigate.
type requestLocation struct {
	u *url.URL
}

func (l requestLocation) Path() string     { return l.u.Path }
func (l requestLocation) RawQuery() string { return l.u.RawQuery }

func (requestLocation) Navigate(string, search.NavigateOptions) {}
