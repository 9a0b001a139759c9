package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/acs-assignment/appboot/internal/config"
)

const (
	indexPage      = "<!DOCTYPE html>\n<html><head><title>Example Page</title></head><body><h1>Example Page</h1></body></html>\n"
	monitoringPage = "<!DOCTYPE html>\n<html><head><title>Monitoring</title></head><body><h1>Monitoring</h1></body></html>\n"

	defaultShutdownTimeout = 10 * time.Second
	readHeaderTimeout      = 5 * time.Second
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(log logr.Logger) Option {
	return func(s *Server) { s.log = log }
}

// WithRegisterer records request metrics in reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(s *Server) { s.reg = reg }
}

// WithShutdownTimeout bounds how long Serve waits for in-flight requests.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) { s.shutdownTimeout = d }
}

// Server is one placeholder application instance.
type Server struct {
	cfg             config.Listen
	log             logr.Logger
	reg             prometheus.Registerer
	shutdownTimeout time.Duration

	requests *prometheus.CounterVec
	handler  http.Handler
}

// New builds a server for cfg.
func New(cfg config.Listen, opts ...Option) (*Server, error) {
	s := &Server{
		cfg:             cfg,
		log:             logr.Discard(),
		shutdownTimeout: defaultShutdownTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.reg != nil {
		s.requests = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "appboot",
			Subsystem: "server",
			Name:      "requests_total",
			Help:      "HTTP requests served, by route pattern and status code.",
		}, []string{"route", "code"})
		if err := s.reg.Register(s.requests); err != nil {
			return nil, fmt.Errorf("failed to register request metrics: %w", err)
		}
	}

	s.handler = s.routes()
	return s, nil
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.cfg.Addr()
}

// Handler returns the application routes.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/index", page(indexPage))
	r.Get("/monitoring", page(monitoringPage))

	return r
}

func page(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(body))
	}
}

// instrument logs each request and counts it by route pattern, so
// unmatched paths collapse into a single series.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		if s.requests != nil {
			s.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
		}
		s.log.V(1).Info("request", "method", r.Method, "path", r.URL.Path, "status", status, "duration", time.Since(start).String())
	})
}

// Listen opens a TCP listener on the configured address.
func (s *Server) Listen() (net.Listener, error) {
	ln, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", s.Addr(), err)
	}
	return ln, nil
}

// Serve answers requests on ln until ctx is cancelled, then shuts down
// gracefully. It returns nil after a clean shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	return serve(ctx, ln, s.handler, s.shutdownTimeout, s.log)
}

// ListenAndServe listens on the configured address and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := s.Listen()
	if err != nil {
		return err
	}
	s.log.Info("listening", "addr", ln.Addr().String())
	return s.Serve(ctx, ln)
}

// MetricsHandler serves the metrics gathered by g.
func MetricsHandler(g prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	return r
}

// ServeMetrics serves MetricsHandler(g) on ln until ctx is cancelled.
func ServeMetrics(ctx context.Context, ln net.Listener, g prometheus.Gatherer, log logr.Logger) error {
	return serve(ctx, ln, MetricsHandler(g), defaultShutdownTimeout, log)
}

func serve(ctx context.Context, ln net.Listener, h http.Handler, timeout time.Duration, log logr.Logger) error {
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", "addr", ln.Addr().String())
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		_ = srv.Close()
		<-errCh
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
