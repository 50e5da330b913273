package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"sync"
	"time"

	"tabungan/internal/core"
	applog "tabungan/internal/log"
	"tabungan/internal/middleware/ratelimit"
	"tabungan/internal/middleware/security"
	"tabungan/internal/middleware/trace"
	appweb "tabungan/web"
)

const (
	defaultReadyTimeout = 3 * time.Second
	defaultStaticMaxAge = 3600
)

// Dashboard is what the server needs from the dashboard service.
type Dashboard interface {
	// Load returns nil and no error when there is no group to show.
	Load(ctx context.Context) (*core.Snapshot, error)
	Ready(ctx context.Context) error
}

// Options configures NewServer. Zero values pick the defaults.
type Options struct {
	Logger *applog.Logger
	// RateLimiter is optional; the server stops it on Shutdown.
	RateLimiter *ratelimit.Limiter
	ClientIP    *security.ClientIPResolver
	// Headers overrides security.DefaultHeadersConfig.
	Headers      *security.HeadersConfig
	ReadyTimeout time.Duration
	StaticMaxAge int
}

type Server struct {
	http.Server
	templates    *template.Template
	dashboard    Dashboard
	logger       *applog.Logger
	limiter      *ratelimit.Limiter
	tracer       *trace.Middleware
	readyTimeout time.Duration
	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, dashboard Dashboard, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	logger = logger.WithComponent(applog.ComponentHTTP)

	clientIP := opts.ClientIP
	if clientIP == nil {
		clientIP = security.NewClientIPResolver()
	}
	headersCfg := security.DefaultHeadersConfig()
	if opts.Headers != nil {
		headersCfg = *opts.Headers
	}
	headers := security.NewHeadersMiddleware(headersCfg)
	staticMaxAge := opts.StaticMaxAge
	if staticMaxAge <= 0 {
		staticMaxAge = defaultStaticMaxAge
	}

	s := &Server{
		dashboard:    dashboard,
		logger:       logger,
		limiter:      opts.RateLimiter,
		tracer:       trace.NewMiddleware(logger, clientIP.ClientIP),
		readyTimeout: opts.ReadyTimeout,
	}
	if s.readyTimeout <= 0 {
		s.readyTimeout = defaultReadyTimeout
	}

	// Parse embedded templates at startup.
	t, err := parseTemplates()
	if err != nil {
		logger.Warn("Failed parsing templates", applog.FieldError, err)
	}
	s.templates = t

	// Pages and the API hit the store, so only they are rate limited.
	limited := func(h http.HandlerFunc) http.Handler {
		var next http.Handler = headers.Middleware(h)
		if s.limiter != nil {
			next = s.limiter.Middleware(clientIP.ClientIP, s.handleRateLimited)(next)
		}
		return next
	}

	mux := http.NewServeMux()
	mux.Handle("/", limited(s.handleIndex))
	mux.Handle("/api/dashboard", limited(s.handleDashboardAPI))
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", headers.Middleware(security.StaticAssetMiddleware(staticMaxAge)(static)))
	} else {
		logger.Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.tracer.Middleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func parseTemplates() (*template.Template, error) {
	return template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
}

var templateFuncs = template.FuncMap{
	"memberCount": memberCountLabel,
	"entryCount":  entryCountLabel,
}

// Metrics returns the request counters of the tracing middleware.
func (s *Server) Metrics() trace.Metrics {
	return s.tracer.GetMetrics()
}

// Shutdown gracefully shuts down the server and the rate limiter sweep.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.limiter != nil {
			s.limiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded", applog.FieldPath, r.URL.Path)
	if strings.HasPrefix(r.URL.Path, "/api/") {
		writeJSONError(w, r, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}
	http.Error(w, "Terlalu banyak permintaan. Coba lagi nanti.", http.StatusTooManyRequests)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady probes the backing store with a single group lookup.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.readyTimeout)
	defer cancel()

	if err := s.dashboard.Ready(ctx); err != nil {
		applog.NewStructuredLogger(applog.FromContext(ctx)).
			LogError(ctx, "Readiness probe failed", err, errorType(err), applog.OpProbe)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
