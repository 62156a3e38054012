// Package server assembles the HTTP handler: chi router, Connect services
// with their interceptors, health and metrics endpoints, and an optional
// static web client.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/splitr/splitr/internal/auth"
	"github.com/splitr/splitr/internal/balance"
	"github.com/splitr/splitr/internal/calculator"
	"github.com/splitr/splitr/internal/events"
	"github.com/splitr/splitr/internal/middleware"
	"github.com/splitr/splitr/internal/money"
	"github.com/splitr/splitr/internal/rpc"
	"github.com/splitr/splitr/internal/service"
	"github.com/splitr/splitr/internal/storage"
)

// Options configures the handler.
type Options struct {
	JWTManager     *auth.JWTManager
	Authenticator  auth.Authenticator
	Engine         *balance.Engine
	Publisher      events.Publisher
	Rounding       money.Rounding
	Logger         *slog.Logger
	MetricsEnabled bool
	StaticPath     string
	AllowedOrigins []string
}

// Server is the Splitr HTTP server.
type Server struct {
	store storage.Store
	opts  Options
}

// New creates a server over store.
func New(store storage.Store, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Authenticator == nil {
		opts.Authenticator = auth.NewPasswordAuthenticator(store)
	}
	if opts.Engine == nil {
		opts.Engine = balance.NewEngine(store, calculator.Options{})
	}
	if opts.Publisher == nil {
		opts.Publisher = events.LogPublisher{}
	}
	return &Server{store: store, opts: opts}
}

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(s.corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if s.opts.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	// Interceptors run outermost first: metrics see every outcome, auth
	// rejects before logging so logged calls carry a user code.
	interceptors := connect.WithInterceptors(
		middleware.MetricsInterceptor(),
		middleware.RequireAuth(s.opts.JWTManager, s.store, rpc.PublicProcedures...),
		middleware.LoggingInterceptor(),
	)

	mount := func(path string, h http.Handler) {
		r.Mount(path, h)
	}
	mount(rpc.NewAuthServiceHandler(
		service.NewAuthService(s.opts.Authenticator, s.opts.JWTManager, s.store, s.opts.Logger), interceptors))
	mount(rpc.NewGroupServiceHandler(
		service.NewGroupService(s.store, s.opts.Publisher), interceptors))
	mount(rpc.NewLedgerServiceHandler(
		service.NewLedgerService(s.store, s.opts.Rounding, s.opts.Publisher), interceptors))
	mount(rpc.NewBalanceServiceHandler(
		service.NewBalanceService(s.opts.Engine), interceptors))

	if s.opts.StaticPath != "" {
		r.NotFound(staticHandler(s.opts.StaticPath))
	}

	return r
}

// H2CHandler wraps Handler for HTTP/2 without TLS, as Connect and gRPC
// clients expect.
func (s *Server) H2CHandler() http.Handler {
	return h2c.NewHandler(s.Handler(), &http2.Server{})
}

// HTTPServer returns an http.Server for addr with conservative timeouts.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.H2CHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// corsMiddleware adds CORS headers for browser access
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	allowAll := slices.Contains(s.opts.AllowedOrigins, "*")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case allowAll:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "" && slices.Contains(s.opts.AllowedOrigins, origin):
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// staticHandler serves files under dir, falling back to index.html for
// unknown paths so a single-page client can route itself.
func staticHandler(dir string) http.HandlerFunc {
	staticDir, err := filepath.Abs(dir)
	if err != nil {
		staticDir = dir
	}
	slog.Info("Serving static files", "path", staticDir)

	return func(w http.ResponseWriter, r *http.Request) {
		// Unknown RPCs must not fall through to the web client.
		if strings.HasPrefix(r.URL.Path, "/splitr.v1.") {
			http.NotFound(w, r)
			return
		}

		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}
		filePath := filepath.Join(staticDir, filepath.Clean("/"+urlPath))

		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
			return
		}
		http.ServeFile(w, r, filePath)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
