// Package api configures and exposes the HTTP server, routes,
// metrics, docs and related middleware for the IPMS contact service.
package api

import (
	_ "embed"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggest/swgui/v5emb"

	"ipms/internal/api/handler/v1handler"
	"ipms/internal/config"
	"ipms/pkg/controller"
	"ipms/pkg/metrics"
	"ipms/pkg/serrors"
)

// v1Spec contains the embedded OpenAPI specification for version 1 of the API.
//
//go:embed specs/v1.yaml
var v1Spec []byte

// Options holds configuration for the HTTP server and its dependencies.
// It is typically created from a config.Config via NewOptions.
// All durations are used to configure server timeouts, and zero values
// should be considered as using the defaults provided by net/http where applicable.
type Options struct {
	// SecHandlerOptions configures the security handler (authn/authz) for v1 endpoints.
	SecHandlerOptions *v1handler.SecHandlerOptions
	// HandlerOptions configures request handling of v1 endpoints.
	HandlerOptions v1handler.Options

	// Addr is the TCP address the server listens on, e.g. ":8080".
	Addr string
	// ReadTimeout is the maximum duration for reading the entire request, including the body.
	ReadTimeout time.Duration
	// ReadHeaderTimeout is the amount of time allowed to read request headers.
	ReadHeaderTimeout time.Duration
	// WriteTimeout is the maximum duration before timing out writes of the response.
	WriteTimeout time.Duration
	// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled.
	IdleTimeout time.Duration
	// RequestTimeout is the global timeout applied via http.TimeoutHandler for handling requests.
	RequestTimeout time.Duration
	// MaxHeaderBytes controls the maximum number of bytes the server
	// will read parsing the request header's keys and values, including the request line.
	MaxHeaderBytes int
	// MetricsPath is the HTTP path at which Prometheus metrics are served.
	MetricsPath string
	// AllowedOrigins lists the CORS origins; "*" allows any.
	AllowedOrigins []string
	// SubmitRate and SubmitBurst size the per-IP token bucket of submissions.
	SubmitRate  float64
	SubmitBurst int
	// TrustedProxies lists the proxies whose forwarding headers name the client
	// IP for rate limiting. Empty keys limits on the peer address.
	TrustedProxies []string
}

// NewOptions constructs an Options value from the provided application configuration.
// It maps HTTP server-related settings from config.Config to the Options used by the API server.
func NewOptions(cfg *config.Config) Options {
	return Options{
		SecHandlerOptions: v1handler.NewSecHandlerOptions(cfg),
		HandlerOptions:    v1handler.NewOptions(cfg),

		Addr:              cfg.HTTP.Addr,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		RequestTimeout:    cfg.HTTP.RequestTimeout,
		MaxHeaderBytes:    cfg.HTTP.MaxHeaderBytes,
		MetricsPath:       cfg.HTTP.MetricsPath,
		AllowedOrigins:    cfg.HTTP.AllowedOrigins,
		SubmitRate:        cfg.HTTP.SubmitRate,
		SubmitBurst:       cfg.HTTP.SubmitBurst,
		TrustedProxies:    cfg.HTTP.TrustedProxies,
	}
}

// Deps are the collaborators served by the HTTP handler.
type Deps struct {
	v1handler.Deps

	// Registry receives the HTTP metrics and is served at MetricsPath.
	// Nil creates a fresh registry.
	Registry *prometheus.Registry
	// Limiter rate limits submissions. Nil creates one from the options.
	Limiter *controller.IPRateLimiter
}

// NewHandler builds the routed and wrapped HTTP handler:
// - Prometheus metrics endpoint (MetricsPath) and health check
// - Embedded OpenAPI v1 spec and Swagger UI
// - v1 API routes and the legacy /api/contact route
// - pprof endpoints, outside the request timeout
// Routes are wrapped with logging and metrics middlewares, the router with CORS
// and a request timeout.
func NewHandler(deps Deps, opts Options) (http.Handler, error) {
	if deps.Registry == nil {
		deps.Registry = metrics.NewRegistry()
	}
	if deps.Limiter == nil {
		deps.Limiter = controller.NewIPRateLimiter(opts.SubmitRate, opts.SubmitBurst)
	}
	if opts.MetricsPath == "" {
		opts.MetricsPath = "/metrics"
	}

	httpMetrics, err := controller.NewHTTPMetrics(deps.Registry)
	if err != nil {
		return nil, err //nolint: wrapcheck
	}
	clientIPs, err := controller.NewClientIPResolver(opts.TrustedProxies)
	if err != nil {
		return nil, fmt.Errorf("could not parse trusted proxies: %w", err)
	}
	secHandler, err := v1handler.NewSecHandler(opts.SecHandlerOptions)
	if err != nil {
		return nil, fmt.Errorf("could not create sec handler: %w", err)
	}
	h := v1handler.New(deps.Deps, opts.HandlerOptions)

	router := mux.NewRouter()
	router.Use(controller.WithLogger, httpMetrics.Middleware)

	// prometheus metrics server
	router.Handle(opts.MetricsPath,
		promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{Registry: deps.Registry})).
		Methods(http.MethodGet).Name("metrics")
	router.HandleFunc("/healthz", h.Health).Methods(http.MethodGet).Name("health")

	// v1 specs file
	router.HandleFunc("/specs/v1.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(v1Spec)
	}).Methods(http.MethodGet).Name("specs")
	// v1 api swagger playground
	router.PathPrefix("/v1/docs/").Handler(v5emb.New(
		"IPMS Contact Service",
		"/specs/v1.yaml",
		"/v1/docs/",
	)).Name("docs")

	// v1 api
	submit := controller.WithRateLimit(deps.Limiter, clientIPs)(http.HandlerFunc(h.SubmitContact))
	router.Handle("/v1/submissions", submit).Methods(http.MethodPost).Name("create_submission")
	router.Handle("/api/contact", submit).Methods(http.MethodPost).Name("contact")
	router.HandleFunc("/v1/submissions", h.Authenticated(secHandler, h.ListSubmissions)).
		Methods(http.MethodGet).Name("list_submissions")
	router.HandleFunc("/v1/content", h.GetContent).Methods(http.MethodGet).Name("content")

	// cors
	handler := controller.WithCORS(opts.AllowedOrigins)(router)

	if opts.RequestTimeout > 0 {
		handler = http.TimeoutHandler(handler, opts.RequestTimeout,
			fmt.Sprintf(`{"code":%q,"message":"request timed out"}`, serrors.ErrTimeout.Error()))
	}

	// pprof profiles run longer than the request timeout
	root := http.NewServeMux()
	root.Handle(controller.PprofPath, controller.PprofMux())
	root.Handle("/", handler)

	return root, nil
}

// NewServer wires up and returns a configured *http.Server using the provided Options.
func NewServer(deps Deps, opts Options) (*http.Server, error) {
	handler, err := NewHandler(deps, opts)
	if err != nil {
		return nil, err
	}

	return &http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadTimeout:       opts.ReadTimeout,
		ReadHeaderTimeout: opts.ReadHeaderTimeout,
		WriteTimeout:      opts.WriteTimeout,
		IdleTimeout:       opts.IdleTimeout,
		MaxHeaderBytes:    opts.MaxHeaderBytes,
	}, nil
}
