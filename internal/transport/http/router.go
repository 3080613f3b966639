package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/strogmv/userstore/internal/port"
)

type RouterOptions struct {
	// StaticDir is served for any other GET. Empty disables it.
	StaticDir   string
	CORSOrigins []string
	// Registry receives the HTTP metrics; nil uses a fresh registry.
	Registry *prometheus.Registry
	// HealthChecks are run by /healthz in order.
	HealthChecks []HealthCheck
}

type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// NewRouter builds the full HTTP handler, tracing included.
func NewRouter(svc port.Users, opts RouterOptions) http.Handler {
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "HEAD", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "Authorization", "X-Request-Id"},
	}))
	r.Use(NewMetrics(reg).Middleware)

	h := NewUsersHandler(svc)
	r.Route("/api/users", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Put("/{number}", h.Update)
		r.Delete("/{number}", h.Delete)
	})

	r.Get("/healthz", healthHandler(opts.HealthChecks))
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	if opts.StaticDir != "" {
		fs := http.FileServer(http.Dir(opts.StaticDir))
		r.Get("/*", fs.ServeHTTP)
		r.Head("/*", fs.ServeHTTP)
	}

	return otelhttp.NewHandler(r, "userstore",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}

// healthHandler answers 200 "ok", or 503 naming the first failing check.
func healthHandler(checks []HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		for _, hc := range checks {
			if err := hc.Check(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(hc.Name + ": " + err.Error()))
				return
			}
		}
		_, _ = w.Write([]byte("ok"))
	}
}
