package app

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/mawrid/mawrid/internal/auth"
	"github.com/mawrid/mawrid/internal/dashboard"
	"github.com/mawrid/mawrid/internal/directory"
	"github.com/mawrid/mawrid/internal/i18n"
	"github.com/mawrid/mawrid/internal/observability"
	"github.com/mawrid/mawrid/internal/prefs"
	"github.com/mawrid/mawrid/internal/shared"
	"github.com/mawrid/mawrid/jobs"
	"github.com/mawrid/mawrid/web"
)

// HealthCheck is one dependency probed by /healthz. Optional checks are
// reported but never fail the endpoint.
type HealthCheck struct {
	Name     string
	Check    func(ctx context.Context) error
	Optional bool
}

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	SessionManager   *shared.SessionManager
	CSRFManager      *shared.CSRFManager
	Prefs            *prefs.Store
	Guard            *auth.Guard
	AuthHandler      *auth.Handler
	DirectoryHandler *directory.Handler
	DashboardHandler *dashboard.Handler
	JobHandler       *jobs.Handler
	Metrics          *observability.Metrics
	HealthChecks     []HealthCheck
}

// NewRouter constructs the chi.Router with Mawrid defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", healthHandler(params.Logger, params.HealthChecks))

	r.Get("/lang/{code}", func(w http.ResponseWriter, r *http.Request) {
		if !params.Prefs.SetLang(w, chi.URLParam(r, "code")) {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, backTo(r), http.StatusSeeOther)
	})

	params.DirectoryHandler.MountRoutes(r)
	r.Route("/auth", params.AuthHandler.MountRoutes)
	r.Route(dashboard.BasePath, func(r chi.Router) {
		r.Use(params.Guard.RequireUser)
		params.DashboardHandler.MountRoutes(r)
	})
	opsToken := ""
	if params.Config != nil {
		opsToken = params.Config.OpsToken
	}
	if params.JobHandler != nil {
		r.Route("/jobs", func(r chi.Router) {
			r.Use(requireOpsToken(opsToken))
			params.JobHandler.MountRoutes(r)
		})
	}
	if params.Metrics != nil {
		r.With(requireOpsToken(opsToken)).Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, i18n.T(prefs.LangFrom(r.Context()), "Page not found"), http.StatusNotFound)
	})

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		params.Logger.Error("create static sub filesystem", slog.Any("error", err))
	} else {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
		r.Handle("/static/*", staticCacheHandler(fileServer))
	}

	return r
}

// requireOpsToken demands "Authorization: Bearer <token>" when token is set.
func requireOpsToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		want := []byte("Bearer " + token)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if subtle.ConstantTimeCompare([]byte(r.Header.Get("Authorization")), want) != 1 {
				w.Header().Set("WWW-Authenticate", `Bearer realm="ops"`)
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// backTo returns the same-site page the visitor came from, or the landing page.
func backTo(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" || (ref.Host != "" && ref.Host != r.Host) {
		return "/"
	}
	if ref.RawQuery != "" {
		return ref.Path + "?" + ref.RawQuery
	}
	return ref.Path
}

func healthHandler(logger *slog.Logger, checks []HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status := http.StatusOK
		body := map[string]any{"status": "ok"}
		results := make(map[string]string, len(checks))
		for _, c := range checks {
			if err := c.Check(ctx); err != nil {
				logger.Warn("health check failed", slog.String("check", c.Name), slog.Any("error", err))
				results[c.Name] = err.Error()
				if !c.Optional {
					status = http.StatusServiceUnavailable
					body["status"] = "degraded"
				}
				continue
			}
			results[c.Name] = "ok"
		}
		if len(results) > 0 {
			body["checks"] = results
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}

// staticCacheHandler wraps a file server with Cache-Control headers.
// Static assets are cached for 1 hour in browser.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
