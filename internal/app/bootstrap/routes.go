// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	dashboardfeature "github.com/dalemusser/studentdash/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/studentdash/internal/app/features/errors"
	healthfeature "github.com/dalemusser/studentdash/internal/app/features/health"
	homefeature "github.com/dalemusser/studentdash/internal/app/features/home"
	loginfeature "github.com/dalemusser/studentdash/internal/app/features/login"
	logoutfeature "github.com/dalemusser/studentdash/internal/app/features/logout"
	studentdashboardfeature "github.com/dalemusser/studentdash/internal/app/features/studentdashboard"
	userstore "github.com/dalemusser/studentdash/internal/app/store/users"
	"github.com/dalemusser/studentdash/internal/app/system/auth"
	"github.com/dalemusser/studentdash/internal/app/system/metrics"
	"github.com/dalemusser/studentdash/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// Startup have completed. It boots the template engine, installs the session
// and CSRF middleware, and mounts the feature routers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Fetch fresh user data on each request so role changes and disabled
	// accounts take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))

	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	reg, err := metrics.NewRegistry()
	if err != nil {
		logger.Error("metrics registry init failed", zap.Error(err))
		return nil, err
	}

	r := chi.NewRouter()

	// Outside CSRF and sessions: probes and scrapers carry neither.
	healthHandler := healthfeature.NewHandler(deps.MongoClient, deps.PageViews, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	r.Handle("/metrics", metrics.Handler(reg))
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	r.Group(func(app chi.Router) {
		if !secure {
			app.Use(plaintextCSRF)
		}
		app.Use(csrf.Protect([]byte(appCfg.CSRFKey),
			csrf.Secure(secure),
			csrf.Path("/"),
			csrf.ErrorHandler(csrfFailure(logger)),
		))
		// Loads the auth State (user, pending, or logged out) into context.
		app.Use(sessionMgr.LoadSessionUser)

		homeHandler := homefeature.NewHandler(logger)
		app.Mount("/", homefeature.Routes(homeHandler))

		limiter := ratelimit.NewLoginLimiter(appCfg.LoginIPLimit, appCfg.LoginAccountLimit)
		loginHandler := loginfeature.NewHandler(userstore.New(deps.MongoDatabase), sessionMgr, limiter, logger)
		app.Mount("/login", loginfeature.Routes(loginHandler))

		logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
		app.Mount("/logout", logoutfeature.Routes(logoutHandler))

		errorsHandler := errorsfeature.NewHandler()
		app.Get("/forbidden", errorsHandler.Forbidden)
		app.Get("/unauthorized", errorsHandler.Unauthorized)

		// Role dashboards; /dashboard/student runs its own access gate.
		studentHandler := studentdashboardfeature.NewHandler(deps.PageViews, deps.DashboardAPI, appCfg.FallbackStudentID, logger)
		dashboardHandler := dashboardfeature.NewHandler(deps.MongoDatabase, logger)
		app.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr, studentdashboardfeature.Routes(studentHandler)))
	})

	return r, nil
}

// plaintextCSRF tells gorilla/csrf the request arrived over plain HTTP so
// its Referer check does not demand TLS in local development.
func plaintextCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}

func csrfFailure(logger *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Warn("csrf check failed",
			zap.String("path", r.URL.Path),
			zap.Error(csrf.FailureReason(r)))
		// An expired token on an HTMX request means the page is stale.
		if r.Header.Get("HX-Request") == "true" {
			w.Header().Set("HX-Refresh", "true")
		}
		http.Error(w, "Forbidden - invalid CSRF token", http.StatusForbidden)
	})
}
