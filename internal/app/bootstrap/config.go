// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	studentdashboardfeature "github.com/dalemusser/studentdash/internal/app/features/studentdashboard"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for the student dashboard.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: STUDENTDASH_MONGO_URI, STUDENTDASH_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "studentdash", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "studentdash-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "24h", Desc: "Session cookie lifetime"},
	{Name: "csrf_key", Default: "dev-only-csrf-key-32-bytes-long!", Desc: "CSRF token key (exactly 32 bytes)"},

	// Dashboard backend
	{Name: "dashboard_api_url", Default: "http://localhost:8081/api", Desc: "Base URL of the dashboard backend"},
	{Name: "dashboard_api_timeout", Default: "10s", Desc: "Timeout for one dashboard backend request"},
	{Name: "dashboard_api_client_id", Default: "", Desc: "OAuth2 client ID for the dashboard backend (blank disables)"},
	{Name: "dashboard_api_client_secret", Default: "", Desc: "OAuth2 client secret for the dashboard backend"},
	{Name: "dashboard_api_token_url", Default: "", Desc: "OAuth2 token endpoint for the dashboard backend"},
	{Name: "dashboard_api_scopes", Default: "", Desc: "Comma-separated OAuth2 scopes for the dashboard backend"},
	{Name: "fallback_student_id", Default: "", Desc: "Student ID used when a student has no ID of their own (blank disables)"},

	// Page views
	{Name: "page_view_ttl", Default: "30m", Desc: "Idle time after which a dashboard page view is discarded"},
	{Name: "page_view_sweep_interval", Default: "1m", Desc: "How often idle page views are swept"},

	// Login throttling
	{Name: "login_ip_limit", Default: 20, Desc: "Sign-in attempts allowed per client IP per minute"},
	{Name: "login_account_limit", Default: 5, Desc: "Sign-in attempts allowed per login ID per five minutes"},

	// Seed admin
	{Name: "seed_admin_login_id", Default: "", Desc: "Login ID of an admin account to create on startup"},
	{Name: "seed_admin_password", Default: "", Desc: "Password for the seed admin account"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, STUDENTDASH_* for app) and flags,
// merged with precedence: flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "STUDENTDASH", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		SessionKey:       appValues.String("session_key"),
		SessionName:      appValues.String("session_name"),
		SessionDomain:    appValues.String("session_domain"),
		SessionMaxAge:    appValues.Duration("session_max_age", 24*time.Hour),
		CSRFKey:          appValues.String("csrf_key"),

		DashboardAPIURL:          appValues.String("dashboard_api_url"),
		DashboardAPITimeout:      appValues.Duration("dashboard_api_timeout", 10*time.Second),
		DashboardAPIClientID:     appValues.String("dashboard_api_client_id"),
		DashboardAPIClientSecret: appValues.String("dashboard_api_client_secret"),
		DashboardAPITokenURL:     appValues.String("dashboard_api_token_url"),
		DashboardAPIScopes:       splitList(appValues.String("dashboard_api_scopes")),
		FallbackStudentID:        appValues.String("fallback_student_id"),

		PageViewTTL:           appValues.Duration("page_view_ttl", 30*time.Minute),
		PageViewSweepInterval: appValues.Duration("page_view_sweep_interval", time.Minute),

		LoginIPLimit:      appValues.Int("login_ip_limit"),
		LoginAccountLimit: appValues.Int("login_account_limit"),

		SeedAdminLoginID:  appValues.String("seed_admin_login_id"),
		SeedAdminPassword: appValues.String("seed_admin_password"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// It catches configuration errors early, before any connection is attempted.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	return validateApp(appCfg, coreCfg.Env == "prod", logger)
}

func validateApp(appCfg AppConfig, prod bool, logger *zap.Logger) error {
	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database is required")
	}
	if len(appCfg.CSRFKey) != 32 {
		return fmt.Errorf("csrf_key must be exactly 32 bytes, got %d", len(appCfg.CSRFKey))
	}
	if len(appCfg.SessionKey) < 32 {
		if prod {
			return fmt.Errorf("session_key must be at least 32 characters in production")
		}
		logger.Warn("session_key is short; 32+ chars recommended",
			zap.Int("length", len(appCfg.SessionKey)))
	}

	u, err := url.Parse(appCfg.DashboardAPIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("dashboard_api_url must be an absolute http(s) URL, got %q", appCfg.DashboardAPIURL)
	}
	if appCfg.DashboardAPIClientID != "" && appCfg.DashboardAPITokenURL == "" {
		return fmt.Errorf("dashboard_api_token_url is required when dashboard_api_client_id is set")
	}

	if appCfg.PageViewTTL <= 0 || appCfg.PageViewSweepInterval <= 0 {
		return fmt.Errorf("page_view_ttl and page_view_sweep_interval must be positive")
	}
	if appCfg.PageViewTTL < 2*studentdashboardfeature.KeepAliveInterval {
		return fmt.Errorf("page_view_ttl must be at least %s (twice the dashboard keepalive interval)", 2*studentdashboardfeature.KeepAliveInterval)
	}
	if appCfg.LoginIPLimit <= 0 || appCfg.LoginAccountLimit <= 0 {
		return fmt.Errorf("login_ip_limit and login_account_limit must be positive")
	}
	if (appCfg.SeedAdminLoginID == "") != (appCfg.SeedAdminPassword == "") {
		return fmt.Errorf("seed_admin_login_id and seed_admin_password must be set together")
	}
	return nil
}

// splitList parses a comma-separated config value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
