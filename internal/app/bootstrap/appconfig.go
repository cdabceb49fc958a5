// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables (STUDENTDASH_*), config files,
// or command-line flags (loaded in LoadConfig). Framework settings such as
// ports, TLS, and log level live in WAFFLE's CoreConfig.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name (default: studentdash-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Cookie lifetime

	// CSRFKey authenticates CSRF tokens; must be exactly 32 bytes.
	CSRFKey string

	// Dashboard backend
	DashboardAPIURL          string
	DashboardAPITimeout      time.Duration
	DashboardAPIClientID     string // Enables OAuth2 client credentials when set
	DashboardAPIClientSecret string
	DashboardAPITokenURL     string
	DashboardAPIScopes       []string

	// FallbackStudentID is used when a student has neither a backend
	// student ID nor a user ID. Empty disables the fallback.
	FallbackStudentID string

	// Page view lifecycle
	PageViewTTL           time.Duration // Idle page views older than this are swept
	PageViewSweepInterval time.Duration

	// Login throttling
	LoginIPLimit      int // Attempts per client IP per minute
	LoginAccountLimit int // Attempts per login ID per five minutes

	// Seed admin (created or refreshed on startup when both are set)
	SeedAdminLoginID  string
	SeedAdminPassword string
}
