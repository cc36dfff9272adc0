// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig handles
// framework-level settings (ports, TLS, logging, CORS); AppConfig is
// everything specific to VoluntaHub.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: voluntahub-session)
	SessionDomain string // Cookie domain (blank means current host)

	// SuperAdmin bootstrap: the account holding this email is promoted to
	// global admin at startup.
	SuperAdminEmail string

	// Automatic closing of past events. Zero interval disables the
	// background sweep; the admin endpoint still works.
	AutoCloseInterval time.Duration
}
