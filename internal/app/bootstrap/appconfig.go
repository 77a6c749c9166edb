// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS, logging
// level, request limits); AppConfig is everything specific to Softlex. The
// struct is passed to most lifecycle hooks, so any configuration needed
// during startup, request handling, or shutdown lives here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionDomain string // Cookie domain (blank means current host)

	// CSRF protection
	CSRFKey string // 32-byte secret for CSRF token signing

	// Base URL for OAuth callbacks and absolute links
	BaseURL string // e.g., "https://softlex.example.com" or "http://localhost:3000"

	// Google OAuth configuration (sign-in is optional; blank disables it)
	GoogleClientID     string
	GoogleClientSecret string

	// Site admin bootstrap: promotes or creates this account on startup so a
	// fresh deployment always has someone who can reach /system/users.
	AdminEmail string
}
