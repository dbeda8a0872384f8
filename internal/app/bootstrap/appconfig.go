// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS,
// logging level, request limits). AppConfig is everything specific to
// the console itself: the Mongo connection, session cookies, and the
// seeded admin account.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: halaqahub-session)
	SessionDomain string // Cookie domain (blank means current host)

	// First admin account, created on startup when no user with this
	// login exists. Leave both blank to skip seeding.
	AdminLoginID  string
	AdminPassword string
	AdminFullName string
}
