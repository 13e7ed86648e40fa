package app

import "time"

// Config contains all runtime configuration loaded from environment variables.
type Config struct {
	HTTPAddr string
	LogLevel string

	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int

	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32

	// If true:
	// - /readyz returns 503 unless DB is configured and reachable.
	ReadinessRequireDB bool

	// CORSOrigin is the single allowed browser origin. Empty disables CORS
	// headers entirely. Credentialed requests forbid a wildcard here.
	CORSOrigin string

	// Object storage for profile photos. Empty bucket selects the in-memory
	// photo store.
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string
}

// LoadConfig loads Config from environment variables with defaults.
func LoadConfig() Config {
	return Config{
		HTTPAddr: EnvString("ATRIUM_HTTP_ADDR", "0.0.0.0:8080"),
		LogLevel: EnvString("ATRIUM_LOG_LEVEL", "info"),

		ReadHeaderTimeout: EnvDuration("ATRIUM_HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
		ReadTimeout:       EnvDuration("ATRIUM_HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:      EnvDuration("ATRIUM_HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:       EnvDuration("ATRIUM_HTTP_IDLE_TIMEOUT", 60*time.Second),

		MaxHeaderBytes: EnvInt("ATRIUM_HTTP_MAX_HEADER_BYTES", 1<<20),

		DatabaseURL: EnvString("ATRIUM_DATABASE_URL", ""),
		DBMaxConns:  EnvInt32("ATRIUM_DB_MAX_CONNS", 10),
		DBMinConns:  EnvInt32("ATRIUM_DB_MIN_CONNS", 0),

		ReadinessRequireDB: EnvBool("ATRIUM_READINESS_REQUIRE_DB", false),

		CORSOrigin: EnvString("ATRIUM_CORS_ORIGIN", ""),

		S3Bucket:       EnvString("ATRIUM_S3_BUCKET", ""),
		S3Region:       EnvString("ATRIUM_S3_REGION", "us-east-1"),
		S3BaseEndpoint: EnvString("ATRIUM_S3_ENDPOINT", ""),
		S3AccessKey:    EnvString("ATRIUM_S3_ACCESS_KEY", ""),
		S3SecretKey:    EnvString("ATRIUM_S3_SECRET_KEY", ""),
	}
}
