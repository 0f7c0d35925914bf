package config

// EnvPrefix is passed to envconfig; individual fields carry explicit
// LUXENEST_* tags so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names referenced outside struct tags (tests, error
// messages).
const (
	EnvAppEnv     = "LUXENEST_APP_ENV"
	EnvPort       = "LUXENEST_APP_PORT"
	EnvDBDSN      = "LUXENEST_DB_DSN"
	EnvDBHost     = "LUXENEST_DB_HOST"
	EnvDBUser     = "LUXENEST_DB_USER"
	EnvDBName     = "LUXENEST_DB_NAME"
	EnvRedisURL   = "LUXENEST_REDIS_URL"
	EnvJWTSecret  = "LUXENEST_JWT_SECRET"
	EnvJWTIssuer  = "LUXENEST_JWT_ISSUER"
	EnvJWTExpMins = "LUXENEST_JWT_EXPIRATION_MINUTES"
)

var componentDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
