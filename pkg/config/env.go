package config

// EnvPrefix namespaces every variable read by Load.
const EnvPrefix = "SHODIX"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv       = "SHODIX_APP_ENV"
	EnvPort         = "SHODIX_APP_PORT"
	EnvLogLevel     = "SHODIX_LOG_LEVEL"
	EnvDBDSN        = "SHODIX_DB_DSN"
	EnvDBDriver     = "SHODIX_DB_DRIVER"
	EnvDBHost       = "SHODIX_DB_HOST"
	EnvDBUser       = "SHODIX_DB_USER"
	EnvDBName       = "SHODIX_DB_NAME"
	EnvRedisURL     = "SHODIX_REDIS_URL"
	EnvJWTSecret    = "SHODIX_JWT_SECRET"
	EnvJWTIssuer    = "SHODIX_JWT_ISSUER"
	EnvJWTExpMins   = "SHODIX_JWT_EXPIRATION_MINUTES"
	EnvUploadDir    = "SHODIX_UPLOAD_DIR"
	EnvMaxUploadMB  = "SHODIX_MAX_UPLOAD_MB"
	EnvCORSOrigins  = "SHODIX_CORS_ALLOWED_ORIGINS"
	EnvAutoMigrate  = "SHODIX_AUTO_MIGRATE"
	EnvCookieSecure = "SHODIX_JWT_COOKIE_SECURE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
