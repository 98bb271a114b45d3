package config

// EnvPrefix is handed to envconfig; every field carries its full variable name.
const EnvPrefix = "SERVICEBAY"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv   = "SERVICEBAY_APP_ENV"
	EnvPort     = "SERVICEBAY_APP_PORT"
	EnvLogLevel = "SERVICEBAY_LOG_LEVEL"

	EnvDBDSN  = "SERVICEBAY_DB_DSN"
	EnvDBHost = "SERVICEBAY_DB_HOST"
	EnvDBUser = "SERVICEBAY_DB_USER"
	EnvDBName = "SERVICEBAY_DB_NAME"

	EnvRedisURL  = "SERVICEBAY_REDIS_URL"
	EnvRedisAddr = "SERVICEBAY_REDIS_ADDR"

	EnvJWTSecret              = "SERVICEBAY_JWT_SECRET"
	EnvJWTIssuer              = "SERVICEBAY_JWT_ISSUER"
	EnvJWTExpMins             = "SERVICEBAY_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "SERVICEBAY_REFRESH_TOKEN_TTL_MINUTES"

	EnvAllowItemsAfterCompletion = "SERVICEBAY_WORKFLOW_ALLOW_ITEMS_AFTER_COMPLETION"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
