package config

const (
	EnvPrefix = "STOREFRONT"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv   = "STOREFRONT_APP_ENV"
	EnvPort     = "STOREFRONT_APP_PORT"
	EnvLogLevel = "STOREFRONT_LOG_LEVEL"

	EnvDBDSN  = "STOREFRONT_DB_DSN"
	EnvDBHost = "STOREFRONT_DB_HOST"
	EnvDBUser = "STOREFRONT_DB_USER"
	EnvDBName = "STOREFRONT_DB_NAME"

	EnvRedisURL = "STOREFRONT_REDIS_URL"

	EnvSessionAuthKey    = "STOREFRONT_SESSION_AUTH_KEY"
	EnvSessionEncryptKey = "STOREFRONT_SESSION_ENCRYPT_KEY"

	EnvJWTSecret  = "STOREFRONT_JWT_SECRET"
	EnvJWTIssuer  = "STOREFRONT_JWT_ISSUER"
	EnvJWTExpMins = "STOREFRONT_JWT_EXPIRATION_MINUTES"

	EnvTenantBaseDomain = "STOREFRONT_TENANT_BASE_DOMAIN"
	EnvPageSize         = "STOREFRONT_PAGE_SIZE"
)

var discreteDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
