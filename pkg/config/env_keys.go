package config

const EnvPrefix = "VITRINE"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv   = "VITRINE_APP_ENV"
	EnvPort     = "VITRINE_APP_PORT"
	EnvDBDSN    = "VITRINE_DB_DSN"
	EnvDBHost   = "VITRINE_DB_HOST"
	EnvDBUser   = "VITRINE_DB_USER"
	EnvDBName   = "VITRINE_DB_NAME"
	EnvRedisURL = "VITRINE_REDIS_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
