package config

const (
	EnvPrefix = "DESAYUNOS"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv   = "DESAYUNOS_APP_ENV"
	EnvPort     = "DESAYUNOS_APP_PORT"
	EnvRedisURL = "DESAYUNOS_REDIS_URL"
)
