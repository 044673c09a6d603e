package config

// EnvPrefix namespaces every environment variable consumed by the app.
const EnvPrefix = "autoglass"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "AUTOGLASS_DB_DSN"
	EnvDBHost = "AUTOGLASS_DB_HOST"
	EnvDBUser = "AUTOGLASS_DB_USER"
	EnvDBName = "AUTOGLASS_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
