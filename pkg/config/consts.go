package config

// EnvPrefix is passed to envconfig; individual tags carry the full names.
const EnvPrefix = "TRADEHUB"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "TRADEHUB_DB_DSN"
	EnvDBHost = "TRADEHUB_DB_HOST"
	EnvDBUser = "TRADEHUB_DB_USER"
	EnvDBName = "TRADEHUB_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
