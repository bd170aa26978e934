package config

const (
	// EnvPrefix namespaces every AgroConnect environment variable.
	EnvPrefix = "agroconnect"

	AppEnvDev  = "development"
	AppEnvProd = "production"
)
