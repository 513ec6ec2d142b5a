package config

// EnvPrefix is passed to envconfig; individual fields carry the full
// TILLPOINT_* name so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	ProfitPolicyLegacy = "legacy"
	ProfitPolicyMargin = "margin"
)

// Canonical env var names, shared with tests.
const (
	EnvAppEnv         = "TILLPOINT_APP_ENV"
	EnvPort           = "TILLPOINT_APP_PORT"
	EnvLogLevel       = "TILLPOINT_LOG_LEVEL"
	EnvDBDSN          = "TILLPOINT_DB_DSN"
	EnvDBDriver       = "TILLPOINT_DB_DRIVER"
	EnvSQLitePath     = "TILLPOINT_SQLITE_PATH"
	EnvRedisURL       = "TILLPOINT_REDIS_URL"
	EnvJWTSecret      = "TILLPOINT_JWT_SECRET"
	EnvJWTIssuer      = "TILLPOINT_JWT_ISSUER"
	EnvJWTExpMins     = "TILLPOINT_JWT_EXPIRATION_MINUTES"
	EnvShopAPIBaseURL = "TILLPOINT_SHOP_API_BASE_URL"
	EnvShopAPIToken   = "TILLPOINT_SHOP_API_TOKEN"
	EnvProfitPolicy   = "TILLPOINT_CHECKOUT_PROFIT_POLICY"
)
