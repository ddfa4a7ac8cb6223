package config

const (
	EnvPrefix = "SCANPOS"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	CatalogSourceStatic = "static"
	CatalogSourceDB     = "db"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv           = "SCANPOS_APP_ENV"
	EnvPort             = "SCANPOS_APP_PORT"
	EnvLogLevel         = "SCANPOS_LOG_LEVEL"
	EnvCORSOrigins      = "SCANPOS_CORS_ORIGINS"
	EnvScanCooldown     = "SCANPOS_SCAN_COOLDOWN"
	EnvScanTickInterval = "SCANPOS_SCAN_TICK_INTERVAL"
	EnvFrameDir         = "SCANPOS_FRAME_DIR"
	EnvFrameLoop        = "SCANPOS_FRAME_LOOP"
	EnvCatalogSource    = "SCANPOS_CATALOG_SOURCE"
	EnvDBDSN            = "SCANPOS_DB_DSN"
	EnvDBDriver         = "SCANPOS_DB_DRIVER"
	EnvRedisURL         = "SCANPOS_REDIS_URL"
	EnvDisplayChannel   = "SCANPOS_DISPLAY_CHANNEL"
	EnvAutoMigrate      = "SCANPOS_AUTO_MIGRATE"
)
