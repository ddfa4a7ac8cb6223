package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Scanner      ScannerConfig
	Catalog      CatalogConfig
	DB           DBConfig
	Redis        RedisConfig
	Display      DisplayConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"SCANPOS_APP_ENV" required:"true"`
	Port         string   `envconfig:"SCANPOS_APP_PORT" default:"8080"`
	LogLevel     string   `envconfig:"SCANPOS_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"SCANPOS_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"SCANPOS_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// ScannerConfig drives the frame loop and the barcode cooldown window.
type ScannerConfig struct {
	Cooldown     time.Duration `envconfig:"SCANPOS_SCAN_COOLDOWN" default:"2s"`
	TickInterval time.Duration `envconfig:"SCANPOS_SCAN_TICK_INTERVAL" default:"10ms"`
	FrameDir     string        `envconfig:"SCANPOS_FRAME_DIR"`
	FrameLoop    bool          `envconfig:"SCANPOS_FRAME_LOOP" default:"false"`
}

type CatalogConfig struct {
	Source string `envconfig:"SCANPOS_CATALOG_SOURCE" default:"static"`
}

// FromDB reports whether the catalog is loaded from the database.
func (c CatalogConfig) FromDB() bool {
	return strings.EqualFold(strings.TrimSpace(c.Source), CatalogSourceDB)
}

type DBConfig struct {
	DSN    string `envconfig:"SCANPOS_DB_DSN"`
	Driver string `envconfig:"SCANPOS_DB_DRIVER" default:"postgres"`

	MaxOpenConns    int           `envconfig:"SCANPOS_DB_MAX_OPEN_CONNS" default:"5"`
	MaxIdleConns    int           `envconfig:"SCANPOS_DB_MAX_IDLE_CONNS" default:"2"`
	ConnMaxLifetime time.Duration `envconfig:"SCANPOS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SCANPOS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SCANPOS_REDIS_URL"`
	Address      string        `envconfig:"SCANPOS_REDIS_ADDR"`
	Password     string        `envconfig:"SCANPOS_REDIS_PASSWORD"`
	DB           int           `envconfig:"SCANPOS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SCANPOS_REDIS_POOL_SIZE" default:"4"`
	MinIdleConns int           `envconfig:"SCANPOS_REDIS_MIN_IDLE_CONNS" default:"1"`
	DialTimeout  time.Duration `envconfig:"SCANPOS_REDIS_DIAL_TIMEOUT" default:"2s"`
	ReadTimeout  time.Duration `envconfig:"SCANPOS_REDIS_READ_TIMEOUT" default:"500ms"`
	WriteTimeout time.Duration `envconfig:"SCANPOS_REDIS_WRITE_TIMEOUT" default:"500ms"`
}

// Enabled reports whether a redis endpoint was configured at all.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type DisplayConfig struct {
	Channel        string        `envconfig:"SCANPOS_DISPLAY_CHANNEL" default:"scanpos:bill"`
	SnapshotKey    string        `envconfig:"SCANPOS_DISPLAY_KEY" default:"bill:current"`
	PublishTimeout time.Duration `envconfig:"SCANPOS_DISPLAY_PUBLISH_TIMEOUT" default:"250ms"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SCANPOS_AUTO_MIGRATE" default:"false"`
}

func (c *Config) validate() error {
	if c.Scanner.Cooldown < 0 {
		return fmt.Errorf("%s must be non-negative", EnvScanCooldown)
	}
	if c.Scanner.TickInterval <= 0 {
		return fmt.Errorf("%s must be positive", EnvScanTickInterval)
	}

	switch strings.ToLower(strings.TrimSpace(c.Catalog.Source)) {
	case CatalogSourceStatic:
	case CatalogSourceDB:
		if c.DB.DSN == "" {
			return fmt.Errorf("%s is required when %s=%s", EnvDBDSN, EnvCatalogSource, CatalogSourceDB)
		}
	default:
		return fmt.Errorf("unsupported %s %q", EnvCatalogSource, c.Catalog.Source)
	}

	switch strings.ToLower(strings.TrimSpace(c.DB.Driver)) {
	case DBDriverPostgres, DBDriverSQLite:
	default:
		return fmt.Errorf("unsupported %s %q", EnvDBDriver, c.DB.Driver)
	}
	return nil
}
