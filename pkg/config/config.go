package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App     AppConfig
	Redis   RedisConfig
	Sync    SyncConfig
	Groups  GroupsConfig
	Cleanup CleanupConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"DESAYUNOS_APP_ENV" required:"true"`
	Port         string `envconfig:"DESAYUNOS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"DESAYUNOS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DESAYUNOS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type RedisConfig struct {
	URL          string        `envconfig:"DESAYUNOS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"DESAYUNOS_REDIS_ADDR"`
	Password     string        `envconfig:"DESAYUNOS_REDIS_PASSWORD"`
	DB           int           `envconfig:"DESAYUNOS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DESAYUNOS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DESAYUNOS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DESAYUNOS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DESAYUNOS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DESAYUNOS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// SyncConfig tunes the optimistic-sync suppression window applied after a
// participant pushes a local edit.
type SyncConfig struct {
	SuppressionWindow time.Duration `envconfig:"DESAYUNOS_SYNC_SUPPRESSION_WINDOW" default:"1s"`
}

type GroupsConfig struct {
	IDPrefix      string        `envconfig:"DESAYUNOS_GROUP_ID_PREFIX" default:"TOMATE"`
	MaxIDAttempts int           `envconfig:"DESAYUNOS_GROUP_MAX_ID_ATTEMPTS" default:"100"`
	CleanupTTL    time.Duration `envconfig:"DESAYUNOS_GROUP_CLEANUP_TTL" default:"5m"`
}

type CleanupConfig struct {
	Interval time.Duration `envconfig:"DESAYUNOS_CLEANUP_INTERVAL" default:"1m"`
	LockTTL  time.Duration `envconfig:"DESAYUNOS_CLEANUP_LOCK_TTL" default:"50s"`
}
