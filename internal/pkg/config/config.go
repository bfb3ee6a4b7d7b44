package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// TenantID is the location this deployment serves; it scopes the
	// auto-close throttle and is the default tenant for sync requests.
	TenantID string `env:"TENANT_ID"`
	// Timezone is the IANA zone used for session day boundaries.
	Timezone string `env:"TIMEZONE, default=Europe/Bucharest"`

	Mongo MongoConfig
	Redis RedisConfig
	CRM   CRMConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=timetrack"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type CRMConfig struct {
	BaseURL       string        `env:"CRM_BASE_URL,        default=https://services.crmhq.example"`
	LegacyBaseURL string        `env:"CRM_LEGACY_BASE_URL, default=https://rest.crmhq.example"`
	Timeout       time.Duration `env:"CRM_TIMEOUT,         default=10s"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
