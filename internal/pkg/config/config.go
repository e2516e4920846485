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

	// RederiveOverride controls whether status reconciliation may rewrite a
	// payment status an admin force-set. Off by default: the override is an
	// intentional escape hatch.
	RederiveOverride bool `env:"PAYMENT_REDERIVE_OVERRIDE, default=false"`

	// FeedWorkers sizes the activity-feed dispatcher pool.
	FeedWorkers int `env:"FEED_WORKERS, default=4"`

	BlobDir string `env:"BLOB_DIR, default=./uploads"`

	Mongo MongoConfig
	Redis RedisConfig
	SMTP  SMTPConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=construction_system"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type SMTPConfig struct {
	Addr string `env:"SMTP_ADDR, default=localhost:25"`
	From string `env:"SMTP_FROM, default=noreply@sitebeam.local"`
	// ReminderTTL is the suppression window for duplicate payment reminders.
	ReminderTTL time.Duration `env:"REMINDER_TTL, default=6h"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
