package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort  string `env:"SERVER_PORT, default=8080"`
	SwaggerHost string `env:"SWAGGER_HOST"`
	LogLevel    string `env:"LOG_LEVEL, default=info"`
	LogPretty   bool   `env:"LOG_PRETTY, default=false"`

	Database DatabaseConfig
	Redis    RedisConfig
	Session  SessionConfig
	Media    MediaConfig
	Broker   BrokerConfig

	SeedUsersFile string `env:"SEED_USERS_FILE, default=config/users.yaml"`
}

// DatabaseConfig configures the MySQL connection.
type DatabaseConfig struct {
	DSN             string `env:"MYSQL_DSN, default=user:password@tcp(localhost:3306)/crm?charset=utf8mb4&parseTime=True&loc=Local"`
	ConnectAttempts int    `env:"DB_CONNECT_ATTEMPTS, default=5"`
	Reset           bool   `env:"RESET_DB, default=false"`
}

// RedisConfig configures the cache and session revocation store.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	DB       int    `env:"REDIS_DB, default=0"`
	Password string `env:"REDIS_PASSWORD"`
}

// SessionConfig configures the signed session cookie.
type SessionConfig struct {
	JWTSecret    string        `env:"JWT_SECRET, default=change-me"`
	TTL          time.Duration `env:"SESSION_TTL, default=12h"`
	CookieName   string        `env:"SESSION_COOKIE, default=crm_session"`
	CookieSecure bool          `env:"COOKIE_SECURE, default=false"`
}

// MediaConfig configures uploaded file handling.
type MediaConfig struct {
	Root           string `env:"MEDIA_ROOT, default=./media"`
	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES, default=10485760"`
}

// BrokerConfig configures import notifications. An empty URL disables publishing.
type BrokerConfig struct {
	URL         string        `env:"AMQP_URL"`
	Queue       string        `env:"IMPORT_QUEUE, default=customers.imported"`
	DialTimeout time.Duration `env:"AMQP_DIAL_TIMEOUT, default=3s"`
}

// Load builds Config from the environment, reading a .env file first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return &cfg, nil
}
