package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port     int    `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Version  string `envconfig:"VERSION" default:"dev"`

	// Storage. DBAdapter selects the backend: postgres, sqlite or memory.
	DBAdapter     string `envconfig:"DB_ADAPTER" default:"postgres"`
	DatabaseURL   string `envconfig:"DATABASE_URL" default:""`
	SQLitePath    string `envconfig:"SQLITE_PATH" default:"portcullis.db"`
	MigrationsDir string `envconfig:"MIGRATIONS_DIR" default:"./migrations"`

	// Token signing. The key pair is provisioned out-of-band (cmd/keygen);
	// rotating it invalidates every outstanding token.
	PrivateKeyPath string        `envconfig:"JWT_PRIVATE_KEY_PATH" default:"certs/private.pem"`
	PublicKeyPath  string        `envconfig:"JWT_PUBLIC_KEY_PATH" default:"certs/public.pem"`
	Issuer         string        `envconfig:"JWT_ISSUER" default:"portcullis"`
	UserTokenTTL   time.Duration `envconfig:"USER_TOKEN_TTL" default:"24h"`
	AppTokenTTL    time.Duration `envconfig:"APP_TOKEN_TTL" default:"8760h"`

	BcryptCost         int `envconfig:"BCRYPT_COST" default:"10"`
	RateLimitPerMinute int `envconfig:"RATE_LIMIT_PER_MINUTE" default:"60"`
}

// Load reads configuration from environment variables into a Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
