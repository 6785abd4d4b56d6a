package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/MSSkowron/CareAuth/pkg/logger"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// DotEnvFile is loaded into the process environment when no config file is given.
const DotEnvFile = ".env"

// Config stores configuration values for the application.
// These values can be read from a configuration file or environment variables.
type Config struct {
	// ServerAddress is the IP address where the REST and gRPC servers listen.
	ServerAddress string `mapstructure:"SERVER_ADDRESS"`
	// ServerPort is the port of the REST server.
	ServerPort int `mapstructure:"SERVER_PORT" validate:"min=1,max=65535"`
	// GRPCPort is the port of the gRPC token verifier. Zero disables it.
	GRPCPort int `mapstructure:"GRPC_PORT" validate:"min=0,max=65535"`
	// ShutdownTimeout bounds the graceful shutdown of both servers.
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT" validate:"gt=0"`

	// StorageDriver selects the repository backend.
	StorageDriver string `mapstructure:"STORAGE_DRIVER" validate:"oneof=postgres memory"`
	// DatabaseURL is the Postgres connection string.
	DatabaseURL string `mapstructure:"DATABASE_URL" validate:"required_if=StorageDriver postgres"`

	// JWTSecretKey is the base64 encoded HS256 signing key.
	JWTSecretKey string `mapstructure:"JWT_SECRET_KEY" validate:"required,base64"`
	// JWTExpiration is the lifetime of issued access tokens.
	JWTExpiration time.Duration `mapstructure:"JWT_EXPIRATION_TIME" validate:"gt=0"`
	// BcryptCost is the cost used to hash passwords.
	BcryptCost int `mapstructure:"BCRYPT_COST" validate:"min=4,max=31"`

	// RedisAddr enables Redis backed token revocation when set.
	RedisAddr     string `mapstructure:"REDIS_ADDR" validate:"omitempty,hostname_port"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB" validate:"min=0"`

	// NATSURL enables publishing of account events when set.
	NATSURL string `mapstructure:"NATS_URL" validate:"omitempty,url"`

	// RateLimitRPS is the sustained rate of login and registration requests per client IP. Zero disables limiting.
	RateLimitRPS   float64 `mapstructure:"RATE_LIMIT_RPS" validate:"gte=0"`
	RateLimitBurst int     `mapstructure:"RATE_LIMIT_BURST" validate:"gte=0"`

	// TrustedProxies lists reverse proxy IPs or CIDR ranges whose X-Forwarded-For header is believed.
	TrustedProxies []string `mapstructure:"TRUSTED_PROXIES" validate:"dive,cidr|ip"`

	// CORSAllowedOrigins is a comma separated list of allowed origins.
	CORSAllowedOrigins []string `mapstructure:"CORS_ALLOWED_ORIGINS" validate:"min=1"`

	LogLevel      string `mapstructure:"LOG_LEVEL"`
	LogType       string `mapstructure:"LOG_TYPE"`
	LogFilePath   string `mapstructure:"LOG_FILE_PATH"`
	LogMaxSize    int    `mapstructure:"LOG_MAX_SIZE"`
	LogMaxBackups int    `mapstructure:"LOG_MAX_BACKUPS"`
	LogMaxAge     int    `mapstructure:"LOG_MAX_AGE"`
}

var defaults = map[string]any{
	"SERVER_ADDRESS":       "",
	"SERVER_PORT":          8080,
	"GRPC_PORT":            9090,
	"SHUTDOWN_TIMEOUT":     "10s",
	"STORAGE_DRIVER":       StoragePostgres,
	"DATABASE_URL":         "",
	"JWT_SECRET_KEY":       "",
	"JWT_EXPIRATION_TIME":  "24h",
	"BCRYPT_COST":          10,
	"REDIS_ADDR":           "",
	"REDIS_PASSWORD":       "",
	"REDIS_DB":             0,
	"NATS_URL":             "",
	"RATE_LIMIT_RPS":       5,
	"RATE_LIMIT_BURST":     10,
	"TRUSTED_PROXIES":      "",
	"CORS_ALLOWED_ORIGINS": "*",
	"LOG_LEVEL":            "info",
	"LOG_TYPE":             logger.TypeConsole,
	"LOG_FILE_PATH":        "",
	"LOG_MAX_SIZE":         10,
	"LOG_MAX_BACKUPS":      3,
	"LOG_MAX_AGE":          28,
}

// Load loads configuration settings from a specified file or environment variables.
// If both a configuration file and environment variables are used, environment variables take precedence.
// With an empty filePath, a .env file in the working directory is loaded into the environment if present.
func Load(filePath string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if filePath != "" {
		v.SetConfigFile(filePath)
		v.SetConfigType("env")

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", DotEnvFile, err)
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks every field and the logger settings.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	settings := c.LoggerSettings()
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	return nil
}

// LoggerSettings returns the logger part of the configuration.
func (c *Config) LoggerSettings() logger.Settings {
	return logger.Settings{
		Level:      c.LogLevel,
		Type:       c.LogType,
		FilePath:   c.LogFilePath,
		MaxSize:    c.LogMaxSize,
		MaxBackups: c.LogMaxBackups,
		MaxAge:     c.LogMaxAge,
	}
}
