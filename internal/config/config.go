// Package config builds the immutable service configuration at startup.
//
// Values are merged in layers, lowest priority first: built-in defaults,
// an optional config.yml, an optional .env file, and finally the process
// environment. The resulting Config is passed by value to collaborators;
// nothing reads configuration from ambient globals after startup.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/isquicha/desafio-softfocus/internal/auth/password"
	"github.com/isquicha/desafio-softfocus/internal/logger"
	"github.com/isquicha/desafio-softfocus/internal/server"
	"github.com/isquicha/desafio-softfocus/internal/store"
)

// Config is the complete service configuration.
type Config struct {
	App      AppConfig       `mapstructure:"app"`
	Server   server.Config   `mapstructure:"server"`
	Database store.Config    `mapstructure:"database"`
	Auth     AuthConfig      `mapstructure:"auth"`
	Logger   logger.Config   `mapstructure:"logger"`
	Password password.Config `mapstructure:"password"`
}

// AppConfig identifies the running service.
type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"` // development, testing, production
}

// AuthConfig holds the token signing secret. The token validity window is
// fixed at the auth package level and deliberately not configurable.
type AuthConfig struct {
	SecretKey string `mapstructure:"secret_key"`
}

// Option overrides loader behavior.
type Option func(*loaderOptions)

type loaderOptions struct {
	configFile string
	envFile    string
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) Option {
	return func(o *loaderOptions) { o.configFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) { o.envFile = path }
}

// Load builds the configuration from all layers and validates it.
func Load(opts ...Option) (Config, error) {
	var lo loaderOptions
	for _, opt := range opts {
		opt(&lo)
	}

	v := viper.New()
	setDefaults(v)

	configFile := lo.configFile
	if configFile == "" {
		configFile = findFirst("./config.yml", "./config/config.yml")
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", configFile, err)
		}
	}

	envFile := lo.envFile
	if envFile == "" {
		envFile = findFirst("./.env")
	}
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, fmt.Errorf("config: load %s: %w", envFile, err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvAliases(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}

	cfg.Server.ApplyDefaults()
	cfg.Database.ApplyDefaults()
	cfg.Logger.ApplyDefaults()
	cfg.Password.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the service cannot run without.
func (c Config) Validate() error {
	if c.Auth.SecretKey == "" {
		return errors.New("config: auth.secret_key (SECRET_KEY) is required")
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := c.Password.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "desafio-softfocus")
	v.SetDefault("app.env", "development")
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "desafio.db")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.timestamp", true)
}

// bindEnvAliases maps the flat environment variable names the original
// deployment used onto their nested config keys.
func bindEnvAliases(v *viper.Viper) {
	aliases := map[string]string{
		"auth.secret_key": "SECRET_KEY",
		"database.dsn":    "DATABASE_URI",
		"database.driver": "DATABASE_DRIVER",
		"app.env":         "APP_ENV",
		"server.port":     "PORT",
		"logger.level":    "LOG_LEVEL",
	}
	for key, env := range aliases {
		_ = v.BindEnv(key, env)
	}
}

func findFirst(paths ...string) string {
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
