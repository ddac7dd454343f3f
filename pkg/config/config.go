package config

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"marketplace/internal/models"
	"marketplace/internal/store"
)

// Config groups the application settings, read through Viper from the
// environment and optionally a .env / config.env file.
type Config struct {
	App      AppConfig
	JWT      JWTConfig
	Store    store.Config
	IDPolicy models.IDPolicy
	RabbitMQ RabbitMQConfig
	Admin    AdminConfig
}

// AppConfig general application settings.
type AppConfig struct {
	Env        string // development, staging, production
	Port       string
	LogLevel   string
	BcryptCost int
}

// JWTConfig session token settings.
type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

// RabbitMQConfig stock event broker. An empty URL disables events.
type RabbitMQConfig struct {
	URL string
}

// Enabled reports whether a broker is configured.
func (c RabbitMQConfig) Enabled() bool {
	return c.URL != ""
}

// AdminConfig is the account created on startup when no admin exists.
type AdminConfig struct {
	Username string
	Email    string
	Password string
}

// Enabled reports whether bootstrap credentials were given.
func (c AdminConfig) Enabled() bool {
	return c.Email != "" && c.Password != ""
}

// Load reads the configuration. Environment variables win over file values.
func Load() (*Config, error) {
	v := viper.New()
	readConfigFiles(v, ".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

// readConfigFiles reads root/.env and then merges config/config.env over it.
// Both files are optional.
func readConfigFiles(v *viper.Viper, root string) {
	v.SetConfigType("env")
	v.AddConfigPath(root)

	v.SetConfigName(".env")
	_ = v.ReadInConfig()

	v.SetConfigName("config")
	v.AddConfigPath(filepath.Join(root, "config"))
	_ = v.MergeInConfig()
}

func fromViper(v *viper.Viper) (*Config, error) {
	ttl, err := getDuration(v, "JWT_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Env:        getString(v, "APP_ENV", "development"),
			Port:       getString(v, "APP_PORT", ":8080"),
			LogLevel:   getString(v, "LOG_LEVEL", "info"),
			BcryptCost: getInt(v, "BCRYPT_COST", 10),
		},
		JWT: JWTConfig{
			Secret: getString(v, "JWT_SECRET", "change-me"),
			TTL:    ttl,
		},
		Store: store.Config{
			Driver:        strings.ToLower(getString(v, "STORE_DRIVER", store.DriverFile)),
			DataDir:       getString(v, "STORE_DATA_DIR", "./data"),
			RedisURL:      getString(v, "REDIS_URL", "redis://localhost:6379/0"),
			RedisPrefix:   getString(v, "REDIS_PREFIX", store.DefaultRedisPrefix),
			DatabaseDSN:   getString(v, "DATABASE_DSN", "file:marketplace.db"),
			MongoURI:      getString(v, "MONGO_URI", "mongodb://localhost:27017"),
			MongoDatabase: getString(v, "MONGO_DATABASE", "marketplace"),
		},
		IDPolicy: models.IDPolicy(strings.ToLower(getString(v, "ID_POLICY", string(models.IDPolicyCompact)))),
		RabbitMQ: RabbitMQConfig{
			URL: getString(v, "RABBITMQ_URL", ""),
		},
		Admin: AdminConfig{
			Username: getString(v, "ADMIN_USERNAME", "admin"),
			Email:    getString(v, "ADMIN_EMAIL", ""),
			Password: getString(v, "ADMIN_PASSWORD", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects unknown drivers and policies.
func (c *Config) Validate() error {
	if !store.ValidDriver(c.Store.Driver) {
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.Store.Driver)
	}
	if !c.IDPolicy.Valid() {
		return fmt.Errorf("config: unknown ID_POLICY %q", c.IDPolicy)
	}
	if c.JWT.TTL <= 0 {
		return fmt.Errorf("config: JWT_TTL must be positive")
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getDuration(v *viper.Viper, key string, def time.Duration) (time.Duration, error) {
	if !v.IsSet(key) {
		return def, nil
	}
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s: %w", key, err)
	}
	return d, nil
}
