// Package config arma la configuración del servicio en capas:
// defaults, archivo YAML opcional, variables PETCARE_* y por último flags.
package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

const EnvPrefix = "PETCARE_"

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"

	AuthDev    = "dev"
	AuthJWT    = "jwt"
	AuthRemote = "remote"
)

type Config struct {
	HTTP         HTTPConfig         `yaml:"http" envPrefix:"HTTP_"`
	Log          LogConfig          `yaml:"log" envPrefix:"LOG_"`
	Storage      StorageConfig      `yaml:"storage" envPrefix:"STORAGE_"`
	Auth         AuthConfig         `yaml:"auth" envPrefix:"AUTH_"`
	Capabilities CapabilitiesConfig `yaml:"capabilities" envPrefix:"PLANS_"`
	Care         CareConfig         `yaml:"care" envPrefix:"CARE_"`
}

type HTTPConfig struct {
	Port            int           `yaml:"port" env:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
	App    string `yaml:"app" env:"APP"`
}

type StorageConfig struct {
	Driver      string `yaml:"driver" env:"DRIVER"`
	DSN         string `yaml:"dsn" env:"DSN"`
	SQLitePath  string `yaml:"sqlite_path" env:"SQLITE_PATH"`
	AutoMigrate bool   `yaml:"auto_migrate" env:"AUTO_MIGRATE"`
}

type AuthConfig struct {
	Mode         string        `yaml:"mode" env:"MODE"`
	JWTSecret    string        `yaml:"jwt_secret" env:"JWT_SECRET"`
	JWTIssuer    string        `yaml:"jwt_issuer" env:"JWT_ISSUER"`
	JWTTTL       time.Duration `yaml:"jwt_ttl" env:"JWT_TTL"`
	RemoteURL    string        `yaml:"remote_url" env:"REMOTE_URL"`
	RemoteAPIKey string        `yaml:"remote_api_key" env:"REMOTE_API_KEY"`
}

type CapabilitiesConfig struct {
	URL      string `yaml:"url" env:"URL"`
	APIKey   string `yaml:"api_key" env:"API_KEY"`
	AllowAll bool   `yaml:"allow_all" env:"ALLOW_ALL"`
}

type CareConfig struct {
	// 0 = historial sin límite.
	HistoryLimit int `yaml:"history_limit" env:"HISTORY_LIMIT"`
	MaxRetries   int `yaml:"max_retries" env:"MAX_RETRIES"`
}

func Defaults() Config {
	return Config{
		HTTP: HTTPConfig{
			Port:            8080,
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			App:    "pet-care-simulator",
		},
		Storage: StorageConfig{
			Driver:     StorageMemory,
			SQLitePath: "petcare.db",
		},
		Auth: AuthConfig{
			Mode:      AuthDev,
			JWTIssuer: "pet-care-simulator",
			JWTTTL:    24 * time.Hour,
		},
		Care: CareConfig{
			MaxRetries: 3,
		},
	}
}

// Load aplica defaults, el YAML en path (si path no está vacío) y el entorno.
// environ nil usa el entorno del proceso.
func Load(path string, environ map[string]string) (Config, error) {
	cfg := Defaults()

	if path = strings.TrimSpace(path); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, oops.Code("CONFIG_INVALID").With("path", path).Wrapf(err, "read config file")
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, oops.Code("CONFIG_INVALID").With("path", path).Wrapf(err, "parse config file")
		}
	}

	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, oops.Code("CONFIG_INVALID").Wrapf(err, "parse env")
	}

	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	if c.HTTP.Port < 1 || c.HTTP.Port > 65535 {
		errs = append(errs, errors.New("http.port must be between 1 and 65535"))
	}

	switch c.Storage.Driver {
	case StorageMemory:
	case StoragePostgres:
		if strings.TrimSpace(c.Storage.DSN) == "" {
			errs = append(errs, errors.New("storage.dsn is required for postgres"))
		}
	case StorageSQLite:
		if strings.TrimSpace(c.Storage.SQLitePath) == "" {
			errs = append(errs, errors.New("storage.sqlite_path is required for sqlite"))
		}
	default:
		errs = append(errs, errors.New("storage.driver must be memory, postgres or sqlite"))
	}

	switch c.Auth.Mode {
	case AuthDev:
	case AuthJWT:
		if strings.TrimSpace(c.Auth.JWTSecret) == "" {
			errs = append(errs, errors.New("auth.jwt_secret is required for jwt mode"))
		}
	case AuthRemote:
		if strings.TrimSpace(c.Auth.RemoteURL) == "" || strings.TrimSpace(c.Auth.RemoteAPIKey) == "" {
			errs = append(errs, errors.New("auth.remote_url and auth.remote_api_key are required for remote mode"))
		}
	default:
		errs = append(errs, errors.New("auth.mode must be dev, jwt or remote"))
	}

	if c.Care.HistoryLimit < 0 {
		errs = append(errs, errors.New("care.history_limit must be >= 0"))
	}
	if c.Care.MaxRetries < 0 {
		errs = append(errs, errors.New("care.max_retries must be >= 0"))
	}

	if err := errors.Join(errs...); err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}
	return nil
}
