// Package config loads and validates the application config from a
// YAML file with environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"

	"github.com/rgood/tastebook/internal/password"
)

const (
	DefaultConfigPath = "/data/tastebook.yaml"
	DefaultPort       = 8080

	appSecretBytes = 32
)

const (
	EnvProd = "PROD"
	EnvDev  = "DEV"
)

// AppSecret is the shared HS256 signing secret. Empty is allowed;
// auth then falls back to remote introspection.
type AppSecret string

func (a AppSecret) Validate() error {
	if a == "" {
		return nil
	}
	if len([]byte(a)) < appSecretBytes {
		return errors.New("secret should be at least 32 bytes")
	}
	return nil
}

// BootstrapPassword must satisfy the password policy when set.
type BootstrapPassword string

func (b BootstrapPassword) Validate() error {
	if b == "" {
		return nil
	}
	return password.Validate(string(b))
}

type DatabaseConfig struct {
	User     string `yaml:"user" validate:"required"`
	Password string `yaml:"password" validate:"required"`
	Host     string `yaml:"host" validate:"required"`
	Port     int    `yaml:"port" validate:"required,gt=0"`
	Name     string `yaml:"name" validate:"required"`
}

func (d DatabaseConfig) URL() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%d/%s",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

type AuthConfig struct {
	Secret           AppSecret `yaml:"secret"`
	SecretVersion    string    `yaml:"secret_version"`
	IntrospectionURL string    `yaml:"introspection_url" validate:"omitempty,url"`
}

type StorageConfig struct {
	Endpoint  string        `yaml:"endpoint"`
	AccessKey string        `yaml:"access_key"`
	SecretKey string        `yaml:"secret_key"`
	Bucket    string        `yaml:"bucket"`
	UseSSL    bool          `yaml:"use_ssl"`
	URLExpiry time.Duration `yaml:"url_expiry"`
}

func (s StorageConfig) Enabled() bool {
	return s.Endpoint != ""
}

type BootstrapConfig struct {
	Username string            `yaml:"username"`
	Email    string            `yaml:"email" validate:"omitempty,email"`
	Password BootstrapPassword `yaml:"password"`
}

type Config struct {
	Env       string          `yaml:"env" validate:"omitempty,oneof=PROD DEV"`
	Port      int             `yaml:"port" validate:"gt=0"`
	BaseURL   string          `yaml:"base_url" validate:"omitempty,url"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Storage   StorageConfig   `yaml:"storage"`
	Bootstrap BootstrapConfig `yaml:"bootstrap"`
}

func defaults() Config {
	return Config{
		Env:  EnvDev,
		Port: DefaultPort,
		Database: DatabaseConfig{
			Port: 5432,
		},
	}
}

// LoadConfig reads the YAML config (CONFIG_FILE or the default
// path), applies environment overrides, and validates the result.
func LoadConfig() (*Config, error) {
	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = DefaultConfigPath
	}

	conf := defaults()
	raw, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(raw, &conf); err != nil {
			return nil, fmt.Errorf("parsing config file %q: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading config file %q: %w", path, err)
	}

	applyEnvOverrides(&conf)

	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}

func applyEnvOverrides(conf *Config) {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setString(&conf.Env, "ENV")
	setString(&conf.BaseURL, "BASE_URL")
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			conf.Port = port
		}
	}

	setString(&conf.Database.User, "DATABASE_USER")
	setString(&conf.Database.Password, "DATABASE_PASSWORD")
	setString(&conf.Database.Host, "DATABASE_HOST")
	if v := os.Getenv("DATABASE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			conf.Database.Port = port
		}
	}
	setString(&conf.Database.Name, "DATABASE")

	if v := os.Getenv("APP_SECRET"); v != "" {
		conf.Auth.Secret = AppSecret(v)
	}
	setString(&conf.Auth.SecretVersion, "APP_SECRET_VERSION")
	setString(&conf.Auth.IntrospectionURL, "AUTH_INTROSPECTION_URL")

	setString(&conf.Storage.Endpoint, "STORAGE_ENDPOINT")
	setString(&conf.Storage.AccessKey, "STORAGE_ACCESS_KEY")
	setString(&conf.Storage.SecretKey, "STORAGE_SECRET_KEY")
	setString(&conf.Storage.Bucket, "STORAGE_BUCKET")
	if v := os.Getenv("STORAGE_USE_SSL"); v != "" {
		conf.Storage.UseSSL = v == "true" || v == "1"
	}

	setString(&conf.Bootstrap.Username, "BOOTSTRAP_USERNAME")
	setString(&conf.Bootstrap.Email, "BOOTSTRAP_EMAIL")
	if v := os.Getenv("BOOTSTRAP_PASSWORD"); v != "" {
		conf.Bootstrap.Password = BootstrapPassword(v)
	}
}

func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	if err := c.Auth.Secret.Validate(); err != nil {
		return fmt.Errorf("validating auth secret: %w", err)
	}
	if c.Auth.Secret == "" && c.Auth.IntrospectionURL == "" {
		return errors.New("either auth.secret or auth.introspection_url must be set")
	}

	if err := c.Bootstrap.Password.Validate(); err != nil {
		return fmt.Errorf("validating bootstrap password: %w", err)
	}
	if (c.Bootstrap.Email == "") != (c.Bootstrap.Password == "") {
		return errors.New("bootstrap.email and bootstrap.password must be set together")
	}

	if c.Storage.Enabled() {
		if c.Storage.AccessKey == "" || c.Storage.SecretKey == "" || c.Storage.Bucket == "" {
			return errors.New("storage requires endpoint, access_key, secret_key and bucket")
		}
	}
	return nil
}
