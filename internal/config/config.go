// Package config handles loading and parsing the console configuration.
// It supports two sources (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root configuration structure.
// Every field maps to a key in the YAML file and can be overridden
// by the corresponding environment variable (env:"...").
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-required:"true"`

	// StoragePath is the filesystem path to the SQLite audit log.
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-required:"true"`

	HTTPServer `yaml:"http_server"`
	Backend    Backend `yaml:"backend"`
	Flash      Flash   `yaml:"flash"`
}

// HTTPServer holds settings for the console's own listener.
type HTTPServer struct {
	Addr         string        `yaml:"address" env:"HTTP_SERVER_ADDR" env-required:"true"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"HTTP_SERVER_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"HTTP_SERVER_WRITE_TIMEOUT" env-default:"30s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env:"HTTP_SERVER_IDLE_TIMEOUT" env-default:"60s"`
}

// Backend points the console at the lending REST API.
type Backend struct {
	BaseURL string        `yaml:"base_url" env:"BACKEND_BASE_URL" env-required:"true"`
	Token   string        `yaml:"token" env:"BACKEND_TOKEN"`
	Timeout time.Duration `yaml:"timeout" env:"BACKEND_TIMEOUT" env-default:"10s"`
}

// Flash configures the cookie that carries toasts across redirects.
type Flash struct {
	CookieName string `yaml:"cookie_name" env:"FLASH_COOKIE_NAME" env-default:"toast"`
	Secure     bool   `yaml:"secure" env:"FLASH_COOKIE_SECURE"`
}

// MustLoad reads, validates, and returns the application config.
// It terminates the process on any failure.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	if configPath == "" {
		log.Fatal("config path is not set: use --config flag or CONFIG_PATH env var")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err.Error())
	}

	return cfg
}

// Load reads the YAML file at path, applies env overrides and defaults,
// and checks the values cleanenv cannot express as tags.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, err
	}

	switch cfg.Env {
	case "dev", "staging", "prod":
	default:
		return nil, fmt.Errorf("env must be one of dev, staging, prod; got %q", cfg.Env)
	}
	if cfg.Backend.Timeout <= 0 {
		return nil, fmt.Errorf("backend timeout must be positive, got %s", cfg.Backend.Timeout)
	}

	return &cfg, nil
}
