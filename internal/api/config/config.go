package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/anthanhphan/gosdk/conflux"
	"github.com/anthanhphan/gosdk/logger"
	"github.com/joho/godotenv"
)

// Environment variables that override file configuration.
const (
	EnvPort        = "IMGHOST_PORT"
	EnvStoragePath = "IMGHOST_STORAGE_PATH"
	EnvTLS         = "IMGHOST_TLS"
	EnvStaticDir   = "IMGHOST_STATIC_DIR"
)

// Config holds image host configuration
type Config struct {
	Server ServerConfig  `json:"server" yaml:"server"`
	App    AppConfig     `json:"app" yaml:"app"`
	Logger logger.Config `json:"logger" yaml:"logger"`
}

type ServerConfig struct {
	Port      int    `json:"port" yaml:"port"`
	StaticDir string `json:"static_dir" yaml:"static_dir"`
	// BodyLimit is the request body size fasthttp buffers before switching to streaming.
	BodyLimit int `json:"body_limit" yaml:"body_limit"`
}

type AppConfig struct {
	StoragePath  string `json:"storage_path" yaml:"storage_path"`
	TLS          bool   `json:"tls" yaml:"tls"` // only selects the URL scheme; TLS terminates upstream
	MaxImageSize int64  `json:"max_image_size" yaml:"max_image_size"`
}

// DefaultConfig returns configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:      8000,
			StaticDir: "./static",
			BodyLimit: 4 * 1024 * 1024, // 4MB
		},
		App: AppConfig{
			StoragePath:  "./storage",
			TLS:          false,
			MaxImageSize: 64 * 1024 * 1024, // 64MB
		},
		Logger: logger.Config{
			LogLevel:    logger.LevelInfo,
			LogEncoding: logger.EncodingJSON,
		},
	}
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// Scheme returns the URL scheme used in public image links.
func (c *Config) Scheme() string {
	if c.App.TLS {
		return "https"
	}
	return "http"
}

// Validate checks that the configuration can be served.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.App.StoragePath == "" {
		return errors.New("storage path must not be empty")
	}
	if c.App.MaxImageSize <= 0 {
		return fmt.Errorf("invalid max image size %d", c.App.MaxImageSize)
	}
	if c.Server.BodyLimit <= 0 {
		return fmt.Errorf("invalid body limit %d", c.Server.BodyLimit)
	}
	return nil
}

// Load loads configuration from file, then applies environment overrides.
func Load(path string) (*Config, error) {
	configPath := path
	if configPath == "" {
		env := os.Getenv("ENV")
		if env == "" {
			env = "local"
		}
		configPath = filepath.Join("internal", "api", "config", env+".yaml")
	}

	cfg := DefaultConfig()

	parsedCfg, err := conflux.ParseConfig(configPath, cfg)
	if err != nil {
		// The logger is not initialised yet, so this goes through the std logger.
		log.Printf("Config file not found or failed to parse, using defaults if file not specified. Path: %s, Error: %v", configPath, err)
		if path != "" {
			return nil, err
		}
		parsedCfg = cfg
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := ApplyEnv(parsedCfg); err != nil {
		return nil, err
	}

	return parsedCfg, nil
}

// ApplyEnv overrides cfg with any IMGHOST_* variables present in the environment.
func ApplyEnv(cfg *Config) error {
	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPort, v, err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv(EnvStoragePath); v != "" {
		cfg.App.StoragePath = v
	}
	if v := os.Getenv(EnvTLS); v != "" {
		tls, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvTLS, v, err)
		}
		cfg.App.TLS = tls
	}
	if v := os.Getenv(EnvStaticDir); v != "" {
		cfg.Server.StaticDir = v
	}
	return nil
}

// MustLoad loads configuration or exits on error
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}
