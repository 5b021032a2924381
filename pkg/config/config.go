package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Index configuration (remote object store + local mirror)
	Index IndexConfig

	// Remote commit query configuration
	Remote RemoteConfig

	// Branches configuration
	Branches BranchesConfig

	// Server configuration (resolution service mode)
	Server ServerConfig

	// Install configuration
	Install InstallConfig

	// LogLevel is the logrus level name
	LogLevel string

	// Workers bounds parallel artifact inspection; 1 keeps it sequential
	Workers int
}

// IndexConfig holds private package index configuration
type IndexConfig struct {
	// Remote object store location of the index
	Bucket string
	Prefix string

	// LocalDir is the local mirror wheels are inspected and installed from
	LocalDir string

	// InternalPrefix is the package-name prefix of internal packages
	InternalPrefix string

	// S3 connection settings
	S3Endpoint     string
	S3Region       string
	S3AccessKey    string
	S3SecretKey    string
	S3UsePathStyle bool
}

// RemoteConfig holds commit query configuration
type RemoteConfig struct {
	// GraphQLEndpoint is the commit history endpoint
	GraphQLEndpoint string

	// Token is the bearer credential; falls back to GITHUB_TOKEN
	Token string
}

// BranchesConfig holds the branch pair versions are derived from
type BranchesConfig struct {
	Primary  string
	Fallback string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	ResolveTimeout  time.Duration
}

// InstallConfig holds pip invocation configuration
type InstallConfig struct {
	Pip string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Index: IndexConfig{
			Bucket:         getEnv("BINDLE_INDEX_BUCKET", ""),
			Prefix:         getEnv("BINDLE_INDEX_PREFIX", "pypi/"),
			LocalDir:       getEnv("BINDLE_INDEX_LOCAL", defaultLocalDir()),
			InternalPrefix: getEnv("BINDLE_INTERNAL_PREFIX", "index"),
			S3Endpoint:     getEnv("BINDLE_S3_ENDPOINT", ""),
			S3Region:       getEnv("BINDLE_S3_REGION", "us-east-1"),
			S3AccessKey:    getEnv("BINDLE_S3_ACCESS_KEY", ""),
			S3SecretKey:    getEnv("BINDLE_S3_SECRET_KEY", ""),
			S3UsePathStyle: getEnvBool("BINDLE_S3_USE_PATH_STYLE", false),
		},
		Remote: RemoteConfig{
			GraphQLEndpoint: getEnv("BINDLE_GRAPHQL_ENDPOINT", ""),
			Token:           getEnv("BINDLE_GITHUB_TOKEN", os.Getenv("GITHUB_TOKEN")),
		},
		Branches: BranchesConfig{
			Primary:  getEnv("BINDLE_PRIMARY_BRANCH", ""),
			Fallback: getEnv("BINDLE_FALLBACK_BRANCH", ""),
		},
		Server: ServerConfig{
			Host:            getEnv("BINDLE_HOST", "0.0.0.0"),
			Port:            getEnv("BINDLE_PORT", "8080"),
			ReadTimeout:     getEnvDuration("BINDLE_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("BINDLE_WRITE_TIMEOUT", 60*time.Second),
			IdleTimeout:     getEnvDuration("BINDLE_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("BINDLE_SHUTDOWN_TIMEOUT", 30*time.Second),
			ResolveTimeout:  getEnvDuration("BINDLE_RESOLVE_TIMEOUT", 2*time.Minute),
		},
		Install: InstallConfig{
			Pip: getEnv("BINDLE_PIP", "pip"),
		},
		LogLevel: getEnv("BINDLE_LOG_LEVEL", "info"),
		Workers:  getEnvInt("BINDLE_WORKERS", 1),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Index.LocalDir == "" {
		return fmt.Errorf("local index directory is required")
	}
	if c.Index.InternalPrefix == "" {
		return fmt.Errorf("internal package prefix is required")
	}
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}
	return nil
}

func defaultLocalDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home + "/.bindle/index"
	}
	return "/tmp/bindle/index"
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
