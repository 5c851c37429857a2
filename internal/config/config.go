// Package config loads QuillPress configuration from command-line flags,
// environment variables, a .env file and an optional YAML file.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds the application configuration.
type Config struct {
	App      AppConfig
	Logger   LoggerConfig
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
	// DataPath holds the sqlite database and the signing key unless overridden.
	DataPath string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	CORSOrigins  []string
	// TrustProxy honors X-Forwarded-For and X-Real-IP. Enable only behind a
	// reverse proxy that overwrites them.
	TrustProxy bool
}

// Addr returns host:port for net/http.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// DatabaseConfig selects the relational store.
type DatabaseConfig struct {
	Driver string // sqlite or postgres
	DSN    string // file path for sqlite, connection URL for postgres
}

// AuthConfig holds token and login throttling configuration.
type AuthConfig struct {
	KeyPath       string
	TokenDuration time.Duration
	// Login attempts allowed per client IP per minute, and burst size.
	LoginRatePerMinute int
	LoginBurst         int
}

// fileConfig mirrors the YAML configuration file.
type fileConfig struct {
	Env      string `yaml:"env"`
	LogLevel string `yaml:"log_level"`
	DataPath string `yaml:"data_path"`
	Server   struct {
		Host         string   `yaml:"host"`
		Port         string   `yaml:"port"`
		ReadTimeout  string   `yaml:"read_timeout"`
		WriteTimeout string   `yaml:"write_timeout"`
		IdleTimeout  string   `yaml:"idle_timeout"`
		CORSOrigins  []string `yaml:"cors_origins"`
		TrustProxy   bool     `yaml:"trust_proxy"`
	} `yaml:"server"`
	Database struct {
		Driver string `yaml:"driver"`
		DSN    string `yaml:"dsn"`
	} `yaml:"database"`
	Auth struct {
		KeyPath            string `yaml:"key_path"`
		TokenDuration      string `yaml:"token_duration"`
		LoginRatePerMinute int    `yaml:"login_rate_per_minute"`
		LoginBurst         int    `yaml:"login_burst"`
	} `yaml:"auth"`
}

// Load builds the configuration from args with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. YAML config file.
// 5. Default values (lowest priority).
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("quillpress", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := fs.String("data-path", "", "Directory for the sqlite database and auth key")
	configFile := fs.String("config", "", "Path to YAML config file")
	envFile := fs.String("env-file", ".env", "Path to .env file")

	host := fs.String("host", "", "Listen host")
	port := fs.String("port", "", "Listen port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	corsOrigins := fs.String("cors-origins", "", "Comma separated allowed CORS origins")
	trustProxy := fs.String("trust-proxy", "", "Trust X-Forwarded-For from a reverse proxy (default: false)")

	dbDriver := fs.String("db-driver", "", "Database driver (sqlite, postgres)")
	dbDSN := fs.String("db-dsn", "", "Database DSN or sqlite file path")

	keyPath := fs.String("auth-key-path", "", "Path to the token signing key")
	tokenDuration := fs.String("token-duration", "", "Token lifetime (default: 24h)")
	loginRate := fs.String("login-rate", "", "Login attempts per minute per IP (default: 10)")
	loginBurst := fs.String("login-burst", "", "Login burst size (default: 5)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	// Missing .env is fine.
	_ = loadEnvFile(*envFile)

	var file fileConfig
	if path := getConfigValue(*configFile, "QUILL_CONFIG_FILE", "", ""); path != "" {
		if err := loadYAMLFile(path, &file); err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "QUILL_ENV", file.Env, "development"),
			DataPath:    getConfigValue(*dataPath, "QUILL_DATA_PATH", file.DataPath, ""),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "QUILL_LOG_LEVEL", file.LogLevel, "info"),
		},
		Server: ServerConfig{
			Host:        getConfigValue(*host, "QUILL_HOST", file.Server.Host, ""),
			Port:        getConfigValue(*port, "QUILL_PORT", file.Server.Port, "8080"),
			CORSOrigins: splitList(getConfigValue(*corsOrigins, "QUILL_CORS_ORIGINS", strings.Join(file.Server.CORSOrigins, ","), "*")),
			TrustProxy:  getBoolConfigValue(*trustProxy, "QUILL_TRUST_PROXY", file.Server.TrustProxy),
		},
		Database: DatabaseConfig{
			Driver: getConfigValue(*dbDriver, "QUILL_DB_DRIVER", file.Database.Driver, DriverSQLite),
			DSN:    getConfigValue(*dbDSN, "QUILL_DB_DSN", file.Database.DSN, ""),
		},
		Auth: AuthConfig{
			KeyPath:            getConfigValue(*keyPath, "QUILL_AUTH_KEY_PATH", file.Auth.KeyPath, ""),
			LoginRatePerMinute: getIntConfigValue(*loginRate, "QUILL_LOGIN_RATE", file.Auth.LoginRatePerMinute, 10),
			LoginBurst:         getIntConfigValue(*loginBurst, "QUILL_LOGIN_BURST", file.Auth.LoginBurst, 5),
		},
	}

	durations := []struct {
		name   string
		target *time.Duration
		value  string
	}{
		{"read timeout", &cfg.Server.ReadTimeout, getConfigValue(*readTimeout, "QUILL_READ_TIMEOUT", file.Server.ReadTimeout, "15s")},
		{"write timeout", &cfg.Server.WriteTimeout, getConfigValue(*writeTimeout, "QUILL_WRITE_TIMEOUT", file.Server.WriteTimeout, "15s")},
		{"idle timeout", &cfg.Server.IdleTimeout, getConfigValue(*idleTimeout, "QUILL_IDLE_TIMEOUT", file.Server.IdleTimeout, "60s")},
		{"token duration", &cfg.Auth.TokenDuration, getConfigValue(*tokenDuration, "QUILL_TOKEN_DURATION", file.Auth.TokenDuration, "24h")},
	}
	for _, d := range durations {
		parsed, err := time.ParseDuration(d.value)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", d.name, d.value, err)
		}
		*d.target = parsed
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all config values are present and valid.
func (c *Config) Validate() error {
	switch c.App.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("invalid environment: %q (must be development, staging, or production)", c.App.Environment)
	}

	switch strings.ToLower(c.Logger.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("invalid database driver: %q (must be sqlite or postgres)", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.New("database DSN cannot be empty")
	}

	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("invalid port %q", c.Server.Port)
	}

	if c.Auth.TokenDuration <= 0 {
		return errors.New("token duration must be positive")
	}
	if c.Auth.KeyPath == "" {
		return errors.New("auth key path cannot be empty")
	}
	if c.Auth.LoginRatePerMinute <= 0 || c.Auth.LoginBurst <= 0 {
		return errors.New("login rate and burst must be positive")
	}

	return nil
}

// expandPaths resolves the data directory and derives the sqlite file and key
// locations from it when they were not set explicitly.
func (c *Config) expandPaths() error {
	if c.App.DataPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		c.App.DataPath = filepath.Join(home, ".quillpress")
	}
	dataPath, err := expandPath(c.App.DataPath)
	if err != nil {
		return fmt.Errorf("invalid data path: %w", err)
	}
	c.App.DataPath = dataPath

	if c.Database.Driver == DriverSQLite {
		if c.Database.DSN == "" {
			c.Database.DSN = filepath.Join(dataPath, "quillpress.db")
		} else if c.Database.DSN != ":memory:" {
			if c.Database.DSN, err = expandPath(c.Database.DSN); err != nil {
				return fmt.Errorf("invalid sqlite path: %w", err)
			}
		}
	}

	if c.Auth.KeyPath == "" {
		c.Auth.KeyPath = filepath.Join(dataPath, "auth.key")
	} else if c.Auth.KeyPath, err = expandPath(c.Auth.KeyPath); err != nil {
		return fmt.Errorf("invalid auth key path: %w", err)
	}

	return nil
}

// expandPath expands ~ and makes the path absolute.
func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	return filepath.Clean(abs), nil
}

// getConfigValue returns the first non-empty value of flag, env var, file value, default.
func getConfigValue(flagValue, envKey, fileValue, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	if fileValue != "" {
		return fileValue
	}
	return defaultValue
}

// getIntConfigValue is getConfigValue for integers. Unparseable values fall back to the default.
func getIntConfigValue(flagValue, envKey string, fileValue, defaultValue int) int {
	fileStr := ""
	if fileValue != 0 {
		fileStr = strconv.Itoa(fileValue)
	}
	v, err := strconv.Atoi(getConfigValue(flagValue, envKey, fileStr, strconv.Itoa(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return v
}

// getBoolConfigValue defaults to false; unparseable values count as false.
func getBoolConfigValue(flagValue, envKey string, fileValue bool) bool {
	v, err := strconv.ParseBool(getConfigValue(flagValue, envKey, strconv.FormatBool(fileValue), "false"))
	if err != nil {
		return false
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func loadYAMLFile(path string, into *fileConfig) error {
	data, err := os.ReadFile(path) //#nosec G304 -- config path is operator supplied
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, into); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// loadEnvFile loads KEY=value lines into the environment without overriding
// variables that are already set.
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- env file path is operator supplied
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}
	return scanner.Err()
}
