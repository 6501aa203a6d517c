package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env  string
	Port int

	Backend BackendConfig
	Session SessionConfig
	CSRF    CSRFConfig
	Import  ImportConfig
	Log     LogConfig
}

// BackendConfig locates the remote titulation API.
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

// SessionConfig controls the session cookie pair.
type SessionConfig struct {
	Secure bool
	MaxAge time.Duration
}

// CSRFConfig carries the form-protection key.
type CSRFConfig struct {
	Key string
}

// ImportConfig bounds spreadsheet uploads before they reach the backend.
type ImportConfig struct {
	MaxFileSizeBytes int64
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	// The .env file is optional; with an explicit SetConfigFile a missing
	// file surfaces as fs.ErrNotExist, not ConfigFileNotFoundError.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")

	cfg.Backend = BackendConfig{
		BaseURL: strings.TrimRight(v.GetString("BACKEND_BASE_URL"), "/"),
		Timeout: parseDuration(v.GetString("BACKEND_TIMEOUT"), 15*time.Second),
	}

	cfg.Session = SessionConfig{
		Secure: v.GetBool("SESSION_COOKIE_SECURE"),
		MaxAge: parseDuration(v.GetString("SESSION_COOKIE_MAX_AGE"), 12*time.Hour),
	}

	cfg.CSRF = CSRFConfig{Key: v.GetString("CSRF_KEY")}

	maxImportSize := v.GetInt64("IMPORT_MAX_FILE_SIZE")
	if maxImportSize <= 0 {
		maxImportSize = 10 * 1024 * 1024
	}
	cfg.Import = ImportConfig{MaxFileSizeBytes: maxImportSize}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)

	v.SetDefault("BACKEND_BASE_URL", "http://localhost:8081")
	v.SetDefault("BACKEND_TIMEOUT", "15s")

	v.SetDefault("SESSION_COOKIE_SECURE", false)
	v.SetDefault("SESSION_COOKIE_MAX_AGE", "12h")

	v.SetDefault("CSRF_KEY", "dev_csrf_key_32_bytes_padding_xx")

	v.SetDefault("IMPORT_MAX_FILE_SIZE", 10*1024*1024)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}
