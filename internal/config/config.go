package config

import (
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	ServerPort  string
	TLSCertFile string
	TLSKeyFile  string

	JWTSecret string

	AccessTokenMaxAge  int
	RefreshTokenMaxAge int

	RedisURL string

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicURL       string

	LogLevel  string
	LogFormat string
}

// ErrMissingJWTSecret is returned by Validate when the server cannot sign tokens.
var ErrMissingJWTSecret = errors.New("JWT_SECRET is required")

var defaults = map[string]any{
	"DB_DRIVER":             "postgres",
	"DB_PORT":               "5432",
	"DB_SSLMODE":            "require",
	"SERVER_PORT":           "8080",
	"ACCESS_TOKEN_MAX_AGE":  900,
	"REFRESH_TOKEN_MAX_AGE": 2592000,
	"LOG_LEVEL":             "info",
	"LOG_FORMAT":            "text",
}

// LoadConfig reads an optional .env file into the environment, then
// resolves every setting from the environment with defaults applied.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not load .env file, relying on environment variables", "err", err)
	}
	return fromViper(newViper()), nil
}

func newViper() *viper.Viper {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()
	return v
}

func fromViper(v *viper.Viper) *Config {
	accessTokenMaxAge := v.GetInt("ACCESS_TOKEN_MAX_AGE")
	if accessTokenMaxAge <= 0 {
		accessTokenMaxAge = 900
	}

	refreshTokenMaxAge := v.GetInt("REFRESH_TOKEN_MAX_AGE")
	if refreshTokenMaxAge <= 0 {
		refreshTokenMaxAge = 2592000
	}

	return &Config{
		DBDriver:   strings.ToLower(v.GetString("DB_DRIVER")),
		DBHost:     v.GetString("DB_HOST"),
		DBPort:     v.GetString("DB_PORT"),
		DBUser:     v.GetString("DB_USER"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBName:     v.GetString("DB_NAME"),
		DBSSLMode:  v.GetString("DB_SSLMODE"),

		ServerPort:  v.GetString("SERVER_PORT"),
		TLSCertFile: v.GetString("TLS_CERT_FILE"),
		TLSKeyFile:  v.GetString("TLS_KEY_FILE"),

		JWTSecret: v.GetString("JWT_SECRET"),

		AccessTokenMaxAge:  accessTokenMaxAge,
		RefreshTokenMaxAge: refreshTokenMaxAge,

		RedisURL: v.GetString("REDIS_URL"),

		R2AccountID:       v.GetString("R2_ACCOUNT_ID"),
		R2AccessKeyID:     v.GetString("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: v.GetString("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      v.GetString("R2_BUCKET_NAME"),
		R2PublicURL:       v.GetString("R2_PUBLIC_URL"),

		LogLevel:  strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFormat: strings.ToLower(v.GetString("LOG_FORMAT")),
	}
}

// Validate checks the settings the HTTP server cannot run without.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	return nil
}

// TLSEnabled reports whether both certificate and key are configured.
func (c *Config) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

// MediaEnabled reports whether object storage is fully configured.
func (c *Config) MediaEnabled() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" &&
		c.R2BucketName != "" && c.R2PublicURL != ""
}

// Logger builds the application logger from LOG_LEVEL and LOG_FORMAT.
func (c *Config) Logger() *slog.Logger {
	var level slog.Level
	switch c.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
