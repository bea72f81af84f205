package config

import (
	"errors"
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
	Env       string
	Port      int
	APIPrefix string

	Database   DatabaseConfig
	Redis      RedisConfig
	Auth       AuthConfig
	CORS       CORSConfig
	Log        LogConfig
	Attraction AttractionConfig
	Reports    ReportsConfig
	Realtime   RealtimeConfig
	Session    SessionConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// AuthConfig covers validation of tokens minted by the external identity provider.
type AuthConfig struct {
	Secret   string
	Issuer   string
	Audience []string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// AttractionConfig carries the ride-domain policy knobs.
type AttractionConfig struct {
	// CautionVehicle is always flagged regardless of daily history.
	CautionVehicle int
	// FallbackMonthEnd bounds the early-year window (1-based, inclusive) that
	// defaults to the unlimited program when no schedule exists for the year.
	FallbackMonthEnd int
}

// ReportsConfig governs the shared board cache and republish workers.
type ReportsConfig struct {
	CacheTTL          time.Duration
	WorkerConcurrency int
	WorkerRetries     int
}

// RealtimeConfig controls the pub/sub change feed.
type RealtimeConfig struct {
	ChannelPrefix string
}

// SessionConfig controls draft persistence.
type SessionConfig struct {
	TTL time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Auth = AuthConfig{
		Secret:   v.GetString("AUTH_TOKEN_SECRET"),
		Issuer:   v.GetString("AUTH_TOKEN_ISSUER"),
		Audience: splitAndTrim(v.GetString("AUTH_TOKEN_AUDIENCE")),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Attraction = AttractionConfig{
		CautionVehicle:   v.GetInt("ATTRACTION_CAUTION_VEHICLE"),
		FallbackMonthEnd: v.GetInt("ATTRACTION_FALLBACK_MONTH_END"),
	}

	cfg.Reports = ReportsConfig{
		CacheTTL:          parseDuration(v.GetString("REPORTS_CACHE_TTL"), 2*time.Minute),
		WorkerConcurrency: v.GetInt("REPORTS_WORKER_CONCURRENCY"),
		WorkerRetries:     v.GetInt("REPORTS_WORKER_RETRIES"),
	}

	cfg.Realtime = RealtimeConfig{
		ChannelPrefix: v.GetString("REALTIME_CHANNEL_PREFIX"),
	}

	cfg.Session = SessionConfig{
		TTL: parseDuration(v.GetString("SESSION_TTL"), 48*time.Hour),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "visit_log")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("AUTH_TOKEN_SECRET", "dev_secret")
	v.SetDefault("AUTH_TOKEN_ISSUER", "")
	v.SetDefault("AUTH_TOKEN_AUDIENCE", "")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ATTRACTION_CAUTION_VEHICLE", 7)
	v.SetDefault("ATTRACTION_FALLBACK_MONTH_END", 4)

	v.SetDefault("REPORTS_CACHE_TTL", "2m")
	v.SetDefault("REPORTS_WORKER_CONCURRENCY", 1)
	v.SetDefault("REPORTS_WORKER_RETRIES", 3)

	v.SetDefault("REALTIME_CHANNEL_PREFIX", "logs")

	v.SetDefault("SESSION_TTL", "48h")
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

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
