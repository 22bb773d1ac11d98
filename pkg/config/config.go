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

// Backend endpoints. Which one is used follows ENV and is fixed for the lifetime of the process.
const (
	DevelopmentBackendURL = "http://localhost:3001/"
	ProductionBackendURL  = "https://schedule-backend-production.up.railway.app/"
	DefaultScheduleAPIURL = "https://schedule.kpi.ua/api/"
)

// Session storage backends.
const (
	SessionBackendSQLite   = "sqlite"
	SessionBackendPostgres = "postgres"
	SessionBackendRedis    = "redis"
	SessionBackendMemory   = "memory"
)

type Config struct {
	Env  string
	Port int

	ScheduleAPIURL string

	Session  SessionConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Log      LogConfig
	CORS     CORSConfig
	Export   ExportConfig
	Bridge   BridgeConfig
}

// SessionConfig selects where the session credentials are persisted.
type SessionConfig struct {
	Backend    string
	SQLitePath string
	RedisKey   string
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

// CacheConfig governs the reference-data cache for groups and teachers.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// ExportConfig controls where rendered schedule grids are written.
type ExportConfig struct {
	Dir       string
	Retention time.Duration
	// FontPath points at a TTF font with Cyrillic glyphs for PDF output. Optional.
	FontPath string
}

// BridgeConfig tunes the local presentation bridge.
type BridgeConfig struct {
	WaitTimeout time.Duration
}

// BackendURL returns the backend base URL for the configured environment.
func (c *Config) BackendURL() string {
	if c != nil && c.Env == EnvDevelopment {
		return DevelopmentBackendURL
	}
	return ProductionBackendURL
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
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.ScheduleAPIURL = v.GetString("SCHEDULE_API_URL")

	cfg.Session = SessionConfig{
		Backend:    strings.ToLower(v.GetString("SESSION_BACKEND")),
		SQLitePath: v.GetString("SESSION_SQLITE_PATH"),
		RedisKey:   v.GetString("SESSION_REDIS_KEY"),
	}

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

	cfg.Cache = CacheConfig{
		Enabled: v.GetBool("CACHE_ENABLED"),
		TTL:     parseDuration(v.GetString("CACHE_TTL"), time.Hour),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Export = ExportConfig{
		Dir:       v.GetString("EXPORT_DIR"),
		Retention: parseDuration(v.GetString("EXPORT_RETENTION"), 24*time.Hour),
		FontPath:  v.GetString("EXPORT_FONT_PATH"),
	}

	cfg.Bridge = BridgeConfig{
		WaitTimeout: parseDuration(v.GetString("BRIDGE_WAIT_TIMEOUT"), 15*time.Second),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8787)
	v.SetDefault("SCHEDULE_API_URL", DefaultScheduleAPIURL)

	v.SetDefault("SESSION_BACKEND", SessionBackendSQLite)
	v.SetDefault("SESSION_SQLITE_PATH", "./schedule-sync.db")
	v.SetDefault("SESSION_REDIS_KEY", "schedule-sync:session")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "schedule_sync")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 4)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("CACHE_TTL", "1h")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("ALLOWED_ORIGINS", "")

	v.SetDefault("EXPORT_DIR", "./exports")
	v.SetDefault("EXPORT_RETENTION", "24h")
	v.SetDefault("EXPORT_FONT_PATH", "")

	v.SetDefault("BRIDGE_WAIT_TIMEOUT", "15s")
}

func isMissingFile(err error) bool {
	return strings.Contains(err.Error(), "no such file or directory") ||
		strings.Contains(err.Error(), "cannot find the file")
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
