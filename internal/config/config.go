package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Config содержит все конфигурационные параметры приложения
type Config struct {
	TTS         TTSConfig
	Playback    PlaybackConfig
	Database    DatabaseConfig
	App         AppConfig
	Maintenance MaintenanceConfig
}

// TTSConfig содержит настройки сервиса синтеза Zonos
type TTSConfig struct {
	BaseURL  string
	Contract string // speech, generate
	Timeout  time.Duration
}

// PlaybackConfig содержит настройки воспроизведения
type PlaybackConfig struct {
	Platform string
	TempDir  string
}

type DatabaseConfig struct {
	JournalEnabled bool
	Host           string
	Port           int
	User           string
	Password       string
	Name           string
	SSLMode        string
}

type AppConfig struct {
	Env         string
	LogLevel    string
	LogFile     string
	MetricsPort int
}

// MaintenanceConfig содержит настройки фоновой очистки
type MaintenanceConfig struct {
	SweepInterval    time.Duration
	TempMaxAge       time.Duration
	JournalRetention time.Duration
}

// Load загружает конфигурацию из переменных окружения и .env
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	// TTS
	cfg.TTS.BaseURL = getEnvDefault("TTS_API_URL", "http://localhost:8000")
	cfg.TTS.Contract = getEnvDefault("TTS_CONTRACT", "speech")
	cfg.TTS.Timeout = time.Duration(getEnvIntDefault("TTS_TIMEOUT_SECONDS", 0)) * time.Second

	// Playback
	cfg.Playback.Platform = getEnvDefault("PLAYBACK_PLATFORM", runtime.GOOS)
	cfg.Playback.TempDir = getEnvDefault("TTS_TEMP_DIR", os.TempDir())

	// Database
	cfg.Database.JournalEnabled = getEnvBoolDefault("JOURNAL_ENABLED", false)
	cfg.Database.Host = getEnvDefault("DB_HOST", "localhost")
	cfg.Database.Port = getEnvIntDefault("DB_PORT", 5432)
	cfg.Database.User = os.Getenv("DB_USER")
	cfg.Database.Password = os.Getenv("DB_PASSWORD")
	cfg.Database.Name = os.Getenv("DB_NAME")
	cfg.Database.SSLMode = getEnvDefault("DB_SSL_MODE", "disable")

	// App
	cfg.App.Env = getEnvDefault("APP_ENV", "development")
	cfg.App.LogLevel = getEnvDefault("LOG_LEVEL", "info")
	cfg.App.LogFile = getEnvDefault("LOG_FILE", "/tmp/zonos-tts-mcp.log")
	cfg.App.MetricsPort = getEnvIntDefault("METRICS_PORT", 0)

	// Maintenance
	cfg.Maintenance.SweepInterval = time.Duration(getEnvIntDefault("SWEEP_INTERVAL_MINUTES", 0)) * time.Minute
	cfg.Maintenance.TempMaxAge = time.Duration(getEnvIntDefault("TEMP_MAX_AGE_MINUTES", 60)) * time.Minute
	cfg.Maintenance.JournalRetention = time.Duration(getEnvIntDefault("JOURNAL_RETENTION_DAYS", 30)) * 24 * time.Hour

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("ошибка валидации конфигурации: %w", err)
	}

	return cfg, nil
}

func getEnvDefault(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getEnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// validateConfig проверяет корректность конфигурации
func validateConfig(config *Config) error {
	if config.TTS.BaseURL == "" {
		return fmt.Errorf("TTS_API_URL не установлен")
	}
	if !strings.HasPrefix(config.TTS.BaseURL, "http://") && !strings.HasPrefix(config.TTS.BaseURL, "https://") {
		return fmt.Errorf("TTS_API_URL должен начинаться с http:// или https://")
	}
	if config.TTS.Contract != "speech" && config.TTS.Contract != "generate" {
		return fmt.Errorf("поддерживаются только TTS_CONTRACT: speech, generate")
	}
	if config.TTS.Timeout < 0 {
		return fmt.Errorf("TTS_TIMEOUT_SECONDS не может быть отрицательным")
	}
	if config.Playback.TempDir == "" {
		return fmt.Errorf("TTS_TEMP_DIR не установлен")
	}
	if config.Database.JournalEnabled {
		if config.Database.Host == "" {
			return fmt.Errorf("DB_HOST не установлен")
		}
		if config.Database.User == "" {
			return fmt.Errorf("DB_USER не установлен")
		}
		if config.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD не установлен")
		}
		if config.Database.Name == "" {
			return fmt.Errorf("DB_NAME не установлен")
		}
	}

	return nil
}

// GetDSN возвращает строку подключения к базе данных
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// GetURL возвращает DSN в формате URL для database/sql драйвера
func (c *DatabaseConfig) GetURL() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

// IsDevelopment проверяет, запущено ли приложение в режиме разработки
func (c *AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction проверяет, запущено ли приложение в продакшн режиме
func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}

// GetLogLevel возвращает уровень логирования в формате zap
func (c *AppConfig) GetLogLevel() zap.AtomicLevel {
	switch c.LogLevel {
	case "debug":
		return zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		return zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		return zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		return zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		return zap.NewAtomicLevelAt(zap.InfoLevel)
	}
}
