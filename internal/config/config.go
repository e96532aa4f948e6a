package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Environment          string  `mapstructure:"ENV"`
	DBDSN                string  `mapstructure:"DB_DSN"`
	HTTPAddr             string  `mapstructure:"HTTP_ADDR"`
	TelegramToken        string  `mapstructure:"TELEGRAM_TOKEN"`
	TelegramNotifyChatID int64   `mapstructure:"TELEGRAM_NOTIFY_CHAT_ID"`
	RedisAddr            string  `mapstructure:"REDIS_ADDR"`
	RedisPassword        string  `mapstructure:"REDIS_PASSWORD"`
	RedisChannel         string  `mapstructure:"REDIS_CHANNEL"`
	JWTSecret            string  `mapstructure:"JWT_SECRET"`
	Timezone             string  `mapstructure:"TIMEZONE"`
	ReserveMaxRetries    int     `mapstructure:"RESERVE_MAX_RETRIES"`
	NotifyBuffer         int     `mapstructure:"NOTIFY_BUFFER"`
	NotifyWorkers        int     `mapstructure:"NOTIFY_WORKERS"`
	RateLimitRPS         float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst       int     `mapstructure:"RATE_LIMIT_BURST"`

	location *time.Location
}

var defaults = map[string]any{
	"ENV":                     "development",
	"DB_DSN":                  "",
	"HTTP_ADDR":               ":8080",
	"TELEGRAM_TOKEN":          "",
	"TELEGRAM_NOTIFY_CHAT_ID": 0,
	"REDIS_ADDR":              "",
	"REDIS_PASSWORD":          "",
	"REDIS_CHANNEL":           "officehours.events",
	"JWT_SECRET":              "",
	"TIMEZONE":                "UTC",
	"RESERVE_MAX_RETRIES":     3,
	"NOTIFY_BUFFER":           256,
	"NOTIFY_WORKERS":          2,
	"RATE_LIMIT_RPS":          5.0,
	"RATE_LIMIT_BURST":        10,
}

// Load читает .env (если есть) и переменные окружения
func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	return FromEnv()
}

// FromEnv собирает конфиг из переменных окружения с дефолтами
func FromEnv() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("TIMEZONE %q: %w", c.Timezone, err)
	}
	c.location = loc

	if c.ReserveMaxRetries < 0 {
		return fmt.Errorf("RESERVE_MAX_RETRIES must not be negative")
	}
	if c.NotifyWorkers < 1 {
		return fmt.Errorf("NOTIFY_WORKERS must be at least 1")
	}
	if c.NotifyBuffer < 1 {
		return fmt.Errorf("NOTIFY_BUFFER must be at least 1")
	}
	if c.TelegramNotifyChatID != 0 && c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_NOTIFY_CHAT_ID requires TELEGRAM_TOKEN")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst < 1 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}

	return nil
}

// Location возвращает часовой пояс для границ дня
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// UsesPostgres сообщает, задан ли DB_DSN. Без него слоты хранятся в памяти процесса
func (c *Config) UsesPostgres() bool {
	return c.DBDSN != ""
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}
