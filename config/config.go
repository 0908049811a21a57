package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type LogConfig struct {
	Level  string `yaml:"level"`  // trace|debug|info|warn|error
	Format string `yaml:"format"` // json|console
}

type RedisConfig struct {
	URL      string        `yaml:"url"` // empty disables the invoice cache
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type StripeConfig struct {
	SecretKey     string `yaml:"secret_key"`
	WebhookSecret string `yaml:"webhook_secret"`
	ProductID     string `yaml:"product_id"`
}

type Config struct {
	Port          string       `yaml:"port"`
	DBURL         string       `yaml:"db_url"`
	JWTSecret     string       `yaml:"jwt_secret"`
	CORSOrigin    string       `yaml:"cors_origin"`
	GinMode       string       `yaml:"gin_mode"`
	DefaultLocale string       `yaml:"default_locale"`
	Log           LogConfig    `yaml:"log"`
	Redis         RedisConfig  `yaml:"redis"`
	Stripe        StripeConfig `yaml:"stripe"`
}

func defaults() Config {
	return Config{
		Port:          "8080",
		CORSOrigin:    "http://localhost:5173",
		GinMode:       "debug",
		DefaultLocale: "es",
		Log:           LogConfig{Level: "info", Format: "json"},
		Redis:         RedisConfig{TTL: 10 * time.Minute},
	}
}

// Load reads .env (if present), then an optional YAML file named by
// CONFIG_FILE, then environment variables. Later sources win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.DBURL = getEnv("DB_URL", cfg.DBURL)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.CORSOrigin = getEnv("CORS_ORIGIN", cfg.CORSOrigin)
	cfg.GinMode = getEnv("GIN_MODE", cfg.GinMode)
	cfg.DefaultLocale = getEnv("DEFAULT_LOCALE", cfg.DefaultLocale)

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)

	cfg.Redis.URL = getEnv("REDIS_URL", cfg.Redis.URL)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("REDIS_DB: %w", err)
		}
		cfg.Redis.DB = n
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("CACHE_TTL: %w", err)
		}
		cfg.Redis.TTL = d
	}
	if cfg.Redis.TTL <= 0 {
		cfg.Redis.TTL = 10 * time.Minute
	}

	cfg.Stripe.SecretKey = getEnv("STRIPE_SECRET_KEY", cfg.Stripe.SecretKey)
	cfg.Stripe.WebhookSecret = getEnv("STRIPE_WEBHOOK_SECRET", cfg.Stripe.WebhookSecret)
	cfg.Stripe.ProductID = getEnv("STRIPE_PRODUCT_ID", cfg.Stripe.ProductID)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.DBURL == "" {
		return errors.New("missing required setting: DB_URL")
	}
	if c.JWTSecret == "" {
		return errors.New("missing required setting: JWT_SECRET")
	}
	return nil
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}
