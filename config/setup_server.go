package config

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	envDatabaseDSN = "DAM_DATABASE_DSN"
	envJWTSecret   = "DAM_JWT_SECRET"
	envRedisAddr   = "DAM_REDIS_ADDR"
	envAdminEmails = "DAM_ADMIN_EMAILS"
)

type AppConfig struct {
	DatabaseConfig DatabaseConfig `yaml:"databaseConfig"`
	RedisConfig    RedisConfig    `yaml:"redisConfig"`
	Server         ServerConfig   `yaml:"server"`
	S3Config       S3Config       `yaml:"s3Config"`
	Storage        StorageConfig  `yaml:"storage"`
	JWT            JWTConfig      `yaml:"jwt"`
	Admin          AdminConfig    `yaml:"admin"`
	Pin            PinConfig      `yaml:"pin"`
	TTL            TTL            `yaml:"TTL"`
	Logger         LoggerConfig   `yaml:"logger"`
}

// LoadConfig : читает yaml, затем подмешивает переменные окружения (и .env, если он есть)
func LoadConfig(path string) (*AppConfig, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return nil, err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("ошибка чтения .env: %w", err)
	}
	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *AppConfig) applyEnv() {
	if v := os.Getenv(envDatabaseDSN); v != "" {
		c.DatabaseConfig.DSN = v
	}
	if v := os.Getenv(envJWTSecret); v != "" {
		c.JWT.SecretKey = v
	}
	if v := os.Getenv(envRedisAddr); v != "" {
		c.RedisConfig.Addr = v
	}
	if v := os.Getenv(envAdminEmails); v != "" {
		c.Admin.Emails = nil
		for _, email := range strings.Split(v, ",") {
			if email = strings.TrimSpace(email); email != "" {
				c.Admin.Emails = append(c.Admin.Emails, email)
			}
		}
	}
}

func (c *AppConfig) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.PublicURL == "" {
		c.Server.PublicURL = "http://localhost:8080"
	}
	if c.Server.MaxUploadSize <= 0 {
		c.Server.MaxUploadSize = 100 << 20
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "disk"
	}
	if c.Storage.Root == "" {
		c.Storage.Root = "uploads"
	}
	if c.JWT.AccessTokenTTL == "" {
		c.JWT.AccessTokenTTL = "15m"
	}
	if c.JWT.RefreshTokenTTL == "" {
		c.JWT.RefreshTokenTTL = "720h"
	}
	if c.Pin.MinLength <= 0 {
		c.Pin.MinLength = 4
	}
	if c.Pin.MaxLength <= 0 {
		c.Pin.MaxLength = 6
	}
	if c.Pin.MaxAttempts <= 0 {
		c.Pin.MaxAttempts = 5
	}
	if c.Pin.Lockout == "" {
		c.Pin.Lockout = "15m"
	}
	if c.TTL.PresignedURL <= 0 {
		c.TTL.PresignedURL = 900
	}
	if c.Logger.Mode == "" {
		c.Logger.Mode = "development"
	}
}

// Validate : проверяет обязательные параметры конфигурации
func (c *AppConfig) Validate() error {
	if c.DatabaseConfig.DSN == "" {
		return errors.New("не задан DSN базы данных")
	}
	if c.JWT.SecretKey == "" {
		return errors.New("не задан секрет JWT")
	}
	if c.Pin.MinLength > c.Pin.MaxLength {
		return fmt.Errorf("pin.min_length (%d) больше pin.max_length (%d)", c.Pin.MinLength, c.Pin.MaxLength)
	}
	if _, err := time.ParseDuration(c.Pin.Lockout); err != nil {
		return fmt.Errorf("неверный формат pin.lockout: %w", err)
	}
	switch c.Storage.Driver {
	case "disk", "s3":
	default:
		return fmt.Errorf("неизвестный драйвер хранилища: %s", c.Storage.Driver)
	}
	return nil
}

// LockoutDuration : окно блокировки после исчерпания попыток ввода PIN
func (c *AppConfig) LockoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Pin.Lockout)
	if err != nil {
		return 15 * time.Minute
	}
	return d
}

func (c *AppConfig) PresignedURLTTL() time.Duration {
	return time.Duration(c.TTL.PresignedURL) * time.Second
}

func SetupServer(serverAddress string) (*http.Server, *chi.Mux) {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)

	server := &http.Server{
		Addr:              serverAddress,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return server, router
}

func SetupDatabase(dsn string) (*Database, error) {
	return NewDatabaseConnection("postgres", dsn)
}

func SetupRedis(cfg *RedisConfig) (*RedisClient, error) {
	return NewRedisClient(cfg)
}
