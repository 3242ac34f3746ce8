package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Provider ProviderConfig
}

type ServerConfig struct {
	Port             string
	Env              string
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	EnableTestRoutes bool
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration
	Issuer string
}

// ProviderConfig holds upstream processor credentials. An empty SecretKey
// switches the server to the in-process stub gateway.
type ProviderConfig struct {
	BaseURL   string
	SecretKey string
	ReturnURL string
	Timeout   time.Duration
}

func Load() *Config {
	_ = godotenv.Load()

	env := getenv("APP_ENV", "development")
	return &Config{
		Server: ServerConfig{
			Port:             getenv("PORT", "3000"),
			Env:              env,
			ReadTimeout:      10 * time.Second,
			WriteTimeout:     10 * time.Second,
			EnableTestRoutes: getenvBool("ENABLE_TEST_ROUTES", env == "development"),
		},
		Database: DatabaseConfig{
			DSN:             getenv("DATABASE_DSN", "paybridge:paybridge@tcp(localhost:3306)/paybridge?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			Secret: getenv("JWT_SECRET", "change-me-in-production"),
			Expiry: getenvDuration("JWT_EXPIRES_IN", 168*time.Hour),
			Issuer: "paybridge",
		},
		Provider: ProviderConfig{
			BaseURL:   getenv("PROVIDER_BASE_URL", "https://api.stripe.com"),
			SecretKey: os.Getenv("PROVIDER_SECRET_KEY"),
			ReturnURL: getenv("PAYMENT_RETURN_URL", "http://localhost:3000/payment/return"),
			Timeout:   30 * time.Second,
		},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
