package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultMaxProductQuantity applies when MAX_PRODUCT_QUANTITY is missing or unusable.
const DefaultMaxProductQuantity = 10

type Config struct {
	Server   ServerConfig
	Backend  BackendConfig
	Locale   LocaleConfig
	Observ   ObservabilityConfig
	Business BusinessConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type BackendConfig struct {
	ProductAPIURL string
	OrderAPIURL   string
	Timeout       time.Duration
}

type LocaleConfig struct {
	Default  string
	Fallback string
}

type ObservabilityConfig struct {
	TracingEnabled bool
	JaegerEndpoint string
}

type BusinessConfig struct {
	MaxProductQuantity int
}

func Load() *Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the config from the process environment without reading .env files.
func FromEnv() *Config {
	timeoutSeconds, err := strconv.Atoi(getEnv("HTTP_CLIENT_TIMEOUT_SECONDS", "15"))
	if err != nil || timeoutSeconds <= 0 {
		timeoutSeconds = 15
	}
	tracing, _ := strconv.ParseBool(getEnv("TRACING_ENABLED", "false"))

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("ENV", "development"),
		},
		Backend: BackendConfig{
			ProductAPIURL: getEnv("PRODUCT_API_URL", "http://localhost:3000/categories/api/Categories"),
			OrderAPIURL:   strings.TrimRight(getEnv("ORDER_API_URL", "http://localhost:3000/orders"), "/"),
			Timeout:       time.Duration(timeoutSeconds) * time.Second,
		},
		Locale: LocaleConfig{
			Default:  getEnv("LOCALE", "he"),
			Fallback: getEnv("FALLBACK_LOCALE", "en"),
		},
		Observ: ObservabilityConfig{
			TracingEnabled: tracing,
			JaegerEndpoint: getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
		},
		Business: BusinessConfig{
			MaxProductQuantity: parseMaxQuantity(os.Getenv("MAX_PRODUCT_QUANTITY")),
		},
	}

	log.Printf("Config loaded: env=%s, port=%s, max_quantity=%d",
		cfg.Server.Env, cfg.Server.Port, cfg.Business.MaxProductQuantity)
	return cfg
}

func parseMaxQuantity(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return DefaultMaxProductQuantity
	}
	return n
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
