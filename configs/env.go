package configs

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	Env            string
	ServiceVersion string

	MongoURI string
	MongoDB  string

	JWTSecret string

	RazorpayKeyID     string
	RazorpayKeySecret string

	RedisAddr     string
	OrderCacheTTL time.Duration

	KafkaBrokers    []string
	KafkaOrderTopic string

	OTLPEndpoint string
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	// a missing .env is fine in containers, variables come from the environment
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnv("PORT", "3000"),
		Env:               getEnv("APP_ENV", "production"),
		ServiceVersion:    getEnv("SERVICE_VERSION", "0.1.0"),
		MongoURI:          os.Getenv("MONGOURI"),
		MongoDB:           getEnv("MONGO_DB", "golangApi"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		RazorpayKeyID:     os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		OrderCacheTTL:     5 * time.Minute,
		KafkaOrderTopic:   getEnv("KAFKA_ORDER_TOPIC", "order.events"),
		OTLPEndpoint:      os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	if ttl := os.Getenv("ORDER_CACHE_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return nil, errors.New("ORDER_CACHE_TTL must be a duration, e.g. 5m")
		}
		cfg.OrderCacheTTL = d
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	if cfg.MongoURI == "" {
		return nil, errors.New("MONGOURI environment variable is required")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET environment variable is required")
	}

	return cfg, nil
}

func (c *Config) Development() bool {
	return c.Env == "development"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
