package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"shop-service/pkg/database"

	"go.uber.org/zap"
)

type Config struct {
	Port     string
	DB       DB
	Redis    Redis
	Kafka    Kafka
	Stripe   Stripe
	Auth     Auth
	Checkout Checkout
	Sweep    Sweep
}

type DB struct {
	database.Config
}

type Redis struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	// TTL ключей дедупликации вебхуков
	EventTTL time.Duration
}

type Kafka struct {
	Enabled bool
	Brokers []string
	Topic   string
}

type Stripe struct {
	SecretKey     string
	WebhookSecret string
	Currency      string
}

type Auth struct {
	JWTSecret string
}

type Checkout struct {
	// Время жизни резервации, продлевается при каждом touch
	ReservationTTL time.Duration
	// Срок жизни checkout-сессии у платёжного провайдера (независим от TTL резервации)
	SessionExpiry time.Duration
	// Максимальная длительность одной транзакции
	TxTimeout time.Duration
}

type Sweep struct {
	Interval time.Duration
}

func Load(log *zap.Logger) *Config {
	return &Config{
		Port: getEnv("APP_PORT", log),
		DB: DB{
			Config: database.Config{
				Host:     getEnv("DB_HOST", log),
				Port:     getEnv("DB_PORT", log),
				User:     getEnv("DB_USER", log),
				Password: getEnv("DB_PASSWORD", log),
				Name:     getEnv("DB_NAME", log),
				SSLMode:  getEnv("DB_SSLMODE", log),
			},
		},
		Redis: Redis{
			Enabled:  getEnvDefault("REDIS_ENABLED", "false") == "true",
			Addr:     getEnvDefault("REDIS_ADDR", "localhost:6379"),
			Password: getEnvDefault("REDIS_PASSWORD", ""),
			DB:       atoiDefault(getEnvDefault("REDIS_DB", "0"), 0),
			EventTTL: durationDefault(getEnvDefault("REDIS_EVENT_TTL", "24h"), 24*time.Hour),
		},
		Kafka: Kafka{
			Enabled: getEnvDefault("KAFKA_ENABLED", "false") == "true",
			Brokers: strings.Split(getEnvDefault("KAFKA_BROKERS", "localhost:9092"), ","),
			Topic:   getEnvDefault("KAFKA_TOPIC", "shop.emails"),
		},
		Stripe: Stripe{
			SecretKey:     getEnv("STRIPE_SECRET_KEY", log),
			WebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", log),
			Currency:      getEnvDefault("STRIPE_CURRENCY", "usd"),
		},
		Auth: Auth{
			JWTSecret: getEnv("JWT_SECRET", log),
		},
		Checkout: Checkout{
			ReservationTTL: durationDefault(getEnvDefault("RESERVATION_TTL", "5m"), 5*time.Minute),
			SessionExpiry:  durationDefault(getEnvDefault("SESSION_EXPIRY", "3h"), 3*time.Hour),
			TxTimeout:      durationDefault(getEnvDefault("CHECKOUT_TX_TIMEOUT", "5s"), 5*time.Second),
		},
		Sweep: Sweep{
			Interval: durationDefault(getEnvDefault("SWEEP_INTERVAL", "30m"), 30*time.Minute),
		},
	}
}

func getEnv(key string, log *zap.Logger) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	log.Error("Обязательная переменная окружения не установлена", zap.String("key", key))
	panic("missing required environment variable: " + key)
}

func getEnvDefault(key, def string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return def
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func durationDefault(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}
