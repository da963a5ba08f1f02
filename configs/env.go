package configs

import (
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

var loadOnce sync.Once

// env reads a variable after loading .env once. A missing .env file is fine
// in deployed environments where variables come from the process environment.
func env(key string) string {
	loadOnce.Do(func() {
		if err := godotenv.Load(); err != nil {
			log.Debug().Msg("no .env file found, using process environment")
		}
	})
	return os.Getenv(key)
}

func envOr(key, fallback string) string {
	if v := env(key); v != "" {
		return v
	}
	return fallback
}

func EnvMongoURI() string {
	return env("MONGOURI")
}

func EnvMongoDatabase() string {
	return envOr("MONGO_DATABASE", "savora")
}

func EnvPort() string {
	return envOr("PORT", "3000")
}

func EnvJwtSecret() string {
	return env("JWT_SECRET")
}

func EnvRazorpayKeyId() string {
	return env("RAZORPAY_KEY_ID")
}

func EnvRazorpayKeySecret() string {
	return env("RAZORPAY_KEY_SECRET")
}

func EnvRedisAddr() string {
	return envOr("REDIS_ADDR", "localhost:6379")
}

func EnvKafkaBroker() string {
	return env("KAFKA_BROKER")
}

func EnvKafkaOrderTopic() string {
	return envOr("KAFKA_ORDER_TOPIC", "savora.order-events")
}

func EnvSmtpHost() string {
	return env("SMTP_HOST")
}

func EnvSmtpPort() string {
	return envOr("SMTP_PORT", "587")
}

func EnvSmtpUser() string {
	return env("SMTP_USER")
}

func EnvSmtpPassword() string {
	return env("SMTP_PASSWORD")
}

func EnvSmtpFrom() string {
	return envOr("SMTP_FROM", "orders@savora.example")
}

func EnvChatCompletionURL() string {
	return env("CHAT_COMPLETION_URL")
}

func EnvChatCompletionKey() string {
	return env("CHAT_COMPLETION_KEY")
}
