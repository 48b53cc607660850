package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI      string
	MongoDB       string
	MongoUser     string
	MongoPassword string

	RedisAddr     string
	RedisPassword string

	WhatsAppToken         string
	WhatsAppPhoneNumberID string
	WhatsAppAPIVersion    string
	WebhookVerifyToken    string

	PaymentServiceURL string
	InternalSecret    string

	APIPort     string
	WebhookPort string
}

func LoadConfig() (*Config, error) {
	// .env is optional outside local development
	_ = godotenv.Load()

	cfg := &Config{
		MongoURI:              getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:               getEnv("MONGO_DB", "nextalk_desk"),
		MongoUser:             os.Getenv("MONGO_USER"),
		MongoPassword:         os.Getenv("MONGO_PASSWORD"),
		RedisAddr:             getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:         os.Getenv("REDIS_PASSWORD"),
		WhatsAppToken:         os.Getenv("WHATSAPP_ACCESS_TOKEN"),
		WhatsAppPhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
		WhatsAppAPIVersion:    getEnv("WHATSAPP_API_VERSION", "v24.0"),
		WebhookVerifyToken:    getEnv("WEBHOOK_VERIFY_TOKEN", "nextalk_webhook_2024"),
		PaymentServiceURL:     os.Getenv("PAYMENT_SERVICE_URL"),
		InternalSecret:        os.Getenv("INTERNAL_SERVICE_SECRET"),
		APIPort:               getEnv("API_PORT", "4000"),
		WebhookPort:           getEnv("WEBHOOK_PORT", "3000"),
	}

	return cfg, nil
}

// BuildMongoURI injects credentials into the URI when they are configured
// separately, URL-escaping both parts.
func (c *Config) BuildMongoURI() string {
	if c.MongoUser == "" || c.MongoPassword == "" {
		return c.MongoURI
	}
	rest := strings.TrimPrefix(c.MongoURI, "mongodb://")
	return fmt.Sprintf("mongodb://%s:%s@%s",
		url.QueryEscape(c.MongoUser), url.QueryEscape(c.MongoPassword), rest)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
