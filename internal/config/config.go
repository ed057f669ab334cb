package config

import (
	"log"
	"os"
	"strconv"
)

type Config struct {
	Port            string
	StoreDSN        string
	LogFile         string
	TemplatesDir    string
	RabbitMQURL     string
	RabbitMQQueue   string
	ChannelPoolSize int
	SeedCatalog     bool
}

func Load() Config {
	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		StoreDSN:        getEnv("STORE_DSN", "storefront.db"), // sqlite file in project root
		LogFile:         getEnv("LOG_FILE", "./storefront.log"),
		TemplatesDir:    getEnv("TEMPLATES_DIR", "./web/templates"),
		RabbitMQURL:     os.Getenv("RABBITMQ_URL"), // empty disables event publishing
		RabbitMQQueue:   getEnv("RABBITMQ_QUEUE", "order_events"),
		ChannelPoolSize: getEnvAsInt("CHANNEL_POOL_SIZE", 4),
		SeedCatalog:     getEnvAsBool("SEED_CATALOG", true),
	}
	log.Printf("[config] PORT=%s STORE_DSN=%s LOG_FILE=%s TEMPLATES_DIR=%s RABBITMQ_QUEUE=%s SEED_CATALOG=%t",
		cfg.Port, cfg.StoreDSN, cfg.LogFile, cfg.TemplatesDir, cfg.RabbitMQQueue, cfg.SeedCatalog)
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvAsInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func getEnvAsBool(key string, def bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}
