package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	BotToken      string `validate:"required"`
	DatabaseURL   string `validate:"required"`
	AdminID       int64
	AdminUsername string
	OpsAddr       string `validate:"required"`

	// Цены в Stars по планам
	PriceWeek    int `validate:"min=1"`
	PriceMonth   int `validate:"min=1"`
	PriceYear    int `validate:"min=1"`
	PriceForever int `validate:"min=1"`

	GiftDiscountPct int `validate:"min=0,max=100"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg := &Config{
		BotToken:        os.Getenv("BOT_TOKEN"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		AdminID:         envInt64("ADMIN_ID", 0),
		AdminUsername:   os.Getenv("ADMIN_USERNAME"),
		OpsAddr:         envStr("OPS_ADDR", ":8080"),
		PriceWeek:       envInt("PRICE_WEEK", 150),
		PriceMonth:      envInt("PRICE_MONTH", 450),
		PriceYear:       envInt("PRICE_YEAR", 3500),
		PriceForever:    envInt("PRICE_FOREVER", 9000),
		GiftDiscountPct: envInt("GIFT_DISCOUNT_PCT", 25),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Warning: %s is not a number, using default %d", key, def)
		return def
	}
	return n
}

func envInt64(key string, def int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Printf("Warning: %s is not a number, using default %d", key, def)
		return def
	}
	return n
}
