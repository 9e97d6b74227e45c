package config

import (
	"os"
	"time"
)

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicURL       string
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
}

type ImageGenConfig struct {
	BaseURL string
	Timeout time.Duration
}

type Config struct {
	Port         string
	AllowOrigins string
	FrontendURL  string
	R2           R2Config
	Stripe       StripeConfig
	ImageGen     ImageGenConfig
	// Checkout oturumlarının ödeme bekleme tavanı
	CheckoutTTL time.Duration
}

func LoadConfig() *Config {
	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		AllowOrigins: getEnv("ALLOW_ORIGINS", "http://localhost:5173"),
		FrontendURL:  getEnv("FRONTEND_URL", "http://localhost:5173"),
		CheckoutTTL:  getDuration("CHECKOUT_SESSION_TTL", 10*time.Minute),
	}

	cfg.R2.AccountID = os.Getenv("R2_ACCOUNT_ID")
	cfg.R2.AccessKeyID = os.Getenv("R2_ACCESS_KEY_ID")
	cfg.R2.SecretAccessKey = os.Getenv("R2_SECRET_ACCESS_KEY")
	cfg.R2.Bucket = os.Getenv("R2_BUCKET")
	cfg.R2.PublicURL = os.Getenv("R2_PUBLIC_URL")

	cfg.Stripe.SecretKey = os.Getenv("STRIPE_SECRET_KEY")
	cfg.Stripe.WebhookSecret = os.Getenv("STRIPE_WEBHOOK_SECRET")

	cfg.ImageGen.BaseURL = getEnv("IMAGEGEN_BASE_URL", "https://image.pollinations.ai")
	cfg.ImageGen.Timeout = getDuration("IMAGEGEN_TIMEOUT", 60*time.Second)

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
