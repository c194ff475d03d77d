package app

import (
	"errors"
	"os"
	"strconv"
)

type Config struct {
	Env  string
	Port string

	DBDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AccessTokenSecret  string
	RefreshTokenSecret string

	RazorpayKeyID     string
	RazorpayKeySecret string

	ClientURL string

	SMTPAddr string
	SMTPFrom string
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func LoadConfig() Config {
	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}
	return Config{
		Env:                getEnv("APP_ENV", "dev"),
		Port:               getEnv("APP_PORT", "8080"),
		DBDSN:              os.Getenv("DB_DSN"),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:            redisDB,
		AccessTokenSecret:  os.Getenv("ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret: os.Getenv("REFRESH_TOKEN_SECRET"),
		RazorpayKeyID:      os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret:  os.Getenv("RAZORPAY_KEY_SECRET"),
		ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
		SMTPAddr:           getEnv("SMTP_ADDR", "localhost:25"),
		SMTPFrom:           getEnv("SMTP_FROM", "orders@localhost"),
	}
}

// Validate refuses to start with any signing secret missing. An empty
// HMAC secret makes every payment callback forgeable, so this is a hard
// startup failure, never a silent fallback.
func (c Config) Validate() error {
	if c.DBDSN == "" {
		return errors.New("config: DB_DSN is required")
	}
	if c.AccessTokenSecret == "" {
		return errors.New("config: ACCESS_TOKEN_SECRET is required")
	}
	if c.RefreshTokenSecret == "" {
		return errors.New("config: REFRESH_TOKEN_SECRET is required")
	}
	if c.RazorpayKeyID == "" {
		return errors.New("config: RAZORPAY_KEY_ID is required")
	}
	if c.RazorpayKeySecret == "" {
		return errors.New("config: RAZORPAY_KEY_SECRET is required")
	}
	return nil
}
