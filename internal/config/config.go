package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

// Config holds the process-wide settings. It is loaded once at startup from
// the environment and treated as immutable afterwards.
type Config struct {
	Port int

	MongoURI  string
	MongoName string

	RedisAddr     string
	RedisPassword string
	CacheTTL      time.Duration

	JWTSecret      string
	AccessTokenTTL time.Duration

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string

	OTPTTL        time.Duration
	OTPPurgeGrace time.Duration
	OTPLookback   time.Duration
	OTPSweepEvery time.Duration

	GoogleClientID     string
	GoogleClientSecret string
	GoogleCallbackURL  string
	SessionKey         string

	AllowedOrigins []string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:           getInt("PORT", 8080),
		MongoURI:       os.Getenv("MONGO_URI"),
		MongoName:      getString("MONGO_DB", "playapp"),
		RedisAddr:      getString("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		CacheTTL:       getDuration("CACHE_TTL", 5*time.Minute),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		AccessTokenTTL: getDuration("ACCESS_TOKEN_TTL", 24*time.Hour),
		SMTPHost:       getString("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:       getInt("SMTP_PORT", 587),
		SMTPUsername:   os.Getenv("SMTP_USERNAME"),
		SMTPPassword:   os.Getenv("SMTP_PASSWORD"),

		OTPTTL:        getDuration("OTP_TTL", 120*time.Second),
		OTPPurgeGrace: getDuration("OTP_PURGE_GRACE", 30*time.Minute),
		OTPLookback:   getDuration("OTP_LOOKBACK", 3550*24*time.Hour),
		OTPSweepEvery: getDuration("OTP_SWEEP_EVERY", time.Minute),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleCallbackURL:  getString("GOOGLE_CALLBACK_URL", "http://localhost:8080/api/auth/google/callback"),
		SessionKey:         os.Getenv("SESSION_KEY"),
	}

	var missing []string
	if cfg.MongoURI == "" {
		missing = append(missing, "MONGO_URI")
	}
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	if allowed := os.Getenv("ALLOWED_ORIGINS"); allowed != "" {
		for _, origin := range strings.Split(allowed, ",") {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, strings.TrimSpace(origin))
		}
	}

	return cfg, nil
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
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
