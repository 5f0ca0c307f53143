package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// AMQPConfig describes the RabbitMQ topology used for email jobs.
type AMQPConfig struct {
	URL        string
	Exchange   string
	Queue      string
	RoutingKey string
	Workers    int
}

// SMTPConfig points at the mail relay. An empty Host selects the log-only sender.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// MailConfig holds values rendered into outgoing emails.
type MailConfig struct {
	From        string
	AppName     string
	AppURL      string
	AdminEmails []string
}

// Config aggregates application-wide configuration values.
type Config struct {
	Env             string
	Port            string
	DatabaseURL     string
	DBMaxConns      int32
	JWTSecret       string
	TokenTTL        time.Duration
	RefreshTokenTTL time.Duration
	RedisURL        string
	AMQP            AMQPConfig
	SMTP            SMTPConfig
	Mail            MailConfig
	CORSOrigins     []string
	RateLimitAuth   RateLimitConfig
	PhoneRegion     string
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Env:             getEnv("APP_ENV", "development"),
		Port:            getEnv("PORT", "8080"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		DBMaxConns:      int32(parseInt(getEnv("DB_MAX_CONNS", "10"), 10)),
		JWTSecret:       getEnv("JWT_SECRET", "dev-secret"),
		TokenTTL:        parseDuration(getEnv("JWT_TTL", "24h"), 24*time.Hour),
		RefreshTokenTTL: parseDuration(getEnv("JWT_REFRESH_TTL", "168h"), 7*24*time.Hour),
		RedisURL:        os.Getenv("REDIS_URL"),
		AMQP: AMQPConfig{
			URL:        os.Getenv("AMQP_URL"),
			Exchange:   getEnv("AMQP_EXCHANGE", "gdpr.mail"),
			Queue:      getEnv("AMQP_QUEUE", "gdpr.mail.send"),
			RoutingKey: getEnv("AMQP_ROUTING_KEY", "mail.send"),
			Workers:    parseInt(getEnv("MAIL_WORKERS", "4"), 4),
		},
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     parseInt(getEnv("SMTP_PORT", "587"), 587),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
		},
		Mail: MailConfig{
			From:        getEnv("MAIL_FROM", "noreply@gdprapp.com"),
			AppName:     getEnv("APP_NAME", "GDPR Application"),
			AppURL:      strings.TrimRight(getEnv("APP_URL", "http://localhost:4200"), "/"),
			AdminEmails: splitList(getEnv("ADMIN_EMAILS", "admin@gdprapp.com")),
		},
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:4200")),
		PhoneRegion: strings.ToUpper(getEnv("PHONE_REGION", "BE")),
	}

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_AUTH", "10/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_AUTH value: %w", err)
	}
	cfg.RateLimitAuth = rl

	return cfg, nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseDuration(input string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseInt(input string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func splitList(input string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(input, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
