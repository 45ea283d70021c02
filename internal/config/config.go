package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Server    ServerConfig
	CORS      CORSConfig
	Log       LogConfig
	Kafka     KafkaConfig
	Mailer    MailerConfig
	Worker    WorkerConfig
	Dashboard DashboardConfig
}

// DatabaseConfig points at the hosted PostgreSQL store backing every table
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	AccessSecret       string
	RefreshSecret      string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

type ServerConfig struct {
	Port    string
	GinMode string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// KafkaConfig configures request event publishing. Empty Brokers disables it.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type MailerConfig struct {
	WebhookURL       string
	Sender           string
	ResetRedirectURL string
	ResetTokenTTL    time.Duration
}

type WorkerConfig struct {
	SnapshotInterval time.Duration
}

// DashboardConfig controls how long a cached view is served before it is
// reloaded and how long an idle user's views are kept
type DashboardConfig struct {
	ViewMaxAge    time.Duration
	ViewIdleTTL   time.Duration
	SweepInterval time.Duration
}

func LoadConfig() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	config := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "blood_bank"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
		},
		JWT: JWTConfig{
			AccessSecret:       getEnv("JWT_ACCESS_SECRET", "your-access-secret-key"),
			RefreshSecret:      getEnv("JWT_REFRESH_SECRET", "your-refresh-secret-key"),
			AccessTokenExpiry:  parseDuration(getEnv("ACCESS_TOKEN_EXPIRY", "15m"), 15*time.Minute),
			RefreshTokenExpiry: parseDuration(getEnv("REFRESH_TOKEN_EXPIRY", "168h"), 168*time.Hour),
		},
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			GinMode: getEnv("GIN_MODE", "debug"),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Kafka: KafkaConfig{
			Brokers: parseList(getEnv("KAFKA_BROKERS", "")),
			Topic:   getEnv("KAFKA_REQUEST_TOPIC", "blood-requests"),
		},
		Mailer: MailerConfig{
			WebhookURL:       getEnv("MAILER_WEBHOOK_URL", ""),
			Sender:           getEnv("MAILER_SENDER", "no-reply@bloodbank.local"),
			ResetRedirectURL: getEnv("RESET_REDIRECT_URL", "http://localhost:5173/reset-password"),
			ResetTokenTTL:    parseDuration(getEnv("RESET_TOKEN_TTL", "1h"), time.Hour),
		},
		Worker: WorkerConfig{
			SnapshotInterval: parseDuration(getEnv("INVENTORY_SNAPSHOT_INTERVAL", "1h"), time.Hour),
		},
		Dashboard: DashboardConfig{
			ViewMaxAge:    parseDuration(getEnv("DASHBOARD_VIEW_MAX_AGE", "30s"), 30*time.Second),
			ViewIdleTTL:   parseDuration(getEnv("DASHBOARD_VIEW_IDLE_TTL", "15m"), 15*time.Minute),
			SweepInterval: parseDuration(getEnv("DASHBOARD_SWEEP_INTERVAL", "1m"), time.Minute),
		},
	}

	return config
}

// DSN builds the PostgreSQL connection string for the gorm dialector
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		fmt.Printf("Warning: Invalid duration format '%s', using default\n", s)
		return fallback
	}
	return duration
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

// parseList splits a comma separated value, dropping empty entries
func parseList(s string) []string {
	items := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}
