package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DB_HOST", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("ACCESS_TOKEN_EXPIRY", "")

	cfg := LoadConfig()

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiry)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, time.Hour, cfg.Worker.SnapshotInterval)
	assert.Equal(t, 30*time.Second, cfg.Dashboard.ViewMaxAge)
	assert.Equal(t, 15*time.Minute, cfg.Dashboard.ViewIdleTTL)
	assert.Equal(t, time.Minute, cfg.Dashboard.SweepInterval)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("DB_HOST", "db.example.com")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com")
	t.Setenv("REDIS_DB", "3")

	cfg := LoadConfig()

	assert.Equal(t, "db.example.com", cfg.Database.Host)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, []string{"https://a.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 3, cfg.Redis.DB)
}

func TestParseDuration_InvalidFallsBack(t *testing.T) {
	assert.Equal(t, 5*time.Second, parseDuration("soon", 5*time.Second))
	assert.Equal(t, 2*time.Minute, parseDuration("2m", 5*time.Second))
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "h", Port: "5432", User: "u", Password: "p", Database: "bb", SSLMode: "require"}
	assert.Equal(t, "host=h port=5432 user=u password=p dbname=bb sslmode=require TimeZone=UTC", d.DSN())
}
