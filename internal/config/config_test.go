package config

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	vars := map[string]string{
		"BACKOFFICE_PRIMARY__ENV":                   "test",
		"BACKOFFICE_SERVER__PORT":                   "8080",
		"BACKOFFICE_SERVER__READ_TIMEOUT":           "10s",
		"BACKOFFICE_SERVER__WRITE_TIMEOUT":          "10s",
		"BACKOFFICE_SERVER__IDLE_TIMEOUT":           "60s",
		"BACKOFFICE_DATABASE__HOST":                 "localhost",
		"BACKOFFICE_DATABASE__PORT":                 "5432",
		"BACKOFFICE_DATABASE__USER":                 "gym",
		"BACKOFFICE_DATABASE__PASSWORD":             "secret",
		"BACKOFFICE_DATABASE__NAME":                 "backoffice",
		"BACKOFFICE_DATABASE__SSL_MODE":             "disable",
		"BACKOFFICE_DATABASE__MAX_OPEN_CONNS":       "10",
		"BACKOFFICE_DATABASE__MAX_IDLE_CONNS":       "2",
		"BACKOFFICE_DATABASE__CONN_MAX_LIFETIME":    "1h",
		"BACKOFFICE_DATABASE__CONN_MAX_IDLE_TIME":   "30m",
		"BACKOFFICE_PAYMENT_GATEWAY__BASE_URL":      "https://gateway.test",
		"BACKOFFICE_PAYMENT_GATEWAY__API_KEY":       "sk_test",
		"BACKOFFICE_PAYMENT_GATEWAY__CURRENCY":      "usd",
		"BACKOFFICE_PAYMENT_GATEWAY__CONN_TIMEOUT":  "5s",
		"BACKOFFICE_WORKER__INTERVAL":               "1m",
		"BACKOFFICE_WORKER__BATCH_SIZE":             "50",
		"BACKOFFICE_AUTH__JWT_SECRET":               "jwt-secret",
		"BACKOFFICE_KAFKA__BROKERS":                 "kafka-1:9092,kafka-2:9092",
	}
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("loads nested env vars", func(t *testing.T) {
		setRequiredEnv(t)

		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "usd", cfg.PaymentGateway.Currency)
		assert.Equal(t, 5*time.Second, cfg.PaymentGateway.ConnTimeout)
		assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	})

	t.Run("keeps defaults for unset sections", func(t *testing.T) {
		setRequiredEnv(t)

		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, int32(3), cfg.Retry.MaxRetries)
		assert.Equal(t, "backoffice.orders", cfg.Kafka.Topic)
		assert.Equal(t, 30*time.Second, cfg.Notification.Timeout)
		assert.False(t, cfg.SMTP.Enabled())
	})

	t.Run("fails validation without required values", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("BACKOFFICE_AUTH__JWT_SECRET", "")

		_, err := LoadConfig()
		assert.Error(t, err)
	})
}

func TestDatabaseConfig_PgxConfig(t *testing.T) {
	cfg := DatabaseConfig{
		Host:            "db",
		Port:            5432,
		User:            "gym",
		Password:        "secret",
		Name:            "backoffice",
		SSLMode:         "disable",
		MaxOpenConns:    8,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: time.Minute,
	}

	pgxCfg, err := cfg.PgxConfig(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(8), pgxCfg.MaxConns)
	assert.Equal(t, int32(2), pgxCfg.MinConns)
	assert.Equal(t, "db", pgxCfg.ConnConfig.Host)
	assert.Equal(t, applicationName, pgxCfg.ConnConfig.RuntimeParams["application_name"])
}

func TestLoggerConfig_Level(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, LoggerConfig{Level: "DEBUG"}.level())
	assert.Equal(t, slog.LevelWarn, LoggerConfig{Level: "warning"}.level())
	assert.Equal(t, slog.LevelInfo, LoggerConfig{}.level())
	assert.NotNil(t, LoggerConfig{Format: "json"}.NewLogger())
}
