package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/env"
)

const envPrefix = "BACKOFFICE_"

type Config struct {
	Primary        Primary              `koanf:"primary"`
	Server         ServerConfig         `koanf:"server"`
	Database       DatabaseConfig       `koanf:"database"`
	PaymentGateway PaymentGatewayConfig `koanf:"payment_gateway"`
	Retry          RetryConfig          `koanf:"retry"`
	Logger         LoggerConfig         `koanf:"logger"`
	Worker         WorkerConfig         `koanf:"worker"`
	SMTP           SMTPConfig           `koanf:"smtp"`
	Kafka          KafkaConfig          `koanf:"kafka"`
	Auth           AuthConfig           `koanf:"auth"`
	Notification   NotificationConfig   `koanf:"notification"`
}

type WorkerConfig struct {
	Interval  time.Duration `koanf:"interval" validate:"required"`
	BatchSize int           `koanf:"batch_size" validate:"required"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

type ServerConfig struct {
	Port         string        `koanf:"port" validate:"required"`
	ReadTimeout  time.Duration `koanf:"read_timeout" validate:"required"`
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"required"`
	IdleTimeout  time.Duration `koanf:"idle_timeout" validate:"required"`
}

type DatabaseConfig struct {
	Host            string        `koanf:"host" validate:"required"`
	Port            int           `koanf:"port" validate:"required"`
	User            string        `koanf:"user" validate:"required"`
	Password        string        `koanf:"password" validate:"required"`
	Name            string        `koanf:"name" validate:"required"`
	SSLMode         string        `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int           `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time" validate:"required"`
}

// PaymentGatewayConfig points at the card processor holding payment intents.
type PaymentGatewayConfig struct {
	BaseURL     string        `koanf:"base_url" validate:"required"`
	APIKey      string        `koanf:"api_key" validate:"required"`
	Currency    string        `koanf:"currency" validate:"required"`
	ConnTimeout time.Duration `koanf:"conn_timeout" validate:"required"`
}

type RetryConfig struct {
	BaseDelay  time.Duration `koanf:"base_delay"`
	MaxRetries int32         `koanf:"max_retries"`
}

type LoggerConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type SMTPConfig struct {
	Host         string `koanf:"host"`
	Port         int    `koanf:"port"`
	Username     string `koanf:"username"`
	Password     string `koanf:"password"`
	From         string `koanf:"from"`
	AdminAddress string `koanf:"admin_address"`
}

// Enabled reports whether outbound mail is configured at all.
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.From != ""
}

type KafkaConfig struct {
	Enabled bool     `koanf:"enabled"`
	Brokers []string `koanf:"brokers"`
	Topic   string   `koanf:"topic"`
}

type AuthConfig struct {
	JWTSecret string `koanf:"jwt_secret" validate:"required"`
}

type NotificationConfig struct {
	Timeout time.Duration `koanf:"timeout"`
}

func LoadConfig() (*Config, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	k := koanf.New(".")

	err := k.Load(env.ProviderWithValue(envPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(key, envPrefix)),
			"__",
			".",
		)
		// comma separated lists, e.g. BACKOFFICE_KAFKA__BROKERS=a:9092,b:9092
		if key == "kafka.brokers" {
			return key, strings.Split(value, ",")
		}
		return key, value
	}), nil)
	if err != nil {
		logger.Error("failed to load environment variables", "error", err)
		return nil, err
	}

	mainConfig := defaults()

	err = k.Unmarshal("", mainConfig)
	if err != nil {
		logger.Error("could not unmarshal main config", "error", err)
		return nil, err
	}

	validate := validator.New()

	err = validate.Struct(mainConfig)
	if err != nil {
		logger.Error("config validation failed", "error", err)
		return nil, err
	}

	return mainConfig, nil
}

func defaults() *Config {
	return &Config{
		Retry: RetryConfig{
			BaseDelay:  500 * time.Millisecond,
			MaxRetries: 3,
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "text",
		},
		Kafka: KafkaConfig{
			Topic: "backoffice.orders",
		},
		Notification: NotificationConfig{
			Timeout: 30 * time.Second,
		},
	}
}
