package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
)

const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendS3    = "s3"
)

type Config struct {
	Port             int           `env:"PORT" env-default:"3000" validate:"min=1,max=65535"`
	DataFile         string        `env:"DATA_FILE" env-default:"database.json" validate:"required_if=StoreBackend file"`
	DataFileMode     string        `env:"DATA_FILE_MODE" env-default:"0644"`
	StaticDir        string        `env:"STATIC_DIR" env-default:"public"`
	StoreBackend     string        `env:"STORE_BACKEND" env-default:"file" validate:"oneof=file redis s3"`
	SerializeWrites  bool          `env:"STORE_SERIALIZE_WRITES" env-default:"false"`
	BreakerThreshold int           `env:"STORE_BREAKER_THRESHOLD" env-default:"5" validate:"min=1"`
	BreakerCooldown  time.Duration `env:"STORE_BREAKER_COOLDOWN" env-default:"30s"`
	RedisAddr        string        `env:"REDIS_ADDR" validate:"required_if=StoreBackend redis"`
	RedisKey         string        `env:"REDIS_KEY" env-default:"userstore:users"`
	S3Bucket         string        `env:"S3_BUCKET" validate:"required_if=StoreBackend s3"`
	S3Key            string        `env:"S3_KEY" env-default:"database.json"`
	S3Region         string        `env:"S3_REGION" env-default:"us-east-1"`
	S3Endpoint       string        `env:"S3_ENDPOINT" validate:"omitempty,url"`
	NATSURL          string        `env:"NATS_URL" validate:"omitempty,url"`
	LogLevel         string        `env:"LOG_LEVEL" env-default:"info" validate:"oneof=debug info warn warning error"`
	OTLPEndpoint     string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" validate:"omitempty,url"`
	CORSOrigins      []string      `env:"CORS_ALLOWED_ORIGINS" env-default:"*" env-separator:","`
	ShutdownTimeout  time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
}

var validate = validator.New()

func Load() (*Config, error) {
	var cfg Config

	err := cleanenv.ReadEnv(&cfg)
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if _, err := c.FileMode(); err != nil {
		return err
	}
	return nil
}

// FileMode parses DataFileMode as an octal permission. Empty means 0644.
func (c *Config) FileMode() (os.FileMode, error) {
	if c.DataFileMode == "" {
		return 0o644, nil
	}
	m, err := strconv.ParseUint(c.DataFileMode, 8, 32)
	if err != nil || m > 0o777 {
		return 0, fmt.Errorf("config error: DATA_FILE_MODE %q is not an octal permission", c.DataFileMode)
	}
	return os.FileMode(m), nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
