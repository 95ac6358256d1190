package configs

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"travel-service/internal/shared/validate"
)

const ConfigPathEnvVar = "CONFIG_PATH"

var DefaultConfigPaths = []string{"config.yaml", "configs/config.yaml"}

type Config struct {
	Env       string          `koanf:"env" validate:"required"`
	Server    ServerConfig    `koanf:"server"`
	Auth      AuthConfig      `koanf:"auth"`
	Mongo     MongoConfig     `koanf:"mongo"`
	Redis     RedisConfig     `koanf:"redis"`
	Kafka     KafkaConfig     `koanf:"kafka"`
	S3        S3Config        `koanf:"s3"`
	OTEL      OTELConfig      `koanf:"otel"`
	Logging   LoggingConfig   `koanf:"logging"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
}

type ServerConfig struct {
	Port           string        `koanf:"port" validate:"required"`
	RequestTimeout time.Duration `koanf:"request_timeout" validate:"gt=0"`
	BodyLimit      int64         `koanf:"body_limit" validate:"gt=0"`
	CORSOrigins    []string      `koanf:"cors_origins"`
}

type AuthConfig struct {
	JWTSecret string        `koanf:"jwt_secret"`
	TokenTTL  time.Duration `koanf:"token_ttl" validate:"gt=0"`
}

type MongoConfig struct {
	URI      string `koanf:"uri" validate:"required"`
	Database string `koanf:"database" validate:"required"`
}

// RedisConfig is optional; an empty Addr disables rate limiting and the
// notification dedup guard.
type RedisConfig struct {
	Addr string `koanf:"addr"`
}

// KafkaConfig is optional; without brokers domain events are dropped.
type KafkaConfig struct {
	Brokers []string `koanf:"brokers"`
	Topic   string   `koanf:"topic"`
}

// S3Config is optional; without an endpoint data URI uploads are rejected.
type S3Config struct {
	Endpoint  string `koanf:"endpoint"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
	Bucket    string `koanf:"bucket"`
	UseSSL    bool   `koanf:"use_ssl"`
	PublicURL string `koanf:"public_url"`
}

type OTELConfig struct {
	Endpoint    string  `koanf:"endpoint"`
	ServiceName string  `koanf:"service_name"`
	SampleRatio float64 `koanf:"sample_ratio" validate:"gte=0,lte=1"`
}

type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

type RateLimitConfig struct {
	Interactions int64         `koanf:"interactions" validate:"gte=0"`
	Window       time.Duration `koanf:"window"`
}

func (c *Config) IsDevelopment() bool { return c.Env == "development" }

func defaultConfig() *Config {
	return &Config{
		Env: "development",
		Server: ServerConfig{
			Port:           ":8080",
			RequestTimeout: 60 * time.Second,
			BodyLimit:      50 << 20,
			CORSOrigins:    []string{"*"},
		},
		Auth: AuthConfig{TokenTTL: 7 * 24 * time.Hour},
		Mongo: MongoConfig{
			URI:      "mongodb://localhost:27017",
			Database: "travel",
		},
		Kafka:     KafkaConfig{Topic: "travel.events"},
		S3:        S3Config{Bucket: "travel-media"},
		OTEL:      OTELConfig{ServiceName: "travel-service", SampleRatio: 1},
		Logging:   LoggingConfig{Level: "info", Format: "json"},
		RateLimit: RateLimitConfig{Interactions: 120, Window: time.Minute},
	}
}

// Load layers defaults, an optional YAML file and environment variables, in
// that order of precedence, and validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Env == "production" && c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is required in production")
	}
	if c.S3.Endpoint != "" && c.S3.Bucket == "" {
		return errors.New("S3_BUCKET is required when S3_ENDPOINT is set")
	}
	return nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

var sliceConfigPaths = []string{"server.cors_origins", "kafka.brokers"}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if err := k.Set(path, out); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

var envMappings = map[string]string{
	"env":                         "env",
	"app_port":                    "server.port",
	"request_timeout":             "server.request_timeout",
	"body_limit":                  "server.body_limit",
	"cors_origins":                "server.cors_origins",
	"jwt_secret":                  "auth.jwt_secret",
	"jwt_ttl":                     "auth.token_ttl",
	"mongo_uri":                   "mongo.uri",
	"mongo_db":                    "mongo.database",
	"redis_addr":                  "redis.addr",
	"kafka_bootstrap_servers":     "kafka.brokers",
	"kafka_topic_events":          "kafka.topic",
	"s3_endpoint":                 "s3.endpoint",
	"s3_access_key":               "s3.access_key",
	"s3_secret_key":               "s3.secret_key",
	"s3_bucket":                   "s3.bucket",
	"s3_use_ssl":                  "s3.use_ssl",
	"s3_public_url":               "s3.public_url",
	"otel_exporter_otlp_endpoint": "otel.endpoint",
	"otel_service_name":           "otel.service_name",
	"otel_traces_sampler_arg":     "otel.sample_ratio",
	"log_level":                   "logging.level",
	"log_format":                  "logging.format",
	"rate_limit_interactions":     "rate_limit.interactions",
	"rate_limit_window":           "rate_limit.window",
}

// envTransformFunc maps known environment variables to config paths; any
// other variable is ignored.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
