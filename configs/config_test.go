package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, 60*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "travel", cfg.Mongo.Database)
	assert.True(t, cfg.IsDevelopment())
	assert.Empty(t, cfg.Kafka.Brokers)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
env: staging
server:
  port: ":9000"
mongo:
  database: fromfile
logging:
  level: debug
`), 0o600))

	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("MONGO_DB", "fromenv")
	t.Setenv("KAFKA_BOOTSTRAP_SERVERS", "k1:9092, k2:9092")
	t.Setenv("REQUEST_TIMEOUT", "15s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "staging", cfg.Env)
	assert.Equal(t, ":9000", cfg.Server.Port)
	assert.Equal(t, "fromenv", cfg.Mongo.Database)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 15*time.Second, cfg.Server.RequestTimeout)
}

func TestValidate(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.Env = "production"
	assert.ErrorContains(t, cfg.Validate(), "JWT_SECRET")

	cfg = defaultConfig()
	cfg.Logging.Level = "loud"
	assert.Error(t, cfg.Validate())

	cfg = defaultConfig()
	cfg.S3.Endpoint = "minio:9000"
	cfg.S3.Bucket = ""
	assert.ErrorContains(t, cfg.Validate(), "S3_BUCKET")
}

func TestEnvTransformIgnoresUnknown(t *testing.T) {
	assert.Equal(t, "mongo.uri", envTransformFunc("MONGO_URI"))
	assert.Equal(t, "", envTransformFunc("HOME"))
}
