package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/YaCodeDev/GoYaCodeDevDispatch/config"
	"github.com/YaCodeDev/GoYaCodeDevDispatch/yalogger"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlConfig = `
log:
  level: debug
  full_timestamp: true
storage:
  backend: Redis
  namespace: shop
  ttl: 24h
  redis_host: cache.internal
  redis_port: 6380
rate_limit:
  limit: 5
  window: 30s
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)

	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad_DefaultsWithoutSources(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load("", nil)

	require.Nil(t, err)

	expected := config.Default()

	if diff := cmp.Diff(expected, *cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	t.Chdir(t.TempDir())

	path := writeFile(t, "dispatch.yaml", yamlConfig)

	t.Setenv("YADISPATCH_STORAGE_NAMESPACE", "bots")
	t.Setenv("YADISPATCH_STORAGE_REDIS_DB", "3")
	t.Setenv("YADISPATCH_RATE_LIMIT_LIMIT", "10")
	t.Setenv("YADISPATCH_LOG_LEVEL", "warn")

	cfg, err := config.Load(path, nil)

	require.Nil(t, err)

	expected := config.Config{
		Log: config.Log{
			Level:         yalogger.WarnLevel,
			FullTimestamp: true,
		},
		Storage: config.Storage{
			Backend:   "redis",
			Namespace: "bots",
			TTL:       24 * time.Hour,
			RedisHost: "cache.internal",
			RedisPort: 6380,
			RedisDB:   3,
		},
		RateLimit: config.RateLimit{
			Limit:  10,
			Window: 30 * time.Second,
		},
	}

	if diff := cmp.Diff(expected, *cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, os.WriteFile(
		filepath.Join(dir, config.DotEnvFile),
		[]byte("# comment\nYADISPATCH_STORAGE_BACKEND=sqlite\nexport YADISPATCH_STORAGE_SQLITE_DSN=\"states.db\"\n"),
		0o600,
	))

	t.Setenv("YADISPATCH_STORAGE_BACKEND", "memory")
	// registered so the variable set by the .env loader is dropped after the test
	t.Setenv("YADISPATCH_STORAGE_SQLITE_DSN", "")
	require.NoError(t, os.Unsetenv("YADISPATCH_STORAGE_SQLITE_DSN"))

	cfg, err := config.Load("", nil)

	require.Nil(t, err)
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, "states.db", cfg.Storage.SQLiteDSN)
}

func TestLoad_Rejects(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Run("missing file", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)

		assert.ErrorIs(t, err, config.ErrFailedToReadFile)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := config.Load(writeFile(t, "bad.yaml", "storage: [oops"), nil)

		assert.ErrorIs(t, err, config.ErrFailedToParseYAML)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := config.Load(writeFile(t, "bad.yaml", "storage:\n  backend: etcd\n"), nil)

		assert.ErrorIs(t, err, config.ErrInvalidBackend)
	})

	t.Run("limit without window", func(t *testing.T) {
		_, err := config.Load(writeFile(t, "bad.yaml", "rate_limit:\n  limit: 3\n  window: 0s\n"), nil)

		assert.ErrorIs(t, err, config.ErrInvalidRateLimit)
	})

	t.Run("bad env level", func(t *testing.T) {
		t.Setenv("YADISPATCH_LOG_LEVEL", "loud")

		_, err := config.Load("", nil)

		assert.ErrorIs(t, err, config.ErrFailedToProcessEnv)
	})
}
