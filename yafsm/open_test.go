package yafsm_test

import (
	"context"
	"net/http"
	"strconv"
	"testing"

	"github.com/YaCodeDev/GoYaCodeDevDispatch/config"
	"github.com/YaCodeDev/GoYaCodeDevDispatch/yacache"
	"github.com/YaCodeDev/GoYaCodeDevDispatch/yafsm"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_Backends(t *testing.T) {
	ctx := context.Background()

	t.Run("Memory by default", func(t *testing.T) {
		storage, err := yafsm.Open(ctx, config.Storage{}, nil)

		require.Nil(t, err)
		assert.IsType(t, &yafsm.CacheStorage[yacache.MemoryContainer]{}, storage)
	})

	t.Run("Redis", func(t *testing.T) {
		mr := miniredis.RunT(t)

		port, parseErr := strconv.ParseUint(mr.Port(), 10, 16)
		require.NoError(t, parseErr)

		storage, err := yafsm.Open(ctx, config.Storage{
			Backend:   " Redis ",
			Namespace: "shop",
			RedisHost: mr.Host(),
			RedisPort: uint16(port),
		}, nil)

		require.Nil(t, err)
		assert.IsType(t, &yafsm.CacheStorage[*redis.Client]{}, storage)

		require.Nil(t, storage.Set(ctx, 42, "root", "checkout"))
		assert.Equal(t, "checkout", mr.HGet("shop:42:state", "root"))
		require.Nil(t, storage.Close())
	})

	t.Run("Redis unreachable", func(t *testing.T) {
		mr := miniredis.RunT(t)

		port, parseErr := strconv.ParseUint(mr.Port(), 10, 16)
		require.NoError(t, parseErr)

		mr.Close()

		_, err := yafsm.Open(ctx, config.Storage{
			Backend:   yafsm.BackendRedis,
			RedisHost: "127.0.0.1",
			RedisPort: uint16(port),
		}, nil)

		require.NotNil(t, err)
		assert.ErrorIs(t, err, yacache.ErrFailedPing)
	})

	t.Run("SQLite", func(t *testing.T) {
		storage, err := yafsm.Open(ctx, config.Storage{
			Backend:   yafsm.BackendSQLite,
			SQLiteDSN: "file:" + t.TempDir() + "/states.db",
		}, nil)

		require.Nil(t, err)
		assert.IsType(t, &yafsm.GormStorage{}, storage)

		require.Nil(t, storage.Set(ctx, 42, "root", "checkout"))

		value, ok, err := storage.Get(ctx, 42, "root")

		require.Nil(t, err)
		assert.True(t, ok)
		assert.Equal(t, "checkout", value)
		require.Nil(t, storage.Close())
	})

	t.Run("Unknown backend", func(t *testing.T) {
		_, err := yafsm.Open(ctx, config.Storage{Backend: "etcd"}, nil)

		require.NotNil(t, err)
		assert.Equal(t, http.StatusBadRequest, err.Code())
		assert.ErrorIs(t, err, yafsm.ErrUnknownBackend)
	})
}
