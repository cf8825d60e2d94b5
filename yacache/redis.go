package yacache

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/YaCodeDev/GoYaCodeDevDispatch/yaerrors"
	"github.com/YaCodeDev/GoYaCodeDevDispatch/yalogger"
	"github.com/redis/go-redis/v9"
)

const backendName = "REDIS"

// Redis wraps a *redis.Client and implements the Cache interface.
//
// It exposes only the subset of commands the in-memory implementation offers,
// so that dispatcher code can switch between Redis and Memory without extra plumbing.
//
// # Typical usage
//
//	client, _ := yacache.NewRedisClient(ctx, "localhost", 6379, "", 1, log)
//	redis := yacache.NewCache(client)
//	_ = redis.HSetEX(ctx, "bot:42:state", "root", "menu", 0)
type Redis struct {
	client *redis.Client
}

// NewRedis turns an already-configured *redis.Client into a **Redis** cache.
//
// Example:
//
//	redis := yacache.NewRedis(client)
//	_ = redis.Ping(context.Background())
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// NewRedisClient dials a Redis instance and performs an initial PING.
//
// Both the connection attempt and the final status are logged via the supplied
// yalogger.Logger. A failed PING closes the client and returns an error.
//
// Example:
//
//	client, err := yacache.NewRedisClient(ctx, "127.0.0.1", 6379, "", 0, log)
func NewRedisClient(
	ctx context.Context,
	host string,
	port uint16,
	password string,
	db int,
	log yalogger.Logger,
) (*redis.Client, yaerrors.Error) {
	redisAddr := net.JoinHostPort(host, strconv.Itoa(int(port)))

	if log == nil {
		log = yalogger.NewBaseLogger(nil).NewLogger()
	}

	log.Infof("Redis connecting to addr %s", redisAddr)

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()

		return nil, yaerrors.FromErrorWithLog(
			http.StatusInternalServerError,
			errors.Join(err, ErrFailedPing),
			fmt.Sprintf("[%s] failed to connect to %s", backendName, redisAddr),
			log,
		)
	}

	log.Infof("Redis connected to addr %s", redisAddr)

	return client, nil
}

// Raw exposes the underlying *redis.Client so that advanced commands
// (e.g. Lua scripts, pipelines) can still be reached when necessary.
//
// Example:
//
//	if err := r.Raw().FlushDB(ctx).Err(); err != nil { … }
func (r *Redis) Raw() *redis.Client {
	return r.client
}

// HSetEX stores field → value under mainKey. A positive ttl is applied to the
// whole hash with EXPIRE in the same MULTI block.
//
// Example:
//
//	_ = redis.HSetEX(ctx, "bot:42:state", "root", "menu", time.Hour)
func (r *Redis) HSetEX(
	ctx context.Context,
	mainKey string,
	childKey string,
	value string,
	ttl time.Duration,
) yaerrors.Error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, mainKey, childKey, value)

		if ttl > 0 {
			pipe.Expire(ctx, mainKey, ttl)
		}

		return nil
	})
	if err != nil {
		return yaerrors.FromError(
			http.StatusInternalServerError,
			errors.Join(err, ErrFailedToHSetEx),
			fmt.Sprintf("[%s] failed `HSET` by `%s:%s`", backendName, mainKey, childKey),
		)
	}

	return nil
}

// HGet returns the value previously stored by HSetEX.
//
// A missing key/field pair yields a 404 wrapping [ErrNotFoundValue].
//
// Example:
//
//	value, err := redis.HGet(ctx, "bot:42:state", "root")
func (r *Redis) HGet(
	ctx context.Context,
	mainKey string,
	childKey string,
) (string, yaerrors.Error) {
	result, err := r.client.HGet(ctx, mainKey, childKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", yaerrors.FromError(
			http.StatusNotFound,
			errors.Join(err, ErrNotFoundValue),
			fmt.Sprintf("[%s] not found value by `%s:%s`", backendName, mainKey, childKey),
		)
	}

	if err != nil {
		return "", yaerrors.FromError(
			http.StatusInternalServerError,
			errors.Join(err, ErrFailedToGetValue),
			fmt.Sprintf("[%s] failed `HGET` by `%s:%s`", backendName, mainKey, childKey),
		)
	}

	return result, nil
}

// HGetAll fetches the entire hash under mainKey.
//
// Example:
//
//	values, _ := redis.HGetAll(ctx, "bot:42:state")
//	for key, value := range values {
//	    fmt.Printf("%s = %s\n", key, value)
//	}
func (r *Redis) HGetAll(
	ctx context.Context,
	mainKey string,
) (map[string]string, yaerrors.Error) {
	result, err := r.client.HGetAll(ctx, mainKey).Result()
	if err != nil {
		return nil, yaerrors.FromError(
			http.StatusInternalServerError,
			errors.Join(err, ErrFailedToGetValues),
			fmt.Sprintf("[%s] failed `HGETALL` by `%s`", backendName, mainKey),
		)
	}

	return result, nil
}

// HDel removes the given fields from mainKey.
func (r *Redis) HDel(
	ctx context.Context,
	mainKey string,
	childKeys ...string,
) yaerrors.Error {
	if len(childKeys) == 0 {
		return nil
	}

	if err := r.client.HDel(ctx, mainKey, childKeys...).Err(); err != nil {
		return yaerrors.FromError(
			http.StatusInternalServerError,
			errors.Join(err, ErrFailedToDelete),
			fmt.Sprintf("[%s] failed `HDEL` by `%s`", backendName, mainKey),
		)
	}

	return nil
}

// HLen returns the number of fields in the hash.
func (r *Redis) HLen(
	ctx context.Context,
	mainKey string,
) (int64, yaerrors.Error) {
	result, err := r.client.HLen(ctx, mainKey).Result()
	if err != nil {
		return 0, yaerrors.FromError(
			http.StatusInternalServerError,
			errors.Join(err, ErrFailedToGetLen),
			fmt.Sprintf("[%s] failed `HLEN` by `%s`", backendName, mainKey),
		)
	}

	return result, nil
}

// Set stores key → value with an optional TTL.
//
// Example:
//
//	_ = redis.Set(ctx, "rate-limit-42-default", "1,1700000000", time.Minute)
func (r *Redis) Set(
	ctx context.Context,
	key string,
	value string,
	ttl time.Duration,
) yaerrors.Error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return yaerrors.FromError(
			http.StatusInternalServerError,
			errors.Join(err, ErrFailedToSet),
			fmt.Sprintf("[%s] failed `SET` by `%s`", backendName, key),
		)
	}

	return nil
}

// Get retrieves the value previously saved under key.
func (r *Redis) Get(
	ctx context.Context,
	key string,
) (string, yaerrors.Error) {
	result, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", yaerrors.FromError(
			http.StatusNotFound,
			errors.Join(err, ErrNotFoundValue),
			fmt.Sprintf("[%s] not found value by `%s`", backendName, key),
		)
	}

	if err != nil {
		return "", yaerrors.FromError(
			http.StatusInternalServerError,
			errors.Join(err, ErrFailedToGetValue),
			fmt.Sprintf("[%s] failed `GET` by `%s`", backendName, key),
		)
	}

	return result, nil
}

// Exists reports whether key is present.
func (r *Redis) Exists(
	ctx context.Context,
	key string,
) (bool, yaerrors.Error) {
	count, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, yaerrors.FromError(
			http.StatusInternalServerError,
			errors.Join(err, ErrFailedToExists),
			fmt.Sprintf("[%s] failed `EXISTS` by `%s`", backendName, key),
		)
	}

	return count > 0, nil
}

// Del removes keys.
func (r *Redis) Del(
	ctx context.Context,
	keys ...string,
) yaerrors.Error {
	if len(keys) == 0 {
		return nil
	}

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return yaerrors.FromError(
			http.StatusInternalServerError,
			errors.Join(err, ErrFailedToDelete),
			fmt.Sprintf("[%s] failed `DEL`", backendName),
		)
	}

	return nil
}

// Ping checks server availability.
func (r *Redis) Ping(ctx context.Context) yaerrors.Error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return yaerrors.FromError(
			http.StatusInternalServerError,
			errors.Join(err, ErrFailedPing),
			fmt.Sprintf("[%s] failed `PING`", backendName),
		)
	}

	return nil
}

// Close closes the underlying client.
func (r *Redis) Close() yaerrors.Error {
	if err := r.client.Close(); err != nil {
		return yaerrors.FromError(
			http.StatusInternalServerError,
			errors.Join(err, ErrFailedToClose),
			fmt.Sprintf("[%s] failed to close client", backendName),
		)
	}

	return nil
}
