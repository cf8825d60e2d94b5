// Package yacache provides a generic, pluggable key–value cache abstraction with two
// concrete back‑ends: an in-memory map protected by a RW‑mutex and a Redis
// wrapper. Both back-ends expose the same high-level API so that callers can switch
// implementations without changing their business logic.
//
// The API is kept small and focused on hash‑like semantics: one hash per entity
// (for example one hash per chat), one field per attribute. This is the data model
// the dispatcher's state storage is built on.
//
// # Generic design
//
// The [Cache] interface is parameterised by a single type parameter T constrained
// to either *redis.Client or MemoryContainer. This allows the concrete
// implementation to expose its raw driver value via [Cache.Raw] without resorting
// to unsafe type assertions.
//
// # Thread‑safety
//
//   - [Redis] is as thread‑safe as the underlying go‑redis/v9 client.
//   - [Memory] uses a sync.RWMutex to protect all reads/writes.
//
// # Time‑to‑live (TTL)
//
// A TTL passed to [Cache.HSetEX] applies to the whole hash, refreshing it on each
// write. Zero means "no expiry". The memory back‑end treats expired entries as
// absent and purges them from a background sweeper.
//
// # Quick start
//
//	memory := yacache.NewCache(yacache.NewMemoryContainer())
//	_ = memory.HSetEX(ctx, "bot:42:state", "root", "checkout", 0)
//	value, _ := memory.HGet(ctx, "bot:42:state", "root") // "checkout"
//
//	redis := yacache.NewCache(yacache.NewRedisClient("localhost", 6379, "", 0, log))
package yacache

import (
	"context"
	"time"

	"github.com/YaCodeDev/GoYaCodeDevDispatch/yaerrors"
	"github.com/redis/go-redis/v9"
)

// Cache is a generic, hash‑oriented cache abstraction.
//
// Missing keys are reported with an error wrapping [ErrNotFoundValue] (code 404)
// by the single-value getters; collection getters return an empty result instead.
type Cache[T Container] interface {
	// Raw exposes the concrete client for operations outside the high‑level API.
	Raw() T

	// HSetEX sets (childKey,value) under mainKey. A positive ttl (re)arms the
	// expiry of the whole hash.
	//
	// Example:
	//
	// 	_ = c.HSetEX(ctx, "bot:42:state", "root", "menu", time.Hour)
	HSetEX(
		ctx context.Context,
		mainKey string,
		childKey string,
		value string,
		ttl time.Duration,
	) yaerrors.Error

	// HGet fetches a single field from the hash.
	//
	// Example:
	//
	// 	value, err := c.HGet(ctx, "bot:42:state", "root")
	// 	if errors.Is(err, yacache.ErrNotFoundValue) { … }
	HGet(
		ctx context.Context,
		mainKey string,
		childKey string,
	) (string, yaerrors.Error)

	// HGetAll returns a copy of the hash (childKey→value); empty when absent.
	HGetAll(
		ctx context.Context,
		mainKey string,
	) (map[string]string, yaerrors.Error)

	// HDel deletes the given fields. Deleting missing fields is not an error.
	HDel(
		ctx context.Context,
		mainKey string,
		childKeys ...string,
	) yaerrors.Error

	// HLen returns the number of fields in the hash.
	HLen(
		ctx context.Context,
		mainKey string,
	) (int64, yaerrors.Error)

	// Set stores key → value and applies a TTL. A zero ttl stores indefinitely.
	Set(
		ctx context.Context,
		key string,
		value string,
		ttl time.Duration,
	) yaerrors.Error

	// Get retrieves the value previously saved under key.
	Get(
		ctx context.Context,
		key string,
	) (string, yaerrors.Error)

	// Exists reports whether key (plain or hash) is currently present.
	Exists(
		ctx context.Context,
		key string,
	) (bool, yaerrors.Error)

	// Del removes keys, plain or hash. The operation is idempotent.
	Del(
		ctx context.Context,
		keys ...string,
	) yaerrors.Error

	// Ping verifies that the cache service is reachable and healthy.
	Ping(ctx context.Context) yaerrors.Error

	// Close releases resources.
	Close() yaerrors.Error
}

// Container is the union (via type-set) of all back‑end client types the generic
// cache can wrap.
type Container interface {
	*redis.Client | MemoryContainer
}

// NewCache performs a runtime type‑switch on the supplied container to create
// the appropriate concrete implementation.
//
// Example:
//
//	memory := yacache.NewCache(yacache.NewMemoryContainer())
//	redis := yacache.NewCache(client)
func NewCache[T Container](container T) Cache[T] {
	switch _container := any(container).(type) {
	case *redis.Client:
		value, _ := any(NewRedis(_container)).(Cache[T])

		return value
	case MemoryContainer:
		value, _ := any(NewMemory(_container, time.Minute)).(Cache[T])

		return value
	default:
		value, _ := any(NewMemory(NewMemoryContainer(), time.Minute)).(Cache[T])

		return value
	}
}
