package yafsm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/YaCodeDev/GoYaCodeDevDispatch/yacache"
	"github.com/YaCodeDev/GoYaCodeDevDispatch/yaerrors"
	"github.com/redis/go-redis/v9"
)

// CacheStorage keeps states in yacache hashes: one hash per chat under
// [StateKey], fields are dispatcher keys and values are state names. Payloads
// live in a sibling hash under [DataKey].
type CacheStorage[T yacache.Container] struct {
	cache     yacache.Cache[T]
	namespace string
	ttl       time.Duration
}

// NewCacheStorage wraps any yacache back-end. A positive ttl refreshes the
// expiry of a chat's hashes on every write.
func NewCacheStorage[T yacache.Container](
	cache yacache.Cache[T],
	namespace string,
	ttl time.Duration,
) *CacheStorage[T] {
	return &CacheStorage[T]{
		cache:     cache,
		namespace: orDefault(namespace),
		ttl:       ttl,
	}
}

// NewMemoryStorage returns a non-durable, single-process storage.
//
// Example usage:
//
//	storage := yafsm.NewMemoryStorage("shop")
//	_ = storage.Set(ctx, 42, "root", "checkout")
func NewMemoryStorage(namespace string) *CacheStorage[yacache.MemoryContainer] {
	return NewCacheStorage(yacache.NewCache(yacache.NewMemoryContainer()), namespace, 0)
}

// NewRedisStorage returns a durable storage that several dispatcher processes can share.
//
// Example usage:
//
//	client, _ := yacache.NewRedisClient(ctx, "localhost", 6379, "", 0, log)
//	storage := yafsm.NewRedisStorage(client, "shop", 24*time.Hour)
func NewRedisStorage(
	client *redis.Client,
	namespace string,
	ttl time.Duration,
) *CacheStorage[*redis.Client] {
	return NewCacheStorage(yacache.NewCache(client), namespace, ttl)
}

// Cache exposes the wrapped cache.
func (s *CacheStorage[T]) Cache() yacache.Cache[T] {
	return s.cache
}

func (s *CacheStorage[T]) Set(
	ctx context.Context,
	chatID int64,
	key string,
	value string,
) yaerrors.Error {
	if err := s.cache.HSetEX(ctx, StateKey(s.namespace, chatID), key, value, s.ttl); err != nil {
		return err.Wrap(fmt.Sprintf("[FSM] failed to set state `%s` for chat %d", key, chatID))
	}

	return nil
}

func (s *CacheStorage[T]) Get(
	ctx context.Context,
	chatID int64,
	key string,
) (string, bool, yaerrors.Error) {
	value, err := s.cache.HGet(ctx, StateKey(s.namespace, chatID), key)
	if err != nil {
		if errors.Is(err, yacache.ErrNotFoundValue) {
			return "", false, nil
		}

		return "", false, err.Wrap(fmt.Sprintf("[FSM] failed to get state `%s` for chat %d", key, chatID))
	}

	return value, true, nil
}

func (s *CacheStorage[T]) GetAll(
	ctx context.Context,
	chatID int64,
) (map[string]string, yaerrors.Error) {
	values, err := s.cache.HGetAll(ctx, StateKey(s.namespace, chatID))
	if err != nil {
		return nil, err.Wrap(fmt.Sprintf("[FSM] failed to get states for chat %d", chatID))
	}

	if values == nil {
		values = map[string]string{}
	}

	return values, nil
}

func (s *CacheStorage[T]) Reset(
	ctx context.Context,
	chatID int64,
	keys ...string,
) yaerrors.Error {
	if err := s.cache.HDel(ctx, StateKey(s.namespace, chatID), keys...); err != nil {
		return err.Wrap(fmt.Sprintf("[FSM] failed to reset states for chat %d", chatID))
	}

	if err := s.cache.HDel(ctx, DataKey(s.namespace, chatID), keys...); err != nil {
		return err.Wrap(fmt.Sprintf("[FSM] failed to reset state data for chat %d", chatID))
	}

	return nil
}

func (s *CacheStorage[T]) ResetAll(
	ctx context.Context,
	chatID int64,
) yaerrors.Error {
	if err := s.cache.Del(
		ctx,
		StateKey(s.namespace, chatID),
		DataKey(s.namespace, chatID),
	); err != nil {
		return err.Wrap(fmt.Sprintf("[FSM] failed to reset all states for chat %d", chatID))
	}

	return nil
}

func (s *CacheStorage[T]) SetData(
	ctx context.Context,
	chatID int64,
	key string,
	data []byte,
) yaerrors.Error {
	if err := s.cache.HSetEX(ctx, DataKey(s.namespace, chatID), key, string(data), s.ttl); err != nil {
		return err.Wrap(fmt.Sprintf("[FSM] failed to set state data `%s` for chat %d", key, chatID))
	}

	return nil
}

func (s *CacheStorage[T]) GetData(
	ctx context.Context,
	chatID int64,
	key string,
) ([]byte, bool, yaerrors.Error) {
	value, err := s.cache.HGet(ctx, DataKey(s.namespace, chatID), key)
	if err != nil {
		if errors.Is(err, yacache.ErrNotFoundValue) {
			return nil, false, nil
		}

		return nil, false, err.Wrap(fmt.Sprintf("[FSM] failed to get state data `%s` for chat %d", key, chatID))
	}

	return []byte(value), true, nil
}

func (s *CacheStorage[T]) Close() yaerrors.Error {
	return s.cache.Close()
}
