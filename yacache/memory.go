// ========================= In‑memory implementation ========================= //

// Memory is a threadsafe, TTL‑aware map‑backed cache suitable for single‑process
// bots or unit‑tests. A background goroutine cleans up expired entries at a
// fixed interval specified by tickToClean.

package yacache

import (
	"context"
	"fmt"
	"maps"
	"net/http"
	"sync"
	"time"
	"weak"

	"github.com/YaCodeDev/GoYaCodeDevDispatch/yaerrors"
)

// Memory is a threadsafe, TTL‑aware map‑backed cache.
//
// Example (create + basic operations):
//
//	memory := yacache.NewMemory(yacache.NewMemoryContainer(), time.Minute)
//	_ = memory.HSetEX(ctx, "bot:42:state", "root", "menu", time.Hour)
//	hlen, _ := memory.HLen(ctx, "bot:42:state")
//	fmt.Println(hlen) // 1
type Memory struct {
	inner MemoryContainer // hashes and plain keys
	mutex sync.RWMutex    // guards *all* access to inner
	done  chan struct{}   // signals the sweeper to exit on Close()
	once  sync.Once
}

// NewMemory builds a new [Memory] cache instance and immediately starts the
// background sweeper.
//
//	data        – caller‑provided container; pass NewMemoryContainer() for an empty cache
//	tickToClean – sweep interval
//
// Example:
//
//	memory := yacache.NewMemory(yacache.NewMemoryContainer(), 30*time.Second)
func NewMemory(data MemoryContainer, tickToClean time.Duration) *Memory {
	if data.HMap == nil {
		data.HMap = make(map[string]*memoryHash)
	}

	if data.Map == nil {
		data.Map = make(map[string]*memoryCacheItem)
	}

	cache := &Memory{
		inner: data,
		done:  make(chan struct{}),
	}

	go cleanup(weak.Make(cache), tickToClean, cache.done)

	return cache
}

// cleanup runs in its own goroutine, periodically scanning the container for
// expired hashes and keys. The weak pointer lets an unreachable Memory be
// collected without an explicit Close.
func cleanup(
	pointer weak.Pointer[Memory],
	tickToClean time.Duration,
	done <-chan struct{},
) {
	ticker := time.NewTicker(tickToClean)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			memory := pointer.Value()
			if memory == nil {
				return
			}

			memory.sweep(time.Now())
		case <-done:
			return
		}
	}
}

func (m *Memory) sweep(now time.Time) {
	m.mutex.Lock()

	defer m.mutex.Unlock()

	for key, hash := range m.inner.HMap {
		if hash.isExpired(now) || len(hash.Fields) == 0 {
			delete(m.inner.HMap, key)
		}
	}

	for key, item := range m.inner.Map {
		if item.isExpired(now) {
			delete(m.inner.Map, key)
		}
	}
}

// Raw returns the underlying MemoryContainer.
func (m *Memory) Raw() MemoryContainer {
	return m.inner
}

// HSetEX implementation for Memory.
//
// Example:
//
//	_ = mem.HSetEX(ctx, "bot:42:state", "root", "menu", time.Minute)
func (m *Memory) HSetEX(
	_ context.Context,
	mainKey string,
	childKey string,
	value string,
	ttl time.Duration,
) yaerrors.Error {
	m.mutex.Lock()

	defer m.mutex.Unlock()

	now := time.Now()

	hash, ok := m.inner.HMap[mainKey]
	if !ok || hash.isExpired(now) {
		hash = &memoryHash{Fields: make(map[string]string), Endless: true}
		m.inner.HMap[mainKey] = hash
	}

	hash.Fields[childKey] = value

	if ttl > 0 {
		hash.Endless = false
		hash.ExpiresAt = now.Add(ttl)
	}

	return nil
}

// HGet implementation for Memory.
//
// Example:
//
//	value, _ := memory.HGet(ctx, "bot:42:state", "root")
func (m *Memory) HGet(
	_ context.Context,
	mainKey string,
	childKey string,
) (string, yaerrors.Error) {
	m.mutex.RLock()

	defer m.mutex.RUnlock()

	hash, ok := m.inner.live(mainKey, time.Now())
	if !ok {
		return "", notFound(mainKey, childKey)
	}

	value, ok := hash.Fields[childKey]
	if !ok {
		return "", notFound(mainKey, childKey)
	}

	return value, nil
}

// HGetAll implementation for Memory.
func (m *Memory) HGetAll(
	_ context.Context,
	mainKey string,
) (map[string]string, yaerrors.Error) {
	m.mutex.RLock()

	defer m.mutex.RUnlock()

	hash, ok := m.inner.live(mainKey, time.Now())
	if !ok {
		return map[string]string{}, nil
	}

	return maps.Clone(hash.Fields), nil
}

// HDel implementation for Memory. Emptied hashes are dropped immediately.
func (m *Memory) HDel(
	_ context.Context,
	mainKey string,
	childKeys ...string,
) yaerrors.Error {
	m.mutex.Lock()

	defer m.mutex.Unlock()

	hash, ok := m.inner.HMap[mainKey]
	if !ok {
		return nil
	}

	for _, childKey := range childKeys {
		delete(hash.Fields, childKey)
	}

	if len(hash.Fields) == 0 {
		delete(m.inner.HMap, mainKey)
	}

	return nil
}

// HLen implements [Cache.HLen] for the in‑memory back‑end.
func (m *Memory) HLen(
	_ context.Context,
	mainKey string,
) (int64, yaerrors.Error) {
	m.mutex.RLock()

	defer m.mutex.RUnlock()

	hash, ok := m.inner.live(mainKey, time.Now())
	if !ok {
		return 0, nil
	}

	return int64(len(hash.Fields)), nil
}

func (m *Memory) Set(
	_ context.Context,
	key string,
	value string,
	ttl time.Duration,
) yaerrors.Error {
	m.mutex.Lock()

	defer m.mutex.Unlock()

	if ttl > 0 {
		m.inner.Map[key] = newMemoryCacheItemEX(value, time.Now().Add(ttl))
	} else {
		m.inner.Map[key] = newMemoryCacheItem(value)
	}

	return nil
}

func (m *Memory) Get(
	_ context.Context,
	key string,
) (string, yaerrors.Error) {
	m.mutex.RLock()

	defer m.mutex.RUnlock()

	item, ok := m.inner.Map[key]
	if !ok || item.isExpired(time.Now()) {
		return "", yaerrors.FromError(
			http.StatusNotFound,
			ErrNotFoundValue,
			fmt.Sprintf("[MEMORY] failed to get value in key: %s", key),
		)
	}

	return item.Value, nil
}

func (m *Memory) Exists(
	_ context.Context,
	key string,
) (bool, yaerrors.Error) {
	m.mutex.RLock()

	defer m.mutex.RUnlock()

	now := time.Now()

	if item, ok := m.inner.Map[key]; ok && !item.isExpired(now) {
		return true, nil
	}

	_, ok := m.inner.live(key, now)

	return ok, nil
}

func (m *Memory) Del(
	_ context.Context,
	keys ...string,
) yaerrors.Error {
	m.mutex.Lock()

	defer m.mutex.Unlock()

	for _, key := range keys {
		delete(m.inner.Map, key)
		delete(m.inner.HMap, key)
	}

	return nil
}

// Ping always succeeds for the in‑memory backend.
func (m *Memory) Ping(_ context.Context) yaerrors.Error {
	return nil
}

// Close stops the sweeper and clears the container. Calling it twice is safe.
func (m *Memory) Close() yaerrors.Error {
	m.once.Do(func() {
		m.mutex.Lock()

		defer m.mutex.Unlock()

		clear(m.inner.HMap)
		clear(m.inner.Map)

		close(m.done)
	})

	return nil
}

func notFound(mainKey, childKey string) yaerrors.Error {
	return yaerrors.FromError(
		http.StatusNotFound,
		ErrNotFoundValue,
		fmt.Sprintf("[MEMORY] failed to get `%s:%s`", mainKey, childKey),
	)
}

// memoryCacheItem is a plain key stored inside the in-memory cache.
//
//   - Value      – payload the user saved.
//   - ExpiresAt  – absolute point in time when the item becomes stale
//     (ignored if Endless is true).
//   - Endless    – true means “no TTL at all”.
type memoryCacheItem struct {
	Value     string
	ExpiresAt time.Time
	Endless   bool
}

func newMemoryCacheItem(value string) *memoryCacheItem {
	return &memoryCacheItem{Value: value, Endless: true}
}

func newMemoryCacheItemEX(value string, expiresAt time.Time) *memoryCacheItem {
	return &memoryCacheItem{Value: value, ExpiresAt: expiresAt}
}

func (m *memoryCacheItem) isExpired(now time.Time) bool {
	return !m.Endless && !now.Before(m.ExpiresAt)
}

// memoryHash is one hash; the TTL covers all of its fields, like a Redis key.
type memoryHash struct {
	Fields    map[string]string
	ExpiresAt time.Time
	Endless   bool
}

func (h *memoryHash) isExpired(now time.Time) bool {
	return !h.Endless && !now.Before(h.ExpiresAt)
}

// MemoryContainer is the storage behind [Memory]: hashes in HMap, plain keys in Map.
type MemoryContainer struct {
	HMap map[string]*memoryHash
	Map  map[string]*memoryCacheItem
}

// NewMemoryContainer returns an empty container ready for [NewMemory] or [NewCache].
func NewMemoryContainer() MemoryContainer {
	return MemoryContainer{
		HMap: make(map[string]*memoryHash),
		Map:  make(map[string]*memoryCacheItem),
	}
}

// live returns the hash under key when it exists, is not expired and is not empty.
func (c MemoryContainer) live(key string, now time.Time) (*memoryHash, bool) {
	hash, ok := c.HMap[key]
	if !ok || hash.isExpired(now) || len(hash.Fields) == 0 {
		return nil, false
	}

	return hash, true
}
