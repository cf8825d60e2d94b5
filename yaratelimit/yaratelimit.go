// Package yaratelimit implements a fixed-window rate limiter backed by a
// yacache.Cache. It stores a per-(id, group) counter alongside the unix
// millisecond timestamp of the first hit in the current window.
//
// # Storage layout
//
// Each subject is addressed by a string key:
//
//	rate-limit-<id>-<group>
//
// The cache value is a compact CSV tuple:
//
//	"<count>,<first_unix_ms>"
//
// Records are written with a TTL equal to the window, so idle subjects leave
// nothing behind.
//
// # Semantics
//
// The first Limit hits of a window pass; every further hit inside the same
// window is limited. Read-modify-write is not atomic: run it from a dispatch
// that is already serialized per chat (see yatgbot/chatqueue).
package yaratelimit

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/YaCodeDev/GoYaCodeDevDispatch/yacache"
	"github.com/YaCodeDev/GoYaCodeDevDispatch/yaerrors"
)

var ErrMalformedRecord = errors.New("malformed rate limit record")

// Storage is the parsed representation of the CSV value in the cache.
type Storage struct {
	// Count is the number of hits within the current window.
	Count int
	// FirstRequest is the unix millisecond timestamp of the window start.
	FirstRequest int64
}

// RateLimit is a fixed-window limiter backed by a yacache.Cache.
// The zero value is not valid; use NewRateLimit.
type RateLimit[Cache yacache.Container] struct {
	Cache yacache.Cache[Cache]
	// Limit is the max allowed hits per window.
	Limit int
	// Rate is the window size.
	Rate time.Duration

	now func() time.Time
}

// NewRateLimit wires dependencies and returns a ready-to-use limiter.
//
// Example:
//
//	rl := yaratelimit.NewRateLimit(cache, 5, time.Minute)
//	limited, err := rl.Increment(ctx, chatID, "messages")
func NewRateLimit[Cache yacache.Container](
	cache yacache.Cache[Cache],
	limit int,
	rate time.Duration,
) *RateLimit[Cache] {
	return &RateLimit[Cache]{
		Cache: cache,
		Limit: limit,
		Rate:  rate,
		now:   time.Now,
	}
}

// Check reports whether the next hit for (id, group) would be limited.
func (r *RateLimit[Cache]) Check(
	ctx context.Context,
	id int64,
	group string,
) (bool, yaerrors.Error) {
	storage, err := r.Get(ctx, id, group)
	if err != nil {
		if errors.Is(err, yacache.ErrNotFoundValue) {
			return r.Limit <= 0, nil
		}

		return false, err.Wrap("failed to check storage")
	}

	if r.expired(storage) {
		return r.Limit <= 0, nil
	}

	return storage.Count >= r.Limit, nil
}

// Increment records a hit for (id, group) and reports whether it is over the limit.
//
// Example:
//
//	limited, err := rl.Increment(ctx, chatID, "messages")
//	if limited { /* drop */ }
func (r *RateLimit[Cache]) Increment(
	ctx context.Context,
	id int64,
	group string,
) (bool, yaerrors.Error) {
	storage, err := r.Get(ctx, id, group)
	if err != nil && !errors.Is(err, yacache.ErrNotFoundValue) {
		return false, err.Wrap("failed to get storage")
	}

	if err != nil || r.expired(storage) {
		if err := r.Refresh(ctx, id, group); err != nil {
			return false, err.Wrap("failed to refresh")
		}

		return r.Limit < 1, nil
	}

	if storage.Count > r.Limit {
		return true, nil
	}

	storage.Count++

	if err := r.Cache.Set(
		ctx,
		FormatKey(id, group),
		FormatValue(storage.Count, storage.FirstRequest),
		r.remaining(storage),
	); err != nil {
		return false, err.Wrap("failed to increment storage")
	}

	return storage.Count > r.Limit, nil
}

// Refresh resets the window for (id, group) to count=1 at the current time.
func (r *RateLimit[Cache]) Refresh(
	ctx context.Context,
	id int64,
	group string,
) yaerrors.Error {
	if err := r.Cache.Set(
		ctx,
		FormatKey(id, group),
		FormatValue(1, r.now().UnixMilli()),
		r.Rate,
	); err != nil {
		return err.Wrap("failed to set refreshed storage")
	}

	return nil
}

// Get fetches and parses the cache record for (id, group).
func (r *RateLimit[Cache]) Get(
	ctx context.Context,
	id int64,
	group string,
) (*Storage, yaerrors.Error) {
	value, yaerr := r.Cache.Get(ctx, FormatKey(id, group))
	if yaerr != nil {
		return nil, yaerr.Wrap("failed to get storage")
	}

	return ParseValue(value)
}

func (r *RateLimit[Cache]) expired(storage *Storage) bool {
	return !r.now().Before(time.UnixMilli(storage.FirstRequest).Add(r.Rate))
}

func (r *RateLimit[Cache]) remaining(storage *Storage) time.Duration {
	left := time.UnixMilli(storage.FirstRequest).Add(r.Rate).Sub(r.now())
	if left < time.Millisecond {
		return time.Millisecond
	}

	return left
}

// FormatKey constructs the cache key for (id, group).
//
// Example:
//
//	k := yaratelimit.FormatKey(100, "signup") // "rate-limit-100-signup"
func FormatKey(id int64, group string) string {
	return fmt.Sprintf("rate-limit-%d-%s", id, group)
}

// FormatValue serializes a (count, first_unix_ms) tuple to cache string.
func FormatValue(count int, firstRequest int64) string {
	return fmt.Sprintf("%d,%d", count, firstRequest)
}

// ParseValue parses a tuple produced by FormatValue.
func ParseValue(value string) (*Storage, yaerrors.Error) {
	const separate = 2

	values := strings.Split(value, ",")
	if len(values) != separate {
		return nil, yaerrors.FromError(
			http.StatusInternalServerError,
			ErrMalformedRecord,
			fmt.Sprintf("unexpected record `%s`", value),
		)
	}

	count, err := strconv.Atoi(values[0])
	if err != nil {
		return nil, yaerrors.FromError(
			http.StatusInternalServerError,
			errors.Join(err, ErrMalformedRecord),
			"couldn't validate count",
		)
	}

	firstRequest, err := strconv.ParseInt(values[1], 10, 64)
	if err != nil {
		return nil, yaerrors.FromError(
			http.StatusInternalServerError,
			errors.Join(err, ErrMalformedRecord),
			"couldn't validate unix time",
		)
	}

	return &Storage{
		Count:        count,
		FirstRequest: firstRequest,
	}, nil
}
