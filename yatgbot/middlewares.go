package yatgbot

import (
	"context"
	"fmt"
	"slices"

	"github.com/YaCodeDev/GoYaCodeDevDispatch/yaerrors"
)

// Middleware runs before classification. Returning true short-circuits the
// dispatch: the update counts as handled and no handler runs. An error aborts
// the dispatch.
type Middleware func(ctx context.Context, data *HandlerData) (bool, yaerrors.Error)

// Limiter counts hits per (id, group) and reports when one is over its limit.
// yaratelimit.RateLimit satisfies it.
type Limiter interface {
	Increment(ctx context.Context, id int64, group string) (bool, yaerrors.Error)
}

// runMiddlewares evaluates middlewares in order and stops at the first true.
func runMiddlewares(ctx context.Context, data *HandlerData, middlewares []Middleware) (bool, yaerrors.Error) {
	for i, mw := range middlewares {
		stop, err := mw(ctx, data)
		if err != nil {
			return false, err.Wrap(fmt.Sprintf("[MIDDLEWARE] middleware #%d failed", i))
		}

		if stop {
			data.Log.Debugf("Middleware #%d short-circuited update", i)

			return true, nil
		}
	}

	return false, nil
}

// IgnoreUsers swallows updates sent by any of ids, e.g. the bot's own account.
//
// Example usage:
//
//	dispatcher.RegisterMiddleware(yatgbot.IgnoreUsers(botID))
func IgnoreUsers(ids ...int64) Middleware {
	return func(_ context.Context, data *HandlerData) (bool, yaerrors.Error) {
		userID, ok := data.UserID()

		return ok && slices.Contains(ids, userID), nil
	}
}

// RateLimit swallows updates of chats that are over the limiter's quota for group.
// Chat-less updates are never limited.
//
// Example usage:
//
//	limiter := yaratelimit.NewRateLimit(cache, 30, time.Minute)
//	dispatcher.RegisterMiddleware(yatgbot.RateLimit(limiter, "updates"))
func RateLimit(limiter Limiter, group string) Middleware {
	return func(ctx context.Context, data *HandlerData) (bool, yaerrors.Error) {
		chatID, ok := data.ChatID()
		if !ok {
			return false, nil
		}

		limited, err := limiter.Increment(ctx, chatID, group)
		if err != nil {
			return false, err.Wrap("[MIDDLEWARE] failed to check rate limit")
		}

		if limited {
			data.Log.Warnf("Chat %d is over the `%s` rate limit", chatID, group)
		}

		return limited, nil
	}
}

// LogUpdates logs the kind of every incoming update at debug level.
func LogUpdates() Middleware {
	return func(_ context.Context, data *HandlerData) (bool, yaerrors.Error) {
		data.Log.Debugf("Received %s update", data.Update.Kind())

		return false, nil
	}
}
