package yatgbot_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/YaCodeDev/GoYaCodeDevDispatch/yacache"
	"github.com/YaCodeDev/GoYaCodeDevDispatch/yaerrors"
	"github.com/YaCodeDev/GoYaCodeDevDispatch/yaratelimit"
	"github.com/YaCodeDev/GoYaCodeDevDispatch/yatgbot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func middleware(calls recorder, name string, stop bool) yatgbot.Middleware {
	return func(context.Context, *yatgbot.HandlerData) (bool, yaerrors.Error) {
		calls[name]++

		return stop, nil
	}
}

func TestMiddleware_Chain(t *testing.T) {
	ctx := context.Background()

	t.Run("True short-circuits the rest", func(t *testing.T) {
		calls := recorder{}
		dispatcher := yatgbot.NewDispatcher(nil)

		require.Nil(t, dispatcher.RegisterMiddleware(
			middleware(calls, "first", false),
			middleware(calls, "second", true),
			middleware(calls, "third", false),
		))
		require.Nil(t, dispatcher.RegisterCommandHandler("start", calls.handler("handler")))

		handled, err := dispatcher.Dispatch(ctx, text(t, "/start"))

		require.Nil(t, err)
		assert.True(t, handled)
		assert.Equal(t, recorder{"first": 1, "second": 1}, calls)
	})

	t.Run("False lets classification run", func(t *testing.T) {
		calls := recorder{}
		dispatcher := yatgbot.NewDispatcher(nil)

		require.Nil(t, dispatcher.RegisterMiddleware(middleware(calls, "first", false)))
		require.Nil(t, dispatcher.RegisterCommandHandler("start", calls.handler("handler")))

		handled, err := dispatcher.Dispatch(ctx, text(t, "/start"))

		require.Nil(t, err)
		assert.True(t, handled)
		assert.Equal(t, recorder{"first": 1, "handler": 1}, calls)
	})

	t.Run("Error aborts the dispatch", func(t *testing.T) {
		errDenied := errors.New("denied")
		calls := recorder{}
		dispatcher := yatgbot.NewDispatcher(nil)

		require.Nil(t, dispatcher.RegisterMiddleware(
			func(context.Context, *yatgbot.HandlerData) (bool, yaerrors.Error) {
				return false, yaerrors.FromError(http.StatusForbidden, errDenied, "no access")
			},
			middleware(calls, "second", false),
		))
		require.Nil(t, dispatcher.RegisterCommandHandler("start", calls.handler("handler")))

		handled, err := dispatcher.Dispatch(ctx, text(t, "/start"))

		require.NotNil(t, err)
		assert.False(t, handled)
		assert.Equal(t, http.StatusForbidden, err.Code())
		assert.ErrorIs(t, err, errDenied)
		assert.Empty(t, calls)
	})
}

func TestMiddleware_BuiltIns(t *testing.T) {
	ctx := context.Background()

	t.Run("IgnoreUsers drops listed senders", func(t *testing.T) {
		calls := recorder{}
		dispatcher := yatgbot.NewDispatcher(nil)

		require.Nil(t, dispatcher.RegisterMiddleware(yatgbot.LogUpdates(), yatgbot.IgnoreUsers(7)))
		require.Nil(t, dispatcher.RegisterCommandHandler("start", calls.handler("handler")))

		handled, err := dispatcher.Dispatch(ctx, text(t, "/start"))

		require.Nil(t, err)
		assert.True(t, handled)
		assert.Empty(t, calls)

		other := text(t, "/start")
		other.Message.From.ID = 8

		_, err = dispatcher.Dispatch(ctx, other)

		require.Nil(t, err)
		assert.Equal(t, recorder{"handler": 1}, calls)
	})

	t.Run("RateLimit drops chats over the limit", func(t *testing.T) {
		calls := recorder{}
		limiter := yaratelimit.NewRateLimit(yacache.NewCache(yacache.NewMemoryContainer()), 2, time.Minute)
		dispatcher := yatgbot.NewDispatcher(nil)

		require.Nil(t, dispatcher.RegisterMiddleware(yatgbot.RateLimit(limiter, "updates")))
		require.Nil(t, dispatcher.RegisterMessageHandler("*", calls.handler("handler")))

		for range 4 {
			handled, err := dispatcher.Dispatch(ctx, text(t, "spam"))

			require.Nil(t, err)
			assert.True(t, handled)
		}

		assert.Equal(t, recorder{"handler": 2}, calls)
	})

	t.Run("RateLimit skips chat-less updates", func(t *testing.T) {
		calls := recorder{}
		limiter := yaratelimit.NewRateLimit(yacache.NewCache(yacache.NewMemoryContainer()), 0, time.Minute)
		dispatcher := yatgbot.NewDispatcher(nil)

		require.Nil(t, dispatcher.RegisterMiddleware(yatgbot.RateLimit(limiter, "updates")))
		require.Nil(t, dispatcher.RegisterInlineHandler("*", calls.handler("inline")))

		handled, err := dispatcher.Dispatch(ctx, decode(t,
			`{"update_id":1,"inline_query":{"id":"q","from":{"id":7},"query":"x"}}`,
		))

		require.Nil(t, err)
		assert.True(t, handled)
		assert.Equal(t, recorder{"inline": 1}, calls)
	})
}
