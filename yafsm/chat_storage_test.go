package yafsm_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/YaCodeDev/GoYaCodeDevDispatch/yafsm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type AwaitingAddress struct {
	yafsm.BaseState[AwaitingAddress]

	OrderID int64
	Items   []string
}

type AwaitingPayment struct {
	yafsm.BaseState[AwaitingPayment]

	Amount int64
}

// stateOnly hides the DataStorage methods of the wrapped storage.
type stateOnly struct {
	yafsm.Storage
}

func TestBaseState_Name(t *testing.T) {
	assert.Equal(t, "AwaitingAddress", AwaitingAddress{}.StateName())
	assert.Equal(t, "AwaitingPayment", (&AwaitingPayment{}).StateName())
	assert.Equal(t, "EmptyState", yafsm.EmptyState{}.StateName())
}

func TestChatStorage_Unavailable(t *testing.T) {
	ctx := context.Background()

	t.Run("Chat-less update", func(t *testing.T) {
		chat := yafsm.NewChatStorage(yafsm.NewMemoryStorage("test"), 0, false)

		_, _, err := chat.Get(ctx, "root")

		require.NotNil(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, err.Code())
		assert.ErrorIs(t, err, yafsm.ErrStateUnavailable)

		for _, call := range []func() error{
			func() error { return chat.Set(ctx, "root", "x") },
			func() error {
				_, err := chat.GetAll(ctx)

				return err
			},
			func() error { return chat.Reset(ctx, "root") },
			func() error { return chat.ResetAll(ctx) },
			func() error { return chat.SetState(ctx, "root", AwaitingPayment{}) },
		} {
			assert.ErrorIs(t, call(), yafsm.ErrStateUnavailable)
		}
	})

	t.Run("No storage", func(t *testing.T) {
		chat := yafsm.NewChatStorage(nil, 42, true)

		_, err := chat.ChatID()

		require.NotNil(t, err)
		assert.Equal(t, http.StatusInternalServerError, err.Code())
		assert.ErrorIs(t, err, yafsm.ErrStorageMissing)
	})
}

func TestChatStorage_BoundChat(t *testing.T) {
	ctx := context.Background()
	storage := yafsm.NewMemoryStorage("test")
	chat := yafsm.NewChatStorage(storage, 42, true)

	require.Nil(t, chat.Set(ctx, "root", "checkout"))

	value, ok, err := storage.Get(ctx, 42, "root")

	require.Nil(t, err)
	assert.True(t, ok)
	assert.Equal(t, "checkout", value)

	require.Nil(t, chat.ResetAll(ctx))

	states, err := chat.GetAll(ctx)

	require.Nil(t, err)
	assert.Empty(t, states)
}

func TestChatStorage_TypedState(t *testing.T) {
	ctx := context.Background()

	for name, storage := range backends(t) {
		t.Run(name, func(t *testing.T) {
			chat := yafsm.NewChatStorage(storage, 42, true)

			require.Nil(t, chat.SetState(ctx, "root", AwaitingAddress{OrderID: 7, Items: []string{"tea", "cake"}}))

			stored, ok, err := chat.Get(ctx, "root")

			require.Nil(t, err)
			assert.True(t, ok)
			assert.Equal(t, "AwaitingAddress", stored)

			var state AwaitingAddress

			require.Nil(t, chat.StateData(ctx, "root", &state))
			assert.Equal(t, int64(7), state.OrderID)
			assert.Equal(t, []string{"tea", "cake"}, state.Items)

			var payment AwaitingPayment

			err = chat.StateData(ctx, "root", &payment)

			require.NotNil(t, err)
			assert.Equal(t, http.StatusConflict, err.Code())
			assert.ErrorIs(t, err, yafsm.ErrStateMismatch)

			err = chat.StateData(ctx, "checkout", &payment)

			require.NotNil(t, err)
			assert.Equal(t, http.StatusNotFound, err.Code())
			assert.ErrorIs(t, err, yafsm.ErrStateDataNotFound)
		})
	}
}

func TestChatStorage_StateOnlyStorage(t *testing.T) {
	ctx := context.Background()
	chat := yafsm.NewChatStorage(stateOnly{yafsm.NewMemoryStorage("test")}, 42, true)

	require.Nil(t, chat.SetState(ctx, "root", AwaitingPayment{Amount: 100}))

	name, _, err := chat.Get(ctx, "root")

	require.Nil(t, err)
	assert.Equal(t, "AwaitingPayment", name)

	var state AwaitingPayment

	err = chat.StateData(ctx, "root", &state)

	require.NotNil(t, err)
	assert.ErrorIs(t, err, yafsm.ErrDataUnsupported)
}
