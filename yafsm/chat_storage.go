package yafsm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/YaCodeDev/GoYaCodeDevDispatch/yaerrors"
	"github.com/vmihailenco/msgpack/v5"
)

// ChatStorage is a Storage bound to one chat. It is built per dispatch; when
// the update carries no chat every accessor fails with [ErrStateUnavailable].
type ChatStorage struct {
	storage Storage
	chatID  int64
	ok      bool
}

// NewChatStorage binds storage to chatID. Pass ok=false for chat-less updates.
func NewChatStorage(storage Storage, chatID int64, ok bool) *ChatStorage {
	return &ChatStorage{
		storage: storage,
		chatID:  chatID,
		ok:      ok,
	}
}

// ChatID returns the bound chat id or [ErrStateUnavailable].
func (c *ChatStorage) ChatID() (int64, yaerrors.Error) {
	if !c.ok {
		return 0, yaerrors.FromError(
			http.StatusUnprocessableEntity,
			ErrStateUnavailable,
			"[FSM] chat id cannot be derived from update",
		)
	}

	if c.storage == nil {
		return 0, yaerrors.FromError(
			http.StatusInternalServerError,
			ErrStorageMissing,
			"[FSM] no storage bound to chat",
		)
	}

	return c.chatID, nil
}

func (c *ChatStorage) Set(ctx context.Context, key string, value string) yaerrors.Error {
	chatID, err := c.ChatID()
	if err != nil {
		return err
	}

	return c.storage.Set(ctx, chatID, key, value)
}

func (c *ChatStorage) Get(ctx context.Context, key string) (string, bool, yaerrors.Error) {
	chatID, err := c.ChatID()
	if err != nil {
		return "", false, err
	}

	return c.storage.Get(ctx, chatID, key)
}

func (c *ChatStorage) GetAll(ctx context.Context) (map[string]string, yaerrors.Error) {
	chatID, err := c.ChatID()
	if err != nil {
		return nil, err
	}

	return c.storage.GetAll(ctx, chatID)
}

func (c *ChatStorage) Reset(ctx context.Context, keys ...string) yaerrors.Error {
	chatID, err := c.ChatID()
	if err != nil {
		return err
	}

	return c.storage.Reset(ctx, chatID, keys...)
}

func (c *ChatStorage) ResetAll(ctx context.Context) yaerrors.Error {
	chatID, err := c.ChatID()
	if err != nil {
		return err
	}

	return c.storage.ResetAll(ctx, chatID)
}

// SetState stores state.StateName() under key and, when the storage keeps
// payloads, the msgpack-encoded state next to it.
//
// Example usage:
//
//	err := chat.SetState(ctx, "root", AwaitingAddress{OrderID: 7})
func (c *ChatStorage) SetState(ctx context.Context, key string, state State) yaerrors.Error {
	chatID, err := c.ChatID()
	if err != nil {
		return err
	}

	if err := c.storage.Set(ctx, chatID, key, state.StateName()); err != nil {
		return err.Wrap("[FSM] failed to set typed state")
	}

	dataStorage, ok := c.storage.(DataStorage)
	if !ok {
		return nil
	}

	data, encodeErr := msgpack.Marshal(state)
	if encodeErr != nil {
		return yaerrors.FromError(
			http.StatusInternalServerError,
			errors.Join(encodeErr, ErrFailedToMarshal),
			fmt.Sprintf("[FSM] failed to marshal %T", state),
		)
	}

	if err := dataStorage.SetData(ctx, chatID, key, data); err != nil {
		return err.Wrap("[FSM] failed to set typed state data")
	}

	return nil
}

// StateData decodes the payload stored by SetState into into. The state
// stored under key must be into.StateName(), otherwise [ErrStateMismatch].
//
// Example usage:
//
//	var state AwaitingAddress
//	if err := chat.StateData(ctx, "root", &state); err != nil { … }
func (c *ChatStorage) StateData(ctx context.Context, key string, into State) yaerrors.Error {
	chatID, err := c.ChatID()
	if err != nil {
		return err
	}

	dataStorage, ok := c.storage.(DataStorage)
	if !ok {
		return yaerrors.FromError(
			http.StatusInternalServerError,
			ErrDataUnsupported,
			fmt.Sprintf("[FSM] %T keeps no state data", c.storage),
		)
	}

	name, ok, err := c.storage.Get(ctx, chatID, key)
	if err != nil {
		return err.Wrap("[FSM] failed to get typed state")
	}

	if !ok {
		return yaerrors.FromError(
			http.StatusNotFound,
			ErrStateDataNotFound,
			fmt.Sprintf("[FSM] no state under `%s`", key),
		)
	}

	if name != into.StateName() {
		return yaerrors.FromError(
			http.StatusConflict,
			ErrStateMismatch,
			fmt.Sprintf("[FSM] state under `%s` is `%s`, not `%s`", key, name, into.StateName()),
		)
	}

	data, ok, err := dataStorage.GetData(ctx, chatID, key)
	if err != nil {
		return err.Wrap("[FSM] failed to get typed state data")
	}

	if !ok {
		return yaerrors.FromError(
			http.StatusNotFound,
			ErrStateDataNotFound,
			fmt.Sprintf("[FSM] no state data under `%s`", key),
		)
	}

	if err := msgpack.Unmarshal(data, into); err != nil {
		return yaerrors.FromError(
			http.StatusInternalServerError,
			errors.Join(err, ErrFailedToUnmarshal),
			fmt.Sprintf("[FSM] failed to unmarshal %T", into),
		)
	}

	return nil
}
