package yatgbot

import (
	"context"
	"maps"

	"github.com/YaCodeDev/GoYaCodeDevDispatch/yaerrors"
	"github.com/YaCodeDev/GoYaCodeDevDispatch/yafsm"
	"github.com/YaCodeDev/GoYaCodeDevDispatch/yalogger"
)

// APIClient is the outbound side handlers reply through. The transport owns it.
type APIClient interface {
	SendMessage(ctx context.Context, chatID int64, text string) yaerrors.Error
}

// HandlerData holds the dependencies and context of one dispatch.
type HandlerData struct {
	Update  *Update
	Log     yalogger.Logger
	Client  APIClient
	Storage yafsm.Storage

	chat *yafsm.ChatStorage

	// routing is the state snapshot fetched once per dispatch; it decides
	// which child dispatcher runs and is never modified afterwards.
	routing map[string]string
	// states is the handlers' view of the snapshot, kept in step with writes.
	states map[string]string
}

func newHandlerData(update *Update, deps Dependencies, log yalogger.Logger) *HandlerData {
	chatID, ok := update.ChatID()

	return &HandlerData{
		Update:  update,
		Log:     log,
		Client:  deps.Client,
		Storage: deps.Storage,
		chat:    yafsm.NewChatStorage(deps.Storage, chatID, ok),
	}
}

func (h *HandlerData) ChatID() (int64, bool) {
	return h.Update.ChatID()
}

func (h *HandlerData) UserID() (int64, bool) {
	return h.Update.UserID()
}

// CommandArgs returns the text after the command name, "" for non-commands.
func (h *HandlerData) CommandArgs() string {
	if h.Update.Message == nil {
		return ""
	}

	if _, ok := KindCommand.match(h.Update); !ok {
		return ""
	}

	_, args := splitCommand(h.Update.Message.Text)

	return args
}

// ChatStorage returns the storage bound to this update's chat.
func (h *HandlerData) ChatStorage() *yafsm.ChatStorage {
	return h.chat
}

// snapshot returns the routing snapshot, fetching it on first use. Chat-less
// updates and dispatchers without storage route on an empty snapshot.
func (h *HandlerData) snapshot(ctx context.Context) (map[string]string, yaerrors.Error) {
	if h.routing != nil {
		return h.routing, nil
	}

	chatID, ok := h.ChatID()
	if !ok || h.Storage == nil {
		h.routing = map[string]string{}

		return h.routing, nil
	}

	states, err := h.Storage.GetAll(ctx, chatID)
	if err != nil {
		return nil, err.Wrap("[DISPATCH] failed to fetch state snapshot")
	}

	h.routing = states

	return h.routing, nil
}

func (h *HandlerData) view(ctx context.Context) (map[string]string, yaerrors.Error) {
	if _, err := h.chat.ChatID(); err != nil {
		return nil, err
	}

	if h.states == nil {
		routing, err := h.snapshot(ctx)
		if err != nil {
			return nil, err
		}

		h.states = maps.Clone(routing)
	}

	return h.states, nil
}

// State returns the state stored under key as of this dispatch.
//
// Example usage:
//
//	state, ok, err := data.State(ctx, "root")
func (h *HandlerData) State(ctx context.Context, key string) (string, bool, yaerrors.Error) {
	states, err := h.view(ctx)
	if err != nil {
		return "", false, err
	}

	value, ok := states[key]

	return value, ok, nil
}

// States returns a copy of every state of the chat.
func (h *HandlerData) States(ctx context.Context) (map[string]string, yaerrors.Error) {
	states, err := h.view(ctx)
	if err != nil {
		return nil, err
	}

	return maps.Clone(states), nil
}

// SetState stores value under key for this update's chat.
//
// Example usage:
//
//	if err := data.SetState(ctx, "root", "checkout"); err != nil {
//		return err.Wrap("failed to enter checkout")
//	}
func (h *HandlerData) SetState(ctx context.Context, key string, value string) yaerrors.Error {
	states, err := h.view(ctx)
	if err != nil {
		return err
	}

	if err := h.chat.Set(ctx, key, value); err != nil {
		return err
	}

	states[key] = value

	return nil
}

// ResetState removes the states under keys.
func (h *HandlerData) ResetState(ctx context.Context, keys ...string) yaerrors.Error {
	states, err := h.view(ctx)
	if err != nil {
		return err
	}

	if err := h.chat.Reset(ctx, keys...); err != nil {
		return err
	}

	for _, key := range keys {
		delete(states, key)
	}

	return nil
}

// ResetAllStates removes every state of this update's chat.
func (h *HandlerData) ResetAllStates(ctx context.Context) yaerrors.Error {
	states, err := h.view(ctx)
	if err != nil {
		return err
	}

	if err := h.chat.ResetAll(ctx); err != nil {
		return err
	}

	clear(states)

	return nil
}
