package yatgbot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/YaCodeDev/GoYaCodeDevDispatch/yaerrors"
	"github.com/YaCodeDev/GoYaCodeDevDispatch/yafsm"
	"github.com/YaCodeDev/GoYaCodeDevDispatch/yalogger"
	"github.com/google/uuid"
)

// KeyUpdateID is the log field carrying the update id.
const KeyUpdateID = "update_id"

// Dependencies are the collaborators a dispatcher hands to its handlers.
// Every field is optional.
type Dependencies struct {
	Storage yafsm.Storage
	Log     yalogger.Logger
	Client  APIClient
}

// Router is implemented by [Dispatcher] and [StateDispatcher].
type Router interface {
	Dispatch(ctx context.Context, update *Update) (bool, yaerrors.Error)

	route(ctx context.Context, data *HandlerData) (bool, yaerrors.Error)
	freeze()
	inherit(deps *Dependencies)
	includes(other Router) bool
}

// Dispatcher owns the registries and middleware of one routing scope.
// Registration closes on the first dispatch or on [Dispatcher.Freeze].
type Dispatcher struct {
	deps *Dependencies
	// fallbackLog serves dispatches while deps.Log is unset.
	fallbackLog yalogger.Logger

	mutex  sync.Mutex
	frozen atomic.Bool

	registries  [kindCount]registry
	active      []UpdateKind
	middlewares []Middleware
}

var _ Router = (*Dispatcher)(nil)

// NewDispatcher creates an empty dispatcher. deps may be nil.
//
// Example usage:
//
//	dispatcher := yatgbot.NewDispatcher(&yatgbot.Dependencies{Storage: storage, Log: log})
//	_ = dispatcher.RegisterCommandHandler("start", onStart)
//	handled, err := dispatcher.Dispatch(ctx, update)
func NewDispatcher(deps *Dependencies) *Dispatcher {
	if deps == nil {
		deps = &Dependencies{}
	}

	copied := *deps

	return &Dispatcher{
		deps:        &copied,
		fallbackLog: yalogger.NewBaseLogger(nil).NewLogger(),
	}
}

// RegisterHandler registers handler for kind. Keyed kinds take a string,
// *regexp.Regexp or [Pattern] key; the other kinds take a nil key.
//
// Example usage:
//
//	err := dispatcher.RegisterHandler(yatgbot.KindCallback, yatgbot.MustRegex(`^buy:\d+`), onBuy)
func (d *Dispatcher) RegisterHandler(kind UpdateKind, key any, handler any) yaerrors.Error {
	if !kind.Valid() {
		return yaerrors.FromError(
			http.StatusBadRequest,
			ErrUnknownKind,
			fmt.Sprintf("[REGISTRY] kind %d is not declared", kind),
		)
	}

	h, err := adaptHandler(handler)
	if err != nil {
		return err.Wrap(fmt.Sprintf("[REGISTRY] failed to register %s handler", kind))
	}

	var pattern Pattern

	switch {
	case kind.Keyed():
		if pattern, err = toPattern(key); err != nil {
			return err.Wrap(fmt.Sprintf("[REGISTRY] failed to register %s handler", kind))
		}
	case key != nil:
		return yaerrors.FromError(
			http.StatusBadRequest,
			ErrBadHandlerRegistration,
			fmt.Sprintf("[REGISTRY] %s handlers take no key", kind),
		)
	}

	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.frozen.Load() {
		return registrationClosed(kind.String())
	}

	if d.registries[kind] == nil {
		if kind.Keyed() {
			d.registries[kind] = newPatternRegistry()
		} else {
			d.registries[kind] = &simpleRegistry{}
		}

		d.active = append(d.active, kind)
	}

	d.registries[kind].add(pattern, h)

	return nil
}

// RegisterCommandHandler registers handler for a command. The leading slash
// is optional and a trailing "*" registers a prefix.
//
// Example usage:
//
//	err := dispatcher.RegisterCommandHandler("/start", func(ctx context.Context, data *yatgbot.HandlerData) yaerrors.Error {
//		chatID, _ := data.ChatID()
//
//		return data.Client.SendMessage(ctx, chatID, "hello")
//	})
func (d *Dispatcher) RegisterCommandHandler(command any, handler any) yaerrors.Error {
	if name, ok := command.(string); ok {
		command = strings.TrimPrefix(name, commandPrefix)
	}

	return d.RegisterHandler(KindCommand, command, handler)
}

// RegisterMessageHandler registers handler for plain text messages matching textOrPattern.
func (d *Dispatcher) RegisterMessageHandler(textOrPattern any, handler any) yaerrors.Error {
	return d.RegisterHandler(KindMessage, textOrPattern, handler)
}

// RegisterCallbackHandler registers handler for callback queries whose data matches dataOrPattern.
func (d *Dispatcher) RegisterCallbackHandler(dataOrPattern any, handler any) yaerrors.Error {
	return d.RegisterHandler(KindCallback, dataOrPattern, handler)
}

// RegisterInlineHandler registers handler for inline queries matching queryOrPattern.
func (d *Dispatcher) RegisterInlineHandler(queryOrPattern any, handler any) yaerrors.Error {
	return d.RegisterHandler(KindInline, queryOrPattern, handler)
}

// RegisterMiddleware appends middlewares to the chain.
//
// Example usage:
//
//	_ = dispatcher.RegisterMiddleware(yatgbot.LogUpdates(), yatgbot.IgnoreUsers(botID))
func (d *Dispatcher) RegisterMiddleware(middlewares ...Middleware) yaerrors.Error {
	for i, mw := range middlewares {
		if mw == nil {
			return yaerrors.FromError(
				http.StatusBadRequest,
				ErrBadHandlerRegistration,
				fmt.Sprintf("[REGISTRY] middleware #%d is nil", i),
			)
		}
	}

	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.frozen.Load() {
		return registrationClosed("middleware")
	}

	d.middlewares = append(d.middlewares, middlewares...)

	return nil
}

// Freeze closes registration. Dispatch freezes implicitly.
func (d *Dispatcher) Freeze() {
	d.freeze()
}

// Dispatch routes one update. It reports false, nil when nothing handled it.
func (d *Dispatcher) Dispatch(ctx context.Context, update *Update) (bool, yaerrors.Error) {
	return dispatch(ctx, d, d, update)
}

// DispatchRaw decodes data with [DecodeUpdate] and dispatches it.
func (d *Dispatcher) DispatchRaw(ctx context.Context, data []byte) (bool, yaerrors.Error) {
	update, err := DecodeUpdate(data)
	if err != nil {
		return false, err
	}

	return d.Dispatch(ctx, update)
}

func (d *Dispatcher) route(ctx context.Context, data *HandlerData) (bool, yaerrors.Error) {
	if stop, err := runMiddlewares(ctx, data, d.middlewares); err != nil || stop {
		return stop, err
	}

	return d.classify(ctx, data)
}

// classify tries the active kinds in registration order. The first kind
// whose predicate matches and whose handler does not decline wins.
func (d *Dispatcher) classify(ctx context.Context, data *HandlerData) (bool, yaerrors.Error) {
	for _, kind := range d.active {
		key, ok := kind.match(data.Update)
		if !ok {
			continue
		}

		handler, ok := d.registries[kind].resolve(key)
		if !ok {
			continue
		}

		err := handler.Handle(ctx, data)
		if err == nil {
			data.Log.Debugf("Update handled as %s", kind)

			return true, nil
		}

		if errors.Is(err, ErrRouteMismatch) {
			data.Log.Tracef("%s handler declined update", kind)

			continue
		}

		return false, err.Wrap(fmt.Sprintf("[DISPATCH] %s handler failed", kind))
	}

	return false, nil
}

func (d *Dispatcher) freeze() {
	if d.frozen.Load() {
		return
	}

	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.frozen.Store(true)
}

// inherit fills the dependencies this dispatcher was built without.
func (d *Dispatcher) inherit(deps *Dependencies) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.frozen.Load() {
		return
	}

	if d.deps.Storage == nil {
		d.deps.Storage = deps.Storage
	}

	if d.deps.Log == nil {
		d.deps.Log = deps.Log
	}

	if d.deps.Client == nil {
		d.deps.Client = deps.Client
	}
}

func (d *Dispatcher) includes(other Router) bool {
	return Router(d) == other
}

// dispatch builds the per-update HandlerData from the dependencies of d and runs r on it.
func dispatch(ctx context.Context, r Router, d *Dispatcher, update *Update) (bool, yaerrors.Error) {
	if update == nil {
		return false, yaerrors.FromError(
			http.StatusBadRequest,
			ErrNilUpdate,
			"[DISPATCH] nothing to dispatch",
		)
	}

	r.freeze()

	deps := d.deps

	log := deps.Log
	if log == nil {
		log = d.fallbackLog
	}

	log = log.WithRequestUUID(uuid.New()).WithField(KeyUpdateID, update.UpdateID)

	if chatID, ok := update.ChatID(); ok {
		log = log.WithChatID(chatID)
	}

	if userID, ok := update.UserID(); ok {
		log = log.WithUserID(userID)
	}

	handled, err := r.route(ctx, newHandlerData(update, *deps, log))
	if err != nil {
		log.Errorf("Failed to dispatch update: %v", err)

		return false, err
	}

	if !handled {
		log.Debug("No handler matched update")
	}

	return handled, nil
}

func registrationClosed(what string) yaerrors.Error {
	return yaerrors.FromError(
		http.StatusConflict,
		ErrRegistrationClosed,
		fmt.Sprintf("[REGISTRY] cannot register %s after freeze", what),
	)
}
