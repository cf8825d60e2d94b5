package yatgbot

import (
	"context"
	"fmt"
	"maps"
	"net/http"
	"slices"

	"github.com/YaCodeDev/GoYaCodeDevDispatch/yaerrors"
)

// StateDispatcher is a Dispatcher whose chat state under key selects a child
// router. The child runs first; the dispatcher's own handlers run after it
// whether or not the child handled the update.
//
// Example usage:
//
//	root := yatgbot.NewStateDispatcher("root", &yatgbot.Dependencies{Storage: storage})
//	checkout := yatgbot.NewStateDispatcher("checkout", nil)
//	_ = root.RegisterState("checkout", checkout)
//	_ = root.RegisterCommandHandler("cancel", onCancel)
type StateDispatcher struct {
	*Dispatcher

	key      string
	children map[string]Router
}

var _ Router = (*StateDispatcher)(nil)

func NewStateDispatcher(key string, deps *Dependencies) *StateDispatcher {
	return &StateDispatcher{
		Dispatcher: NewDispatcher(deps),
		key:        key,
		children:   make(map[string]Router),
	}
}

// Key is the state key this dispatcher routes on.
func (s *StateDispatcher) Key() string {
	return s.key
}

// RegisterState routes chats whose state under Key is name to child.
// The child inherits the dependencies it was built without.
func (s *StateDispatcher) RegisterState(name string, child Router) yaerrors.Error {
	if name == "" || child == nil {
		return yaerrors.FromError(
			http.StatusBadRequest,
			ErrInvalidState,
			fmt.Sprintf("[REGISTRY] state `%s` of `%s` needs a name and a router", name, s.key),
		)
	}

	if child.includes(s) {
		return yaerrors.FromError(
			http.StatusConflict,
			ErrStateCycle,
			fmt.Sprintf("[REGISTRY] state `%s` of `%s` leads back to `%s`", name, s.key, s.key),
		)
	}

	if err := s.addChild(name, child); err != nil {
		return err
	}

	child.inherit(s.deps)

	return nil
}

func (s *StateDispatcher) addChild(name string, child Router) yaerrors.Error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.frozen.Load() {
		return registrationClosed(fmt.Sprintf("state `%s`", name))
	}

	if _, ok := s.children[name]; ok {
		return yaerrors.FromError(
			http.StatusConflict,
			ErrDuplicateState,
			fmt.Sprintf("[REGISTRY] state `%s` of `%s` is already registered", name, s.key),
		)
	}

	s.children[name] = child

	return nil
}

// States lists the registered state names in sorted order.
func (s *StateDispatcher) States() []string {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return slices.Sorted(maps.Keys(s.children))
}

// DirectHandling wraps handler so that it runs only while the chat has no
// state under Key. Otherwise the wrapper declines with [ErrRouteMismatch].
//
// Example usage:
//
//	greet, _ := root.DirectHandling(onAnyText)
//	_ = root.RegisterMessageHandler("*", greet)
func (s *StateDispatcher) DirectHandling(handler any) (Handler, yaerrors.Error) {
	inner, err := adaptHandler(handler)
	if err != nil {
		return nil, err.Wrap(fmt.Sprintf("[REGISTRY] failed to wrap direct handler of `%s`", s.key))
	}

	return HandlerFunc(func(ctx context.Context, data *HandlerData) yaerrors.Error {
		snapshot, err := data.snapshot(ctx)
		if err != nil {
			return err
		}

		if _, ok := snapshot[s.key]; ok {
			return ErrRouteMismatch
		}

		return inner.Handle(ctx, data)
	}), nil
}

// MustDirectHandling is DirectHandling that panics on a bad handler.
func (s *StateDispatcher) MustDirectHandling(handler any) Handler {
	wrapped, err := s.DirectHandling(handler)
	if err != nil {
		panic(err)
	}

	return wrapped
}

// Freeze closes registration on s and every router below it.
func (s *StateDispatcher) Freeze() {
	s.freeze()
}

func (s *StateDispatcher) Dispatch(ctx context.Context, update *Update) (bool, yaerrors.Error) {
	return dispatch(ctx, s, s.Dispatcher, update)
}

// DispatchRaw decodes data with [DecodeUpdate] and dispatches it.
func (s *StateDispatcher) DispatchRaw(ctx context.Context, data []byte) (bool, yaerrors.Error) {
	update, err := DecodeUpdate(data)
	if err != nil {
		return false, err
	}

	return s.Dispatch(ctx, update)
}

func (s *StateDispatcher) route(ctx context.Context, data *HandlerData) (bool, yaerrors.Error) {
	if stop, err := runMiddlewares(ctx, data, s.middlewares); err != nil || stop {
		return stop, err
	}

	snapshot, err := data.snapshot(ctx)
	if err != nil {
		return false, err
	}

	var childHandled bool

	if name, ok := snapshot[s.key]; ok {
		if child, ok := s.children[name]; ok {
			data.Log.Debugf("Routing to state `%s` of `%s`", name, s.key)

			if childHandled, err = child.route(ctx, data); err != nil {
				return false, err.Wrap(fmt.Sprintf("[DISPATCH] state `%s` of `%s` failed", name, s.key))
			}
		} else {
			data.Log.Debugf("State `%s` of `%s` has no router", name, s.key)
		}
	}

	handled, err := s.classify(ctx, data)
	if err != nil {
		return false, err
	}

	return childHandled || handled, nil
}

// freeze closes the children before the dispatcher itself, so a caller that
// observes the flag set never routes into an open child.
func (s *StateDispatcher) freeze() {
	if s.frozen.Load() {
		return
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.frozen.Load() {
		return
	}

	for _, child := range s.children {
		child.freeze()
	}

	s.frozen.Store(true)
}

func (s *StateDispatcher) inherit(deps *Dependencies) {
	s.Dispatcher.inherit(deps)

	s.mutex.Lock()
	children := slices.Collect(maps.Values(s.children))
	s.mutex.Unlock()

	for _, child := range children {
		child.inherit(s.deps)
	}
}

func (s *StateDispatcher) includes(other Router) bool {
	if Router(s) == other {
		return true
	}

	s.mutex.Lock()
	children := slices.Collect(maps.Values(s.children))
	s.mutex.Unlock()

	for _, child := range children {
		if child.includes(other) {
			return true
		}
	}

	return false
}
