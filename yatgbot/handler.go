package yatgbot

import (
	"context"
	"fmt"
	"net/http"
	"reflect"

	"github.com/YaCodeDev/GoYaCodeDevDispatch/yaerrors"
)

// Handler processes a matched update. Returning [ErrRouteMismatch] declines
// the update; any other error aborts the dispatch.
type Handler interface {
	Handle(ctx context.Context, data *HandlerData) yaerrors.Error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, data *HandlerData) yaerrors.Error

func (f HandlerFunc) Handle(ctx context.Context, data *HandlerData) yaerrors.Error {
	return f(ctx, data)
}

// LegacyHandlerFunc is the (chat id, update) handler shape. Chat-less updates pass 0.
type LegacyHandlerFunc func(chatID int64, update *Update) error

func (f LegacyHandlerFunc) Handle(_ context.Context, data *HandlerData) yaerrors.Error {
	chatID, _ := data.ChatID()

	return fromPlainError(f(chatID, data.Update))
}

// adaptHandler accepts every supported handler shape.
func adaptHandler(h any) (Handler, yaerrors.Error) {
	switch fn := h.(type) {
	case nil:
	case HandlerFunc:
		if fn != nil {
			return fn, nil
		}
	case LegacyHandlerFunc:
		if fn != nil {
			return fn, nil
		}
	case Handler:
		if !isNilValue(fn) {
			return fn, nil
		}
	case func(context.Context, *HandlerData) yaerrors.Error:
		if fn != nil {
			return HandlerFunc(fn), nil
		}
	case func(context.Context, *HandlerData) error:
		if fn != nil {
			return HandlerFunc(func(ctx context.Context, data *HandlerData) yaerrors.Error {
				return fromPlainError(fn(ctx, data))
			}), nil
		}
	case func(*HandlerData) error:
		if fn != nil {
			return HandlerFunc(func(_ context.Context, data *HandlerData) yaerrors.Error {
				return fromPlainError(fn(data))
			}), nil
		}
	case func(int64, *Update) error:
		if fn != nil {
			return LegacyHandlerFunc(fn), nil
		}
	case func(int64, *Update):
		if fn != nil {
			return LegacyHandlerFunc(func(chatID int64, update *Update) error {
				fn(chatID, update)

				return nil
			}), nil
		}
	}

	return nil, yaerrors.FromError(
		http.StatusBadRequest,
		ErrBadHandlerRegistration,
		fmt.Sprintf("[REGISTRY] unsupported handler %T", h),
	)
}

// fromPlainError keeps yaerrors.Error values intact and wraps everything else as a 500.
func fromPlainError(err error) yaerrors.Error {
	if err == nil {
		return nil
	}

	if yaErr, ok := err.(yaerrors.Error); ok { //nolint:errorlint // keep the outermost traceback
		return yaErr
	}

	return yaerrors.FromError(http.StatusInternalServerError, err, "[HANDLER] handler failed")
}

// isNilValue reports whether v holds a nil pointer, func, map, chan or slice.
func isNilValue(v any) bool {
	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Map, reflect.Chan, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
