package yatgbot

import (
	"errors"
	"net/http"

	"github.com/YaCodeDev/GoYaCodeDevDispatch/yaerrors"
)

// ErrRouteMismatch returned by a handler means "not mine": classification
// moves on to the next kind instead of failing the dispatch.
var ErrRouteMismatch = yaerrors.FromString(http.StatusContinue, "route: handler declined update")

var (
	ErrMalformedUpdate        = errors.New("malformed update")
	ErrMissingUpdateID        = errors.New("update has no update_id")
	ErrAmbiguousUpdate        = errors.New("update carries more than one payload")
	ErrNilUpdate              = errors.New("update is nil")
	ErrPayloadAbsent          = errors.New("payload is absent")
	ErrBadHandlerRegistration = errors.New("bad handler registration")
	ErrUnknownKind            = errors.New("unknown update kind")
	ErrRegistrationClosed     = errors.New("registration is closed")
	ErrDuplicateState         = errors.New("state is already registered")
	ErrInvalidState           = errors.New("invalid state registration")
	ErrStateCycle             = errors.New("state registration creates a cycle")
)
