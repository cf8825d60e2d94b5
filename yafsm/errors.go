package yafsm

import "errors"

var (
	// ErrStateUnavailable is returned by state accessors when the current update
	// carries no chat to scope the state to.
	ErrStateUnavailable = errors.New("state unavailable: update has no chat")

	ErrStorageMissing     = errors.New("state storage is not configured")
	ErrDataUnsupported    = errors.New("state storage does not keep state data")
	ErrStateDataNotFound  = errors.New("state data not found")
	ErrStateMismatch      = errors.New("stored state does not match requested state")
	ErrUnknownBackend     = errors.New("unknown state storage backend")
	ErrFailedToMarshal    = errors.New("failed to marshal state data")
	ErrFailedToUnmarshal  = errors.New("failed to unmarshal state data")
	ErrFailedToOpenSQLite = errors.New("failed to open sqlite database")
)
