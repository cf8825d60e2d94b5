package chatqueue

import "errors"

var (
	ErrQueueClosed = errors.New("queue is closed")
	ErrUpdateNil   = errors.New("update is nil")
)
