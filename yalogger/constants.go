package yalogger

import "errors"

// Level mirrors the logrus level numbering so it can be converted directly.
type Level uint32

const (
	PanicLevel Level = iota
	FatalLevel
	ErrorLevel
	WarnLevel
	InfoLevel
	DebugLevel
	TraceLevel
)

type BaseLoggerType uint8

const (
	Logrus BaseLoggerType = iota
)

const (
	KeyRequestID = "request_id"
	KeyUserID    = "user_id"
	KeyChatID    = "chat_id"
)

const defaultTimestampFormat = "2006-01-02 15:04:05"

var ErrInvalidLogLevel = errors.New("invalid log level")
