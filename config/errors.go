package config

import "errors"

var (
	ErrFailedToReadFile        = errors.New("failed to read config file")
	ErrFailedToParseYAML       = errors.New("failed to parse YAML config")
	ErrFailedToProcessEnv      = errors.New("failed to process environment")
	ErrInvalidDotEnvFileFormat = errors.New("invalid .env file format")
	ErrInvalidBackend          = errors.New("invalid storage backend")
	ErrInvalidRateLimit        = errors.New("invalid rate limit")
)
