package config

import "time"

const (
	// EnvPrefix prefixes every environment override, e.g. YADISPATCH_STORAGE_BACKEND.
	EnvPrefix = "YADISPATCH"

	DotEnvFile    = ".env"
	DotEnvKVParts = 2
)

const (
	defaultBackend   = "memory"
	defaultRedisHost = "localhost"
	defaultRedisPort = 6379
	defaultWindow    = time.Minute
)

var backends = map[string]struct{}{
	"memory": {},
	"redis":  {},
	"sqlite": {},
}
