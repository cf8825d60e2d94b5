// Package yafsm stores per-chat dispatcher states.
//
// A chat owns one mapping of dispatcher key → state name. Every call takes the
// chat id explicitly, so a single Storage value is safe to share between
// concurrently running dispatches.
//
// Back-ends:
//
//   - [CacheStorage] over yacache (in-process map or Redis hashes);
//   - [GormStorage] over any gorm dialector (sqlite is wired by [Open]).
package yafsm

import (
	"context"
	"fmt"

	"github.com/YaCodeDev/GoYaCodeDevDispatch/yaerrors"
)

// DefaultNamespace prefixes storage keys when no namespace is configured.
const DefaultNamespace = "yadispatch"

// Storage is the state store contract.
//
// Get reports ok=false for a key with no state. GetAll on a chat with no state
// returns an empty map. Reset and ResetAll are idempotent.
type Storage interface {
	Set(ctx context.Context, chatID int64, key string, value string) yaerrors.Error
	Get(ctx context.Context, chatID int64, key string) (string, bool, yaerrors.Error)
	GetAll(ctx context.Context, chatID int64) (map[string]string, yaerrors.Error)
	Reset(ctx context.Context, chatID int64, keys ...string) yaerrors.Error
	ResetAll(ctx context.Context, chatID int64) yaerrors.Error
	Close() yaerrors.Error
}

// DataStorage is implemented by storages that can keep an opaque payload next
// to each state. Reset and ResetAll drop the payloads too.
type DataStorage interface {
	Storage

	SetData(ctx context.Context, chatID int64, key string, data []byte) yaerrors.Error
	GetData(ctx context.Context, chatID int64, key string) ([]byte, bool, yaerrors.Error)
}

// StateKey returns the hash key holding a chat's states: "<namespace>:<chat_id>:state".
func StateKey(namespace string, chatID int64) string {
	return fmt.Sprintf("%s:%d:state", orDefault(namespace), chatID)
}

// DataKey returns the hash key holding a chat's state payloads: "<namespace>:<chat_id>:data".
func DataKey(namespace string, chatID int64) string {
	return fmt.Sprintf("%s:%d:data", orDefault(namespace), chatID)
}

func orDefault(namespace string) string {
	if namespace == "" {
		return DefaultNamespace
	}

	return namespace
}
