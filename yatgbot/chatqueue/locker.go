// Package chatqueue serializes dispatch per chat while letting distinct chats
// run in parallel.
package chatqueue

import (
	"context"
	"sync"

	"github.com/YaCodeDev/GoYaCodeDevDispatch/yaerrors"
	"github.com/YaCodeDev/GoYaCodeDevDispatch/yatgbot"
)

type chatLock struct {
	mutex sync.Mutex
	refs  int
}

// Locker wraps a router with one mutex per chat. Locks are dropped as soon as
// no dispatch holds or waits for them.
type Locker struct {
	router yatgbot.Router

	mutex sync.Mutex
	chats map[int64]*chatLock
}

// NewLocker wraps router.
//
// Example usage:
//
//	locker := chatqueue.NewLocker(root)
//	handled, err := locker.Dispatch(ctx, update) // safe from many goroutines
func NewLocker(router yatgbot.Router) *Locker {
	return &Locker{
		router: router,
		chats:  make(map[int64]*chatLock),
	}
}

// Dispatch runs the router with the update's chat locked. Chat-less updates
// are not serialized.
func (l *Locker) Dispatch(ctx context.Context, update *yatgbot.Update) (bool, yaerrors.Error) {
	if update == nil {
		return l.router.Dispatch(ctx, update)
	}

	chatID, ok := update.ChatID()
	if !ok {
		return l.router.Dispatch(ctx, update)
	}

	lock := l.acquire(chatID)
	defer l.release(chatID, lock)

	return l.router.Dispatch(ctx, update)
}

// Len reports how many chats hold a lock right now.
func (l *Locker) Len() int {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	return len(l.chats)
}

func (l *Locker) acquire(chatID int64) *chatLock {
	l.mutex.Lock()

	lock, ok := l.chats[chatID]
	if !ok {
		lock = &chatLock{}
		l.chats[chatID] = lock
	}

	lock.refs++

	l.mutex.Unlock()

	lock.mutex.Lock()

	return lock
}

func (l *Locker) release(chatID int64, lock *chatLock) {
	lock.mutex.Unlock()

	l.mutex.Lock()
	defer l.mutex.Unlock()

	lock.refs--
	if lock.refs == 0 {
		delete(l.chats, chatID)
	}
}
