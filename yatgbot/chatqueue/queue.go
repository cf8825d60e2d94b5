package chatqueue

import (
	"context"
	"net/http"
	"sync"

	"github.com/YaCodeDev/GoYaCodeDevDispatch/yaerrors"
	"github.com/YaCodeDev/GoYaCodeDevDispatch/yalogger"
	"github.com/YaCodeDev/GoYaCodeDevDispatch/yatgbot"
)

// ErrorHandler receives updates whose dispatch failed. The queue has already
// logged the error.
type ErrorHandler func(ctx context.Context, update *yatgbot.Update, err yaerrors.Error)

// Queue dispatches pushed updates asynchronously. Updates of one chat run in
// push order, one at a time; each chat with pending updates gets its own
// goroutine, which exits once the chat's queue is empty.
type Queue struct {
	ctx     context.Context
	router  yatgbot.Router
	log     yalogger.Logger
	onError ErrorHandler

	mutex   sync.Mutex
	pending map[int64][]*yatgbot.Update
	closed  bool
	wg      sync.WaitGroup
}

// NewQueue creates a queue dispatching through router with ctx. onError may be nil.
//
// Example usage:
//
//	queue := chatqueue.NewQueue(ctx, root, log, nil)
//	defer queue.Close(ctx)
//
//	for update := range updates {
//		_ = queue.Push(update)
//	}
func NewQueue(
	ctx context.Context,
	router yatgbot.Router,
	log yalogger.Logger,
	onError ErrorHandler,
) *Queue {
	if log == nil {
		log = yalogger.NewBaseLogger(nil).NewLogger()
	}

	return &Queue{
		ctx:     ctx,
		router:  router,
		log:     log,
		onError: onError,
		pending: make(map[int64][]*yatgbot.Update),
	}
}

// Push enqueues update. Chat-less updates are dispatched right away on their
// own goroutine.
func (q *Queue) Push(update *yatgbot.Update) yaerrors.Error {
	if update == nil {
		return yaerrors.FromError(
			http.StatusBadRequest,
			ErrUpdateNil,
			"[QUEUE] nothing to push",
		)
	}

	q.mutex.Lock()
	defer q.mutex.Unlock()

	if q.closed {
		return yaerrors.FromError(
			http.StatusServiceUnavailable,
			ErrQueueClosed,
			"[QUEUE] failed to push update",
		)
	}

	chatID, ok := update.ChatID()
	if !ok {
		q.wg.Add(1)

		go func() {
			defer q.wg.Done()

			q.handle(update)
		}()

		return nil
	}

	queue, running := q.pending[chatID]
	q.pending[chatID] = append(queue, update)

	if !running {
		q.wg.Add(1)

		go q.drain(chatID)
	}

	return nil
}

// Pending reports how many updates wait for their chat's worker.
func (q *Queue) Pending() int {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	total := 0
	for _, queue := range q.pending {
		total += len(queue)
	}

	return total
}

// Close stops intake and waits until every pushed update is dispatched or ctx ends.
func (q *Queue) Close(ctx context.Context) yaerrors.Error {
	q.mutex.Lock()
	q.closed = true
	q.mutex.Unlock()

	done := make(chan struct{})

	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return yaerrors.FromError(
			http.StatusRequestTimeout,
			ctx.Err(),
			"[QUEUE] failed to drain before shutdown",
		)
	}
}

// drain dispatches the chat's updates until its queue is empty.
func (q *Queue) drain(chatID int64) {
	defer q.wg.Done()

	for {
		q.mutex.Lock()

		queue := q.pending[chatID]
		if len(queue) == 0 {
			delete(q.pending, chatID)
			q.mutex.Unlock()

			return
		}

		update := queue[0]
		queue[0] = nil
		q.pending[chatID] = queue[1:]

		q.mutex.Unlock()

		q.handle(update)
	}
}

func (q *Queue) handle(update *yatgbot.Update) {
	if _, err := q.router.Dispatch(q.ctx, update); err != nil {
		q.log.WithField(yatgbot.KeyUpdateID, update.UpdateID).
			Errorf("Failed to dispatch queued update: %v", err)

		if q.onError != nil {
			q.onError(q.ctx, update, err)
		}
	}
}
