package dispatch

import (
	"context"
	"sync"

	"github.com/nguyentantai21042004/subtitle-flow/internal/logger"
)

// LocalQueue runs jobs on goroutines inside the current process, at most
// maxConcurrent at a time. Jobs waiting for a slot do not block Submit.
type LocalQueue struct {
	handler Handler
	slots   *slots
	logger  logger.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewLocal creates an in-process queue feeding handler.
func NewLocal(handler Handler, maxConcurrent int, log logger.Logger) *LocalQueue {
	return &LocalQueue{
		handler: handler,
		slots:   newSlots(maxConcurrent),
		logger:  log,
	}
}

// Submit schedules job and returns immediately. The job keeps the values of
// ctx (request id) but not its cancellation: a dispatched run always finishes.
func (q *LocalQueue) Submit(ctx context.Context, job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrClosed
	}

	jobCtx := context.WithoutCancel(ctx)
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		release, err := q.slots.take(jobCtx)
		if err != nil {
			return
		}
		defer release()

		q.handler(jobCtx, job)
	}()

	q.logger.Debug(ctx, "Job %s queued locally (%d/%d slots busy)", job.IID, q.slots.busy(), q.slots.size())
	return nil
}

// Close rejects new jobs and waits for every submitted job to finish.
func (q *LocalQueue) Close() error {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	q.wg.Wait()
	return nil
}
