package ocr

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/roamly/roamly/pkg/types"
)

// Handler processes one queued map. It records its own failures on the
// map; a returned error is only logged.
type Handler func(ctx context.Context, id string) error

// Queue is a deduplicating FIFO of map IDs drained by exactly one worker
// goroutine, so at most one recognition runs at a time.
type Queue struct {
	handler Handler
	logger  *zap.Logger

	mu         sync.Mutex
	pending    []string
	queued     map[string]bool
	processing bool
	current    string
	processed  int
	failed     int

	running   bool
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	triggerCh chan struct{}
}

// QueueStatus is a point-in-time view of the queue.
type QueueStatus struct {
	Running    bool   `json:"running"`
	Processing bool   `json:"processing"`
	Current    string `json:"current,omitempty"`
	Queued     int    `json:"queued"`
	Processed  int    `json:"processed"`
	Failed     int    `json:"failed"`
}

// NewQueue creates a stopped queue.
func NewQueue(handler Handler, logger *zap.Logger) *Queue {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Queue{
		handler:   handler,
		logger:    logger,
		queued:    make(map[string]bool),
		triggerCh: make(chan struct{}, 1),
	}
}

// Start launches the worker. Items enqueued while stopped are kept and
// processed once started.
func (q *Queue) Start(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.running {
		return fmt.Errorf("ocr queue already running")
	}
	ctx, q.cancel = context.WithCancel(ctx)
	q.running = true

	q.wg.Add(1)
	go q.run(ctx)
	q.trigger()

	q.logger.Info("ocr queue started", zap.Int("queued", len(q.pending)))
	return nil
}

// Stop cancels the worker and waits for it to exit. An in-flight item runs
// to completion, bounded by the recognizer timeout; queued ids are kept.
func (q *Queue) Stop() {
	q.mu.Lock()
	if !q.running {
		q.mu.Unlock()
		return
	}
	q.running = false
	cancel := q.cancel
	q.mu.Unlock()

	cancel()
	q.wg.Wait()
	q.logger.Info("ocr queue stopped")
}

// Enqueue adds ids that are not already waiting and returns how many were
// added.
func (q *Queue) Enqueue(ids ...string) int {
	q.mu.Lock()
	added := 0
	for _, id := range ids {
		if id == "" || q.queued[id] {
			continue
		}
		q.queued[id] = true
		q.pending = append(q.pending, id)
		added++
	}
	q.mu.Unlock()

	if added > 0 {
		q.trigger()
	}
	return added
}

// trigger wakes the worker without blocking.
func (q *Queue) trigger() {
	select {
	case q.triggerCh <- struct{}{}:
	default:
	}
}

// Status reports the queue state.
func (q *Queue) Status() QueueStatus {
	q.mu.Lock()
	defer q.mu.Unlock()
	return QueueStatus{
		Running:    q.running,
		Processing: q.processing,
		Current:    q.current,
		Queued:     len(q.pending),
		Processed:  q.processed,
		Failed:     q.failed,
	}
}

// Wait blocks until the queue is empty and idle. It returns
// ErrQueueStopped if work is pending on a stopped queue.
func (q *Queue) Wait(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		st := q.Status()
		if st.Queued == 0 && !st.Processing {
			return nil
		}
		if !st.Running {
			return types.ErrQueueStopped
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (q *Queue) next() (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return "", false
	}
	id := q.pending[0]
	q.pending = q.pending[1:]
	delete(q.queued, id)
	q.processing = true
	q.current = id
	return id, true
}

func (q *Queue) done(err error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.processing = false
	q.current = ""
	if err != nil {
		q.failed++
	} else {
		q.processed++
	}
}

func (q *Queue) run(ctx context.Context) {
	defer q.wg.Done()
	for {
		if ctx.Err() != nil {
			return
		}
		id, ok := q.next()
		if !ok {
			select {
			case <-ctx.Done():
				return
			case <-q.triggerCh:
				continue
			}
		}

		logger := q.logger.With(zap.String("map_id", id))
		err := q.handler(context.WithoutCancel(ctx), id)
		if err != nil {
			logger.Warn("ocr failed for map", zap.Error(err))
		} else {
			logger.Debug("ocr finished for map")
		}
		q.done(err)
	}
}
