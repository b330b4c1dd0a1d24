// Package serializer runs submitted operations one at a time, in the order
// they were submitted.
//
// Operation N+1 starts only after operation N has returned, failed or
// panicked. A failing operation never prevents later ones from running, and
// each caller only ever sees the outcome of its own operation.
package serializer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/krisalay/taskcache/logging"
	"github.com/krisalay/taskcache/types"
)

// ErrClosed is returned for operations submitted after Close.
var ErrClosed = errors.New("serializer is closed")

// OperationError reports an operation that panicked.
type OperationError struct {
	Op    string
	ID    uuid.UUID
	Panic any
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("operation %s (%s) panicked: %v", e.Op, e.ID, e.Panic)
}

// task is one queued operation.
type task struct {
	id   uuid.UUID
	name string
	ctx  context.Context

	// run executes the operation and stores its value in the owning future.
	run func(context.Context) error

	// settle publishes the final error and wakes the waiter.
	settle func(error)
}

/*
Serializer owns a FIFO of submitted tasks and ONE worker goroutine that
drains it.

The queue is unbounded so Submit never blocks: a caller can fire several
operations back to back and they still execute in that order.
*/
type Serializer struct {
	mu   sync.Mutex
	cond *sync.Cond

	// queue holds submitted tasks that have not started.
	queue []*task

	// tail is the most recently submitted task that has not settled.
	// nil when nothing is in flight.
	tail *task

	// pending counts submitted tasks that have not settled.
	pending int

	closed bool

	logger  logrus.FieldLogger
	metrics types.Metrics

	// wg is used to wait for the worker to finish during shutdown.
	wg sync.WaitGroup
}

// New starts a serializer. Nil logger and metrics are replaced with no-ops.
func New(logger logrus.FieldLogger, metrics types.Metrics) *Serializer {
	if logger == nil {
		logger = logging.Discard()
	}
	if metrics == nil {
		metrics = types.NoopMetrics{}
	}

	s := &Serializer{
		logger:  logger,
		metrics: metrics,
	}
	s.cond = sync.NewCond(&s.mu)

	// Start the single background worker
	s.wg.Add(1)
	go s.worker()

	return s
}

// enqueue appends t and makes it the new pending tail.
func (s *Serializer) enqueue(t *task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	s.queue = append(s.queue, t)
	s.tail = t
	s.pending++
	s.metrics.QueueDepth(s.pending)
	s.cond.Signal()
	return nil
}

// next blocks until a task is available. ok is false once the serializer is
// closed and the queue is drained.
func (s *Serializer) next() (t *task, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for len(s.queue) == 0 {
		if s.closed {
			return nil, false
		}
		s.cond.Wait()
	}

	t = s.queue[0]
	s.queue[0] = nil
	s.queue = s.queue[1:]
	return t, true
}

/*
worker runs in the background and executes queued tasks one by one.
The previous task has always settled before the next one is taken.
*/
func (s *Serializer) worker() {
	defer s.wg.Done()

	for {
		t, ok := s.next()
		if !ok {
			return
		}
		err := s.execute(t)
		s.finish(t)
		t.settle(err)
	}
}

// execute runs t, turning a panic into an *OperationError.
func (s *Serializer) execute(t *task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &OperationError{Op: t.name, ID: t.id, Panic: r}
		}
		if err != nil {
			s.metrics.Failure()
			s.logger.WithFields(logrus.Fields{
				"op":    t.name,
				"op_id": t.id.String(),
				"error": err,
			}).Error("cache operation failed")
		}
	}()

	return t.run(t.ctx)
}

// finish drops t from the in-flight bookkeeping and clears the tail if no
// newer task was submitted meanwhile.
func (s *Serializer) finish(t *task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tail == t {
		s.tail = nil
	}
	s.pending--
	s.metrics.QueueDepth(s.pending)
}

// Pending returns how many submitted operations have not settled.
func (s *Serializer) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Idle reports whether the pending tail is empty.
func (s *Serializer) Idle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tail == nil
}

/*
Close stops accepting operations, lets the worker finish everything already
submitted, and waits for it to exit. Safe to call more than once.
*/
func (s *Serializer) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.cond.Broadcast()
	s.mu.Unlock()

	s.wg.Wait()
}

// Run submits op and waits for its result. See Future.Wait for ctx semantics.
func (s *Serializer) Run(ctx context.Context, name string, op func(context.Context) (any, error)) (any, error) {
	return Submit(s, ctx, name, op).Wait(ctx)
}
