package serializer

import (
	"context"

	"github.com/google/uuid"
)

// Future is the eventual result of a submitted operation.
type Future[T any] struct {
	id    uuid.UUID
	done  chan struct{}
	value T
	err   error
}

/*
Submit queues op behind every operation submitted before it and returns
immediately. op receives ctx when its turn comes; it runs even if ctx has been
canceled by then, since submitted operations are never skipped.

On a closed serializer the returned future is already settled with ErrClosed.
*/
func Submit[T any](s *Serializer, ctx context.Context, name string, op func(context.Context) (T, error)) *Future[T] {
	f := &Future[T]{
		id:   uuid.New(),
		done: make(chan struct{}),
	}

	t := &task{
		id:   f.id,
		name: name,
		ctx:  ctx,
		run: func(ctx context.Context) error {
			v, err := op(ctx)
			f.value = v
			return err
		},
		settle: f.settle,
	}

	if err := s.enqueue(t); err != nil {
		f.settle(err)
	}
	return f
}

func (f *Future[T]) settle(err error) {
	if err != nil {
		var zero T
		f.value = zero
	}
	f.err = err
	close(f.done)
}

// ID identifies the operation in log lines.
func (f *Future[T]) ID() uuid.UUID {
	return f.id
}

// Done is closed once the operation has settled.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

/*
Wait blocks until the operation settles or ctx is done. A result that is
already settled is returned even if ctx is done. Giving up on ctx only
stops the wait: the operation keeps its place in the queue and still runs.
*/
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	default:
	}

	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Result blocks until the operation settles.
func (f *Future[T]) Result() (T, error) {
	<-f.done
	return f.value, f.err
}
