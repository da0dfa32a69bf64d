// Package shutdownqueue provides a process-wide LIFO queue of cleanup
// tasks. Register tasks anywhere via Add and drain them at the end of main:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
//	defer cancel()
//	defer shutdownqueue.Shutdown(ctx)
//
// Tasks run once, in reverse order of registration, with panic recovery.
// Shutdown is idempotent and aggregates errors with errors.Join.
package shutdownqueue

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Task is a shutdown function. It should honor ctx and return an error if
// it cannot finish.
type Task func(ctx context.Context) error

var q = struct {
	mu     sync.Mutex
	tasks  []Task
	closed bool
}{}

// Add registers a task to be run on Shutdown, in LIFO order. Safe to call
// from any goroutine. Nil tasks and tasks added after shutdown started are
// dropped.
func Add(t Task) {
	if t == nil {
		return
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.tasks = append(q.tasks, t)
}

// Shutdown drains all registered tasks in LIFO order. Subsequent calls are
// no-ops. If ctx is canceled mid-drain, Shutdown stops early and returns
// the context error joined with any task errors so far.
func Shutdown(ctx context.Context) error {
	q.mu.Lock()

	if q.closed && len(q.tasks) == 0 {
		q.mu.Unlock()
		return nil
	}

	q.closed = true
	tasks := q.tasks
	q.tasks = nil

	q.mu.Unlock()

	var errs []error

	for i := len(tasks) - 1; i >= 0; i-- {
		select {
		case <-ctx.Done():
			errs = append(errs, fmt.Errorf("shutdown canceled: %w", ctx.Err()))

			return errors.Join(errs...)
		default:
		}

		func(t Task) {
			defer func() {
				r := recover()
				if r != nil {
					errs = append(errs, fmt.Errorf("panic in shutdown task: %v", r))
				}
			}()

			err := t(ctx)
			if err != nil {
				errs = append(errs, err)
			}
		}(tasks[i])
	}

	return errors.Join(errs...)
}
