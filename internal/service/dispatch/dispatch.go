// Package dispatch runs side effects of committed transitions off the request
// path. A failed or panicking task is logged and never reaches the caller.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

type Task func(ctx context.Context) error

type Dispatcher interface {
	// Go runs task on its own goroutine with a fresh context bounded by the
	// dispatcher timeout. name identifies the task in logs.
	Go(name string, task Task, attrs ...any)
	// Wait blocks until every task started so far has returned.
	Wait()
}

type dispatcher struct {
	timeout time.Duration
	logger  *slog.Logger
	wg      sync.WaitGroup
}

func New(timeout time.Duration, logger *slog.Logger) Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &dispatcher{timeout: timeout, logger: logger}
}

func (d *dispatcher) Go(name string, task Task, attrs ...any) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := d.run(task); err != nil {
			d.logger.Error("dispatch task failed", append([]any{"task", name, "error", err}, attrs...)...)
		}
	}()
}

func (d *dispatcher) run(task Task) (err error) {
	ctx := context.Background()
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return task(ctx)
}

func (d *dispatcher) Wait() {
	d.wg.Wait()
}

// Inline runs tasks synchronously on the caller's goroutine. Tests use it to
// observe side effects without waiting.
type Inline struct {
	Logger *slog.Logger
}

func (i Inline) Go(name string, task Task, attrs ...any) {
	logger := i.Logger
	if logger == nil {
		logger = slog.Default()
	}
	d := &dispatcher{logger: logger}
	if err := d.run(task); err != nil {
		logger.Error("dispatch task failed", append([]any{"task", name, "error", err}, attrs...)...)
	}
}

func (Inline) Wait() {}
