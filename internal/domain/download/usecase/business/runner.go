package business

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/rs/zerolog"
)

// Runner runs delivery pipelines in the background and waits for them on shutdown
type Runner struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	logger zerolog.Logger

	// mu orders wg.Add against Stop; closed is set once Stop begins
	mu     sync.Mutex
	closed bool
}

// NewRunner creates a runner with its own root context
func NewRunner(logger zerolog.Logger) *Runner {
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		ctx:    ctx,
		cancel: cancel,
		logger: logger,
	}
}

// Go runs fn in a new goroutine. A panic in fn is logged and swallowed.
// It returns false without running fn once Stop has been called.
func (r *Runner) Go(fn func(ctx context.Context)) bool {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return false
	}
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				r.logger.Error().
					Str("panic", fmt.Sprint(rec)).
					Bytes("stack", debug.Stack()).
					Msg("Recovered from panic in background job")
			}
		}()
		fn(r.ctx)
	}()
	return true
}

// Wait blocks until every started job has returned
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Stop waits for running jobs until ctx is done, then cancels them and waits again
func (r *Runner) Stop(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.cancel()
		return nil
	case <-ctx.Done():
		r.logger.Warn().Msg("Cancelling in-flight downloads")
		r.cancel()
		<-done
		return ctx.Err()
	}
}
