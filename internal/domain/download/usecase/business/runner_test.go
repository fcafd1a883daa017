package business

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_RecoversPanic(t *testing.T) {
	runner := NewRunner(zerolog.Nop())

	var ran atomic.Bool
	runner.Go(func(context.Context) { panic("boom") })
	runner.Go(func(context.Context) { ran.Store(true) })
	runner.Wait()

	assert.True(t, ran.Load())
}

func TestRunner_StopWaitsForJobs(t *testing.T) {
	runner := NewRunner(zerolog.Nop())

	var finished atomic.Bool
	runner.Go(func(context.Context) {
		time.Sleep(20 * time.Millisecond)
		finished.Store(true)
	})

	assert.NoError(t, runner.Stop(context.Background()))
	assert.True(t, finished.Load())
}

func TestRunner_StopCancelsOnDeadline(t *testing.T) {
	runner := NewRunner(zerolog.Nop())

	var cancelled atomic.Bool
	runner.Go(func(ctx context.Context) {
		<-ctx.Done()
		cancelled.Store(true)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, runner.Stop(ctx), context.DeadlineExceeded)
	assert.True(t, cancelled.Load())
}

func TestRunner_GoAfterStopIsRejected(t *testing.T) {
	runner := NewRunner(zerolog.Nop())
	require.NoError(t, runner.Stop(context.Background()))

	var ran atomic.Bool
	assert.False(t, runner.Go(func(context.Context) { ran.Store(true) }))
	runner.Wait()
	assert.False(t, ran.Load())
}

func TestRunner_GoConcurrentWithStop(t *testing.T) {
	for i := 0; i < 200; i++ {
		runner := NewRunner(zerolog.Nop())
		runner.Go(func(context.Context) { time.Sleep(time.Millisecond) })

		var started, finished atomic.Int32
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, runner.Stop(context.Background()))
		}()
		go func() {
			defer wg.Done()
			if runner.Go(func(context.Context) { finished.Add(1) }) {
				started.Add(1)
			}
		}()
		wg.Wait()

		// an accepted job is always drained by Stop
		assert.Equal(t, started.Load(), finished.Load())
	}
}
