// internal/browser/session/context_utils_test.go
package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestCombineContext(t *testing.T) {
	type ctxKey string
	const key ctxKey = "testKey"
	const value = "testValue"

	t.Run("InheritsValuesFromPrimary", func(t *testing.T) {
		ctx1 := context.WithValue(context.Background(), key, value)

		combinedCtx, cancel := CombineContext(ctx1, context.Background())
		defer cancel()

		assert.Equal(t, value, combinedCtx.Value(key), "Combined context should inherit values from ctx1")
		assert.Nil(t, combinedCtx.Err())
	})

	t.Run("CancelledByPrimary", func(t *testing.T) {
		ctx1, cancel1 := context.WithCancel(context.Background())

		combinedCtx, cancelCombined := CombineContext(ctx1, context.Background())
		defer cancelCombined()

		cancel1()

		assert.Eventually(t, func() bool {
			return combinedCtx.Err() != nil
		}, 100*time.Millisecond, 10*time.Millisecond)
		assert.ErrorIs(t, combinedCtx.Err(), context.Canceled)
	})

	t.Run("CancelledBySecondary", func(t *testing.T) {
		ctx2, cancel2 := context.WithCancel(context.Background())

		combinedCtx, cancelCombined := CombineContext(context.Background(), ctx2)
		defer cancelCombined()

		cancel2()

		// Propagation from ctx2 goes through the internal goroutine.
		assert.Eventually(t, func() bool {
			return combinedCtx.Err() != nil
		}, 100*time.Millisecond, 10*time.Millisecond)
		assert.ErrorIs(t, combinedCtx.Err(), context.Canceled)
	})

	t.Run("DeadlineFromPrimary", func(t *testing.T) {
		deadline := time.Now().Add(50 * time.Millisecond)
		ctx1, cancel1 := context.WithDeadline(context.Background(), deadline)
		defer cancel1()

		combinedCtx, cancelCombined := CombineContext(ctx1, context.Background())
		defer cancelCombined()

		combinedDeadline, ok := combinedCtx.Deadline()
		require.True(t, ok)
		assert.InDelta(t, deadline.UnixNano(), combinedDeadline.UnixNano(), float64(10*time.Millisecond.Nanoseconds()))

		<-combinedCtx.Done()
		assert.ErrorIs(t, combinedCtx.Err(), context.DeadlineExceeded)
	})
}

func TestCombineContextReleasesGoroutine(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx2, cancel2 := context.WithCancel(context.Background())
	defer cancel2()

	combinedCtx, cancelCombined := CombineContext(context.Background(), ctx2)
	cancelCombined()

	<-combinedCtx.Done()
	// The linking goroutine must exit once the combined context is done.
}

func TestDetach(t *testing.T) {
	type ctxKey string
	const key ctxKey = "conn"

	parent, cancel := context.WithCancel(context.WithValue(context.Background(), key, "cdp-target"))
	detached := Detach(parent)

	cancel()

	assert.Equal(t, "cdp-target", detached.Value(key), "Detached context keeps parent values")
	assert.Nil(t, detached.Done(), "Detached context is never done")
	assert.Nil(t, detached.Err())

	_, hasDeadline := detached.Deadline()
	assert.False(t, hasDeadline)
}
