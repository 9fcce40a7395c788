// internal/browser/session/cdp_executor_test.go
package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/aidazolic/dropsim/api/schemas"
)

// TestCDPExecutor uses a mocked RunActions to test the adapter's logic,
// particularly context handling and argument validation, without a browser.
func TestCDPExecutor(t *testing.T) {
	logger := zaptest.NewLogger(t)
	masterCtx := context.Background()

	target := schemas.TargetRef{ObjectID: "obj-42", Selector: "#drop-zone"}

	t.Run("Sleep", func(t *testing.T) {
		var capturedActions []chromedp.Action
		mockFunc := func(ctx context.Context, actions ...chromedp.Action) error {
			capturedActions = actions
			return nil
		}

		executor := &cdpExecutor{ctx: masterCtx, logger: logger, runActionsFunc: mockFunc}

		err := executor.Sleep(context.Background(), 100*time.Millisecond)
		require.NoError(t, err)
		require.Len(t, capturedActions, 1)
	})

	t.Run("CallOnTarget_Success", func(t *testing.T) {
		var capturedActions []chromedp.Action
		mockFunc := func(ctx context.Context, actions ...chromedp.Action) error {
			capturedActions = actions
			return nil
		}

		executor := &cdpExecutor{ctx: masterCtx, logger: logger, runActionsFunc: mockFunc}

		_, err := executor.CallOnTarget(context.Background(), target, `function() { return 1; }`, nil)
		require.NoError(t, err)
		require.Len(t, capturedActions, 1)
	})

	t.Run("CallOnTarget_RequiresObjectID", func(t *testing.T) {
		called := false
		mockFunc := func(ctx context.Context, actions ...chromedp.Action) error {
			called = true
			return nil
		}

		executor := &cdpExecutor{ctx: masterCtx, logger: logger, runActionsFunc: mockFunc}

		_, err := executor.CallOnTarget(context.Background(), schemas.TargetRef{Selector: "#lost"}, `function() {}`, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no resolved object ID")
		assert.False(t, called, "nothing may run without a resolved handle")
	})

	t.Run("CallOnTarget_PropagatesActionError", func(t *testing.T) {
		actionErr := errors.New("page exception")
		mockFunc := func(ctx context.Context, actions ...chromedp.Action) error {
			return actionErr
		}

		executor := &cdpExecutor{ctx: masterCtx, logger: logger, runActionsFunc: mockFunc}

		_, err := executor.CallOnTarget(context.Background(), target, `function() {}`, nil)
		require.ErrorIs(t, err, actionErr)
	})

	t.Run("CallOnTarget_CancelledContext", func(t *testing.T) {
		mockFunc := func(ctx context.Context, actions ...chromedp.Action) error {
			<-ctx.Done()
			return ctx.Err()
		}

		executor := &cdpExecutor{ctx: masterCtx, logger: logger, runActionsFunc: mockFunc}

		opCtx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := executor.CallOnTarget(opCtx, target, `function() {}`, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "context error")
	})
}

func TestJSONEncode(t *testing.T) {
	assert.Equal(t, `"plain"`, jsonEncode("plain"))
	assert.Equal(t, `"with \"quotes\""`, jsonEncode(`with "quotes"`))
	assert.Equal(t, `"#drop [data-x='1']"`, jsonEncode("#drop [data-x='1']"))
}
