// internal/browser/session/cdp_executor.go
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/aidazolic/dropsim/api/schemas"
	"github.com/aidazolic/dropsim/internal/dragdrop"
)

// cdpExecutor is an adapter that implements the dragdrop.Executor interface
// using chromedp actions. This bridges the browser-agnostic simulator logic
// with the concrete CDP implementation.
type cdpExecutor struct {
	ctx            context.Context // the session's master context
	logger         *zap.Logger
	runActionsFunc func(ctx context.Context, actions ...chromedp.Action) error // points to Session.RunActions
}

// ensure cdpExecutor implements the interface
var _ dragdrop.Executor = (*cdpExecutor)(nil)

// Sleep pauses execution for the specified duration, respecting the context.
// Routing through runActionsFunc centralizes context combination.
func (e *cdpExecutor) Sleep(ctx context.Context, d time.Duration) error {
	return e.runActionsFunc(ctx, chromedp.Sleep(d))
}

// CallOnTarget invokes fnDecl with the resolved element bound as `this` via
// Runtime.callFunctionOn, awaiting promises and returning the result by
// value. A page exception surfaces as an error.
func (e *cdpExecutor) CallOnTarget(ctx context.Context, target schemas.TargetRef, fnDecl string, args []interface{}) (json.RawMessage, error) {
	if target.ObjectID == "" {
		return nil, fmt.Errorf("target %q has no resolved object ID", target.Selector)
	}

	timeout := 20 * time.Second
	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var res json.RawMessage
	err := e.runActionsFunc(opCtx, chromedp.CallFunctionOn(fnDecl, &res,
		func(p *runtime.CallFunctionOnParams) *runtime.CallFunctionOnParams {
			return p.WithObjectID(runtime.RemoteObjectID(target.ObjectID)).
				WithReturnByValue(true).
				WithAwaitPromise(true)
		}, args...))

	if err != nil {
		if opCtx.Err() == context.DeadlineExceeded {
			e.logger.Debug("cdpExecutor CallOnTarget timed out.", zap.Duration("timeout", timeout), zap.String("selector", target.Selector))
			return nil, fmt.Errorf("cdpExecutor CallOnTarget timed out after %v: %w", timeout, opCtx.Err())
		}
		if ctx.Err() != nil || e.ctx.Err() != nil {
			return nil, fmt.Errorf("context error calling on target %q: %w", target.Selector, err)
		}
		return nil, fmt.Errorf("failed call on target %q: %w", target.Selector, err)
	}

	return res, nil
}

// jsonEncode is a helper to safely encode a value (especially strings) for JS
// injection.
func jsonEncode(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return `""`
	}
	return string(b)
}
