// internal/browser/session/session.go
// A Session owns one managed Chrome tab over the Chrome DevTools Protocol and
// exposes the page-level operations the flow check needs: navigation with
// post-load stabilization, form field entry, element resolution, and script
// execution. Every method manages its own operational timeout and combines it
// with the session's master context, which carries the CDP connection.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aidazolic/dropsim/api/schemas"
	"github.com/aidazolic/dropsim/internal/config"
	"github.com/aidazolic/dropsim/internal/dragdrop"
)

// Session represents an active browser session (a tab).
type Session struct {
	id     string
	ctx    context.Context
	cancel context.CancelFunc

	allocCancel context.CancelFunc

	logger *zap.Logger
	cfg    config.BrowserConfig

	mu       sync.Mutex
	isClosed bool
}

// New launches a managed Chrome instance and opens one tab. The returned
// session must be closed with Close.
func New(parent context.Context, cfg config.BrowserConfig, logger *zap.Logger) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if !cfg.Headless {
		opts = append(opts, chromedp.Flag("headless", false))
	}
	if cfg.IgnoreTLSErrors {
		opts = append(opts, chromedp.Flag("ignore-certificate-errors", true))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	// Run an empty task list to force target creation and CDP connection.
	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to initialize browser context: %w", err)
	}

	sessionID := uuid.New().String()
	s := &Session{
		id:          sessionID,
		ctx:         tabCtx,
		cancel:      tabCancel,
		allocCancel: allocCancel,
		logger:      logger.With(zap.String("session_id", sessionID)),
		cfg:         cfg,
	}

	s.logger.Debug("Browser session started.", zap.Bool("headless", cfg.Headless))
	return s, nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Executor returns the drag-and-drop automation adapter bound to this
// session's tab.
func (s *Session) Executor() dragdrop.Executor {
	return &cdpExecutor{ctx: s.ctx, logger: s.logger, runActionsFunc: s.RunActions}
}

// RunActions executes chromedp actions against the session's tab, combining
// the session context (CDP connection) with the operational context
// (deadline). Context errors are prioritized over chromedp's own.
func (s *Session) RunActions(ctx context.Context, actions ...chromedp.Action) error {
	combined, cancel := CombineContext(s.ctx, ctx)
	defer cancel()

	err := chromedp.Run(combined, actions...)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if s.ctx.Err() != nil {
			return s.ctx.Err()
		}
	}
	return err
}

// Navigate loads the URL and waits for the page to stabilize: DOM ready plus
// a quiet period for late reactive rendering.
func (s *Session) Navigate(ctx context.Context, url string) error {
	s.logger.Info("Navigating session.", zap.String("url", url))

	navTimeout := s.cfg.NavigationTimeout
	if navTimeout <= 0 {
		navTimeout = 90 * time.Second
	}
	navCtx, navCancel := context.WithTimeout(ctx, navTimeout)
	defer navCancel()

	if err := s.RunActions(navCtx, chromedp.Navigate(url)); err != nil {
		if navCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("navigation to %s timed out after %v: %w", url, navTimeout, navCtx.Err())
		}
		return fmt.Errorf("navigation failed: %w", err)
	}

	quietPeriod := s.cfg.PostLoadWait
	if quietPeriod <= 0 {
		quietPeriod = 1500 * time.Millisecond
	}
	if err := s.stabilize(ctx, quietPeriod); err != nil {
		return err
	}

	s.logger.Info("Navigation and stabilization complete.", zap.String("url", url))
	return nil
}

// stabilize waits for the DOM to be ready and then for the quiet period.
func (s *Session) stabilize(ctx context.Context, quietPeriod time.Duration) error {
	stabCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := s.RunActions(stabCtx, chromedp.WaitReady("body", chromedp.ByQuery)); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Debug("WaitReady failed during stabilization.", zap.Error(err))
	}
	return s.Sleep(ctx, quietPeriod)
}

// Click clicks the element matching the selector after scrolling it into
// view and waiting for visibility.
func (s *Session) Click(ctx context.Context, selector string) error {
	s.logger.Debug("Clicking element.", zap.String("selector", selector))

	opCtx, opCancel := context.WithTimeout(ctx, 30*time.Second)
	defer opCancel()

	err := s.RunActions(opCtx,
		chromedp.ScrollIntoView(selector, chromedp.ByQuery),
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Click(selector, chromedp.ByQuery),
	)
	if err != nil {
		if opCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("click timed out for selector %q: %w", selector, opCtx.Err())
		}
		return fmt.Errorf("click failed for selector %q: %w", selector, err)
	}
	return nil
}

// Type enters text into the element matching the selector. The field is
// robustly cleared through JS first; SetValue can fail on transiently
// non-interactable elements, and keypress entry does not clear on its own.
func (s *Session) Type(ctx context.Context, selector, text string) error {
	s.logger.Debug("Typing into element.", zap.String("selector", selector), zap.Int("text_length", len(text)))

	opCtx, opCancel := context.WithTimeout(ctx, 45*time.Second)
	defer opCancel()

	jsClear := fmt.Sprintf(`(function(selector) {
		const el = document.querySelector(selector);
		if (!el || el.disabled || el.readOnly) {
			return false;
		}
		el.value = "";
		el.dispatchEvent(new Event('input', { bubbles: true }));
		el.dispatchEvent(new Event('change', { bubbles: true }));
		return true;
	})(%s)`, jsonEncode(selector))

	var clearSuccess bool
	err := s.RunActions(opCtx,
		chromedp.ScrollIntoView(selector, chromedp.ByQuery),
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Evaluate(jsClear, &clearSuccess, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithReturnByValue(true).WithAwaitPromise(true).WithSilent(true)
		}),
	)
	if err != nil {
		return fmt.Errorf("preparation (clear) failed for selector %q: %w", selector, err)
	}
	if !clearSuccess {
		return fmt.Errorf("preparation (clear) failed for selector %q: element stale or non-interactable", selector)
	}

	if err := s.RunActions(opCtx, chromedp.SendKeys(selector, text, chromedp.ByQuery)); err != nil {
		if opCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("type timed out for selector %q: %w", selector, opCtx.Err())
		}
		return fmt.Errorf("type failed for selector %q: %w", selector, err)
	}
	return nil
}

// WaitVisible blocks until the element matching the selector is visible.
func (s *Session) WaitVisible(ctx context.Context, selector string) error {
	opCtx, opCancel := context.WithTimeout(ctx, 30*time.Second)
	defer opCancel()

	if err := s.RunActions(opCtx, chromedp.WaitVisible(selector, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("wait visible failed for selector %q: %w", selector, err)
	}
	return nil
}

// Text returns the visible text of the first element matching the selector.
func (s *Session) Text(ctx context.Context, selector string) (string, error) {
	opCtx, opCancel := context.WithTimeout(ctx, 15*time.Second)
	defer opCancel()

	var out string
	if err := s.RunActions(opCtx, chromedp.Text(selector, &out, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("text read failed for selector %q: %w", selector, err)
	}
	return out, nil
}

// ResolveTarget resolves the selector to exactly one DOM element and returns
// a handle to it. The simulator operates on this handle only; when exactly
// one element is required and several match, the first match wins, matching
// querySelector semantics.
func (s *Session) ResolveTarget(ctx context.Context, selector string) (schemas.TargetRef, error) {
	s.logger.Debug("Resolving target element.", zap.String("selector", selector))

	opCtx, opCancel := context.WithTimeout(ctx, 30*time.Second)
	defer opCancel()

	var nodes []*cdp.Node
	err := s.RunActions(opCtx, chromedp.Nodes(selector, &nodes, chromedp.ByQuery, chromedp.AtLeast(1)))
	if err != nil {
		return schemas.TargetRef{}, fmt.Errorf("failed to resolve selector %q: %w", selector, err)
	}

	var ref schemas.TargetRef
	err = s.RunActions(opCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		obj, err := dom.ResolveNode().WithNodeID(nodes[0].NodeID).Do(ctx)
		if err != nil {
			return err
		}
		if obj == nil || obj.ObjectID == "" {
			return fmt.Errorf("node has no remote object")
		}
		ref = schemas.TargetRef{ObjectID: string(obj.ObjectID), Selector: selector}
		return nil
	}))
	if err != nil {
		return schemas.TargetRef{}, fmt.Errorf("failed to resolve node for selector %q: %w", selector, err)
	}
	return ref, nil
}

// ExecuteScript evaluates the script in the page, awaiting promises, and
// unmarshals the result into res when res is non-nil.
func (s *Session) ExecuteScript(ctx context.Context, script string, res interface{}) error {
	opCtx, opCancel := context.WithTimeout(ctx, 20*time.Second)
	defer opCancel()

	err := s.RunActions(opCtx,
		chromedp.Evaluate(script, res, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithReturnByValue(true).WithAwaitPromise(true).WithSilent(true)
		}),
	)
	if err != nil {
		return fmt.Errorf("script evaluation failed: %w", err)
	}
	return nil
}

// Sleep pauses for the duration, respecting both the operational and session
// contexts.
func (s *Session) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	return s.RunActions(ctx, chromedp.Sleep(d))
}

// Close shuts the tab and the browser down. Safe to call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isClosed {
		return nil
	}
	s.isClosed = true

	s.logger.Debug("Closing browser session.")

	// Graceful tab close first; the allocator teardown kills the process.
	// The detached context keeps the close working even when the caller's
	// signal context was already canceled.
	if err := chromedp.Cancel(Detach(s.ctx)); err != nil {
		s.logger.Debug("Graceful tab close failed.", zap.Error(err))
	}
	s.cancel()
	s.allocCancel()
	return nil
}
