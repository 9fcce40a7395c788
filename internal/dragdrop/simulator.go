// internal/dragdrop/simulator.go
// This file implements the drag-and-drop event simulator: the component that
// takes a transfer payload and an already-resolved drop target and delivers
// the files by constructing and dispatching a native drag event sequence
// inside the page, without a real pointer or a filesystem-backed upload.
//
// The simulator is browser-agnostic. It talks to the automation layer through
// the small Executor interface, implemented by a CDP adapter in the session
// package. All file manufacturing and event dispatch happens inside the page
// via an injected function called on the target element handle.
package dragdrop

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aidazolic/dropsim/api/schemas"
)

// settleDelay is the post-plan pause that lets handlers which defer work
// (e.g. repainting a "file accepted" state) run before the caller starts
// asserting on application state.
const settleDelay = 25 * time.Millisecond

// Executor defines the interface for interacting with the browser automation
// layer. It is designed to be agnostic of the underlying technology.
type Executor interface {
	// CallOnTarget invokes fnDecl as a function with the target element bound
	// as `this`, awaiting promises, and returns the JSON-serialized result.
	CallOnTarget(ctx context.Context, target schemas.TargetRef, fnDecl string, args []interface{}) (json.RawMessage, error)

	// Sleep pauses execution, respecting context cancellation.
	Sleep(ctx context.Context, d time.Duration) error
}

// Simulator dispatches synthetic drag gestures against resolved DOM targets.
// A single Simulator is safe for concurrent use against different targets;
// overlapping gestures on one target are undefined behavior in the underlying
// browser model and are not serialized here.
type Simulator struct {
	exec   Executor
	logger *zap.Logger
}

// NewSimulator creates a simulator bound to the given automation executor.
func NewSimulator(exec Executor, logger *zap.Logger) *Simulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Simulator{exec: exec, logger: logger}
}

// wireFile is the JSON shape a SimulatedFile crosses the protocol boundary as.
type wireFile struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	DataB64 string `json:"dataB64"`
}

// dispatchResult is what the in-page dispatch function reports back.
type dispatchResult struct {
	Dispatched int `json:"dispatched"`
	Carried    int `json:"carried"`
}

// Simulate delivers the payload into the target by dispatching the planned
// drag event sequence. It fails rather than returning a status; the caller's
// subsequent application-state assertions are the real success signal.
//
// An empty options.Plan defaults to [dragenter, drop]. Unless options.Force
// is set, the target must be attached, non-zero sized, and unoccluded at its
// center point. The whole plan shares one in-page transfer carrier, and the
// page's event loop gets control between dispatches. There is no retry and no
// mid-plan abort: a drag gesture is not idempotent against application state.
func (s *Simulator) Simulate(ctx context.Context, target schemas.TargetRef, payload *TransferPayload, options schemas.SimulationOptions) error {
	if target.ObjectID == "" {
		return fmt.Errorf("target %q has no resolved object ID", target.Selector)
	}
	if payload == nil {
		payload = NewTransferPayload()
	}

	plan := options.Plan
	if len(plan) == 0 {
		plan = schemas.DefaultEventPlan()
	}
	if err := validatePlan(plan); err != nil {
		return err
	}

	subject := options.Subject
	if subject == "" {
		subject = schemas.SubjectElement
	}

	if !options.Force {
		if err := s.checkInteractable(ctx, target); err != nil {
			return err
		}
	}

	// The payload is spent from here on, even if dispatch fails mid-plan.
	if err := payload.consume(); err != nil {
		return err
	}

	files := make([]wireFile, 0, payload.Len())
	for _, f := range payload.Files() {
		files = append(files, wireFile{Name: f.Name(), Type: f.MIMEType(), DataB64: f.encoded()})
	}

	s.logger.Debug("Dispatching simulated file delivery.",
		zap.String("selector", target.Selector),
		zap.String("subject", string(subject)),
		zap.Int("files", len(files)),
		zap.Any("plan", plan))

	var (
		raw json.RawMessage
		err error
	)
	if subject == schemas.SubjectInput {
		raw, err = s.exec.CallOnTarget(ctx, target, setInputFilesScript, []interface{}{files})
	} else {
		raw, err = s.exec.CallOnTarget(ctx, target, dispatchDragScript, []interface{}{plan, files})
	}
	if err != nil {
		return fmt.Errorf("event dispatch failed for %q: %w", target.Selector, err)
	}

	var result dispatchResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return fmt.Errorf("unexpected dispatch result for %q: %w (payload: %s)", target.Selector, err, string(raw))
	}
	if result.Carried != len(files) {
		return fmt.Errorf("transfer carrier for %q holds %d files, expected %d", target.Selector, result.Carried, len(files))
	}

	// Give deferred handlers a beat before the caller starts asserting.
	if err := s.exec.Sleep(ctx, settleDelay); err != nil {
		return err
	}

	s.logger.Debug("Simulated file delivery complete.",
		zap.String("selector", target.Selector),
		zap.Int("dispatched", result.Dispatched))
	return nil
}

// checkInteractable measures the target inside the page and converts a
// failing verdict into a TargetNotInteractableError.
func (s *Simulator) checkInteractable(ctx context.Context, target schemas.TargetRef) error {
	raw, err := s.exec.CallOnTarget(ctx, target, interactabilityScript, nil)
	if err != nil {
		return fmt.Errorf("interactability check failed for %q: %w", target.Selector, err)
	}

	var verdict schemas.InteractabilityVerdict
	if err := json.Unmarshal(raw, &verdict); err != nil {
		return fmt.Errorf("unexpected interactability verdict for %q: %w (payload: %s)", target.Selector, err, string(raw))
	}
	if !verdict.Interactable() {
		return &TargetNotInteractableError{Selector: target.Selector, Verdict: verdict}
	}
	return nil
}

// validatePlan enforces gesture semantics: only known event kinds, and a drop
// terminates the gesture so nothing may follow it.
func validatePlan(plan schemas.EventPlan) error {
	for i, kind := range plan {
		if !kind.Known() {
			return &InvalidEventPlanError{Plan: plan, Reason: fmt.Sprintf("unknown event kind %q", kind)}
		}
		if kind == schemas.Drop && i != len(plan)-1 {
			return &InvalidEventPlanError{Plan: plan, Reason: "drop must be the last event in the plan"}
		}
	}
	return nil
}

// interactabilityScript measures the element bound as `this`. Occlusion is a
// center-point hit test; a hit inside the target's own subtree (or an
// ancestor, for zero-margin wrappers) does not count as cover.
const interactabilityScript = `function() {
	const target = this;
	const verdict = { attached: target.isConnected, width: 0, height: 0, occluded: false, occludedBy: "" };
	if (!verdict.attached) {
		return verdict;
	}
	const rect = target.getBoundingClientRect();
	verdict.width = rect.width;
	verdict.height = rect.height;
	if (rect.width <= 0 || rect.height <= 0) {
		return verdict;
	}
	const hit = document.elementFromPoint(rect.left + rect.width / 2, rect.top + rect.height / 2);
	if (hit && hit !== target && !target.contains(hit) && !hit.contains(target)) {
		verdict.occluded = true;
		verdict.occludedBy = hit.tagName.toLowerCase() + (hit.id ? "#" + hit.id : "");
	}
	return verdict;
}`

// dispatchDragScript manufactures the files, builds ONE DataTransfer shared
// by every event in the plan (a real gesture carries the same file set
// through its whole sequence; a fresh carrier per event would let the page
// tell synthetic from real), and dispatches the plan in order. The awaited
// setTimeout between dispatches yields control back to the page's event loop
// so handlers that defer work run before the next event fires.
const dispatchDragScript = `async function(plan, files) {
	const target = this;
	const decode = (b64) => {
		const bin = atob(b64);
		const buf = new Uint8Array(bin.length);
		for (let i = 0; i < bin.length; i++) {
			buf[i] = bin.charCodeAt(i);
		}
		return buf;
	};
	const carrier = new DataTransfer();
	for (const f of files) {
		carrier.items.add(new File([decode(f.dataB64)], f.name, { type: f.type }));
	}
	let dispatched = 0;
	for (const kind of plan) {
		target.dispatchEvent(new DragEvent(kind, { bubbles: true, cancelable: true, dataTransfer: carrier }));
		dispatched++;
		await new Promise((resolve) => setTimeout(resolve, 0));
	}
	return { dispatched: dispatched, carried: carrier.files.length };
}`

// setInputFilesScript models non-drag upload widgets: it assigns the payload
// directly to a file input's selection state and fires the notifications a
// real picker would, sharing the same payload-construction path as the drag
// variant.
const setInputFilesScript = `async function(files) {
	const target = this;
	const decode = (b64) => {
		const bin = atob(b64);
		const buf = new Uint8Array(bin.length);
		for (let i = 0; i < bin.length; i++) {
			buf[i] = bin.charCodeAt(i);
		}
		return buf;
	};
	const carrier = new DataTransfer();
	for (const f of files) {
		carrier.items.add(new File([decode(f.dataB64)], f.name, { type: f.type }));
	}
	target.files = carrier.files;
	target.dispatchEvent(new Event("input", { bubbles: true }));
	target.dispatchEvent(new Event("change", { bubbles: true }));
	await new Promise((resolve) => setTimeout(resolve, 0));
	return { dispatched: 1, carried: target.files.length };
}`
