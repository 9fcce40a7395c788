// internal/dragdrop/errors.go
package dragdrop

import (
	"fmt"

	"github.com/aidazolic/dropsim/api/schemas"
)

// ConstructionError reports an invalid FileSpec handed to Build.
type ConstructionError struct {
	Reason string
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("cannot construct simulated file: %s", e.Reason)
}

// InvalidEventPlanError reports a plan that violates gesture semantics, such
// as an event following a drop or an unknown event kind.
type InvalidEventPlanError struct {
	Plan   schemas.EventPlan
	Reason string
}

func (e *InvalidEventPlanError) Error() string {
	return fmt.Sprintf("invalid event plan %v: %s", e.Plan, e.Reason)
}

// TargetNotInteractableError reports a failed interactability precondition.
// It carries the measured verdict so callers can tell a detached target from
// a zero-size or occluded one. Raised only when force mode is off.
type TargetNotInteractableError struct {
	Selector string
	Verdict  schemas.InteractabilityVerdict
}

func (e *TargetNotInteractableError) Error() string {
	v := e.Verdict
	switch {
	case !v.Attached:
		return fmt.Sprintf("target %q is not attached to the document", e.Selector)
	case v.Width <= 0 || v.Height <= 0:
		return fmt.Sprintf("target %q has zero rendered size (%gx%g)", e.Selector, v.Width, v.Height)
	case v.Occluded:
		return fmt.Sprintf("target %q is covered at its center point by %s", e.Selector, v.OccludedBy)
	default:
		return fmt.Sprintf("target %q is not interactable", e.Selector)
	}
}
