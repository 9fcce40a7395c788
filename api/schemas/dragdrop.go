// api/schemas/dragdrop.go
package schemas

// EventKind names one event in a simulated drag gesture. The values align
// with the standard DOM drag event types.
type EventKind string

const (
	DragEnter EventKind = "dragenter"
	DragOver  EventKind = "dragover"
	Drop      EventKind = "drop"
	DragLeave EventKind = "dragleave"
)

// Known reports whether the kind is one of the dispatchable drag events.
func (k EventKind) Known() bool {
	switch k {
	case DragEnter, DragOver, Drop, DragLeave:
		return true
	}
	return false
}

// EventPlan is the ordered sequence of drag events a simulation dispatches.
// Duplicates and omissions are both legal; a Drop, if present, terminates the
// gesture and must be the last entry.
type EventPlan []EventKind

// DefaultEventPlan returns the minimal pair needed to trigger a
// standards-compliant drop handler. Many drop zones key their highlight state
// off dragenter and their ingestion off drop; omitting dragenter can leave
// handlers that gate on it unarmed. Callers with pickier targets supply
// their own plan.
func DefaultEventPlan() EventPlan {
	return EventPlan{DragEnter, Drop}
}

// SubjectType selects how the payload is delivered to the target.
type SubjectType string

const (
	// SubjectElement delivers the payload through the drag event sequence.
	SubjectElement SubjectType = "element"
	// SubjectInput assigns the payload directly to a file input's selection
	// state and fires a change notification, bypassing drag semantics.
	SubjectInput SubjectType = "input"
)

// SimulationOptions controls a single simulated interaction.
type SimulationOptions struct {
	// Plan is the event sequence to dispatch. Empty means DefaultEventPlan.
	Plan EventPlan
	// Force skips the visibility/occlusion preconditions. Real drop zones are
	// frequently zero-size or overlaid by decorative markup, so this is a
	// first-class option rather than an escape hatch.
	Force bool
	// Subject defaults to SubjectElement when empty.
	Subject SubjectType
}

// FileSpec describes one file to manufacture for delivery: opaque bytes plus
// declared name and MIME metadata. Content of any length is legal, including
// zero.
type FileSpec struct {
	Content  []byte
	Name     string
	MIMEType string
}

// TargetRef is a handle to exactly one already-resolved DOM element. The
// simulator never resolves selectors itself; selector strategy stays a caller
// concern. ObjectID is the remote object identifier the automation layer
// resolved for the element, Selector is kept for diagnostics only.
type TargetRef struct {
	ObjectID string
	Selector string
}

// InteractabilityVerdict is the measured state of a target at simulation
// time, as reported from inside the page.
type InteractabilityVerdict struct {
	Attached   bool    `json:"attached"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Occluded   bool    `json:"occluded"`
	OccludedBy string  `json:"occludedBy"`
}

// Interactable reports whether the target would accept a real pointer
// interaction: attached, non-zero rendered size, and not covered at its
// center point.
func (v InteractabilityVerdict) Interactable() bool {
	return v.Attached && v.Width > 0 && v.Height > 0 && !v.Occluded
}
