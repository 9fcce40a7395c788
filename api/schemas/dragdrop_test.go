// api/schemas/dragdrop_test.go
package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventKindKnown(t *testing.T) {
	for _, k := range []EventKind{DragEnter, DragOver, Drop, DragLeave} {
		assert.True(t, k.Known(), "%s should be a known kind", k)
	}
	assert.False(t, EventKind("dragstart").Known())
	assert.False(t, EventKind("").Known())
}

func TestDefaultEventPlan(t *testing.T) {
	plan := DefaultEventPlan()
	assert.Equal(t, EventPlan{DragEnter, Drop}, plan)

	// Mutating the returned plan must not poison later defaults.
	plan[0] = Drop
	assert.Equal(t, EventPlan{DragEnter, Drop}, DefaultEventPlan())
}

func TestInteractabilityVerdict(t *testing.T) {
	cases := []struct {
		name    string
		verdict InteractabilityVerdict
		want    bool
	}{
		{"Visible", InteractabilityVerdict{Attached: true, Width: 10, Height: 10}, true},
		{"Detached", InteractabilityVerdict{Attached: false, Width: 10, Height: 10}, false},
		{"ZeroWidth", InteractabilityVerdict{Attached: true, Width: 0, Height: 10}, false},
		{"ZeroHeight", InteractabilityVerdict{Attached: true, Width: 10, Height: 0}, false},
		{"Occluded", InteractabilityVerdict{Attached: true, Width: 10, Height: 10, Occluded: true}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.verdict.Interactable())
		})
	}
}
