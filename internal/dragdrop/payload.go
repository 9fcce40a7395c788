// internal/dragdrop/payload.go
package dragdrop

import (
	"errors"
	"sync"
)

// ErrPayloadConsumed is returned when a TransferPayload is handed to a second
// simulation. A real drag gesture carries its file set exactly once; reusing
// the payload would break that one-shot semantic, so callers must build a
// fresh payload per interaction.
var ErrPayloadConsumed = errors.New("transfer payload was already consumed by a previous simulation")

// TransferPayload is the ordered set of files a simulated gesture carries,
// standing in for the browser's native "items being dragged" carrier. Zero
// files is legal and simulates an empty drop. Order is preserved exactly as
// given; some applications number uploads by arrival order.
type TransferPayload struct {
	files []*SimulatedFile

	mu       sync.Mutex
	consumed bool
}

// NewTransferPayload builds a payload carrying the given files in order.
func NewTransferPayload(files ...*SimulatedFile) *TransferPayload {
	p := &TransferPayload{files: make([]*SimulatedFile, len(files))}
	copy(p.files, files)
	return p
}

// Files returns the carried files in caller-specified order.
func (p *TransferPayload) Files() []*SimulatedFile {
	out := make([]*SimulatedFile, len(p.files))
	copy(out, p.files)
	return out
}

// Len returns the number of carried files.
func (p *TransferPayload) Len() int { return len(p.files) }

// consume marks the payload as used. The mark is taken before any dispatch is
// attempted: a gesture that started and failed mid-plan may still have
// mutated application state, so the payload is spent either way.
func (p *TransferPayload) consume() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.consumed {
		return ErrPayloadConsumed
	}
	p.consumed = true
	return nil
}
