package vm

import (
	"github.com/cloudcmds/kestrel/object"
	"github.com/cloudcmds/kestrel/op"
)

// GlobalsSize is the number of addressable global slots.
const GlobalsSize = op.MaxOperand + 1

// Globals is the slot-indexed store written by SetGlobal and read by
// GetGlobal. A slot that was never written holds no value.
type Globals struct {
	slots []object.Object
}

// NewGlobals returns an empty global store.
func NewGlobals() *Globals {
	return &Globals{}
}

// Get returns the value in slot, or false if the slot was never written.
func (g *Globals) Get(slot uint16) (object.Object, bool) {
	if int(slot) >= len(g.slots) || g.slots[slot] == nil {
		return nil, false
	}
	return g.slots[slot], true
}

// Set stores value in slot. Storage grows on demand up to GlobalsSize.
func (g *Globals) Set(slot uint16, value object.Object) {
	if int(slot) >= len(g.slots) {
		grown := make([]object.Object, int(slot)+1, max(int(slot)+1, 2*len(g.slots)))
		copy(grown, g.slots)
		g.slots = grown
	}
	g.slots[slot] = value
}

// Len returns one past the highest slot written so far.
func (g *Globals) Len() int {
	return len(g.slots)
}

// Clone returns an independent copy of the store.
func (g *Globals) Clone() *Globals {
	slots := make([]object.Object, len(g.slots))
	copy(slots, g.slots)
	return &Globals{slots: slots}
}
