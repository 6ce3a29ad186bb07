package core

import (
	"fmt"
	"math"
)

// NeverRemoved is the sentinel removal slot of an active edge.
const NeverRemoved = uint64(math.MaxUint64)

// SlotToggle is the activation history shared by all ticket kinds:
// the slot the edge became active and the slot it was removed, cycling
// Active -> Removed -> Active indefinitely. The ordinal index of the
// owning ticket is assigned once at creation and never touched here.
type SlotToggle struct {
	slotAdded   uint64
	slotRemoved uint64
}

// NewSlotToggle returns a toggle active as of the given slot.
func NewSlotToggle(slot uint64) SlotToggle {
	return SlotToggle{slotAdded: slot, slotRemoved: NeverRemoved}
}

func (t SlotToggle) SlotAdded() uint64 {
	return t.slotAdded
}

// SlotRemoved returns the removal slot, or NeverRemoved while active.
func (t SlotToggle) SlotRemoved() uint64 {
	return t.slotRemoved
}

func (t SlotToggle) IsActive() bool {
	return t.slotRemoved == NeverRemoved
}

// Activate re-adds a removed edge at the given slot. Activating an
// already-active edge fails, as does a slot that would move the clock
// backwards past the recorded removal.
func (t *SlotToggle) Activate(slot uint64) error {
	if t.IsActive() {
		return fmt.Errorf("edge already active since slot %d: %w", t.slotAdded, ErrInvalidStateTransition)
	}
	if slot < t.slotRemoved {
		return fmt.Errorf("activation slot %d before removal slot %d: %w", slot, t.slotRemoved, ErrInvalidStateTransition)
	}
	t.slotAdded = slot
	t.slotRemoved = NeverRemoved
	return nil
}

// Deactivate removes an active edge at the given slot, which must not
// precede the activation slot.
func (t *SlotToggle) Deactivate(slot uint64) error {
	if !t.IsActive() {
		return fmt.Errorf("edge already removed at slot %d: %w", t.slotRemoved, ErrInvalidStateTransition)
	}
	if slot < t.slotAdded {
		return fmt.Errorf("removal slot %d before activation slot %d: %w", slot, t.slotAdded, ErrInvalidStateTransition)
	}
	t.slotRemoved = slot
	return nil
}

func (t SlotToggle) encode(w *recordWriter) {
	w.writeU64(t.slotAdded)
	w.writeU64(t.slotRemoved)
}

func decodeSlotToggle(r *recordReader) (SlotToggle, error) {
	added, err := r.readU64()
	if err != nil {
		return SlotToggle{}, err
	}
	removed, err := r.readU64()
	if err != nil {
		return SlotToggle{}, err
	}
	return SlotToggle{slotAdded: added, slotRemoved: removed}, nil
}
