package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conr2d/restaking/pkg/core"
)

func TestSlotToggleLifecycle(t *testing.T) {
	toggle := core.NewSlotToggle(100)
	assert.True(t, toggle.IsActive())
	assert.Equal(t, uint64(100), toggle.SlotAdded())
	assert.Equal(t, core.NeverRemoved, toggle.SlotRemoved())

	require.NoError(t, toggle.Deactivate(150))
	assert.False(t, toggle.IsActive())
	assert.Equal(t, uint64(150), toggle.SlotRemoved())

	require.NoError(t, toggle.Activate(200))
	assert.True(t, toggle.IsActive())
	assert.Equal(t, uint64(200), toggle.SlotAdded())
	assert.Equal(t, core.NeverRemoved, toggle.SlotRemoved())
}

func TestSlotToggleDoubleActivate(t *testing.T) {
	toggle := core.NewSlotToggle(100)
	err := toggle.Activate(200)
	assert.ErrorIs(t, err, core.ErrInvalidStateTransition)
	// state unchanged
	assert.Equal(t, uint64(100), toggle.SlotAdded())
}

func TestSlotToggleDoubleDeactivate(t *testing.T) {
	toggle := core.NewSlotToggle(100)
	require.NoError(t, toggle.Deactivate(150))
	err := toggle.Deactivate(200)
	assert.ErrorIs(t, err, core.ErrInvalidStateTransition)
	assert.Equal(t, uint64(150), toggle.SlotRemoved())
}

func TestSlotToggleMonotonicSlots(t *testing.T) {
	toggle := core.NewSlotToggle(100)

	// Deactivation cannot happen before the activation slot.
	err := toggle.Deactivate(99)
	assert.ErrorIs(t, err, core.ErrInvalidStateTransition)
	assert.True(t, toggle.IsActive())

	require.NoError(t, toggle.Deactivate(150))

	// Re-activation cannot happen before the removal slot.
	err = toggle.Activate(149)
	assert.ErrorIs(t, err, core.ErrInvalidStateTransition)
	assert.False(t, toggle.IsActive())

	require.NoError(t, toggle.Activate(150))
	assert.True(t, toggle.IsActive())
}
