package selection

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMachineRequiresTarget(t *testing.T) {
	m := New()
	assert.Equal(t, StateIdle, m.State())

	err := m.Toggle("Gold-A-1", true)
	assert.ErrorIs(t, err, ErrNoTarget)

	require.NoError(t, m.SetTarget(2))
	assert.Equal(t, StatePicking, m.State())
}

func TestMachineToggleAddRemove(t *testing.T) {
	m := New()
	require.NoError(t, m.SetTarget(2))

	require.NoError(t, m.Toggle("Gold-A-1", true))
	assert.Equal(t, []string{"Gold-A-1"}, m.Picks())

	// Toggling the same seat again removes it and restores the prior state.
	require.NoError(t, m.Toggle("Gold-A-1", true))
	assert.Empty(t, m.Picks())
	assert.Equal(t, StatePicking, m.State())
}

func TestMachineRejectsUnavailableSeat(t *testing.T) {
	m := New()
	require.NoError(t, m.SetTarget(1))

	err := m.Toggle("Gold-A-1", false)
	assert.ErrorIs(t, err, ErrSeatUnavailable)
	assert.Empty(t, m.Picks())
}

func TestMachineOverTargetRejectedUnchanged(t *testing.T) {
	m := New()
	require.NoError(t, m.SetTarget(2))
	require.NoError(t, m.Toggle("Gold-A-1", true))
	require.NoError(t, m.Toggle("Gold-A-2", true))
	assert.Equal(t, StateReady, m.State())

	err := m.Toggle("Gold-A-3", true)
	assert.ErrorIs(t, err, ErrSelectionFull)
	assert.Equal(t, []string{"Gold-A-1", "Gold-A-2"}, m.Picks())
	assert.Equal(t, StateReady, m.State())

	// Removing an already-picked seat still works at capacity.
	require.NoError(t, m.Toggle("Gold-A-1", true))
	assert.Equal(t, []string{"Gold-A-2"}, m.Picks())
	assert.Equal(t, StatePicking, m.State())
}

func TestMachineLoweringTargetTruncates(t *testing.T) {
	m := New()
	require.NoError(t, m.SetTarget(3))
	require.NoError(t, m.Toggle("Gold-A-1", true))
	require.NoError(t, m.Toggle("Gold-A-2", true))
	require.NoError(t, m.Toggle("Gold-A-3", true))

	require.NoError(t, m.SetTarget(2))
	assert.Equal(t, []string{"Gold-A-1", "Gold-A-2"}, m.Picks())
	assert.Equal(t, StateReady, m.State())

	// Raising it again re-opens picking without restoring dropped seats.
	require.NoError(t, m.SetTarget(3))
	assert.Equal(t, StatePicking, m.State())
	assert.Equal(t, []string{"Gold-A-1", "Gold-A-2"}, m.Picks())
}

func TestMachineDropReopensPicking(t *testing.T) {
	m := New()
	require.NoError(t, m.SetTarget(2))
	require.NoError(t, m.Toggle("Gold-A-1", true))
	require.NoError(t, m.Toggle("Gold-A-2", true))
	assert.Equal(t, StateReady, m.State())

	m.Drop("Gold-A-2")
	assert.Equal(t, []string{"Gold-A-1"}, m.Picks())
	assert.Equal(t, StatePicking, m.State())

	// Dropping a seat that is not picked is a no-op.
	m.Drop("Gold-A-9")
	assert.Equal(t, []string{"Gold-A-1"}, m.Picks())
}

func TestMachineCommitLifecycle(t *testing.T) {
	m := New()
	require.NoError(t, m.SetTarget(1))

	err := m.BeginCommit()
	assert.ErrorIs(t, err, ErrNotReady)

	require.NoError(t, m.Toggle("Gold-A-1", true))
	require.NoError(t, m.BeginCommit())
	assert.Equal(t, StateCommitting, m.State())

	// Selection is frozen during the commit.
	assert.ErrorIs(t, m.Toggle("Gold-A-2", true), ErrFinished)
	assert.ErrorIs(t, m.SetTarget(5), ErrFinished)

	require.NoError(t, m.Complete())
	assert.Equal(t, StateCommitted, m.State())
	assert.ErrorIs(t, m.Toggle("Gold-A-2", true), ErrFinished)
}

func TestMachineFailedCommitIsRecoverable(t *testing.T) {
	m := New()
	require.NoError(t, m.SetTarget(1))
	require.NoError(t, m.Toggle("Gold-A-1", true))
	require.NoError(t, m.BeginCommit())

	cause := errors.New("seats no longer available")
	require.NoError(t, m.Fail(cause))

	assert.Equal(t, StateReady, m.State())
	assert.Equal(t, cause, m.Err())

	// The user can adjust the selection and retry.
	require.NoError(t, m.Toggle("Gold-A-1", true))
	require.NoError(t, m.Toggle("Gold-A-2", true))
	require.NoError(t, m.BeginCommit())
	require.NoError(t, m.Complete())
}

func TestMachineCancelIsTerminal(t *testing.T) {
	m := New()
	require.NoError(t, m.SetTarget(2))
	require.NoError(t, m.Toggle("Gold-A-1", true))

	m.Cancel()
	assert.Equal(t, StateCancelled, m.State())
	assert.Empty(t, m.Picks())

	assert.ErrorIs(t, m.SetTarget(1), ErrFinished)
	assert.ErrorIs(t, m.Toggle("Gold-A-1", true), ErrFinished)
	assert.ErrorIs(t, m.BeginCommit(), ErrFinished)

	// Cancel after commit completion does not un-commit.
	m2 := New()
	require.NoError(t, m2.SetTarget(1))
	require.NoError(t, m2.Toggle("Gold-A-1", true))
	require.NoError(t, m2.BeginCommit())
	require.NoError(t, m2.Complete())
	m2.Cancel()
	assert.Equal(t, StateCommitted, m2.State())
}
