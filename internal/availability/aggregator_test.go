package availability

import (
	"testing"

	"stagepass/internal/seating"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManifest(t *testing.T) *seating.Manifest {
	t.Helper()
	chart := &seating.Chart{
		Tiers: []seating.Tier{
			{
				Name: "Main Hall",
				Sections: []seating.Section{
					{
						Name:       "Gold",
						TicketType: "Gold",
						Price:      900,
						Rows:       []seating.Row{{ID: "A", Seats: 4}},
					},
					{
						Name:       "Silver",
						TicketType: "Silver",
						Price:      500,
						Rows:       []seating.Row{{ID: "A", Seats: 4}},
					},
				},
			},
		},
	}
	manifest, err := seating.Resolve(chart)
	require.NoError(t, err)
	return manifest
}

func TestAggregateClassification(t *testing.T) {
	manifest := testManifest(t)

	snap := Aggregate(manifest,
		[]string{" a-2 "},
		[]string{"Gold-A-3"},
		[]string{"Silver-A-1"},
	)

	tests := []struct {
		id         string
		display    State
		selectable bool
		selected   bool
	}{
		{id: "Gold-A-1", display: StateAvailable, selectable: true},
		{id: "Gold-A-2", display: StateReserved, selectable: false},
		{id: "Gold-A-3", display: StateBooked, selectable: false},
		{id: "Silver-A-1", display: StateAvailable, selectable: true, selected: true},
		{id: "Silver-A-3", display: StateAvailable, selectable: true},
	}
	for _, tt := range tests {
		status, ok := snap.Get(tt.id)
		require.True(t, ok, tt.id)
		assert.Equal(t, tt.display, status.Display(), tt.id)
		assert.Equal(t, tt.selectable, status.Selectable(), tt.id)
		assert.Equal(t, tt.selected, status.Selected, tt.id)
	}
}

func TestAggregateReservedAndBookedAreIndependent(t *testing.T) {
	manifest := testManifest(t)

	snap := Aggregate(manifest, []string{"A-1"}, []string{"Gold-A-1"}, nil)

	status, ok := snap.Get("Gold-A-1")
	require.True(t, ok)
	assert.True(t, status.Reserved)
	assert.True(t, status.Booked)
	assert.Equal(t, StateBooked, status.Display(), "booked wins for display")
}

func TestAggregateReservationLabelAliasing(t *testing.T) {
	manifest := testManifest(t)

	// "A-2" exists in both Gold and Silver, so the reservation blanks both
	// and the label is reported as ambiguous.
	snap := Aggregate(manifest, []string{"A-2"}, nil, nil)

	gold, _ := snap.Get("Gold-A-2")
	silver, _ := snap.Get("Silver-A-2")
	assert.True(t, gold.Reserved)
	assert.True(t, silver.Reserved)
	assert.Equal(t, []string{"A-2"}, snap.AmbiguousLabels())
}

func TestAggregateUnknownBooked(t *testing.T) {
	manifest := testManifest(t)

	snap := Aggregate(manifest, nil, []string{"Gold-A-1", "Gold-Z-9"}, nil)

	assert.Equal(t, []string{"Gold-Z-9"}, snap.UnknownBooked())
	status, ok := snap.Get("Gold-A-1")
	require.True(t, ok)
	assert.True(t, status.Booked)
}

func TestAggregateFullReplacement(t *testing.T) {
	manifest := testManifest(t)

	first := Aggregate(manifest, nil, []string{"Gold-A-1", "Gold-A-2"}, nil)
	second := Aggregate(manifest, nil, []string{"Gold-A-3"}, nil)

	// The new booked set replaces the old one wholesale.
	s1, _ := second.Get("Gold-A-1")
	s3, _ := second.Get("Gold-A-3")
	assert.False(t, s1.Booked)
	assert.True(t, s3.Booked)

	// The earlier snapshot is untouched.
	f1, _ := first.Get("Gold-A-1")
	assert.True(t, f1.Booked)
}

func TestSnapshotConflicts(t *testing.T) {
	manifest := testManifest(t)

	snap := Aggregate(manifest, []string{"A-2"}, []string{"Gold-A-3"}, nil)

	conflicts := snap.Conflicts([]string{"Gold-A-1", "Gold-A-2", "Gold-A-3", "Gold-Z-1"})
	assert.Equal(t, []string{"Gold-A-2", "Gold-A-3", "Gold-Z-1"}, conflicts)

	assert.Nil(t, snap.Conflicts([]string{"Gold-A-1", "Silver-A-4"}))
}
