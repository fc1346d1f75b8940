package seating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveExpandsChart(t *testing.T) {
	manifest, err := Resolve(validChart())
	require.NoError(t, err)

	// 10 in row A plus two 5-seat parts of row B; the spacer adds none.
	assert.Equal(t, 20, manifest.Size())
	assert.Len(t, manifest.Seats(), 20)

	rows := manifest.Rows()
	require.Len(t, rows, 4)
	assert.False(t, rows[0].Spacer)
	assert.True(t, rows[1].Spacer)
	assert.Empty(t, rows[1].SeatIDs)
	assert.Equal(t, "B", rows[2].Label)
	assert.Equal(t, "B-left", rows[2].RowID)
}

func TestResolveSeatIdentity(t *testing.T) {
	manifest, err := Resolve(validChart())
	require.NoError(t, err)

	seat, ok := manifest.Get("Gold-A-1")
	require.True(t, ok)
	assert.Equal(t, "Gold", seat.Section)
	assert.Equal(t, "A", seat.ID.RowLabel)
	assert.Equal(t, 1, seat.ID.Number)
	assert.Equal(t, "Gold", seat.TicketType)
	assert.Equal(t, 900.0, seat.Price)
	assert.Equal(t, "A-1", seat.ID.Label())

	// Offset row parts continue the visual numbering.
	right, ok := manifest.Get("Gold-B-right-6")
	require.True(t, ok)
	assert.Equal(t, "B-6", right.ID.Label())

	_, ok = manifest.Get("Gold-B-right-3")
	assert.False(t, ok, "offset parts must not mint seats below their offset")

	_, ok = manifest.Get("Gold-Z-1")
	assert.False(t, ok)
}

func TestResolveSeatsByLabel(t *testing.T) {
	manifest, err := Resolve(validChart())
	require.NoError(t, err)

	// Lookup is case-insensitive and spans row parts.
	seats := manifest.SeatsByLabel("b-2")
	require.Len(t, seats, 1)
	assert.Equal(t, "Gold-B-left-2", seats[0].ID.String())

	assert.Empty(t, manifest.SeatsByLabel("Q-1"))
}

func TestResolveLabelCollisionAcrossSections(t *testing.T) {
	chart := validChart()
	chart.Tiers[0].Sections = append(chart.Tiers[0].Sections, Section{
		Name:       "Silver",
		TicketType: "Silver",
		Price:      500,
		Rows:       []Row{{ID: "A", Seats: 4}},
	})

	manifest, err := Resolve(chart)
	require.NoError(t, err)

	// Both sections have an A-1; full identities stay distinct while the
	// simplified label matches both.
	seats := manifest.SeatsByLabel("A-1")
	require.Len(t, seats, 2)
	assert.NotEqual(t, seats[0].ID.String(), seats[1].ID.String())
}

func TestResolveNoDuplicateIdentities(t *testing.T) {
	manifest, err := Resolve(validChart())
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, seat := range manifest.Seats() {
		id := seat.ID.String()
		assert.False(t, seen[id], "duplicate identity %s", id)
		seen[id] = true
	}
}

func TestResolveRejectsInvalidChart(t *testing.T) {
	_, err := Resolve(&Chart{})
	assert.ErrorIs(t, err, ErrInvalidChart)
}
