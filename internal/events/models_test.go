package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stagepass/internal/seating"
)

func TestChartDocumentStorage(t *testing.T) {
	doc := ChartDocument{Chart: seating.Chart{
		Tiers: []seating.Tier{
			{
				Name: "Main Hall",
				Sections: []seating.Section{
					{
						Name:       "Gold",
						TicketType: "Gold",
						Price:      900,
						Rows: []seating.Row{
							{ID: "A", Seats: 10},
							{ID: seating.SpacerRowID},
							{ID: "B-right", Label: "B", Seats: 5, Offset: 5},
						},
					},
				},
			},
		},
	}}

	value, err := doc.Value()
	require.NoError(t, err)

	var restored ChartDocument
	require.NoError(t, restored.Scan(value))
	assert.Equal(t, doc.Chart, restored.Chart)

	// Postgres drivers may hand back text instead of bytes.
	var fromString ChartDocument
	require.NoError(t, fromString.Scan(string(value.([]byte))))
	assert.Equal(t, doc.Chart, fromString.Chart)
}

func TestChartDocumentEmptyStoresNull(t *testing.T) {
	value, err := ChartDocument{}.Value()
	require.NoError(t, err)
	assert.Nil(t, value, "events without assigned seating store NULL")

	restored := ChartDocument{Chart: seating.Chart{Tiers: []seating.Tier{{Name: "stale"}}}}
	require.NoError(t, restored.Scan(nil))
	assert.Empty(t, restored.Tiers)
}

func TestChartDocumentScanRejectsOddTypes(t *testing.T) {
	var doc ChartDocument
	assert.Error(t, doc.Scan(42))
}

func TestReservedSeatListStorage(t *testing.T) {
	list := ReservedSeatList{"A-1", "a-2", "C-10"}

	value, err := list.Value()
	require.NoError(t, err)

	var restored ReservedSeatList
	require.NoError(t, restored.Scan(value))
	assert.Equal(t, list, restored)

	// A nil list still stores a valid jsonb array.
	value, err = ReservedSeatList(nil).Value()
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(value.([]byte)))
}

func TestStatusTransitions(t *testing.T) {
	assert.True(t, StatusPublished.CanBeBooked())
	assert.False(t, StatusDraft.CanBeBooked())
	assert.False(t, StatusCancelled.CanBeBooked())

	assert.True(t, StatusDraft.CanBeDeleted())
	assert.True(t, StatusCancelled.CanBeDeleted())
	assert.False(t, StatusPublished.CanBeDeleted())

	assert.True(t, StatusPublished.IsValid())
	assert.False(t, Status("archived").IsValid())
}

func TestEventToResponse(t *testing.T) {
	event := Event{
		Name:     "Autumn Chamber Recital",
		Venue:    "Main Hall",
		DateTime: time.Now().AddDate(0, 1, 0),
		Status:   StatusPublished,
		TicketTypes: TicketTypeList{
			{Name: "Gold", Price: 900},
		},
	}

	resp := event.ToResponse()
	assert.False(t, resp.AssignedSeats)
	assert.Nil(t, resp.SeatingChart)

	event.SeatingChart = ChartDocument{Chart: seating.Chart{
		Tiers: []seating.Tier{
			{
				Name: "Main Hall",
				Sections: []seating.Section{
					{Name: "Gold", TicketType: "Gold", Price: 900, Rows: []seating.Row{{ID: "A", Seats: 4}}},
				},
			},
		},
	}}

	resp = event.ToResponse()
	assert.True(t, resp.AssignedSeats)
	require.NotNil(t, resp.SeatingChart)
	assert.Len(t, resp.SeatingChart.Tiers, 1)
}
