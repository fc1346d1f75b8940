package seating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validChart() *Chart {
	return &Chart{
		Tiers: []Tier{
			{
				Name: "Main Hall",
				Sections: []Section{
					{
						Name:       "Gold",
						TicketType: "Gold",
						Price:      900,
						Rows: []Row{
							{ID: "A", Seats: 10},
							{ID: SpacerRowID},
							{ID: "B-left", Label: "B", Seats: 5},
							{ID: "B-right", Label: "B", Seats: 5, Offset: 5},
						},
					},
				},
			},
		},
	}
}

func TestChartValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Chart)
		wantErr string
	}{
		{
			name:   "valid chart passes",
			mutate: func(c *Chart) {},
		},
		{
			name:    "no tiers",
			mutate:  func(c *Chart) { c.Tiers = nil },
			wantErr: "no tiers",
		},
		{
			name:    "tier without name",
			mutate:  func(c *Chart) { c.Tiers[0].Name = "  " },
			wantErr: "has no name",
		},
		{
			name:    "tier without sections",
			mutate:  func(c *Chart) { c.Tiers[0].Sections = nil },
			wantErr: "no sections",
		},
		{
			name: "duplicate section name across tiers",
			mutate: func(c *Chart) {
				c.Tiers = append(c.Tiers, Tier{
					Name: "Balcony",
					Sections: []Section{
						{Name: "Gold", TicketType: "Gold", Price: 300, Rows: []Row{{ID: "F", Seats: 4}}},
					},
				})
			},
			wantErr: "duplicate section name",
		},
		{
			name:    "negative price",
			mutate:  func(c *Chart) { c.Tiers[0].Sections[0].Price = -1 },
			wantErr: "negative price",
		},
		{
			name:    "section without rows",
			mutate:  func(c *Chart) { c.Tiers[0].Sections[0].Rows = nil },
			wantErr: "no rows",
		},
		{
			name: "duplicate row id",
			mutate: func(c *Chart) {
				rows := c.Tiers[0].Sections[0].Rows
				c.Tiers[0].Sections[0].Rows = append(rows, Row{ID: "A", Seats: 3})
			},
			wantErr: "duplicate row id",
		},
		{
			name:    "zero seat count",
			mutate:  func(c *Chart) { c.Tiers[0].Sections[0].Rows[0].Seats = 0 },
			wantErr: "non-positive seat count",
		},
		{
			name:    "negative offset",
			mutate:  func(c *Chart) { c.Tiers[0].Sections[0].Rows[3].Offset = -2 },
			wantErr: "negative offset",
		},
		{
			name: "overlapping row parts in one visual row",
			mutate: func(c *Chart) {
				// B-right now starts inside B-left's span.
				c.Tiers[0].Sections[0].Rows[3].Offset = 3
			},
			wantErr: "overlap in visual row",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chart := validChart()
			tt.mutate(chart)

			err := chart.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidChart)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRowDisplayLabel(t *testing.T) {
	tests := []struct {
		name string
		row  Row
		want string
	}{
		{name: "plain id", row: Row{ID: "A"}, want: "A"},
		{name: "explicit label wins", row: Row{ID: "A-left", Label: "AA"}, want: "AA"},
		{name: "part suffix stripped", row: Row{ID: "A-left"}, want: "A"},
		{name: "only first separator counts", row: Row{ID: "A-left-2"}, want: "A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.row.DisplayLabel())
		})
	}
}

func TestNormalizeLabel(t *testing.T) {
	assert.Equal(t, "A-3", NormalizeLabel(" a-3 "))
	assert.Equal(t, "", NormalizeLabel("   "))
}
