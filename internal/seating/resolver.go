package seating

import (
	"fmt"
)

// Seat is one resolved, bookable seat with its pricing context.
type Seat struct {
	ID         SeatID  `json:"id"`
	Tier       string  `json:"tier"`
	Section    string  `json:"section"`
	TicketType string  `json:"ticket_type"`
	Price      float64 `json:"price"`
}

// ResolvedRow is one chart row in document order, with the identities it
// contributes. Spacer rows are kept (with no seats) so renderers can
// reproduce layout gaps without re-reading the chart.
type ResolvedRow struct {
	Tier    string   `json:"tier"`
	Section string   `json:"section"`
	RowID   string   `json:"row_id"`
	Label   string   `json:"label"`
	Spacer  bool     `json:"spacer"`
	SeatIDs []string `json:"seat_ids,omitempty"`
}

// Manifest is the flat, addressable seat universe expanded from a chart.
type Manifest struct {
	seats   []Seat
	rows    []ResolvedRow
	byID    map[string]int
	byLabel map[string][]int
}

// Resolve validates the chart and expands it into a Manifest. For a row
// with n seats at offset o, seat numbers are o+1 .. o+n. A duplicate full
// identity means the chart is internally inconsistent and is rejected.
func Resolve(chart *Chart) (*Manifest, error) {
	if err := chart.Validate(); err != nil {
		return nil, err
	}

	m := &Manifest{
		byID:    make(map[string]int),
		byLabel: make(map[string][]int),
	}

	for _, tier := range chart.Tiers {
		for _, section := range tier.Sections {
			for _, row := range section.Rows {
				resolved := ResolvedRow{
					Tier:    tier.Name,
					Section: section.Name,
					RowID:   row.ID,
					Label:   row.DisplayLabel(),
					Spacer:  row.IsSpacer(),
				}
				if row.IsSpacer() {
					m.rows = append(m.rows, resolved)
					continue
				}
				for n := row.Offset + 1; n <= row.Offset+row.Seats; n++ {
					seat := Seat{
						ID: SeatID{
							Section:  section.Name,
							RowID:    row.ID,
							RowLabel: row.DisplayLabel(),
							Number:   n,
						},
						Tier:       tier.Name,
						Section:    section.Name,
						TicketType: section.TicketType,
						Price:      section.Price,
					}
					key := seat.ID.String()
					if _, dup := m.byID[key]; dup {
						return nil, fmt.Errorf("%w: duplicate seat identity %q", ErrInvalidChart, key)
					}
					m.byID[key] = len(m.seats)
					m.byLabel[seat.ID.Label()] = append(m.byLabel[seat.ID.Label()], len(m.seats))
					m.seats = append(m.seats, seat)
					resolved.SeatIDs = append(resolved.SeatIDs, key)
				}
				m.rows = append(m.rows, resolved)
			}
		}
	}
	return m, nil
}

// Seats returns all seats in document order.
func (m *Manifest) Seats() []Seat {
	out := make([]Seat, len(m.seats))
	copy(out, m.seats)
	return out
}

// Rows returns the resolved rows, spacers included, in document order.
func (m *Manifest) Rows() []ResolvedRow {
	out := make([]ResolvedRow, len(m.rows))
	copy(out, m.rows)
	return out
}

// Size is the number of bookable seats.
func (m *Manifest) Size() int {
	return len(m.seats)
}

// Get looks a seat up by its full identity string.
func (m *Manifest) Get(id string) (Seat, bool) {
	i, ok := m.byID[id]
	if !ok {
		return Seat{}, false
	}
	return m.seats[i], true
}

// SeatsByLabel returns every seat whose simplified label matches the
// given reservation-list entry. More than one result means the label is
// ambiguous across sections; callers decide how to surface that.
func (m *Manifest) SeatsByLabel(label string) []Seat {
	idxs := m.byLabel[NormalizeLabel(label)]
	out := make([]Seat, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, m.seats[i])
	}
	return out
}
