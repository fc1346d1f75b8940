package availability

import (
	"sort"

	"stagepass/internal/seating"
)

// State is the display status of one seat. Booked wins over reserved for
// display, but the underlying flags stay independent.
type State string

const (
	StateAvailable State = "AVAILABLE"
	StateReserved  State = "RESERVED"
	StateBooked    State = "BOOKED"
)

// SeatStatus carries all state sources for one seat. Reserved and Booked
// are independent facts: an admin-reserved seat that also appears in a
// booking keeps both flags.
type SeatStatus struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	Section  string  `json:"section"`
	Tier     string  `json:"tier"`
	Price    float64 `json:"price"`
	Reserved bool    `json:"reserved"`
	Booked   bool    `json:"booked"`
	Selected bool    `json:"selected,omitempty"`
}

// Display collapses the flags into the status shown on the seat map.
func (s SeatStatus) Display() State {
	switch {
	case s.Booked:
		return StateBooked
	case s.Reserved:
		return StateReserved
	default:
		return StateAvailable
	}
}

// Selectable reports whether the seat may enter a user's selection.
func (s SeatStatus) Selectable() bool {
	return !s.Booked && !s.Reserved
}

// Snapshot is one aggregation pass over the full seat universe of an
// event. It is a value: a new booking push produces a whole new Snapshot,
// never an in-place merge.
type Snapshot struct {
	seats   []SeatStatus
	byID    map[string]int
	aliased []string
	unknown []string
}

// Aggregate classifies every seat of the manifest by merging the admin
// reservation list (simplified labels, case-insensitive), the booked
// identities from committed bookings, and the caller's local selection.
func Aggregate(m *seating.Manifest, reservedLabels []string, bookedIDs []string, selected []string) *Snapshot {
	snap := &Snapshot{byID: make(map[string]int, m.Size())}

	reserved := make(map[string]bool, len(reservedLabels))
	for _, label := range reservedLabels {
		if norm := seating.NormalizeLabel(label); norm != "" {
			reserved[norm] = true
		}
	}
	booked := make(map[string]bool, len(bookedIDs))
	for _, id := range bookedIDs {
		booked[id] = true
	}
	picked := make(map[string]bool, len(selected))
	for _, id := range selected {
		picked[id] = true
	}

	labelHits := make(map[string]int)
	for _, seat := range m.Seats() {
		id := seat.ID.String()
		label := seat.ID.Label()
		status := SeatStatus{
			ID:       id,
			Label:    label,
			Section:  seat.Section,
			Tier:     seat.Tier,
			Price:    seat.Price,
			Reserved: reserved[label],
			Booked:   booked[id],
			Selected: picked[id],
		}
		if status.Reserved {
			labelHits[label]++
		}
		snap.byID[id] = len(snap.seats)
		snap.seats = append(snap.seats, status)
		delete(booked, id)
	}

	// A reservation label matching seats in more than one section aliases
	// distinct seats; surfaced for logging, not silently fixed.
	for label, hits := range labelHits {
		if hits > 1 {
			snap.aliased = append(snap.aliased, label)
		}
	}
	sort.Strings(snap.aliased)

	// Booked identities left over never matched the manifest, which means
	// the chart changed after those bookings were committed.
	for id := range booked {
		snap.unknown = append(snap.unknown, id)
	}
	sort.Strings(snap.unknown)

	return snap
}

// Seats returns every seat status in manifest order.
func (s *Snapshot) Seats() []SeatStatus {
	out := make([]SeatStatus, len(s.seats))
	copy(out, s.seats)
	return out
}

// Get returns the status of one seat by full identity.
func (s *Snapshot) Get(id string) (SeatStatus, bool) {
	i, ok := s.byID[id]
	if !ok {
		return SeatStatus{}, false
	}
	return s.seats[i], true
}

// Conflicts returns, among the requested identities, those that are not
// selectable in this snapshot (unknown identities included).
func (s *Snapshot) Conflicts(ids []string) []string {
	var out []string
	for _, id := range ids {
		status, ok := s.Get(id)
		if !ok || !status.Selectable() {
			out = append(out, id)
		}
	}
	return out
}

// AmbiguousLabels lists reservation labels that matched seats in more
// than one section.
func (s *Snapshot) AmbiguousLabels() []string {
	return s.aliased
}

// UnknownBooked lists booked identities with no seat in the manifest.
func (s *Snapshot) UnknownBooked() []string {
	return s.unknown
}
