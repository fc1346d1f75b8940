package seating

import (
	"fmt"
	"strings"
)

// SeatID is the canonical identity of one bookable seat. The two string
// projections below are the only seat-key formats in the system; nothing
// else should re-derive substrings from them.
type SeatID struct {
	Section  string
	RowID    string
	RowLabel string
	Number   int
}

// String is the full identity "{section}-{rowId}-{number}". It is the
// format stored on booking attendees and must be byte-stable between the
// availability read and the booking write.
func (s SeatID) String() string {
	return fmt.Sprintf("%s-%s-%d", s.Section, s.RowID, s.Number)
}

// Label is the simplified projection "{ROWLABEL}-{number}" used by
// admin reservation lists, which are entered by row and seat only.
// Comparison is case-insensitive, so the label is upper-cased here once.
func (s SeatID) Label() string {
	return strings.ToUpper(fmt.Sprintf("%s-%d", s.RowLabel, s.Number))
}

// NormalizeLabel canonicalizes a reservation-list entry for comparison
// against SeatID.Label.
func NormalizeLabel(label string) string {
	return strings.ToUpper(strings.TrimSpace(label))
}
