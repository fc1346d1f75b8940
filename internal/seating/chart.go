package seating

import (
	"errors"
	"fmt"
	"strings"
)

// SpacerRowID is the sentinel row identifier for layout gaps. Spacer rows
// contribute no seats and are skipped during resolution.
const SpacerRowID = "spacer"

// labelSeparator splits a physical row identifier from its part suffix,
// e.g. "A-left" and "A-right" are both fragments of visual row "A".
const labelSeparator = "-"

var ErrInvalidChart = errors.New("invalid seating chart")

// Chart is the declarative seating layout attached to an event:
// tiers contain sections, sections contain rows.
type Chart struct {
	Tiers []Tier `json:"tiers"`
}

type Tier struct {
	Name     string    `json:"name"`
	Sections []Section `json:"sections"`
}

type Section struct {
	Name       string  `json:"name"`
	TicketType string  `json:"ticket_type"`
	Price      float64 `json:"price"`
	Rows       []Row   `json:"rows"`
}

// Row is either a physical row-part or a spacer. Offset shifts the first
// seat number, so "A-left" [0,10) and "A-right" [10,20) render as one
// visual row with an aisle between them.
type Row struct {
	ID     string `json:"id"`
	Label  string `json:"label,omitempty"`
	Seats  int    `json:"seats,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

func (r Row) IsSpacer() bool {
	return r.ID == SpacerRowID
}

// DisplayLabel returns the visual row label: the explicit label if set,
// otherwise the row ID with any part suffix stripped.
func (r Row) DisplayLabel() string {
	if r.Label != "" {
		return r.Label
	}
	if i := strings.Index(r.ID, labelSeparator); i > 0 {
		return r.ID[:i]
	}
	return r.ID
}

// Validate rejects malformed charts up front instead of at render or
// booking time. Defaults (offset=0, label from row ID) are applied by the
// accessors, so validation only has to check what is actually present.
func (c *Chart) Validate() error {
	if c == nil || len(c.Tiers) == 0 {
		return fmt.Errorf("%w: chart has no tiers", ErrInvalidChart)
	}

	sectionNames := make(map[string]bool)
	for ti, tier := range c.Tiers {
		if strings.TrimSpace(tier.Name) == "" {
			return fmt.Errorf("%w: tier %d has no name", ErrInvalidChart, ti)
		}
		if len(tier.Sections) == 0 {
			return fmt.Errorf("%w: tier %q has no sections", ErrInvalidChart, tier.Name)
		}
		for _, section := range tier.Sections {
			if err := validateSection(tier.Name, section, sectionNames); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateSection(tierName string, section Section, seen map[string]bool) error {
	name := strings.TrimSpace(section.Name)
	if name == "" {
		return fmt.Errorf("%w: tier %q has a section without a name", ErrInvalidChart, tierName)
	}
	if seen[name] {
		return fmt.Errorf("%w: duplicate section name %q", ErrInvalidChart, name)
	}
	seen[name] = true

	if section.Price < 0 {
		return fmt.Errorf("%w: section %q has negative price", ErrInvalidChart, name)
	}
	if len(section.Rows) == 0 {
		return fmt.Errorf("%w: section %q has no rows", ErrInvalidChart, name)
	}

	// Row-parts sharing a display label must cover disjoint seat-number
	// ranges [offset, offset+seats); overlapping parts would mint the same
	// visual seat twice.
	type span struct {
		rowID    string
		from, to int
	}
	spansByLabel := make(map[string][]span)
	rowIDs := make(map[string]bool)

	for ri, row := range section.Rows {
		if row.IsSpacer() {
			continue
		}
		if strings.TrimSpace(row.ID) == "" {
			return fmt.Errorf("%w: section %q row %d has no id", ErrInvalidChart, name, ri)
		}
		if rowIDs[row.ID] {
			return fmt.Errorf("%w: section %q has duplicate row id %q", ErrInvalidChart, name, row.ID)
		}
		rowIDs[row.ID] = true

		if row.Seats <= 0 {
			return fmt.Errorf("%w: section %q row %q has non-positive seat count", ErrInvalidChart, name, row.ID)
		}
		if row.Offset < 0 {
			return fmt.Errorf("%w: section %q row %q has negative offset", ErrInvalidChart, name, row.ID)
		}

		label := row.DisplayLabel()
		next := span{rowID: row.ID, from: row.Offset, to: row.Offset + row.Seats}
		for _, existing := range spansByLabel[label] {
			if next.from < existing.to && existing.from < next.to {
				return fmt.Errorf("%w: section %q rows %q and %q overlap in visual row %q",
					ErrInvalidChart, name, existing.rowID, next.rowID, label)
			}
		}
		spansByLabel[label] = append(spansByLabel[label], next)
	}
	return nil
}
