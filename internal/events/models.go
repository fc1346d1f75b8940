package events

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"stagepass/internal/seating"
)

// TicketType is one named price class offered by an event.
type TicketType struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// TicketTypeList is stored as a jsonb column.
type TicketTypeList []TicketType

func (l TicketTypeList) Value() (driver.Value, error) {
	if l == nil {
		l = TicketTypeList{}
	}
	return json.Marshal(l)
}

func (l *TicketTypeList) Scan(value interface{}) error {
	return scanJSON(value, l, "TicketTypeList")
}

// ChartDocument wraps the seating chart for jsonb storage. An event
// without assigned seating stores NULL.
type ChartDocument struct {
	seating.Chart
}

func (d ChartDocument) Value() (driver.Value, error) {
	if len(d.Tiers) == 0 {
		return nil, nil
	}
	return json.Marshal(d.Chart)
}

func (d *ChartDocument) Scan(value interface{}) error {
	if value == nil {
		d.Chart = seating.Chart{}
		return nil
	}
	return scanJSON(value, &d.Chart, "ChartDocument")
}

// ReservedSeatList holds admin-entered reservation labels in simplified
// {rowLabel}-{seatNumber} form, stored as jsonb.
type ReservedSeatList []string

func (l ReservedSeatList) Value() (driver.Value, error) {
	if l == nil {
		l = ReservedSeatList{}
	}
	return json.Marshal(l)
}

func (l *ReservedSeatList) Scan(value interface{}) error {
	return scanJSON(value, l, "ReservedSeatList")
}

func scanJSON(value interface{}, dest interface{}, typeName string) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("cannot scan type %T into %s", value, typeName)
	}
}

type Event struct {
	ID            uuid.UUID        `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name          string           `json:"name" gorm:"not null;size:255"`
	Description   string           `json:"description" gorm:"type:text"`
	Category      string           `json:"category" gorm:"size:100;index"`
	Venue         string           `json:"venue" gorm:"not null;size:255"`
	DateTime      time.Time        `json:"date_time" gorm:"not null;index"`
	Status        Status           `json:"status" gorm:"type:varchar(20);default:'draft'"`
	TicketTypes   TicketTypeList   `json:"ticket_types" gorm:"type:jsonb"`
	SeatingChart  ChartDocument    `json:"seating_chart" gorm:"type:jsonb"`
	ReservedSeats ReservedSeatList `json:"reserved_seats" gorm:"type:jsonb"`
	ImageURL      string           `json:"image_url" gorm:"size:500"`

	CreatedBy uuid.UUID  `json:"created_by" gorm:"type:uuid;not null"`
	UpdatedBy *uuid.UUID `json:"updated_by" gorm:"type:uuid"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Event) TableName() string {
	return "events"
}

// HasSeatingChart reports whether the event uses assigned seating.
func (e *Event) HasSeatingChart() bool {
	return len(e.SeatingChart.Tiers) > 0
}

type EventResponse struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	Category       string           `json:"category"`
	Venue          string           `json:"venue"`
	DateTime       time.Time        `json:"date_time"`
	Status         Status           `json:"status"`
	TicketTypes    []TicketType     `json:"ticket_types"`
	SeatingChart   *seating.Chart   `json:"seating_chart,omitempty"`
	ReservedSeats  []string         `json:"reserved_seats,omitempty"`
	ImageURL       string           `json:"image_url"`
	AssignedSeats  bool             `json:"assigned_seats"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

func (e *Event) ToResponse() EventResponse {
	resp := EventResponse{
		ID:            e.ID.String(),
		Name:          e.Name,
		Description:   e.Description,
		Category:      e.Category,
		Venue:         e.Venue,
		DateTime:      e.DateTime,
		Status:        e.Status,
		TicketTypes:   e.TicketTypes,
		ReservedSeats: e.ReservedSeats,
		ImageURL:      e.ImageURL,
		AssignedSeats: e.HasSeatingChart(),
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
	if e.HasSeatingChart() {
		chart := e.SeatingChart.Chart
		resp.SeatingChart = &chart
	}
	return resp
}

type CreateEventRequest struct {
	Name          string         `json:"name" binding:"required,min=3,max=255"`
	Description   string         `json:"description" binding:"max=2000"`
	Category      string         `json:"category" binding:"omitempty,max=100"`
	Venue         string         `json:"venue" binding:"required,min=2,max=255"`
	DateTime      time.Time      `json:"date_time" binding:"required"`
	Status        string         `json:"status" binding:"omitempty,oneof=draft published cancelled"`
	TicketTypes   []TicketType   `json:"ticket_types" binding:"required,min=1,dive"`
	SeatingChart  *seating.Chart `json:"seating_chart"`
	ReservedSeats []string       `json:"reserved_seats"`
	ImageURL      string         `json:"image_url" binding:"omitempty,url"`
}

type UpdateEventRequest struct {
	Name          *string        `json:"name" binding:"omitempty,min=3,max=255"`
	Description   *string        `json:"description" binding:"omitempty,max=2000"`
	Category      *string        `json:"category" binding:"omitempty,max=100"`
	Venue         *string        `json:"venue" binding:"omitempty,min=2,max=255"`
	DateTime      *time.Time     `json:"date_time"`
	Status        *string        `json:"status" binding:"omitempty,oneof=draft published cancelled"`
	TicketTypes   []TicketType   `json:"ticket_types" binding:"omitempty,min=1,dive"`
	SeatingChart  *seating.Chart `json:"seating_chart"`
	ReservedSeats []string       `json:"reserved_seats"`
	ImageURL      *string        `json:"image_url" binding:"omitempty,url"`
}

type EventListQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search"`
	Category string `form:"category"`
	Venue    string `form:"venue"`
	DateFrom string `form:"date_from"`
	DateTo   string `form:"date_to"`
	Status   string `form:"status" binding:"omitempty,oneof=draft published cancelled"`
}

type PaginatedEvents struct {
	Events     []EventResponse `json:"events"`
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}
