package bookings

import (
	"time"

	"github.com/google/uuid"
)

// Booking is one committed checkout. EventName and EventDate are
// snapshot copies so the record displays correctly even after the admin
// edits the event. A booking is never mutated once written.
type Booking struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	EventID     uuid.UUID `gorm:"type:uuid;index;not null" json:"event_id"`
	EventName   string    `gorm:"not null;size:255" json:"event_name"`
	EventDate   time.Time `gorm:"not null" json:"event_date"`
	TotalAmount float64   `gorm:"not null" json:"total_amount"`
	CreatedAt   time.Time `json:"created_at"`

	Attendees []Attendee `json:"attendees,omitempty" gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE;"`
}

func (Booking) TableName() string {
	return "bookings"
}

// Attendee is one seat of a booking. EventID is denormalized so the
// unique (event_id, seat_id) index can reject double-booked seats at the
// store. MemberVerified may only be true after verification succeeded.
type Attendee struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID      uuid.UUID `gorm:"type:uuid;index;not null" json:"booking_id"`
	EventID        uuid.UUID `gorm:"type:uuid;not null" json:"event_id"`
	SeatID         string    `gorm:"not null;size:128" json:"seat_id"`
	SeatLabel      string    `gorm:"size:32" json:"seat_label"`
	Name           string    `gorm:"not null;size:255" json:"name"`
	UnitPrice      float64   `gorm:"not null" json:"unit_price"`
	MemberCode     string    `gorm:"size:64" json:"member_code,omitempty"`
	IsMember       bool      `gorm:"default:false" json:"is_member"`
	MemberVerified bool      `gorm:"default:false" json:"member_verified"`
	CreatedAt      time.Time `json:"created_at"`
}

func (Attendee) TableName() string {
	return "attendees"
}

type AttendeeRequest struct {
	SeatID     string `json:"seat_id" binding:"required,max=128"`
	Name       string `json:"name" binding:"required,min=2,max=255"`
	MemberCode string `json:"member_code" binding:"omitempty,max=64"`
	IsMember   bool   `json:"is_member"`
}

type CreateBookingRequest struct {
	EventID   string            `json:"event_id" binding:"required,uuid"`
	Attendees []AttendeeRequest `json:"attendees" binding:"required,min=1,dive"`
}

type VerifyMembershipRequest struct {
	EventID    string `json:"event_id" binding:"required,uuid"`
	MemberCode string `json:"member_code" binding:"required,max=64"`
}

// Verification outcome reasons. Invalid and already-used are distinct:
// the first means the code matched no member, the second that the code
// was consumed by a prior booking for the same event.
const (
	ReasonInvalidCode = "invalid_code"
	ReasonExpired     = "membership_expired"
	ReasonAlreadyUsed = "already_used"
)

type VerificationResult struct {
	Verified   bool   `json:"verified"`
	Reason     string `json:"reason,omitempty"`
	MemberName string `json:"member_name,omitempty"`
}

type AttendeeResponse struct {
	SeatID         string  `json:"seat_id"`
	SeatLabel      string  `json:"seat_label"`
	Name           string  `json:"name"`
	UnitPrice      float64 `json:"unit_price"`
	IsMember       bool    `json:"is_member"`
	MemberVerified bool    `json:"member_verified"`
	AmountOwed     float64 `json:"amount_owed"`
}

type BookingResponse struct {
	ID          string             `json:"id"`
	EventID     string             `json:"event_id"`
	EventName   string             `json:"event_name"`
	EventDate   time.Time          `json:"event_date"`
	TotalAmount float64            `json:"total_amount"`
	CreatedAt   time.Time          `json:"created_at"`
	Attendees   []AttendeeResponse `json:"attendees"`

	// Verification carries the per-attendee membership outcomes of this
	// submission, keyed by seat identity.
	Verification map[string]VerificationResult `json:"verification,omitempty"`
}

func (b *Booking) ToResponse() BookingResponse {
	resp := BookingResponse{
		ID:          b.ID.String(),
		EventID:     b.EventID.String(),
		EventName:   b.EventName,
		EventDate:   b.EventDate,
		TotalAmount: b.TotalAmount,
		CreatedAt:   b.CreatedAt,
	}
	for _, a := range b.Attendees {
		owed := a.UnitPrice
		if a.MemberVerified {
			owed = 0
		}
		resp.Attendees = append(resp.Attendees, AttendeeResponse{
			SeatID:         a.SeatID,
			SeatLabel:      a.SeatLabel,
			Name:           a.Name,
			UnitPrice:      a.UnitPrice,
			IsMember:       a.IsMember,
			MemberVerified: a.MemberVerified,
			AmountOwed:     owed,
		})
	}
	return resp
}
