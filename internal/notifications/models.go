package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// BookingConfirmation is the message published on the booking topic
// after a commit, consumed by the email worker.
type BookingConfirmation struct {
	BookingID   uuid.UUID             `json:"booking_id"`
	UserID      uuid.UUID             `json:"user_id"`
	EventID     uuid.UUID             `json:"event_id"`
	EventName   string                `json:"event_name"`
	EventDate   time.Time             `json:"event_date"`
	TotalAmount float64               `json:"total_amount"`
	Attendees   []ConfirmedAttendee   `json:"attendees"`
	CommittedAt time.Time             `json:"committed_at"`
}

type ConfirmedAttendee struct {
	Name           string  `json:"name"`
	SeatID         string  `json:"seat_id"`
	SeatLabel      string  `json:"seat_label"`
	AmountOwed     float64 `json:"amount_owed"`
	MemberVerified bool    `json:"member_verified"`
}

func (c *BookingConfirmation) ToJSON() ([]byte, error) {
	return json.Marshal(c)
}

// PartitionKey routes all messages of one event to the same partition
// so confirmations stay ordered per event.
func (c *BookingConfirmation) PartitionKey() string {
	return c.EventID.String()
}
