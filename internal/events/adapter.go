package events

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"stagepass/internal/bookings"
)

// BookingEventSource adapts the events service to the checkout flow's
// view of an event.
type BookingEventSource struct {
	service Service
}

func NewBookingEventSource(service Service) *BookingEventSource {
	return &BookingEventSource{service: service}
}

func (a *BookingEventSource) BookingView(ctx context.Context, eventID uuid.UUID) (*bookings.EventSnapshot, error) {
	event, manifest, err := a.service.BookingView(ctx, eventID)
	if err != nil {
		switch {
		case errors.Is(err, ErrEventNotFound):
			return nil, bookings.ErrEventNotFound
		case errors.Is(err, ErrNoSeatingChart):
			return nil, bookings.ErrNoAssignedSeating
		}
		return nil, err
	}

	return &bookings.EventSnapshot{
		ID:             event.ID,
		Name:           event.Name,
		Date:           event.DateTime,
		Bookable:       event.Status.CanBeBooked() && event.DateTime.After(time.Now()),
		ReservedLabels: event.ReservedSeats,
		Manifest:       manifest,
	}, nil
}
