package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	// Create inserts the booking row and its attendee rows in one
	// transaction. A duplicate (event_id, seat_id) means another booking
	// won the seat and is reported as a SeatConflictError.
	Create(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Booking, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]Booking, error)
	BookedSeatIDs(ctx context.Context, eventID uuid.UUID) ([]string, error)
	MemberCodeUsed(ctx context.Context, eventID uuid.UUID, code string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, booking *Booking) error {
	err := r.db.WithContext(ctx).Create(booking).Error
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		seats := make([]string, 0, len(booking.Attendees))
		for _, a := range booking.Attendees {
			seats = append(seats, a.SeatID)
		}
		return &SeatConflictError{Seats: seats}
	}
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).Preload("Attendees").Where("id = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return &booking, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Booking, error) {
	var bookings []Booking
	err := r.db.WithContext(ctx).
		Preload("Attendees").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return bookings, nil
}

func (r *repository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]Booking, error) {
	var bookings []Booking
	err := r.db.WithContext(ctx).
		Preload("Attendees").
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return bookings, nil
}

func (r *repository) BookedSeatIDs(ctx context.Context, eventID uuid.UUID) ([]string, error) {
	var seatIDs []string
	err := r.db.WithContext(ctx).
		Model(&Attendee{}).
		Where("event_id = ?", eventID).
		Pluck("seat_id", &seatIDs).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return seatIDs, nil
}

// MemberCodeUsed reports whether a verified attendee of any booking for
// the event already consumed the code. Unverified attendees who typed
// the same code paid full price, so they do not count as a use.
func (r *repository) MemberCodeUsed(ctx context.Context, eventID uuid.UUID, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Attendee{}).
		Where("event_id = ? AND member_code = ? AND member_verified = ?", eventID, code, true).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return count > 0, nil
}
