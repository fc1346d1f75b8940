package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"stagepass/internal/availability"
	"stagepass/internal/seating"
	"stagepass/internal/shared/config"
	"stagepass/pkg/logger"
)

// EventSnapshot is the immutable event view a checkout works against:
// identity and display fields plus the resolved seat manifest.
type EventSnapshot struct {
	ID             uuid.UUID
	Name           string
	Date           time.Time
	Bookable       bool
	ReservedLabels []string
	Manifest       *seating.Manifest
}

// EventSource loads the checkout view of an event. The events package
// provides the adapter; declared here to avoid a package cycle.
type EventSource interface {
	BookingView(ctx context.Context, eventID uuid.UUID) (*EventSnapshot, error)
}

// BookedFeed pushes the full booked-seat set after a commit. Satisfied
// by the availability feed.
type BookedFeed interface {
	Publish(ctx context.Context, eventID string, bookedIDs []string) error
}

// NotificationProducer emits a booking.confirmed message after a commit.
type NotificationProducer interface {
	BookingConfirmed(ctx context.Context, booking *Booking) error
}

type Service interface {
	SetFeed(feed BookedFeed)
	SetNotificationProducer(producer NotificationProducer)

	CreateBooking(ctx context.Context, userID uuid.UUID, req CreateBookingRequest) (*BookingResponse, error)
	VerifyMembership(ctx context.Context, req VerifyMembershipRequest) (*VerificationResult, error)
	GetBooking(ctx context.Context, bookingID, userID uuid.UUID, isAdmin bool) (*BookingResponse, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID, limit, offset int) ([]BookingResponse, error)
	GetEventBookings(ctx context.Context, eventID uuid.UUID) ([]BookingResponse, error)
}

type service struct {
	repo     Repository
	events   EventSource
	verifier *Verifier
	feed     BookedFeed
	producer NotificationProducer
	cfg      *config.Config
	log      *logger.Logger
}

func NewService(repo Repository, events EventSource, verifier *Verifier, cfg *config.Config) Service {
	return &service{
		repo:     repo,
		events:   events,
		verifier: verifier,
		cfg:      cfg,
		log:      logger.GetDefault(),
	}
}

// SetFeed wires the post-commit availability push. Optional; commits
// succeed without it.
func (s *service) SetFeed(feed BookedFeed) {
	s.feed = feed
}

func (s *service) SetNotificationProducer(producer NotificationProducer) {
	s.producer = producer
}

// CreateBooking runs the whole commit protocol: attendee validation,
// membership verification, pre-write availability re-validation, then a
// single transactional insert. On any failure no partial state is left,
// so the caller can safely resubmit.
func (s *service) CreateBooking(ctx context.Context, userID uuid.UUID, req CreateBookingRequest) (*BookingResponse, error) {
	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, &ValidationError{Field: "event_id", Reason: "not a valid UUID"}
	}

	snapshot, err := s.events.BookingView(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !snapshot.Bookable {
		return nil, ErrEventNotBookable
	}

	if err := s.validateAttendees(snapshot, req.Attendees); err != nil {
		return nil, err
	}

	// The write is bounded so a hung store surfaces as a retryable
	// failure instead of an indefinitely pending checkout.
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Booking.CommitTimeout)
	defer cancel()

	booking := &Booking{
		UserID:    userID,
		EventID:   snapshot.ID,
		EventName: snapshot.Name,
		EventDate: snapshot.Date,
	}
	verification := make(map[string]VerificationResult)

	// Codes consumed earlier in this same submission count as used.
	usedInRequest := make(map[string]bool)

	for _, a := range req.Attendees {
		seat, _ := snapshot.Manifest.Get(a.SeatID)
		attendee := Attendee{
			EventID:   snapshot.ID,
			SeatID:    a.SeatID,
			SeatLabel: seat.ID.Label(),
			Name:      a.Name,
			UnitPrice: seat.Price,
		}

		if a.IsMember || a.MemberCode != "" {
			attendee.IsMember = true
			attendee.MemberCode = a.MemberCode

			result, canonical, err := s.verifier.Verify(ctx, snapshot.ID, a.MemberCode)
			if err != nil {
				return nil, err
			}
			if result.Verified && usedInRequest[canonical] {
				result = VerificationResult{Verified: false, Reason: ReasonAlreadyUsed}
			}
			if result.Verified {
				usedInRequest[canonical] = true
				attendee.MemberCode = canonical
				attendee.MemberVerified = true
			} else {
				s.log.LogVerificationFailure(ctx, snapshot.ID.String(), result.Reason)
			}
			verification[a.SeatID] = result
		}

		if !attendee.MemberVerified {
			booking.TotalAmount += attendee.UnitPrice
		}
		booking.Attendees = append(booking.Attendees, attendee)
	}

	seatIDs := make([]string, len(req.Attendees))
	for i, a := range req.Attendees {
		seatIDs[i] = a.SeatID
	}

	// Re-validate availability immediately before the write. The unique
	// (event_id, seat_id) index backstops the remaining window.
	bookedIDs, err := s.repo.BookedSeatIDs(ctx, snapshot.ID)
	if err != nil {
		return nil, err
	}
	snap := availability.Aggregate(snapshot.Manifest, snapshot.ReservedLabels, bookedIDs, nil)
	if conflicts := snap.Conflicts(seatIDs); len(conflicts) > 0 {
		s.log.LogSeatConflict(ctx, snapshot.ID.String(), conflicts)
		return nil, &SeatConflictError{Seats: conflicts}
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		var conflict *SeatConflictError
		if errors.As(err, &conflict) {
			s.log.LogSeatConflict(ctx, snapshot.ID.String(), conflict.Seats)
		}
		return nil, err
	}

	s.log.LogBookingCommitted(ctx, booking.ID.String(), snapshot.ID.String(), userID.String(), booking.TotalAmount)
	s.afterCommit(booking)

	resp := booking.ToResponse()
	resp.Verification = verification
	return &resp, nil
}

func (s *service) validateAttendees(snapshot *EventSnapshot, attendees []AttendeeRequest) error {
	if limit := s.cfg.Booking.MaxAttendees; limit > 0 && len(attendees) > limit {
		return &ValidationError{Field: "attendees", Reason: fmt.Sprintf("at most %d attendees per booking", limit)}
	}

	seen := make(map[string]bool, len(attendees))
	for _, a := range attendees {
		if _, ok := snapshot.Manifest.Get(a.SeatID); !ok {
			return &ValidationError{Field: "seat_id", Reason: fmt.Sprintf("seat %q does not exist for this event", a.SeatID)}
		}
		if seen[a.SeatID] {
			return &ValidationError{Field: "seat_id", Reason: fmt.Sprintf("seat %q requested twice", a.SeatID)}
		}
		seen[a.SeatID] = true
	}
	return nil
}

// afterCommit pushes the refreshed booked set and the confirmation
// message. Both are best effort; the booking already stands.
func (s *service) afterCommit(booking *Booking) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if s.feed != nil {
		booked, err := s.repo.BookedSeatIDs(ctx, booking.EventID)
		if err == nil {
			err = s.feed.Publish(ctx, booking.EventID.String(), booked)
		}
		if err != nil {
			s.log.Warn("failed to publish booked-seat update",
				"event_id", booking.EventID.String(), "error", err)
		}
	}

	if s.producer != nil {
		if err := s.producer.BookingConfirmed(ctx, booking); err != nil {
			s.log.Warn("failed to emit booking confirmation",
				"booking_id", booking.ID.String(), "error", err)
		}
	}
}

func (s *service) VerifyMembership(ctx context.Context, req VerifyMembershipRequest) (*VerificationResult, error) {
	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, &ValidationError{Field: "event_id", Reason: "not a valid UUID"}
	}
	if _, err := s.events.BookingView(ctx, eventID); err != nil {
		return nil, err
	}

	result, _, err := s.verifier.Verify(ctx, eventID, req.MemberCode)
	if err != nil {
		return nil, err
	}
	if !result.Verified {
		s.log.LogVerificationFailure(ctx, eventID.String(), result.Reason)
	}
	return &result, nil
}

func (s *service) GetBooking(ctx context.Context, bookingID, userID uuid.UUID, isAdmin bool) (*BookingResponse, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && booking.UserID != userID {
		return nil, ErrBookingNotFound
	}
	resp := booking.ToResponse()
	return &resp, nil
}

func (s *service) GetUserBookings(ctx context.Context, userID uuid.UUID, limit, offset int) ([]BookingResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	bookings, err := s.repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	responses := make([]BookingResponse, len(bookings))
	for i := range bookings {
		responses[i] = bookings[i].ToResponse()
	}
	return responses, nil
}

func (s *service) GetEventBookings(ctx context.Context, eventID uuid.UUID) ([]BookingResponse, error) {
	bookings, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	responses := make([]BookingResponse, len(bookings))
	for i := range bookings {
		responses[i] = bookings[i].ToResponse()
	}
	return responses, nil
}
