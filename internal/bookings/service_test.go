package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stagepass/internal/members"
	"stagepass/internal/seating"
	"stagepass/internal/shared/config"
)

type fakeRepository struct {
	bookings  []*Booking
	createErr error
}

func (f *fakeRepository) Create(ctx context.Context, booking *Booking) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.bookings {
		for _, a := range existing.Attendees {
			for _, req := range booking.Attendees {
				if existing.EventID == booking.EventID && a.SeatID == req.SeatID {
					seats := make([]string, 0, len(booking.Attendees))
					for _, x := range booking.Attendees {
						seats = append(seats, x.SeatID)
					}
					return &SeatConflictError{Seats: seats}
				}
			}
		}
	}
	booking.ID = uuid.New()
	booking.CreatedAt = time.Now()
	f.bookings = append(f.bookings, booking)
	return nil
}

func (f *fakeRepository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	for _, b := range f.bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, ErrBookingNotFound
}

func (f *fakeRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Booking, error) {
	var out []Booking
	for _, b := range f.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]Booking, error) {
	var out []Booking
	for _, b := range f.bookings {
		if b.EventID == eventID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeRepository) BookedSeatIDs(ctx context.Context, eventID uuid.UUID) ([]string, error) {
	var out []string
	for _, b := range f.bookings {
		if b.EventID != eventID {
			continue
		}
		for _, a := range b.Attendees {
			out = append(out, a.SeatID)
		}
	}
	return out, nil
}

func (f *fakeRepository) MemberCodeUsed(ctx context.Context, eventID uuid.UUID, code string) (bool, error) {
	for _, b := range f.bookings {
		if b.EventID != eventID {
			continue
		}
		for _, a := range b.Attendees {
			if a.MemberVerified && a.MemberCode == code {
				return true, nil
			}
		}
	}
	return false, nil
}

type fakeEventSource struct {
	snapshots map[uuid.UUID]*EventSnapshot
}

func (f *fakeEventSource) BookingView(ctx context.Context, eventID uuid.UUID) (*EventSnapshot, error) {
	snap, ok := f.snapshots[eventID]
	if !ok {
		return nil, ErrEventNotFound
	}
	return snap, nil
}

type fakeFeed struct {
	published map[string][]string
}

func (f *fakeFeed) Publish(ctx context.Context, eventID string, bookedIDs []string) error {
	if f.published == nil {
		f.published = make(map[string][]string)
	}
	f.published[eventID] = bookedIDs
	return nil
}

type bookingFixture struct {
	service Service
	repo    *fakeRepository
	feed    *fakeFeed
	eventID uuid.UUID
	userID  uuid.UUID
}

func newBookingFixture(t *testing.T, reservedLabels []string) *bookingFixture {
	t.Helper()

	chart := &seating.Chart{
		Tiers: []seating.Tier{
			{
				Name: "Main Hall",
				Sections: []seating.Section{
					{
						Name:       "Gold",
						TicketType: "Gold",
						Price:      900,
						Rows:       []seating.Row{{ID: "A", Seats: 4}},
					},
					{
						Name:       "Silver",
						TicketType: "Silver",
						Price:      500,
						Rows:       []seating.Row{{ID: "B", Seats: 4}},
					},
				},
			},
		},
	}
	manifest, err := seating.Resolve(chart)
	require.NoError(t, err)

	eventID := uuid.New()
	events := &fakeEventSource{snapshots: map[uuid.UUID]*EventSnapshot{
		eventID: {
			ID:             eventID,
			Name:           "Autumn Chamber Recital",
			Date:           time.Now().AddDate(0, 1, 0),
			Bookable:       true,
			ReservedLabels: reservedLabels,
			Manifest:       manifest,
		},
	}}

	current := time.Now().AddDate(1, 0, 0)
	memberSource := &fakeMemberSource{byCode: map[string]*members.Member{
		"GOLD-MAYA": {MemberID: 1001, Name: "Maya", CouponCode: "GOLD-MAYA", ExpiresAt: &current},
		"LIFE-JON":  {MemberID: 1002, Name: "Jon", CouponCode: "LIFE-JON"},
	}}

	repo := &fakeRepository{}
	verifier := NewVerifier(memberSource, repo)

	cfg := &config.Config{
		Booking: config.BookingConfig{
			CommitTimeout: 2 * time.Second,
			MaxAttendees:  4,
		},
	}

	svc := NewService(repo, events, verifier, cfg)
	feed := &fakeFeed{}
	svc.SetFeed(feed)

	return &bookingFixture{
		service: svc,
		repo:    repo,
		feed:    feed,
		eventID: eventID,
		userID:  uuid.New(),
	}
}

func TestCreateBookingTotals(t *testing.T) {
	fx := newBookingFixture(t, nil)

	resp, err := fx.service.CreateBooking(context.Background(), fx.userID, CreateBookingRequest{
		EventID: fx.eventID.String(),
		Attendees: []AttendeeRequest{
			{SeatID: "Silver-B-1", Name: "Alice"},
			{SeatID: "Silver-B-2", Name: "Bob"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1000.0, resp.TotalAmount)
	require.Len(t, resp.Attendees, 2)
	assert.Equal(t, "B-1", resp.Attendees[0].SeatLabel)
	assert.Equal(t, 500.0, resp.Attendees[0].AmountOwed)
	assert.Empty(t, resp.Verification)

	// The post-commit push carries the full booked set.
	assert.ElementsMatch(t, []string{"Silver-B-1", "Silver-B-2"}, fx.feed.published[fx.eventID.String()])
}

func TestCreateBookingVerifiedMemberPaysNothing(t *testing.T) {
	fx := newBookingFixture(t, nil)

	resp, err := fx.service.CreateBooking(context.Background(), fx.userID, CreateBookingRequest{
		EventID: fx.eventID.String(),
		Attendees: []AttendeeRequest{
			{SeatID: "Gold-A-1", Name: "Maya", MemberCode: "GOLD-MAYA"},
			{SeatID: "Gold-A-2", Name: "Guest"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 900.0, resp.TotalAmount)
	result := resp.Verification["Gold-A-1"]
	assert.True(t, result.Verified)
	assert.Equal(t, "Maya", result.MemberName)
	assert.Equal(t, 0.0, resp.Attendees[0].AmountOwed)
	assert.Equal(t, 900.0, resp.Attendees[1].AmountOwed)
}

func TestCreateBookingUnverifiedCodePaysFullPrice(t *testing.T) {
	fx := newBookingFixture(t, nil)

	resp, err := fx.service.CreateBooking(context.Background(), fx.userID, CreateBookingRequest{
		EventID: fx.eventID.String(),
		Attendees: []AttendeeRequest{
			{SeatID: "Gold-A-1", Name: "Pat", MemberCode: "WRONG-CODE"},
		},
	})
	require.NoError(t, err, "a failed verification must not block the booking")

	assert.Equal(t, 900.0, resp.TotalAmount)
	result := resp.Verification["Gold-A-1"]
	assert.False(t, result.Verified)
	assert.Equal(t, ReasonInvalidCode, result.Reason)
}

func TestCreateBookingCodeUsedOncePerEvent(t *testing.T) {
	fx := newBookingFixture(t, nil)

	_, err := fx.service.CreateBooking(context.Background(), fx.userID, CreateBookingRequest{
		EventID: fx.eventID.String(),
		Attendees: []AttendeeRequest{
			{SeatID: "Gold-A-1", Name: "Maya", MemberCode: "GOLD-MAYA"},
		},
	})
	require.NoError(t, err)

	// The numeric member id resolves to the same canonical coupon, so the
	// second booking finds it consumed.
	resp, err := fx.service.CreateBooking(context.Background(), fx.userID, CreateBookingRequest{
		EventID: fx.eventID.String(),
		Attendees: []AttendeeRequest{
			{SeatID: "Gold-A-2", Name: "Maya again", MemberCode: "1001"},
		},
	})
	require.NoError(t, err)

	result := resp.Verification["Gold-A-2"]
	assert.False(t, result.Verified)
	assert.Equal(t, ReasonAlreadyUsed, result.Reason)
	assert.Equal(t, 900.0, resp.TotalAmount)
}

func TestCreateBookingCodeReusedWithinRequest(t *testing.T) {
	fx := newBookingFixture(t, nil)

	resp, err := fx.service.CreateBooking(context.Background(), fx.userID, CreateBookingRequest{
		EventID: fx.eventID.String(),
		Attendees: []AttendeeRequest{
			{SeatID: "Gold-A-1", Name: "Jon", MemberCode: "LIFE-JON"},
			{SeatID: "Gold-A-2", Name: "Jon twin", MemberCode: "1002"},
		},
	})
	require.NoError(t, err)

	first := resp.Verification["Gold-A-1"]
	second := resp.Verification["Gold-A-2"]
	assert.True(t, first.Verified)
	assert.False(t, second.Verified)
	assert.Equal(t, ReasonAlreadyUsed, second.Reason)
	assert.Equal(t, 900.0, resp.TotalAmount)
}

func TestCreateBookingSeatConflicts(t *testing.T) {
	fx := newBookingFixture(t, nil)

	_, err := fx.service.CreateBooking(context.Background(), fx.userID, CreateBookingRequest{
		EventID:   fx.eventID.String(),
		Attendees: []AttendeeRequest{{SeatID: "Gold-A-1", Name: "First"}},
	})
	require.NoError(t, err)

	_, err = fx.service.CreateBooking(context.Background(), uuid.New(), CreateBookingRequest{
		EventID: fx.eventID.String(),
		Attendees: []AttendeeRequest{
			{SeatID: "Gold-A-1", Name: "Second"},
			{SeatID: "Gold-A-2", Name: "Third"},
		},
	})
	var conflict *SeatConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []string{"Gold-A-1"}, conflict.Seats)

	// Nothing was written for the losing booking; the free seat stays free.
	booked, _ := fx.repo.BookedSeatIDs(context.Background(), fx.eventID)
	assert.Equal(t, []string{"Gold-A-1"}, booked)
}

func TestCreateBookingReservedSeatRejected(t *testing.T) {
	fx := newBookingFixture(t, []string{"a-3"})

	_, err := fx.service.CreateBooking(context.Background(), fx.userID, CreateBookingRequest{
		EventID:   fx.eventID.String(),
		Attendees: []AttendeeRequest{{SeatID: "Gold-A-3", Name: "Hopeful"}},
	})
	var conflict *SeatConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []string{"Gold-A-3"}, conflict.Seats)
}

func TestCreateBookingValidation(t *testing.T) {
	fx := newBookingFixture(t, nil)

	tests := []struct {
		name      string
		req       CreateBookingRequest
		wantField string
	}{
		{
			name: "malformed event id",
			req: CreateBookingRequest{
				EventID:   "not-a-uuid",
				Attendees: []AttendeeRequest{{SeatID: "Gold-A-1", Name: "X"}},
			},
			wantField: "event_id",
		},
		{
			name: "unknown seat",
			req: CreateBookingRequest{
				EventID:   fx.eventID.String(),
				Attendees: []AttendeeRequest{{SeatID: "Gold-Z-1", Name: "X"}},
			},
			wantField: "seat_id",
		},
		{
			name: "same seat twice",
			req: CreateBookingRequest{
				EventID: fx.eventID.String(),
				Attendees: []AttendeeRequest{
					{SeatID: "Gold-A-1", Name: "X"},
					{SeatID: "Gold-A-1", Name: "Y"},
				},
			},
			wantField: "seat_id",
		},
		{
			name: "too many attendees",
			req: CreateBookingRequest{
				EventID: fx.eventID.String(),
				Attendees: []AttendeeRequest{
					{SeatID: "Gold-A-1", Name: "1"},
					{SeatID: "Gold-A-2", Name: "2"},
					{SeatID: "Gold-A-3", Name: "3"},
					{SeatID: "Gold-A-4", Name: "4"},
					{SeatID: "Silver-B-1", Name: "5"},
				},
			},
			wantField: "attendees",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fx.service.CreateBooking(context.Background(), fx.userID, tt.req)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestCreateBookingEventNotBookable(t *testing.T) {
	fx := newBookingFixture(t, nil)
	events := fx.service.(*service).events.(*fakeEventSource)
	events.snapshots[fx.eventID].Bookable = false

	_, err := fx.service.CreateBooking(context.Background(), fx.userID, CreateBookingRequest{
		EventID:   fx.eventID.String(),
		Attendees: []AttendeeRequest{{SeatID: "Gold-A-1", Name: "Late"}},
	})
	assert.ErrorIs(t, err, ErrEventNotBookable)
}

func TestVerifyMembership(t *testing.T) {
	fx := newBookingFixture(t, nil)

	result, err := fx.service.VerifyMembership(context.Background(), VerifyMembershipRequest{
		EventID:    fx.eventID.String(),
		MemberCode: "GOLD-MAYA",
	})
	require.NoError(t, err)
	assert.True(t, result.Verified)

	// Pre-checkout verification does not consume the code.
	resp, err := fx.service.CreateBooking(context.Background(), fx.userID, CreateBookingRequest{
		EventID:   fx.eventID.String(),
		Attendees: []AttendeeRequest{{SeatID: "Gold-A-1", Name: "Maya", MemberCode: "GOLD-MAYA"}},
	})
	require.NoError(t, err)
	assert.True(t, resp.Verification["Gold-A-1"].Verified)
}

func TestGetBookingOwnership(t *testing.T) {
	fx := newBookingFixture(t, nil)

	created, err := fx.service.CreateBooking(context.Background(), fx.userID, CreateBookingRequest{
		EventID:   fx.eventID.String(),
		Attendees: []AttendeeRequest{{SeatID: "Gold-A-1", Name: "Owner"}},
	})
	require.NoError(t, err)
	bookingID := uuid.MustParse(created.ID)

	got, err := fx.service.GetBooking(context.Background(), bookingID, fx.userID, false)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	// Another user cannot see it, an admin can.
	_, err = fx.service.GetBooking(context.Background(), bookingID, uuid.New(), false)
	assert.ErrorIs(t, err, ErrBookingNotFound)

	_, err = fx.service.GetBooking(context.Background(), bookingID, uuid.New(), true)
	assert.NoError(t, err)
}
