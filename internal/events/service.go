package events

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"stagepass/internal/availability"
	"stagepass/internal/seating"
	"stagepass/internal/shared/constants"
	"stagepass/pkg/cache"
	"stagepass/pkg/logger"
)

var (
	ErrEventNotFound  = errors.New("event not found")
	ErrNoSeatingChart = errors.New("event has no seating chart")
)

// SeatUsage reports which seat identities committed bookings have
// consumed for an event. Satisfied by the bookings repository; declared
// here to avoid a package cycle.
type SeatUsage interface {
	BookedSeatIDs(ctx context.Context, eventID uuid.UUID) ([]string, error)
}

// SeatmapResponse is the rendered seat universe of one event with every
// seat's merged status.
type SeatmapResponse struct {
	EventID         string                    `json:"event_id"`
	EventName       string                    `json:"event_name"`
	Rows            []seating.ResolvedRow     `json:"rows"`
	Seats           []availability.SeatStatus `json:"seats"`
	AmbiguousLabels []string                  `json:"ambiguous_labels,omitempty"`
}

type Service interface {
	SetSeatUsage(usage SeatUsage)
	SetCacheService(cacheService cache.Service)
	SetChangePublisher(publisher ChangePublisher)

	CreateEvent(ctx context.Context, adminID uuid.UUID, req CreateEventRequest) (*EventResponse, error)
	GetEventByID(ctx context.Context, id uuid.UUID) (*EventResponse, error)
	UpdateEvent(ctx context.Context, id uuid.UUID, adminID uuid.UUID, req UpdateEventRequest) (*EventResponse, error)
	DeleteEvent(ctx context.Context, id uuid.UUID, adminID uuid.UUID) error
	GetAllEvents(ctx context.Context, query EventListQuery) (*PaginatedEvents, error)
	GetUpcomingEvents(ctx context.Context, limit int) ([]EventResponse, error)

	GetSeatmap(ctx context.Context, id uuid.UUID, selected []string) (*SeatmapResponse, error)
	BookingView(ctx context.Context, id uuid.UUID) (*Event, *seating.Manifest, error)
	CurrentBookedSeats(ctx context.Context, id uuid.UUID) ([]string, error)
}

type service struct {
	repo         Repository
	seatUsage    SeatUsage
	cacheService cache.Service
	publisher    ChangePublisher
	log          *logger.Logger
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
		log:  logger.GetDefault(),
	}
}

func (s *service) SetSeatUsage(usage SeatUsage) {
	s.seatUsage = usage
}

func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) SetChangePublisher(publisher ChangePublisher) {
	s.publisher = publisher
}

func (s *service) getCache(ctx context.Context, key string, dest interface{}) error {
	if s.cacheService == nil {
		return cache.ErrCacheMiss
	}
	return s.cacheService.Get(ctx, key, dest)
}

func (s *service) setCache(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.Set(ctx, key, value, ttl); err != nil {
		s.log.Warn("failed to cache", "key", key, "error", err)
	}
}

func (s *service) invalidateEventCache(ctx context.Context) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.DeletePattern(ctx, constants.EventPattern()); err != nil {
		s.log.Warn("failed to invalidate event cache", "error", err)
	}
}

func (s *service) publishChange(ctx context.Context, action string, eventID, adminID uuid.UUID) {
	s.log.LogEventChanged(ctx, action, eventID.String(), adminID.String())
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishEventChange(ctx, action, eventID.String()); err != nil {
		s.log.Warn("failed to publish event change", "action", action, "error", err)
	}
}

// validateChart resolves the chart once so malformed layouts are rejected
// at write time instead of surfacing on the seat map.
func validateChart(chart *seating.Chart) error {
	if chart == nil {
		return nil
	}
	if _, err := seating.Resolve(chart); err != nil {
		return err
	}
	return nil
}

func (s *service) CreateEvent(ctx context.Context, adminID uuid.UUID, req CreateEventRequest) (*EventResponse, error) {
	if req.DateTime.Before(time.Now()) {
		return nil, errors.New("event date must be in the future")
	}
	for _, tt := range req.TicketTypes {
		if tt.Name == "" || tt.Price < 0 {
			return nil, errors.New("ticket types need a name and a non-negative price")
		}
	}
	if err := validateChart(req.SeatingChart); err != nil {
		return nil, err
	}

	status := StatusPublished
	if req.Status != "" {
		status = Status(req.Status)
	}

	event := &Event{
		Name:          req.Name,
		Description:   req.Description,
		Category:      req.Category,
		Venue:         req.Venue,
		DateTime:      req.DateTime,
		Status:        status,
		TicketTypes:   req.TicketTypes,
		ReservedSeats: req.ReservedSeats,
		ImageURL:      req.ImageURL,
		CreatedBy:     adminID,
	}
	if req.SeatingChart != nil {
		event.SeatingChart = ChartDocument{Chart: *req.SeatingChart}
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.invalidateEventCache(ctx)
	s.publishChange(ctx, "created", event.ID, adminID)

	resp := event.ToResponse()
	return &resp, nil
}

func (s *service) GetEventByID(ctx context.Context, id uuid.UUID) (*EventResponse, error) {
	cacheKey := constants.EventKey(id.String())

	var cached EventResponse
	if err := s.getCache(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	resp := event.ToResponse()
	s.setCache(ctx, cacheKey, resp, constants.TTLEvent)
	return &resp, nil
}

func (s *service) UpdateEvent(ctx context.Context, id uuid.UUID, adminID uuid.UUID, req UpdateEventRequest) (*EventResponse, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	if err := validateChart(req.SeatingChart); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Venue != nil {
		updates["venue"] = *req.Venue
	}
	if req.DateTime != nil {
		if req.DateTime.Before(time.Now()) {
			return nil, errors.New("event date must be in the future")
		}
		updates["date_time"] = *req.DateTime
	}
	if req.Status != nil {
		status := Status(*req.Status)
		if !status.IsValid() {
			return nil, errors.New("invalid event status")
		}
		updates["status"] = status
	}
	if req.TicketTypes != nil {
		updates["ticket_types"] = TicketTypeList(req.TicketTypes)
	}
	if req.SeatingChart != nil {
		updates["seating_chart"] = ChartDocument{Chart: *req.SeatingChart}
	}
	if req.ReservedSeats != nil {
		updates["reserved_seats"] = ReservedSeatList(req.ReservedSeats)
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	updates["updated_by"] = adminID
	updates["updated_at"] = time.Now()

	event, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	s.invalidateEventCache(ctx)
	s.publishChange(ctx, "updated", id, adminID)

	resp := event.ToResponse()
	return &resp, nil
}

func (s *service) DeleteEvent(ctx context.Context, id uuid.UUID, adminID uuid.UUID) error {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		return fmt.Errorf("failed to get event: %w", err)
	}

	if s.seatUsage != nil {
		booked, err := s.seatUsage.BookedSeatIDs(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to check event bookings: %w", err)
		}
		if len(booked) > 0 {
			return errors.New("cannot delete an event with existing bookings")
		}
	}

	if !event.Status.CanBeDeleted() {
		return fmt.Errorf("cannot delete event with status %s", event.Status)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	s.invalidateEventCache(ctx)
	s.publishChange(ctx, "deleted", id, adminID)
	return nil
}

func (s *service) GetAllEvents(ctx context.Context, query EventListQuery) (*PaginatedEvents, error) {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	cacheKey := constants.EventListKey(query.Page, query.Limit, query.Status)
	cacheable := query.Search == "" && query.Category == "" && query.Venue == "" &&
		query.DateFrom == "" && query.DateTo == ""

	if cacheable {
		var cached PaginatedEvents
		if err := s.getCache(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	events, totalCount, err := s.repo.GetAll(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}

	responses := make([]EventResponse, len(events))
	for i, event := range events {
		responses[i] = event.ToResponse()
	}

	result := &PaginatedEvents{
		Events:     responses,
		TotalCount: totalCount,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: int(math.Ceil(float64(totalCount) / float64(query.Limit))),
	}

	if cacheable {
		s.setCache(ctx, cacheKey, result, constants.TTLEventList)
	}
	return result, nil
}

func (s *service) GetUpcomingEvents(ctx context.Context, limit int) ([]EventResponse, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	events, err := s.repo.GetUpcoming(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get upcoming events: %w", err)
	}

	responses := make([]EventResponse, len(events))
	for i, event := range events {
		responses[i] = event.ToResponse()
	}
	return responses, nil
}

// GetSeatmap resolves the event's chart and merges reservation, booking
// and selection state for every seat. The selection comes from the caller
// and is never cached.
func (s *service) GetSeatmap(ctx context.Context, id uuid.UUID, selected []string) (*SeatmapResponse, error) {
	event, manifest, err := s.BookingView(ctx, id)
	if err != nil {
		return nil, err
	}

	var bookedIDs []string
	if s.seatUsage != nil {
		bookedIDs, err = s.seatUsage.BookedSeatIDs(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load booked seats: %w", err)
		}
	}

	snap := availability.Aggregate(manifest, event.ReservedSeats, bookedIDs, selected)

	if aliased := snap.AmbiguousLabels(); len(aliased) > 0 {
		s.log.Warn("reservation labels match seats in multiple sections",
			"event_id", id.String(), "labels", aliased)
	}
	if unknown := snap.UnknownBooked(); len(unknown) > 0 {
		s.log.Warn("booked seats no longer exist in the seating chart",
			"event_id", id.String(), "seat_ids", unknown)
	}

	return &SeatmapResponse{
		EventID:         event.ID.String(),
		EventName:       event.Name,
		Rows:            manifest.Rows(),
		Seats:           snap.Seats(),
		AmbiguousLabels: snap.AmbiguousLabels(),
	}, nil
}

// BookingView loads the event plus its resolved manifest, the immutable
// view the checkout flow works against.
func (s *service) BookingView(ctx context.Context, id uuid.UUID) (*Event, *seating.Manifest, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrEventNotFound
		}
		return nil, nil, fmt.Errorf("failed to get event: %w", err)
	}
	if !event.HasSeatingChart() {
		return nil, nil, ErrNoSeatingChart
	}

	chart := event.SeatingChart.Chart
	manifest, err := seating.Resolve(&chart)
	if err != nil {
		return nil, nil, fmt.Errorf("stored seating chart is invalid: %w", err)
	}
	return event, manifest, nil
}

func (s *service) CurrentBookedSeats(ctx context.Context, id uuid.UUID) ([]string, error) {
	if s.seatUsage == nil {
		return nil, nil
	}
	return s.seatUsage.BookedSeatIDs(ctx, id)
}
