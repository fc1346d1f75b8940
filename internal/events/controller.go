package events

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"stagepass/internal/availability"
	"stagepass/internal/seating"
	"stagepass/internal/shared/utils/response"
)

type Controller interface {
	CreateEvent(c *gin.Context)
	GetEvent(c *gin.Context)
	UpdateEvent(c *gin.Context)
	DeleteEvent(c *gin.Context)
	GetAllEvents(c *gin.Context)
	GetUpcomingEvents(c *gin.Context)
	GetSeatmap(c *gin.Context)
	StreamAvailability(c *gin.Context)
}

type controller struct {
	service Service
	feed    availability.Feed
}

func NewController(service Service, feed availability.Feed) Controller {
	return &controller{service: service, feed: feed}
}

func adminFromContext(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw.(string))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func (ctrl *controller) CreateEvent(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	adminID, ok := adminFromContext(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Admin not authenticated", nil, nil)
		return
	}

	event, err := ctrl.service.CreateEvent(c.Request.Context(), adminID, req)
	if err != nil {
		if errors.Is(err, seating.ErrInvalidChart) {
			response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid seating chart", nil, err.Error())
			return
		}
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Event created successfully", event, nil)
}

func (ctrl *controller) GetEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	event, err := ctrl.service.GetEventByID(c.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, "Event not found", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to fetch event", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Event retrieved successfully", event, nil)
}

func (ctrl *controller) UpdateEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	adminID, ok := adminFromContext(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Admin not authenticated", nil, nil)
		return
	}

	event, err := ctrl.service.UpdateEvent(c.Request.Context(), eventID, adminID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEventNotFound):
			response.RespondJSON(c, "error", http.StatusNotFound, "Event not found", nil, nil)
		case errors.Is(err, seating.ErrInvalidChart):
			response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid seating chart", nil, err.Error())
		default:
			response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
		}
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Event updated successfully", event, nil)
}

func (ctrl *controller) DeleteEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	adminID, ok := adminFromContext(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Admin not authenticated", nil, nil)
		return
	}

	if err := ctrl.service.DeleteEvent(c.Request.Context(), eventID, adminID); err != nil {
		if errors.Is(err, ErrEventNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, "Event not found", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Event deleted successfully", nil, nil)
}

func (ctrl *controller) GetAllEvents(c *gin.Context) {
	var query EventListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	result, err := ctrl.service.GetAllEvents(c.Request.Context(), query)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to fetch events", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Events retrieved successfully", result, nil)
}

func (ctrl *controller) GetUpcomingEvents(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	events, err := ctrl.service.GetUpcomingEvents(c.Request.Context(), limit)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to fetch upcoming events", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Upcoming events retrieved successfully", events, nil)
}

// GetSeatmap returns every seat with its merged availability status. The
// optional "selected" query parameter carries the caller's in-progress
// picks as comma-separated full seat identities.
func (ctrl *controller) GetSeatmap(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	var selected []string
	if raw := c.Query("selected"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				selected = append(selected, id)
			}
		}
	}

	seatmap, err := ctrl.service.GetSeatmap(c.Request.Context(), eventID, selected)
	if err != nil {
		switch {
		case errors.Is(err, ErrEventNotFound):
			response.RespondJSON(c, "error", http.StatusNotFound, "Event not found", nil, nil)
		case errors.Is(err, ErrNoSeatingChart):
			response.RespondJSON(c, "error", http.StatusNotFound, "Event has no seating chart", nil, nil)
		default:
			response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to build seat map", nil, err.Error())
		}
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Seat map retrieved successfully", seatmap, nil)
}

// StreamAvailability pushes booked-seat snapshots over server-sent
// events. Each frame replaces the client's previous booked set.
func (ctrl *controller) StreamAvailability(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	if _, err := ctrl.service.GetEventByID(c.Request.Context(), eventID); err != nil {
		if errors.Is(err, ErrEventNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, "Event not found", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to fetch event", nil, err.Error())
		return
	}

	updates, cancel, err := ctrl.feed.Subscribe(c.Request.Context(), eventID.String())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusServiceUnavailable, "Availability feed unavailable", nil, err.Error())
		return
	}
	defer cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	// Seed the stream with the current booked set so clients do not have
	// to wait for the next booking.
	booked, err := ctrl.service.CurrentBookedSeats(c.Request.Context(), eventID)
	if err == nil {
		if booked == nil {
			booked = []string{}
		}
		c.SSEvent("bookings", booked)
		c.Writer.Flush()
	}

	c.Stream(func(w io.Writer) bool {
		select {
		case ids, ok := <-updates:
			if !ok {
				return false
			}
			if ids == nil {
				ids = []string{}
			}
			c.SSEvent("bookings", ids)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
