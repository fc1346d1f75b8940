package bookings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"stagepass/internal/shared/utils/response"
	"stagepass/internal/users"
)

type Controller interface {
	CreateBooking(c *gin.Context)
	VerifyMembership(c *gin.Context)
	GetBooking(c *gin.Context)
	GetMyBookings(c *gin.Context)
	GetEventBookings(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func userFromContext(c *gin.Context) (uuid.UUID, bool) {
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

func isAdmin(c *gin.Context) bool {
	role, exists := c.Get("user_role")
	return exists && role == string(users.RoleAdmin)
}

// respondBookingError maps commit protocol error kinds to HTTP statuses.
// Seat conflicts are 409 so clients re-read availability and reopen seat
// picking; store failures are 503 and safe to retry.
func respondBookingError(c *gin.Context, err error) {
	var validation *ValidationError
	var conflict *SeatConflictError

	switch {
	case errors.As(err, &validation):
		response.RespondJSON(c, "error", http.StatusBadRequest, validation.Error(), nil, gin.H{"field": validation.Field})
	case errors.As(err, &conflict):
		response.RespondJSON(c, "error", http.StatusConflict, "Some seats are no longer available", nil, gin.H{"seats": conflict.Seats})
	case errors.Is(err, ErrEventNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, "Event not found", nil, nil)
	case errors.Is(err, ErrBookingNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, "Booking not found", nil, nil)
	case errors.Is(err, ErrNoAssignedSeating):
		response.RespondJSON(c, "error", http.StatusBadRequest, "Event does not use assigned seating", nil, nil)
	case errors.Is(err, ErrEventNotBookable):
		response.RespondJSON(c, "error", http.StatusBadRequest, "Event is not open for booking", nil, nil)
	case errors.Is(err, ErrStorageUnavailable):
		response.RespondJSON(c, "error", http.StatusServiceUnavailable, "Booking store unavailable, please retry", nil, nil)
	default:
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to process booking", nil, err.Error())
	}
}

func (ctrl *controller) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	userID, ok := userFromContext(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	booking, err := ctrl.service.CreateBooking(c.Request.Context(), userID, req)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Booking confirmed", booking, nil)
}

func (ctrl *controller) VerifyMembership(c *gin.Context) {
	var req VerifyMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	result, err := ctrl.service.VerifyMembership(c.Request.Context(), req)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	message := "Membership verified"
	if !result.Verified {
		message = "Membership not verified"
	}
	response.RespondJSON(c, "success", http.StatusOK, message, result, nil)
}

func (ctrl *controller) GetBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("bookingId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid booking ID", nil, err.Error())
		return
	}

	userID, ok := userFromContext(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	booking, err := ctrl.service.GetBooking(c.Request.Context(), bookingID, userID, isAdmin(c))
	if err != nil {
		respondBookingError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Booking retrieved successfully", booking, nil)
}

func (ctrl *controller) GetMyBookings(c *gin.Context) {
	userID, ok := userFromContext(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	bookings, err := ctrl.service.GetUserBookings(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Bookings retrieved successfully", bookings, nil)
}

func (ctrl *controller) GetEventBookings(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	bookings, err := ctrl.service.GetEventBookings(c.Request.Context(), eventID)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Event bookings retrieved successfully", bookings, nil)
}
