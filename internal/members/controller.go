package members

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"stagepass/internal/shared/utils/response"
)

type Controller struct {
	service  Service
	validate *validator.Validate
}

func NewController(service Service) *Controller {
	return &Controller{
		service:  service,
		validate: validator.New(),
	}
}

// CreateMember registers a membership record with its coupon code.
func (ctrl *Controller) CreateMember(c *gin.Context) {
	var req CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := ctrl.validate.Struct(req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	member, err := ctrl.service.CreateMember(c.Request.Context(), req)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to create member", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Member created successfully", member, nil)
}

func (ctrl *Controller) GetMember(c *gin.Context) {
	member, err := ctrl.service.GetMember(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, "Member not found", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid member ID", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Member retrieved successfully", member, nil)
}

func (ctrl *Controller) ListMembers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	members, total, err := ctrl.service.ListMembers(c.Request.Context(), limit, offset)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to list members", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Members retrieved successfully", gin.H{
		"members": members,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	}, nil)
}

func (ctrl *Controller) UpdateMember(c *gin.Context) {
	var req UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	member, err := ctrl.service.UpdateMember(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, "Member not found", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusBadRequest, "Failed to update member", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Member updated successfully", member, nil)
}

func (ctrl *Controller) DeleteMember(c *gin.Context) {
	if err := ctrl.service.DeleteMember(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, "Member not found", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusBadRequest, "Failed to delete member", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Member deleted successfully", nil, nil)
}
