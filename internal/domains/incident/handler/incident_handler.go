package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"ecowaste-backend/internal/domains/incident"
	"ecowaste-backend/internal/shared/middleware"
	"ecowaste-backend/internal/shared/response"
	"ecowaste-backend/internal/shared/utils"
)

// IncidentHandler translates HTTP requests into incident.Service calls
type IncidentHandler struct {
	service incident.Service
}

// NewIncidentHandler creates the handler instance
func NewIncidentHandler(service incident.Service) *IncidentHandler {
	return &IncidentHandler{service: service}
}

// Create handles POST /incidents
func (h *IncidentHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Unauthenticated", nil)
		return
	}

	var req incident.CreateIncidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	in, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Incident reported successfully", in)
}

// List handles GET /incidents?status=&reporter_id=&limit=&offset=
func (h *IncidentHandler) List(c *gin.Context) {
	filter := incident.ListFilter{
		Status: c.Query("status"),
	}
	if raw := c.Query("reporter_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "Invalid reporter_id filter", nil)
			return
		}
		filter.ReporterID = &id
	}
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	incidents, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "", incidents)
}

// GetByID handles GET /incidents/:id
func (h *IncidentHandler) GetByID(c *gin.Context) {
	id, err := utils.ParseStringToUUID(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid incident ID", nil)
		return
	}

	in, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "", in)
}

// UpdateStatus handles PATCH /incidents/:id/status (employee only)
func (h *IncidentHandler) UpdateStatus(c *gin.Context) {
	id, err := utils.ParseStringToUUID(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid incident ID", nil)
		return
	}

	var req incident.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	in, err := h.service.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Incident status updated", in)
}

// Award handles POST /incidents/:id/reward (employee only)
func (h *IncidentHandler) Award(c *gin.Context) {
	id, err := utils.ParseStringToUUID(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid incident ID", nil)
		return
	}

	var req incident.AwardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	reward, err := h.service.Award(c.Request.Context(), id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Reward issued successfully", reward)
}

// handleError maps domain errors onto HTTP responses
func (h *IncidentHandler) handleError(c *gin.Context, err error) {
	var vErrs validation.Errors
	var vErr validation.Error

	switch {
	case errors.As(err, &vErrs), errors.As(err, &vErr):
		response.Error(c, http.StatusBadRequest, "Validation failed", err.Error())

	case errors.Is(err, incident.ErrIncidentNotFound),
		errors.Is(err, incident.ErrReporterMissing):
		response.Error(c, http.StatusNotFound, err.Error(), nil)

	// Invalid-state failures: not resolved yet, already rewarded, or frozen
	case errors.Is(err, incident.ErrAlreadyRewarded),
		errors.Is(err, incident.ErrIncidentNotResolved),
		errors.Is(err, incident.ErrTerminalStatus):
		response.Error(c, http.StatusConflict, err.Error(), nil)

	default:
		response.Error(c, http.StatusInternalServerError, "Internal server error", nil)
	}
}
