package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"ecowaste-backend/internal/domains/report"
	"ecowaste-backend/internal/shared/middleware"
	"ecowaste-backend/internal/shared/response"
	"ecowaste-backend/internal/shared/utils"
)

// ReportHandler translates HTTP requests into report.Service calls
type ReportHandler struct {
	service report.Service
}

// NewReportHandler creates the handler instance
func NewReportHandler(service report.Service) *ReportHandler {
	return &ReportHandler{service: service}
}

// Create handles POST /reports (collector submits a report)
func (h *ReportHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Unauthenticated", nil)
		return
	}

	var req report.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	rp, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Report submitted successfully", rp)
}

// List handles GET /reports?status=&dustbin_id=&limit=&offset=
func (h *ReportHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Unauthenticated", nil)
		return
	}
	role := middleware.GetRole(c)

	filter := report.ListFilter{
		Status: c.Query("status"),
	}
	if raw := c.Query("dustbin_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "Invalid dustbin_id filter", nil)
			return
		}
		filter.DustbinID = &id
	}
	if raw := c.Query("collector_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "Invalid collector_id filter", nil)
			return
		}
		filter.CollectorID = &id
	}
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	reports, err := h.service.List(c.Request.Context(), userID, role, filter)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "", reports)
}

// GetByID handles GET /reports/:id
func (h *ReportHandler) GetByID(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Unauthenticated", nil)
		return
	}
	role := middleware.GetRole(c)

	id, err := utils.ParseStringToUUID(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid report ID", nil)
		return
	}

	rp, err := h.service.GetByID(c.Request.Context(), userID, role, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "", rp)
}

// Verify handles PATCH /reports/:id/verify (employee only)
func (h *ReportHandler) Verify(c *gin.Context) {
	verifierID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Unauthenticated", nil)
		return
	}

	id, err := utils.ParseStringToUUID(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid report ID", nil)
		return
	}

	var req report.VerifyReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	rp, err := h.service.Verify(c.Request.Context(), verifierID, id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Report verified", rp)
}

// handleError maps domain errors onto HTTP responses
func (h *ReportHandler) handleError(c *gin.Context, err error) {
	var vErrs validation.Errors
	var vErr validation.Error

	switch {
	case errors.As(err, &vErrs), errors.As(err, &vErr):
		response.Error(c, http.StatusBadRequest, "Validation failed", err.Error())

	case errors.Is(err, report.ErrForbidden):
		response.Error(c, http.StatusForbidden, "Forbidden", nil)

	case errors.Is(err, report.ErrReportNotFound):
		response.Error(c, http.StatusNotFound, err.Error(), nil)

	// Terminal reports cannot be verified twice
	case errors.Is(err, report.ErrInvalidReportState):
		response.Error(c, http.StatusConflict, err.Error(), nil)

	default:
		response.Error(c, http.StatusInternalServerError, "Internal server error", nil)
	}
}
