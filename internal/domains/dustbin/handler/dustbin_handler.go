package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"ecowaste-backend/internal/domains/dustbin"
	"ecowaste-backend/internal/shared/response"
	"ecowaste-backend/internal/shared/utils"
)

// DustbinHandler translates HTTP requests into dustbin.Service calls
type DustbinHandler struct {
	service dustbin.Service
}

// NewDustbinHandler creates the handler instance
func NewDustbinHandler(service dustbin.Service) *DustbinHandler {
	return &DustbinHandler{service: service}
}

// Create handles POST /dustbins (employee only)
func (h *DustbinHandler) Create(c *gin.Context) {
	var req dustbin.CreateDustbinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	d, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Dustbin created successfully", d)
}

// List handles GET /dustbins?status=
func (h *DustbinHandler) List(c *gin.Context) {
	filter := dustbin.ListFilter{
		Status: c.Query("status"),
	}

	bins, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "", bins)
}

// GetByID handles GET /dustbins/:id
func (h *DustbinHandler) GetByID(c *gin.Context) {
	id, err := utils.ParseStringToUUID(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid dustbin ID", nil)
		return
	}

	d, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "", d)
}

// Update handles PATCH /dustbins/:id (employee only)
func (h *DustbinHandler) Update(c *gin.Context) {
	id, err := utils.ParseStringToUUID(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid dustbin ID", nil)
		return
	}

	var req dustbin.UpdateDustbinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	d, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Dustbin updated", d)
}

// handleError maps domain errors onto HTTP responses
func (h *DustbinHandler) handleError(c *gin.Context, err error) {
	var vErrs validation.Errors
	var vErr validation.Error

	switch {
	case errors.As(err, &vErrs), errors.As(err, &vErr):
		response.Error(c, http.StatusBadRequest, "Validation failed", err.Error())

	case errors.Is(err, dustbin.ErrDustbinNotFound):
		response.Error(c, http.StatusNotFound, err.Error(), nil)

	case errors.Is(err, dustbin.ErrInvalidStatus):
		response.Error(c, http.StatusBadRequest, err.Error(), nil)

	default:
		response.Error(c, http.StatusInternalServerError, "Internal server error", nil)
	}
}
