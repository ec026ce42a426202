package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"ecowaste-backend/internal/domains/rewards"
	"ecowaste-backend/internal/shared/middleware"
	"ecowaste-backend/internal/shared/response"
)

// RewardsHandler translates HTTP requests into rewards.Service calls
type RewardsHandler struct {
	service rewards.Service
}

// NewRewardsHandler creates the handler instance
func NewRewardsHandler(service rewards.Service) *RewardsHandler {
	return &RewardsHandler{service: service}
}

// GetSummary handles GET /rewards/summary
func (h *RewardsHandler) GetSummary(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Unauthenticated", nil)
		return
	}

	summary, err := h.service.GetSummary(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "", summary)
}

// Withdraw handles POST /rewards/withdraw
func (h *RewardsHandler) Withdraw(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Unauthenticated", nil)
		return
	}

	var req rewards.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	summary, err := h.service.Withdraw(c.Request.Context(), userID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Withdrawal completed", summary)
}

// ListWithdrawals handles GET /rewards/withdrawals?limit=&offset=
func (h *RewardsHandler) ListWithdrawals(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Unauthenticated", nil)
		return
	}
	role := middleware.GetRole(c)

	var filter rewards.WithdrawalFilter
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	withdrawals, err := h.service.ListWithdrawals(c.Request.Context(), userID, role, filter)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "", withdrawals)
}

// ExportWithdrawals handles GET /rewards/withdrawals/export (employee only).
// Streams the full ledger as an xlsx attachment.
func (h *RewardsHandler) ExportWithdrawals(c *gin.Context) {
	data, err := h.service.ExportWithdrawalsXLSX(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	filename := fmt.Sprintf("withdrawals_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		data)
}

// handleError maps domain errors onto HTTP responses
func (h *RewardsHandler) handleError(c *gin.Context, err error) {
	var vErrs validation.Errors
	var vErr validation.Error

	switch {
	case errors.As(err, &vErrs), errors.As(err, &vErr),
		errors.Is(err, rewards.ErrInvalidAmount):
		response.Error(c, http.StatusBadRequest, "Validation failed", err.Error())

	case errors.Is(err, rewards.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, err.Error(), nil)

	case errors.Is(err, rewards.ErrInsufficientBalance):
		response.Error(c, http.StatusUnprocessableEntity, err.Error(), nil)

	default:
		response.Error(c, http.StatusInternalServerError, "Internal server error", nil)
	}
}
