package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"ecowaste-backend/internal/domains/user"
	"ecowaste-backend/internal/shared/middleware"
	"ecowaste-backend/internal/shared/response"
)

// UserHandler translates HTTP requests into user.Service calls
type UserHandler struct {
	service user.Service
}

// NewUserHandler creates the handler instance
func NewUserHandler(service user.Service) *UserHandler {
	return &UserHandler{service: service}
}

// ========================================
// AUTHENTICATION ENDPOINTS
// ========================================

// Register handles POST /auth/register
func (h *UserHandler) Register(c *gin.Context) {
	// STEP 1: PARSE REQUEST BODY
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	// STEP 2: CALL SERVICE LAYER
	userDTO, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	// STEP 3: SUCCESS
	c.Header("Location", "/api/v1/users/"+userDTO.ID.String())
	response.Success(c, http.StatusCreated, "User registered successfully", userDTO)
}

// Login handles POST /auth/login
func (h *UserHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Login successful", res)
}

// Logout handles POST /auth/logout — invalidates all sessions for the user
func (h *UserHandler) Logout(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Unauthenticated", nil)
		return
	}

	if err := h.service.LogoutAll(c.Request.Context(), userID); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Logged out successfully", nil)
}

// ========================================
// PROFILE & SETTINGS ENDPOINTS
// ========================================

// GetProfile handles GET /users/me
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Unauthenticated", nil)
		return
	}

	dto, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "", dto)
}

// GetSettings handles GET /users/me/settings
func (h *UserHandler) GetSettings(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Unauthenticated", nil)
		return
	}

	settings, err := h.service.GetSettings(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "", settings)
}

// UpdateSettings handles PUT /users/me/settings
func (h *UserHandler) UpdateSettings(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Unauthenticated", nil)
		return
	}

	var req user.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	settings, err := h.service.UpdateSettings(c.Request.Context(), userID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Settings updated", settings)
}

// ========================================
// HELPERS
// ========================================

// handleError maps domain errors onto HTTP responses
func (h *UserHandler) handleError(c *gin.Context, err error) {
	var vErrs validation.Errors
	var vErr validation.Error

	switch {
	// 400 Bad Request - validation failures
	case errors.As(err, &vErrs), errors.As(err, &vErr):
		response.Error(c, http.StatusBadRequest, "Validation failed", err.Error())

	// 401 Unauthorized
	case errors.Is(err, user.ErrInvalidCredentials),
		errors.Is(err, user.ErrInvalidToken):
		response.Error(c, http.StatusUnauthorized, err.Error(), nil)

	// 403 Forbidden
	case errors.Is(err, user.ErrForbidden):
		response.Error(c, http.StatusForbidden, "Forbidden", nil)

	// 404 Not Found
	case errors.Is(err, user.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, err.Error(), nil)

	// 409 Conflict
	case errors.Is(err, user.ErrEmailAlreadyExists):
		response.Error(c, http.StatusConflict, err.Error(), nil)

	// 500 - unexpected
	default:
		response.Error(c, http.StatusInternalServerError, "Internal server error", nil)
	}
}
