package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kawa-mspr/auth-service/internal/httputil"
	"github.com/kawa-mspr/auth-service/internal/logging"
)

// Handler contains HTTP handlers for account endpoints.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// UpdateProfileRequest carries the replacement name fields. Both are written
// as given; there is no merge with existing values.
type UpdateProfileRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// UpdatePasswordRequest carries the new plaintext password.
type UpdatePasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

// List handles listing all users
// @Summary      List users
// @Description  Return all user accounts as public views
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} httputil.Envelope
// @Router       /users [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	views, err := h.service.List(r.Context())
	if err != nil {
		logger.Error("failed to list users", "error", err.Error())
		httputil.RespondError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	logger.Info("users retrieved successfully", "count", len(views))
	httputil.RespondSuccess(w, "Users retrieved successfully", views, http.StatusOK)
}

// GetByID handles fetching a single user by id
// @Summary      Get user by ID
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Success      200 {object} httputil.Envelope
// @Failure      404 {object} httputil.Envelope "User not found"
// @Router       /users/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, ok := parseID(w, r, logger)
	if !ok {
		return
	}

	view, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.respondLookupError(w, logger, err)
		return
	}

	httputil.RespondSuccess(w, "User retrieved successfully", view, http.StatusOK)
}

// GetByEmail handles fetching a single user by email
// @Summary      Get user by email
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        email path string true "Email address"
// @Success      200 {object} httputil.Envelope
// @Failure      404 {object} httputil.Envelope "User not found"
// @Router       /users/email/{email} [get]
func (h *Handler) GetByEmail(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	email := chi.URLParam(r, "email")

	view, err := h.service.GetByEmail(r.Context(), email)
	if err != nil {
		h.respondLookupError(w, logger, err)
		return
	}

	httputil.RespondSuccess(w, "User retrieved successfully", view, http.StatusOK)
}

// Update handles profile updates
// @Summary      Update user profile
// @Description  Overwrite first and last name of the user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Param        request body UpdateProfileRequest true "Replacement name fields"
// @Success      200 {object} httputil.Envelope
// @Failure      404 {object} httputil.Envelope "User not found"
// @Router       /users/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, ok := parseID(w, r, logger)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid update request body", "error", err.Error())
		httputil.RespondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	view, err := h.service.UpdateProfile(r.Context(), id, req.FirstName, req.LastName)
	if err != nil {
		h.respondLookupError(w, logger, err)
		return
	}

	logger.Info("user updated successfully", "user_id", id)
	httputil.RespondSuccess(w, "User updated successfully", view, http.StatusOK)
}

// UpdatePassword handles password changes
// @Summary      Update user password
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Param        request body UpdatePasswordRequest true "New password"
// @Success      200 {object} httputil.Envelope
// @Failure      404 {object} httputil.Envelope "User not found"
// @Router       /users/{id}/password [put]
func (h *Handler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, ok := parseID(w, r, logger)
	if !ok {
		return
	}

	var req UpdatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid password update request body", "error", err.Error())
		httputil.RespondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.UpdatePassword(r.Context(), id, req.NewPassword); err != nil {
		h.respondLookupError(w, logger, err)
		return
	}

	logger.Info("user password updated successfully", "user_id", id)
	httputil.RespondSuccess(w, "User password updated successfully", nil, http.StatusOK)
}

// Delete handles account removal
// @Summary      Delete user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Success      200 {object} httputil.Envelope
// @Failure      404 {object} httputil.Envelope "User not found"
// @Router       /users/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, ok := parseID(w, r, logger)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondLookupError(w, logger, err)
		return
	}

	logger.Info("user deleted successfully", "user_id", id)
	httputil.RespondSuccess(w, "User deleted successfully", nil, http.StatusOK)
}

// respondLookupError maps domain errors to HTTP statuses, logging the error
// before responding.
func (h *Handler) respondLookupError(w http.ResponseWriter, logger *logging.Logger, err error) {
	if errors.Is(err, ErrNotFound) {
		logger.Warn("user not found")
		httputil.RespondError(w, "User not found", http.StatusNotFound)
		return
	}
	logger.Error("account operation failed", "error", err.Error())
	httputil.RespondError(w, err.Error(), http.StatusInternalServerError)
}

func parseID(w http.ResponseWriter, r *http.Request, logger *logging.Logger) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		logger.Warn("invalid user id in path", "error", err.Error())
		httputil.RespondError(w, "Invalid user id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}
