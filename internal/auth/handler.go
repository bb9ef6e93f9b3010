package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/kawa-mspr/auth-service/internal/httputil"
	"github.com/kawa-mspr/auth-service/internal/logging"
)

// Handler contains HTTP handlers for authentication endpoints.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// LoginRequest represents the login request body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VerifyRequest carries the token to verify. The Authorization header is
// used as a fallback when the body is empty.
type VerifyRequest struct {
	Token string `json:"token"`
}

// Register handles user registration
// @Summary      Register a new user
// @Description  Create a new account with email, password, first and last name
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterInput true "Registration fields"
// @Success      201 {object} httputil.Envelope
// @Failure      400 {object} httputil.Envelope "Missing fields or duplicate email"
// @Router       /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var input RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		logger.Warn("invalid registration request body", "error", err.Error())
		httputil.RespondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	logger = logger.WithFields(map[string]any{"email": input.Email})

	if _, err := h.service.Register(r.Context(), input); err != nil {
		switch {
		case errors.Is(err, ErrFieldsRequired):
			logger.Warn("registration failed: missing required fields")
			httputil.RespondError(w, "Required fields not provided", http.StatusBadRequest)
		case errors.Is(err, ErrEmailExists):
			logger.Warn("registration failed: email already exists")
			httputil.RespondError(w, "Email already exists", http.StatusBadRequest)
		default:
			logger.Error("registration failed: internal error", "error", err.Error())
			httputil.RespondError(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	httputil.RespondSuccess(w, "User registered successfully", nil, http.StatusCreated)
}

// Login handles credential verification and token issuance
// @Summary      User login
// @Description  Authenticate credentials and receive a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} httputil.Envelope
// @Failure      400 {object} httputil.Envelope "Invalid credentials"
// @Router       /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid login request body", "error", err.Error())
		httputil.RespondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			logger.Warn("login failed: invalid credentials")
			httputil.RespondError(w, "Invalid credentials", http.StatusBadRequest)
			return
		}
		logger.Error("login failed: internal error", "error", err.Error())
		httputil.RespondError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	httputil.RespondSuccess(w, "Login successful", result, http.StatusOK)
}

// Verify handles token verification
// @Summary      Verify a bearer token
// @Description  Check signature, expiry, and subject of a previously issued token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body VerifyRequest false "Token to verify"
// @Success      200 {object} httputil.Envelope
// @Failure      401 {object} httputil.Envelope "Invalid token"
// @Router       /auth/verify [post]
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var token string
	var req VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
		token = strings.TrimSpace(req.Token)
	}
	if token == "" {
		token = bearerToken(r)
	}

	if _, err := h.service.VerifyToken(token); err != nil {
		logger.Warn("token verification failed")
		httputil.RespondError(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	httputil.RespondSuccess(w, "Token verified successfully", nil, http.StatusOK)
}

// bearerToken extracts the token from an Authorization header, if present.
func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}
