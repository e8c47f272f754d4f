package auth

import (
	"errors"
	"net/http"
	"strings"

	"libraryapi/internal/httpx"
	"libraryapi/internal/platform/validation"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Register handles POST /users/register
// @Summary Register a new user
// @Description Create an account and receive access and refresh tokens
// @Tags users
// @Accept json
// @Produce json
// @Param request body RegisterInput true "Registration request"
// @Success 201 {object} httpx.Response
// @Failure 400 {object} httpx.Response
// @Router /users/register [post]
func (h *HTTPHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterInput
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONDecodeError(w, err)
		return
	}

	u, pair, err := h.service.Register(r.Context(), req)
	if err != nil {
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			httpx.JSONError(w, http.StatusBadRequest, "user_creation_failed", "User registration failed", verrs)
			return
		}
		httpx.JSONInternalError(w)
		return
	}

	httpx.JSONSuccess(w, http.StatusCreated, "user_created", "User registered successfully", map[string]any{
		"user":    u,
		"refresh": pair.Refresh,
		"access":  pair.Access,
	})
}

type LoginReq struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /users/login
// @Summary User login
// @Description Authenticate user and receive access and refresh tokens
// @Tags users
// @Accept json
// @Produce json
// @Param request body LoginReq true "Login request"
// @Success 200 {object} httpx.Response
// @Failure 400 {object} httpx.Response
// @Router /users/login [post]
func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONDecodeError(w, err)
		return
	}
	req.Username = strings.TrimSpace(req.Username)

	if verrs := validation.Struct(req); verrs != nil {
		httpx.JSONError(w, http.StatusBadRequest, "user_login_failed", "Login failed", map[string][]string{
			"non_field_errors": {"Must include username and password"},
		})
		return
	}

	pair, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrInactive) {
			httpx.JSONError(w, http.StatusBadRequest, "user_login_failed", "Login failed", map[string][]string{
				"non_field_errors": {loginMessage(err)},
			})
			return
		}
		httpx.JSONInternalError(w)
		return
	}

	httpx.JSONSuccess(w, http.StatusOK, "user_logged_in", "Login successful", pair)
}

func loginMessage(err error) string {
	if errors.Is(err, ErrInactive) {
		return "User account is disabled"
	}
	return "Invalid username or password"
}

type RefreshReq struct {
	Refresh string `json:"refresh" validate:"required"`
}

// Refresh handles POST /users/token/refresh
// @Summary Refresh access token
// @Description Get a new access token using a refresh token
// @Tags users
// @Accept json
// @Produce json
// @Param request body RefreshReq true "Refresh token request"
// @Success 200 {object} httpx.Response
// @Failure 400 {object} httpx.Response
// @Failure 401 {object} httpx.Response
// @Router /users/token/refresh [post]
func (h *HTTPHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONDecodeError(w, err)
		return
	}
	if verrs := validation.Struct(req); verrs != nil {
		httpx.JSONError(w, http.StatusBadRequest, httpx.CodeValidation, "Invalid input", verrs)
		return
	}

	access, err := h.service.Refresh(r.Context(), req.Refresh)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			httpx.JSONError(w, http.StatusUnauthorized, httpx.CodeTokenInvalid, "Token is invalid or expired", nil)
			return
		}
		httpx.JSONInternalError(w)
		return
	}

	httpx.JSONSuccess(w, http.StatusOK, "token_refreshed", "Token refreshed successfully", map[string]string{
		"access": access,
	})
}
