package user

import (
	"errors"
	"net/http"

	"libraryapi/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Profile handles GET /users/profile
// @Summary Get current user
// @Description Get the authenticated user's profile
// @Tags users
// @Produce json
// @Security Bearer
// @Success 200 {object} httpx.Response
// @Failure 401 {object} httpx.Response
// @Router /users/profile [get]
func (h *HTTPHandler) Profile(w http.ResponseWriter, r *http.Request) {
	principal, ok := httpx.PrincipalFrom(r)
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, httpx.CodeUnauthenticated, "Authentication credentials were not provided.", nil)
		return
	}

	u, err := h.service.GetByID(r.Context(), principal.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, http.StatusUnauthorized, httpx.CodeTokenInvalid, "User not found", nil)
			return
		}
		httpx.JSONInternalError(w)
		return
	}

	httpx.JSONSuccess(w, http.StatusOK, "user_profile_retrieved", "User profile retrieved successfully", u)
}

// ListUsers handles GET /users/all-users
// @Summary List regular users
// @Description List every account that is not a superuser
// @Tags users
// @Produce json
// @Success 200 {object} httpx.Response
// @Router /users/all-users [get]
func (h *HTTPHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListRegular(r.Context())
	if err != nil {
		httpx.JSONInternalError(w)
		return
	}
	httpx.JSONSuccess(w, http.StatusOK, "users_retrieved", "Users retrieved successfully", users)
}
