package loan

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"libraryapi/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// BookRequest is the body of POST /books/borrow and POST /books/return.
// book_id may be sent as a number or a numeric string.
type BookRequest struct {
	BookID any `json:"book_id"`
}

// bookID extracts a positive id. Anything else counts as missing.
func (req BookRequest) bookID() (int64, bool) {
	switch v := req.BookID.(type) {
	case float64:
		if v <= 0 || v != math.Trunc(v) || v >= math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	case string:
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil || id <= 0 {
			return 0, false
		}
		return id, true
	default:
		return 0, false
	}
}

func (h *HTTPHandler) decodeBookID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	var req BookRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONDecodeError(w, err)
		return 0, false
	}
	id, ok := req.bookID()
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "book_id_required", "Book id is required", nil)
		return 0, false
	}
	return id, true
}

// Borrow handles POST /books/borrow
// @Summary Borrow a book
// @Tags loans
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body BookRequest true "Book to borrow"
// @Success 200 {object} httpx.Response
// @Failure 400 {object} httpx.Response
// @Failure 401 {object} httpx.Response
// @Router /books/borrow [post]
func (h *HTTPHandler) Borrow(w http.ResponseWriter, r *http.Request) {
	principal, ok := httpx.PrincipalFrom(r)
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, httpx.CodeUnauthenticated, "Authentication credentials were not provided.", nil)
		return
	}
	bookID, ok := h.decodeBookID(w, r)
	if !ok {
		return
	}

	l, err := h.service.Borrow(r.Context(), principal, bookID)
	if err != nil {
		if errors.Is(err, ErrBookUnavailable) {
			httpx.JSONError(w, http.StatusBadRequest, "book_unavailable", "Book not available", nil)
			return
		}
		httpx.JSONInternalError(w)
		return
	}
	httpx.JSONSuccess(w, http.StatusOK, "book_borrowed", "Book borrowed successfully", l)
}

// Return handles POST /books/return
// @Summary Return a borrowed book
// @Tags loans
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body BookRequest true "Book to return"
// @Success 200 {object} httpx.Response
// @Failure 400 {object} httpx.Response
// @Failure 401 {object} httpx.Response
// @Router /books/return [post]
func (h *HTTPHandler) Return(w http.ResponseWriter, r *http.Request) {
	principal, ok := httpx.PrincipalFrom(r)
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, httpx.CodeUnauthenticated, "Authentication credentials were not provided.", nil)
		return
	}
	bookID, ok := h.decodeBookID(w, r)
	if !ok {
		return
	}

	if err := h.service.Return(r.Context(), principal, bookID); err != nil {
		if errors.Is(err, ErrLoanNotFound) {
			httpx.JSONError(w, http.StatusBadRequest, "loan_not_found", "Book not found or already returned", nil)
			return
		}
		httpx.JSONInternalError(w)
		return
	}
	httpx.JSONSuccess(w, http.StatusOK, "book_returned", "Book returned successfully", nil)
}

// List handles GET /books/borrow
// @Summary List all loans
// @Description Superuser only
// @Tags loans
// @Produce json
// @Security Bearer
// @Success 200 {object} httpx.Response
// @Failure 401 {object} httpx.Response
// @Failure 403 {object} httpx.Response
// @Router /books/borrow [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	loans, err := h.service.List(r.Context())
	if err != nil {
		httpx.JSONInternalError(w)
		return
	}
	httpx.JSONSuccess(w, http.StatusOK, "loans_retrieved", "Loans retrieved successfully", loans)
}

// ListMine handles GET /books/borrow/mine
// @Summary List the caller's loans
// @Tags loans
// @Produce json
// @Security Bearer
// @Success 200 {object} httpx.Response
// @Failure 401 {object} httpx.Response
// @Router /books/borrow/mine [get]
func (h *HTTPHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	principal, ok := httpx.PrincipalFrom(r)
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, httpx.CodeUnauthenticated, "Authentication credentials were not provided.", nil)
		return
	}
	loans, err := h.service.ListForUser(r.Context(), principal)
	if err != nil {
		httpx.JSONInternalError(w)
		return
	}
	httpx.JSONSuccess(w, http.StatusOK, "loans_retrieved", "Loans retrieved successfully", loans)
}
