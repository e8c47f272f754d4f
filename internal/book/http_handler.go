package book

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"libraryapi/internal/httpx"
	"libraryapi/internal/platform/validation"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// ListResponse is the data of GET /books.
type ListResponse struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Books    []Book  `json:"books"`
}

// List handles GET /books
// @Summary List books
// @Description Paginated catalog, newest first
// @Tags books
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size (max 20)"
// @Success 200 {object} httpx.Response
// @Failure 404 {object} httpx.Response
// @Router /books [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page := 1
	if raw := query.Get("page"); raw != "" {
		// Not a number means not a page.
		page, _ = strconv.Atoi(raw)
	}
	size, _ := strconv.Atoi(query.Get("page_size"))

	p, err := h.service.List(r.Context(), page, size)
	if err != nil {
		if errors.Is(err, ErrInvalidPage) {
			httpx.JSONError(w, http.StatusNotFound, httpx.CodeNotFound, "Invalid page.", nil)
			return
		}
		httpx.JSONInternalError(w)
		return
	}

	resp := ListResponse{Count: p.Count, Books: p.Books}
	if p.HasNext {
		resp.Next = pageLink(r, p.Number+1)
	}
	if p.HasPrevious {
		resp.Previous = pageLink(r, p.Number-1)
	}
	httpx.JSONSuccess(w, http.StatusOK, "books_retrieved", "", resp)
}

// pageLink rebuilds the request URL pointing at page. The first page is
// linked without a page parameter.
func pageLink(r *http.Request, page int) *string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	q := r.URL.Query()
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u := url.URL{Scheme: scheme, Host: r.Host, Path: r.URL.Path, RawQuery: q.Encode()}
	link := u.String()
	return &link
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

// Get handles GET /books/{id}
// @Summary Get a book
// @Tags books
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} httpx.Response
// @Failure 404 {object} httpx.Response
// @Router /books/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusNotFound, httpx.CodeNotFound, "Book not found", nil)
		return
	}

	b, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeLookupError(w, err)
		return
	}
	httpx.JSONSuccess(w, http.StatusOK, "book_retrieved", "", b)
}

// Create handles POST /books
// @Summary Create a book
// @Description Superuser only; the caller becomes the author
// @Tags books
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body CreateInput true "Book"
// @Success 201 {object} httpx.Response
// @Failure 400 {object} httpx.Response
// @Failure 401 {object} httpx.Response
// @Failure 403 {object} httpx.Response
// @Router /books [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := httpx.PrincipalFrom(r)
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, httpx.CodeUnauthenticated, "Authentication credentials were not provided.", nil)
		return
	}

	var req CreateInput
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONDecodeError(w, err)
		return
	}

	b, err := h.service.Create(r.Context(), principal.UserID, req)
	if err != nil {
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			httpx.JSONError(w, http.StatusBadRequest, "book_creation_failed", "Book creation failed", verrs)
			return
		}
		httpx.JSONInternalError(w)
		return
	}
	httpx.JSONSuccess(w, http.StatusCreated, "book_created", "Book created successfully", b)
}

// Update handles PATCH /books/{id}
// @Summary Update a book
// @Description Superuser only; only supplied fields change
// @Tags books
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "Book ID"
// @Param request body UpdateInput true "Fields to change"
// @Success 200 {object} httpx.Response
// @Failure 400 {object} httpx.Response
// @Failure 404 {object} httpx.Response
// @Router /books/{id} [patch]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusNotFound, httpx.CodeNotFound, "Book not found", nil)
		return
	}

	var req UpdateInput
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONDecodeError(w, err)
		return
	}

	b, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			httpx.JSONError(w, http.StatusBadRequest, "book_update_failed", "Book update failed", verrs)
			return
		}
		h.writeLookupError(w, err)
		return
	}
	httpx.JSONSuccess(w, http.StatusOK, "book_updated", "Book updated successfully", b)
}

// Delete handles DELETE /books/{id}
// @Summary Delete a book
// @Tags books
// @Produce json
// @Security Bearer
// @Param id path int true "Book ID"
// @Success 200 {object} httpx.Response
// @Failure 404 {object} httpx.Response
// @Router /books/{id} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusNotFound, httpx.CodeNotFound, "Book not found", nil)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeLookupError(w, err)
		return
	}
	httpx.JSONSuccess(w, http.StatusOK, "book_deleted", "Book deleted successfully", nil)
}

func (h *HTTPHandler) writeLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		httpx.JSONError(w, http.StatusNotFound, httpx.CodeNotFound, "Book not found", nil)
		return
	}
	httpx.JSONInternalError(w)
}
