package book

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a book is not found.
	ErrNotFound = errors.New("book not found")
	// ErrInvalidPage is returned for a page number outside the result set.
	ErrInvalidPage = errors.New("invalid page")
)

// Book is a catalog entry. Availability is owned by the loan ledger; the
// catalog only reads it.
type Book struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Author       int64     `json:"author"`
	ISBN         string    `json:"isbn"`
	PageCount    int       `json:"page_count"`
	Availability bool      `json:"availability"`
	CreatedAt    time.Time `json:"created"`
	UpdatedAt    time.Time `json:"modified"`
}

// CreateInput is the body of POST /books.
type CreateInput struct {
	Title     string `json:"title" validate:"required,max=255"`
	ISBN      string `json:"isbn" validate:"required,max=255"`
	PageCount *int   `json:"page_count" validate:"required,gte=0"`
}

// UpdateInput is the body of PATCH /books/{id}. Nil fields are left alone.
type UpdateInput struct {
	Title     *string `json:"title" validate:"omitempty,max=255"`
	ISBN      *string `json:"isbn" validate:"omitempty,max=255"`
	PageCount *int    `json:"page_count" validate:"omitempty,gte=0"`
}

// Empty reports whether no field was supplied.
func (in UpdateInput) Empty() bool {
	return in.Title == nil && in.ISBN == nil && in.PageCount == nil
}

// Page is one slice of the catalog, newest first.
type Page struct {
	Count       int
	Number      int
	Size        int
	Books       []Book
	HasNext     bool
	HasPrevious bool
}
