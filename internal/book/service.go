package book

import (
	"context"
	"strings"

	"libraryapi/internal/platform/validation"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 20
)

// Service provides book-related business logic.
type Service struct {
	repo Repository
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns page number page of the catalog. A size outside 1..MaxPageSize
// falls back to the default or is clamped. Any page past the end except the
// first yields ErrInvalidPage.
func (s *Service) List(ctx context.Context, page, size int) (Page, error) {
	if page < 1 {
		return Page{}, ErrInvalidPage
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	books, total, err := s.repo.List(ctx, size, (page-1)*size)
	if err != nil {
		return Page{}, err
	}
	if page > 1 && (page-1)*size >= total {
		return Page{}, ErrInvalidPage
	}
	if books == nil {
		books = []Book{}
	}

	return Page{
		Count:       total,
		Number:      page,
		Size:        size,
		Books:       books,
		HasNext:     page*size < total,
		HasPrevious: page > 1,
	}, nil
}

// Get returns a single book.
func (s *Service) Get(ctx context.Context, id int64) (Book, error) {
	return s.repo.Get(ctx, id)
}

// Create adds an available book authored by authorID.
func (s *Service) Create(ctx context.Context, authorID int64, in CreateInput) (Book, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.ISBN = strings.TrimSpace(in.ISBN)
	if errs := validation.Struct(in); errs != nil {
		return Book{}, errs
	}

	b := &Book{
		Title:        in.Title,
		Author:       authorID,
		ISBN:         in.ISBN,
		PageCount:    *in.PageCount,
		Availability: true,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return Book{}, err
	}
	return *b, nil
}

// Update changes only the supplied fields. An empty input returns the book
// unchanged.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (Book, error) {
	errs := validation.Errors{}
	if v := validation.Struct(in); v != nil {
		errs = v
	}
	if in.Title != nil {
		*in.Title = strings.TrimSpace(*in.Title)
		if *in.Title == "" {
			errs.Add("title", "This field may not be blank.")
		}
	}
	if in.ISBN != nil {
		*in.ISBN = strings.TrimSpace(*in.ISBN)
		if *in.ISBN == "" {
			errs.Add("isbn", "This field may not be blank.")
		}
	}
	if len(errs) > 0 {
		return Book{}, errs
	}

	if in.Empty() {
		return s.repo.Get(ctx, id)
	}
	return s.repo.Update(ctx, id, in)
}

// Delete removes a book and, through the foreign key, its loan history.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
