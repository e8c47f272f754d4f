package server

import (
	"context"
	"sort"
	"sync"
	"time"

	"libraryapi/internal/book"
	"libraryapi/internal/loan"
	"libraryapi/internal/user"
)

// memDB backs the user, book and loan ports with maps guarded by one mutex,
// so the ledger and the catalog see the same availability flag.
type memDB struct {
	mu       sync.Mutex
	users    map[int64]user.User
	books    map[int64]book.Book
	loans    []loan.Loan
	nextUser int64
	nextBook int64
	nextLoan int64
}

func newMemDB() *memDB {
	return &memDB{users: map[int64]user.User{}, books: map[int64]book.Book{}}
}

type memUsers struct{ db *memDB }

func (r memUsers) Create(_ context.Context, u *user.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return user.ErrAlreadyExists
		}
	}
	r.db.nextUser++
	u.ID = r.db.nextUser
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	r.db.users[u.ID] = *u
	return nil
}

func (r memUsers) GetByID(_ context.Context, id int64) (user.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (r memUsers) find(match func(user.User) bool) (user.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if match(u) {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (r memUsers) GetByUsername(_ context.Context, username string) (user.User, error) {
	return r.find(func(u user.User) bool { return u.Username == username })
}

func (r memUsers) GetByEmail(_ context.Context, email string) (user.User, error) {
	return r.find(func(u user.User) bool { return u.Email == email })
}

func (r memUsers) ListRegular(_ context.Context) ([]user.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []user.User{}
	for _, u := range r.db.users {
		if !u.IsSuperuser {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memBooks struct{ db *memDB }

func (r memBooks) List(_ context.Context, limit, offset int) ([]book.Book, int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	all := make([]book.Book, 0, len(r.db.books))
	for _, b := range r.db.books {
		all = append(all, b)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	if offset >= len(all) {
		return []book.Book{}, len(all), nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], len(all), nil
}

func (r memBooks) Get(_ context.Context, id int64) (book.Book, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	b, ok := r.db.books[id]
	if !ok {
		return book.Book{}, book.ErrNotFound
	}
	return b, nil
}

func (r memBooks) Create(_ context.Context, b *book.Book) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.nextBook++
	b.ID = r.db.nextBook
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	r.db.books[b.ID] = *b
	return nil
}

func (r memBooks) Update(_ context.Context, id int64, in book.UpdateInput) (book.Book, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	b, ok := r.db.books[id]
	if !ok {
		return book.Book{}, book.ErrNotFound
	}
	if in.Title != nil {
		b.Title = *in.Title
	}
	if in.ISBN != nil {
		b.ISBN = *in.ISBN
	}
	if in.PageCount != nil {
		b.PageCount = *in.PageCount
	}
	b.UpdatedAt = time.Now()
	r.db.books[id] = b
	return b, nil
}

func (r memBooks) Delete(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.books[id]; !ok {
		return book.ErrNotFound
	}
	delete(r.db.books, id)
	kept := r.db.loans[:0]
	for _, l := range r.db.loans {
		if l.BookID != id {
			kept = append(kept, l)
		}
	}
	r.db.loans = kept
	return nil
}

type memLoans struct{ db *memDB }

func (s memLoans) WithinTx(_ context.Context, fn func(tx loan.Tx) error) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	savedBooks := make(map[int64]book.Book, len(s.db.books))
	for k, v := range s.db.books {
		savedBooks[k] = v
	}
	savedLoans := append([]loan.Loan(nil), s.db.loans...)
	savedNext := s.db.nextLoan

	if err := fn(memLoanTx{db: s.db}); err != nil {
		s.db.books, s.db.loans, s.db.nextLoan = savedBooks, savedLoans, savedNext
		return err
	}
	return nil
}

func (s memLoans) List(_ context.Context, userID *int64) ([]loan.Loan, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []loan.Loan{}
	for i := len(s.db.loans) - 1; i >= 0; i-- {
		l := s.db.loans[i]
		if userID != nil && l.UserID != *userID {
			continue
		}
		l.BookTitle = s.db.books[l.BookID].Title
		l.Username = s.db.users[l.UserID].Username
		out = append(out, l)
	}
	return out, nil
}

type memLoanTx struct{ db *memDB }

func (t memLoanTx) setAvailability(bookID int64, from, to bool) int64 {
	b, ok := t.db.books[bookID]
	if !ok || b.Availability != from {
		return 0
	}
	b.Availability = to
	t.db.books[bookID] = b
	return 1
}

func (t memLoanTx) MarkUnavailable(_ context.Context, bookID int64) (int64, error) {
	return t.setAvailability(bookID, true, false), nil
}

func (t memLoanTx) MarkAvailable(_ context.Context, bookID int64) (int64, error) {
	return t.setAvailability(bookID, false, true), nil
}

func (t memLoanTx) InsertLoan(_ context.Context, bookID, userID int64, at time.Time) (int64, error) {
	t.db.nextLoan++
	t.db.loans = append(t.db.loans, loan.Loan{ID: t.db.nextLoan, BookID: bookID, UserID: userID, LoanDate: at})
	return t.db.nextLoan, nil
}

func (t memLoanTx) CloseOpenLoan(_ context.Context, bookID, userID int64, at time.Time) (int64, error) {
	var n int64
	for i := range t.db.loans {
		l := &t.db.loans[i]
		if l.BookID == bookID && l.UserID == userID && l.ReturnDate == nil {
			ret := at
			l.ReturnDate = &ret
			n++
		}
	}
	return n, nil
}
