package loan

import (
	"context"
	"sort"
	"sync"
	"time"
)

// memStore serialises transactions behind one mutex and rolls back by
// restoring a snapshot.
type memStore struct {
	mu        sync.Mutex
	available map[int64]bool
	titles    map[int64]string
	loans     []Loan
	nextID    int64
}

func newMemStore(bookIDs ...int64) *memStore {
	s := &memStore{available: map[int64]bool{}, titles: map[int64]string{}}
	for _, id := range bookIDs {
		s.available[id] = true
		s.titles[id] = "Book"
	}
	return s
}

func (s *memStore) WithinTx(_ context.Context, fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	savedAvail := make(map[int64]bool, len(s.available))
	for k, v := range s.available {
		savedAvail[k] = v
	}
	savedLoans := append([]Loan(nil), s.loans...)
	savedNext := s.nextID

	if err := fn(memTx{s: s}); err != nil {
		s.available, s.loans, s.nextID = savedAvail, savedLoans, savedNext
		return err
	}
	return nil
}

func (s *memStore) List(_ context.Context, userID *int64) ([]Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Loan
	for _, l := range s.loans {
		if userID != nil && l.UserID != *userID {
			continue
		}
		l.BookTitle = s.titles[l.BookID]
		out = append(out, l)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].LoanDate.Equal(out[j].LoanDate) {
			return out[i].ID > out[j].ID
		}
		return out[i].LoanDate.After(out[j].LoanDate)
	})
	return out, nil
}

// openLoans counts loans without a return date per book.
func (s *memStore) openLoans() map[int64]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[int64]int{}
	for _, l := range s.loans {
		if l.Open() {
			out[l.BookID]++
		}
	}
	return out
}

func (s *memStore) isAvailable(bookID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.available[bookID]
}

type memTx struct {
	s *memStore
}

func (t memTx) MarkUnavailable(_ context.Context, bookID int64) (int64, error) {
	if avail, ok := t.s.available[bookID]; !ok || !avail {
		return 0, nil
	}
	t.s.available[bookID] = false
	return 1, nil
}

func (t memTx) InsertLoan(_ context.Context, bookID, userID int64, at time.Time) (int64, error) {
	for _, l := range t.s.loans {
		if l.BookID == bookID && l.Open() {
			return 0, ErrBookUnavailable
		}
	}
	t.s.nextID++
	t.s.loans = append(t.s.loans, Loan{ID: t.s.nextID, BookID: bookID, UserID: userID, LoanDate: at})
	return t.s.nextID, nil
}

func (t memTx) CloseOpenLoan(_ context.Context, bookID, userID int64, at time.Time) (int64, error) {
	var n int64
	for i := range t.s.loans {
		l := &t.s.loans[i]
		if l.BookID == bookID && l.UserID == userID && l.Open() {
			ret := at
			l.ReturnDate = &ret
			n++
		}
	}
	return n, nil
}

func (t memTx) MarkAvailable(_ context.Context, bookID int64) (int64, error) {
	if avail, ok := t.s.available[bookID]; !ok || avail {
		return 0, nil
	}
	t.s.available[bookID] = true
	return 1, nil
}
