// Package loan is the ledger of who holds which book. Every state change is a
// conditional write whose affected-row count decides the outcome, so two
// callers racing on the same book cannot both win.
package loan

import (
	"errors"
	"time"
)

var (
	// ErrBookUnavailable covers a missing book as well as one already lent out.
	ErrBookUnavailable = errors.New("book not available")
	// ErrLoanNotFound means the caller holds no open loan for the book.
	ErrLoanNotFound = errors.New("book not found or already returned")
)

// Loan is one borrow of one book. ReturnDate is nil while the loan is open.
type Loan struct {
	ID         int64      `json:"id"`
	BookID     int64      `json:"book_id"`
	BookTitle  string     `json:"book_title"`
	UserID     int64      `json:"user_id"`
	Username   string     `json:"user_name"`
	LoanDate   time.Time  `json:"loan_date"`
	ReturnDate *time.Time `json:"return_date"`
}

// Open reports whether the book has not been returned yet.
func (l Loan) Open() bool {
	return l.ReturnDate == nil
}
