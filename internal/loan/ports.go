package loan

//go:generate mockgen -source=ports.go -destination=mock_ports_test.go -package=loan

import (
	"context"
	"time"
)

// Tx holds the ledger primitives. Each write reports how many rows it
// changed; none of them reads before writing.
type Tx interface {
	// MarkUnavailable flips availability from true to false.
	MarkUnavailable(ctx context.Context, bookID int64) (int64, error)
	// InsertLoan opens a loan and returns its id.
	InsertLoan(ctx context.Context, bookID, userID int64, at time.Time) (int64, error)
	// CloseOpenLoan stamps return_date on the caller's open loan for the book.
	CloseOpenLoan(ctx context.Context, bookID, userID int64, at time.Time) (int64, error)
	// MarkAvailable flips availability from false to true.
	MarkAvailable(ctx context.Context, bookID int64) (int64, error)
}

// Store runs primitives atomically and reads the ledger.
type Store interface {
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
	List(ctx context.Context, userID *int64) ([]Loan, error)
}
