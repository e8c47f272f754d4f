package loan

import (
	"context"
	"time"

	"libraryapi/internal/identity"
)

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Borrow lends bookID to the caller. Of several concurrent borrows of one
// book exactly one succeeds; the rest get ErrBookUnavailable and leave no
// trace.
func (s *Service) Borrow(ctx context.Context, p identity.Principal, bookID int64) (Loan, error) {
	at := s.now().UTC()
	l := Loan{BookID: bookID, UserID: p.UserID, Username: p.Username, LoanDate: at}

	err := s.store.WithinTx(ctx, func(tx Tx) error {
		n, err := tx.MarkUnavailable(ctx, bookID)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrBookUnavailable
		}

		id, err := tx.InsertLoan(ctx, bookID, p.UserID, at)
		if err != nil {
			return err
		}
		l.ID = id
		return nil
	})
	if err != nil {
		return Loan{}, err
	}
	return l, nil
}

// Return closes the caller's open loan of bookID and makes the book
// available again. Someone else's loan is indistinguishable from no loan.
func (s *Service) Return(ctx context.Context, p identity.Principal, bookID int64) error {
	at := s.now().UTC()

	return s.store.WithinTx(ctx, func(tx Tx) error {
		n, err := tx.CloseOpenLoan(ctx, bookID, p.UserID, at)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrLoanNotFound
		}

		// A zero count here means availability was already true; nothing to do.
		_, err = tx.MarkAvailable(ctx, bookID)
		return err
	})
}

// List returns the whole ledger, newest first. Callers gate it to superusers.
func (s *Service) List(ctx context.Context) ([]Loan, error) {
	return s.list(ctx, nil)
}

// ListForUser returns the caller's own loans, newest first.
func (s *Service) ListForUser(ctx context.Context, p identity.Principal) ([]Loan, error) {
	return s.list(ctx, &p.UserID)
}

func (s *Service) list(ctx context.Context, userID *int64) ([]Loan, error) {
	loans, err := s.store.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if loans == nil {
		loans = []Loan{}
	}
	return loans, nil
}
