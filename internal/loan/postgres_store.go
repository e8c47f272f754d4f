package loan

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

const uniqueViolation = "23505"

type PostgresStore struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresStore(db *pgxpool.Pool, timeout time.Duration) *PostgresStore {
	return &PostgresStore{db: db, timeout: timeout}
}

func (s *PostgresStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// WithinTx runs fn in one transaction. It commits when fn returns nil and
// rolls back otherwise; fn's error is returned unchanged.
func (s *PostgresStore) WithinTx(ctx context.Context, fn func(tx Tx) error) error {
	timeoutCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	var fnErr error
	err := pgx.BeginFunc(timeoutCtx, s.db, func(tx pgx.Tx) error {
		fnErr = fn(pgxTx{tx: tx})
		return fnErr
	})
	if fnErr != nil {
		return fnErr
	}
	return errors.Wrap(err, "loan transaction")
}

type pgxTx struct {
	tx pgx.Tx
}

func (t pgxTx) MarkUnavailable(ctx context.Context, bookID int64) (int64, error) {
	tag, err := t.tx.Exec(ctx,
		`UPDATE books SET availability = false, modified = NOW() WHERE id = $1 AND availability = true`,
		bookID)
	if err != nil {
		return 0, errors.Wrap(err, "mark book unavailable")
	}
	return tag.RowsAffected(), nil
}

func (t pgxTx) InsertLoan(ctx context.Context, bookID, userID int64, at time.Time) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx, `
		INSERT INTO loans (book_id, user_id, loan_date, created, modified)
		VALUES ($1, $2, $3, $3, $3)
		RETURNING id`,
		bookID, userID, at).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			// The open-loan index caught a second open loan for the book.
			return 0, ErrBookUnavailable
		}
		return 0, errors.Wrap(err, "insert loan")
	}
	return id, nil
}

func (t pgxTx) CloseOpenLoan(ctx context.Context, bookID, userID int64, at time.Time) (int64, error) {
	tag, err := t.tx.Exec(ctx, `
		UPDATE loans SET return_date = $3, modified = $3
		WHERE book_id = $1 AND user_id = $2 AND return_date IS NULL`,
		bookID, userID, at)
	if err != nil {
		return 0, errors.Wrap(err, "close open loan")
	}
	return tag.RowsAffected(), nil
}

func (t pgxTx) MarkAvailable(ctx context.Context, bookID int64) (int64, error) {
	tag, err := t.tx.Exec(ctx,
		`UPDATE books SET availability = true, modified = NOW() WHERE id = $1 AND availability = false`,
		bookID)
	if err != nil {
		return 0, errors.Wrap(err, "mark book available")
	}
	return tag.RowsAffected(), nil
}

func buildListQuery(userID *int64) (string, []any, error) {
	q := goqu.Dialect("postgres").
		From(goqu.T("loans").As("l")).
		Join(goqu.T("books").As("b"), goqu.On(goqu.I("b.id").Eq(goqu.I("l.book_id")))).
		Join(goqu.T("users").As("u"), goqu.On(goqu.I("u.id").Eq(goqu.I("l.user_id")))).
		Select("l.id", "l.book_id", "b.title", "l.user_id", "u.username", "l.loan_date", "l.return_date").
		Order(goqu.I("l.loan_date").Desc(), goqu.I("l.id").Desc())
	if userID != nil {
		q = q.Where(goqu.I("l.user_id").Eq(*userID))
	}
	return q.Prepared(true).ToSQL()
}

func (s *PostgresStore) List(ctx context.Context, userID *int64) ([]Loan, error) {
	query, args, err := buildListQuery(userID)
	if err != nil {
		return nil, errors.Wrap(err, "build loan list query")
	}

	timeoutCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	rows, err := s.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list loans")
	}
	defer rows.Close()

	out := []Loan{}
	for rows.Next() {
		var l Loan
		if err := rows.Scan(&l.ID, &l.BookID, &l.BookTitle, &l.UserID, &l.Username, &l.LoanDate, &l.ReturnDate); err != nil {
			return nil, errors.Wrap(err, "scan loan")
		}
		out = append(out, l)
	}
	return out, errors.Wrap(rows.Err(), "iterate loans")
}
