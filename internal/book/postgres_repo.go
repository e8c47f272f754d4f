package book

import (
	"context"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const tableBooks = "books"

var (
	dialect = goqu.Dialect("postgres")
	columns = []any{"id", "title", "author_id", "isbn", "page_count", "availability", "created", "modified"}
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func scanBook(row pgx.Row) (Book, error) {
	var b Book
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.PageCount, &b.Availability, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func buildCountQuery() (string, []any, error) {
	return dialect.From(tableBooks).Select(goqu.COUNT("*")).Prepared(true).ToSQL()
}

func buildListQuery(limit, offset int) (string, []any, error) {
	return dialect.From(tableBooks).
		Select(columns...).
		Order(goqu.I("created").Desc(), goqu.I("id").Desc()).
		Limit(uint(limit)).
		Offset(uint(offset)).
		Prepared(true).
		ToSQL()
}

// buildUpdateQuery sets only the supplied columns. availability is never part
// of the record.
func buildUpdateQuery(id int64, in UpdateInput, now time.Time) (string, []any, error) {
	rec := goqu.Record{"modified": now}
	if in.Title != nil {
		rec["title"] = *in.Title
	}
	if in.ISBN != nil {
		rec["isbn"] = *in.ISBN
	}
	if in.PageCount != nil {
		rec["page_count"] = *in.PageCount
	}

	return dialect.Update(tableBooks).
		Set(rec).
		Where(goqu.C("id").Eq(id)).
		Returning(columns...).
		Prepared(true).
		ToSQL()
}

func (r *PostgresRepo) List(ctx context.Context, limit, offset int) ([]Book, int, error) {
	countSQL, countArgs, err := buildCountQuery()
	if err != nil {
		return nil, 0, err
	}
	var total int
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listSQL, listArgs, err := buildListQuery(limit, offset)
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.db.Query(timeoutCtx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}

func (r *PostgresRepo) Get(ctx context.Context, id int64) (Book, error) {
	const query = `
		SELECT id, title, author_id, isbn, page_count, availability, created, modified
		FROM books
		WHERE id = $1
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(r.db.QueryRow(timeoutCtx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

func (r *PostgresRepo) Create(ctx context.Context, b *Book) error {
	const query = `
		INSERT INTO books (title, author_id, isbn, page_count, availability, created, modified)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created, modified
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.QueryRow(timeoutCtx, query, b.Title, b.Author, b.ISBN, b.PageCount, b.Availability).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

func (r *PostgresRepo) Update(ctx context.Context, id int64, in UpdateInput) (Book, error) {
	query, args, err := buildUpdateQuery(id, in, time.Now())
	if err != nil {
		return Book{}, err
	}
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(r.db.QueryRow(timeoutCtx, query, args...))
	if err != nil {
		// The row disappeared between lookup and write.
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
