package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of *pgxpool.Pool the repo uses.
type DB interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repo struct{ DB DB }

// 23505 = unique_violation. The only error the writer maps specially:
// an identity collision must surface as ErrConflict, not a generic fault.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Create persists one product and its stock in a single transaction.
// Both rows commit or neither does.
func (r *Repo) Create(ctx context.Context, req CreateRequest) (ProductView, error) {
	if err := req.Validate(); err != nil {
		return ProductView{}, err
	}

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return ProductView{}, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	view, err := insertPair(ctx, tx, req)
	if err != nil {
		return ProductView{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return ProductView{}, fmt.Errorf("commit: %w", err)
	}
	return view, nil
}

// CreateBatch persists every request in one transaction: all pairs are
// durably created or none are.
func (r *Repo) CreateBatch(ctx context.Context, reqs []CreateRequest) ([]ProductView, error) {
	for _, req := range reqs {
		if err := req.Validate(); err != nil {
			return nil, err
		}
	}

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	views := make([]ProductView, 0, len(reqs))
	for _, req := range reqs {
		view, err := insertPair(ctx, tx, req)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return views, nil
}

func insertPair(ctx context.Context, tx pgx.Tx, req CreateRequest) (ProductView, error) {
	id := uuid.NewString()

	_, err := tx.Exec(ctx, `
		INSERT INTO products(id, title, description, price)
		VALUES ($1, $2, $3, $4)
	`, id, req.Title, req.Description, req.Price)
	if err != nil {
		if isUniqueViolation(err) {
			return ProductView{}, ErrConflict
		}
		return ProductView{}, fmt.Errorf("insert product: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO stocks(product_id, count)
		VALUES ($1, $2)
	`, id, req.Count)
	if err != nil {
		if isUniqueViolation(err) {
			return ProductView{}, ErrConflict
		}
		return ProductView{}, fmt.Errorf("insert stock: %w", err)
	}

	return ProductView{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Count:       req.Count,
	}, nil
}

func (r *Repo) List(ctx context.Context) ([]ProductView, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT p.id, p.title, p.description, p.price, COALESCE(s.count, 0)
		FROM products p
		LEFT JOIN stocks s ON s.product_id = p.id
		ORDER BY p.created_at, p.id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ProductView
	for rows.Next() {
		var v ProductView
		if err := rows.Scan(&v.ID, &v.Title, &v.Description, &v.Price, &v.Count); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *Repo) Get(ctx context.Context, id string) (ProductView, error) {
	var v ProductView
	err := r.DB.QueryRow(ctx, `
		SELECT p.id, p.title, p.description, p.price, COALESCE(s.count, 0)
		FROM products p
		LEFT JOIN stocks s ON s.product_id = p.id
		WHERE p.id = $1
	`, id).Scan(&v.ID, &v.Title, &v.Description, &v.Price, &v.Count)
	if errors.Is(err, pgx.ErrNoRows) {
		return ProductView{}, ErrNotFound
	}
	if err != nil {
		return ProductView{}, err
	}
	return v, nil
}
