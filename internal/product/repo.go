// Package product provides the repository interface and PostgreSQL
// implementation for the bakery catalog.
package product

import (
	"context"
	"errors"
	"time"

	"github.com/flourever/storefront/internal/database"
)

var ErrNotFound = errors.New("product not found")

type Repository interface {
	ListActive(ctx context.Context) ([]Product, error)
	GetActiveByID(ctx context.Context, id int64) (*Product, error)
	ListByCategory(ctx context.Context, category string) ([]Product, error)
	Featured(ctx context.Context) ([]Product, error)
	BestSellers(ctx context.Context) ([]Product, error)
	ListAll(ctx context.Context) ([]Product, error)
	Create(ctx context.Context, req *UpsertRequest) (int64, error)
	Update(ctx context.Context, id int64, req *UpsertRequest) error
	Archive(ctx context.Context, id int64) error
	Restore(ctx context.Context, id int64) error
	CountActive(ctx context.Context) (int, error)
}

type PGRepo struct{ db database.Pool }

func NewPGRepo(db database.Pool) *PGRepo { return &PGRepo{db: db} }

const productColumns = `id, name, description, price::text, category, image_url,
	is_featured, is_best_seller, is_active, created_at`

func (r *PGRepo) scanMany(ctx context.Context, query string, args ...any) ([]Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category,
			&p.ImageURL, &p.IsFeatured, &p.IsBestSeller, &p.IsActive, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PGRepo) ListActive(ctx context.Context) ([]Product, error) {
	return r.scanMany(ctx, `
		SELECT `+productColumns+`
		FROM products WHERE is_active ORDER BY category, name
	`)
}

func (r *PGRepo) GetActiveByID(ctx context.Context, id int64) (*Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p Product
	err := r.db.QueryRow(ctx, `
		SELECT `+productColumns+`
		FROM products WHERE id=$1 AND is_active
	`, id).Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category,
		&p.ImageURL, &p.IsFeatured, &p.IsBestSeller, &p.IsActive, &p.CreatedAt)
	if err != nil {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (r *PGRepo) ListByCategory(ctx context.Context, category string) ([]Product, error) {
	return r.scanMany(ctx, `
		SELECT `+productColumns+`
		FROM products WHERE category=$1 AND is_active LIMIT 3
	`, category)
}

func (r *PGRepo) Featured(ctx context.Context) ([]Product, error) {
	return r.scanMany(ctx, `
		SELECT `+productColumns+`
		FROM products WHERE is_featured AND is_active
		ORDER BY created_at DESC LIMIT 3
	`)
}

func (r *PGRepo) BestSellers(ctx context.Context) ([]Product, error) {
	return r.scanMany(ctx, `
		SELECT `+productColumns+`
		FROM products WHERE is_best_seller AND is_active
		ORDER BY created_at DESC LIMIT 3
	`)
}

func (r *PGRepo) ListAll(ctx context.Context) ([]Product, error) {
	return r.scanMany(ctx, `
		SELECT `+productColumns+`
		FROM products ORDER BY is_active DESC, category, name
	`)
}

func (r *PGRepo) Create(ctx context.Context, req *UpsertRequest) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO products (name, description, price, category, image_url, is_featured, is_best_seller)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id
	`, req.Name, req.Description, req.Price, req.Category, req.ImageURL,
		req.IsFeatured, req.IsBestSeller).Scan(&id)
	return id, err
}

func (r *PGRepo) Update(ctx context.Context, id int64, req *UpsertRequest) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE products
		SET name=$2, description=$3, price=$4, category=$5, image_url=$6,
		    is_featured=$7, is_best_seller=$8
		WHERE id=$1
	`, id, req.Name, req.Description, req.Price, req.Category, req.ImageURL,
		req.IsFeatured, req.IsBestSeller)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) setActive(ctx context.Context, id int64, active bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `UPDATE products SET is_active=$2 WHERE id=$1`, id, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Archive soft-deletes: the product disappears from the store but stays
// referenced by historical order items.
func (r *PGRepo) Archive(ctx context.Context, id int64) error {
	return r.setActive(ctx, id, false)
}

func (r *PGRepo) Restore(ctx context.Context, id int64) error {
	return r.setActive(ctx, id, true)
}

func (r *PGRepo) CountActive(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE is_active`).Scan(&n)
	return n, err
}
