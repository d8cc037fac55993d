package user

import (
	"context"
	"errors"
	"time"

	"github.com/flourever/storefront/internal/database"
)

var (
	ErrNotFound     = errors.New("user not found")
	ErrAlreadyExist = errors.New("user already exists")
	ErrProtected    = errors.New("user cannot be deleted")
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByEmailAndCode(ctx context.Context, email, code string) (*User, error)
	SetVerified(ctx context.Context, id int64) error
	SetVerificationCode(ctx context.Context, email, code string) error
	UpdatePassword(ctx context.Context, email, passwordHash string) error
	UpdateProfile(ctx context.Context, id int64, p *ProfileUpdate) error
	CompletedOrders(ctx context.Context, id int64) (int, error)
	ListAll(ctx context.Context) ([]Summary, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

type PGRepo struct{ db database.Pool }

func NewPGRepo(db database.Pool) *PGRepo { return &PGRepo{db: db} }

const userColumns = `id, email, password_hash, first_name, last_name, gender, birthday,
	profile_image_url, description, verification_code, is_verified, is_admin,
	default_contact_number, default_address, default_lat, default_lng,
	default_instructions, created_at`

func scanUser(row interface{ Scan(...any) error }) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.Gender, &u.Birthday, &u.ProfileImageURL, &u.Description,
		&u.VerificationCode, &u.IsVerified, &u.IsAdmin,
		&u.DefaultContactNumber, &u.DefaultAddress, &u.DefaultLat, &u.DefaultLng,
		&u.DefaultInstructions, &u.CreatedAt)
	if err != nil {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r *PGRepo) Create(ctx context.Context, u *User) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := r.db.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, first_name, last_name, gender, birthday, verification_code)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, created_at
	`, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Gender, u.Birthday,
		u.VerificationCode).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		// simplified: the only constraint on insert is UNIQUE(email)
		return ErrAlreadyExist
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, id int64) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id))
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email=$1`, email))
}

func (r *PGRepo) GetByEmailAndCode(ctx context.Context, email, code string) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return scanUser(r.db.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE email=$1 AND verification_code=$2
	`, email, code))
}

func (r *PGRepo) SetVerified(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		UPDATE users SET is_verified=TRUE, verification_code=NULL WHERE id=$1
	`, id)
	return err
}

func (r *PGRepo) SetVerificationCode(ctx context.Context, email, code string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `UPDATE users SET verification_code=$2 WHERE email=$1`, email, code)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE users SET password_hash=$2, verification_code=NULL WHERE email=$1
	`, email, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) UpdateProfile(ctx context.Context, id int64, p *ProfileUpdate) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET first_name=$2, last_name=$3, description=$4, profile_image_url=$5
		WHERE id=$1
	`, id, p.FirstName, p.LastName, p.Description, p.ProfileImageURL)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) CompletedOrders(ctx context.Context, id int64) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var n int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(id) FROM orders WHERE customer_id=$1 AND order_status='Delivered'
	`, id).Scan(&n)
	return n, err
}

func (r *PGRepo) ListAll(ctx context.Context) ([]Summary, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, email, first_name, last_name, is_verified, created_at
		FROM users ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.Email, &s.FirstName, &s.LastName, &s.IsVerified, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Delete removes a customer together with their orders and order items in one
// transaction. Admin accounts are refused.
func (r *PGRepo) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var isAdmin bool
	if err := tx.QueryRow(ctx, `SELECT is_admin FROM users WHERE id=$1`, id).Scan(&isAdmin); err != nil {
		return ErrNotFound
	}
	if isAdmin {
		return ErrProtected
	}
	if _, err := tx.Exec(ctx, `
		DELETE FROM order_items WHERE order_id IN (SELECT id FROM orders WHERE customer_id=$1)
	`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM orders WHERE customer_id=$1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM users WHERE id=$1`, id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PGRepo) Count(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}
