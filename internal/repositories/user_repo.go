package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	intdb "busbooking/internal/db"
	"busbooking/internal/domain"
	"busbooking/internal/domain/models"
)

type UserRepo struct {
	DB      *sql.DB
	Dialect intdb.Dialect
}

// Create inserts a user; a duplicate email surfaces as a ConflictError.
func (r UserRepo) Create(ctx context.Context, u models.User) (int64, error) {
	id, err := r.Dialect.InsertID(ctx, r.DB,
		r.Dialect.Rebind(`INSERT INTO users (name, email, password_hash, phone) VALUES (?, ?, ?, ?)`),
		u.Name, u.Email, u.PasswordHash, intdb.NullIfEmpty(u.Phone))
	if intdb.IsUniqueViolation(err) {
		return 0, domain.ConflictError{Reason: domain.ReasonEmailTaken, Resource: "user", Msg: "email already exists", Err: err}
	}
	if err != nil {
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return id, nil
}

func (r UserRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var (
		u     models.User
		phone sql.NullString
	)
	err := r.DB.QueryRowContext(ctx,
		r.Dialect.Rebind(`SELECT id, name, email, password_hash, phone, created_at FROM users WHERE email = ?`), email).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &phone, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, domain.NotFoundError{Resource: "user", Err: err}
	}
	if err != nil {
		return models.User{}, fmt.Errorf("get user: %w", err)
	}
	u.Phone = phone.String
	return u, nil
}

// CountUsers backs the db-check endpoint.
func (r UserRepo) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
