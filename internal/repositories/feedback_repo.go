package repositories

import (
	"context"
	"database/sql"
	"fmt"

	intdb "busbooking/internal/db"
	"busbooking/internal/domain/models"
)

type FeedbackRepo struct {
	DB      *sql.DB
	Dialect intdb.Dialect
}

func (r FeedbackRepo) Create(ctx context.Context, f models.Feedback) (int64, error) {
	id, err := r.Dialect.InsertID(ctx, r.DB,
		r.Dialect.Rebind(`INSERT INTO feedback (user_id, name, email, rating, comments) VALUES (?, ?, ?, ?, ?)`),
		intdb.NullIfZero(f.UserID), intdb.NullIfEmpty(f.Name), intdb.NullIfEmpty(f.Email), f.Rating, intdb.NullIfEmpty(f.Comments))
	if err != nil {
		return 0, fmt.Errorf("insert feedback: %w", err)
	}
	return id, nil
}
