package services

import (
	"context"
	"strings"

	intdb "busbooking/internal/db"
	"busbooking/internal/domain"
	"busbooking/internal/domain/models"
	"busbooking/internal/repositories"
	"busbooking/internal/utils"
)

const maxCommentLen = 2000

type FeedbackService struct {
	Feedback repositories.FeedbackRepo
}

func (s FeedbackService) Submit(ctx context.Context, f models.Feedback) (int64, error) {
	if f.Rating < 1 || f.Rating > 5 {
		return 0, domain.ValidationError{Field: "rating", Msg: "must be between 1 and 5"}
	}
	f.Name = utils.NormalizeSpace(f.Name)
	f.Email = utils.NormalizeEmail(f.Email)
	f.Comments = strings.TrimSpace(f.Comments)
	if len(f.Comments) > maxCommentLen {
		return 0, domain.ValidationError{Field: "comments", Msg: "too long"}
	}
	if f.UserID != nil && *f.UserID <= 0 {
		f.UserID = nil
	}

	id, err := s.Feedback.Create(ctx, f)
	if intdb.IsForeignKeyViolation(err) {
		return 0, domain.ValidationError{Field: "userId", Msg: "user does not exist", Err: err}
	}
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}
	return id, nil
}
