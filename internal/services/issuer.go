package services

import (
	"context"
	"fmt"

	intdb "busbooking/internal/db"
	"busbooking/internal/domain"
	"busbooking/internal/domain/models"
	"busbooking/internal/pnr"
	"busbooking/internal/repositories"
	"busbooking/internal/utils"

	"go.uber.org/zap"
)

const (
	DefaultPNRAttempts = 5
	issueSavepoint     = "pnr_attempt"
)

// ReservationIssuer mints reservation codes for claimed seats. The unique
// index on bookings.pnr is the final arbiter of uniqueness.
type ReservationIssuer struct {
	Bookings    repositories.BookingRepo
	Codes       pnr.Generator
	MaxAttempts int
	Log         *zap.Logger
}

func (i ReservationIssuer) attempts() int {
	if i.MaxAttempts > 0 {
		return i.MaxAttempts
	}
	return DefaultPNRAttempts
}

func (i ReservationIssuer) codes() pnr.Generator {
	if i.Codes != nil {
		return i.Codes
	}
	return pnr.RandomGenerator{}
}

// Issue assigns a fresh code to the claimed row inside the claim's
// transaction. Each attempt runs behind a savepoint so a collision does not
// poison the transaction.
func (i ReservationIssuer) Issue(ctx context.Context, token ClaimToken, userID *int64) (models.Booking, error) {
	if token.tx == nil {
		return models.Booking{}, domain.InternalError{Msg: "issue without an open claim"}
	}
	tx := token.tx
	log := utils.OrNop(i.Log)

	for attempt := 1; attempt <= i.attempts(); attempt++ {
		code, err := i.codes().Generate()
		if err != nil {
			return models.Booking{}, domain.InternalError{Err: fmt.Errorf("generate pnr: %w", err)}
		}

		if err := intdb.Savepoint(ctx, tx, issueSavepoint); err != nil {
			return models.Booking{}, domain.InternalError{Err: fmt.Errorf("savepoint: %w", err)}
		}
		err = i.Bookings.AssignPNR(ctx, tx, token.BookingID, code, userID)
		if err == nil {
			if err := intdb.ReleaseSavepoint(ctx, tx, issueSavepoint); err != nil {
				return models.Booking{}, domain.InternalError{Err: fmt.Errorf("release savepoint: %w", err)}
			}
			b, err := i.Bookings.GetByID(ctx, tx, token.BookingID)
			if err != nil {
				return models.Booking{}, storageErr(err)
			}
			return b, nil
		}

		if rbErr := intdb.RollbackTo(ctx, tx, issueSavepoint); rbErr != nil {
			return models.Booking{}, domain.InternalError{Err: fmt.Errorf("rollback savepoint: %w", rbErr)}
		}
		if intdb.IsForeignKeyViolation(err) {
			return models.Booking{}, domain.ValidationError{Field: "userId", Msg: "user does not exist", Err: err}
		}
		if !intdb.IsUniqueViolation(err) {
			return models.Booking{}, storageErr(err)
		}
		log.Warn("pnr collision, regenerating",
			zap.Int("attempt", attempt), zap.Int64("booking_id", token.BookingID))
	}

	log.Error("pnr attempts exhausted",
		zap.Int("attempts", i.attempts()), zap.Int64("bus_id", token.BusID), zap.Int("seat", token.SeatNumber))
	return models.Booking{}, domain.ErrCodeSpace
}

// Lookup validates the code shape before touching storage.
func (i ReservationIssuer) Lookup(ctx context.Context, code string) (models.BookingView, error) {
	normalized, ok := pnr.Parse(code)
	if !ok {
		return models.BookingView{}, domain.ErrInvalidPNR
	}
	v, err := i.Bookings.View(ctx, normalized)
	if err != nil {
		return models.BookingView{}, storageErr(err)
	}
	return v, nil
}
