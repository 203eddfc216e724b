package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	intdb "busbooking/internal/db"
	"busbooking/internal/domain"
	"busbooking/internal/domain/models"
	"busbooking/internal/pnr"
	"busbooking/internal/repositories"
	"busbooking/internal/utils"

	"go.uber.org/zap"
)

// ClaimToken is a seat held inside an open transaction. It is only valid
// until that transaction ends.
type ClaimToken struct {
	tx         *sql.Tx
	BookingID  int64
	BusID      int64
	SeatNumber int
}

// SeatLedger owns the rule that a bus seat has at most one confirmed
// booking and that a bus is never sold past capacity.
type SeatLedger struct {
	Bookings repositories.BookingRepo
	Log      *zap.Logger
}

// Claim reserves (busID, seatNumber) inside tx. The bus row lock serializes
// claims per bus; the conditional insert and the unique index decide the
// outcome.
func (l SeatLedger) Claim(ctx context.Context, tx *sql.Tx, busID int64, seatNumber int) (ClaimToken, error) {
	if busID <= 0 {
		return ClaimToken{}, domain.ValidationError{Field: "busId", Msg: "must be a positive integer"}
	}
	if seatNumber < 1 {
		return ClaimToken{}, domain.ErrSeatOutOfRange
	}

	total, err := l.Bookings.LockBus(ctx, tx, busID)
	if err != nil {
		return ClaimToken{}, storageErr(err)
	}
	if seatNumber > total {
		return ClaimToken{}, domain.ErrSeatOutOfRange
	}

	id, err := l.Bookings.InsertClaim(ctx, tx, busID, seatNumber)
	switch {
	case err == nil:
		return ClaimToken{tx: tx, BookingID: id, BusID: busID, SeatNumber: seatNumber}, nil
	case intdb.IsUniqueViolation(err):
		return ClaimToken{}, domain.ErrSeatAlreadyTaken
	case !errors.Is(err, sql.ErrNoRows):
		return ClaimToken{}, domain.InternalError{Err: fmt.Errorf("claim seat: %w", err)}
	}

	confirmed, taken, err := l.Bookings.ClaimState(ctx, tx, busID, seatNumber)
	if err != nil {
		return ClaimToken{}, domain.InternalError{Err: err}
	}
	if confirmed >= total {
		return ClaimToken{}, domain.ErrBusFull
	}
	if taken {
		return ClaimToken{}, domain.ErrSeatAlreadyTaken
	}
	return ClaimToken{}, domain.InternalError{Msg: "claim refused without a recorded reason"}
}

// Release cancels the booking behind code. Cancelling an already cancelled
// booking succeeds without changes.
func (l SeatLedger) Release(ctx context.Context, code string) (models.Booking, error) {
	normalized, ok := pnr.Parse(code)
	if !ok {
		return models.Booking{}, domain.ErrInvalidPNR
	}

	changed, err := l.Bookings.Cancel(ctx, normalized)
	if err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}

	b, err := l.Bookings.GetByPNR(ctx, l.Bookings.DB, normalized)
	if err != nil {
		return models.Booking{}, storageErr(err)
	}
	if changed {
		utils.LogEvent(l.Log, utils.RequestIDFrom(ctx), "ledger", "release", "seat released",
			zap.Int64("bus_id", b.BusID), zap.Int("seat", b.SeatNumber), zap.String("pnr", b.PNR))
	}
	return b, nil
}

// Availability is computed from confirmed bookings on every call.
func (l SeatLedger) Availability(ctx context.Context, busID int64) (models.Availability, error) {
	if busID <= 0 {
		return models.Availability{}, domain.ValidationError{Field: "busId", Msg: "must be a positive integer"}
	}
	a, err := l.Bookings.Availability(ctx, busID)
	if err != nil {
		return models.Availability{}, storageErr(err)
	}
	return a, nil
}

// BookedSeats returns the confirmed seat numbers in ascending order.
func (l SeatLedger) BookedSeats(ctx context.Context, busID int64) ([]int, error) {
	if busID <= 0 {
		return nil, domain.ValidationError{Field: "busId", Msg: "must be a positive integer"}
	}
	seats, err := l.Bookings.BookedSeats(ctx, busID)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	return seats, nil
}

// storageErr passes typed domain errors through and wraps the rest.
func storageErr(err error) error {
	if domain.IsNotFound(err) || domain.IsValidation(err) || domain.IsConflict(err) || domain.IsInternal(err) {
		return err
	}
	return domain.InternalError{Err: err}
}
