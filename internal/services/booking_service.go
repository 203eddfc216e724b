package services

import (
	"context"
	"database/sql"
	"fmt"

	"busbooking/internal/domain"
	"busbooking/internal/domain/models"
	"busbooking/internal/utils"

	"go.uber.org/zap"
)

// BookingService runs claim and issue as one transaction: either the seat
// is held by a booking with a pnr, or nothing is written.
type BookingService struct {
	DB     *sql.DB
	Ledger SeatLedger
	Issuer ReservationIssuer
	Log    *zap.Logger
}

func (s BookingService) Book(ctx context.Context, req models.BookRequest) (b models.Booking, err error) {
	if req.BusID <= 0 {
		return models.Booking{}, domain.ValidationError{Field: "busId", Msg: "must be a positive integer"}
	}
	if req.SeatNumber < 1 {
		return models.Booking{}, domain.ErrSeatOutOfRange
	}
	if req.UserID != nil && *req.UserID <= 0 {
		req.UserID = nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Booking{}, domain.InternalError{Err: fmt.Errorf("begin booking tx: %w", err)}
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	token, err := s.Ledger.Claim(ctx, tx, req.BusID, req.SeatNumber)
	if err != nil {
		s.logRefusal(ctx, req, err)
		return models.Booking{}, err
	}

	b, err = s.Issuer.Issue(ctx, token, req.UserID)
	if err != nil {
		s.logRefusal(ctx, req, err)
		return models.Booking{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Booking{}, domain.InternalError{Err: fmt.Errorf("commit booking: %w", err)}
	}
	committed = true

	utils.LogEvent(s.Log, utils.RequestIDFrom(ctx), "booking", "create", "booking confirmed",
		zap.Int64("bus_id", b.BusID), zap.Int("seat", b.SeatNumber), zap.String("pnr", b.PNR))
	return b, nil
}

func (s BookingService) logRefusal(ctx context.Context, req models.BookRequest, err error) {
	log := utils.OrNop(s.Log)
	fields := []zap.Field{
		zap.String("request_id", utils.RequestIDFrom(ctx)),
		zap.Int64("bus_id", req.BusID),
		zap.Int("seat", req.SeatNumber),
		zap.String("reason", string(domain.ReasonOf(err))),
	}
	if domain.IsInternal(err) {
		log.Error("booking failed", append(fields, zap.Error(err))...)
		return
	}
	log.Info("booking refused", fields...)
}

func (s BookingService) Cancel(ctx context.Context, code string) (models.Booking, error) {
	return s.Ledger.Release(ctx, code)
}

func (s BookingService) Lookup(ctx context.Context, code string) (models.BookingView, error) {
	return s.Issuer.Lookup(ctx, code)
}

func (s BookingService) Availability(ctx context.Context, busID int64) (models.Availability, error) {
	return s.Ledger.Availability(ctx, busID)
}

func (s BookingService) BookedSeats(ctx context.Context, busID int64) ([]int, error) {
	return s.Ledger.BookedSeats(ctx, busID)
}

// ListForUser returns the user's bookings, newest first.
func (s BookingService) ListForUser(ctx context.Context, userID int64) ([]models.Booking, error) {
	if userID <= 0 {
		return nil, domain.ValidationError{Field: "userId", Msg: "must be a positive integer"}
	}
	out, err := s.Ledger.Bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	return out, nil
}
