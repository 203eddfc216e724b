package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	intdb "busbooking/internal/db"
	"busbooking/internal/domain"
	"busbooking/internal/domain/models"
)

const bookingCols = `id, user_id, bus_id, seat_number, COALESCE(pnr, ''), status, booking_date`

// BookingRepo holds the SQL behind the seat ledger and the reservation
// issuer. Methods taking a Querier run inside the caller's transaction.
type BookingRepo struct {
	DB      *sql.DB
	Dialect intdb.Dialect
}

func (r BookingRepo) q(query string) string {
	return r.Dialect.Rebind(query)
}

// LockBus takes a row lock on the bus for the rest of the transaction and
// returns its seat capacity. Every claim on the same bus queues here.
func (r BookingRepo) LockBus(ctx context.Context, tx intdb.Querier, busID int64) (int, error) {
	var total int
	err := tx.QueryRowContext(ctx, r.q(`SELECT total_seats FROM buses WHERE id = ? FOR UPDATE`), busID).Scan(&total)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.NotFoundError{Resource: "bus", Err: err}
	}
	if err != nil {
		return 0, fmt.Errorf("lock bus %d: %w", busID, err)
	}
	return total, nil
}

// InsertClaim inserts a confirmed booking without a pnr only if the bus
// still has capacity and the seat has no confirmed booking. Both checks and
// the insert are a single statement. sql.ErrNoRows means one of the checks
// refused the claim.
func (r BookingRepo) InsertClaim(ctx context.Context, tx intdb.Querier, busID int64, seatNumber int) (int64, error) {
	query := `INSERT INTO bookings (bus_id, seat_number, status)
		SELECT b.id, ` + r.Dialect.IntParam() + `, 'confirmed'
		FROM buses b
		WHERE b.id = ?
		  AND (SELECT COUNT(*) FROM bookings c WHERE c.bus_id = b.id AND c.status = 'confirmed') < b.total_seats
		  AND NOT EXISTS (
			SELECT 1 FROM bookings d
			WHERE d.bus_id = b.id AND d.seat_number = ? AND d.status = 'confirmed'
		  )`
	return r.Dialect.InsertID(ctx, tx, r.q(query), seatNumber, busID, seatNumber)
}

// ClaimState reports why a claim was refused. Only meaningful while the
// bus row is locked.
func (r BookingRepo) ClaimState(ctx context.Context, tx intdb.Querier, busID int64, seatNumber int) (confirmed int, seatTaken bool, err error) {
	query := `SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN seat_number = ? THEN 1 ELSE 0 END), 0)
		FROM bookings
		WHERE bus_id = ? AND status = 'confirmed'`
	var holders int
	if err := tx.QueryRowContext(ctx, r.q(query), seatNumber, busID).Scan(&confirmed, &holders); err != nil {
		return 0, false, fmt.Errorf("claim state: %w", err)
	}
	return confirmed, holders > 0, nil
}

// AssignPNR stamps the code and optional user on a freshly claimed row.
// A unique violation means the code is already in use.
func (r BookingRepo) AssignPNR(ctx context.Context, tx intdb.Querier, bookingID int64, code string, userID *int64) error {
	res, err := tx.ExecContext(ctx, r.q(`UPDATE bookings SET pnr = ?, user_id = ? WHERE id = ? AND pnr IS NULL`),
		code, intdb.NullIfZero(userID), bookingID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFoundError{Resource: "claim"}
	}
	return nil
}

func (r BookingRepo) GetByID(ctx context.Context, q intdb.Querier, id int64) (models.Booking, error) {
	row := q.QueryRowContext(ctx, r.q(`SELECT `+bookingCols+` FROM bookings WHERE id = ?`), id)
	return scanBooking(row)
}

func (r BookingRepo) GetByPNR(ctx context.Context, q intdb.Querier, code string) (models.Booking, error) {
	row := q.QueryRowContext(ctx, r.q(`SELECT `+bookingCols+` FROM bookings WHERE pnr = ?`), code)
	return scanBooking(row)
}

// Cancel flips a confirmed booking to cancelled and reports whether a row
// changed.
func (r BookingRepo) Cancel(ctx context.Context, code string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, r.q(`UPDATE bookings SET status = 'cancelled' WHERE pnr = ? AND status = 'confirmed'`), code)
	if err != nil {
		return false, fmt.Errorf("cancel booking: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("cancel booking: %w", err)
	}
	return n > 0, nil
}

// View joins the booking with its bus, route and (optional) user.
func (r BookingRepo) View(ctx context.Context, code string) (models.BookingView, error) {
	query := `SELECT b.pnr, b.seat_number, b.status, b.booking_date,
			COALESCE(u.name, ''),
			bus.bus_number, bus.departure_date, bus.departure_time,
			r.from_city, r.to_city, r.fare
		FROM bookings b
		LEFT JOIN users u ON u.id = b.user_id
		JOIN buses bus ON bus.id = b.bus_id
		JOIN routes r ON r.id = bus.route_id
		WHERE b.pnr = ?`

	var (
		v        models.BookingView
		status   string
		from, to string
	)
	err := r.DB.QueryRowContext(ctx, r.q(query), code).Scan(
		&v.PNR, &v.SeatNumber, &status, &v.BookingDate,
		&v.Name,
		&v.BusNumber, &v.DepartureDate, &v.DepartureTime,
		&from, &to, &v.Fare,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.BookingView{}, domain.NotFoundError{Resource: "booking", Err: err}
	}
	if err != nil {
		return models.BookingView{}, fmt.Errorf("booking view: %w", err)
	}
	v.Status = domain.BookingStatus(status)
	v.Route = from + " → " + to
	if v.Name == "" {
		v.Name = "Guest"
	}
	return v, nil
}

// Availability reads capacity and confirmed seats in one statement so the
// counts and the seat list come from the same snapshot.
func (r BookingRepo) Availability(ctx context.Context, busID int64) (models.Availability, error) {
	query := `SELECT b.total_seats, bk.seat_number
		FROM buses b
		LEFT JOIN bookings bk ON bk.bus_id = b.id AND bk.status = 'confirmed'
		WHERE b.id = ?
		ORDER BY bk.seat_number`
	rows, err := r.DB.QueryContext(ctx, r.q(query), busID)
	if err != nil {
		return models.Availability{}, fmt.Errorf("availability: %w", err)
	}
	defer rows.Close()

	out := models.Availability{BusID: busID, BookedSeats: []int{}}
	found := false
	for rows.Next() {
		var seat sql.NullInt64
		if err := rows.Scan(&out.TotalSeats, &seat); err != nil {
			return models.Availability{}, fmt.Errorf("availability scan: %w", err)
		}
		found = true
		if seat.Valid {
			out.BookedSeats = append(out.BookedSeats, int(seat.Int64))
		}
	}
	if err := rows.Err(); err != nil {
		return models.Availability{}, fmt.Errorf("availability rows: %w", err)
	}
	if !found {
		return models.Availability{}, domain.NotFoundError{Resource: "bus"}
	}

	out.BookedCount = len(out.BookedSeats)
	out.AvailableSeats = out.TotalSeats - out.BookedCount
	if out.AvailableSeats < 0 {
		out.AvailableSeats = 0
	}
	return out, nil
}

// BookedSeats lists confirmed seat numbers in ascending order.
func (r BookingRepo) BookedSeats(ctx context.Context, busID int64) ([]int, error) {
	rows, err := r.DB.QueryContext(ctx,
		r.q(`SELECT seat_number FROM bookings WHERE bus_id = ? AND status = 'confirmed' ORDER BY seat_number`), busID)
	if err != nil {
		return nil, fmt.Errorf("booked seats: %w", err)
	}
	defer rows.Close()

	out := []int{}
	for rows.Next() {
		var seat int
		if err := rows.Scan(&seat); err != nil {
			return nil, fmt.Errorf("booked seats scan: %w", err)
		}
		out = append(out, seat)
	}
	return out, rows.Err()
}

func (r BookingRepo) ListByUser(ctx context.Context, userID int64) ([]models.Booking, error) {
	rows, err := r.DB.QueryContext(ctx,
		r.q(`SELECT `+bookingCols+` FROM bookings WHERE user_id = ? ORDER BY booking_date DESC, id DESC`), userID)
	if err != nil {
		return nil, fmt.Errorf("list user bookings: %w", err)
	}
	defer rows.Close()

	out := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (models.Booking, error) {
	var (
		b      models.Booking
		userID sql.NullInt64
		status string
		booked time.Time
	)
	err := row.Scan(&b.ID, &userID, &b.BusID, &b.SeatNumber, &b.PNR, &status, &booked)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Booking{}, domain.NotFoundError{Resource: "booking", Err: err}
	}
	if err != nil {
		return models.Booking{}, fmt.Errorf("scan booking: %w", err)
	}
	if userID.Valid {
		id := userID.Int64
		b.UserID = &id
	}
	b.Status = domain.BookingStatus(status)
	if !b.Status.Valid() {
		return models.Booking{}, fmt.Errorf("scan booking: unknown status %q", status)
	}
	b.BookingDate = booked
	return b, nil
}
