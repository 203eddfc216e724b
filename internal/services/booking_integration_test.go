package services

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	intconfig "busbooking/internal/config"
	intdb "busbooking/internal/db"
	"busbooking/internal/domain"
	"busbooking/internal/domain/models"
	"busbooking/internal/pnr"
	"busbooking/internal/repositories"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// Runs against a real database when BUSBOOKING_TEST_DSN is set, e.g.
//
//	BUSBOOKING_TEST_DRIVER=pgx BUSBOOKING_TEST_DSN=postgres://u:p@localhost/bus_test go test ./internal/services
func openIntegrationDB(t *testing.T) (*sql.DB, intdb.Dialect) {
	t.Helper()
	dsn := os.Getenv("BUSBOOKING_TEST_DSN")
	if dsn == "" {
		t.Skip("BUSBOOKING_TEST_DSN not set")
	}
	driver := os.Getenv("BUSBOOKING_TEST_DRIVER")
	if driver == "" {
		driver = "mysql"
	}
	dialect := intdb.DialectFor(driver)
	if dialect == intdb.MySQL {
		dsn = intconfig.MySQLParseTime(dsn)
	}

	db, err := sql.Open(string(dialect), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	db.SetMaxOpenConns(32)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, db.PingContext(ctx))
	require.NoError(t, intdb.EnsureSchema(ctx, db, dialect))
	return db, dialect
}

func seedBus(t *testing.T, db *sql.DB, d intdb.Dialect, seats int) int64 {
	t.Helper()
	ctx := context.Background()
	routeID, err := d.InsertID(ctx, db,
		d.Rebind(`INSERT INTO routes (from_city, to_city, fare, distance_km) VALUES (?, ?, ?, ?)`),
		"Chennai", "Madurai", 650.0, 460)
	require.NoError(t, err)
	busID, err := d.InsertID(ctx, db,
		d.Rebind(`INSERT INTO buses (route_id, bus_number, total_seats, departure_date, departure_time) VALUES (?, ?, ?, ?, ?)`),
		routeID, fmt.Sprintf("IT-%d", time.Now().UnixNano()%100000), seats, "2025-02-01", "21:30")
	require.NoError(t, err)
	return busID
}

func integrationService(db *sql.DB, d intdb.Dialect) BookingService {
	repo := repositories.BookingRepo{DB: db, Dialect: d}
	return BookingService{
		DB:     db,
		Ledger: SeatLedger{Bookings: repo},
		Issuer: ReservationIssuer{Bookings: repo, Codes: pnr.RandomGenerator{}},
	}
}

func TestIntegrationConcurrentClaimsOnOneSeat(t *testing.T) {
	db, d := openIntegrationDB(t)
	svc := integrationService(db, d)
	busID := seedBus(t, db, d, 40)

	var won, taken atomic.Int32
	var g errgroup.Group
	for i := 0; i < 20; i++ {
		g.Go(func() error {
			_, err := svc.Book(context.Background(), models.BookRequest{BusID: busID, SeatNumber: 17})
			switch {
			case err == nil:
				won.Add(1)
			case domain.ReasonOf(err) == domain.ReasonSeatAlreadyTaken:
				taken.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, int32(1), won.Load())
	assert.Equal(t, int32(19), taken.Load())

	seats, err := svc.BookedSeats(context.Background(), busID)
	require.NoError(t, err)
	assert.Equal(t, []int{17}, seats)

	a, err := svc.Availability(context.Background(), busID)
	require.NoError(t, err)
	assert.Equal(t, 39, a.AvailableSeats)
}

func TestIntegrationCapacityIsNeverExceeded(t *testing.T) {
	db, d := openIntegrationDB(t)
	svc := integrationService(db, d)
	busID := seedBus(t, db, d, 3)

	var won atomic.Int32
	var g errgroup.Group
	for i := 0; i < 12; i++ {
		seat := i%3 + 1
		g.Go(func() error {
			_, err := svc.Book(context.Background(), models.BookRequest{BusID: busID, SeatNumber: seat})
			if err == nil {
				won.Add(1)
				return nil
			}
			if r := domain.ReasonOf(err); r != domain.ReasonSeatAlreadyTaken && r != domain.ReasonBusFull {
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, int32(3), won.Load())

	_, err := svc.Book(context.Background(), models.BookRequest{BusID: busID, SeatNumber: 2})
	assert.Equal(t, domain.ReasonBusFull, domain.ReasonOf(err))

	a, err := svc.Availability(context.Background(), busID)
	require.NoError(t, err)
	assert.Equal(t, 0, a.AvailableSeats)
	assert.Equal(t, []int{1, 2, 3}, a.BookedSeats)
}

func TestIntegrationCancelFreesSeatAndCodesStayUnique(t *testing.T) {
	db, d := openIntegrationDB(t)
	svc := integrationService(db, d)
	busID := seedBus(t, db, d, 5)
	ctx := context.Background()

	first, err := svc.Book(ctx, models.BookRequest{BusID: busID, SeatNumber: 4})
	require.NoError(t, err)
	assert.True(t, pnr.Valid(first.PNR))

	view, err := svc.Lookup(ctx, first.PNR)
	require.NoError(t, err)
	assert.Equal(t, "Guest", view.Name)
	assert.Equal(t, "Chennai → Madurai", view.Route)

	cancelled, err := svc.Cancel(ctx, first.PNR)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)
	again, err := svc.Cancel(ctx, first.PNR)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, again.Status)

	second, err := svc.Book(ctx, models.BookRequest{BusID: busID, SeatNumber: 4})
	require.NoError(t, err)
	assert.NotEqual(t, first.PNR, second.PNR)

	old, err := svc.Lookup(ctx, first.PNR)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, old.Status)

	a, err := svc.Availability(ctx, busID)
	require.NoError(t, err)
	assert.Equal(t, 1, a.BookedCount)
	assert.Equal(t, a.TotalSeats-a.BookedCount, a.AvailableSeats)

	_, err = svc.Book(ctx, models.BookRequest{BusID: busID, SeatNumber: 6})
	assert.Equal(t, domain.ReasonSeatOutOfRange, domain.ReasonOf(err))
	seats, err := svc.BookedSeats(ctx, busID)
	require.NoError(t, err)
	assert.True(t, sort.IntsAreSorted(seats))
	assert.Equal(t, []int{4}, seats)
}
