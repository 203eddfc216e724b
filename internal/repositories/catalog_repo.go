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

const busCols = `id, route_id, bus_number, total_seats, departure_date, departure_time`

// CatalogRepo serves the read-only route and bus listings.
type CatalogRepo struct {
	DB      *sql.DB
	Dialect intdb.Dialect
}

func (r CatalogRepo) ListRoutes(ctx context.Context) ([]models.Route, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, from_city, to_city, fare, distance_km FROM routes ORDER BY from_city, to_city`)
	if err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}
	defer rows.Close()

	out := []models.Route{}
	for rows.Next() {
		var (
			rt   models.Route
			dist sql.NullInt64
		)
		if err := rows.Scan(&rt.ID, &rt.FromCity, &rt.ToCity, &rt.Fare, &dist); err != nil {
			return nil, fmt.Errorf("scan route: %w", err)
		}
		if dist.Valid {
			km := int(dist.Int64)
			rt.DistanceKM = &km
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

func (r CatalogRepo) ListBusesByRoute(ctx context.Context, routeID int64) ([]models.Bus, error) {
	rows, err := r.DB.QueryContext(ctx,
		r.Dialect.Rebind(`SELECT `+busCols+` FROM buses WHERE route_id = ? ORDER BY departure_date, departure_time`), routeID)
	if err != nil {
		return nil, fmt.Errorf("list buses: %w", err)
	}
	defer rows.Close()

	out := []models.Bus{}
	for rows.Next() {
		var b models.Bus
		if err := rows.Scan(&b.ID, &b.RouteID, &b.BusNumber, &b.TotalSeats, &b.DepartureDate, &b.DepartureTime); err != nil {
			return nil, fmt.Errorf("scan bus: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r CatalogRepo) GetBus(ctx context.Context, id int64) (models.Bus, error) {
	var b models.Bus
	err := r.DB.QueryRowContext(ctx, r.Dialect.Rebind(`SELECT `+busCols+` FROM buses WHERE id = ?`), id).
		Scan(&b.ID, &b.RouteID, &b.BusNumber, &b.TotalSeats, &b.DepartureDate, &b.DepartureTime)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Bus{}, domain.NotFoundError{Resource: "bus", Err: err}
	}
	if err != nil {
		return models.Bus{}, fmt.Errorf("get bus: %w", err)
	}
	return b, nil
}
