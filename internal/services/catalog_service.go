package services

import (
	"context"

	"busbooking/internal/domain"
	"busbooking/internal/domain/models"
	"busbooking/internal/repositories"
)

// CatalogService lists routes and buses. Plain reads, no caching.
type CatalogService struct {
	Catalog repositories.CatalogRepo
}

func (s CatalogService) Routes(ctx context.Context) ([]models.Route, error) {
	out, err := s.Catalog.ListRoutes(ctx)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	return out, nil
}

func (s CatalogService) BusesByRoute(ctx context.Context, routeID int64) ([]models.Bus, error) {
	if routeID <= 0 {
		return nil, domain.ValidationError{Field: "routeId", Msg: "must be a positive integer"}
	}
	out, err := s.Catalog.ListBusesByRoute(ctx, routeID)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	return out, nil
}

func (s CatalogService) Bus(ctx context.Context, id int64) (models.Bus, error) {
	if id <= 0 {
		return models.Bus{}, domain.ValidationError{Field: "busId", Msg: "must be a positive integer"}
	}
	b, err := s.Catalog.GetBus(ctx, id)
	if err != nil {
		return models.Bus{}, storageErr(err)
	}
	return b, nil
}
