package handlers

import (
	"context"
	"sync"

	"busbooking/internal/domain/models"
	"busbooking/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingAPI is the booking surface used by the HTTP layer.
type BookingAPI interface {
	Book(ctx context.Context, req models.BookRequest) (models.Booking, error)
	Lookup(ctx context.Context, code string) (models.BookingView, error)
	Cancel(ctx context.Context, code string) (models.Booking, error)
	Availability(ctx context.Context, busID int64) (models.Availability, error)
	BookedSeats(ctx context.Context, busID int64) ([]int, error)
	ListForUser(ctx context.Context, userID int64) ([]models.Booking, error)
}

type AuthAPI interface {
	Register(ctx context.Context, in services.RegisterInput) (models.User, error)
	Login(ctx context.Context, email, password string) (string, models.User, error)
}

type CatalogAPI interface {
	Routes(ctx context.Context) ([]models.Route, error)
	BusesByRoute(ctx context.Context, routeID int64) ([]models.Bus, error)
	Bus(ctx context.Context, id int64) (models.Bus, error)
}

type FeedbackAPI interface {
	Submit(ctx context.Context, f models.Feedback) (int64, error)
}

type TicketAPI interface {
	GenerateETicket(ctx context.Context, code string) ([]byte, string, error)
}

// DBChecker backs /api/db-check.
type DBChecker interface {
	CountUsers(ctx context.Context) (int, error)
}

// Handler holds the services behind every endpoint. The storage handle is
// reached only through them.
type Handler struct {
	Bookings BookingAPI
	Auth     AuthAPI
	Catalog  CatalogAPI
	Feedback FeedbackAPI
	Tickets  TicketAPI
	DB       DBChecker
	Log      *zap.Logger

	routerMu sync.RWMutex
	router   *gin.Engine
}
