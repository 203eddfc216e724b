package handlers

import (
	"net/http"

	"busbooking/internal/domain"
	"busbooking/internal/domain/models"
	"busbooking/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

type createBookingRequest struct {
	BusID      Intish `json:"busId"`
	SeatNumber Intish `json:"seatNumber"`
	UserID     Intish `json:"userId"`
}

// POST /api/bookings
func (h *Handler) CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	userID, err := bookingUser(c, req.UserID.Int64())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	in := models.BookRequest{
		BusID:      req.BusID.Int64(),
		SeatNumber: int(req.SeatNumber.Int64()),
		UserID:     userID,
	}

	b, err := h.Bookings.Book(c.Request.Context(), in)
	if err != nil {
		h.fail(c, "booking", "create", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Booking confirmed",
		"pnr":     b.PNR,
		"booking": b,
	})
}

// bookingUser picks the user a write is attributed to. A signed-in caller
// may only name themselves; guests may name any user, as the public form
// does.
func bookingUser(c *gin.Context, bodyID int64) (*int64, error) {
	caller, signedIn := middleware.GetUserID(c)
	switch {
	case signedIn && bodyID > 0 && bodyID != caller:
		return nil, domain.ForbiddenError{Msg: "userId does not match the signed-in user"}
	case signedIn:
		return &caller, nil
	case bodyID > 0:
		return &bodyID, nil
	default:
		return nil, nil
	}
}

// GET /api/pnr/:pnr
func (h *Handler) GetBookingByPNR(c *gin.Context) {
	v, err := h.Bookings.Lookup(c.Request.Context(), c.Param("pnr"))
	if err != nil {
		h.fail(c, "booking", "lookup", err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// PUT /api/bookings/:pnr/cancel
func (h *Handler) CancelBooking(c *gin.Context) {
	b, err := h.Bookings.Cancel(c.Request.Context(), c.Param("pnr"))
	if err != nil {
		h.fail(c, "booking", "cancel", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Booking cancelled successfully",
		"booking": b,
	})
}

// GET /api/buses/:busId/availability
func (h *Handler) GetAvailability(c *gin.Context) {
	busID, ok := idParam(c, "busId")
	if !ok {
		return
	}
	a, err := h.Bookings.Availability(c.Request.Context(), busID)
	if err != nil {
		h.fail(c, "ledger", "availability", err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// GET /api/buses/:busId/booked-seats
func (h *Handler) GetBookedSeats(c *gin.Context) {
	busID, ok := idParam(c, "busId")
	if !ok {
		return
	}
	seats, err := h.Bookings.BookedSeats(c.Request.Context(), busID)
	if err != nil {
		h.fail(c, "ledger", "booked_seats", err)
		return
	}
	c.JSON(http.StatusOK, seats)
}

// GET /api/users/:id/bookings. Only the signed-in user may list their own.
func (h *Handler) GetUserBookings(c *gin.Context) {
	userID, ok := idParam(c, "id")
	if !ok {
		return
	}
	caller, ok := middleware.GetUserID(c)
	if !ok {
		RespondDomainError(c, domain.UnauthorizedError{Msg: "login required"})
		return
	}
	if caller != userID {
		RespondDomainError(c, domain.ForbiddenError{Msg: "cannot list another user's bookings"})
		return
	}

	out, err := h.Bookings.ListForUser(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, "booking", "list_user", err)
		return
	}
	c.JSON(http.StatusOK, out)
}
