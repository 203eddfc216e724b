package models

import (
	"time"

	"busbooking/internal/domain"
)

// Booking is one seat on one bus. A confirmed booking is the seat claim.
type Booking struct {
	ID          int64                `json:"id"`
	UserID      *int64               `json:"userId"`
	BusID       int64                `json:"busId"`
	SeatNumber  int                  `json:"seatNumber"`
	PNR         string               `json:"pnr"`
	Status      domain.BookingStatus `json:"status"`
	BookingDate time.Time            `json:"bookingDate"`
}

// BookRequest is the input of a booking attempt.
type BookRequest struct {
	BusID      int64
	SeatNumber int
	UserID     *int64
}

// BookingView is the PNR lookup projection.
type BookingView struct {
	PNR           string               `json:"pnr"`
	Name          string               `json:"name"`
	Route         string               `json:"route"`
	BusNumber     string               `json:"busNumber"`
	SeatNumber    int                  `json:"seatNumber"`
	DepartureDate string               `json:"departureDate"`
	DepartureTime string               `json:"departureTime"`
	Fare          float64              `json:"fare"`
	Status        domain.BookingStatus `json:"status"`
	BookingDate   time.Time            `json:"bookingDate"`
}

// Availability is derived from confirmed bookings at call time.
type Availability struct {
	BusID          int64 `json:"bus_id"`
	TotalSeats     int   `json:"total_seats"`
	AvailableSeats int   `json:"available_seats"`
	BookedCount    int   `json:"booked_count"`
	BookedSeats    []int `json:"booked_seats"`
}
