package models

type Route struct {
	ID         int64   `json:"id"`
	FromCity   string  `json:"from_city"`
	ToCity     string  `json:"to_city"`
	Fare       float64 `json:"fare"`
	DistanceKM *int    `json:"distance_km,omitempty"`
}

type Bus struct {
	ID            int64  `json:"id"`
	RouteID       int64  `json:"route_id"`
	BusNumber     string `json:"bus_number"`
	TotalSeats    int    `json:"total_seats"`
	DepartureDate string `json:"departure_date"`
	DepartureTime string `json:"departure_time"`
}
