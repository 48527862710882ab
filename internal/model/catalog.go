package model

// City is a boarding or destination city.
type City struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	State     string `json:"state"`
	Code      string `json:"code"`
	IsPopular bool   `json:"is_popular"`
}

// Operator is the company running a bus.
type Operator struct {
	ID      uint64  `json:"id"`
	Name    string  `json:"name"`
	Code    string  `json:"code"`
	LogoURL *string `json:"logo_url"`
	Rating  float64 `json:"rating"`
}

// Route connects two cities.
type Route struct {
	ID              uint64  `json:"id"`
	FromCity        City    `json:"from_city"`
	ToCity          City    `json:"to_city"`
	DistanceKM      float64 `json:"distance_km"`
	DurationMinutes int     `json:"duration_minutes"`
}

// Bus describes a vehicle.  SeatLayout is an operator-defined layout name
// such as "2x2" or "sleeper".
type Bus struct {
	ID         uint64   `json:"id"`
	BusNumber  string   `json:"bus_number"`
	BusType    string   `json:"bus_type"`
	TotalSeats int      `json:"total_seats"`
	SeatLayout string   `json:"seat_layout"`
	Amenities  []string `json:"amenities"`
	Operator   Operator `json:"operator"`
}

// Point is a boarding or dropping point of a schedule.
type Point struct {
	ID            uint64  `json:"id"`
	Name          string  `json:"name"`
	Address       *string `json:"address"`
	Landmark      *string `json:"landmark"`
	Time          string  `json:"time"`
	ContactNumber *string `json:"contact_number"`
}

// Schedule is a specific bus trip on a date.  Seats and the boarding and
// dropping points are only populated by the detail endpoint
// (GET /buses/{id}).
type Schedule struct {
	ID             uint64  `json:"id"`
	TravelDate     string  `json:"travel_date"`
	DepartureTime  string  `json:"departure_time"`
	ArrivalTime    string  `json:"arrival_time"`
	BasePrice      Money   `json:"base_price"`
	AvailableSeats int     `json:"available_seats"`
	Status         string  `json:"status"`
	Bus            Bus     `json:"bus"`
	Route          Route   `json:"route"`
	Seats          []Seat  `json:"seats,omitempty"`
	BoardingPoints []Point `json:"boarding_points,omitempty"`
	DroppingPoints []Point `json:"dropping_points,omitempty"`
}

// Departure returns the departure time trimmed to HH:MM.
func (s Schedule) Departure() string { return clock(s.DepartureTime) }

// Arrival returns the arrival time trimmed to HH:MM.
func (s Schedule) Arrival() string { return clock(s.ArrivalTime) }

func clock(t string) string {
	if len(t) >= 5 {
		return t[:5]
	}
	return t
}
