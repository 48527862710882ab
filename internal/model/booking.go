package model

// Booking statuses reported by the server.  The list is open ended; the
// client only relies on StatusCancelled.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// Gender values accepted for a passenger.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Valid reports whether g is one of the accepted values.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// PaymentMethod selects how a booking is paid for.
type PaymentMethod string

const (
	PayWallet PaymentMethod = "wallet"
	PayCard   PaymentMethod = "card"
	PayUPI    PaymentMethod = "upi"
)

// Valid reports whether p is one of the accepted methods.
func (p PaymentMethod) Valid() bool {
	switch p {
	case PayWallet, PayCard, PayUPI:
		return true
	}
	return false
}

// Passenger is the per-seat traveller entered on the confirmation screen.
type Passenger struct {
	SeatID uint64 `json:"seat_id"`
	Name   string `json:"passenger_name"`
	Age    int    `json:"passenger_age"`
	Gender Gender `json:"passenger_gender"`
}

// BookingRequest is the body of POST /bookings.
type BookingRequest struct {
	ScheduleID    uint64        `json:"bus_schedule_id"`
	Passengers    []Passenger   `json:"passengers"`
	PaymentMethod PaymentMethod `json:"payment_method"`
}

// BookingPassenger is a passenger as echoed back inside a Booking.
type BookingPassenger struct {
	ID         uint64 `json:"id"`
	SeatID     uint64 `json:"seat_id"`
	SeatNumber string `json:"seat_number"`
	Name       string `json:"passenger_name"`
	Age        int    `json:"passenger_age"`
	Gender     string `json:"passenger_gender"`
}

// Booking is server authoritative; the client never edits one, it only
// asks the server to cancel it.
type Booking struct {
	ID            uint64             `json:"id"`
	Code          string             `json:"booking_code"`
	TotalAmount   Money              `json:"total_amount"`
	Status        string             `json:"status"`
	PaymentMethod string             `json:"payment_method"`
	BookingSource string             `json:"booking_source,omitempty"`
	BookedAt      string             `json:"booked_at"`
	CancelledAt   *string            `json:"cancelled_at"`
	ScheduleID    uint64             `json:"bus_schedule_id"`
	BusNumber     string             `json:"bus_number,omitempty"`
	BusType       string             `json:"bus_type,omitempty"`
	OperatorName  string             `json:"operator_name,omitempty"`
	FromCity      string             `json:"from_city,omitempty"`
	ToCity        string             `json:"to_city,omitempty"`
	TravelDate    string             `json:"travel_date,omitempty"`
	DepartureTime string             `json:"departure_time,omitempty"`
	ArrivalTime   string             `json:"arrival_time,omitempty"`
	Passengers    []BookingPassenger `json:"passengers"`
}

// Cancellable reports whether the booking may still be cancelled.
func (b Booking) Cancellable() bool { return b.Status != StatusCancelled }

// SeatNumbers lists the seat labels of the booking in passenger order.
func (b Booking) SeatNumbers() []string {
	out := make([]string, 0, len(b.Passengers))
	for _, p := range b.Passengers {
		out = append(out, p.SeatNumber)
	}
	return out
}

// BookingList is the envelope of GET /bookings.
type BookingList struct {
	Bookings []Booking `json:"bookings"`
}
