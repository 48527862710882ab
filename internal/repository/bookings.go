package repository

import (
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/iliyamo/bus-booking-client/internal/model"
)

// MaxSeatsPerBooking caps the passengers of one booking.
const MaxSeatsPerBooking = 6

type bookingRow struct {
	UserID uint64
	model.Booking
}

// CreateBooking reserves the requested seats for userID.  Seat checks,
// the wallet debit and the ledger entry happen under one lock so a seat is
// never sold twice.
func (s *Store) CreateBooking(userID uint64, req model.BookingRequest) (model.Booking, error) {
	switch n := len(req.Passengers); {
	case n == 0:
		return model.Booking{}, invalid("At least one passenger is required")
	case n > MaxSeatsPerBooking:
		return model.Booking{}, invalid("Maximum %d seats per booking", MaxSeatsPerBooking)
	}
	if !req.PaymentMethod.Valid() {
		return model.Booking{}, invalid("Invalid payment method '%s'", req.PaymentMethod)
	}
	for i, p := range req.Passengers {
		switch {
		case strings.TrimSpace(p.Name) == "":
			return model.Booking{}, invalid("Passenger %d: name is required", i+1)
		case p.Age < 1 || p.Age > 120:
			return model.Booking{}, invalid("Passenger %d: age must be between 1 and 120", i+1)
		case !p.Gender.Valid():
			return model.Booking{}, invalid("Passenger %d: invalid gender", i+1)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sc, ok := s.schedules[req.ScheduleID]
	if !ok {
		return model.Booking{}, notFound("Bus schedule not found")
	}
	if sc.Status != ScheduleScheduled {
		return model.Booking{}, conflict("Bus schedule is not open for booking")
	}

	seats := s.seats[sc.ID]
	picked := make([]int, 0, len(req.Passengers))
	var total model.Money
	for _, p := range req.Passengers {
		idx := slices.IndexFunc(seats, func(st model.Seat) bool { return st.ID == p.SeatID })
		if idx < 0 {
			return model.Booking{}, invalid("Seat %d does not belong to this bus", p.SeatID)
		}
		if slices.Contains(picked, idx) {
			return model.Booking{}, invalid("Seat %s is selected twice", seats[idx].SeatNumber)
		}
		if !seats[idx].IsAvailable {
			return model.Booking{}, conflict("Seat %s is already booked", seats[idx].SeatNumber)
		}
		picked = append(picked, idx)
		total += seats[idx].Price
	}

	id := s.nextID()
	code := "BK" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	if req.PaymentMethod == model.PayWallet {
		w := s.walletLocked(userID)
		if w.Balance < total {
			return model.Booking{}, ErrInsufficientBalance
		}
		s.postLocked(userID, model.TxDebit, total, "Booking "+code, &id)
	}

	b := model.Booking{
		ID:            id,
		Code:          code,
		TotalAmount:   total,
		Status:        model.StatusConfirmed,
		PaymentMethod: string(req.PaymentMethod),
		BookingSource: "mobile",
		BookedAt:      s.timestamp(),
		ScheduleID:    sc.ID,
		TravelDate:    sc.TravelDate,
		DepartureTime: sc.DepartureTime,
		ArrivalTime:   sc.ArrivalTime,
		Passengers:    make([]model.BookingPassenger, 0, len(picked)),
	}
	view := s.viewLocked(sc, false)
	b.BusNumber = view.Bus.BusNumber
	b.BusType = view.Bus.BusType
	b.OperatorName = view.Bus.Operator.Name
	b.FromCity = view.Route.FromCity.Name
	b.ToCity = view.Route.ToCity.Name

	for i, idx := range picked {
		seats[idx].IsAvailable = false
		p := req.Passengers[i]
		b.Passengers = append(b.Passengers, model.BookingPassenger{
			ID:         s.nextID(),
			SeatID:     p.SeatID,
			SeatNumber: seats[idx].SeatNumber,
			Name:       strings.TrimSpace(p.Name),
			Age:        p.Age,
			Gender:     string(p.Gender),
		})
	}
	s.bookings = append(s.bookings, &bookingRow{UserID: userID, Booking: b})
	return cloneBooking(b), nil
}

// Bookings lists userID's bookings, newest first.
func (s *Store) Bookings(userID uint64) []model.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.Booking{}
	for i := len(s.bookings) - 1; i >= 0; i-- {
		if s.bookings[i].UserID == userID {
			out = append(out, cloneBooking(s.bookings[i].Booking))
		}
	}
	return out
}

// AllBookings pages through every booking, newest first.
func (s *Store) AllBookings(skip, limit int) []model.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]model.Booking, 0, len(s.bookings))
	for i := len(s.bookings) - 1; i >= 0; i-- {
		all = append(all, cloneBooking(s.bookings[i].Booking))
	}
	return page(all, skip, limit)
}

// Booking returns one booking.  Non-admin callers only see their own.
func (s *Store) Booking(userID, id uint64, asAdmin bool) (model.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, err := s.bookingLocked(userID, id, asAdmin)
	if err != nil {
		return model.Booking{}, err
	}
	return cloneBooking(row.Booking), nil
}

func (s *Store) bookingLocked(userID, id uint64, asAdmin bool) (*bookingRow, error) {
	for _, row := range s.bookings {
		if row.ID == id && (asAdmin || row.UserID == userID) {
			return row, nil
		}
	}
	return nil, notFound("Booking not found")
}

// CancelBooking cancels a booking, frees its seats and refunds the total to
// the owner's wallet.
func (s *Store) CancelBooking(userID, id uint64, asAdmin bool) (model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, err := s.bookingLocked(userID, id, asAdmin)
	if err != nil {
		return model.Booking{}, err
	}
	if row.Status == model.StatusCancelled {
		return model.Booking{}, conflict("Booking is already cancelled")
	}

	now := s.timestamp()
	row.Status = model.StatusCancelled
	row.CancelledAt = &now
	seats := s.seats[row.ScheduleID]
	for _, p := range row.Passengers {
		if i := slices.IndexFunc(seats, func(st model.Seat) bool { return st.ID == p.SeatID }); i >= 0 {
			seats[i].IsAvailable = true
		}
	}
	ref := row.ID
	s.postLocked(row.UserID, model.TxCredit, row.TotalAmount, "Refund for booking "+row.Code, &ref)
	return cloneBooking(row.Booking), nil
}

func cloneBooking(b model.Booking) model.Booking {
	b.Passengers = slices.Clone(b.Passengers)
	return b
}
