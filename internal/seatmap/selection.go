// Package seatmap is the client-side seat model: multi-select with a fixed
// maximum, price aggregation, the booking draft handed to the next step,
// and the deck/row/side grouping used to draw the bus.
package seatmap

import (
	"errors"

	"github.com/iliyamo/bus-booking-client/internal/model"
)

// MaxSeats is the most seats one booking may hold.
const MaxSeats = 6

var (
	// ErrLimitReached is returned by Toggle when adding would exceed
	// MaxSeats.
	ErrLimitReached = errors.New("You can select maximum 6 seats")
	// ErrNoSeatsSelected gates continuing to the booking step.
	ErrNoSeatsSelected = errors.New("Please select at least one seat")
)

// Change is the outcome of a Toggle.
type Change int

const (
	Ignored Change = iota
	Added
	Removed
)

func (c Change) String() string {
	switch c {
	case Added:
		return "added"
	case Removed:
		return "removed"
	default:
		return "ignored"
	}
}

// Selection is an ordered set of seats, unique by ID.  The zero value is an
// empty selection ready to use.  It is owned by one screen and not safe for
// concurrent use.
type Selection struct {
	seats []model.Seat
}

// Toggle adds or removes seat.  Unavailable seats are never added or
// removed.  A seventh seat is refused with ErrLimitReached and leaves the
// selection unchanged.
func (s *Selection) Toggle(seat model.Seat) (Change, error) {
	if !seat.IsAvailable {
		return Ignored, nil
	}
	if i := s.index(seat.ID); i >= 0 {
		s.seats = append(s.seats[:i:i], s.seats[i+1:]...)
		return Removed, nil
	}
	if len(s.seats) >= MaxSeats {
		return Ignored, ErrLimitReached
	}
	s.seats = append(s.seats, seat)
	return Added, nil
}

// Total sums the prices of the selected seats.
func (s *Selection) Total() model.Money {
	var total model.Money
	for _, seat := range s.seats {
		total += seat.Price
	}
	return total
}

// Contains reports whether the seat with id is selected.
func (s *Selection) Contains(id uint64) bool { return s.index(id) >= 0 }

// Len is the number of selected seats.
func (s *Selection) Len() int { return len(s.seats) }

// Seats returns a copy of the selection in insertion order.
func (s *Selection) Seats() []model.Seat {
	out := make([]model.Seat, len(s.seats))
	copy(out, s.seats)
	return out
}

// Reset discards the selection.
func (s *Selection) Reset() { s.seats = nil }

func (s *Selection) index(id uint64) int {
	for i, seat := range s.seats {
		if seat.ID == id {
			return i
		}
	}
	return -1
}

// BookingDraft is what the seat map hands to the booking step.
type BookingDraft struct {
	ScheduleID  uint64
	SeatIDs     []uint64
	SeatNumbers []string
	Total       model.Money
}

// Len is the number of seats in the draft.
func (d BookingDraft) Len() int { return len(d.SeatIDs) }

// Draft builds the booking draft for scheduleID in selection order.
func (s *Selection) Draft(scheduleID uint64) BookingDraft {
	d := BookingDraft{
		ScheduleID:  scheduleID,
		SeatIDs:     make([]uint64, 0, len(s.seats)),
		SeatNumbers: make([]string, 0, len(s.seats)),
		Total:       s.Total(),
	}
	for _, seat := range s.seats {
		d.SeatIDs = append(d.SeatIDs, seat.ID)
		d.SeatNumbers = append(d.SeatNumbers, seat.SeatNumber)
	}
	return d
}

// Proceed returns the draft, or ErrNoSeatsSelected for an empty selection.
func (s *Selection) Proceed(scheduleID uint64) (BookingDraft, error) {
	if len(s.seats) == 0 {
		return BookingDraft{}, ErrNoSeatsSelected
	}
	return s.Draft(scheduleID), nil
}
