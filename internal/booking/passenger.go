// Package booking turns a seat draft into a booking: the passenger form and
// its validation, the wallet preflight, the submission state machine, and
// the bookings list with cancellation.
package booking

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/bus-booking-client/internal/model"
	"github.com/iliyamo/bus-booking-client/internal/seatmap"
)

// Passenger validation messages, shown as-is.
var (
	ErrNameRequired = errors.New("Please enter all passenger names")
	ErrAgeRange     = errors.New("Please enter valid ages for all passengers")
	ErrBadGender    = errors.New("gender must be male, female or other")
	ErrNoPassenger  = errors.New("no passenger at that position")
)

// MinAge and MaxAge bound a passenger's age, inclusive.
const (
	MinAge = 1
	MaxAge = 120
)

// passengerRules mirrors model.Passenger with the validation tags.  Name is
// checked before age.
type passengerRules struct {
	Name string `validate:"required"`
	Age  int    `validate:"min=1,max=120"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// PassengerError reports the first invalid passenger.
type PassengerError struct {
	Index int
	Field string
	Err   error
}

func (e *PassengerError) Error() string { return e.Err.Error() }
func (e *PassengerError) Unwrap() error { return e.Err }

// ValidatePassengers checks every passenger in order and returns the first
// violation; for one passenger a blank name is reported before a bad age.
// An empty list is valid.
func ValidatePassengers(list []model.Passenger) error {
	for i, p := range list {
		rules := passengerRules{Name: strings.TrimSpace(p.Name), Age: p.Age}
		err := validate.Struct(rules)
		if err == nil {
			continue
		}
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) || len(verrs) == 0 {
			return fmt.Errorf("validate passenger %d: %w", i+1, err)
		}
		// ValidationErrors follow struct field order.
		switch verrs[0].Field() {
		case "Name":
			return &PassengerError{Index: i, Field: "name", Err: ErrNameRequired}
		default:
			return &PassengerError{Index: i, Field: "age", Err: ErrAgeRange}
		}
	}
	return nil
}

// Form is the passenger form bound one-to-one to the draft's seats.
type Form struct {
	draft      seatmap.BookingDraft
	passengers []model.Passenger
}

// NewForm creates one passenger per seat in draft order with an empty
// name, age 0 and gender male.
func NewForm(draft seatmap.BookingDraft) *Form {
	ps := make([]model.Passenger, len(draft.SeatIDs))
	for i, id := range draft.SeatIDs {
		ps[i] = model.Passenger{SeatID: id, Gender: model.GenderMale}
	}
	return &Form{draft: draft, passengers: ps}
}

// Draft returns the seat draft behind the form.
func (f *Form) Draft() seatmap.BookingDraft { return f.draft }

// Len is the number of passengers.
func (f *Form) Len() int { return len(f.passengers) }

// Passengers returns a copy of the form state.
func (f *Form) Passengers() []model.Passenger {
	out := make([]model.Passenger, len(f.passengers))
	copy(out, f.passengers)
	return out
}

// SeatNumber is the seat label of passenger i.
func (f *Form) SeatNumber(i int) string {
	if i < 0 || i >= len(f.draft.SeatNumbers) {
		return ""
	}
	return f.draft.SeatNumbers[i]
}

func (f *Form) at(i int) (*model.Passenger, error) {
	if i < 0 || i >= len(f.passengers) {
		return nil, fmt.Errorf("%w: %d", ErrNoPassenger, i)
	}
	return &f.passengers[i], nil
}

func (f *Form) SetName(i int, name string) error {
	p, err := f.at(i)
	if err != nil {
		return err
	}
	p.Name = name
	return nil
}

func (f *Form) SetAge(i, age int) error {
	p, err := f.at(i)
	if err != nil {
		return err
	}
	p.Age = age
	return nil
}

// SetAgeText sets the age from form text; anything that is not a whole
// number becomes 0 and fails validation later.
func (f *Form) SetAgeText(i int, text string) error {
	age, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		age = 0
	}
	return f.SetAge(i, age)
}

func (f *Form) SetGender(i int, g model.Gender) error {
	p, err := f.at(i)
	if err != nil {
		return err
	}
	g = model.Gender(strings.ToLower(strings.TrimSpace(string(g))))
	if !g.Valid() {
		return ErrBadGender
	}
	p.Gender = g
	return nil
}

// Validate runs ValidatePassengers over the form.
func (f *Form) Validate() error { return ValidatePassengers(f.passengers) }
