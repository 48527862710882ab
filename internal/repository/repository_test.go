package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/bus-booking-client/internal/model"
)

var fixedNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func newSeeded(t *testing.T) *Store {
	t.Helper()
	s, err := New(Options{
		BcryptCost:  bcrypt.MinCost,
		SeedBalance: model.Rupees(5000),
		Now:         func() time.Time { return fixedNow },
		Seed:        true,
	})
	require.NoError(t, err)
	return s
}

func demoUser(t *testing.T, s *Store) User {
	t.Helper()
	u, err := s.UserByEmail(DemoEmail)
	require.NoError(t, err)
	return u
}

func puneGoa(t *testing.T, s *Store) model.Schedule {
	t.Helper()
	list, err := s.Search("pune", "GOA", "2026-03-10")
	require.NoError(t, err)
	require.Len(t, list, 1)
	return list[0]
}

func TestSeedSearch(t *testing.T) {
	s := newSeeded(t)
	sc := puneGoa(t, s)
	assert.Equal(t, 30, sc.AvailableSeats)
	assert.Equal(t, "Neeta Travels", sc.Bus.Operator.Name)
	assert.Equal(t, "Pune", sc.Route.FromCity.Name)
	assert.Empty(t, sc.Seats)

	last, err := s.Search("Pune", "Goa", fixedNow.AddDate(0, 0, SeedDays-1).Format(time.DateOnly))
	require.NoError(t, err)
	assert.Len(t, last, 1)

	none, err := s.Search("Pune", "Goa", "2027-01-01")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSearchErrors(t *testing.T) {
	s := newSeeded(t)

	_, err := s.Search("Atlantis", "Goa", "2026-03-10")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, err, "City 'Atlantis' not found")

	_, err = s.Search("Goa", "Nashik", "2026-03-10")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, err, "No route found from Goa to Nashik")

	_, err = s.Search("Pune", "Goa", "10/03/2026")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestSleeperLayout(t *testing.T) {
	s := newSeeded(t)
	seats, err := s.Seats(puneGoa(t, s).ID)
	require.NoError(t, err)
	require.Len(t, seats, 30)

	var lower, upper, ladies int
	for _, st := range seats {
		switch st.Deck {
		case model.DeckLower:
			lower++
		case model.DeckUpper:
			upper++
		}
		if st.IsLadiesOnly {
			ladies++
		}
	}
	assert.Equal(t, 15, lower)
	assert.Equal(t, 15, upper)
	assert.Equal(t, 2, ladies)
	assert.Equal(t, "L1", seats[0].SeatNumber)
	assert.Equal(t, model.SideLeft, seats[0].Side)
	assert.Equal(t, "U1", seats[15].SeatNumber)

	_, err = s.Seats(999999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func bookReq(scheduleID uint64, seats ...model.Seat) model.BookingRequest {
	req := model.BookingRequest{ScheduleID: scheduleID, PaymentMethod: model.PayWallet}
	for _, st := range seats {
		req.Passengers = append(req.Passengers, model.Passenger{SeatID: st.ID, Name: "Asha", Age: 30, Gender: model.GenderFemale})
	}
	return req
}

func TestBookingDebitsWalletAndHoldsSeats(t *testing.T) {
	s := newSeeded(t)
	u := demoUser(t, s)
	sc := puneGoa(t, s)
	seats, _ := s.Seats(sc.ID)

	b, err := s.CreateBooking(u.ID, bookReq(sc.ID, seats[1], seats[2]))
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, b.Status)
	assert.Equal(t, model.Rupees(2400), b.TotalAmount)
	assert.Equal(t, []string{"L2", "L3"}, b.SeatNumbers())
	assert.Regexp(t, `^BK[0-9A-F]{8}$`, b.Code)
	assert.Equal(t, "Pune", b.FromCity)

	assert.Equal(t, model.Rupees(2600), s.Wallet(u.ID).Balance)
	txs := s.Transactions(u.ID)
	require.NotEmpty(t, txs)
	assert.Equal(t, model.TxDebit, txs[0].Type)
	require.NotNil(t, txs[0].ReferenceID)
	assert.Equal(t, b.ID, *txs[0].ReferenceID)

	assert.Equal(t, 28, puneGoa(t, s).AvailableSeats)

	_, err = s.CreateBooking(u.ID, bookReq(sc.ID, seats[2]))
	assert.ErrorIs(t, err, ErrConflict)
	assert.EqualError(t, err, "Seat L3 is already booked")
}

func TestBookingValidation(t *testing.T) {
	s := newSeeded(t)
	u := demoUser(t, s)
	sc := puneGoa(t, s)
	seats, _ := s.Seats(sc.ID)

	_, err := s.CreateBooking(u.ID, bookReq(sc.ID))
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = s.CreateBooking(u.ID, bookReq(sc.ID, seats[:7]...))
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = s.CreateBooking(u.ID, bookReq(sc.ID, seats[3], seats[3]))
	assert.ErrorIs(t, err, ErrInvalid)

	req := bookReq(sc.ID, seats[3])
	req.Passengers[0].Age = 0
	_, err = s.CreateBooking(u.ID, req)
	assert.ErrorIs(t, err, ErrInvalid)

	req = bookReq(sc.ID, seats[3])
	req.PaymentMethod = "cash"
	_, err = s.CreateBooking(u.ID, req)
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = s.CreateBooking(u.ID, bookReq(424242, seats[3]))
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, 30, puneGoa(t, s).AvailableSeats)
}

func TestBookingInsufficientBalance(t *testing.T) {
	s := newSeeded(t)
	u := demoUser(t, s)
	sc := puneGoa(t, s)
	seats, _ := s.Seats(sc.ID)

	_, err := s.CreateBooking(u.ID, bookReq(sc.ID, seats[1:6]...))
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Equal(t, model.Rupees(5000), s.Wallet(u.ID).Balance)
	assert.Equal(t, 30, puneGoa(t, s).AvailableSeats)

	req := bookReq(sc.ID, seats[1:6]...)
	req.PaymentMethod = model.PayCard
	_, err = s.CreateBooking(u.ID, req)
	require.NoError(t, err)
	assert.Equal(t, model.Rupees(5000), s.Wallet(u.ID).Balance)
}

func TestCancelRefundsAndFreesSeats(t *testing.T) {
	s := newSeeded(t)
	u := demoUser(t, s)
	admin, err := s.UserByEmail(AdminEmail)
	require.NoError(t, err)
	sc := puneGoa(t, s)
	seats, _ := s.Seats(sc.ID)

	b, err := s.CreateBooking(u.ID, bookReq(sc.ID, seats[4]))
	require.NoError(t, err)

	_, err = s.CancelBooking(admin.ID, b.ID, false)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := s.CancelBooking(u.ID, b.ID, false)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, got.Status)
	require.NotNil(t, got.CancelledAt)
	assert.Equal(t, model.Rupees(5000), s.Wallet(u.ID).Balance)
	assert.Equal(t, 30, puneGoa(t, s).AvailableSeats)

	_, err = s.CancelBooking(admin.ID, b.ID, true)
	assert.ErrorIs(t, err, ErrConflict)

	list := s.Bookings(u.ID)
	require.Len(t, list, 1)
	assert.Equal(t, model.StatusCancelled, list[0].Status)
	assert.Empty(t, s.Bookings(admin.ID))
	assert.Len(t, s.AllBookings(0, 10), 1)
}

func TestAddMoney(t *testing.T) {
	s := newSeeded(t)
	u := demoUser(t, s)

	w, err := s.AddMoney(u.ID, model.Rupees(500))
	require.NoError(t, err)
	assert.Equal(t, model.Rupees(5500), w.Balance)
	assert.Equal(t, "Wallet top-up", s.Transactions(u.ID)[0].Description)

	_, err = s.AddMoney(u.ID, 0)
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = s.AddMoney(u.ID, MaxTopUp+1)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestUsersAndRefreshTokens(t *testing.T) {
	s := newSeeded(t)

	u, err := s.CreateUser("New@Example.com", "900", "New Rider", "pw123456", "")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", u.Email)
	assert.Equal(t, "user", u.Role)
	assert.Equal(t, model.Money(0), s.Wallet(u.ID).Balance)

	_, err = s.CreateUser("new@example.com", "", "", "x", "")
	assert.ErrorIs(t, err, ErrEmailExists)

	exp := fixedNow.Add(time.Hour)
	s.StoreRefresh(u.ID, "h1", exp)
	id, err := s.ValidateRefresh("h1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)

	id, err = s.RotateRefresh("h1", "h2", exp)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)
	_, err = s.RotateRefresh("h1", "h3", exp)
	assert.ErrorIs(t, err, ErrInvalidRefresh)

	s.RevokeAllForUser(u.ID)
	_, err = s.ValidateRefresh("h2")
	assert.ErrorIs(t, err, ErrInvalidRefresh)

	s.StoreRefresh(u.ID, "old", fixedNow.Add(-time.Minute))
	_, err = s.ValidateRefresh("old")
	assert.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestAdminCatalog(t *testing.T) {
	s := newSeeded(t)
	ops := s.Operators()
	require.Len(t, ops, 2)

	bus, err := s.CreateBus(Bus{OperatorID: ops[0].ID, BusNumber: "GA07XY0001", BusType: "Non-AC Seater", TotalSeats: 10, SeatLayout: "2+2"})
	require.NoError(t, err)
	_, err = s.CreateBus(Bus{OperatorID: ops[0].ID, BusNumber: "ga07xy0001", BusType: "x", TotalSeats: 10})
	assert.ErrorIs(t, err, ErrConflict)

	pune, _ := s.cityByName("Pune")
	nashik, _ := s.cityByName("Nashik")
	route, err := s.CreateRoute(Route{FromCityID: pune.ID, ToCityID: nashik.ID, DistanceKM: 210, DurationMinutes: 270})
	require.NoError(t, err)
	_, err = s.CreateRoute(Route{FromCityID: pune.ID, ToCityID: pune.ID, DistanceKM: 1, DurationMinutes: 1})
	assert.ErrorIs(t, err, ErrInvalid)

	sc, err := s.CreateSchedule(Schedule{BusID: bus.ID, RouteID: route.ID, TravelDate: "2026-03-12", DepartureTime: "08:00:00", BasePrice: model.Rupees(350)})
	require.NoError(t, err)
	assert.Equal(t, "12:30:00", sc.ArrivalTime)
	assert.Equal(t, ScheduleScheduled, sc.Status)

	found, err := s.Search("Pune", "Nashik", "2026-03-12")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, 10, found[0].AvailableSeats)

	assert.ErrorIs(t, s.DeleteBus(bus.ID), ErrConflict)
	assert.ErrorIs(t, s.DeleteRoute(route.ID), ErrConflict)
	require.NoError(t, s.DeleteSchedule(sc.ID))
	require.NoError(t, s.DeleteRoute(route.ID))
	require.NoError(t, s.DeleteBus(bus.ID))

	_, err = s.CreateCity(model.City{Name: "pune", State: "MH", Code: "pnq"})
	assert.ErrorIs(t, err, ErrConflict)
	c, err := s.CreateCity(model.City{Name: "Surat", State: "Gujarat", Code: "stv"})
	require.NoError(t, err)
	assert.Equal(t, "STV", c.Code)

	st := s.Stats()
	assert.Equal(t, 2, st.Users)
	assert.Equal(t, 2, st.Buses)
	assert.Equal(t, 3, st.Routes)
}

func TestCitiesFilter(t *testing.T) {
	s := newSeeded(t)
	assert.Len(t, s.Cities(CityFilter{}), 6)
	assert.Len(t, s.Cities(CityFilter{PopularOnly: true}), 4)
	got := s.Cities(CityFilter{Search: "an"})
	names := make([]string, 0, len(got))
	for _, c := range got {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Bangalore"}, names)
}

func TestPage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{2, 3}, page(items, 1, 2))
	assert.Equal(t, []int{4, 5}, page(items, 3, 0))
	assert.Equal(t, []int{}, page(items, 9, 2))
	assert.Equal(t, []int{1}, page(items, -1, 1))
}
