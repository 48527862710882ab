package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/bus-booking-client/internal/admin"
	"github.com/iliyamo/bus-booking-client/internal/booking"
	"github.com/iliyamo/bus-booking-client/internal/config"
	"github.com/iliyamo/bus-booking-client/internal/credstore"
	"github.com/iliyamo/bus-booking-client/internal/devserver"
	"github.com/iliyamo/bus-booking-client/internal/model"
	"github.com/iliyamo/bus-booking-client/internal/repository"
	"github.com/iliyamo/bus-booking-client/internal/seatmap"
	"github.com/iliyamo/bus-booking-client/internal/session"
	"github.com/iliyamo/bus-booking-client/internal/wallet"
)

const travelDate = "2026-03-10"

func fixedNow() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local) }

type harness struct {
	t   *testing.T
	srv *devserver.Server
	url string
	app *App
	out *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	srv, err := devserver.New(config.StubConfig{
		Env:            "test",
		JWTSecret:      "cli-secret",
		AccessTTL:      time.Minute,
		RefreshTTLDays: 1,
		BcryptCost:     bcrypt.MinCost,
		SeedBalance:    5000,
	}, zap.NewNop(), devserver.WithClock(fixedNow))
	require.NoError(t, err)
	ts := newTestServer(t, srv)
	h := &harness{t: t, srv: srv, url: ts}
	h.reopen("")
	return h
}

func newTestServer(t *testing.T, srv *devserver.Server) string {
	t.Helper()
	ts := httptest.NewServer(srv.Echo)
	t.Cleanup(ts.Close)
	return ts.URL
}

// reopen starts a fresh process against the same backend with stdin set
// to input.
func (h *harness) reopen(input string) {
	h.t.Helper()
	h.out = &bytes.Buffer{}
	cfg := config.Config{
		APIBaseURL:     h.url,
		RequestTimeout: 5 * time.Second,
		TokenStore:     config.StoreMemory,
	}
	var store credstore.Store
	if h.app != nil {
		store = h.app.api.Store()
	}
	app, err := Open(context.Background(), cfg, zap.NewNop(), h.out, strings.NewReader(input))
	require.NoError(h.t, err)
	if store != nil {
		pair, err := credstore.LoadPair(context.Background(), store)
		require.NoError(h.t, err)
		if !pair.Empty() {
			require.NoError(h.t, credstore.SavePair(context.Background(), app.api.Store(), pair))
		}
	}
	h.app = app
}

func (h *harness) run(args ...string) error {
	h.t.Helper()
	h.out.Reset()
	return Root(h.app).Execute(context.Background(), args)
}

func (h *harness) login(email, password string) {
	h.t.Helper()
	require.NoError(h.t, h.run("login", "--email", email, "--password", password))
}

func (h *harness) scheduleID(from, to string) string {
	h.t.Helper()
	list, err := h.srv.Store.Search(from, to, travelDate)
	require.NoError(h.t, err)
	require.NotEmpty(h.t, list)
	return strconv.FormatUint(list[0].ID, 10)
}

func (h *harness) demoBookings() []model.Booking {
	h.t.Helper()
	u, err := h.srv.Store.UserByEmail(repository.DemoEmail)
	require.NoError(h.t, err)
	return h.srv.Store.Bookings(u.ID)
}

func TestLoginWhoamiLogout(t *testing.T) {
	h := newHarness(t)

	h.login(repository.DemoEmail, repository.DemoPassword)
	assert.Contains(t, h.out.String(), "Welcome back, Demo Rider")

	h.reopen("")
	require.NoError(t, h.run("whoami"))
	assert.Contains(t, h.out.String(), repository.DemoEmail)
	assert.Contains(t, h.out.String(), "role:  user")
	assert.Contains(t, h.out.String(), "access token expires")

	require.NoError(t, h.run("logout"))
	h.reopen("")
	assert.ErrorIs(t, h.run("whoami"), session.ErrLoginRequired)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	h := newHarness(t)
	err := h.run("login", "--email", repository.DemoEmail, "--password", "nope")
	require.Error(t, err)
	assert.Equal(t, "Invalid email or password", Message(err))

	assert.ErrorIs(t, h.run("login", "--email", repository.DemoEmail), session.ErrCredentialsRequired)
}

func TestRegister(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run("register", "--email", "asha@example.com", "--phone", "9876543210",
		"--password", "secret1", "--name", "Asha Rao"))
	assert.Contains(t, h.out.String(), "Account created for Asha Rao <asha@example.com>")

	assert.ErrorIs(t, h.run("register", "--email", "x@example.com"), session.ErrRegistrationIncomplete)
}

func TestCitiesAndSearch(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("cities", "--popular"))
	assert.Contains(t, h.out.String(), "Goa")
	assert.NotContains(t, h.out.String(), "Nashik")

	require.NoError(t, h.run("search", "--from", "Pune", "--to", "Goa", "--date", travelDate))
	assert.Contains(t, h.out.String(), "Neeta Travels")
	assert.Contains(t, h.out.String(), "21:30")
	assert.Contains(t, h.out.String(), "₹1200")

	err := h.run("search", "--from", "Pune", "--to", "pune", "--date", travelDate)
	assert.Error(t, err)

	err = h.run("search", "--from", "Goa", "--to", "Nashik", "--date", travelDate)
	require.Error(t, err)
	assert.Equal(t, "No route found from Goa to Nashik", Message(err))
}

func TestSeatsMapAndSelection(t *testing.T) {
	h := newHarness(t)
	id := h.scheduleID("Pune", "Goa")

	require.NoError(t, h.run("seats", id))
	out := h.out.String()
	assert.Contains(t, out, "Lower deck (15 seats)")
	assert.Contains(t, out, "Upper deck (15 seats)")
	assert.Contains(t, out, "L1  f")

	require.NoError(t, h.run("seats", id, "--select", "L2,l3"))
	assert.Contains(t, h.out.String(), "Selected: L2, L3  Total: ₹2400")

	assert.ErrorContains(t, h.run("seats", id, "--select", "Z9"), "Seat Z9 does not exist")
	assert.Error(t, h.run("seats"))
	assert.Error(t, h.run("seats", "abc"))
}

func TestSeatsPicker(t *testing.T) {
	h := newHarness(t)
	id := h.scheduleID("Pune", "Goa")
	h.app.Pick = func(_ context.Context, sch model.Schedule, seats []model.Seat) (seatmap.BookingDraft, bool, error) {
		sel, err := selectSeats(seats, []string{"L5"})
		require.NoError(t, err)
		return sel.Draft(sch.ID), true, nil
	}
	require.NoError(t, h.run("seats", id, "--pick"))
	assert.Contains(t, h.out.String(), "Selected L5 for ₹1200")
	assert.Contains(t, h.out.String(), "busctl book "+id+" --seats L5")
}

func TestBookWithFlagsAndCancel(t *testing.T) {
	h := newHarness(t)
	h.login(repository.DemoEmail, repository.DemoPassword)
	id := h.scheduleID("Pune", "Goa")

	require.NoError(t, h.run("book", id, "--seats", "L2,L3",
		"--passenger", "Asha, 29, female", "--passenger", "Ravi,31,male", "--yes"))
	out := h.out.String()
	assert.Contains(t, out, "Wallet balance: ₹5000.00")
	assert.Contains(t, out, "Booking confirmed!")
	assert.Contains(t, out, "seat L2   Asha, 29, female")
	assert.Contains(t, out, "Total: ₹2400 via wallet")

	require.NoError(t, h.run("wallet"))
	assert.Contains(t, h.out.String(), "Balance: ₹2600.00")
	assert.Contains(t, h.out.String(), "-2400")

	list := h.demoBookings()
	require.Len(t, list, 1)
	require.NoError(t, h.run("bookings"))
	assert.Contains(t, h.out.String(), list[0].Code)

	bid := strconv.FormatUint(list[0].ID, 10)
	require.NoError(t, h.run("cancel", bid, "--yes"))
	assert.Contains(t, h.out.String(), booking.CancelledMessage)

	require.NoError(t, h.run("wallet"))
	assert.Contains(t, h.out.String(), "Balance: ₹5000.00")

	assert.ErrorIs(t, h.run("cancel", bid, "--yes"), booking.ErrNotCancellable)
}

func TestBookPromptsForPassengersAndConfirmation(t *testing.T) {
	h := newHarness(t)
	h.login(repository.DemoEmail, repository.DemoPassword)
	id := h.scheduleID("Mumbai", "Pune")

	h.reopen("Meera\n42\n\ny\n")
	require.NoError(t, h.run("book", id, "--seats", "L6", "--pay", "UPI"))
	out := h.out.String()
	assert.Contains(t, out, "Passenger 1, seat L6")
	assert.Contains(t, out, "Book 1 seat(s) for ₹450? [y/N]")
	assert.Contains(t, out, "seat L6   Meera, 42, male")
	assert.Contains(t, out, "via upi")
	assert.NotContains(t, out, "Wallet balance")
}

func TestBookDeclined(t *testing.T) {
	h := newHarness(t)
	h.login(repository.DemoEmail, repository.DemoPassword)
	id := h.scheduleID("Mumbai", "Pune")

	h.reopen("n\n")
	require.NoError(t, h.run("book", id, "--seats", "L6", "--passenger", "Meera,42,female"))
	assert.Contains(t, h.out.String(), "Booking not made.")
	assert.Empty(t, h.demoBookings())
}

func TestBookValidation(t *testing.T) {
	h := newHarness(t)
	id := h.scheduleID("Pune", "Goa")

	assert.ErrorIs(t, h.run("book", id, "--seats", "L2"), session.ErrLoginRequired)

	h.login(repository.DemoEmail, repository.DemoPassword)
	assert.ErrorIs(t, h.run("book", id), seatmap.ErrNoSeatsSelected)
	assert.ErrorIs(t, h.run("book", id, "--seats", "L2", "--passenger", ",30,male", "--yes"), booking.ErrNameRequired)
	assert.ErrorIs(t, h.run("book", id, "--seats", "L2", "--passenger", "Asha,200,female", "--yes"), booking.ErrAgeRange)
	assert.ErrorIs(t, h.run("book", id, "--seats", "L2", "--passenger", "Asha,30,robot", "--yes"), booking.ErrBadGender)
	assert.ErrorIs(t, h.run("book", id, "--seats", "L2", "--pay", "cash", "--passenger", "Asha,30,female"), booking.ErrBadPaymentMethod)
	assert.Error(t, h.run("book", id, "--seats", "L2", "--passenger", "A,1,male", "--passenger", "B,2,male"))

	var insufficient *booking.InsufficientBalanceError
	err := h.run("book", id, "--seats", "L2,L3,L5,L6,L8", "--yes",
		"--passenger", "A,30,male", "--passenger", "B,30,male", "--passenger", "C,30,male",
		"--passenger", "D,30,male", "--passenger", "E,30,male")
	assert.ErrorAs(t, err, &insufficient)
	assert.Empty(t, h.demoBookings())
}

func TestBookSeatTakenShowsServerDetail(t *testing.T) {
	h := newHarness(t)
	h.login(repository.DemoEmail, repository.DemoPassword)
	id := h.scheduleID("Pune", "Goa")
	require.NoError(t, h.run("book", id, "--seats", "L2", "--passenger", "Asha,29,female", "--yes"))

	err := h.run("book", id, "--seats", "L2", "--passenger", "Ravi,31,male", "--yes")
	assert.ErrorContains(t, err, "not available")
}

func TestTopup(t *testing.T) {
	h := newHarness(t)
	h.login(repository.DemoEmail, repository.DemoPassword)

	require.NoError(t, h.run("topup", "500"))
	assert.Contains(t, h.out.String(), "Added ₹500. Balance: ₹5500.00")

	assert.ErrorIs(t, h.run("topup", "abc"), wallet.ErrInvalidAmount)
	assert.ErrorContains(t, h.run("topup"), "₹500, ₹1000, ₹2000, ₹5000")
}

func TestAdminCommands(t *testing.T) {
	h := newHarness(t)
	h.login(repository.AdminEmail, repository.AdminPassword)

	require.NoError(t, h.run("admin", "stats"))
	assert.Contains(t, h.out.String(), "Buses: 2")
	assert.Contains(t, h.out.String(), "Routes: 3")

	require.NoError(t, h.run("admin", "list", "buses"))
	assert.Contains(t, h.out.String(), "MH12AB1234")

	require.NoError(t, h.run("admin", "list", "operators"))
	assert.Contains(t, h.out.String(), "Neeta Travels")

	require.NoError(t, h.run("admin", "create", "city", "name=Nagpur", "state=Maharashtra", "code=NGP"))
	assert.Contains(t, h.out.String(), "City created")
	require.NoError(t, h.run("admin", "list", "cities"))
	assert.Contains(t, h.out.String(), "Nagpur")

	var fe *admin.FieldError
	assert.ErrorAs(t, h.run("admin", "create", "schedule", "bus_id=1"), &fe)
	assert.ErrorIs(t, h.run("admin", "update", "route", "1", "distance_km=5"), admin.ErrNotEditable)
	assert.Error(t, h.run("admin", "create", "spaceship"))
	assert.Error(t, h.run("admin", "create", "city", "name"))

	require.NoError(t, h.run("admin", "list", "bookings"))
	assert.Contains(t, h.out.String(), "No bookings yet.")
}

func TestAdminDeleteAsksFirst(t *testing.T) {
	h := newHarness(t)
	h.login(repository.AdminEmail, repository.AdminPassword)
	require.NoError(t, h.run("admin", "create", "bus", "operator_id=7", "bus_number=GA07XY0001",
		"bus_type=Non-AC Seater", "total_seats=36", "seat_layout=2+2", "amenities=Water Bottle"))
	buses := h.srv.Store.Buses(0, 100)
	busID := strconv.FormatUint(buses[len(buses)-1].ID, 10)

	h.reopen("n\n")
	require.NoError(t, h.run("admin", "delete", "bus", busID))
	assert.Len(t, h.srv.Store.Buses(0, 100), 3)

	require.NoError(t, h.run("admin", "delete", "bus", busID, "--yes"))
	assert.Contains(t, h.out.String(), "Bus deleted")
	assert.Len(t, h.srv.Store.Buses(0, 100), 2)
}

func TestAdminCancelBooking(t *testing.T) {
	h := newHarness(t)
	h.login(repository.DemoEmail, repository.DemoPassword)
	id := h.scheduleID("Pune", "Goa")
	require.NoError(t, h.run("book", id, "--seats", "L2", "--passenger", "Asha,29,female", "--yes"))
	bid := strconv.FormatUint(h.demoBookings()[0].ID, 10)

	assert.ErrorIs(t, h.run("admin", "stats"), ErrAdminOnly)

	h.login(repository.AdminEmail, repository.AdminPassword)
	require.NoError(t, h.run("admin", "cancel-booking", bid, "--yes"))
	assert.Equal(t, model.StatusCancelled, h.demoBookings()[0].Status)
}

func TestEventsTailNeedsBroker(t *testing.T) {
	h := newHarness(t)
	assert.ErrorIs(t, h.run("events", "tail"), ErrNoBroker)
}

func TestHelpAndUnknownCommands(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("--help"))
	assert.Contains(t, h.out.String(), "Commands:")
	assert.Contains(t, h.out.String(), "topup")

	require.NoError(t, h.run("book", "--help"))
	assert.Contains(t, h.out.String(), "--passenger")

	assert.ErrorContains(t, h.run("fly"), `unknown command "fly"`)
	assert.ErrorContains(t, h.run("admin"), "subcommand required")
	assert.ErrorContains(t, h.run("search", "--nope"), "unknown flag")
}

func TestOpenFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	store, closeFn, err := openStore(context.Background(), config.Config{TokenStore: config.StoreFile, TokenFile: path})
	require.NoError(t, err)
	defer closeFn()
	fs, ok := store.(*credstore.FileStore)
	require.True(t, ok)
	assert.Equal(t, path, fs.Path())
}

func TestParseFields(t *testing.T) {
	got, err := parseFields([]string{"name=Nagpur", "code = NGP", "name=Nashik", "amenities=WiFi,AC"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"name": "Nashik", "code": " NGP", "amenities": "WiFi,AC"}, got)

	_, err = parseFields([]string{"=x"})
	assert.Error(t, err)
}

func TestSelectSeats(t *testing.T) {
	seats := []model.Seat{
		{ID: 1, SeatNumber: "L1", Price: model.Rupees(500), IsAvailable: true},
		{ID: 2, SeatNumber: "L2", Price: model.Rupees(500)},
	}
	sel, err := selectSeats(seats, []string{"l1", "L1", " "})
	require.NoError(t, err)
	assert.Equal(t, 1, sel.Len())

	_, err = selectSeats(seats, []string{"L2"})
	assert.ErrorContains(t, err, "Seat L2 is not available")
}
