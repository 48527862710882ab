package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/iliyamo/bus-booking-client/internal/admin"
	"github.com/iliyamo/bus-booking-client/internal/apiclient"
	"github.com/iliyamo/bus-booking-client/internal/booking"
	"github.com/iliyamo/bus-booking-client/internal/catalog"
	"github.com/iliyamo/bus-booking-client/internal/config"
	"github.com/iliyamo/bus-booking-client/internal/credstore"
	"github.com/iliyamo/bus-booking-client/internal/logging"
	"github.com/iliyamo/bus-booking-client/internal/model"
	"github.com/iliyamo/bus-booking-client/internal/notify"
	"github.com/iliyamo/bus-booking-client/internal/seatmap"
	"github.com/iliyamo/bus-booking-client/internal/session"
	"github.com/iliyamo/bus-booking-client/internal/tui"
	"github.com/iliyamo/bus-booking-client/internal/wallet"
)

// ErrAdminOnly gates the admin commands.
var ErrAdminOnly = errors.New("Admin access required")

// SeatPicker runs the interactive seat map.  It is a field so tests can
// replace the terminal program.
type SeatPicker func(ctx context.Context, sch model.Schedule, seats []model.Seat) (seatmap.BookingDraft, bool, error)

// App holds everything a command needs.  It is built once per process by
// Open and released with Close.
type App struct {
	Cfg  config.Config
	Log  *zap.Logger
	Out  io.Writer
	In   *bufio.Reader
	Pick SeatPicker

	api     *apiclient.Client
	session *session.Manager
	catalog *catalog.Service
	wallet  *wallet.Service
	admin   *admin.Client
	events  notify.Publisher

	closers []func() error
}

// Open builds the credential store selected by cfg.TokenStore and wires
// the API client, the session and the services on top of it.
func Open(ctx context.Context, cfg config.Config, log *zap.Logger, out io.Writer, in io.Reader) (*App, error) {
	log = logging.OrNop(log)
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	opts := []apiclient.Option{apiclient.WithTimeout(cfg.RequestTimeout), apiclient.WithLogger(log)}
	if cfg.RateLimit.Enabled {
		opts = append(opts, apiclient.WithRateLimit(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst))
	}
	api, err := apiclient.New(cfg.APIBaseURL, store, opts...)
	if err != nil {
		_ = closeStore()
		return nil, err
	}

	a := &App{
		Cfg:     cfg,
		Log:     log,
		Out:     out,
		In:      bufio.NewReader(in),
		Pick:    tui.PickSeats,
		api:     api,
		session: session.NewManager(api, log),
		catalog: catalog.New(api),
		wallet:  wallet.New(api),
		admin:   admin.NewClient(api),
		events:  notify.FromURL(cfg.AMQPURL, log),
		closers: []func() error{closeStore},
	}
	return a, nil
}

// Close releases the token store connection.
func (a *App) Close() error {
	var errs []error
	for _, fn := range a.closers {
		errs = append(errs, fn())
	}
	return errors.Join(errs...)
}

func openStore(ctx context.Context, cfg config.Config) (credstore.Store, func() error, error) {
	noop := func() error { return nil }
	switch cfg.TokenStore {
	case config.StoreMemory:
		return credstore.NewMemoryStore(), noop, nil
	case config.StoreRedis:
		rdb, err := config.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return credstore.NewRedisStore(rdb, cfg.Redis.Prefix), rdb.Close, nil
	default:
		return credstore.NewFileStore(cfg.TokenFile), noop, nil
	}
}

// user restores the stored session and returns the signed-in user.
func (a *App) user(ctx context.Context) (model.User, error) {
	if u, ok := a.session.User(); ok {
		return u, nil
	}
	a.session.Init(ctx)
	return a.session.RequireUser()
}

func (a *App) adminUser(ctx context.Context) (model.User, error) {
	u, err := a.user(ctx)
	if err != nil {
		return model.User{}, err
	}
	if !u.IsAdmin() {
		return model.User{}, ErrAdminOnly
	}
	return u, nil
}

func (a *App) bookings(u model.User) *booking.Service {
	return booking.NewService(a.api, a.events, a.Log).ForUser(u)
}

// confirm asks a yes/no question on In.  Anything but y or yes is no.
func (a *App) confirm(question string) bool {
	fmt.Fprintf(a.Out, "%s [y/N] ", question)
	line, _ := a.In.ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.Out, format, args...)
}

// Message renders err the way the screens show it.
func Message(err error) string {
	return apiclient.Message(err, "")
}
