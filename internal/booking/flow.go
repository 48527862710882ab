package booking

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/bus-booking-client/internal/logging"
	"github.com/iliyamo/bus-booking-client/internal/model"
	"github.com/iliyamo/bus-booking-client/internal/notify"
	"github.com/iliyamo/bus-booking-client/internal/seatmap"
)

// FailureMessage is shown when a booking fails without a server detail.
const FailureMessage = "Please try again"

var (
	// ErrDraftConsumed is returned by Submit after the draft was booked.
	ErrDraftConsumed = errors.New("this booking has already been made; start a new selection")
	// ErrSubmitInProgress is returned by a Submit racing another one.
	ErrSubmitInProgress = errors.New("booking already in progress")
	// ErrDeclined is returned when the user says no at the confirm prompt.
	ErrDeclined = errors.New("booking not confirmed")
	// ErrBadPaymentMethod rejects methods other than wallet, card and upi.
	ErrBadPaymentMethod = errors.New("payment method must be wallet, card or upi")
)

// API is the slice of the api client the booking package needs.
type API interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
}

// State of one booking attempt.
type State int

const (
	Idle State = iota
	Validating
	Rejected
	Submitting
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Validating:
		return "validating"
	case Rejected:
		return "rejected"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "State(" + strconv.Itoa(int(s)) + ")"
	}
}

// Transition is reported to OnTransition hooks.  Err is set on entering
// Rejected or Failed.
type Transition struct {
	From, To State
	Err      error
}

// Summary is what the confirm prompt shows.
type Summary struct {
	Seats  int
	Total  model.Money
	Method model.PaymentMethod
}

// Prompt is the confirmation question.
func (s Summary) Prompt() string {
	return fmt.Sprintf("Book %d seat(s) for ₹%s?", s.Seats, s.Total)
}

// Confirmer asks the user to confirm.  Returning false cancels the attempt
// without a network call.
type Confirmer func(ctx context.Context, s Summary) (bool, error)

// Flow drives a single booking draft from the passenger form to a created
// booking.  Rejected and Failed attempts return to Idle with the form
// untouched so the user can fix it and retry.
type Flow struct {
	api     API
	form    *Form
	confirm Confirmer
	events  notify.Publisher
	log     *zap.Logger
	userID  uint64

	mu       sync.Mutex
	state    State
	method   model.PaymentMethod
	wallet   *model.Wallet
	schedule *model.Schedule
	hooks    []func(Transition)
}

// FlowOption customises a Flow.
type FlowOption func(*Flow)

func WithConfirmer(c Confirmer) FlowOption { return func(f *Flow) { f.confirm = c } }

func WithPublisher(p notify.Publisher) FlowOption {
	return func(f *Flow) {
		if p != nil {
			f.events = p
		}
	}
}

func WithLogger(l *zap.Logger) FlowOption { return func(f *Flow) { f.log = logging.OrNop(l) } }

// WithUser stamps published events with the booking user.
func WithUser(u model.User) FlowOption { return func(f *Flow) { f.userID = u.ID } }

// NewFlow starts a booking attempt for draft, paying by wallet unless told
// otherwise.
func NewFlow(api API, draft seatmap.BookingDraft, opts ...FlowOption) *Flow {
	f := &Flow{
		api:    api,
		form:   NewForm(draft),
		events: notify.Nop{},
		log:    zap.NewNop(),
		method: model.PayWallet,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Form is the passenger form of this attempt.
func (f *Flow) Form() *Form { return f.form }

// OnTransition registers fn for every state change.
func (f *Flow) OnTransition(fn func(Transition)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hooks = append(f.hooks, fn)
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Summary describes the pending booking.
func (f *Flow) Summary() Summary {
	f.mu.Lock()
	defer f.mu.Unlock()
	d := f.form.Draft()
	return Summary{Seats: d.Len(), Total: d.Total, Method: f.method}
}

func (f *Flow) SetPaymentMethod(m model.PaymentMethod) error {
	if !m.Valid() {
		return ErrBadPaymentMethod
	}
	f.mu.Lock()
	f.method = m
	f.mu.Unlock()
	return nil
}

// Wallet is the snapshot loaded by Prepare, or nil.
func (f *Flow) Wallet() *model.Wallet {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.wallet
}

// Schedule is the schedule detail loaded by Prepare, or nil.
func (f *Flow) Schedule() *model.Schedule {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.schedule
}

// SetWallet replaces the wallet snapshot.
func (f *Flow) SetWallet(w *model.Wallet) {
	f.mu.Lock()
	f.wallet = w
	f.mu.Unlock()
}

// Prepare loads the schedule detail and the wallet in parallel and waits
// for both.  A failed schedule load fails Prepare; a failed wallet load
// only leaves the wallet unset, which blocks wallet payment later.
func (f *Flow) Prepare(ctx context.Context) error {
	var (
		sch    model.Schedule
		wallet model.Wallet
		walErr error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		path := "/buses/" + strconv.FormatUint(f.form.Draft().ScheduleID, 10)
		return f.api.Get(gctx, path, nil, &sch)
	})
	g.Go(func() error {
		walErr = f.api.Get(gctx, "/wallet", nil, &wallet)
		return nil
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load booking details: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.schedule = &sch
	if walErr != nil {
		f.log.Info("wallet snapshot unavailable", zap.Error(walErr))
		f.wallet = nil
	} else {
		f.wallet = &wallet
	}
	return nil
}

// Submit runs one attempt: validate, preflight, confirm, then create the
// booking with a single round trip.
func (f *Flow) Submit(ctx context.Context) (model.Booking, error) {
	f.mu.Lock()
	switch f.state {
	case Succeeded:
		f.mu.Unlock()
		return model.Booking{}, ErrDraftConsumed
	case Idle:
	default:
		f.mu.Unlock()
		return model.Booking{}, ErrSubmitInProgress
	}
	method, wallet := f.method, f.wallet
	f.mu.Unlock()

	f.move(Validating, nil)
	if err := f.check(method, wallet); err != nil {
		return model.Booking{}, f.reject(err)
	}
	if f.confirm != nil {
		ok, err := f.confirm(ctx, f.Summary())
		if err != nil {
			return model.Booking{}, f.reject(err)
		}
		if !ok {
			return model.Booking{}, f.reject(ErrDeclined)
		}
	}

	f.move(Submitting, nil)
	req := model.BookingRequest{
		ScheduleID:    f.form.Draft().ScheduleID,
		Passengers:    f.form.Passengers(),
		PaymentMethod: method,
	}
	var created model.Booking
	if err := f.api.Post(ctx, "/bookings", req, &created); err != nil {
		f.log.Info("booking failed", zap.Uint64("schedule_id", req.ScheduleID), zap.Error(err))
		f.move(Failed, err)
		f.move(Idle, nil)
		return model.Booking{}, err
	}
	f.move(Succeeded, nil)
	f.log.Info("booking created", zap.String("code", created.Code), zap.Uint64("booking_id", created.ID))

	ev := notify.NewBookingEvent(notify.EventBookingCreated, created, f.userID)
	if len(ev.Seats) == 0 {
		ev.Seats = f.form.Draft().SeatNumbers
	}
	_ = f.events.Publish(context.WithoutCancel(ctx), ev)
	return created, nil
}

func (f *Flow) check(method model.PaymentMethod, wallet *model.Wallet) error {
	if f.form.Len() == 0 {
		return seatmap.ErrNoSeatsSelected
	}
	if err := f.form.Validate(); err != nil {
		return err
	}
	return CheckWallet(method, wallet, f.form.Draft().Total)
}

func (f *Flow) reject(err error) error {
	f.move(Rejected, err)
	f.move(Idle, nil)
	return err
}

func (f *Flow) move(to State, err error) {
	f.mu.Lock()
	t := Transition{From: f.state, To: to, Err: err}
	f.state = to
	hooks := append([]func(Transition){}, f.hooks...)
	f.mu.Unlock()
	for _, fn := range hooks {
		fn(t)
	}
}
