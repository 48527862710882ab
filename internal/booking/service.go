package booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/iliyamo/bus-booking-client/internal/logging"
	"github.com/iliyamo/bus-booking-client/internal/model"
	"github.com/iliyamo/bus-booking-client/internal/notify"
)

// CancelledMessage is shown after a successful cancellation.
const CancelledMessage = "Booking cancelled. Amount refunded to wallet."

var (
	ErrCancelDeclined = errors.New("cancellation not confirmed")
	ErrNotCancellable = errors.New("booking is already cancelled")
)

// CancelConfirmer asks "Are you sure you want to cancel this booking?".
type CancelConfirmer func(b model.Booking) bool

// Service is the bookings list screen.
type Service struct {
	api    API
	events notify.Publisher
	log    *zap.Logger
	userID uint64
}

// NewService builds the service.  A nil publisher disables events.
func NewService(api API, events notify.Publisher, log *zap.Logger) *Service {
	if events == nil {
		events = notify.Nop{}
	}
	return &Service{api: api, events: events, log: logging.OrNop(log)}
}

// ForUser stamps published events with u.
func (s *Service) ForUser(u model.User) *Service {
	cp := *s
	cp.userID = u.ID
	return &cp
}

// List returns the user's bookings, newest first as the server sends them.
func (s *Service) List(ctx context.Context) ([]model.Booking, error) {
	var list model.BookingList
	if err := s.api.Get(ctx, "/bookings", nil, &list); err != nil {
		return nil, err
	}
	return list.Bookings, nil
}

// Find returns the booking with id from the list.
func (s *Service) Find(ctx context.Context, id uint64) (model.Booking, error) {
	list, err := s.List(ctx)
	if err != nil {
		return model.Booking{}, err
	}
	for _, b := range list {
		if b.ID == id {
			return b, nil
		}
	}
	return model.Booking{}, fmt.Errorf("booking %d not found", id)
}

// Cancel asks for confirmation, cancels b on the server and returns the
// reloaded list.  Nothing is changed locally when the server refuses.  Once
// the server accepts, the cancel is reported as done: a failed reload is
// logged and yields a nil list for the caller to fetch again.
func (s *Service) Cancel(ctx context.Context, b model.Booking, confirm CancelConfirmer) ([]model.Booking, error) {
	if !b.Cancellable() {
		return nil, ErrNotCancellable
	}
	if confirm != nil && !confirm(b) {
		return nil, ErrCancelDeclined
	}
	path := "/bookings/" + strconv.FormatUint(b.ID, 10) + "/cancel"
	if err := s.api.Put(ctx, path, nil, nil); err != nil {
		return nil, err
	}
	s.log.Info("booking cancelled", zap.Uint64("booking_id", b.ID), zap.String("code", b.Code))

	b.Status = model.StatusCancelled
	_ = s.events.Publish(context.WithoutCancel(ctx), notify.NewBookingEvent(notify.EventBookingCancelled, b, s.userID))
	list, err := s.List(ctx)
	if err != nil {
		s.log.Warn("reload after cancel failed", zap.Uint64("booking_id", b.ID), zap.Error(err))
		return nil, nil
	}
	return list, nil
}
