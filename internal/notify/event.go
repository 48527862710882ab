// Package notify carries booking events to the push-notification side over
// RabbitMQ.  The client publishes after a booking is created or cancelled;
// `busctl events tail` consumes the same queue.
package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/bus-booking-client/internal/model"
)

// QueueName is the durable queue booking events are routed to.
const QueueName = "booking.events"

// Event types.
const (
	EventBookingCreated   = "booking.created"
	EventBookingCancelled = "booking.cancelled"
)

// BookingEvent is the message body.  It carries enough for a notifier to
// word a message without calling the API.
type BookingEvent struct {
	Type        string      `json:"type"`
	BookingID   uint64      `json:"booking_id"`
	BookingCode string      `json:"booking_code"`
	UserID      uint64      `json:"user_id"`
	ScheduleID  uint64      `json:"schedule_id"`
	Amount      model.Money `json:"amount"`
	Seats       []string    `json:"seats"`
	OccurredAt  time.Time   `json:"occurred_at"`
}

// NewBookingEvent builds an event of type typ from a booking.
func NewBookingEvent(typ string, b model.Booking, userID uint64) BookingEvent {
	return BookingEvent{
		Type:        typ,
		BookingID:   b.ID,
		BookingCode: b.Code,
		UserID:      userID,
		ScheduleID:  b.ScheduleID,
		Amount:      b.TotalAmount,
		Seats:       b.SeatNumbers(),
		OccurredAt:  time.Now().UTC(),
	}
}

// Line renders the event on one line for terminals and log files.
func (e BookingEvent) Line() string {
	seats := "[]"
	if len(e.Seats) > 0 {
		seats = "[" + strings.Join(e.Seats, ",") + "]"
	}
	return fmt.Sprintf("[%s] %s | booking_id=%d | code=%s | user_id=%d | schedule_id=%d | amount=%s | seats=%s",
		e.OccurredAt.Format(time.RFC3339), e.Type, e.BookingID, e.BookingCode, e.UserID, e.ScheduleID, e.Amount, seats)
}
