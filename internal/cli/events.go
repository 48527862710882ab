package cli

import (
	"context"
	"errors"

	"github.com/iliyamo/bus-booking-client/internal/notify"
)

// ErrNoBroker is returned by events commands when AMQP_URL is unset.
var ErrNoBroker = errors.New("AMQP_URL is not set; booking events are disabled")

func (a *App) eventsCmd() *Command {
	return &Command{
		Name:    "events",
		Summary: "Booking event stream",
		Subcommands: []*Command{{
			Name:    "tail",
			Summary: "Print booking events as they arrive",
			Run: func(ctx context.Context, _ []string) error {
				if a.Cfg.AMQPURL == "" {
					return ErrNoBroker
				}
				err := notify.Consume(ctx, a.Cfg.AMQPURL, a.Log, func(ev notify.BookingEvent) error {
					a.printf("%s\n", ev.Line())
					return nil
				})
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			},
		}},
	}
}
