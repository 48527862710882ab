package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/iliyamo/bus-booking-client/internal/booking"
	"github.com/iliyamo/bus-booking-client/internal/model"
	"github.com/iliyamo/bus-booking-client/internal/seatmap"
)

func (a *App) bookCmd() *Command {
	var (
		seats      []string
		passengers []string
		method     string
		pick, yes  bool
	)
	return &Command{
		Name:    "book",
		Summary: "Book seats on a schedule",
		Usage:   `busctl book <schedule-id> --seats L1,L2 --passenger "Asha,29,female" ... [--pay wallet|card|upi] [--yes]`,
		Flags: func() *pflag.FlagSet {
			fs := newFlags("book")
			fs.StringSliceVar(&seats, "seats", nil, "seat numbers to book")
			fs.BoolVar(&pick, "pick", false, "pick seats interactively")
			fs.StringArrayVar(&passengers, "passenger", nil, `passenger as "name,age,gender", once per seat in order`)
			fs.StringVar(&method, "pay", string(model.PayWallet), "payment method: wallet, card or upi")
			fs.BoolVarP(&yes, "yes", "y", false, "book without asking for confirmation")
			return fs
		},
		Run: func(ctx context.Context, args []string) error {
			u, err := a.user(ctx)
			if err != nil {
				return err
			}
			id, err := scheduleArg(args)
			if err != nil {
				return err
			}
			sch, err := a.catalog.Load(ctx, id)
			if err != nil {
				return err
			}
			draft, ok, err := a.draft(ctx, sch, seats, pick)
			if err != nil || !ok {
				return err
			}

			flow := booking.NewFlow(a.api, draft,
				booking.WithUser(u),
				booking.WithPublisher(a.events),
				booking.WithLogger(a.Log),
				booking.WithConfirmer(func(_ context.Context, s booking.Summary) (bool, error) {
					return yes || a.confirm(s.Prompt()), nil
				}),
			)
			if err := flow.SetPaymentMethod(model.PaymentMethod(strings.ToLower(method))); err != nil {
				return err
			}
			if err := a.fillPassengers(flow.Form(), passengers); err != nil {
				return err
			}
			if err := flow.Prepare(ctx); err != nil {
				return err
			}
			if w := flow.Wallet(); w != nil && flow.Summary().Method == model.PayWallet {
				a.printf("Wallet balance: ₹%s\n", w.Balance.Format(2))
			}

			b, err := flow.Submit(ctx)
			if err != nil {
				if errors.Is(err, booking.ErrDeclined) {
					a.printf("Booking not made.\n")
					return nil
				}
				return err
			}
			a.printf("Booking confirmed!\n")
			printBooking(a.Out, b)
			return nil
		},
	}
}

// draft turns the seat flags, or the interactive picker, into a booking
// draft.  ok is false when the picker was closed without proceeding.
func (a *App) draft(ctx context.Context, sch model.Schedule, seats []string, pick bool) (seatmap.BookingDraft, bool, error) {
	if pick {
		return a.Pick(ctx, sch, sch.Seats)
	}
	sel, err := selectSeats(sch.Seats, seats)
	if err != nil {
		return seatmap.BookingDraft{}, false, err
	}
	d, err := sel.Proceed(sch.ID)
	return d, err == nil, err
}

// fillPassengers copies the --passenger values into the form and prompts
// on In for any seat left without one.
func (a *App) fillPassengers(form *booking.Form, given []string) error {
	if len(given) > form.Len() {
		return fmt.Errorf("%d passengers given for %d seats", len(given), form.Len())
	}
	for i := range form.Len() {
		var name, age, gender string
		if i < len(given) {
			name, age, gender = splitPassenger(given[i])
		} else {
			a.printf("Passenger %d, seat %s\n", i+1, form.SeatNumber(i))
			name = a.ask("  name: ")
			age = a.ask("  age: ")
			gender = a.ask("  gender [male]: ")
		}
		if err := form.SetName(i, name); err != nil {
			return err
		}
		if err := form.SetAgeText(i, age); err != nil {
			return err
		}
		if gender == "" {
			gender = string(model.GenderMale)
		}
		if err := form.SetGender(i, model.Gender(gender)); err != nil {
			return err
		}
	}
	return nil
}

func splitPassenger(s string) (name, age, gender string) {
	parts := strings.SplitN(s, ",", 3)
	for len(parts) < 3 {
		parts = append(parts, "")
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), strings.TrimSpace(parts[2])
}

func (a *App) ask(prompt string) string {
	a.printf("%s", prompt)
	line, _ := a.In.ReadString('\n')
	return strings.TrimSpace(line)
}

func (a *App) bookingsCmd() *Command {
	return &Command{
		Name:    "bookings",
		Summary: "List your bookings, newest first",
		Run: func(ctx context.Context, _ []string) error {
			u, err := a.user(ctx)
			if err != nil {
				return err
			}
			list, err := a.bookings(u).List(ctx)
			if err != nil {
				return err
			}
			printBookings(a.Out, list)
			return nil
		},
	}
}

func (a *App) cancelCmd() *Command {
	var yes bool
	return &Command{
		Name:    "cancel",
		Summary: "Cancel a booking and refund it to the wallet",
		Usage:   "busctl cancel <booking-id> [--yes]",
		Flags: func() *pflag.FlagSet {
			fs := newFlags("cancel")
			fs.BoolVarP(&yes, "yes", "y", false, "cancel without asking for confirmation")
			return fs
		},
		Run: func(ctx context.Context, args []string) error {
			u, err := a.user(ctx)
			if err != nil {
				return err
			}
			if len(args) != 1 {
				return errors.New("exactly one booking id is required")
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			svc := a.bookings(u)
			b, err := svc.Find(ctx, id)
			if err != nil {
				return err
			}
			_, err = svc.Cancel(ctx, b, func(model.Booking) bool {
				return yes || a.confirm("Are you sure you want to cancel this booking?")
			})
			if errors.Is(err, booking.ErrCancelDeclined) {
				a.printf("Booking kept.\n")
				return nil
			}
			if err != nil {
				return err
			}
			a.printf("%s\n", booking.CancelledMessage)
			return nil
		},
	}
}
