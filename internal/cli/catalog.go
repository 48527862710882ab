package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/iliyamo/bus-booking-client/internal/catalog"
	"github.com/iliyamo/bus-booking-client/internal/model"
	"github.com/iliyamo/bus-booking-client/internal/seatmap"
)

func (a *App) citiesCmd() *Command {
	var f catalog.CityFilter
	return &Command{
		Name:    "cities",
		Summary: "List boarding and destination cities",
		Flags: func() *pflag.FlagSet {
			fs := newFlags("cities")
			fs.StringVar(&f.Search, "search", "", "filter by name")
			fs.BoolVar(&f.PopularOnly, "popular", false, "only popular cities")
			return fs
		},
		Run: func(ctx context.Context, _ []string) error {
			cities, err := a.catalog.Cities(ctx, f)
			if err != nil {
				return err
			}
			printCities(a.Out, cities)
			return nil
		},
	}
}

func (a *App) searchCmd() *Command {
	var q catalog.SearchQuery
	return &Command{
		Name:    "search",
		Summary: "Find buses between two cities on a date",
		Usage:   "busctl search --from <city> --to <city> [--date YYYY-MM-DD]",
		Flags: func() *pflag.FlagSet {
			fs := newFlags("search")
			fs.StringVar(&q.From, "from", "", "departure city")
			fs.StringVar(&q.To, "to", "", "destination city")
			fs.StringVar(&q.Date, "date", time.Now().Format(catalog.DateLayout), "travel date")
			return fs
		},
		Run: func(ctx context.Context, _ []string) error {
			list, err := a.catalog.Search(ctx, q)
			if err != nil {
				return err
			}
			printSchedules(a.Out, list)
			return nil
		},
	}
}

func (a *App) seatsCmd() *Command {
	var (
		pick     bool
		selected []string
	)
	return &Command{
		Name:    "seats",
		Summary: "Show the seat map of a schedule",
		Usage:   "busctl seats <schedule-id> [--select L1,L2 | --pick]",
		Flags: func() *pflag.FlagSet {
			fs := newFlags("seats")
			fs.BoolVar(&pick, "pick", false, "pick seats interactively")
			fs.StringSliceVar(&selected, "select", nil, "seat numbers to select")
			return fs
		},
		Run: func(ctx context.Context, args []string) error {
			id, err := scheduleArg(args)
			if err != nil {
				return err
			}
			sch, err := a.catalog.Load(ctx, id)
			if err != nil {
				return err
			}
			if pick {
				draft, ok, err := a.Pick(ctx, sch, sch.Seats)
				if err != nil || !ok {
					return err
				}
				a.printf("Selected %s for ₹%s\nbusctl book %d --seats %s\n",
					strings.Join(draft.SeatNumbers, ", "), draft.Total, id, strings.Join(draft.SeatNumbers, ","))
				return nil
			}
			sel, err := selectSeats(sch.Seats, selected)
			if err != nil {
				return err
			}
			printSeatMap(a.Out, sch, sel)
			return nil
		},
	}
}

func scheduleArg(args []string) (uint64, error) {
	if len(args) != 1 {
		return 0, errors.New("exactly one schedule id is required")
	}
	return parseID(args[0])
}

func parseID(s string) (uint64, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// selectSeats toggles the named seats, in order, into a new selection.
// Unknown and unavailable seats are errors here rather than silently
// ignored as they are in the picker.
func selectSeats(seats []model.Seat, numbers []string) (*seatmap.Selection, error) {
	sel := &seatmap.Selection{}
	for _, n := range numbers {
		n = strings.ToUpper(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		seat, ok := findSeat(seats, n)
		if !ok {
			return nil, fmt.Errorf("Seat %s does not exist on this bus", n)
		}
		if !seat.IsAvailable {
			return nil, fmt.Errorf("Seat %s is not available", n)
		}
		if sel.Contains(seat.ID) {
			continue
		}
		if _, err := sel.Toggle(seat); err != nil {
			return nil, err
		}
	}
	return sel, nil
}

func findSeat(seats []model.Seat, number string) (model.Seat, bool) {
	for _, s := range seats {
		if strings.EqualFold(s.SeatNumber, number) {
			return s, true
		}
	}
	return model.Seat{}, false
}
