package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/iliyamo/bus-booking-client/internal/admin"
)

func (a *App) adminCmd() *Command {
	return &Command{
		Name:    "admin",
		Summary: "Manage buses, routes, schedules, cities and bookings",
		Subcommands: []*Command{
			a.adminStatsCmd(),
			a.adminListCmd(),
			a.adminCreateCmd(),
			a.adminUpdateCmd(),
			a.adminDeleteCmd(),
			a.adminCancelBookingCmd(),
		},
	}
}

func (a *App) adminStatsCmd() *Command {
	return &Command{
		Name:    "stats",
		Summary: "Dashboard counters",
		Run: func(ctx context.Context, _ []string) error {
			if _, err := a.adminUser(ctx); err != nil {
				return err
			}
			st, err := a.admin.Stats(ctx)
			if err != nil {
				return err
			}
			a.printf("Users: %d\nBuses: %d\nRoutes: %d\nBookings: %d\n", st.Users, st.Buses, st.Routes, st.Bookings)
			return nil
		},
	}
}

func (a *App) adminListCmd() *Command {
	var page admin.Page
	return &Command{
		Name:    "list",
		Summary: "List buses, routes, schedules, cities, operators or bookings",
		Usage:   "busctl admin list <entity> [--skip N] [--limit N]",
		Flags: func() *pflag.FlagSet {
			fs := newFlags("list")
			fs.IntVar(&page.Skip, "skip", 0, "records to skip")
			fs.IntVar(&page.Limit, "limit", admin.DefaultLimit, "page size")
			return fs
		},
		Run: func(ctx context.Context, args []string) error {
			if _, err := a.adminUser(ctx); err != nil {
				return err
			}
			if len(args) != 1 {
				return errors.New("entity required: " + entityNames() + ", operators or bookings")
			}
			switch strings.ToLower(args[0]) {
			case "operators":
				ops, err := a.admin.Operators(ctx)
				if err != nil {
					return err
				}
				tw := table(a.Out)
				fmt.Fprintln(tw, "ID\tNAME\tCODE\tRATING")
				for _, o := range ops {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%.1f\n", o.ID, o.Name, o.Code, o.Rating)
				}
				return tw.Flush()
			case "bookings":
				list, err := a.admin.Bookings(ctx, page)
				if err != nil {
					return err
				}
				printBookings(a.Out, list)
				return nil
			}
			s, err := schemaArg(args[0])
			if err != nil {
				return err
			}
			recs, err := a.admin.List(ctx, s, page)
			if err != nil {
				return err
			}
			printRecords(a.Out, s, recs)
			return nil
		},
	}
}

func (a *App) adminCreateCmd() *Command {
	return &Command{
		Name:    "create",
		Summary: "Create an entity from field=value pairs",
		Usage:   "busctl admin create <entity> field=value ...",
		Run: func(ctx context.Context, args []string) error {
			if _, err := a.adminUser(ctx); err != nil {
				return err
			}
			if len(args) < 1 {
				return errors.New("entity required: " + entityNames())
			}
			s, err := schemaArg(args[0])
			if err != nil {
				return err
			}
			values, err := parseFields(args[1:])
			if err != nil {
				return err
			}
			rec, err := a.admin.Create(ctx, s, values)
			if err != nil {
				return err
			}
			a.printf("%s created\n", capitalize(s.Entity))
			printRecord(a.Out, rec)
			return nil
		},
	}
}

func (a *App) adminUpdateCmd() *Command {
	return &Command{
		Name:    "update",
		Summary: "Replace an entity with field=value pairs",
		Usage:   "busctl admin update <entity> <id> field=value ...",
		Run: func(ctx context.Context, args []string) error {
			if _, err := a.adminUser(ctx); err != nil {
				return err
			}
			if len(args) < 2 {
				return errors.New("entity and id required")
			}
			s, err := schemaArg(args[0])
			if err != nil {
				return err
			}
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			values, err := parseFields(args[2:])
			if err != nil {
				return err
			}
			rec, err := a.admin.Update(ctx, s, id, values)
			if err != nil {
				return err
			}
			a.printf("%s updated\n", capitalize(s.Entity))
			printRecord(a.Out, rec)
			return nil
		},
	}
}

func (a *App) adminDeleteCmd() *Command {
	var yes bool
	return &Command{
		Name:    "delete",
		Summary: "Delete an entity",
		Usage:   "busctl admin delete <entity> <id> [--yes]",
		Flags: func() *pflag.FlagSet {
			fs := newFlags("delete")
			fs.BoolVarP(&yes, "yes", "y", false, "delete without asking for confirmation")
			return fs
		},
		Run: func(ctx context.Context, args []string) error {
			if _, err := a.adminUser(ctx); err != nil {
				return err
			}
			if len(args) != 2 {
				return errors.New("entity and id required")
			}
			s, err := schemaArg(args[0])
			if err != nil {
				return err
			}
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			if !yes && !a.confirm(fmt.Sprintf("Are you sure you want to delete this %s?", s.Entity)) {
				return nil
			}
			if err := a.admin.Delete(ctx, s, id); err != nil {
				return err
			}
			a.printf("%s deleted\n", capitalize(s.Entity))
			return nil
		},
	}
}

func (a *App) adminCancelBookingCmd() *Command {
	var yes bool
	return &Command{
		Name:    "cancel-booking",
		Summary: "Cancel any user's booking",
		Usage:   "busctl admin cancel-booking <booking-id> [--yes]",
		Flags: func() *pflag.FlagSet {
			fs := newFlags("cancel-booking")
			fs.BoolVarP(&yes, "yes", "y", false, "cancel without asking for confirmation")
			return fs
		},
		Run: func(ctx context.Context, args []string) error {
			if _, err := a.adminUser(ctx); err != nil {
				return err
			}
			if len(args) != 1 {
				return errors.New("exactly one booking id is required")
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !yes && !a.confirm("Are you sure you want to cancel this booking?") {
				return nil
			}
			if err := a.admin.CancelBooking(ctx, id); err != nil {
				return err
			}
			a.printf("Booking %d cancelled\n", id)
			return nil
		},
	}
}

func schemaArg(name string) (admin.Schema, error) {
	s, ok := admin.Lookup(name)
	if !ok {
		return admin.Schema{}, fmt.Errorf("unknown entity %q (want %s)", name, entityNames())
	}
	return s, nil
}

func entityNames() string {
	names := make([]string, 0, len(admin.All()))
	for _, s := range admin.All() {
		names = append(names, s.Entity)
	}
	return strings.Join(names, ", ")
}

// parseFields reads field=value pairs.  A later pair overrides an earlier
// one for the same field.
func parseFields(args []string) (map[string]string, error) {
	values := make(map[string]string, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("expected field=value, got %q", arg)
		}
		values[strings.TrimSpace(k)] = v
	}
	return values, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
