package cli

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/iliyamo/bus-booking-client/internal/admin"
	"github.com/iliyamo/bus-booking-client/internal/model"
	"github.com/iliyamo/bus-booking-client/internal/seatmap"
	"github.com/iliyamo/bus-booking-client/internal/wallet"
)

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 2, 0, 2, ' ', 0)
}

func printCities(w io.Writer, cities []model.City) {
	tw := table(w)
	fmt.Fprintln(tw, "ID\tNAME\tSTATE\tCODE\tPOPULAR")
	for _, c := range cities {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", c.ID, c.Name, c.State, c.Code, yesNo(c.IsPopular))
	}
	tw.Flush()
}

func printSchedules(w io.Writer, list []model.Schedule) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No buses found for this route.")
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "ID\tOPERATOR\tBUS\tDEPARTS\tARRIVES\tFARE\tSEATS LEFT")
	for _, s := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t₹%s\t%d\n",
			s.ID, s.Bus.Operator.Name, s.Bus.BusType, s.Departure(), s.Arrival(), s.BasePrice, s.AvailableSeats)
	}
	tw.Flush()
}

// seatMarks suffix a seat label with its display state.
var seatMarks = map[seatmap.State]string{
	seatmap.StateAvailable:   " ",
	seatmap.StateSelected:    "*",
	seatmap.StateLadiesOnly:  "f",
	seatmap.StateUnavailable: "x",
}

// printSeatMap draws every deck as rows of seats split by the aisle.
func printSeatMap(w io.Writer, sch model.Schedule, sel *seatmap.Selection) {
	fmt.Fprintf(w, "%s %s  %s → %s  %s %s\n", sch.Bus.Operator.Name, sch.Bus.BusType,
		sch.Route.FromCity.Name, sch.Route.ToCity.Name, sch.TravelDate, sch.Departure())
	decks := seatmap.Layout(sch.Seats)
	if len(decks) == 0 {
		fmt.Fprintln(w, "No seats available for this bus.")
		return
	}
	for _, d := range decks {
		fmt.Fprintf(w, "\n%s deck (%d seats)\n", strings.ToUpper(d.Name[:1])+d.Name[1:], d.Seats())
		for _, row := range d.Rows {
			sides := make([]string, 0, len(row.Sides))
			for _, side := range row.Sides {
				cells := make([]string, 0, len(side.Seats))
				for _, seat := range side.Seats {
					cells = append(cells, fmt.Sprintf("%-4s%s", seat.SeatNumber, seatMarks[seatmap.StateOf(seat, sel)]))
				}
				sides = append(sides, strings.Join(cells, " "))
			}
			fmt.Fprintf(w, "  %s\n", strings.Join(sides, "  |  "))
		}
	}
	fmt.Fprintln(w, "\n(*) selected  (f) ladies only  (x) booked")
	if sel != nil && sel.Len() > 0 {
		fmt.Fprintf(w, "Selected: %s  Total: ₹%s\n", strings.Join(sel.Draft(sch.ID).SeatNumbers, ", "), sel.Total())
	}
}

func printBooking(w io.Writer, b model.Booking) {
	fmt.Fprintf(w, "%s  #%d  %s\n", b.Code, b.ID, strings.ToUpper(b.Status))
	if b.FromCity != "" {
		fmt.Fprintf(w, "  %s → %s  %s %s\n", b.FromCity, b.ToCity, b.TravelDate, clock(b.DepartureTime))
	}
	if b.OperatorName != "" {
		fmt.Fprintf(w, "  %s %s (%s)\n", b.OperatorName, b.BusType, b.BusNumber)
	}
	for _, p := range b.Passengers {
		fmt.Fprintf(w, "  seat %-4s %s, %d, %s\n", p.SeatNumber, p.Name, p.Age, p.Gender)
	}
	fmt.Fprintf(w, "  Total: ₹%s via %s\n", b.TotalAmount, b.PaymentMethod)
}

func printBookings(w io.Writer, list []model.Booking) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No bookings yet.")
		return
	}
	for i, b := range list {
		if i > 0 {
			fmt.Fprintln(w)
		}
		printBooking(w, b)
	}
}

func printWallet(w io.Writer, ov wallet.Overview) {
	fmt.Fprintf(w, "Balance: ₹%s\n", ov.Wallet.Balance.Format(2))
	if len(ov.Transactions) == 0 {
		fmt.Fprintln(w, "No transactions yet.")
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "\nDATE\tDESCRIPTION\tAMOUNT")
	for _, t := range ov.Transactions {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", day(t.CreatedAt), t.Description, t.Signed())
	}
	tw.Flush()
}

// printRecords renders admin records using the schema columns.
func printRecords(w io.Writer, s admin.Schema, recs []admin.Record) {
	if len(recs) == 0 {
		fmt.Fprintf(w, "No %s found.\n", s.Path[strings.LastIndex(s.Path, "/")+1:])
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, strings.ToUpper(strings.Join(s.Columns, "\t")))
	for _, r := range recs {
		cells := make([]string, 0, len(s.Columns))
		for _, col := range s.Columns {
			cells = append(cells, cell(r[col]))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	tw.Flush()
}

func printRecord(w io.Writer, r admin.Record) {
	tw := table(w)
	for _, k := range slices.Sorted(maps.Keys(r)) {
		fmt.Fprintf(tw, "%s\t%s\n", k, cell(r[k]))
	}
	tw.Flush()
}

func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return "-"
	case float64:
		if x == float64(int64(x)) {
			return fmt.Sprintf("%d", int64(x))
		}
		return fmt.Sprintf("%.2f", x)
	case []any:
		parts := make([]string, 0, len(x))
		for _, p := range x {
			parts = append(parts, cell(p))
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(x)
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func clock(t string) string {
	if len(t) >= 5 {
		return t[:5]
	}
	return t
}

func day(ts string) string {
	if len(ts) >= 10 {
		return ts[:10]
	}
	return ts
}
