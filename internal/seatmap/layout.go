package seatmap

import (
	"cmp"
	"slices"

	"github.com/iliyamo/bus-booking-client/internal/model"
)

// Deck is one level of the bus.
type Deck struct {
	Name string
	Rows []Row
}

// Row is one row of a deck, split by aisle side.
type Row struct {
	Number int
	Sides  []Side
}

// Side holds the seats on one side of the aisle, by ascending column.
type Side struct {
	Name  string
	Seats []model.Seat
}

// Layout groups a flat seat list by deck, row and side.  Decks come lower
// first, then upper, then any other deck name alphabetically; sides come
// left, right, then others alphabetically.  The result depends only on
// the input seats, never on their order.
func Layout(seats []model.Seat) []Deck {
	sorted := slices.Clone(seats)
	slices.SortFunc(sorted, func(a, b model.Seat) int {
		return cmp.Or(
			compareRank(a.Deck, b.Deck, deckRank),
			cmp.Compare(a.Row, b.Row),
			compareRank(a.Side, b.Side, sideRank),
			cmp.Compare(a.Column, b.Column),
			cmp.Compare(a.ID, b.ID),
		)
	})

	var decks []Deck
	for _, seat := range sorted {
		if len(decks) == 0 || decks[len(decks)-1].Name != seat.Deck {
			decks = append(decks, Deck{Name: seat.Deck})
		}
		d := &decks[len(decks)-1]
		if len(d.Rows) == 0 || d.Rows[len(d.Rows)-1].Number != seat.Row {
			d.Rows = append(d.Rows, Row{Number: seat.Row})
		}
		r := &d.Rows[len(d.Rows)-1]
		if len(r.Sides) == 0 || r.Sides[len(r.Sides)-1].Name != seat.Side {
			r.Sides = append(r.Sides, Side{Name: seat.Side})
		}
		side := &r.Sides[len(r.Sides)-1]
		side.Seats = append(side.Seats, seat)
	}
	return decks
}

// Seats returns the number of seats on the deck.
func (d Deck) Seats() int {
	n := 0
	for _, r := range d.Rows {
		for _, s := range r.Sides {
			n += len(s.Seats)
		}
	}
	return n
}

// Side returns the named side of the row, if present.
func (r Row) Side(name string) (Side, bool) {
	for _, s := range r.Sides {
		if s.Name == name {
			return s, true
		}
	}
	return Side{}, false
}

var (
	deckRank = map[string]int{model.DeckLower: 0, model.DeckUpper: 1}
	sideRank = map[string]int{model.SideLeft: 0, model.SideRight: 1}
)

func compareRank(a, b string, known map[string]int) int {
	ra, okA := known[a]
	rb, okB := known[b]
	switch {
	case okA && okB:
		return cmp.Compare(ra, rb)
	case okA:
		return -1
	case okB:
		return 1
	default:
		return cmp.Compare(a, b)
	}
}

// State is how a seat should be drawn.
type State int

const (
	StateAvailable State = iota
	StateSelected
	StateLadiesOnly
	StateUnavailable
)

func (s State) String() string {
	switch s {
	case StateSelected:
		return "selected"
	case StateLadiesOnly:
		return "ladies"
	case StateUnavailable:
		return "booked"
	default:
		return "available"
	}
}

// StateOf derives the display state of seat given the current selection.
func StateOf(seat model.Seat, sel *Selection) State {
	switch {
	case !seat.IsAvailable:
		return StateUnavailable
	case sel != nil && sel.Contains(seat.ID):
		return StateSelected
	case seat.IsLadiesOnly:
		return StateLadiesOnly
	default:
		return StateAvailable
	}
}
