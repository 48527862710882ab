// Package tui holds the interactive terminal screens of busctl.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/iliyamo/bus-booking-client/internal/model"
	"github.com/iliyamo/bus-booking-client/internal/seatmap"
)

// SeatPicker is the seat selection screen.  It owns a seatmap.Selection and
// ends either with a draft (enter) or cancelled (q, esc, ctrl+c).
type SeatPicker struct {
	schedule model.Schedule
	decks    []seatmap.Deck
	// grid[d][r] is row r of deck d flattened left to right.
	grid [][][]model.Seat
	sel  seatmap.Selection

	deck, row, col int

	message   string
	done      bool
	confirmed bool
	draft     seatmap.BookingDraft
}

// NewSeatPicker lays out seats for sch.
func NewSeatPicker(sch model.Schedule, seats []model.Seat) *SeatPicker {
	p := &SeatPicker{schedule: sch, decks: seatmap.Layout(seats)}
	for _, d := range p.decks {
		var rows [][]model.Seat
		for _, r := range d.Rows {
			var flat []model.Seat
			for _, s := range r.Sides {
				flat = append(flat, s.Seats...)
			}
			rows = append(rows, flat)
		}
		p.grid = append(p.grid, rows)
	}
	return p
}

func (p *SeatPicker) Init() tea.Cmd { return nil }

// Result returns the draft and whether the user proceeded.
func (p *SeatPicker) Result() (seatmap.BookingDraft, bool) { return p.draft, p.confirmed }

// Selection exposes the current selection.
func (p *SeatPicker) Selection() *seatmap.Selection { return &p.sel }

func (p *SeatPicker) current() (model.Seat, bool) {
	if p.deck >= len(p.grid) || p.row >= len(p.grid[p.deck]) {
		return model.Seat{}, false
	}
	r := p.grid[p.deck][p.row]
	if p.col >= len(r) {
		return model.Seat{}, false
	}
	return r[p.col], true
}

func (p *SeatPicker) clampCol() {
	if n := len(p.grid[p.deck][p.row]); p.col >= n {
		p.col = n - 1
	}
}

func (p *SeatPicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	if isQuit(key) {
		p.done = true
		return p, tea.Quit
	}
	if len(p.grid) == 0 {
		return p, nil
	}
	p.message = ""

	switch key.String() {
	case "left", "h":
		if p.col > 0 {
			p.col--
		}
	case "right", "l":
		if p.col < len(p.grid[p.deck][p.row])-1 {
			p.col++
		}
	case "up", "k":
		if p.row > 0 {
			p.row--
			p.clampCol()
		}
	case "down", "j":
		if p.row < len(p.grid[p.deck])-1 {
			p.row++
			p.clampCol()
		}
	case "tab":
		p.deck = (p.deck + 1) % len(p.grid)
		p.row, p.col = 0, 0
	case " ", "space", "x":
		p.toggle()
	case "enter":
		draft, err := p.sel.Proceed(p.schedule.ID)
		if err != nil {
			p.message = err.Error()
			return p, nil
		}
		p.draft, p.confirmed, p.done = draft, true, true
		return p, tea.Quit
	}
	return p, nil
}

func isQuit(k tea.KeyMsg) bool {
	switch k.String() {
	case "ctrl+c", "q", "esc":
		return true
	}
	return false
}

func (p *SeatPicker) toggle() {
	seat, ok := p.current()
	if !ok {
		return
	}
	change, err := p.sel.Toggle(seat)
	switch {
	case errors.Is(err, seatmap.ErrLimitReached):
		p.message = err.Error()
	case change == seatmap.Ignored:
		p.message = fmt.Sprintf("Seat %s is not available", seat.SeatNumber)
	}
}

func (p *SeatPicker) View() string {
	if p.done {
		return ""
	}
	var b strings.Builder
	title := fmt.Sprintf("%s  %s → %s  %s %s",
		p.schedule.Bus.Operator.Name,
		p.schedule.Route.FromCity.Name,
		p.schedule.Route.ToCity.Name,
		p.schedule.TravelDate,
		p.schedule.Departure())
	b.WriteString(titleStyle.Render(title) + "\n\n")

	if len(p.grid) == 0 {
		b.WriteString(mutedStyle.Render("No seats available for this bus.") + "\n")
		return b.String()
	}

	var decks []string
	for d, deck := range p.decks {
		decks = append(decks, busStyle.Render(p.renderDeck(d, deck)))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, decks...) + "\n")
	b.WriteString(legend() + "\n\n")

	if p.sel.Len() > 0 {
		var nums []string
		for _, s := range p.sel.Seats() {
			nums = append(nums, s.SeatNumber)
		}
		b.WriteString(fmt.Sprintf("Selected: %s  ", strings.Join(nums, ", ")))
		b.WriteString(totalStyle.Render("Total: ₹"+p.sel.Total().String()) + "\n")
	}
	if p.message != "" {
		b.WriteString(errorStyle.Render(p.message) + "\n")
	}
	b.WriteString(mutedStyle.Render("←/→/↑/↓ move • space select • tab deck • enter continue • q quit"))
	return b.String()
}

func (p *SeatPicker) renderDeck(d int, deck seatmap.Deck) string {
	var lines []string
	lines = append(lines, deckStyle.Render(strings.ToUpper(deck.Name[:1])+deck.Name[1:]+" deck"))
	for r, row := range deck.Rows {
		var sides []string
		col := 0
		for _, side := range row.Sides {
			var cells []string
			for _, seat := range side.Seats {
				cells = append(cells, p.renderSeat(seat, d == p.deck && r == p.row && col == p.col))
				col++
			}
			sides = append(sides, strings.Join(cells, " "))
		}
		lines = append(lines, strings.Join(sides, "   "))
	}
	return strings.Join(lines, "\n")
}

func (p *SeatPicker) renderSeat(seat model.Seat, focused bool) string {
	st := seatStyles[seatmap.StateOf(seat, &p.sel)]
	if focused {
		st = st.Reverse(true)
	}
	return st.Width(seatWidth).Render(seat.SeatNumber)
}

func legend() string {
	parts := make([]string, 0, 4)
	for _, s := range []seatmap.State{seatmap.StateAvailable, seatmap.StateSelected, seatmap.StateLadiesOnly, seatmap.StateUnavailable} {
		parts = append(parts, seatStyles[s].Render(s.String()))
	}
	return mutedStyle.Render("Legend: ") + strings.Join(parts, "  ")
}

// PickSeats runs the picker until the user proceeds or quits.
func PickSeats(ctx context.Context, sch model.Schedule, seats []model.Seat) (seatmap.BookingDraft, bool, error) {
	p := NewSeatPicker(sch, seats)
	final, err := tea.NewProgram(p, tea.WithContext(ctx)).Run()
	if err != nil {
		return seatmap.BookingDraft{}, false, err
	}
	draft, ok := final.(*SeatPicker).Result()
	return draft, ok, nil
}
