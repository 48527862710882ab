package tui

import (
	"strconv"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/bus-booking-client/internal/model"
	"github.com/iliyamo/bus-booking-client/internal/seatmap"
)

var (
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keySpace = tea.KeyMsg{Type: tea.KeySpace}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyQuit  = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}
)

func seat(id uint64, num, deck string, row int, side string, col int) model.Seat {
	return model.Seat{ID: id, SeatNumber: num, Deck: deck, Row: row, Side: side, Column: col,
		Price: model.Rupees(500), IsAvailable: true}
}

func sleeperSeats() []model.Seat {
	l1 := seat(1, "L1", model.DeckLower, 1, model.SideLeft, 1)
	l1.IsLadiesOnly = true
	l4 := seat(4, "L4", model.DeckLower, 2, model.SideLeft, 1)
	l4.IsAvailable = false
	return []model.Seat{
		seat(6, "U1", model.DeckUpper, 1, model.SideLeft, 1),
		seat(3, "L3", model.DeckLower, 1, model.SideRight, 2),
		l1,
		seat(2, "L2", model.DeckLower, 1, model.SideRight, 1),
		l4,
		seat(5, "L5", model.DeckLower, 2, model.SideRight, 1),
	}
}

func schedule() model.Schedule {
	return model.Schedule{
		ID:            77,
		TravelDate:    "2026-03-10",
		DepartureTime: "21:30:00",
		Bus:           model.Bus{Operator: model.Operator{Name: "Neeta Travels"}},
		Route:         model.Route{FromCity: model.City{Name: "Pune"}, ToCity: model.City{Name: "Goa"}},
	}
}

func press(p *SeatPicker, keys ...tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = p.Update(k)
	}
	return cmd
}

func isQuitCmd(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestPickAndProceed(t *testing.T) {
	p := NewSeatPicker(schedule(), sleeperSeats())

	press(p, keySpace, keyRight, keySpace)
	assert.Equal(t, 2, p.Selection().Len())

	cmd := press(p, keyEnter)
	assert.True(t, isQuitCmd(cmd))
	draft, ok := p.Result()
	require.True(t, ok)
	assert.Equal(t, uint64(77), draft.ScheduleID)
	assert.Equal(t, []string{"L1", "L2"}, draft.SeatNumbers)
	assert.Equal(t, model.Rupees(1000), draft.Total)
}

func TestToggleTwiceDeselects(t *testing.T) {
	p := NewSeatPicker(schedule(), sleeperSeats())
	press(p, keyRight, keySpace, keySpace)
	assert.Equal(t, 0, p.Selection().Len())
}

func TestEnterWithoutSeats(t *testing.T) {
	p := NewSeatPicker(schedule(), sleeperSeats())
	cmd := press(p, keyEnter)
	assert.False(t, isQuitCmd(cmd))
	_, ok := p.Result()
	assert.False(t, ok)
	assert.Contains(t, p.View(), seatmap.ErrNoSeatsSelected.Error())
}

func TestUnavailableSeatIsNotSelected(t *testing.T) {
	p := NewSeatPicker(schedule(), sleeperSeats())
	press(p, keyDown, keySpace)
	assert.Equal(t, 0, p.Selection().Len())
	assert.Contains(t, p.View(), "Seat L4 is not available")
}

func TestNavigationClampsToRow(t *testing.T) {
	p := NewSeatPicker(schedule(), sleeperSeats())
	press(p, keyRight, keyRight, keyRight, keyDown, keySpace)
	require.Equal(t, 1, p.Selection().Len())
	assert.Equal(t, "L5", p.Selection().Seats()[0].SeatNumber)

	press(p, keyDown, keyUp, keySpace)
	assert.Equal(t, "L2", p.Selection().Seats()[1].SeatNumber)
}

func TestTabSwitchesDeck(t *testing.T) {
	p := NewSeatPicker(schedule(), sleeperSeats())
	press(p, keyTab, keySpace)
	require.Equal(t, 1, p.Selection().Len())
	assert.Equal(t, "U1", p.Selection().Seats()[0].SeatNumber)

	press(p, keyTab, keySpace)
	assert.Equal(t, 2, p.Selection().Len())
}

func TestSeventhSeatRefused(t *testing.T) {
	var seats []model.Seat
	for i := range 8 {
		seats = append(seats, seat(uint64(i+1), "S"+strconv.Itoa(i+1), model.DeckLower, 1, model.SideLeft, i+1))
	}
	p := NewSeatPicker(schedule(), seats)
	for range 6 {
		press(p, keySpace, keyRight)
	}
	press(p, keySpace)
	assert.Equal(t, seatmap.MaxSeats, p.Selection().Len())
	assert.Contains(t, p.View(), seatmap.ErrLimitReached.Error())
	assert.Equal(t, model.Rupees(3000), p.Selection().Total())
}

func TestQuit(t *testing.T) {
	p := NewSeatPicker(schedule(), sleeperSeats())
	press(p, keySpace)
	assert.True(t, isQuitCmd(press(p, keyQuit)))
	_, ok := p.Result()
	assert.False(t, ok)
	assert.Empty(t, p.View())
}

func TestView(t *testing.T) {
	p := NewSeatPicker(schedule(), sleeperSeats())
	press(p, keyRight, keySpace)
	v := p.View()
	for _, want := range []string{"Neeta Travels", "Pune", "Goa", "21:30", "Lower", "Upper", "L1", "U1", "Selected: L2", "Total: ₹500"} {
		assert.Contains(t, v, want)
	}
}

func TestEmptySchedule(t *testing.T) {
	p := NewSeatPicker(schedule(), nil)
	assert.Nil(t, press(p, keySpace, keyEnter))
	assert.Contains(t, p.View(), "No seats available")
	assert.True(t, isQuitCmd(press(p, keyQuit)))
}
