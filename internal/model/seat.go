package model

// Deck and side values used by the seat map.
const (
	DeckLower = "lower"
	DeckUpper = "upper"
	SideLeft  = "left"
	SideRight = "right"
)

// Seat describes one seat of a schedule as returned by
// GET /buses/{id}/seats.  Seats are immutable once fetched; the server is
// the source of truth for availability and the client only overlays the
// user's provisional selection.
//
// Fields:
//  ID           – seat identifier, unique within the schedule.
//  SeatNumber   – human label printed on the seat (e.g. "L3").
//  SeatType     – seater, sleeper, semi-sleeper.
//  Price        – fare for this seat.
//  IsAvailable  – false once booked by anyone.
//  IsLadiesOnly – reserved for female passengers.
//  Row, Column  – position within the deck.
//  Deck         – lower or upper.
//  Side         – left or right of the aisle.
//  IsWindow     – window seat.
type Seat struct {
	ID           uint64 `json:"id"`
	SeatNumber   string `json:"seat_number"`
	SeatType     string `json:"seat_type"`
	Price        Money  `json:"price"`
	IsAvailable  bool   `json:"is_available"`
	IsLadiesOnly bool   `json:"is_ladies_only"`
	Row          int    `json:"row_number"`
	Column       int    `json:"column_number"`
	Deck         string `json:"deck"`
	Side         string `json:"side"`
	IsWindow     bool   `json:"is_window"`
}
