package repository

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/iliyamo/bus-booking-client/internal/model"
)

// Bus is the stored form of a vehicle.
type Bus struct {
	ID         uint64   `json:"id"`
	OperatorID uint64   `json:"operator_id"`
	BusNumber  string   `json:"bus_number"`
	BusType    string   `json:"bus_type"`
	TotalSeats int      `json:"total_seats"`
	SeatLayout string   `json:"seat_layout"`
	Amenities  []string `json:"amenities"`
}

// Route is the stored form of a city pair.
type Route struct {
	ID              uint64  `json:"id"`
	FromCityID      uint64  `json:"from_city_id"`
	ToCityID        uint64  `json:"to_city_id"`
	DistanceKM      float64 `json:"distance_km"`
	DurationMinutes int     `json:"duration_minutes"`
}

// Schedule is the stored form of a trip.
type Schedule struct {
	ID            uint64      `json:"id"`
	BusID         uint64      `json:"bus_id"`
	RouteID       uint64      `json:"route_id"`
	TravelDate    string      `json:"travel_date"`
	DepartureTime string      `json:"departure_time"`
	ArrivalTime   string      `json:"arrival_time"`
	BasePrice     model.Money `json:"base_price"`
	Status        string      `json:"status"`
}

// ScheduleScheduled is the status of a bookable trip.
const ScheduleScheduled = "scheduled"

// CityFilter narrows Cities.
type CityFilter struct {
	Search      string
	PopularOnly bool
}

// Cities lists cities ordered by name.
func (s *Store) Cities(f CityFilter) []model.City {
	s.mu.RLock()
	defer s.mu.RUnlock()
	needle := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]model.City, 0, len(s.cities))
	for _, c := range s.cities {
		if f.PopularOnly && !c.IsPopular {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(c.Name), needle) {
			continue
		}
		out = append(out, *c)
	}
	slices.SortFunc(out, func(a, b model.City) int { return cmp.Compare(a.Name, b.Name) })
	return out
}

func (s *Store) cityByName(name string) (*model.City, error) {
	for _, c := range s.cities {
		if strings.EqualFold(c.Name, strings.TrimSpace(name)) {
			return c, nil
		}
	}
	return nil, notFound("City '%s' not found", name)
}

// Search lists the bookable trips between two cities on date, earliest
// departure first.
func (s *Store) Search(from, to, date string) ([]model.Schedule, error) {
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return nil, invalid("Invalid travel date %q", date)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	src, err := s.cityByName(from)
	if err != nil {
		return nil, err
	}
	dst, err := s.cityByName(to)
	if err != nil {
		return nil, err
	}
	var route *Route
	for _, r := range s.routes {
		if r.FromCityID == src.ID && r.ToCityID == dst.ID {
			route = r
			break
		}
	}
	if route == nil {
		return nil, notFound("No route found from %s to %s", src.Name, dst.Name)
	}

	out := []model.Schedule{}
	for _, sc := range s.schedules {
		if sc.RouteID == route.ID && sc.TravelDate == date && sc.Status == ScheduleScheduled {
			out = append(out, s.viewLocked(sc, false))
		}
	}
	slices.SortFunc(out, func(a, b model.Schedule) int {
		return cmp.Or(cmp.Compare(a.DepartureTime, b.DepartureTime), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

// ScheduleDetail returns a trip with its seats and stops.
func (s *Store) ScheduleDetail(id uint64) (model.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sc, ok := s.schedules[id]
	if !ok {
		return model.Schedule{}, notFound("Bus schedule not found")
	}
	return s.viewLocked(sc, true), nil
}

// Seats returns the seats of a trip.
func (s *Store) Seats(scheduleID uint64) ([]model.Seat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.schedules[scheduleID]; !ok {
		return nil, notFound("Bus schedule not found")
	}
	return slices.Clone(s.seats[scheduleID]), nil
}

func (s *Store) viewLocked(sc *Schedule, detail bool) model.Schedule {
	v := model.Schedule{
		ID:            sc.ID,
		TravelDate:    sc.TravelDate,
		DepartureTime: sc.DepartureTime,
		ArrivalTime:   sc.ArrivalTime,
		BasePrice:     sc.BasePrice,
		Status:        sc.Status,
	}
	for _, seat := range s.seats[sc.ID] {
		if seat.IsAvailable {
			v.AvailableSeats++
		}
	}
	if b, ok := s.buses[sc.BusID]; ok {
		v.Bus = model.Bus{
			ID:         b.ID,
			BusNumber:  b.BusNumber,
			BusType:    b.BusType,
			TotalSeats: b.TotalSeats,
			SeatLayout: b.SeatLayout,
			Amenities:  slices.Clone(b.Amenities),
		}
		if op, ok := s.operators[b.OperatorID]; ok {
			v.Bus.Operator = *op
		}
	}
	if r, ok := s.routes[sc.RouteID]; ok {
		v.Route = model.Route{ID: r.ID, DistanceKM: r.DistanceKM, DurationMinutes: r.DurationMinutes}
		if c, ok := s.cities[r.FromCityID]; ok {
			v.Route.FromCity = *c
		}
		if c, ok := s.cities[r.ToCityID]; ok {
			v.Route.ToCity = *c
		}
	}
	if detail {
		v.Seats = slices.Clone(s.seats[sc.ID])
		v.BoardingPoints = []model.Point{{ID: 1, Name: v.Route.FromCity.Name + " Central", Time: sc.DepartureTime}}
		v.DroppingPoints = []model.Point{{ID: 2, Name: v.Route.ToCity.Name + " Bus Stand", Time: sc.ArrivalTime}}
	}
	return v
}

// sleeper reports whether a bus gets two berth decks.
func sleeper(b *Bus) bool { return strings.Contains(strings.ToLower(b.BusType), "sleeper") }

// generateSeats lays out b's seats for one trip.  Sleepers get a lower and
// an upper deck with one berth left of the aisle and two right of it;
// seaters get a single deck of 2+2 rows.  The first seat of every deck is
// reserved for women.
func (s *Store) generateSeats(b *Bus, price model.Money) []model.Seat {
	type slot struct {
		side     string
		col      int
		isWindow bool
	}
	var (
		decks []string
		slots []slot
		kind  string
	)
	if sleeper(b) {
		decks = []string{model.DeckLower, model.DeckUpper}
		slots = []slot{{model.SideLeft, 1, true}, {model.SideRight, 1, false}, {model.SideRight, 2, true}}
		kind = "sleeper"
	} else {
		decks = []string{model.DeckLower}
		slots = []slot{{model.SideLeft, 1, true}, {model.SideLeft, 2, false}, {model.SideRight, 1, false}, {model.SideRight, 2, true}}
		kind = "seater"
	}

	perDeck := (b.TotalSeats + len(decks) - 1) / len(decks)
	seats := make([]model.Seat, 0, b.TotalSeats)
	for _, deck := range decks {
		prefix := strings.ToUpper(deck[:1])
		for n := 0; n < perDeck && len(seats) < b.TotalSeats; n++ {
			sl := slots[n%len(slots)]
			seats = append(seats, model.Seat{
				ID:           s.nextID(),
				SeatNumber:   prefix + strconv.Itoa(n+1),
				SeatType:     kind,
				Price:        price,
				IsAvailable:  true,
				IsLadiesOnly: n == 0,
				Row:          n/len(slots) + 1,
				Column:       sl.col,
				Deck:         deck,
				Side:         sl.side,
				IsWindow:     sl.isWindow,
			})
		}
	}
	return seats
}
