package repository

import (
	"cmp"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/iliyamo/bus-booking-client/internal/model"
)

// Stats are the admin dashboard counters.
type Stats struct {
	Users    int `json:"users"`
	Buses    int `json:"buses"`
	Routes   int `json:"routes"`
	Bookings int `json:"bookings"`
}

func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Stats{Users: len(s.users), Buses: len(s.buses), Routes: len(s.routes), Bookings: len(s.bookings)}
}

// Operators lists bus operators by id.
func (s *Store) Operators() []model.Operator {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.operators, func(o *model.Operator) uint64 { return o.ID })
}

func sortedValues[T any](m map[uint64]*T, id func(*T) uint64) []T {
	ptrs := slices.SortedFunc(maps.Values(m), func(a, b *T) int { return cmp.Compare(id(a), id(b)) })
	out := make([]T, 0, len(ptrs))
	for _, p := range ptrs {
		out = append(out, *p)
	}
	return out
}

func (s *Store) Buses(skip, limit int) []Bus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return page(sortedValues(s.buses, func(b *Bus) uint64 { return b.ID }), skip, limit)
}

func (s *Store) checkBusLocked(b Bus, selfID uint64) error {
	if _, ok := s.operators[b.OperatorID]; !ok {
		return notFound("Operator not found")
	}
	if b.TotalSeats < 1 {
		return invalid("Total seats must be at least 1")
	}
	for _, other := range s.buses {
		if other.ID != selfID && strings.EqualFold(other.BusNumber, b.BusNumber) {
			return conflict("Bus number '%s' already exists", b.BusNumber)
		}
	}
	return nil
}

func (s *Store) CreateBus(b Bus) (Bus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkBusLocked(b, 0); err != nil {
		return Bus{}, err
	}
	b.ID = s.nextID()
	b.Amenities = slices.Clone(b.Amenities)
	s.buses[b.ID] = &b
	return b, nil
}

// UpdateBus replaces a bus.  Seats of existing trips keep their layout.
func (s *Store) UpdateBus(id uint64, b Bus) (Bus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.buses[id]; !ok {
		return Bus{}, notFound("Bus not found")
	}
	if err := s.checkBusLocked(b, id); err != nil {
		return Bus{}, err
	}
	b.ID = id
	b.Amenities = slices.Clone(b.Amenities)
	s.buses[id] = &b
	return b, nil
}

func (s *Store) DeleteBus(id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.buses[id]; !ok {
		return notFound("Bus not found")
	}
	for _, sc := range s.schedules {
		if sc.BusID == id {
			return conflict("Bus has schedules and cannot be deleted")
		}
	}
	delete(s.buses, id)
	return nil
}

func (s *Store) Routes(skip, limit int) []Route {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return page(sortedValues(s.routes, func(r *Route) uint64 { return r.ID }), skip, limit)
}

func (s *Store) CreateRoute(r Route) (Route, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cities[r.FromCityID]; !ok {
		return Route{}, notFound("City not found")
	}
	if _, ok := s.cities[r.ToCityID]; !ok {
		return Route{}, notFound("City not found")
	}
	if r.FromCityID == r.ToCityID {
		return Route{}, invalid("From and To cities must be different")
	}
	for _, other := range s.routes {
		if other.FromCityID == r.FromCityID && other.ToCityID == r.ToCityID {
			return Route{}, conflict("Route already exists")
		}
	}
	r.ID = s.nextID()
	s.routes[r.ID] = &r
	return r, nil
}

func (s *Store) DeleteRoute(id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.routes[id]; !ok {
		return notFound("Route not found")
	}
	for _, sc := range s.schedules {
		if sc.RouteID == id {
			return conflict("Route has schedules and cannot be deleted")
		}
	}
	delete(s.routes, id)
	return nil
}

func (s *Store) Schedules(skip, limit int) []Schedule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return page(sortedValues(s.schedules, func(sc *Schedule) uint64 { return sc.ID }), skip, limit)
}

// CreateSchedule opens a trip and lays out its seats.  A missing arrival
// time is derived from the route duration.
func (s *Store) CreateSchedule(sc Schedule) (Schedule, error) {
	if _, err := time.Parse(time.DateOnly, sc.TravelDate); err != nil {
		return Schedule{}, invalid("Invalid travel date")
	}
	dep, err := time.Parse(time.TimeOnly, sc.DepartureTime)
	if err != nil {
		return Schedule{}, invalid("Invalid departure time")
	}
	if sc.BasePrice <= 0 {
		return Schedule{}, invalid("Base price must be greater than 0")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	bus, ok := s.buses[sc.BusID]
	if !ok {
		return Schedule{}, notFound("Bus not found")
	}
	route, ok := s.routes[sc.RouteID]
	if !ok {
		return Schedule{}, notFound("Route not found")
	}
	if sc.ArrivalTime == "" {
		sc.ArrivalTime = dep.Add(time.Duration(route.DurationMinutes) * time.Minute).Format(time.TimeOnly)
	} else if _, err := time.Parse(time.TimeOnly, sc.ArrivalTime); err != nil {
		return Schedule{}, invalid("Invalid arrival time")
	}
	sc.ID = s.nextID()
	sc.Status = ScheduleScheduled
	s.schedules[sc.ID] = &sc
	s.seats[sc.ID] = s.generateSeats(bus, sc.BasePrice)
	return sc, nil
}

// DeleteSchedule removes a trip nobody holds a live booking on.
func (s *Store) DeleteSchedule(id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.schedules[id]; !ok {
		return notFound("Bus schedule not found")
	}
	for _, b := range s.bookings {
		if b.ScheduleID == id && b.Status != model.StatusCancelled {
			return conflict("Schedule has active bookings and cannot be deleted")
		}
	}
	delete(s.schedules, id)
	delete(s.seats, id)
	return nil
}

func (s *Store) CreateCity(c model.City) (model.City, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return model.City{}, invalid("City name is required")
	}
	if _, err := s.cityByName(c.Name); err == nil {
		return model.City{}, conflict("City '%s' already exists", c.Name)
	}
	c.ID = s.nextID()
	c.Code = strings.ToUpper(c.Code)
	s.cities[c.ID] = &c
	return c, nil
}
