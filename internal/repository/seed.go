package repository

import (
	"time"

	"github.com/iliyamo/bus-booking-client/internal/model"
	"github.com/iliyamo/bus-booking-client/internal/utils"
)

// Seeded accounts.
const (
	AdminEmail    = "admin@busgo.dev"
	AdminPassword = "admin123"
	DemoEmail     = "demo@busgo.dev"
	DemoPassword  = "demo123"
)

// SeedDays is how many days of trips the seed opens, starting today.
const SeedDays = 7

func (s *Store) seed(balance model.Money) error {
	adminHash, err := utils.HashPassword(AdminPassword, s.cost)
	if err != nil {
		return err
	}
	demoHash, err := utils.HashPassword(DemoPassword, s.cost)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range []model.City{
		{Name: "Mumbai", State: "Maharashtra", Code: "BOM", IsPopular: true},
		{Name: "Pune", State: "Maharashtra", Code: "PNQ", IsPopular: true},
		{Name: "Goa", State: "Goa", Code: "GOI", IsPopular: true},
		{Name: "Bangalore", State: "Karnataka", Code: "BLR", IsPopular: true},
		{Name: "Hyderabad", State: "Telangana", Code: "HYD"},
		{Name: "Nashik", State: "Maharashtra", Code: "NSK"},
	} {
		c.ID = s.nextID()
		s.cities[c.ID] = &c
	}
	city := func(name string) uint64 {
		c, _ := s.cityByName(name)
		return c.ID
	}

	neeta := &model.Operator{ID: s.nextID(), Name: "Neeta Travels", Code: "NT", Rating: 4.3}
	vrl := &model.Operator{ID: s.nextID(), Name: "VRL Travels", Code: "VRL", Rating: 4.1}
	s.operators[neeta.ID] = neeta
	s.operators[vrl.ID] = vrl

	sleeperBus := &Bus{ID: s.nextID(), OperatorID: neeta.ID, BusNumber: "MH12AB1234", BusType: "AC Sleeper",
		TotalSeats: 30, SeatLayout: "2+1", Amenities: []string{"WiFi", "Charging Point", "Blanket"}}
	seaterBus := &Bus{ID: s.nextID(), OperatorID: vrl.ID, BusNumber: "KA01CD5678", BusType: "AC Seater",
		TotalSeats: 40, SeatLayout: "2+2", Amenities: []string{"Charging Point", "Water Bottle"}}
	s.buses[sleeperBus.ID] = sleeperBus
	s.buses[seaterBus.ID] = seaterBus

	type trip struct {
		route          *Route
		bus            *Bus
		depart, arrive string
		price          model.Money
	}
	var trips []trip
	for _, t := range []struct {
		from, to string
		km       float64
		minutes  int
		bus      *Bus
		dep, arr string
		price    int64
	}{
		{"Pune", "Goa", 450, 600, sleeperBus, "21:30:00", "07:30:00", 1200},
		{"Mumbai", "Pune", 150, 180, seaterBus, "07:00:00", "10:00:00", 450},
		{"Bangalore", "Hyderabad", 570, 540, seaterBus, "22:00:00", "07:00:00", 900},
	} {
		r := &Route{ID: s.nextID(), FromCityID: city(t.from), ToCityID: city(t.to), DistanceKM: t.km, DurationMinutes: t.minutes}
		s.routes[r.ID] = r
		trips = append(trips, trip{r, t.bus, t.dep, t.arr, model.Rupees(t.price)})
	}

	today := s.now()
	for day := range SeedDays {
		date := today.AddDate(0, 0, day).Format(time.DateOnly)
		for _, t := range trips {
			sc := &Schedule{
				ID:            s.nextID(),
				BusID:         t.bus.ID,
				RouteID:       t.route.ID,
				TravelDate:    date,
				DepartureTime: t.depart,
				ArrivalTime:   t.arrive,
				BasePrice:     t.price,
				Status:        ScheduleScheduled,
			}
			s.schedules[sc.ID] = sc
			s.seats[sc.ID] = s.generateSeats(t.bus, t.price)
		}
	}

	if _, err := s.createUserLocked(AdminEmail, "9000000001", "BusGo Admin", adminHash, model.RoleAdmin, balance); err != nil {
		return err
	}
	_, err = s.createUserLocked(DemoEmail, "9000000002", "Demo Rider", demoHash, "user", balance)
	return err
}
