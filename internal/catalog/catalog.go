// Package catalog holds the read-only queries behind the search screens:
// cities, schedule search, schedule detail and seat availability.  Nothing
// is cached; every call is one round trip.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/bus-booking-client/internal/apiclient"
	"github.com/iliyamo/bus-booking-client/internal/model"
)

// DateLayout is the wire format of travel dates.
const DateLayout = "2006-01-02"

var (
	ErrFieldsRequired = errors.New("Please fill in all fields")
	ErrSameCity       = errors.New("From and To cities cannot be the same")
	ErrBadDate        = errors.New("Please enter the travel date as YYYY-MM-DD")
)

// Getter is the slice of the api client the catalog needs.
type Getter interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
}

// Service runs catalog queries.
type Service struct {
	api Getter
}

func New(api Getter) *Service { return &Service{api: api} }

// CityFilter narrows GET /buses/cities.
type CityFilter struct {
	Search      string
	PopularOnly bool
}

func (f CityFilter) values() url.Values {
	q := url.Values{}
	if s := strings.TrimSpace(f.Search); s != "" {
		q.Set("search", s)
	}
	if f.PopularOnly {
		q.Set("popular_only", "true")
	}
	return q
}

// Cities lists the cities matching f.
func (s *Service) Cities(ctx context.Context, f CityFilter) ([]model.City, error) {
	var cities []model.City
	if err := s.api.Get(ctx, "/buses/cities", f.values(), &cities); err != nil {
		return nil, err
	}
	return cities, nil
}

// SearchQuery is the search form.
type SearchQuery struct {
	From string
	To   string
	Date string
}

// Validate checks the form before any request is made.
func (q SearchQuery) Validate() error {
	from, to, date := strings.TrimSpace(q.From), strings.TrimSpace(q.To), strings.TrimSpace(q.Date)
	if from == "" || to == "" || date == "" {
		return ErrFieldsRequired
	}
	if strings.EqualFold(from, to) {
		return ErrSameCity
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return ErrBadDate
	}
	return nil
}

func (q SearchQuery) values() url.Values {
	v := url.Values{}
	v.Set("from_city", strings.TrimSpace(q.From))
	v.Set("to_city", strings.TrimSpace(q.To))
	v.Set("travel_date", strings.TrimSpace(q.Date))
	return v
}

// Search lists the schedules for q.
func (s *Service) Search(ctx context.Context, q SearchQuery) ([]model.Schedule, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	var schedules []model.Schedule
	if err := s.api.Get(ctx, "/buses/search", q.values(), &schedules); err != nil {
		return nil, err
	}
	return schedules, nil
}

// Schedule loads one schedule with its boarding and dropping points.
func (s *Service) Schedule(ctx context.Context, id uint64) (model.Schedule, error) {
	var sch model.Schedule
	if err := s.api.Get(ctx, schedulePath(id), nil, &sch); err != nil {
		return model.Schedule{}, err
	}
	return sch, nil
}

// Seats loads the seat availability of a schedule.
func (s *Service) Seats(ctx context.Context, id uint64) ([]model.Seat, error) {
	var seats []model.Seat
	if err := s.api.Get(ctx, schedulePath(id)+"/seats", nil, &seats); err != nil {
		return nil, err
	}
	return seats, nil
}

// Load fetches schedule detail and seats in parallel; both must succeed.
// The returned schedule carries the seats.
func (s *Service) Load(ctx context.Context, id uint64) (model.Schedule, error) {
	var (
		sch   model.Schedule
		seats []model.Seat
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sch, err = s.Schedule(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		seats, err = s.Seats(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.Schedule{}, fmt.Errorf("load schedule %d: %w", id, err)
	}
	sch.Seats = seats
	return sch, nil
}

func schedulePath(id uint64) string { return "/buses/" + strconv.FormatUint(id, 10) }

var _ Getter = (*apiclient.Client)(nil)
