package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/bus-booking-client/internal/apiclient"
	"github.com/iliyamo/bus-booking-client/internal/model"
)

type fakeAPI struct {
	mu        sync.Mutex
	responses map[string]string
	failures  map[string]error
	calls     []string
	queries   []url.Values
}

func (f *fakeAPI) Get(_ context.Context, path string, q url.Values, out any) error {
	f.mu.Lock()
	f.calls = append(f.calls, path)
	f.queries = append(f.queries, q)
	f.mu.Unlock()
	if err, ok := f.failures[path]; ok {
		return err
	}
	body, ok := f.responses[path]
	if !ok {
		return &apiclient.APIError{Status: 404, Path: path}
	}
	return json.Unmarshal([]byte(body), out)
}

func TestSearchQueryValidate(t *testing.T) {
	cases := []struct {
		q    SearchQuery
		want error
	}{
		{SearchQuery{From: "Pune", To: "Goa", Date: "2026-11-02"}, nil},
		{SearchQuery{From: "Pune", To: "", Date: "2026-11-02"}, ErrFieldsRequired},
		{SearchQuery{From: " ", To: "Goa", Date: "2026-11-02"}, ErrFieldsRequired},
		{SearchQuery{From: "Pune", To: "pune ", Date: "2026-11-02"}, ErrSameCity},
		{SearchQuery{From: "Pune", To: "Goa", Date: "02/11/2026"}, ErrBadDate},
	}
	for _, tc := range cases {
		err := tc.q.Validate()
		if tc.want == nil {
			assert.NoError(t, err, "%+v", tc.q)
			continue
		}
		assert.ErrorIs(t, err, tc.want, "%+v", tc.q)
	}
}

func TestSearchRejectsLocallyWithoutCall(t *testing.T) {
	api := &fakeAPI{}
	_, err := New(api).Search(context.Background(), SearchQuery{From: "Goa", To: "GOA", Date: "2026-11-02"})
	assert.ErrorIs(t, err, ErrSameCity)
	assert.Empty(t, api.calls)
}

func TestSearch(t *testing.T) {
	api := &fakeAPI{responses: map[string]string{
		"/buses/search": `[{"id":11,"travel_date":"2026-11-02","departure_time":"21:30:00","base_price":899.5,"available_seats":12}]`,
	}}
	got, err := New(api).Search(context.Background(), SearchQuery{From: " Pune", To: "Goa ", Date: "2026-11-02"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "21:30", got[0].Departure())
	assert.Equal(t, model.FromFloat(899.5), got[0].BasePrice)

	q := api.queries[0]
	assert.Equal(t, "Pune", q.Get("from_city"))
	assert.Equal(t, "Goa", q.Get("to_city"))
	assert.Equal(t, "2026-11-02", q.Get("travel_date"))
}

func TestCitiesFilter(t *testing.T) {
	api := &fakeAPI{responses: map[string]string{
		"/buses/cities": `[{"id":1,"name":"Pune","state":"MH","code":"PNQ","is_popular":true}]`,
	}}
	cities, err := New(api).Cities(context.Background(), CityFilter{Search: " pu ", PopularOnly: true})
	require.NoError(t, err)
	assert.Equal(t, "Pune", cities[0].Name)
	assert.Equal(t, "pu", api.queries[0].Get("search"))
	assert.Equal(t, "true", api.queries[0].Get("popular_only"))
}

func TestLoadJoinsScheduleAndSeats(t *testing.T) {
	api := &fakeAPI{responses: map[string]string{
		"/buses/11":       `{"id":11,"bus":{"bus_number":"MH12"},"boarding_points":[{"id":1,"name":"Swargate","time":"21:00"}]}`,
		"/buses/11/seats": `[{"id":1,"seat_number":"L1","price":500,"is_available":true,"row_number":1,"column_number":1,"deck":"lower","side":"left"}]`,
	}}
	sch, err := New(api).Load(context.Background(), 11)
	require.NoError(t, err)
	assert.Equal(t, "MH12", sch.Bus.BusNumber)
	require.Len(t, sch.Seats, 1)
	assert.Equal(t, 1, sch.Seats[0].Row)
	assert.Len(t, sch.BoardingPoints, 1)
	assert.ElementsMatch(t, []string{"/buses/11", "/buses/11/seats"}, api.calls)
}

func TestLoadFailsWhenEitherFails(t *testing.T) {
	api := &fakeAPI{
		responses: map[string]string{"/buses/11": `{"id":11}`},
		failures:  map[string]error{"/buses/11/seats": apiclient.ErrNetwork},
	}
	_, err := New(api).Load(context.Background(), 11)
	assert.True(t, errors.Is(err, apiclient.ErrNetwork))
}
