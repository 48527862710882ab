package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	method string
	path   string
	query  url.Values
	body   any
}

type fakeAPI struct {
	calls     []call
	responses map[string]string
}

func (f *fakeAPI) do(method, path string, q url.Values, body, out any) error {
	f.calls = append(f.calls, call{method, path, q, body})
	if resp, ok := f.responses[method+" "+path]; ok && out != nil {
		return json.Unmarshal([]byte(resp), out)
	}
	return nil
}

func (f *fakeAPI) Get(_ context.Context, path string, q url.Values, out any) error {
	return f.do("GET", path, q, nil, out)
}
func (f *fakeAPI) Post(_ context.Context, path string, body, out any) error {
	return f.do("POST", path, nil, body, out)
}
func (f *fakeAPI) Put(_ context.Context, path string, body, out any) error {
	return f.do("PUT", path, nil, body, out)
}
func (f *fakeAPI) Delete(_ context.Context, path string, out any) error {
	return f.do("DELETE", path, nil, nil, out)
}

func TestScheduleBuildNormalisesTime(t *testing.T) {
	payload, err := Schedules.Build(map[string]string{
		"bus_id": "3", "route_id": "4", "travel_date": "2026-12-01",
		"departure_time": "09:05", "base_price": "749.50",
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"bus_id": 3, "route_id": 4, "travel_date": "2026-12-01",
		"departure_time": "09:05:00", "base_price": 749.5,
	}, payload)
}

func TestBuildFirstViolationInFieldOrder(t *testing.T) {
	cases := []struct {
		name   string
		values map[string]string
		field  string
		want   error
	}{
		{"missing", map[string]string{"bus_id": "3"}, "route_id", ErrFieldsRequired},
		{"bad date", map[string]string{"bus_id": "3", "route_id": "4", "travel_date": "01-12-2026", "departure_time": "25:00", "base_price": "1"}, "travel_date", ErrBadDate},
		{"bad time", map[string]string{"bus_id": "3", "route_id": "4", "travel_date": "2026-12-01", "departure_time": "9am", "base_price": "1"}, "departure_time", ErrBadTime},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Schedules.Build(tc.values)
			var fe *FieldError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tc.field, fe.Field)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestBuildRules(t *testing.T) {
	_, err := Buses.Build(map[string]string{
		"operator_id": "0", "bus_number": "MH12", "bus_type": "AC Sleeper", "total_seats": "36", "seat_layout": "2+1",
	})
	assert.EqualError(t, err, "Operator is invalid")

	_, err = Buses.Build(map[string]string{
		"operator_id": "x", "bus_number": "MH12", "bus_type": "AC", "total_seats": "36", "seat_layout": "2+1",
	})
	assert.EqualError(t, err, "Operator must be a whole number")

	p, err := Buses.Build(map[string]string{
		"operator_id": "1", "bus_number": "MH12AB1234", "bus_type": "AC Sleeper", "total_seats": "36",
		"seat_layout": "2+1", "amenities": "WiFi, Charging Point,,Blanket",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"WiFi", "Charging Point", "Blanket"}, p["amenities"])

	_, err = Routes.Build(map[string]string{"from_city_id": "2", "to_city_id": "2", "distance_km": "150", "duration_minutes": "180"})
	assert.ErrorIs(t, err, ErrSameCity)

	p, err = Cities.Build(map[string]string{"name": "Pune", "state": "Maharashtra", "code": "PNQ", "is_popular": "true"})
	require.NoError(t, err)
	assert.Equal(t, true, p["is_popular"])
	_, err = Cities.Build(map[string]string{"name": "Pune", "state": "Maharashtra", "code": "P-Q"})
	assert.EqualError(t, err, "Code is invalid")
}

func TestClientCRUD(t *testing.T) {
	api := &fakeAPI{responses: map[string]string{
		"GET /admin/buses":   `[{"id":1,"bus_number":"MH12"}]`,
		"POST /admin/routes": `{"id":9}`,
		"GET /admin/stats":   `{"users":10,"buses":3,"routes":4,"bookings":25}`,
	}}
	c := NewClient(api)
	ctx := context.Background()

	recs, err := c.List(ctx, Buses, Page{Skip: 20})
	require.NoError(t, err)
	assert.Equal(t, "MH12", recs[0]["bus_number"])
	assert.Equal(t, "20", api.calls[0].query.Get("skip"))
	assert.Equal(t, "100", api.calls[0].query.Get("limit"))

	_, err = c.List(ctx, Cities, Page{})
	require.NoError(t, err)
	assert.Equal(t, "/buses/cities", api.calls[1].path)

	rec, err := c.Create(ctx, Routes, map[string]string{"from_city_id": "1", "to_city_id": "2", "distance_km": "148.5", "duration_minutes": "180"})
	require.NoError(t, err)
	assert.EqualValues(t, 9, rec["id"])

	_, err = c.Update(ctx, Routes, 9, nil)
	assert.ErrorIs(t, err, ErrNotEditable)
	_, err = c.Update(ctx, Buses, 1, map[string]string{
		"operator_id": "1", "bus_number": "MH12", "bus_type": "AC", "total_seats": "40", "seat_layout": "2+2",
	})
	require.NoError(t, err)
	assert.Equal(t, "/admin/buses/1", api.calls[len(api.calls)-1].path)

	require.NoError(t, c.Delete(ctx, Schedules, 5))
	assert.Equal(t, "DELETE", api.calls[len(api.calls)-1].method)
	assert.ErrorIs(t, c.Delete(ctx, Cities, 5), ErrNotDeletable)

	st, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{Users: 10, Buses: 3, Routes: 4, Bookings: 25}, st)

	require.NoError(t, c.CancelBooking(ctx, 77))
	assert.Equal(t, "/admin/bookings/77/cancel", api.calls[len(api.calls)-1].path)
}

func TestLookup(t *testing.T) {
	for _, name := range []string{"bus", "buses", "Routes", "schedule", "cities"} {
		_, ok := Lookup(name)
		assert.True(t, ok, name)
	}
	_, ok := Lookup("tickets")
	assert.False(t, ok)
}
