package admin

import (
	"context"
	"net/url"
	"strconv"

	"github.com/iliyamo/bus-booking-client/internal/model"
)

// DefaultLimit is the page size of admin lists.
const DefaultLimit = 100

// API is the slice of the api client the admin screens need.
type API interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, out any) error
}

// Record is one entity as returned by the API.
type Record map[string]any

// Page selects a slice of a list.
type Page struct {
	Skip  int
	Limit int
}

func (p Page) values() url.Values {
	limit := p.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	skip := max(p.Skip, 0)
	return url.Values{"skip": {strconv.Itoa(skip)}, "limit": {strconv.Itoa(limit)}}
}

// Stats are the dashboard counters.
type Stats struct {
	Users    int `json:"users"`
	Buses    int `json:"buses"`
	Routes   int `json:"routes"`
	Bookings int `json:"bookings"`
}

// Client performs CRUD for any schema.
type Client struct {
	api API
}

func NewClient(api API) *Client { return &Client{api: api} }

func itemPath(s Schema, id uint64) string { return s.Path + "/" + strconv.FormatUint(id, 10) }

// List fetches one page of s.
func (c *Client) List(ctx context.Context, s Schema, p Page) ([]Record, error) {
	path := s.Path
	if s.ListPath != "" {
		path = s.ListPath
	}
	var q url.Values
	if s.ListPath == "" {
		q = p.values()
	}
	var out []Record
	if err := c.api.Get(ctx, path, q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create validates values against s and creates the entity.
func (c *Client) Create(ctx context.Context, s Schema, values map[string]string) (Record, error) {
	payload, err := s.Build(values)
	if err != nil {
		return nil, err
	}
	var out Record
	if err := c.api.Post(ctx, s.Path, payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update validates values against s and replaces the entity.
func (c *Client) Update(ctx context.Context, s Schema, id uint64, values map[string]string) (Record, error) {
	if !s.Editable {
		return nil, ErrNotEditable
	}
	payload, err := s.Build(values)
	if err != nil {
		return nil, err
	}
	var out Record
	if err := c.api.Put(ctx, itemPath(s, id), payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes the entity.
func (c *Client) Delete(ctx context.Context, s Schema, id uint64) error {
	if !s.Deletable {
		return ErrNotDeletable
	}
	return c.api.Delete(ctx, itemPath(s, id), nil)
}

func (c *Client) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := c.api.Get(ctx, "/admin/stats", nil, &st)
	return st, err
}

func (c *Client) Operators(ctx context.Context) ([]model.Operator, error) {
	var ops []model.Operator
	if err := c.api.Get(ctx, "/admin/operators", nil, &ops); err != nil {
		return nil, err
	}
	return ops, nil
}

// Bookings lists every user's bookings.
func (c *Client) Bookings(ctx context.Context, p Page) ([]model.Booking, error) {
	var out []model.Booking
	if err := c.api.Get(ctx, "/admin/bookings", p.values(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CancelBooking cancels any booking on behalf of its owner.
func (c *Client) CancelBooking(ctx context.Context, id uint64) error {
	return c.api.Put(ctx, "/admin/bookings/"+strconv.FormatUint(id, 10)+"/cancel", nil, nil)
}
