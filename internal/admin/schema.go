// Package admin backs the management screens.  Every entity form is
// described by a Schema; one generic client performs list, create, update
// and delete against the admin endpoints for any schema.
package admin

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Kind is how a form value is converted before it is sent.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindList // comma separated strings
	KindDate // YYYY-MM-DD
	KindTime // HH:MM or HH:MM:SS, sent as HH:MM:SS
)

var (
	ErrFieldsRequired = errors.New("Please fill all fields")
	ErrBadDate        = errors.New("Invalid date format. Use YYYY-MM-DD")
	ErrBadTime        = errors.New("Invalid time format. Use HH:MM")
	ErrSameCity       = errors.New("From and To cities cannot be the same")
	ErrNotEditable    = errors.New("this entity cannot be edited")
	ErrNotDeletable   = errors.New("this entity cannot be deleted")
)

// Field is one form input.  Rule is a go-playground/validator tag applied
// to the converted value.
type Field struct {
	Name     string
	Label    string
	Kind     Kind
	Rule     string
	Required bool
}

// FieldError reports the first invalid field.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string { return e.Err.Error() }
func (e *FieldError) Unwrap() error { return e.Err }

// Schema describes one manageable entity.
type Schema struct {
	Entity string
	// Path is the admin collection path; ListPath overrides it for reads.
	Path     string
	ListPath string
	Fields   []Field
	// Columns are the record keys shown in list views.
	Columns   []string
	Editable  bool
	Deletable bool
	// Check runs after every field converted successfully.
	Check func(payload map[string]any) error
}

var validate = validator.New()

// Build validates form values in field order and converts them into the
// JSON payload.  The first problem is returned.  Optional fields left
// blank are omitted.
func (s Schema) Build(values map[string]string) (map[string]any, error) {
	payload := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		raw := strings.TrimSpace(values[f.Name])
		if raw == "" {
			if f.Required {
				return nil, &FieldError{Field: f.Name, Err: ErrFieldsRequired}
			}
			continue
		}
		v, err := convert(f, raw)
		if err != nil {
			return nil, &FieldError{Field: f.Name, Err: err}
		}
		if f.Rule != "" {
			if err := validate.Var(v, f.Rule); err != nil {
				return nil, &FieldError{Field: f.Name, Err: fmt.Errorf("%s is invalid", f.label())}
			}
		}
		payload[f.Name] = v
	}
	if s.Check != nil {
		if err := s.Check(payload); err != nil {
			return nil, err
		}
	}
	return payload, nil
}

func (f Field) label() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

func convert(f Field, raw string) (any, error) {
	switch f.Kind {
	case KindInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%s must be a whole number", f.label())
		}
		return n, nil
	case KindFloat:
		x, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
		if err != nil {
			return nil, fmt.Errorf("%s must be a number", f.label())
		}
		return x, nil
	case KindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%s must be true or false", f.label())
		}
		return b, nil
	case KindList:
		var items []string
		for _, part := range strings.Split(raw, ",") {
			if p := strings.TrimSpace(part); p != "" {
				items = append(items, p)
			}
		}
		return items, nil
	case KindDate:
		if _, err := time.Parse("2006-01-02", raw); err != nil {
			return nil, ErrBadDate
		}
		return raw, nil
	case KindTime:
		return normaliseTime(raw)
	default:
		return raw, nil
	}
}

func normaliseTime(raw string) (string, error) {
	if _, err := time.Parse("15:04", raw); err == nil && len(raw) == 5 {
		return raw + ":00", nil
	}
	if _, err := time.Parse("15:04:05", raw); err == nil && len(raw) == 8 {
		return raw, nil
	}
	return "", ErrBadTime
}

// Schemas of the managed entities.
var (
	Buses = Schema{
		Entity: "bus",
		Path:   "/admin/buses",
		Fields: []Field{
			{Name: "operator_id", Label: "Operator", Kind: KindInt, Rule: "gt=0", Required: true},
			{Name: "bus_number", Label: "Bus number", Kind: KindString, Rule: "min=2,max=20", Required: true},
			{Name: "bus_type", Label: "Bus type", Kind: KindString, Rule: "max=50", Required: true},
			{Name: "total_seats", Label: "Total seats", Kind: KindInt, Rule: "min=1,max=80", Required: true},
			{Name: "seat_layout", Label: "Seat layout", Kind: KindString, Rule: "max=20", Required: true},
			{Name: "amenities", Label: "Amenities", Kind: KindList},
		},
		Columns:   []string{"id", "bus_number", "bus_type", "total_seats", "seat_layout"},
		Editable:  true,
		Deletable: true,
	}

	Routes = Schema{
		Entity: "route",
		Path:   "/admin/routes",
		Fields: []Field{
			{Name: "from_city_id", Label: "From city", Kind: KindInt, Rule: "gt=0", Required: true},
			{Name: "to_city_id", Label: "To city", Kind: KindInt, Rule: "gt=0", Required: true},
			{Name: "distance_km", Label: "Distance", Kind: KindFloat, Rule: "gt=0", Required: true},
			{Name: "duration_minutes", Label: "Duration", Kind: KindInt, Rule: "gt=0", Required: true},
		},
		Columns:   []string{"id", "from_city_id", "to_city_id", "distance_km", "duration_minutes"},
		Deletable: true,
		Check: func(p map[string]any) error {
			if p["from_city_id"] == p["to_city_id"] {
				return &FieldError{Field: "to_city_id", Err: ErrSameCity}
			}
			return nil
		},
	}

	Schedules = Schema{
		Entity: "schedule",
		Path:   "/admin/schedules",
		Fields: []Field{
			{Name: "bus_id", Label: "Bus", Kind: KindInt, Rule: "gt=0", Required: true},
			{Name: "route_id", Label: "Route", Kind: KindInt, Rule: "gt=0", Required: true},
			{Name: "travel_date", Label: "Travel date", Kind: KindDate, Required: true},
			{Name: "departure_time", Label: "Departure time", Kind: KindTime, Required: true},
			{Name: "arrival_time", Label: "Arrival time", Kind: KindTime},
			{Name: "base_price", Label: "Base price", Kind: KindFloat, Rule: "gt=0", Required: true},
		},
		Columns:   []string{"id", "bus_id", "route_id", "travel_date", "departure_time", "base_price", "status"},
		Deletable: true,
	}

	Cities = Schema{
		Entity:   "city",
		Path:     "/admin/cities",
		ListPath: "/buses/cities",
		Fields: []Field{
			{Name: "name", Label: "Name", Kind: KindString, Rule: "min=2,max=100", Required: true},
			{Name: "state", Label: "State", Kind: KindString, Rule: "max=100", Required: true},
			{Name: "code", Label: "Code", Kind: KindString, Rule: "min=2,max=10,alphanum", Required: true},
			{Name: "is_popular", Label: "Popular", Kind: KindBool},
		},
		Columns: []string{"id", "name", "state", "code", "is_popular"},
	}
)

// Lookup finds a schema by entity name, singular or plural.
func Lookup(name string) (Schema, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, s := range All() {
		if name == s.Entity || name == plural(s.Entity) {
			return s, true
		}
	}
	return Schema{}, false
}

// All lists the schemas in menu order.
func All() []Schema { return []Schema{Buses, Routes, Schedules, Cities} }

func plural(entity string) string {
	switch {
	case strings.HasSuffix(entity, "y"):
		return strings.TrimSuffix(entity, "y") + "ies"
	case strings.HasSuffix(entity, "s"):
		return entity + "es"
	default:
		return entity + "s"
	}
}
