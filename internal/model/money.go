package model

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Money is an amount in hundredths of the currency unit (paise for INR).
// The API sends amounts as JSON decimal numbers; storing them as integer
// hundredths keeps seat price sums exact no matter how many seats are added.
type Money int64

// Rupees builds a Money value from whole currency units.
func Rupees(n int64) Money { return Money(n * 100) }

// FromFloat converts a decimal amount, rounding half away from zero to two
// fraction digits.
func FromFloat(f float64) Money { return Money(math.Round(f * 100)) }

// ParseMoney parses a user or wire supplied decimal string such as "500",
// "499.5" or "1,000.25".
func ParseMoney(s string) (Money, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, fmt.Errorf("parse money: empty amount")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse money %q: %w", s, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("parse money %q: not a finite number", s)
	}
	return FromFloat(f), nil
}

// Float returns the amount as a float64 for JSON encoding.
func (m Money) Float() float64 { return float64(m) / 100 }

// Format renders the amount with exactly digits fraction digits (0, 1 or 2).
func (m Money) Format(digits int) string {
	if digits < 0 {
		digits = 0
	}
	if digits > 2 {
		digits = 2
	}
	return strconv.FormatFloat(m.Float(), 'f', digits, 64)
}

// String renders whole amounts without a fraction and everything else with
// two fraction digits, which is how the booking screens display prices.
func (m Money) String() string {
	if m%100 == 0 {
		return m.Format(0)
	}
	return m.Format(2)
}

// MarshalJSON encodes the amount as a JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(m.Float(), 'f', -1, 64)), nil
}

// UnmarshalJSON accepts a JSON number, a quoted number or null.
func (m *Money) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*m = 0
		return nil
	}
	s := string(b)
	if unq, err := strconv.Unquote(s); err == nil {
		s = unq
	}
	v, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}
