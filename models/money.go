package models

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
)

// Money is an amount of currency held in minor units (cents).
type Money int64

// MoneyFromFloat converts a major-unit amount (e.g. 120.5) to Money, rounding half away from zero.
func MoneyFromFloat(v float64) Money {
	return Money(math.Round(v * 100))
}

// Float returns the amount in major units.
func (m Money) Float() float64 {
	return float64(m) / 100
}

// Cents returns the raw minor-unit value.
func (m Money) Cents() int64 {
	return int64(m)
}

func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON renders the amount as a decimal number with two places.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (m *Money) UnmarshalJSON(data []byte) error {
	raw := bytes.Trim(data, `"`)
	if len(raw) == 0 || string(raw) == "null" {
		*m = 0
		return nil
	}
	f, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return fmt.Errorf("invalid money amount %q: %w", raw, err)
	}
	*m = MoneyFromFloat(f)
	return nil
}
