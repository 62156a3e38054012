// Package money represents currency amounts as integer minor units.
//
// Splitr is single-currency. Every amount that enters the system is converted
// to Cents once, at the ingestion boundary, using an explicit Rounding. All
// arithmetic after that point is integer arithmetic; floating point is never
// used for money.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Cents is an amount in minor currency units (1/100 of the unit).
type Cents int64

// MaxCents bounds the absolute value of any single amount. It leaves room
// to sum a group's whole ledger in int64 without overflow.
const MaxCents Cents = 1_000_000_000_000_00

// ErrOutOfRange is returned for amounts whose magnitude exceeds MaxCents.
var ErrOutOfRange = errors.New("amount out of range")

var maxCents = decimal.NewFromInt(int64(MaxCents))

// Rounding selects how amounts with more than two fraction digits are
// brought to minor units.
type Rounding int

const (
	// RoundHalfUp rounds halves away from zero (0.125 -> 0.13, -0.125 -> -0.13).
	RoundHalfUp Rounding = iota
	// RoundHalfEven rounds halves to the nearest even digit (0.125 -> 0.12, 0.135 -> 0.14).
	RoundHalfEven
)

// ParseRounding maps a configuration value to a Rounding.
func ParseRounding(s string) (Rounding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "half_up":
		return RoundHalfUp, nil
	case "half_even", "bankers":
		return RoundHalfEven, nil
	default:
		return 0, fmt.Errorf("unknown rounding mode %q (want half_up or half_even)", s)
	}
}

func (r Rounding) String() string {
	switch r {
	case RoundHalfUp:
		return "half_up"
	case RoundHalfEven:
		return "half_even"
	default:
		return fmt.Sprintf("Rounding(%d)", int(r))
	}
}

// FromDecimal rounds d to two fraction digits with r and returns it in minor
// units. Amounts beyond MaxCents fail with ErrOutOfRange.
func FromDecimal(d decimal.Decimal, r Rounding) (Cents, error) {
	var rounded decimal.Decimal
	switch r {
	case RoundHalfEven:
		rounded = d.RoundBank(2)
	default:
		rounded = d.Round(2)
	}
	return toCents(rounded)
}

// toCents converts a value with at most two fraction digits.
func toCents(d decimal.Decimal) (Cents, error) {
	minor := d.Shift(2)
	if minor.Abs().GreaterThan(maxCents) {
		return 0, fmt.Errorf("%w: %s exceeds %s", ErrOutOfRange, d.String(), MaxCents)
	}
	return Cents(minor.IntPart()), nil
}

// Parse reads a decimal string such as "33.34" into minor units.
func Parse(s string, r Rounding) (Cents, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return FromDecimal(d, r)
}

// Decimal returns c as a decimal number of currency units.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// String formats c with exactly two fraction digits.
func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

// Abs returns the absolute value of c.
func (c Cents) Abs() Cents {
	if c < 0 {
		return -c
	}
	return c
}

// MarshalJSON encodes c as a JSON number with exactly two fraction digits.
func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalJSON accepts a JSON number or string with at most two significant
// fraction digits. Values needing rounding are rejected here; rounding is a
// policy decision made by whoever ingests raw input.
func (c *Cents) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	if !d.Equal(d.Truncate(2)) {
		return fmt.Errorf("amount %s has more than two fraction digits", d.String())
	}
	v, err := toCents(d)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Sum adds all amounts.
func Sum(amounts ...Cents) Cents {
	var total Cents
	for _, a := range amounts {
		total += a
	}
	return total
}
