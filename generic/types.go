/*
Package generic provides the domain-agnostic calendar primitives.

PURPOSE:
  This package contains the date, period and quantity types shared by the
  team calendar engine. Nothing in here knows about groups, members or
  leave records; the teamview package builds on these types.

KEY CONCEPTS IN THIS FILE (types.go):
  - Fraction: A share of a single day (1 = whole day, 0.5 = half day)
  - Identifiers: Type-safe organization IDs

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal so half days add up to exactly one day
  2. Type Safety: Strong typing for IDs prevents mixing identifiers
  3. Immutability: Every operation returns a new value

USAGE:
  morning := generic.HalfDay()
  afternoon := generic.HalfDay()
  morning.Add(afternoon).IsFull() // true

SEE ALSO:
  - time.go: TimePoint and Holiday
  - period.go: Period and PeriodFor
  - errors.go: Sentinel errors
*/
package generic

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// FRACTION - Share of a single day
// =============================================================================

// Fraction is the portion of a day covered by something (a leave, a shift).
// Valid values are in [0, 1]; Add caps at one full day.
type Fraction struct {
	Value decimal.Decimal
}

var (
	fractionOne  = decimal.NewFromInt(1)
	fractionHalf = decimal.NewFromFloat(0.5)
)

func FullDay() Fraction { return Fraction{Value: fractionOne} }
func HalfDay() Fraction { return Fraction{Value: fractionHalf} }
func NoDay() Fraction   { return Fraction{Value: decimal.Zero} }

func NewFraction(value float64) Fraction {
	return Fraction{Value: decimal.NewFromFloat(value)}.clamp()
}

func (f Fraction) Add(o Fraction) Fraction { return Fraction{Value: f.Value.Add(o.Value)}.clamp() }
func (f Fraction) IsFull() bool           { return f.Value.GreaterThanOrEqual(fractionOne) }
func (f Fraction) IsZero() bool           { return f.Value.IsZero() }
func (f Fraction) Equal(o Fraction) bool  { return f.Value.Equal(o.Value) }
func (f Fraction) String() string         { return f.Value.String() }
func (f Fraction) Float64() float64       { v, _ := f.Value.Float64(); return v }

func (f Fraction) clamp() Fraction {
	if f.Value.GreaterThan(fractionOne) {
		return Fraction{Value: fractionOne}
	}
	if f.Value.IsNegative() {
		return Fraction{Value: decimal.Zero}
	}
	return f
}

// MarshalJSON renders the fraction as a JSON number.
func (f Fraction) MarshalJSON() ([]byte, error) {
	return []byte(f.Value.String()), nil
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

// OrganizationID identifies the company that owns holidays and schedules.
type OrganizationID string
