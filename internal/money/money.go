// Package money represents bill amounts as integer cents.
//
// Amounts are stored in minor units so repeated summation never drifts. Parsing
// and any arithmetic that needs more than cent precision (proportional shares)
// goes through shopspring/decimal.
package money

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a non-negative monetary value in cents.
type Amount int64

const (
	// MinCandidate is the smallest amount accepted as a candidate price (0.01).
	MinCandidate Amount = 1
	// MaxCandidate is the largest amount accepted as a candidate price (10000.00).
	MaxCandidate Amount = 1_000_000
)

// ErrInvalidAmount is returned when a string cannot be read as a non-negative amount.
var ErrInvalidAmount = errors.New("invalid amount")

var hundred = decimal.NewFromInt(100)

// maxParsable is the largest value whose cent count fits in an Amount.
var maxParsable = decimal.NewFromInt(math.MaxInt64 / 100)

// maxInputLen bounds the text handed to the decimal parser.
const maxInputLen = 32

// Parse reads a user- or OCR-supplied amount such as "12.99", "$12.99",
// "$ 12.99" or "12". Values with more than two fractional digits are rounded
// half-up to cents. Exponent notation and values too large to count in cents
// are rejected.
func Parse(s string) (Amount, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	if len(cleaned) > maxInputLen || strings.ContainsAny(cleaned, "eE") {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("%w: %q is negative", ErrInvalidAmount, s)
	}
	if d.GreaterThan(maxParsable) {
		return 0, fmt.Errorf("%w: %q is too large", ErrInvalidAmount, s)
	}
	return FromDecimal(d), nil
}

// MustParse is Parse for constants in tests and examples. It panics on error.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// FromDecimal rounds d half-up to the nearest cent.
func FromDecimal(d decimal.Decimal) Amount {
	return Amount(d.Mul(hundred).Round(0).IntPart())
}

// Decimal returns the amount in major units with full precision.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -2)
}

// InCandidateRange reports whether a lies in [MinCandidate, MaxCandidate].
func (a Amount) InCandidateRange() bool {
	return a >= MinCandidate && a <= MaxCandidate
}

// String formats the amount with exactly two fractional digits.
func (a Amount) String() string {
	return a.Decimal().StringFixed(2)
}

// Sum adds up amounts.
func Sum(amounts ...Amount) Amount {
	var total Amount
	for _, a := range amounts {
		total += a
	}
	return total
}
