// Package core provides the domain model and the pure calculation engine:
// money handling, the Monday/Wednesday schedule calculator and the monthly
// dues aggregator.
package core

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Money is a whole-VND amount. VND has no minor unit, so prices are plain
// non-negative integers.
type Money struct {
	VND int64
}

func (m Money) Validate() error {
	if m.VND < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.VND == 0
}

// RoundUpToThousand rounds a non-negative amount up to the next multiple of
// 1000 VND. For any x >= 0: result >= x, result%1000 == 0, result-x < 1000.
func RoundUpToThousand(x float64) Money {
	if x <= 0 {
		return Money{}
	}
	return Money{VND: int64(math.Ceil(x/1000.0)) * 1000}
}

// CeilThousand applies the display rounding convention to a stored amount.
func (m Money) CeilThousand() Money {
	return RoundUpToThousand(float64(m.VND))
}

// ParseAmount converts a user-entered amount string to Money.
//
// An empty string parses to zero: a missing numeric field on submit is
// coerced to 0 rather than rejected. Grouping separators (dots, commas,
// spaces) are stripped, so "2.000.000" and "2000000" are equivalent.
// Negative values and non-numeric input are errors.
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, nil
	}
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return Money{}, ErrInvalidAmount
	}
	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '.' || r == ',' || r == ' ':
			// grouping separator
		default:
			return Money{}, ErrInvalidAmount
		}
	}
	if b.Len() == 0 {
		return Money{}, ErrInvalidAmount
	}
	v, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	return Money{VND: v}, nil
}

// FormatVND renders an amount with thousand separators and the currency
// suffix, e.g. "250.000 VND".
func FormatVND(m Money) string {
	s := strconv.FormatInt(m.VND, 10)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return b.String() + " VND"
}
