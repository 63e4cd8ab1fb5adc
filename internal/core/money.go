// Package core provides the budget domain primitives shared by every other
// package: fixed-precision money, calendar dates and the error taxonomy.
//
// Money is held as an integer number of pence. All arithmetic stays on int64
// so equality and zero tests are exact; floats appear only at the display
// boundary.
package core

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Money is an amount in minor units (pence). Positive amounts are income or
// credits, negative amounts are payments.
type Money struct {
	Pence int64
}

// ParseDecimalToPence converts a positive decimal string to pence with
// half-up rounding on the third decimal place.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. Signs are
// rejected: user-entered amounts are always positive, direction is decided by
// the operation. Returns ErrInvalidAmount for malformed, negative or zero
// input.
//
// Examples:
//
//	ParseDecimalToPence("12.34")  -> 1234, nil
//	ParseDecimalToPence("12,34")  -> 1234, nil
//	ParseDecimalToPence("12.345") -> 1234, nil (rounds down)
//	ParseDecimalToPence("12.346") -> 1235, nil (rounds up)
func ParseDecimalToPence(s string) (int64, error) {
	if strings.HasPrefix(strings.TrimSpace(s), "+") || strings.HasPrefix(strings.TrimSpace(s), "-") {
		return 0, ErrInvalidAmount
	}
	pence, err := parseAbsolutePence(s)
	if err != nil {
		return 0, err
	}
	if pence <= 0 {
		return 0, ErrInvalidAmount
	}
	return pence, nil
}

// parseAbsolutePence parses an unsigned decimal string. Zero is allowed here;
// the callers decide whether zero is acceptable.
func parseAbsolutePence(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Prevent overflow when multiplying by 100
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	// Take first two fractional digits; then half-up rounding on third
	var fracPence int64 = 0
	if len(fracPart) > 0 {
		d1 := int64(fracPart[0] - '0')
		fracPence = d1 * 10
		if len(fracPart) > 1 {
			d2 := int64(fracPart[1] - '0')
			fracPence += d2
			if len(fracPart) > 2 {
				if fracPart[2] >= '5' {
					fracPence++
				}
			}
		}
	}
	return iv*100 + fracPence, nil
}

// ParseMoney parses a positive decimal string into Money.
func ParseMoney(s string) (Money, error) {
	p, err := ParseDecimalToPence(s)
	if err != nil {
		return Money{}, err
	}
	return Money{Pence: p}, nil
}

// ParseCellMoney parses a stored table cell, which may carry a leading sign
// and may legitimately be zero (a category balance drained to nothing).
func ParseCellMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	p, err := parseAbsolutePence(s)
	if err != nil {
		return Money{}, err
	}
	if neg {
		p = -p
	}
	return Money{Pence: p}, nil
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{Pence: m.Pence + other.Pence}
}

// Sub returns m - other.
func (m Money) Sub(other Money) Money {
	return Money{Pence: m.Pence - other.Pence}
}

// Neg returns the amount with its sign flipped.
func (m Money) Neg() Money {
	return Money{Pence: -m.Pence}
}

func (m Money) IsZero() bool     { return m.Pence == 0 }
func (m Money) IsPositive() bool { return m.Pence > 0 }
func (m Money) IsNegative() bool { return m.Pence < 0 }

// GreaterThan reports m > other.
func (m Money) GreaterThan(other Money) bool { return m.Pence > other.Pence }

// Pounds returns the value as a float64 for display purposes only.
// Use pence for every calculation and comparison.
func (m Money) Pounds() float64 {
	return float64(m.Pence) / 100.0
}

// String renders the amount as a signed two-decimal string, e.g. "-40.00".
// This is also the storage cell format.
func (m Money) String() string {
	p := m.Pence
	sign := ""
	if p < 0 {
		sign = "-"
		p = -p
	}
	return fmt.Sprintf("%s%d.%02d", sign, p/100, p%100)
}

// Validate reports whether the amount is usable as an operation input
// (strictly positive).
func (m Money) Validate() error {
	if m.Pence <= 0 {
		return ErrInvalidAmount
	}
	return nil
}
