// Package core provides money parsing and handling utilities.
//
// Amounts are held as integer cents. Parsing and formatting go through
// decimal so that two-decimal values never pick up float rounding.
package core

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseMoney converts a decimal string to Money with half-up rounding to cents.
//
// It accepts an optional leading currency sign, comma thousands grouping
// (1,234.56) and a decimal comma with at most two digits (12,34). A comma
// followed by exactly three digits is always grouping. Negative values,
// exponents and any other form are rejected; zero is allowed here because a
// winning ticket may carry a zero prize. Use Money.Validate when a strictly
// positive amount is required.
//
// Examples:
//
//	ParseMoney("12.34")     -> 1234 cents
//	ParseMoney("$1,000")    -> 100000 cents
//	ParseMoney("12,34")     -> 1234 cents
//	ParseMoney("12.345")    -> 1235 cents
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	switch {
	case plainAmount.MatchString(s):
	case groupedAmount.MatchString(s):
		s = strings.ReplaceAll(s, ",", "")
	case decimalComma.MatchString(s):
		s = strings.Replace(s, ",", ".", 1)
	default:
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	cents := d.Round(2).Shift(2)
	if !cents.IsInteger() || cents.GreaterThan(decimal.NewFromInt(maxCents)) {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: cents.IntPart()}, nil
}

var (
	plainAmount   = regexp.MustCompile(`^\d+(\.\d+)?$`)
	groupedAmount = regexp.MustCompile(`^\d{1,3}(,\d{3})+(\.\d+)?$`)
	decimalComma  = regexp.MustCompile(`^\d+,\d{1,2}$`)
)

const maxCents = (1<<63 - 1) / 100

// NewMoney builds Money from whole dollars and cents.
func NewMoney(dollars, cents int64) Money {
	return Money{Cents: dollars*100 + cents}
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

func (m Money) Sub(o Money) Money {
	return Money{Cents: m.Cents - o.Cents}
}

// Decimal returns the amount in currency units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// String formats the amount as $1,234.56 (negative as -$1,234.56).
func (m Money) String() string {
	d := m.Decimal()
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	fixed := d.StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")
	return sign + "$" + groupThousands(intPart) + "." + frac
}

func groupThousands(s string) string {
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
