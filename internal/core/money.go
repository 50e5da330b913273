// Package core provides the savings data model, the dashboard aggregation
// and money handling utilities.
//
// Amounts are kept as int64 minor units (sen) everywhere; only the display
// helpers in this file convert them to whole rupiah.
package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("invalid amount")

// ParseCents parses a stored minor-unit amount. Stores and spreadsheets may
// render integers with thousands separators or a trailing ".0", so both are
// tolerated. Negative and fractional minor units are rejected.
//
// Examples:
//   ParseCents("150000")    -> 150000, nil
//   ParseCents("150,000")   -> 150000, nil
//   ParseCents("150000.00") -> 150000, nil
//   ParseCents("12.5")      -> 0, ErrInvalidAmount
func ParseCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if d.IsNegative() || !d.IsInteger() {
		return 0, ErrInvalidAmount
	}
	return d.IntPart(), nil
}

// Rupiah returns the whole-rupiah value, rounded down.
func (m Money) Rupiah() decimal.Decimal {
	return decimal.NewFromInt(m.Cents).Div(hundred).Floor()
}

// FormatRupiah renders cents as "Rp 1.234.567". Negative amounts display as
// Rp 0, matching how the dashboard has always shown overdrawn totals.
func FormatRupiah(cents int64) string {
	if cents < 0 {
		cents = 0
	}
	digits := Money{Cents: cents}.Rupiah().String()
	return "Rp " + groupThousands(digits)
}

// FormatPercent renders a progress percentage with no decimals.
func FormatPercent(pct float64) string {
	return decimal.NewFromFloat(pct).Round(0).String() + "%"
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
