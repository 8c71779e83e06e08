package domain

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultDecimals is the number of fractional digits kept for both amount fields.
const DefaultDecimals int32 = 8

// Field identifies one of the two coupled amount fields of a swap session.
type Field int

const (
	FieldFrom Field = iota
	FieldTo
)

func (f Field) Other() Field {
	if f == FieldFrom {
		return FieldTo
	}
	return FieldFrom
}

func (f Field) String() string {
	if f == FieldFrom {
		return "from"
	}
	return "to"
}

// ParseField accepts "from" or "to", case-insensitive.
func ParseField(raw string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "from":
		return FieldFrom, nil
	case "to":
		return FieldTo, nil
	}
	return 0, ErrUnknownField
}

// AmountField is the state of one amount input.
// Value is either empty or a non-negative number with at most Decimals fractional digits.
type AmountField struct {
	Value    string `json:"value"`
	Decimals int32  `json:"decimals"`
	Loading  bool   `json:"loading"`
}

const (
	maxAmountLen      = 64
	maxIntegerDigits  = 40
	maxFractionDigits = 64
)

// ParseDecimal parses a non-negative number of bounded size. Anything longer than 64
// characters, with more than 40 integer digits or more than 64 fractional digits is
// rejected with ErrInvalidAmount, so exponent notation cannot blow up later rescaling
// or printing.
func ParseDecimal(raw string) (decimal.Decimal, error) {
	if len(raw) > maxAmountLen {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	if d.Exponent() < -maxFractionDigits || d.NumDigits()+int(d.Exponent()) > maxIntegerDigits {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	return d, nil
}

// plainAmount is the canonical form: no sign, no leading zeros, digits after any dot.
var plainAmount = regexp.MustCompile(`^(0|[1-9][0-9]*)(\.[0-9]+)?$`)

// NormalizeAmount validates raw and truncates it to decimals fractional digits.
// Comma decimal separators are accepted. Canonical values that already fit are returned
// as typed so trailing zeros survive ("15.00000000" stays as is); anything else ("+1",
// ".5", "007", "1e2") is rewritten in canonical form. Size limits are those of ParseDecimal.
func NormalizeAmount(raw string, decimals int32) (string, error) {
	v := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if v == "" {
		return "", nil
	}
	d, err := ParseDecimal(v)
	if err != nil {
		return "", err
	}
	if -d.Exponent() > decimals {
		return d.Truncate(decimals).StringFixed(decimals), nil
	}
	if plainAmount.MatchString(v) {
		return v, nil
	}
	return d.String(), nil
}
