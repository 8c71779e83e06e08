package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

type RateMode string

const (
	RateFloating RateMode = "floating"
	RateFixed    RateMode = "fixed"
)

func ParseRateMode(raw string) (RateMode, error) {
	switch RateMode(strings.ToLower(strings.TrimSpace(raw))) {
	case RateFloating:
		return RateFloating, nil
	case RateFixed:
		return RateFixed, nil
	}
	return "", ErrInvalidRateMode
}

// QuoteResult is an estimate for a pair. The zero value means "no quote available".
type QuoteResult struct {
	Rate            decimal.NullDecimal `json:"rate"`
	ConvertedAmount string              `json:"converted_amount,omitempty"`
}

func (q QuoteResult) Available() bool {
	return q.ConvertedAmount != ""
}

// QuoteRequest is a pending estimate for the Target field, numbered by Seq.
type QuoteRequest struct {
	Seq        uint64
	Target     Field
	FromSymbol string
	ToSymbol   string
	Amount     string
	Mode       RateMode
}

// SwapRequest is what gets sent to the exchange on submit.
type SwapRequest struct {
	FromSymbol string
	ToSymbol   string
	Amount     string
	FixedRate  bool
}
