package swap

import (
	"fxswap/internal/domain"

	"github.com/google/uuid"
)

// Session is the whole state of one swap. It is a plain value: only Apply
// produces new versions of it and the Controller owns the current one.
type Session struct {
	ID                  uuid.UUID
	SourceCurrency      string
	DestinationCurrency string
	From                domain.AmountField
	To                  domain.AmountField
	RateMode            domain.RateMode
	FixedRateEligible   bool
	Quote               domain.QuoteResult
	Submitting          bool
	Submitted           bool
	SubmitError         string
	ValidationErrors    []string

	seq     uint64
	pending [2]uint64 // latest quote sequence per field, 0 when nothing is pending
}

func NewSession(id uuid.UUID, source, destination string, decimals int32, fixedEligible bool) Session {
	return Session{
		ID:                  id,
		SourceCurrency:      source,
		DestinationCurrency: destination,
		From:                domain.AmountField{Decimals: decimals},
		To:                  domain.AmountField{Decimals: decimals},
		RateMode:            domain.RateFloating,
		FixedRateEligible:   fixedEligible,
	}
}

// Loading reports whether a quote is being computed for either field.
func (s Session) Loading() bool {
	return s.From.Loading || s.To.Loading
}

// CanSubmit mirrors the submit guard without side effects.
func (s Session) CanSubmit() bool {
	return !s.Loading() && !s.Submitting && !s.Submitted && len(s.ValidationErrors) == 0
}

func (s Session) field(f domain.Field) domain.AmountField {
	if f == domain.FieldFrom {
		return s.From
	}
	return s.To
}

func (s *Session) setField(f domain.Field, v domain.AmountField) {
	if f == domain.FieldFrom {
		s.From = v
	} else {
		s.To = v
	}
}
