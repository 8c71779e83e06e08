package handler

import "fxswap/internal/swap"

type AmountResponse struct {
	Value    string `json:"value" example:"0.5"`
	Decimals int32  `json:"decimals" example:"8"`
	Loading  bool   `json:"loading" example:"false"`
}

type SessionResponse struct {
	ID                  string         `json:"id" example:"77b5d9f5-0569-47e3-aee2-f659d59fbd97"`
	SourceCurrency      string         `json:"source_currency" example:"BTC"`
	DestinationCurrency string         `json:"destination_currency" example:"ETH"`
	From                AmountResponse `json:"from"`
	To                  AmountResponse `json:"to"`
	RateMode            string         `json:"rate_mode" example:"floating"`
	FixedRateEligible   bool           `json:"fixed_rate_eligible" example:"true"`
	Rate                *string        `json:"rate" example:"15.2"`
	Loading             bool           `json:"loading" example:"false"`
	CanSubmit           bool           `json:"can_submit" example:"true"`
	Submitting          bool           `json:"submitting" example:"false"`
	Submitted           bool           `json:"submitted" example:"false"`
	SubmitError         string         `json:"submit_error,omitempty"`
	ValidationErrors    []string       `json:"validation_errors"`
}

func toSessionResponse(s swap.Session) SessionResponse {
	res := SessionResponse{
		ID:                  s.ID.String(),
		SourceCurrency:      s.SourceCurrency,
		DestinationCurrency: s.DestinationCurrency,
		From:                AmountResponse{Value: s.From.Value, Decimals: s.From.Decimals, Loading: s.From.Loading},
		To:                  AmountResponse{Value: s.To.Value, Decimals: s.To.Decimals, Loading: s.To.Loading},
		RateMode:            string(s.RateMode),
		FixedRateEligible:   s.FixedRateEligible,
		Loading:             s.Loading(),
		CanSubmit:           s.CanSubmit(),
		Submitting:          s.Submitting,
		Submitted:           s.Submitted,
		SubmitError:         s.SubmitError,
		ValidationErrors:    s.ValidationErrors,
	}
	if res.ValidationErrors == nil {
		res.ValidationErrors = []string{}
	}
	if s.Quote.Rate.Valid {
		rate := s.Quote.Rate.Decimal.String()
		res.Rate = &rate
	}
	return res
}
