package swap

import (
	"fmt"
	"strings"

	"fxswap/internal/domain"

	"github.com/shopspring/decimal"
)

// Catalog is what transitions need to know about supported currencies.
type Catalog interface {
	PairEligible(from, to string) bool
	ValidatePair(source, destination string) error
}

// Env carries the collaborators transitions read from.
type Env struct {
	Catalog Catalog
	Rules   []Rule
}

// Apply computes the session that results from ev and the effects to run.
// On error the input session is returned untouched and no effect is produced.
// Rejected-but-harmless events (stale quotes, FIXED on an ineligible pair) are
// not errors: they simply leave the session as it was.
func Apply(current Session, ev Event, env Env) (Session, []Effect, error) {
	var (
		next    Session
		effects []Effect
		err     error
	)

	switch e := ev.(type) {
	case EditAmount:
		next, effects, err = editAmount(current, e.Field, e.Value)
	case ChangeDestination:
		next, effects, err = changeDestination(current, e.Symbol, env)
	case SelectRateMode:
		next, effects, err = selectRateMode(current, e.Mode)
	case Submit:
		next, effects, err = submit(current, env)
	case QuoteDue:
		next, effects = quoteDue(current, e.Request)
	case QuoteResolved:
		next = quoteResolved(current, e.Request, e.Result)
	case SubmitResolved:
		next = submitResolved(current, e.Err)
	default:
		err = fmt.Errorf("unsupported event %T", ev)
	}
	if err != nil {
		return current, nil, err
	}

	next.ValidationErrors = Validate(next, env.Rules)
	return next, effects, nil
}

func editable(s Session) error {
	if s.Submitted {
		return domain.ErrAlreadySubmitted
	}
	if s.Submitting {
		return domain.ErrSubmitInFlight
	}
	return nil
}

func editAmount(s Session, x domain.Field, raw string) (Session, []Effect, error) {
	if err := editable(s); err != nil {
		return s, nil, err
	}
	v, err := domain.NormalizeAmount(raw, s.field(x).Decimals)
	if err != nil {
		return s, nil, err
	}
	if x == domain.FieldTo {
		// the destination amount only drives fixed quotes
		if !s.FixedRateEligible {
			return s, nil, nil
		}
		s.RateMode = domain.RateFixed
	}
	next, effects := requote(s, x, v)
	return next, effects, nil
}

// requote sets field x to v and starts computing the other field from it.
func requote(s Session, x domain.Field, v string) (Session, []Effect) {
	y := x.Other()

	edited := s.field(x)
	edited.Value, edited.Loading = v, false
	s.setField(x, edited)
	s.pending[x] = 0

	s.seq++
	s.pending[y] = s.seq
	dependent := s.field(y)
	dependent.Value, dependent.Loading = "", true
	s.setField(y, dependent)
	s.SubmitError = ""

	req := domain.QuoteRequest{Seq: s.seq, Target: y, Amount: v, Mode: s.RateMode}
	if y == domain.FieldTo {
		req.FromSymbol, req.ToSymbol = s.SourceCurrency, s.DestinationCurrency
	} else {
		req.FromSymbol, req.ToSymbol = s.DestinationCurrency, s.SourceCurrency
	}
	return s, []Effect{ScheduleQuote{Request: req}}
}

func changeDestination(s Session, symbol string, env Env) (Session, []Effect, error) {
	if err := editable(s); err != nil {
		return s, nil, err
	}
	symbol = domain.NormalizeSymbol(symbol)
	if err := env.Catalog.ValidatePair(s.SourceCurrency, symbol); err != nil {
		return s, nil, err
	}

	s.DestinationCurrency = symbol
	s.FixedRateEligible = env.Catalog.PairEligible(s.SourceCurrency, symbol)
	// a new pair has to re-establish eligibility before FIXED is offered again
	s.RateMode = domain.RateFloating
	next, effects := requote(s, domain.FieldFrom, s.From.Value)
	return next, effects, nil
}

func selectRateMode(s Session, mode domain.RateMode) (Session, []Effect, error) {
	if err := editable(s); err != nil {
		return s, nil, err
	}
	switch mode {
	case domain.RateFloating:
	case domain.RateFixed:
		if !s.FixedRateEligible {
			return s, nil, nil
		}
	default:
		return s, nil, domain.ErrInvalidRateMode
	}

	s.RateMode = mode
	next, effects := requote(s, domain.FieldFrom, s.From.Value)
	return next, effects, nil
}

func submit(s Session, env Env) (Session, []Effect, error) {
	if err := editable(s); err != nil {
		return s, nil, err
	}
	if s.Loading() {
		return s, nil, domain.ErrQuotePending
	}
	if msgs := Validate(s, env.Rules); len(msgs) > 0 {
		return s, nil, fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(msgs, "; "))
	}

	s.Submitting = true
	s.SubmitError = ""
	return s, []Effect{SendSwap{Request: domain.SwapRequest{
		FromSymbol: s.SourceCurrency,
		ToSymbol:   s.DestinationCurrency,
		Amount:     s.From.Value,
		FixedRate:  s.RateMode == domain.RateFixed,
	}}}, nil
}

func isLatest(s Session, req domain.QuoteRequest) bool {
	return req.Seq != 0 && s.pending[req.Target] == req.Seq && s.field(req.Target).Loading
}

func quoteDue(s Session, req domain.QuoteRequest) (Session, []Effect) {
	if !isLatest(s, req) {
		return s, nil
	}
	return s, []Effect{FetchQuote{Request: req}}
}

func quoteResolved(s Session, req domain.QuoteRequest, res domain.QuoteResult) Session {
	if !isLatest(s, req) {
		return s
	}

	target := s.field(req.Target)
	target.Loading = false
	s.pending[req.Target] = 0
	s.Quote = domain.QuoteResult{}
	target.Value = ""

	if res.Available() {
		if v, err := domain.NormalizeAmount(res.ConvertedAmount, target.Decimals); err == nil && v != "" {
			target.Value = v
			s.Quote = domain.QuoteResult{Rate: sourceRate(req.Target, res.Rate), ConvertedAmount: v}
		}
	}
	s.setField(req.Target, target)
	return s
}

// sourceRate expresses rate as destination units per source unit. Quotes for the
// from field are requested in the reverse direction.
func sourceRate(target domain.Field, rate decimal.NullDecimal) decimal.NullDecimal {
	if target == domain.FieldTo || !rate.Valid {
		return rate
	}
	if rate.Decimal.IsZero() {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.NewFromInt(1).Div(rate.Decimal))
}

func submitResolved(s Session, err error) Session {
	if !s.Submitting {
		return s
	}
	s.Submitting = false
	if err != nil {
		s.SubmitError = err.Error()
		return s
	}
	s.Submitted = true
	return s
}
