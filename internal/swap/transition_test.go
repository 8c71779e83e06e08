package swap

import (
	"errors"
	"math/rand"
	"testing"

	"fxswap/internal/catalog"
	"fxswap/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func testCatalog() *catalog.Catalog {
	c := catalog.New()
	c.Load([]domain.CurrencyInfo{
		{Symbol: "BTC", FixedRateEligible: true},
		{Symbol: "ETH", FixedRateEligible: true},
		{Symbol: "DOGE", FixedRateEligible: false},
	})
	return c
}

func testEnv(rules ...Rule) Env {
	return Env{Catalog: testCatalog(), Rules: rules}
}

func newTestSession(env Env, source, destination string) Session {
	return NewSession(uuid.New(), source, destination, domain.DefaultDecimals, env.Catalog.PairEligible(source, destination))
}

func mustApply(t *testing.T, s Session, ev Event, env Env) (Session, []Effect) {
	t.Helper()
	next, effects, err := Apply(s, ev, env)
	require.NoError(t, err)
	require.False(t, next.From.Loading && next.To.Loading, "both fields loading after %T", ev)
	return next, effects
}

func scheduled(t *testing.T, effects []Effect) domain.QuoteRequest {
	t.Helper()
	require.Len(t, effects, 1)
	sq, ok := effects[0].(ScheduleQuote)
	require.True(t, ok, "expected ScheduleQuote, got %T", effects[0])
	return sq.Request
}

func TestApply_RoundTrip(t *testing.T) {
	env := testEnv()
	s := newTestSession(env, "BTC", "ETH")
	require.True(t, s.FixedRateEligible)
	require.Equal(t, domain.RateFloating, s.RateMode)

	s, effects := mustApply(t, s, EditAmount{Field: domain.FieldFrom, Value: "1"}, env)
	req := scheduled(t, effects)
	require.Equal(t, "BTC", req.FromSymbol)
	require.Equal(t, "ETH", req.ToSymbol)
	require.Equal(t, "1", req.Amount)
	require.Equal(t, domain.RateFloating, req.Mode)
	require.Equal(t, domain.FieldTo, req.Target)
	require.Equal(t, "1", s.From.Value)
	require.True(t, s.To.Loading)
	require.Empty(t, s.To.Value)

	s, effects = mustApply(t, s, QuoteDue{Request: req}, env)
	require.Equal(t, []Effect{FetchQuote{Request: req}}, effects)

	s, effects = mustApply(t, s, QuoteResolved{Request: req, Result: domain.QuoteResult{
		Rate:            decimal.NewNullDecimal(decimal.NewFromInt(15)),
		ConvertedAmount: "15.00000000",
	}}, env)
	require.Empty(t, effects)
	require.Equal(t, "15.00000000", s.To.Value)
	require.False(t, s.To.Loading)
	require.True(t, s.Quote.Rate.Decimal.Equal(decimal.NewFromInt(15)))
}

func TestApply_QuoteFailureClearsField(t *testing.T) {
	env := testEnv()
	s := newTestSession(env, "BTC", "ETH")

	s, effects := mustApply(t, s, EditAmount{Field: domain.FieldFrom, Value: "1"}, env)
	req := scheduled(t, effects)
	s, _ = mustApply(t, s, QuoteResolved{Request: req, Result: domain.QuoteResult{}}, env)

	require.False(t, s.To.Loading)
	require.Empty(t, s.To.Value)
	require.False(t, s.Quote.Rate.Valid)
	require.Equal(t, "1", s.From.Value)
}

func TestApply_StaleResponseDiscarded(t *testing.T) {
	env := testEnv()
	s := newTestSession(env, "BTC", "ETH")

	s, effects := mustApply(t, s, EditAmount{Field: domain.FieldFrom, Value: "1"}, env)
	first := scheduled(t, effects)
	s, effects = mustApply(t, s, EditAmount{Field: domain.FieldFrom, Value: "2"}, env)
	second := scheduled(t, effects)
	require.Greater(t, second.Seq, first.Seq)

	// the older fire is dropped before reaching the network
	_, effects = mustApply(t, s, QuoteDue{Request: first}, env)
	require.Empty(t, effects)

	// an older response arriving first leaves the field loading
	s, _ = mustApply(t, s, QuoteResolved{Request: first, Result: domain.QuoteResult{ConvertedAmount: "15"}}, env)
	require.True(t, s.To.Loading)
	require.Empty(t, s.To.Value)

	s, _ = mustApply(t, s, QuoteResolved{Request: second, Result: domain.QuoteResult{ConvertedAmount: "30"}}, env)
	require.False(t, s.To.Loading)
	require.Equal(t, "30", s.To.Value)

	// and once settled, the late one still cannot overwrite
	s, _ = mustApply(t, s, QuoteResolved{Request: first, Result: domain.QuoteResult{ConvertedAmount: "15"}}, env)
	require.Equal(t, "30", s.To.Value)
}

func TestApply_LastEditedFieldWins(t *testing.T) {
	env := testEnv()
	s := newTestSession(env, "BTC", "ETH")

	s, effects := mustApply(t, s, EditAmount{Field: domain.FieldFrom, Value: "1"}, env)
	toReq := scheduled(t, effects)
	s, effects = mustApply(t, s, EditAmount{Field: domain.FieldTo, Value: "30"}, env)
	fromReq := scheduled(t, effects)

	require.False(t, s.To.Loading)
	require.True(t, s.From.Loading)
	require.Equal(t, domain.FieldFrom, fromReq.Target)

	s, _ = mustApply(t, s, QuoteResolved{Request: toReq, Result: domain.QuoteResult{ConvertedAmount: "15"}}, env)
	require.Equal(t, "30", s.To.Value)
	require.True(t, s.From.Loading)
}

func TestApply_EditDestinationAmountSwitchesToFixed(t *testing.T) {
	env := testEnv()
	s := newTestSession(env, "BTC", "ETH")

	s, effects := mustApply(t, s, EditAmount{Field: domain.FieldTo, Value: "30"}, env)
	req := scheduled(t, effects)
	require.Equal(t, domain.RateFixed, s.RateMode)
	require.Equal(t, domain.QuoteRequest{
		Seq: req.Seq, Target: domain.FieldFrom, FromSymbol: "ETH", ToSymbol: "BTC", Amount: "30", Mode: domain.RateFixed,
	}, req)
	require.True(t, s.From.Loading)

	s, _ = mustApply(t, s, QuoteResolved{Request: req, Result: domain.QuoteResult{
		Rate:            decimal.NewNullDecimal(decimal.RequireFromString("0.05")),
		ConvertedAmount: "1.5",
	}}, env)
	require.Equal(t, "1.5", s.From.Value)
	require.False(t, s.From.Loading)
	require.True(t, s.Quote.Rate.Decimal.Equal(decimal.NewFromInt(20)), "rate is expressed source to destination")
}

func TestApply_EditDestinationAmountIgnoredWhenIneligible(t *testing.T) {
	env := testEnv()
	s := newTestSession(env, "BTC", "DOGE")

	next, effects := mustApply(t, s, EditAmount{Field: domain.FieldTo, Value: "30"}, env)
	require.Empty(t, effects)
	require.Equal(t, domain.RateFloating, next.RateMode)
	require.Empty(t, next.To.Value)
	require.False(t, next.From.Loading)
}

func TestApply_IneligibleFixedToggleRejected(t *testing.T) {
	env := testEnv()
	s := newTestSession(env, "BTC", "DOGE")
	require.False(t, s.FixedRateEligible)

	s, effects := mustApply(t, s, SelectRateMode{Mode: domain.RateFixed}, env)
	require.Empty(t, effects)
	require.Equal(t, domain.RateFloating, s.RateMode)
}

func TestApply_SelectRateModeRequotes(t *testing.T) {
	env := testEnv()
	s := newTestSession(env, "BTC", "ETH")
	s, effects := mustApply(t, s, EditAmount{Field: domain.FieldFrom, Value: "1"}, env)
	req := scheduled(t, effects)
	s, _ = mustApply(t, s, QuoteResolved{Request: req, Result: domain.QuoteResult{ConvertedAmount: "15"}}, env)

	s, effects = mustApply(t, s, SelectRateMode{Mode: domain.RateFixed}, env)
	req = scheduled(t, effects)
	require.Equal(t, domain.RateFixed, s.RateMode)
	require.Equal(t, domain.RateFixed, req.Mode)
	require.Equal(t, "1", req.Amount)
	require.True(t, s.To.Loading)

	_, _, err := Apply(s, SelectRateMode{Mode: "locked"}, env)
	require.ErrorIs(t, err, domain.ErrInvalidRateMode)
}

func TestApply_ChangeDestination(t *testing.T) {
	env := testEnv()
	s := newTestSession(env, "BTC", "ETH")
	s, effects := mustApply(t, s, EditAmount{Field: domain.FieldTo, Value: "30"}, env)
	req := scheduled(t, effects)
	s, _ = mustApply(t, s, QuoteResolved{Request: req, Result: domain.QuoteResult{ConvertedAmount: "2"}}, env)
	require.Equal(t, domain.RateFixed, s.RateMode)

	s, effects = mustApply(t, s, ChangeDestination{Symbol: "doge"}, env)
	req = scheduled(t, effects)
	require.Equal(t, "DOGE", s.DestinationCurrency)
	require.False(t, s.FixedRateEligible)
	require.Equal(t, domain.RateFloating, s.RateMode)
	require.True(t, s.To.Loading)
	require.Equal(t, domain.QuoteRequest{
		Seq: req.Seq, Target: domain.FieldTo, FromSymbol: "BTC", ToSymbol: "DOGE", Amount: "2", Mode: domain.RateFloating,
	}, req)

	// eligibility comes back with an eligible destination
	s, _ = mustApply(t, s, ChangeDestination{Symbol: "ETH"}, env)
	require.True(t, s.FixedRateEligible)
	require.Equal(t, domain.RateFloating, s.RateMode)
}

func TestApply_ChangeDestinationValidated(t *testing.T) {
	env := testEnv()
	s := newTestSession(env, "BTC", "ETH")

	for symbol, wantErr := range map[string]error{
		"btc": domain.ErrSameCurrencies,
		"XRP": domain.ErrDestUnsupported,
		"":    domain.ErrDestinationRequired,
	} {
		next, effects, err := Apply(s, ChangeDestination{Symbol: symbol}, env)
		require.ErrorIs(t, err, wantErr)
		require.Nil(t, effects)
		require.Equal(t, s, next)
	}
}

func TestApply_InvalidAmountRejected(t *testing.T) {
	env := testEnv()
	s := newTestSession(env, "BTC", "ETH")

	next, effects, err := Apply(s, EditAmount{Field: domain.FieldFrom, Value: "-1"}, env)
	require.ErrorIs(t, err, domain.ErrInvalidAmount)
	require.Nil(t, effects)
	require.Equal(t, s, next)
}

func TestApply_AmountTruncatedToDecimals(t *testing.T) {
	env := testEnv()
	s := newTestSession(env, "BTC", "ETH")

	s, effects := mustApply(t, s, EditAmount{Field: domain.FieldFrom, Value: "0,123456789"}, env)
	require.Equal(t, "0.12345678", s.From.Value)
	require.Equal(t, "0.12345678", scheduled(t, effects).Amount)
}

func TestApply_SubmitGuardWhileLoading(t *testing.T) {
	env := testEnv(RequiredAmount)
	s := newTestSession(env, "BTC", "ETH")
	s, _ = mustApply(t, s, EditAmount{Field: domain.FieldFrom, Value: "1"}, env)
	require.True(t, s.To.Loading)

	next, effects, err := Apply(s, Submit{}, env)
	require.ErrorIs(t, err, domain.ErrQuotePending)
	require.Nil(t, effects)
	require.False(t, next.Submitting)
}

func TestApply_SubmitGuardValidation(t *testing.T) {
	env := testEnv(RequiredAmount, MaxBalance(decimal.NewFromInt(1)))
	s := newTestSession(env, "BTC", "ETH")

	_, _, err := Apply(s, Submit{}, env)
	require.ErrorIs(t, err, domain.ErrValidation)
	require.Contains(t, err.Error(), ErrAmountRequired.Error())

	s, effects := mustApply(t, s, EditAmount{Field: domain.FieldFrom, Value: "1.5"}, env)
	require.Equal(t, []string{"insufficient balance: enter value less or equal to 1 BTC"}, s.ValidationErrors)
	s, _ = mustApply(t, s, QuoteResolved{Request: scheduled(t, effects), Result: domain.QuoteResult{ConvertedAmount: "22.5"}}, env)
	require.False(t, s.CanSubmit())

	_, _, err = Apply(s, Submit{}, env)
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestApply_SubmitLifecycle(t *testing.T) {
	env := testEnv(RequiredAmount, MaxBalance(decimal.NewFromInt(1)))
	s := newTestSession(env, "BTC", "ETH")
	s, effects := mustApply(t, s, EditAmount{Field: domain.FieldFrom, Value: "1"}, env)
	s, _ = mustApply(t, s, QuoteResolved{Request: scheduled(t, effects), Result: domain.QuoteResult{ConvertedAmount: "15"}}, env)
	require.True(t, s.CanSubmit())

	s, effects = mustApply(t, s, Submit{}, env)
	require.True(t, s.Submitting)
	require.Equal(t, []Effect{SendSwap{Request: domain.SwapRequest{
		FromSymbol: "BTC", ToSymbol: "ETH", Amount: "1", FixedRate: false,
	}}}, effects)

	_, _, err := Apply(s, Submit{}, env)
	require.ErrorIs(t, err, domain.ErrSubmitInFlight)
	_, _, err = Apply(s, EditAmount{Field: domain.FieldFrom, Value: "0.5"}, env)
	require.ErrorIs(t, err, domain.ErrSubmitInFlight)

	// failure keeps the values and allows a retry
	failed, _ := mustApply(t, s, SubmitResolved{Err: errors.New("exchange unavailable")}, env)
	require.False(t, failed.Submitting)
	require.False(t, failed.Submitted)
	require.Equal(t, "exchange unavailable", failed.SubmitError)
	require.Equal(t, "1", failed.From.Value)
	require.Equal(t, "15", failed.To.Value)
	_, effects = mustApply(t, failed, Submit{}, env)
	require.Len(t, effects, 1)

	done, _ := mustApply(t, s, SubmitResolved{}, env)
	require.True(t, done.Submitted)
	require.False(t, done.Submitting)
	_, _, err = Apply(done, Submit{}, env)
	require.ErrorIs(t, err, domain.ErrAlreadySubmitted)
	_, _, err = Apply(done, ChangeDestination{Symbol: "DOGE"}, env)
	require.ErrorIs(t, err, domain.ErrAlreadySubmitted)
}

func TestApply_SubmitFixedRate(t *testing.T) {
	env := testEnv(RequiredAmount)
	s := newTestSession(env, "BTC", "ETH")
	s, effects := mustApply(t, s, EditAmount{Field: domain.FieldTo, Value: "15"}, env)
	s, _ = mustApply(t, s, QuoteResolved{Request: scheduled(t, effects), Result: domain.QuoteResult{ConvertedAmount: "1"}}, env)

	_, effects = mustApply(t, s, Submit{}, env)
	require.Equal(t, []Effect{SendSwap{Request: domain.SwapRequest{
		FromSymbol: "BTC", ToSymbol: "ETH", Amount: "1", FixedRate: true,
	}}}, effects)
}

func TestApply_UnknownEvent(t *testing.T) {
	type bogus struct{ Submit }
	_, _, err := Apply(Session{}, bogus{}, testEnv())
	require.Error(t, err)
}

func TestApply_LoadingFlagsNeverBothSet(t *testing.T) {
	env := testEnv(RequiredAmount)
	rng := rand.New(rand.NewSource(42))
	destinations := []string{"ETH", "DOGE"}

	for run := 0; run < 50; run++ {
		s := newTestSession(env, "BTC", "ETH")
		var issued []domain.QuoteRequest

		for step := 0; step < 40; step++ {
			var ev Event
			switch rng.Intn(6) {
			case 0:
				ev = EditAmount{Field: domain.FieldFrom, Value: decimal.NewFromInt(int64(rng.Intn(100))).String()}
			case 1:
				ev = EditAmount{Field: domain.FieldTo, Value: decimal.NewFromInt(int64(rng.Intn(100))).String()}
			case 2:
				ev = ChangeDestination{Symbol: destinations[rng.Intn(len(destinations))]}
			case 3:
				ev = SelectRateMode{Mode: []domain.RateMode{domain.RateFixed, domain.RateFloating}[rng.Intn(2)]}
			default:
				if len(issued) == 0 {
					continue
				}
				req := issued[rng.Intn(len(issued))]
				ev = QuoteResolved{Request: req, Result: domain.QuoteResult{ConvertedAmount: "1"}}
			}

			next, effects, err := Apply(s, ev, env)
			if err != nil {
				continue
			}
			require.False(t, next.From.Loading && next.To.Loading, "run %d step %d", run, step)
			for _, eff := range effects {
				if sq, ok := eff.(ScheduleQuote); ok {
					issued = append(issued, sq.Request)
				}
			}
			s = next
		}
	}
}

func TestApply_OversizedAmountsRejected(t *testing.T) {
	env := testEnv()
	s := newTestSession(env, "BTC", "ETH")

	next, effects, err := Apply(s, EditAmount{Field: domain.FieldFrom, Value: "1e99999999"}, env)
	require.ErrorIs(t, err, domain.ErrInvalidAmount)
	require.Nil(t, effects)
	require.Equal(t, s, next)

	// an upstream answer of the same shape is treated as no quote
	s, effects = mustApply(t, s, EditAmount{Field: domain.FieldFrom, Value: "1"}, env)
	req := scheduled(t, effects)
	s, _ = mustApply(t, s, QuoteResolved{Request: req, Result: domain.QuoteResult{
		Rate:            decimal.NewNullDecimal(decimal.NewFromInt(15)),
		ConvertedAmount: "1e99999999",
	}}, env)
	require.False(t, s.To.Loading)
	require.Empty(t, s.To.Value)
	require.False(t, s.Quote.Rate.Valid)
}

func TestApply_AmountCanonicalized(t *testing.T) {
	env := testEnv()
	s := newTestSession(env, "BTC", "ETH")

	s, effects := mustApply(t, s, EditAmount{Field: domain.FieldFrom, Value: "007"}, env)
	require.Equal(t, "7", s.From.Value)
	require.Equal(t, "7", scheduled(t, effects).Amount)
}
