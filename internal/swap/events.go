package swap

import "fxswap/internal/domain"

// Event is anything that can change a Session.
type Event interface{ isEvent() }

type EditAmount struct {
	Field domain.Field
	Value string
}

type ChangeDestination struct {
	Symbol string
}

type SelectRateMode struct {
	Mode domain.RateMode
}

type Submit struct{}

// QuoteDue is posted when the debounce window of a quote request elapsed.
type QuoteDue struct {
	Request domain.QuoteRequest
}

type QuoteResolved struct {
	Request domain.QuoteRequest
	Result  domain.QuoteResult
}

type SubmitResolved struct {
	Err error
}

func (EditAmount) isEvent()        {}
func (ChangeDestination) isEvent() {}
func (SelectRateMode) isEvent()    {}
func (Submit) isEvent()            {}
func (QuoteDue) isEvent()          {}
func (QuoteResolved) isEvent()     {}
func (SubmitResolved) isEvent()    {}

// Effect is work Apply asks the Controller to perform.
type Effect interface{ isEffect() }

// ScheduleQuote goes through the debouncer.
type ScheduleQuote struct {
	Request domain.QuoteRequest
}

// FetchQuote calls the quote engine right away.
type FetchQuote struct {
	Request domain.QuoteRequest
}

type SendSwap struct {
	Request domain.SwapRequest
}

func (ScheduleQuote) isEffect() {}
func (FetchQuote) isEffect()    {}
func (SendSwap) isEffect()      {}
