package domain

import "errors"

var (
	ErrInvalidAmount       = errors.New("amount must be a non-negative number")
	ErrUnknownField        = errors.New("field must be either \"from\" or \"to\"")
	ErrInvalidRateMode     = errors.New("rate mode must be either \"floating\" or \"fixed\"")
	ErrSourceRequired      = errors.New("source currency is required")
	ErrDestinationRequired = errors.New("destination currency is required")
	ErrSameCurrencies      = errors.New("source and destination must be different")
	ErrSourceUnsupported   = errors.New("source currency not supported")
	ErrDestUnsupported     = errors.New("destination currency not supported")

	ErrSessionNotFound  = errors.New("swap session not found")
	ErrSessionClosed    = errors.New("swap session closed")
	ErrQuotePending     = errors.New("quote is still loading")
	ErrValidation       = errors.New("swap amount is invalid")
	ErrSubmitInFlight   = errors.New("swap request already in flight")
	ErrAlreadySubmitted = errors.New("swap already submitted")

	ErrNoSwapConfirmation = errors.New("exchange returned empty swap response")
)
