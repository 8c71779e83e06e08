package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"fxswap/internal/domain"
	"fxswap/internal/swap"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Service interface {
	Open(ctx context.Context, p swap.OpenParams) (swap.Session, error)
	Snapshot(ctx context.Context, id uuid.UUID) (swap.Session, error)
	EditAmount(ctx context.Context, id uuid.UUID, field domain.Field, value string) (swap.Session, error)
	ChangeDestination(ctx context.Context, id uuid.UUID, symbol string) (swap.Session, error)
	SelectRateMode(ctx context.Context, id uuid.UUID, mode domain.RateMode) (swap.Session, error)
	Submit(ctx context.Context, id uuid.UUID) (swap.Session, error)
	Close(id uuid.UUID) error
}

type CurrencyLister interface {
	Currencies() []domain.CurrencyInfo
	Contains(symbol string) bool
	IsFixedEligible(symbol string) bool
}

type Handler struct {
	service Service
	catalog CurrencyLister
}

func NewSwapHandler(service Service, catalog CurrencyLister) *Handler {
	return &Handler{service: service, catalog: catalog}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, statusCode int, errorMsg string) {
	writeJSON(w, statusCode, errorResponse{
		Error: errorMsg,
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 512)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session ID format")
		return uuid.Nil, false
	}
	return id, true
}

var (
	badInput = []error{
		domain.ErrInvalidAmount,
		domain.ErrUnknownField,
		domain.ErrInvalidRateMode,
		domain.ErrSourceRequired,
		domain.ErrDestinationRequired,
		domain.ErrSameCurrencies,
		domain.ErrSourceUnsupported,
		domain.ErrDestUnsupported,
	}
	conflicts = []error{
		domain.ErrQuotePending,
		domain.ErrValidation,
		domain.ErrSubmitInFlight,
		domain.ErrAlreadySubmitted,
	}
)

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// writeServiceError maps session errors to statuses; anything unknown is logged and hidden.
func writeServiceError(w http.ResponseWriter, err error, handler string, id uuid.UUID) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrSessionClosed):
		writeError(w, http.StatusNotFound, domain.ErrSessionNotFound.Error())
	case isAny(err, badInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case isAny(err, conflicts):
		writeError(w, http.StatusConflict, err.Error())
	default:
		msg := "ups, couldn't process swap session this time"
		logrus.WithError(err).WithFields(logrus.Fields{"handler": handler, "session": id}).Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
	}
}
