package handler

import (
	"net/http"

	"fxswap/internal/swap"

	"github.com/google/uuid"
)

type OpenSessionRequest struct {
	Source      string `json:"source" example:"BTC"`
	Destination string `json:"destination" example:"ETH"`
	Balance     string `json:"balance,omitempty" example:"1.5"`
}

// OpenSession godoc
// @Summary Open a swap session
// @Description Start a swap between two supported currencies. Balance, when given, caps the source amount
// @Tags Swaps
// @Accept json
// @Produce json
// @Param request body OpenSessionRequest true "Currency pair"
// @Success 201 {object} SessionResponse
// @Failure 400 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /swaps [post]
func (h *Handler) OpenSession(w http.ResponseWriter, r *http.Request) {
	var req OpenSessionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	s, err := h.service.Open(r.Context(), swap.OpenParams{
		Source:      req.Source,
		Destination: req.Destination,
		Balance:     req.Balance,
	})
	if err != nil {
		writeServiceError(w, err, "OpenSession", uuid.Nil)
		return
	}
	writeJSON(w, http.StatusCreated, toSessionResponse(s))
}
