package handler

import (
	"net/http"

	"fxswap/internal/domain"
)

type EditAmountRequest struct {
	Field string `json:"field" example:"from" enums:"from,to"`
	Value string `json:"value" example:"0.5"`
}

// EditAmount godoc
// @Summary Edit an amount
// @Description Set the source ("from") or destination ("to") amount. The other field is re-quoted after the debounce window.
// @Description Editing "to" switches the session to a fixed rate and is ignored for pairs without fixed-rate support.
// @Tags Swaps
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body EditAmountRequest true "Amount"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 409 {object} errorResponse "swap in flight or already submitted"
// @Router /swaps/{id}/amount [put]
func (h *Handler) EditAmount(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	var req EditAmountRequest
	if !decodeBody(w, r, &req) {
		return
	}
	field, err := domain.ParseField(req.Field)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s, err := h.service.EditAmount(r.Context(), id, field, req.Value)
	if err != nil {
		writeServiceError(w, err, "EditAmount", id)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(s))
}
