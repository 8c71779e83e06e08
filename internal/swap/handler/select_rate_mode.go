package handler

import (
	"net/http"

	"fxswap/internal/domain"
)

type SelectRateModeRequest struct {
	Mode string `json:"mode" example:"fixed" enums:"floating,fixed"`
}

// SelectRateMode godoc
// @Summary Select rate mode
// @Description Choose floating or fixed rate. Fixed is silently kept floating when the pair does not support it.
// @Tags Swaps
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body SelectRateModeRequest true "Rate mode"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /swaps/{id}/rate-mode [put]
func (h *Handler) SelectRateMode(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	var req SelectRateModeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	mode, err := domain.ParseRateMode(req.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s, err := h.service.SelectRateMode(r.Context(), id, mode)
	if err != nil {
		writeServiceError(w, err, "SelectRateMode", id)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(s))
}
