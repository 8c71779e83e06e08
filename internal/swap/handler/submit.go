package handler

import "net/http"

// Submit godoc
// @Summary Submit the swap
// @Description Send the swap to the exchange. Poll the session for the outcome.
// @Tags Swaps
// @Produce json
// @Param id path string true "Session ID"
// @Success 202 {object} SessionResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 409 {object} errorResponse "quote loading, invalid amount or swap already sent"
// @Router /swaps/{id}/submit [post]
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	s, err := h.service.Submit(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "Submit", id)
		return
	}
	writeJSON(w, http.StatusAccepted, toSessionResponse(s))
}
