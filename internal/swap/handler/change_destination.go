package handler

import "net/http"

type ChangeDestinationRequest struct {
	Currency string `json:"currency" example:"DOGE"`
}

// ChangeDestination godoc
// @Summary Change destination currency
// @Description Switch the destination currency. The rate mode falls back to floating and the destination amount is re-quoted.
// @Tags Swaps
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body ChangeDestinationRequest true "Destination"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /swaps/{id}/destination [put]
func (h *Handler) ChangeDestination(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	var req ChangeDestinationRequest
	if !decodeBody(w, r, &req) {
		return
	}

	s, err := h.service.ChangeDestination(r.Context(), id, req.Currency)
	if err != nil {
		writeServiceError(w, err, "ChangeDestination", id)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(s))
}
