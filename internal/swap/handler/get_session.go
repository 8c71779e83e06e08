package handler

import "net/http"

// GetSession godoc
// @Summary Get swap session
// @Description Current state of a swap session, including loading flags and the latest quote
// @Tags Swaps
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /swaps/{id} [get]
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	s, err := h.service.Snapshot(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "GetSession", id)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(s))
}
