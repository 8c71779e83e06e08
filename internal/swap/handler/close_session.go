package handler

import "net/http"

// CloseSession godoc
// @Summary Close swap session
// @Description Drop the session; pending quotes are cancelled
// @Tags Swaps
// @Param id path string true "Session ID"
// @Success 204
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /swaps/{id} [delete]
func (h *Handler) CloseSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	if err := h.service.Close(id); err != nil {
		writeServiceError(w, err, "CloseSession", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
