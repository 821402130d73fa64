package handlers

import (
	"net/http"
)

func (h *Handler) HandleSessions(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.sessionStore.List())
}

func (h *Handler) HandleSessionDetail(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, session)
}

func (h *Handler) HandleSessionDelete(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}
	h.sessionStore.Delete(session.ID)
	w.WriteHeader(http.StatusNoContent)
}
