package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lehigh-university-libraries/accessioner/internal/annotation"
	"github.com/lehigh-university-libraries/accessioner/internal/catalog"
	domainerrors "github.com/lehigh-university-libraries/accessioner/internal/errors"
	"github.com/lehigh-university-libraries/accessioner/internal/models"
)

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*catalog.Match, bool) {
	session, ok := h.getSessionOrError(w, r)
	if !ok {
		return nil, false
	}

	m, err := h.service.Lookup(session.Table, chi.URLParam(r, "accession"))
	if err != nil {
		h.writeDomainError(w, err)
		return nil, false
	}
	return m, true
}

func (h *Handler) HandleLookup(w http.ResponseWriter, r *http.Request) {
	m, ok := h.lookup(w, r)
	if !ok {
		return
	}

	h.writeJSON(w, models.LookupResponse{
		Key:     m.Key,
		Title:   m.Title,
		Copies:  m.Copies,
		Columns: m.Columns,
		Rows:    m.Rows,
	})
}

func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	var a annotation.Annotation
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		h.writeDomainError(w, domainerrors.Validationf("invalid JSON: %v", err))
		return
	}

	m, ok := h.lookup(w, r)
	if !ok {
		return
	}

	result, err := h.service.Save(r.Context(), m, a)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	slog.Info("Record saved", "key", m.Key, "rows", result.RowsWritten, "store", h.service.Store().Path())

	h.writeJSON(w, models.SaveResponse{
		Message:     "Record saved to " + h.service.Store().Path(),
		RowsWritten: result.RowsWritten,
		Created:     result.Created,
		DownloadURL: "/api/export",
	})
}
