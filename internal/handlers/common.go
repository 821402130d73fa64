package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lehigh-university-libraries/accessioner/internal/cataloging"
	domainerrors "github.com/lehigh-university-libraries/accessioner/internal/errors"
	"github.com/lehigh-university-libraries/accessioner/internal/models"
	"github.com/lehigh-university-libraries/accessioner/internal/storage"
)

// DefaultMaxUploadBytes limits dataset uploads when no limit is configured.
const DefaultMaxUploadBytes = 10 * 1024 * 1024

type Handler struct {
	sessionStore   *storage.SessionStore
	service        *cataloging.Service
	maxUploadBytes int64
}

func New(service *cataloging.Service, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &Handler{
		sessionStore:   storage.New(),
		service:        service,
		maxUploadBytes: maxUploadBytes,
	}
}

// Routes returns the API router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/datasets", h.HandleUpload)
		r.Get("/export", h.HandleExport)

		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", h.HandleSessions)
			r.Get("/{sessionID}", h.HandleSessionDetail)
			r.Delete("/{sessionID}", h.HandleSessionDelete)
			r.Get("/{sessionID}/records/{accession}", h.HandleLookup)
			r.Post("/{sessionID}/records/{accession}/save", h.HandleSave)
		})
	})

	return r
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// writeDomainError reports err as a JSON body with the status of its code.
// Errors without a code are reported as internal errors and their text is
// only logged.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	code := domainerrors.CodeOf(err)
	status := code.HTTPStatus()
	if status >= http.StatusInternalServerError {
		slog.Error("Request failed", "code", code, "err", err)
	} else {
		slog.Info("Request rejected", "code", code, "err", err)
	}

	body := map[string]any{
		"code":    code,
		"message": domainerrors.ErrInternal.Message,
	}
	var domainErr *domainerrors.Error
	if domainerrors.As(err, &domainErr) {
		body["message"] = err.Error()
		if domainErr.Details != nil {
			body["details"] = domainErr.Details
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Unable to encode JSON error", "err", err)
	}
}

// Session helpers
func (h *Handler) getSessionOrError(w http.ResponseWriter, r *http.Request) (*models.Session, bool) {
	sessionID := chi.URLParam(r, "sessionID")
	session, exists := h.sessionStore.Get(sessionID)
	if !exists {
		h.writeDomainError(w, domainerrors.NotFoundf("session %q not found", sessionID))
		return nil, false
	}
	return session, true
}
