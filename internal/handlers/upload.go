package handlers

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	domainerrors "github.com/lehigh-university-libraries/accessioner/internal/errors"
	"github.com/lehigh-university-libraries/accessioner/internal/models"
)

const previewRows = 5

func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		file, header, err = r.FormFile("files")
		if err != nil {
			h.writeDomainError(w, domainerrors.Validationf("failed to read file: %v", err))
			return
		}
	}
	defer file.Close()

	fileData, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes))
	if err != nil {
		h.writeDomainError(w, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to read file contents"))
		return
	}

	if int64(len(fileData)) >= h.maxUploadBytes {
		h.writeDomainError(w, domainerrors.UploadTooLargef("file too large (max %dMB)", h.maxUploadBytes/1024/1024))
		return
	}

	t, err := h.service.LoadDataset(bytes.NewReader(fileData), header.Filename)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	session := &models.Session{
		ID:        uuid.NewString(),
		Filename:  header.Filename,
		Columns:   t.Columns,
		RowCount:  t.Len(),
		CreatedAt: time.Now(),
		Table:     t,
	}
	h.sessionStore.Set(session.ID, session)

	slog.Info("Session created", "session_id", session.ID, "filename", header.Filename, "rows", t.Len())

	h.writeJSON(w, models.UploadResponse{
		SessionID: session.ID,
		Message:   "File loaded successfully",
		Filename:  header.Filename,
		Columns:   t.Columns,
		RowCount:  t.Len(),
		Preview:   t.Head(previewRows).Records(),
	})
}
