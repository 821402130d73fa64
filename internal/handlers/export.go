package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
)

func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	download, err := h.service.Export(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", download.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", download.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(download.Data)))
	if _, err := w.Write(download.Data); err != nil {
		slog.Error("Unable to write export", "err", err)
	}
}
