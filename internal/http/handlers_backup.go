package http

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"sitelog/internal/store"
)

// Restore uploads replace both stores wholesale; cap the bundle size.
const maxBundleBytes = 32 << 20 // 32MB

func (s *Server) handleBackupExport(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	// Build the bundle in memory first so a failed export never sends a
	// truncated archive with a 200 status.
	var buf bytes.Buffer
	if err := s.backup.Export(r.Context(), &buf); err != nil {
		writeStoreError(w, r, "backup export", err)
		return
	}

	name := "sitelog-backup-" + time.Now().UTC().Format("20060102-150405") + ".zip"
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.ErrorContext(r.Context(), "Backup download interrupted", "error", err)
	}
}

func (s *Server) handleBackupRestore(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBundleBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read bundle")
		return
	}
	if len(data) > maxBundleBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "bundle too large")
		return
	}

	if err := s.backup.Restore(r.Context(), data); err != nil {
		if errors.Is(err, store.ErrUnavailable) {
			writeStoreError(w, r, "backup restore", err)
			return
		}
		slog.ErrorContext(r.Context(), "Bundle rejected", "error", err)
		writeError(w, http.StatusUnprocessableEntity, "invalid bundle: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"restored": true})
}
