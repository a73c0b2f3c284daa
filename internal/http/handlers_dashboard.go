package http

import (
	"net/http"
	"strings"
	"time"

	"sitelog/internal/core"
)

// handleDashboard returns today/month/year/all-time cost totals for one
// project, around an optional reference date (default: today).
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	project := strings.TrimSpace(r.URL.Query().Get("project"))
	if project == "" {
		writeError(w, http.StatusBadRequest, "project query parameter is required")
		return
	}

	ref := core.Date{Time: time.Now().UTC()}
	if v := strings.TrimSpace(r.URL.Query().Get("date")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid date")
			return
		}
		ref = d
	}

	totals, err := s.dashboard.Totals(r.Context(), project, ref)
	if err != nil {
		writeStoreError(w, r, "dashboard totals", err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}
