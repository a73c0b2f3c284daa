package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"sitelog/internal/core"
	"sitelog/internal/services"
)

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var req apiEntry
	if !decodeJSON(w, r, &req) {
		return
	}
	d, err := core.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid date")
		return
	}
	if strings.TrimSpace(req.Project) == "" {
		writeError(w, http.StatusUnprocessableEntity, "missing project")
		return
	}

	// Total is always computed server-side from the category's kind.
	e, err := s.recorder.Record(r.Context(), services.EntryInput{
		Date:       d,
		Project:    req.Project,
		Category:   req.Category,
		Name:       req.Name,
		Unit:       req.Unit,
		Quantity:   req.Quantity,
		UnitPrice:  req.UnitPrice,
		Note:       req.Note,
		Attachment: req.Attachment,
	})
	if err != nil {
		writeStoreError(w, r, "record entry", err)
		return
	}
	writeJSON(w, http.StatusCreated, toAPIEntry(e))
}

// handleLedger serves the scoped slice on GET and applies a scoped edit on
// PUT. Both use the same (project, month, categories) scope parameters.
func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleLedgerSlice(w, r)
	case http.MethodPut:
		s.handleLedgerReconcile(w, r)
	default:
		w.Header().Set("Allow", "GET, PUT")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleLedgerSlice(w http.ResponseWriter, r *http.Request) {
	sc, ok := scopeFromQuery(w, r)
	if !ok {
		return
	}
	entries, err := s.editor.Slice(r.Context(), sc)
	if err != nil {
		writeStoreError(w, r, "ledger slice", err)
		return
	}
	out := make([]apiEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, toAPIEntry(e))
	}
	writeJSON(w, http.StatusOK, out)
}

type reconcileRequest struct {
	Project    string     `json:"project"`
	Month      string     `json:"month"`
	Categories []string   `json:"categories"`
	Entries    []apiEntry `json:"entries"`
}

func (s *Server) handleLedgerReconcile(w http.ResponseWriter, r *http.Request) {
	var req reconcileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sc := services.Scope{Project: req.Project, Month: req.Month, Categories: req.Categories}
	if sc.Project == "" || sc.Month == "" || len(sc.Categories) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "scope requires project, month, and categories")
		return
	}
	// A malformed month would match no rows and turn the replace into a blind
	// append, so it must fail loudly.
	if !validMonth(sc.Month) {
		writeError(w, http.StatusUnprocessableEntity, "invalid month: "+sc.Month)
		return
	}

	edited := make([]core.Entry, 0, len(req.Entries))
	for _, a := range req.Entries {
		e, err := a.toEntry()
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "entry with invalid date: "+a.Date)
			return
		}
		edited = append(edited, e)
	}

	if err := s.editor.Apply(r.Context(), sc, edited); err != nil {
		writeStoreError(w, r, "scoped edit", err)
		return
	}

	slog.InfoContext(r.Context(), "Scoped edit accepted",
		"project", sc.Project, "month", sc.Month, "submitted", len(edited))
	writeJSON(w, http.StatusOK, map[string]any{"saved": len(edited)})
}

func scopeFromQuery(w http.ResponseWriter, r *http.Request) (services.Scope, bool) {
	q := r.URL.Query()
	sc := services.Scope{
		Project: strings.TrimSpace(q.Get("project")),
		Month:   strings.TrimSpace(q.Get("month")),
	}
	for _, c := range strings.Split(q.Get("categories"), ",") {
		if c = strings.TrimSpace(c); c != "" {
			sc.Categories = append(sc.Categories, c)
		}
	}
	if sc.Project == "" || sc.Month == "" || len(sc.Categories) == 0 {
		writeError(w, http.StatusBadRequest, "project, month, and categories query parameters are required")
		return services.Scope{}, false
	}
	if !validMonth(sc.Month) {
		writeError(w, http.StatusBadRequest, "invalid month: "+sc.Month)
		return services.Scope{}, false
	}
	return sc, true
}

// validMonth reports whether s is a canonical "2006-01" year-month, the only
// form entry months derive to.
func validMonth(s string) bool {
	_, err := time.Parse(core.MonthLayout, s)
	return err == nil
}
