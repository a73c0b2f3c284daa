package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"sitelog/internal/core"
	"sitelog/internal/services"
	"sitelog/internal/store"
)

type Server struct {
	http.Server
	recorder  *services.Recorder
	editor    *services.Editor
	cascade   *services.Cascade
	dashboard *services.Dashboard
	backup    *services.Backup
	config    *store.ConfigStore
}

func NewServer(addr string,
	recorder *services.Recorder,
	editor *services.Editor,
	cascade *services.Cascade,
	dashboard *services.Dashboard,
	backup *services.Backup,
	config *store.ConfigStore,
) *Server {
	s := &Server{
		recorder:  recorder,
		editor:    editor,
		cascade:   cascade,
		dashboard: dashboard,
		backup:    backup,
		config:    config,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)

	mux.HandleFunc("/api/entries", s.handleCreateEntry)
	mux.HandleFunc("/api/ledger", s.handleLedger)

	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/api/projects", s.handleAddProject)
	mux.HandleFunc("/api/projects/rename", s.handleRenameProject)
	mux.HandleFunc("/api/categories", s.handleAddCategory)
	mux.HandleFunc("/api/categories/display", s.handleRenameCategoryDisplay)
	mux.HandleFunc("/api/items", s.handleItems)
	mux.HandleFunc("/api/items/rename", s.handleRenameItem)
	mux.HandleFunc("/api/prices", s.handleSetPrice)

	mux.HandleFunc("/api/dashboard", s.handleDashboard)
	mux.HandleFunc("/api/backup", s.handleBackupExport)
	mux.HandleFunc("/api/restore", s.handleBackupRestore)

	s.Addr = addr
	s.Handler = mux
	return s
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// apiEntry is the wire form of a ledger row. The month field is derived and
// only ever sent, never accepted.
type apiEntry struct {
	Date       string  `json:"date"`
	Month      string  `json:"month,omitempty"`
	Project    string  `json:"project"`
	Category   string  `json:"category"`
	Name       string  `json:"name"`
	Unit       string  `json:"unit"`
	Quantity   float64 `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	Total      float64 `json:"total"`
	Note       string  `json:"note"`
	Attachment string  `json:"attachment_ref,omitempty"`
}

func toAPIEntry(e core.Entry) apiEntry {
	return apiEntry{
		Date:       e.Date.String(),
		Month:      e.Month(),
		Project:    e.Project,
		Category:   e.Category,
		Name:       e.Name,
		Unit:       e.Unit,
		Quantity:   e.Quantity,
		UnitPrice:  e.UnitPrice,
		Total:      e.Total,
		Note:       e.Note,
		Attachment: e.Attachment,
	}
}

func (a apiEntry) toEntry() (core.Entry, error) {
	d, err := core.ParseDate(a.Date)
	if err != nil {
		return core.Entry{}, err
	}
	return core.Entry{
		Date:       d,
		Project:    a.Project,
		Category:   a.Category,
		Name:       a.Name,
		Unit:       a.Unit,
		Quantity:   a.Quantity,
		UnitPrice:  a.UnitPrice,
		Total:      a.Total,
		Note:       a.Note,
		Attachment: a.Attachment,
	}, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeStoreError maps store and cascade failures to responses. Success is
// never signaled unless the write was confirmed.
func writeStoreError(w http.ResponseWriter, r *http.Request, op string, err error) {
	slog.ErrorContext(r.Context(), "Operation failed", "operation", op, "error", err)
	switch {
	case errors.Is(err, store.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, "store unavailable")
	case errors.Is(err, services.ErrPartialCascade):
		writeError(w, http.StatusInternalServerError, "rename partially applied; configuration and ledger may disagree")
	case errors.Is(err, core.ErrUnknownCategory):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, core.ErrInvalidDate):
		writeError(w, http.StatusUnprocessableEntity, "invalid date")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.Header().Set("Allow", method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}
