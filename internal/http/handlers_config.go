package http

import (
	"net/http"
	"strings"

	"sitelog/internal/core"
)

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	cfg, err := s.config.Load(r.Context())
	if err != nil {
		writeStoreError(w, r, "load config", err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// writeMutation reports a duplicate-name conflict as 409 and a confirmed
// write as 200; anything else already wrote an error.
func writeMutation(w http.ResponseWriter, changed bool) {
	if !changed {
		writeError(w, http.StatusConflict, "name already exists")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"saved": true})
}

func (s *Server) handleAddProject(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusUnprocessableEntity, "missing project name")
		return
	}
	changed, err := s.config.AddProject(r.Context(), req.Name)
	if err != nil {
		writeStoreError(w, r, "add project", err)
		return
	}
	writeMutation(w, changed)
}

func (s *Server) handleRenameProject(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var req struct {
		Old string `json:"old"`
		New string `json:"new"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Old == "" || req.New == "" {
		writeError(w, http.StatusUnprocessableEntity, "old and new names are required")
		return
	}
	changed, err := s.cascade.RenameProject(r.Context(), req.Old, req.New)
	if err != nil {
		writeStoreError(w, r, "rename project", err)
		return
	}
	writeMutation(w, changed)
}

func (s *Server) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var req struct {
		Key     string `json:"key"`
		Display string `json:"display"`
		Kind    string `json:"kind"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	kind := core.CategoryKind(req.Kind)
	if strings.TrimSpace(req.Key) == "" || !kind.IsValid() {
		writeError(w, http.StatusUnprocessableEntity, "category requires a key and a kind of text, usage, or cost")
		return
	}
	changed, err := s.config.AddCategory(r.Context(), req.Key, req.Display, kind)
	if err != nil {
		writeStoreError(w, r, "add category", err)
		return
	}
	writeMutation(w, changed)
}

func (s *Server) handleRenameCategoryDisplay(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var req struct {
		Index   int    `json:"index"`
		Display string `json:"display"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	changed, err := s.config.RenameCategoryDisplay(r.Context(), req.Index, req.Display)
	if err != nil {
		writeStoreError(w, r, "rename category display", err)
		return
	}
	if !changed {
		writeError(w, http.StatusUnprocessableEntity, "no category at index")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"saved": true})
}

type itemRequest struct {
	Project  string `json:"project"`
	Category string `json:"category"`
	Name     string `json:"name"`
}

func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleAddItem(w, r)
	case http.MethodDelete:
		s.handleDeleteItem(w, r)
	default:
		w.Header().Set("Allow", "POST, DELETE")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Project == "" || req.Category == "" || strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusUnprocessableEntity, "project, category, and name are required")
		return
	}
	changed, err := s.config.AddItem(r.Context(), req.Project, req.Category, req.Name)
	if err != nil {
		writeStoreError(w, r, "add item", err)
		return
	}
	writeMutation(w, changed)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	changed, err := s.config.DeleteItem(r.Context(), req.Project, req.Category, req.Name)
	if err != nil {
		writeStoreError(w, r, "delete item", err)
		return
	}
	if !changed {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"saved": true})
}

func (s *Server) handleRenameItem(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var req struct {
		Project  string `json:"project"`
		Category string `json:"category"`
		Old      string `json:"old"`
		New      string `json:"new"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Project == "" || req.Category == "" || req.Old == "" || req.New == "" {
		writeError(w, http.StatusUnprocessableEntity, "project, category, old, and new are required")
		return
	}
	changed, err := s.cascade.RenameItem(r.Context(), req.Project, req.Category, req.Old, req.New)
	if err != nil {
		writeStoreError(w, r, "rename item", err)
		return
	}
	writeMutation(w, changed)
}

func (s *Server) handleSetPrice(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var req struct {
		Project  string  `json:"project"`
		Category string  `json:"category"`
		Name     string  `json:"name"`
		Price    float64 `json:"price"`
		Unit     string  `json:"unit"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Project == "" || req.Category == "" || req.Name == "" {
		writeError(w, http.StatusUnprocessableEntity, "project, category, and name are required")
		return
	}
	if err := s.config.SetPrice(r.Context(), req.Project, req.Category, req.Name, req.Price, req.Unit); err != nil {
		writeStoreError(w, r, "set price", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"saved": true})
}
