package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/stencilworks/stencil/internal/bank"
	"github.com/stencilworks/stencil/internal/registry"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.reg.Categories(r.Context())
	if err != nil {
		jsonError(w, "failed to list categories: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if cats == nil {
		cats = []bank.Category{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"categories": cats})
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var c bank.Category
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if c.ID == "" {
		jsonError(w, "id is required", http.StatusBadRequest)
		return
	}
	if err := s.reg.CreateCategory(r.Context(), c); err != nil {
		jsonError(w, err.Error(), http.StatusConflict)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(c)
}

func (s *Server) handleListBanks(w http.ResponseWriter, r *http.Request) {
	banks, err := s.reg.Banks(r.Context())
	if err != nil {
		jsonError(w, "failed to list banks: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if banks == nil {
		banks = []bank.Bank{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"banks": banks})
}

func (s *Server) handleGetBank(w http.ResponseWriter, r *http.Request) {
	b, err := s.reg.Bank(r.Context(), chi.URLParam(r, "bankID"))
	if err != nil {
		jsonError(w, "failed to get bank: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if b == nil {
		jsonError(w, "bank not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(b)
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	tmpls, err := s.reg.Templates(r.Context())
	if err != nil {
		jsonError(w, "failed to list templates: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if tmpls == nil {
		tmpls = []registry.Template{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"templates": tmpls})
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	t, err := s.reg.Template(r.Context(), chi.URLParam(r, "templateID"))
	if err != nil {
		jsonError(w, "failed to get template: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if t == nil {
		jsonError(w, "template not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(t)
}
