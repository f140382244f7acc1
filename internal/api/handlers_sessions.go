package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stencilworks/stencil/internal/extract"
	"github.com/stencilworks/stencil/internal/registry"
	"github.com/stencilworks/stencil/internal/session"
	"github.com/stencilworks/stencil/internal/source"
)

type createSessionRequest struct {
	Content string `json:"content"`
	Title   string `json:"title"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxContentBytes+64*1024)

	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		jsonError(w, "content is required", http.StatusBadRequest)
		return
	}
	if int64(len(req.Content)) > s.cfg.MaxContentBytes {
		jsonError(w, fmt.Sprintf("content exceeds max size (%d bytes)", s.cfg.MaxContentBytes), http.StatusRequestEntityTooLarge)
		return
	}

	sess, err := s.openSession(r, req.Title, req.Content)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeSessionCreated(w, sess)
}

func (s *Server) handleImportSession(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !source.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	flattener, err := source.ForFile(filename)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if pf, ok := flattener.(*source.PDFFlattener); ok {
		pf.FallbackPdftotext = s.cfg.PDFFallbackPdftotext
	}

	doc, err := flattener.Flatten(io.LimitReader(file, s.cfg.MaxUploadBytes+1), filename)
	if err != nil {
		jsonError(w, "failed to parse file: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if strings.TrimSpace(doc.Text) == "" {
		jsonError(w, "file contains no extractable text", http.StatusUnprocessableEntity)
		return
	}

	title := r.FormValue("title")
	if title == "" {
		title = doc.Title
	}

	sess, err := s.openSession(r, title, doc.Text)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeSessionCreated(w, sess)
}

// openSession snapshots the known category ids so selection validation stays
// stable for the session's lifetime.
func (s *Server) openSession(r *http.Request, title, content string) (*session.Session, error) {
	ids, err := s.reg.CategoryIDs(r.Context())
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	return s.sessions.Create(title, content, func(id string) bool { return ids[id] }), nil
}

func writeSessionCreated(w http.ResponseWriter, sess *session.Session) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{
		"session_id": sess.ID,
		"title":      sess.Title,
		"content":    sess.Content,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Get(chi.URLParam(r, "sessionID"))
	if sess == nil {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sess.Snapshot())
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	s.sessions.Delete(chi.URLParam(r, "sessionID"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleResetSession(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Get(chi.URLParam(r, "sessionID"))
	if sess == nil {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}
	sess.Reset()
	w.WriteHeader(http.StatusNoContent)
}

type addSelectionRequest struct {
	Text       string `json:"text"`
	CategoryID string `json:"category_id"`
	BankID     string `json:"bank_id"`
	BankName   string `json:"bank_name"`
	IsNewBank  bool   `json:"is_new_bank"`
}

func (s *Server) handleAddSelection(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Get(chi.URLParam(r, "sessionID"))
	if sess == nil {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}

	var req addSelectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	// The placeholder format {{bankID}} cannot represent ids containing "}}".
	if strings.Contains(req.BankID, "}}") {
		jsonError(w, `bank_id must not contain "}}"`, http.StatusUnprocessableEntity)
		return
	}

	sel, err := sess.AddSelection(req.Text, req.CategoryID, req.BankID, req.BankName, req.IsNewBank)
	if errors.Is(err, extract.ErrInvalidSelection) {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(sel)
}

func (s *Server) handleRemoveSelection(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Get(chi.URLParam(r, "sessionID"))
	if sess == nil {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}
	// Removing an unknown selection id is a soft no-op.
	sess.RemoveSelection(chi.URLParam(r, "selectionID"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHighlight(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Get(chi.URLParam(r, "sessionID"))
	if sess == nil {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}

	segments := sess.Highlight()
	if segments == nil {
		segments = []extract.Segment{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"segments": segments})
}

func (s *Server) handleSessionBanks(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Get(chi.URLParam(r, "sessionID"))
	if sess == nil {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}

	existing, err := s.reg.Banks(r.Context())
	if err != nil {
		jsonError(w, "failed to list banks: "+err.Error(), http.StatusInternalServerError)
		return
	}

	merged := extract.MergedBanks(existing, sess.Selections())
	if category := r.URL.Query().Get("category"); category != "" {
		merged = extract.ByCategory(merged, category)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"banks": merged})
}

func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	sess := s.sessions.Get(sessionID)
	if sess == nil {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}

	res := sess.Compile()

	tmpl := registry.Template{
		ID:        uuid.NewString(),
		Title:     sess.Title,
		Content:   res.FinalContent,
		CreatedAt: time.Now(),
	}
	if err := s.reg.CommitCompile(r.Context(), tmpl, res.ProcessedBanks); err != nil {
		jsonError(w, "failed to commit: "+err.Error(), http.StatusInternalServerError)
		return
	}

	// The session is consumed exactly once.
	s.sessions.Delete(sessionID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"template_id":     tmpl.ID,
		"final_content":   res.FinalContent,
		"processed_banks": res.ProcessedBanks,
	})
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
