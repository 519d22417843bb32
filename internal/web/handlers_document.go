package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/JonMunkholm/csv2json/internal/core"
	"github.com/JonMunkholm/csv2json/internal/logging"
	"github.com/JonMunkholm/csv2json/internal/store"
	"github.com/JonMunkholm/csv2json/internal/web/templates"
	"github.com/go-chi/chi/v5"
)

// DocumentResponse is the JSON shape of a stored document.
type DocumentResponse struct {
	ID      string          `json:"id"`
	Content json.RawMessage `json:"content"`
}

func toDocumentResponse(doc store.Document) DocumentResponse {
	return DocumentResponse{ID: doc.ID.String(), Content: doc.Content}
}

// handleCreateDocument converts a CSV request body into a stored document.
func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.service.CreateDocument(r.Context(), core.Upload{
		ContentType:    r.Header.Get("Content-Type"),
		DeclaredLength: r.ContentLength,
		Body:           r.Body,
	})
	if err != nil {
		respondError(w, r, err, 0)
		return
	}

	w.Header().Set("Location", "/document/"+doc.ID.String())
	w.Header().Set("ETag", core.ETag(doc.Content))
	writeJSON(w, r, http.StatusCreated, toDocumentResponse(doc))
}

// handleGetDocument serves a stored document as JSON, or as an HTML table
// when the client asks for text/html.
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	doc, err := s.service.GetDocument(r.Context(), id)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}

	etag := core.ETag(doc.Content)
	w.Header().Set("ETag", etag)
	w.Header().Set("Vary", "Accept")
	if etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if wantsHTML(r) {
		s.renderDocument(w, r, doc)
		return
	}
	writeJSON(w, r, http.StatusOK, toDocumentResponse(doc))
}

func (s *Server) renderDocument(w http.ResponseWriter, r *http.Request, doc store.Document) {
	var rows [][]string
	if err := json.Unmarshal(doc.Content, &rows); err != nil {
		respondError(w, r, fmt.Errorf("decode document %s: %w", doc.ID, err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := templates.DocumentPage(templates.DocumentParams{
		ID:        doc.ID.String(),
		CreatedAt: doc.CreatedAt,
		Rows:      rows,
	}).Render(r.Context(), w)
	if err != nil {
		logging.FromContext(r.Context()).Error("render document", "id", doc.ID, "error", err)
	}
}

// etagMatches reports whether an If-None-Match header value matches etag.
// Weak comparison is used, as for GET.
func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	if strings.TrimSpace(header) == "*" {
		return true
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == etag {
			return true
		}
	}
	return false
}
