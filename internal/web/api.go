package web

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"folio/internal/content"
	"folio/internal/listing"
	"folio/internal/render"
)

// DocumentResponse is a document together with its rendered form.
type DocumentResponse struct {
	Document content.Document `json:"document"`
	Rendered render.Rendered  `json:"rendered"`
}

type postSummary struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	DatePosted  string  `json:"datePosted"`
	Subcategory string  `json:"subcategory"`
	Subject     string  `json:"subject"`
	Hook        string  `json:"hook,omitempty"`
	Confidence  float64 `json:"confidenceScore"`
}

func summarize(posts []content.Post) []postSummary {
	out := make([]postSummary, 0, len(posts))
	for _, p := range posts {
		out = append(out, postSummary{
			ID:          p.ID,
			Title:       p.Title,
			DatePosted:  p.DatePosted,
			Subcategory: p.Subcategory,
			Subject:     p.Subject,
			Hook:        p.Hook,
			Confidence:  p.ConfidenceScore,
		})
	}
	return out
}

func (s *Server) apiPosts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, summarize(s.Catalog().Posts()))
}

func (s *Server) apiPost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid post id")
		return
	}
	p, err := s.Catalog().Post(id)
	if err != nil {
		s.writeLookupError(w, err)
		return
	}
	doc := p.Document()
	writeJSON(w, http.StatusOK, DocumentResponse{Document: doc, Rendered: doc.Render(s.renderer)})
}

func (s *Server) apiPortfolio(w http.ResponseWriter, r *http.Request) {
	it, err := s.Catalog().Portfolio(r.PathValue("slug"))
	if err != nil {
		s.writeLookupError(w, err)
		return
	}
	doc := it.Document()
	writeJSON(w, http.StatusOK, DocumentResponse{Document: doc, Rendered: doc.Render(s.renderer)})
}

type searchResponse struct {
	Query   string        `json:"query"`
	Total   int           `json:"total"`
	Results []postSummary `json:"results"`
}

func (s *Server) apiSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	hits := listing.Search(s.Catalog().Posts(), query)
	writeJSON(w, http.StatusOK, searchResponse{Query: query, Total: len(hits), Results: summarize(hits)})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeLookupError(w http.ResponseWriter, err error) {
	if isNotFound(err) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	log.Printf("Lookup failed: %v", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

// apiPreferences lists what the site has stored for the calling visitor.
func (s *Server) apiPreferences(w http.ResponseWriter, r *http.Request) {
	saved, err := s.themes.Saved(r.Context(), visitorID(r))
	if err != nil {
		log.Printf("Failed to load preferences: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load preferences")
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
