package server

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// ingestRequest is the JSON body for ingesting a document.
type ingestRequest struct {
	DocID   string `json:"doc_id"`
	Content string `json:"content"`
}

// searchRequest is the JSON body for a document search.
type searchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

// handleIngest handles POST /api/knowledge/ingest — add a document to the
// search index.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	if s.search == nil {
		writeError(w, http.StatusServiceUnavailable, "search is not configured")
		return
	}

	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DocID == "" {
		writeError(w, http.StatusBadRequest, "doc_id is required")
		return
	}

	if err := s.search.IngestDocument(r.Context(), req.DocID, req.Content); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"doc_id": req.DocID})
}

// handleSearch handles POST /api/knowledge/search — rank documents
// against a query.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if s.search == nil {
		writeError(w, http.StatusServiceUnavailable, "search is not configured")
		return
	}

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}
	if req.TopK <= 0 {
		req.TopK = 5
	}

	hits, err := s.search.Search(r.Context(), req.Query, req.TopK)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, hits)
}

// handleGraphContext handles GET /api/knowledge/graph/{id} — the subgraph
// reachable from an entity. Depth comes from the ?depth query parameter
// and defaults to 2.
func (s *Server) handleGraphContext(w http.ResponseWriter, r *http.Request) {
	if s.graph == nil {
		writeError(w, http.StatusServiceUnavailable, "graph is not configured")
		return
	}

	depth := 2
	if raw := r.URL.Query().Get("depth"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "depth must be a positive integer")
			return
		}
		depth = parsed
	}

	sub, err := s.graph.FindRelatedContext(r.Context(), r.PathValue("id"), depth)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, sub)
}
