package server

import (
	"encoding/json"
	"net/http"

	"github.com/nafs-dev/nafs/internal/graph"
	"github.com/nafs-dev/nafs/internal/orchestrator"
	"github.com/nafs-dev/nafs/internal/search"
)

// Server is the HTTP front of the orchestrator.
type Server struct {
	orch   *orchestrator.Orchestrator
	search search.Engine
	graph  graph.Client
	mux    *http.ServeMux
}

// New creates a new Server with all routes registered. The search and
// graph collaborators may be nil; their endpoints then return 503.
func New(orch *orchestrator.Orchestrator, searchEngine search.Engine, graphClient graph.Client) *Server {
	s := &Server{
		orch:   orch,
		search: searchEngine,
		graph:  graphClient,
		mux:    http.NewServeMux(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// routes registers all HTTP routes on the server mux.
func (s *Server) routes() {
	// Health
	s.mux.HandleFunc("GET /api/health", s.handleHealth)

	// Agents
	s.mux.HandleFunc("POST /api/agents", s.handleRegisterAgent)
	s.mux.HandleFunc("GET /api/agents/stats", s.handleStats)

	// Tasks
	s.mux.HandleFunc("POST /api/agents/tasks", s.handleSubmitTask)
	s.mux.HandleFunc("GET /api/agents/tasks", s.handleListTasks)
	s.mux.HandleFunc("GET /api/agents/tasks/{id}", s.handleGetTask)
	s.mux.HandleFunc("POST /api/agents/tasks/{id}/assign", s.handleAssignTask)

	// Knowledge
	s.mux.HandleFunc("POST /api/knowledge/ingest", s.handleIngest)
	s.mux.HandleFunc("POST /api/knowledge/search", s.handleSearch)
	s.mux.HandleFunc("GET /api/knowledge/graph/{id}", s.handleGraphContext)
}

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "nafs",
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
