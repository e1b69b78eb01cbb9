package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nafs-dev/nafs/internal/orchestrator"
	"github.com/nafs-dev/nafs/internal/store"
	"github.com/nafs-dev/nafs/pkg/models"
)

// registerAgentRequest is the JSON body for registering an agent.
type registerAgentRequest struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	Capabilities []string `json:"capabilities"`
}

// submitTaskRequest is the JSON body for submitting a task.
type submitTaskRequest struct {
	Description   string `json:"description"`
	PreferredType string `json:"preferred_type"`
}

// handleRegisterAgent handles POST /api/agents — register or update an agent profile.
func (s *Server) handleRegisterAgent(w http.ResponseWriter, r *http.Request) {
	var req registerAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	agentType, ok := models.ParseAgentType(req.Type)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown agent type: "+req.Type)
		return
	}

	if req.Name == "" {
		req.Name = req.ID
	}

	s.orch.RegisterAgent(models.AgentProfile{
		ID:           req.ID,
		Name:         req.Name,
		Type:         agentType,
		Capabilities: req.Capabilities,
	})

	writeJSON(w, http.StatusCreated, map[string]string{"id": req.ID})
}

// handleStats handles GET /api/agents/stats — task and agent counts.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	tasks, agents := s.orch.Stats()
	writeJSON(w, http.StatusOK, map[string]int{
		"tasks":  tasks,
		"agents": agents,
	})
}

// handleSubmitTask handles POST /api/agents/tasks — create a pending task.
func (s *Server) handleSubmitTask(w http.ResponseWriter, r *http.Request) {
	var req submitTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Description == "" {
		writeError(w, http.StatusBadRequest, "description is required")
		return
	}

	var preferred models.AgentType
	if req.PreferredType != "" {
		parsed, ok := models.ParseAgentType(req.PreferredType)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown agent type: "+req.PreferredType)
			return
		}
		preferred = parsed
	}

	taskID := s.orch.SubmitTask(req.Description, preferred)
	writeJSON(w, http.StatusCreated, map[string]string{"task_id": taskID})
}

// handleListTasks handles GET /api/agents/tasks — list every task.
func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.orch.ListTasks())
}

// handleGetTask handles GET /api/agents/tasks/{id} — fetch one task.
func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.orch.GetTask(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// handleAssignTask handles POST /api/agents/tasks/{id}/assign — bind the
// task to a matching agent. 409 when no registered agent matches; the
// task stays pending and the call can be retried.
func (s *Server) handleAssignTask(w http.ResponseWriter, r *http.Request) {
	taskID := r.PathValue("id")

	agentID, err := s.orch.AssignTask(taskID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrTaskNotFound):
			writeError(w, http.StatusNotFound, "task not found")
		case errors.Is(err, orchestrator.ErrNoSuitableAgent):
			writeError(w, http.StatusConflict, "no suitable agents available")
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"task_id":  taskID,
		"agent_id": agentID,
	})
}
