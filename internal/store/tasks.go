// Package store provides the concurrency-safe task and agent collections
// that back the orchestrator.
package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/nafs-dev/nafs/pkg/models"
)

// ErrTaskNotFound is returned when a task id is unknown to the store.
var ErrTaskNotFound = errors.New("task not found")

// TaskStore owns every task for its lifetime. Tasks are never deleted,
// and callers only ever receive copies. Every mutating operation appends
// exactly one audit entry under the same critical section as the mutation,
// so per-task audit ordering matches mutation ordering.
type TaskStore struct {
	// tasks maps task IDs to tasks.
	tasks map[string]*models.Task
	// mu protects tasks.
	mu sync.RWMutex
}

// NewTaskStore creates an empty TaskStore.
func NewTaskStore() *TaskStore {
	return &TaskStore{
		tasks: make(map[string]*models.Task),
	}
}

// Submit creates a new pending task and returns its generated id.
func (s *TaskStore) Submit(description string, preferred models.AgentType) string {
	task := &models.Task{
		ID:            uuid.New().String(),
		Description:   description,
		Status:        models.TaskStatusPending,
		PreferredType: preferred,
	}
	task.AddLog("", "SUBMITTED", fmt.Sprintf("Task submitted: %s", description))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[task.ID] = task
	return task.ID
}

// Get returns a copy of the task, or ErrTaskNotFound.
func (s *TaskStore) Get(taskID string) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[taskID]
	if !ok {
		return nil, ErrTaskNotFound
	}
	return task.Clone(), nil
}

// ListAll returns copies of every task in the store.
func (s *TaskStore) ListAll() []*models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]*models.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		tasks = append(tasks, task.Clone())
	}
	return tasks
}

// Assign binds an agent to a pending task and moves it to in_progress.
// Assignment is idempotent: if the task already has an agent, that agent's
// id is returned and no audit entry is appended.
func (s *TaskStore) Assign(taskID, agentID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[taskID]
	if !ok {
		return "", ErrTaskNotFound
	}
	if task.AssignedAgentID != "" {
		return task.AssignedAgentID, nil
	}

	task.AssignedAgentID = agentID
	task.Status = models.TaskStatusInProgress
	task.AddLog("system", "ASSIGNED", fmt.Sprintf("Assigned to agent %s", agentID))
	return agentID, nil
}

// AssignedAgent returns the agent bound to the task, or "" if unassigned.
func (s *TaskStore) AssignedAgent(taskID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[taskID]
	if !ok {
		return "", ErrTaskNotFound
	}
	return task.AssignedAgentID, nil
}

// MarkExecuting flips a single task from in_progress to executing.
// Returns false without error if the task is not in_progress, so concurrent
// callers cannot launch the same task twice.
func (s *TaskStore) MarkExecuting(taskID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[taskID]
	if !ok {
		return false, ErrTaskNotFound
	}
	if task.Status != models.TaskStatusInProgress {
		return false, nil
	}
	task.Status = models.TaskStatusExecuting
	task.AddLog("system", "EXECUTING", "Execution launched")
	return true, nil
}

// ClaimRunnable atomically flips every in_progress task with a bound agent
// to executing and returns the (task id, agent id) pairs claimed. This is
// the single serialization point that prevents double-launch: a task is
// returned by at most one call across all concurrent dispatch iterations.
func (s *TaskStore) ClaimRunnable() [][2]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var claimed [][2]string
	for id, task := range s.tasks {
		if task.Status == models.TaskStatusInProgress && task.AssignedAgentID != "" {
			task.Status = models.TaskStatusExecuting
			task.AddLog("system", "EXECUTING", "Execution launched")
			claimed = append(claimed, [2]string{id, task.AssignedAgentID})
		}
	}
	return claimed
}

// Complete marks the task completed and records its result.
func (s *TaskStore) Complete(taskID, result string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[taskID]
	if !ok {
		return ErrTaskNotFound
	}
	task.Status = models.TaskStatusCompleted
	task.Result = result
	task.AddLog(task.AssignedAgentID, "COMPLETED", fmt.Sprintf("Task completed with result: %s", result))
	return nil
}

// Fail marks the task failed and records the failure narration.
func (s *TaskStore) Fail(taskID, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[taskID]
	if !ok {
		return ErrTaskNotFound
	}
	task.Status = models.TaskStatusFailed
	task.Result = reason
	task.AddLog(task.AssignedAgentID, "FAILED", fmt.Sprintf("Task failed: %s", reason))
	return nil
}

// Restore inserts a task loaded from a snapshot, keeping its id and state.
func (s *TaskStore) Restore(task *models.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[task.ID] = task.Clone()
}

// Count returns the number of tasks in the store.
func (s *TaskStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}
