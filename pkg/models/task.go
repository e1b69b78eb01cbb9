package models

import "time"

// TaskStatus represents the current state of a task.
//
// Transitions are monotonic: pending -> in_progress -> executing ->
// completed or failed. No other edges exist.
type TaskStatus string

const (
	// TaskStatusPending indicates the task has no agent yet.
	TaskStatusPending TaskStatus = "pending"
	// TaskStatusInProgress indicates an agent is bound but execution has not launched.
	TaskStatusInProgress TaskStatus = "in_progress"
	// TaskStatusExecuting indicates the dispatch loop has launched the task's strategy.
	TaskStatusExecuting TaskStatus = "executing"
	// TaskStatusCompleted indicates the task reached a terminal result.
	TaskStatusCompleted TaskStatus = "completed"
	// TaskStatusFailed indicates the task terminated unsuccessfully.
	TaskStatusFailed TaskStatus = "failed"
)

// Valid returns true if the status is a known value.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusExecuting,
		TaskStatusCompleted, TaskStatusFailed:
		return true
	default:
		return false
	}
}

// Terminal returns true if the status is completed or failed.
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusFailed
}

// AuditLogEntry records a single mutation applied to a task.
// Entries are append-only; insertion order is the source of truth
// for what happened to a task and when.
type AuditLogEntry struct {
	// Timestamp is when the entry was recorded.
	Timestamp time.Time `json:"timestamp"`
	// AgentID is the acting agent, or "system" for orchestrator actions.
	// Empty when no actor applies (e.g. submission).
	AgentID string `json:"agent_id,omitempty"`
	// Action is the short action tag (SUBMITTED, ASSIGNED, COMPLETED, ...).
	Action string `json:"action"`
	// Details is a free-text description of the mutation.
	Details string `json:"details"`
}

// Task represents a unit of work owned by the task store.
// External callers only ever see copies.
type Task struct {
	// ID is the unique identifier for this task.
	ID string `json:"id"`
	// Description is the natural-language statement of the work.
	Description string `json:"description"`
	// Status is the current lifecycle state.
	Status TaskStatus `json:"status"`
	// AssignedAgentID is the bound agent, empty while pending.
	AssignedAgentID string `json:"assigned_agent_id,omitempty"`
	// PreferredType restricts assignment to agents of this type.
	// Consulted only at assignment time; empty means any agent.
	PreferredType AgentType `json:"preferred_agent_type,omitempty"`
	// Result carries the final output or failure narration once terminal.
	Result string `json:"result,omitempty"`
	// AuditLog is the ordered, append-only record of mutations.
	AuditLog []AuditLogEntry `json:"audit_log"`
}

// AddLog appends an audit entry to the task.
func (t *Task) AddLog(agentID, action, details string) {
	t.AuditLog = append(t.AuditLog, AuditLogEntry{
		Timestamp: time.Now(),
		AgentID:   agentID,
		Action:    action,
		Details:   details,
	})
}

// Clone returns an independent deep copy of the task.
func (t *Task) Clone() *Task {
	cp := *t
	if t.AuditLog != nil {
		cp.AuditLog = make([]AuditLogEntry, len(t.AuditLog))
		copy(cp.AuditLog, t.AuditLog)
	}
	return &cp
}
