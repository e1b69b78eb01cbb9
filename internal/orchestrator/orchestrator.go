// Package orchestrator manages the task lifecycle: submission, agent
// assignment, the background dispatch loop, and per-agent-type execution.
package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/nafs-dev/nafs/internal/graph"
	"github.com/nafs-dev/nafs/internal/llm"
	"github.com/nafs-dev/nafs/internal/search"
	"github.com/nafs-dev/nafs/internal/state"
	"github.com/nafs-dev/nafs/internal/store"
	"github.com/nafs-dev/nafs/pkg/models"
)

// ErrNoSuitableAgent is returned when no registered agent matches the
// assignment criteria. The task stays pending; assignment is retriable.
var ErrNoSuitableAgent = errors.New("no suitable agents available")

// llmFallback substitutes for model output when the provider is
// unconfigured or a call fails. Collaborator failures are never surfaced
// as task failures.
const llmFallback = "model unavailable"

// Config contains configuration and collaborators for the Orchestrator.
// LLM, Search, Graph, and Snapshot are optional: a nil collaborator
// degrades the strategies that use it but never fails a task.
type Config struct {
	// LLM is the text-generation collaborator.
	LLM llm.Provider
	// Search is the document-search collaborator.
	Search search.Engine
	// Graph is the knowledge-graph collaborator.
	Graph graph.Client
	// Snapshot persists tasks and agents best-effort.
	Snapshot *state.DB
	// Logger receives debug output. Nil disables logging.
	Logger *DebugLogger
	// DispatchInterval is the dispatch loop cadence. Defaults to 1s.
	DispatchInterval time.Duration
	// ManagerPollInterval is the manager subtask re-check cadence. Defaults to 2s.
	ManagerPollInterval time.Duration
	// ManagerWaitCeiling bounds the manager subtask wait. Defaults to 300s.
	ManagerWaitCeiling time.Duration
}

// Orchestrator coordinates agents and tasks. The task and agent
// collections are guarded independently; there are no cross-collection
// transactions.
type Orchestrator struct {
	tasks  *store.TaskStore
	agents *store.AgentRegistry

	llm    llm.Provider
	search search.Engine
	graph  graph.Client
	snap   *state.DB
	logger *DebugLogger

	dispatchInterval    time.Duration
	managerPollInterval time.Duration
	managerWaitCeiling  time.Duration
}

// New creates an Orchestrator with empty collections.
func New(cfg Config) *Orchestrator {
	if cfg.DispatchInterval == 0 {
		cfg.DispatchInterval = time.Second
	}
	if cfg.ManagerPollInterval == 0 {
		cfg.ManagerPollInterval = 2 * time.Second
	}
	if cfg.ManagerWaitCeiling == 0 {
		cfg.ManagerWaitCeiling = 300 * time.Second
	}

	o := &Orchestrator{
		tasks:               store.NewTaskStore(),
		agents:              store.NewAgentRegistry(),
		llm:                 cfg.LLM,
		search:              cfg.Search,
		graph:               cfg.Graph,
		snap:                cfg.Snapshot,
		logger:              cfg.Logger,
		dispatchInterval:    cfg.DispatchInterval,
		managerPollInterval: cfg.ManagerPollInterval,
		managerWaitCeiling:  cfg.ManagerWaitCeiling,
	}
	setPackageLogger(cfg.Logger)
	return o
}

// RegisterAgent stores an agent profile. Registration is an idempotent
// upsert keyed by agent id.
func (o *Orchestrator) RegisterAgent(profile models.AgentProfile) {
	o.agents.Register(profile)
	o.persistAgent(profile)
	debugLog("[registry] registered agent %s (%s, %s)", profile.ID, profile.Name, profile.Type)
}

// SubmitTask creates a new pending task and returns its id.
func (o *Orchestrator) SubmitTask(description string, preferred models.AgentType) string {
	taskID := o.tasks.Submit(description, preferred)
	o.persistTask(taskID)
	debugLog("[tasks] submitted %s (preferred=%q)", taskID, preferred)
	return taskID
}

// GetTask returns a copy of the task, or store.ErrTaskNotFound.
func (o *Orchestrator) GetTask(taskID string) (*models.Task, error) {
	return o.tasks.Get(taskID)
}

// ListTasks returns copies of every task.
func (o *Orchestrator) ListTasks() []*models.Task {
	return o.tasks.ListAll()
}

// Stats returns the task and agent counts.
func (o *Orchestrator) Stats() (int, int) {
	return o.tasks.Count(), o.agents.Count()
}

// Restore loads previously snapshotted tasks and agents into the
// collections. Called once at startup before the dispatch loop runs.
func (o *Orchestrator) Restore() error {
	if o.snap == nil {
		return nil
	}

	tasks, err := o.snap.LoadTasks()
	if err != nil {
		return err
	}
	for _, task := range tasks {
		o.tasks.Restore(task)
	}

	agents, err := o.snap.LoadAgents()
	if err != nil {
		return err
	}
	for _, profile := range agents {
		o.agents.Register(profile)
	}

	debugLog("[restore] loaded %d tasks, %d agents from snapshot", len(tasks), len(agents))
	return nil
}

// generate calls the text-generation collaborator.
// Returns an error only when the provider is missing or the call fails.
func (o *Orchestrator) generate(ctx context.Context, prompt string) (string, error) {
	if o.llm == nil {
		return "", errors.New("no text-generation provider configured")
	}
	return o.llm.Generate(ctx, prompt)
}

// mustGenerate calls the collaborator and substitutes a neutral fallback
// on failure, so callers always get usable text.
func (o *Orchestrator) mustGenerate(ctx context.Context, prompt string) string {
	out, err := o.generate(ctx, prompt)
	if err != nil {
		debugLog("[llm] generate failed: %v", err)
		return llmFallback
	}
	return out
}

// persistTask writes the task's current state to the snapshot, if one is
// configured. Fire, log, continue: a failed write never aborts the
// mutation that triggered it.
func (o *Orchestrator) persistTask(taskID string) {
	if o.snap == nil {
		return
	}
	task, err := o.tasks.Get(taskID)
	if err != nil {
		return
	}
	if err := o.snap.SaveTask(task); err != nil {
		debugLog("[snapshot] save task %s failed: %v", taskID, err)
	}
}

// persistAgent writes the profile to the snapshot, if one is configured.
func (o *Orchestrator) persistAgent(profile models.AgentProfile) {
	if o.snap == nil {
		return
	}
	if err := o.snap.SaveAgent(profile); err != nil {
		debugLog("[snapshot] save agent %s failed: %v", profile.ID, err)
	}
}
