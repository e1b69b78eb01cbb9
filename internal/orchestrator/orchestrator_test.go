package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nafs-dev/nafs/internal/search"
	"github.com/nafs-dev/nafs/internal/store"
	"github.com/nafs-dev/nafs/pkg/models"
)

// fakeLLM scripts provider responses by inspecting the prompt.
type fakeLLM struct {
	generate func(prompt string) (string, error)
}

func (f *fakeLLM) Generate(_ context.Context, prompt string) (string, error) {
	if f.generate == nil {
		return "generated text", nil
	}
	return f.generate(prompt)
}

// newTestOrchestrator builds an orchestrator with fast timings and the
// given provider. Search and graph default to in-memory collaborators.
func newTestOrchestrator(llmProvider *fakeLLM) (*Orchestrator, *search.MemoryIndex) {
	idx := search.NewMemoryIndex()
	o := New(Config{
		LLM:                 llmProvider,
		Search:              idx,
		DispatchInterval:    10 * time.Millisecond,
		ManagerPollInterval: 20 * time.Millisecond,
		ManagerWaitCeiling:  500 * time.Millisecond,
	})
	return o, idx
}

// waitForStatus polls until the task reaches the wanted status or the
// timeout elapses.
func waitForStatus(t *testing.T, o *Orchestrator, taskID string, want models.TaskStatus, timeout time.Duration) *models.Task {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		task, err := o.GetTask(taskID)
		if err != nil {
			t.Fatalf("get task: %v", err)
		}
		if task.Status == want {
			return task
		}
		time.Sleep(5 * time.Millisecond)
	}
	task, _ := o.GetTask(taskID)
	t.Fatalf("task %s never reached %q (currently %q)", taskID, want, task.Status)
	return nil
}

func TestSubmitAndGetTask(t *testing.T) {
	o, _ := newTestOrchestrator(&fakeLLM{})

	id := o.SubmitTask("find quantum docs", "")
	task, err := o.GetTask(id)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if task.Status != models.TaskStatusPending {
		t.Errorf("expected pending, got %q", task.Status)
	}

	if _, err := o.GetTask("missing"); !errors.Is(err, store.ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestAssignTaskNoAgents(t *testing.T) {
	o, _ := newTestOrchestrator(&fakeLLM{})

	id := o.SubmitTask("task", models.AgentTypeCoder)
	if _, err := o.AssignTask(id); !errors.Is(err, ErrNoSuitableAgent) {
		t.Fatalf("expected ErrNoSuitableAgent, got %v", err)
	}

	task, _ := o.GetTask(id)
	if task.Status != models.TaskStatusPending {
		t.Errorf("task must stay pending after failed assignment, got %q", task.Status)
	}
}

func TestAssignTaskPreferredTypeNoFallback(t *testing.T) {
	o, _ := newTestOrchestrator(&fakeLLM{})
	o.RegisterAgent(models.AgentProfile{ID: "R1", Name: "R1", Type: models.AgentTypeResearcher})

	// A coder preference must not fall back to the researcher.
	id := o.SubmitTask("write code", models.AgentTypeCoder)
	if _, err := o.AssignTask(id); !errors.Is(err, ErrNoSuitableAgent) {
		t.Fatalf("expected ErrNoSuitableAgent, got %v", err)
	}

	// Assignment is retriable after a matching agent registers.
	o.RegisterAgent(models.AgentProfile{ID: "C1", Name: "C1", Type: models.AgentTypeCoder})
	agentID, err := o.AssignTask(id)
	if err != nil {
		t.Fatalf("retry assign: %v", err)
	}
	if agentID != "C1" {
		t.Errorf("expected C1, got %q", agentID)
	}
}

func TestAssignTaskIdempotent(t *testing.T) {
	o, _ := newTestOrchestrator(&fakeLLM{})
	o.RegisterAgent(models.AgentProfile{ID: "R1", Name: "R1", Type: models.AgentTypeResearcher})

	id := o.SubmitTask("task", "")

	first, err := o.AssignTask(id)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}

	o.RegisterAgent(models.AgentProfile{ID: "R2", Name: "R2", Type: models.AgentTypeResearcher})
	second, err := o.AssignTask(id)
	if err != nil {
		t.Fatalf("second assign: %v", err)
	}

	if first != second {
		t.Errorf("assignment not idempotent: %q then %q", first, second)
	}

	task, _ := o.GetTask(id)
	assigned := 0
	for _, entry := range task.AuditLog {
		if entry.Action == "ASSIGNED" {
			assigned++
		}
	}
	if assigned != 1 {
		t.Errorf("expected 1 ASSIGNED entry, got %d", assigned)
	}
}

func TestStats(t *testing.T) {
	o, _ := newTestOrchestrator(&fakeLLM{})

	o.RegisterAgent(models.AgentProfile{ID: "R1", Name: "R1", Type: models.AgentTypeResearcher})
	o.SubmitTask("one", "")
	o.SubmitTask("two", "")

	tasks, agents := o.Stats()
	if tasks != 2 || agents != 1 {
		t.Errorf("Stats() = %d, %d; want 2, 1", tasks, agents)
	}
}

func TestDispatchExecutesAssignedTask(t *testing.T) {
	o, idx := newTestOrchestrator(&fakeLLM{
		generate: func(prompt string) (string, error) {
			return "a research report", nil
		},
	})
	o.RegisterAgent(models.AgentProfile{ID: "R1", Name: "R1", Type: models.AgentTypeResearcher})

	id := o.SubmitTask("find quantum docs", "")
	agentID, err := o.AssignTask(id)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if agentID != "R1" {
		t.Fatalf("expected R1, got %q", agentID)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go o.Run(ctx)

	task := waitForStatus(t, o, id, models.TaskStatusCompleted, 2*time.Second)
	if task.Result == "" {
		t.Error("expected non-empty result")
	}

	// The result feeds back into the search collaborator.
	hits, err := idx.Search(context.Background(), "quantum", 5)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	found := false
	for _, hit := range hits {
		if hit.DocID == "agent-result-"+id {
			found = true
			if !strings.Contains(hit.Content, "find quantum docs") {
				t.Errorf("sunk document missing original description: %q", hit.Content)
			}
		}
	}
	if !found {
		t.Error("expected completed result to be ingested as a document")
	}
}

func TestDispatchTransitionsAreMonotonic(t *testing.T) {
	o, _ := newTestOrchestrator(&fakeLLM{})
	o.RegisterAgent(models.AgentProfile{ID: "V1", Name: "V1", Type: models.AgentTypeReviewer})

	id := o.SubmitTask("review this", "")
	if _, err := o.AssignTask(id); err != nil {
		t.Fatalf("assign: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go o.Run(ctx)

	task := waitForStatus(t, o, id, models.TaskStatusCompleted, 2*time.Second)

	// Audit order encodes the observed transitions.
	var actions []string
	for _, entry := range task.AuditLog {
		actions = append(actions, entry.Action)
	}
	want := []string{"SUBMITTED", "ASSIGNED", "EXECUTING", "COMPLETED"}
	if len(actions) != len(want) {
		t.Fatalf("audit actions = %v, want %v", actions, want)
	}
	for i := range want {
		if actions[i] != want[i] {
			t.Errorf("audit action %d = %q, want %q", i, actions[i], want[i])
		}
	}
}

func TestDispatchUnregisteredAgentFailsTask(t *testing.T) {
	o, _ := newTestOrchestrator(&fakeLLM{})
	o.RegisterAgent(models.AgentProfile{ID: "R1", Name: "R1", Type: models.AgentTypeResearcher})

	id := o.SubmitTask("task", "")
	if _, err := o.AssignTask(id); err != nil {
		t.Fatalf("assign: %v", err)
	}

	// Simulate an agent set that no longer resolves the bound agent by
	// running dispatch against a fresh registry.
	o.agents = store.NewAgentRegistry()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go o.Run(ctx)

	task := waitForStatus(t, o, id, models.TaskStatusFailed, 2*time.Second)
	if !strings.Contains(task.Result, "not registered") {
		t.Errorf("expected missing-agent narration, got %q", task.Result)
	}
}
