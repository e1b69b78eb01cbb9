package store

import (
	"errors"
	"sync"
	"testing"

	"github.com/nafs-dev/nafs/pkg/models"
)

func TestTaskStoreSubmit(t *testing.T) {
	s := NewTaskStore()

	id := s.Submit("find quantum docs", "")
	if id == "" {
		t.Fatal("expected non-empty task id")
	}

	task, err := s.Get(id)
	if err != nil {
		t.Fatalf("get submitted task: %v", err)
	}
	if task.Status != models.TaskStatusPending {
		t.Errorf("expected pending status, got %q", task.Status)
	}
	if task.AssignedAgentID != "" {
		t.Errorf("expected no assigned agent, got %q", task.AssignedAgentID)
	}
	if len(task.AuditLog) != 1 || task.AuditLog[0].Action != "SUBMITTED" {
		t.Errorf("expected single SUBMITTED audit entry, got %v", task.AuditLog)
	}
}

func TestTaskStoreGetUnknown(t *testing.T) {
	s := NewTaskStore()

	if _, err := s.Get("missing"); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
	if _, err := s.Assign("missing", "agent-1"); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound from Assign, got %v", err)
	}
	if err := s.Complete("missing", "done"); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound from Complete, got %v", err)
	}
}

func TestTaskStoreGetReturnsCopy(t *testing.T) {
	s := NewTaskStore()
	id := s.Submit("immutable", "")

	task, _ := s.Get(id)
	task.Description = "mutated"
	task.AddLog("x", "HACKED", "should not stick")

	fresh, _ := s.Get(id)
	if fresh.Description != "immutable" {
		t.Errorf("mutation through returned copy leaked: %q", fresh.Description)
	}
	if len(fresh.AuditLog) != 1 {
		t.Errorf("audit append through returned copy leaked: %d entries", len(fresh.AuditLog))
	}
}

func TestTaskStoreAssignIdempotent(t *testing.T) {
	s := NewTaskStore()
	id := s.Submit("task", "")

	first, err := s.Assign(id, "agent-1")
	if err != nil {
		t.Fatalf("first assign: %v", err)
	}
	second, err := s.Assign(id, "agent-2")
	if err != nil {
		t.Fatalf("second assign: %v", err)
	}

	if first != "agent-1" || second != "agent-1" {
		t.Errorf("expected agent-1 both times, got %q then %q", first, second)
	}

	task, _ := s.Get(id)
	assigned := 0
	for _, entry := range task.AuditLog {
		if entry.Action == "ASSIGNED" {
			assigned++
		}
	}
	if assigned != 1 {
		t.Errorf("expected exactly 1 ASSIGNED audit entry, got %d", assigned)
	}
	if task.Status != models.TaskStatusInProgress {
		t.Errorf("expected in_progress status, got %q", task.Status)
	}
}

func TestTaskStoreClaimRunnableOnce(t *testing.T) {
	s := NewTaskStore()
	id := s.Submit("task", "")
	if _, err := s.Assign(id, "agent-1"); err != nil {
		t.Fatalf("assign: %v", err)
	}

	first := s.ClaimRunnable()
	if len(first) != 1 {
		t.Fatalf("expected 1 claimed pair, got %d", len(first))
	}
	if first[0][0] != id || first[0][1] != "agent-1" {
		t.Errorf("unexpected claim pair: %v", first[0])
	}

	// A second sweep must not re-claim the same task.
	if second := s.ClaimRunnable(); len(second) != 0 {
		t.Errorf("expected 0 claims on second sweep, got %d", len(second))
	}

	task, _ := s.Get(id)
	if task.Status != models.TaskStatusExecuting {
		t.Errorf("expected executing status, got %q", task.Status)
	}
}

func TestTaskStoreClaimRunnableConcurrent(t *testing.T) {
	s := NewTaskStore()
	id := s.Submit("task", "")
	if _, err := s.Assign(id, "agent-1"); err != nil {
		t.Fatalf("assign: %v", err)
	}

	const sweeps = 16
	var wg sync.WaitGroup
	claims := make(chan int, sweeps)
	for i := 0; i < sweeps; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			claims <- len(s.ClaimRunnable())
		}()
	}
	wg.Wait()
	close(claims)

	total := 0
	for n := range claims {
		total += n
	}
	if total != 1 {
		t.Errorf("task claimed %d times across concurrent sweeps, want exactly 1", total)
	}
}

func TestTaskStoreMarkExecuting(t *testing.T) {
	s := NewTaskStore()
	id := s.Submit("task", "")

	// Pending tasks cannot be launched.
	ok, err := s.MarkExecuting(id)
	if err != nil || ok {
		t.Errorf("MarkExecuting on pending = %v, %v; want false, nil", ok, err)
	}

	if _, err := s.Assign(id, "agent-1"); err != nil {
		t.Fatalf("assign: %v", err)
	}

	ok, err = s.MarkExecuting(id)
	if err != nil || !ok {
		t.Fatalf("MarkExecuting on in_progress = %v, %v; want true, nil", ok, err)
	}

	// Flipping twice must fail the second time.
	ok, err = s.MarkExecuting(id)
	if err != nil || ok {
		t.Errorf("second MarkExecuting = %v, %v; want false, nil", ok, err)
	}
}

func TestTaskStoreCompleteAndFail(t *testing.T) {
	s := NewTaskStore()

	completedID := s.Submit("will complete", "")
	if err := s.Complete(completedID, "report text"); err != nil {
		t.Fatalf("complete: %v", err)
	}
	task, _ := s.Get(completedID)
	if task.Status != models.TaskStatusCompleted || task.Result != "report text" {
		t.Errorf("unexpected completed task state: %q %q", task.Status, task.Result)
	}

	failedID := s.Submit("will fail", "")
	if err := s.Fail(failedID, "agent missing"); err != nil {
		t.Fatalf("fail: %v", err)
	}
	task, _ = s.Get(failedID)
	if task.Status != models.TaskStatusFailed || task.Result != "agent missing" {
		t.Errorf("unexpected failed task state: %q %q", task.Status, task.Result)
	}
}

func TestTaskStoreConcurrentSubmit(t *testing.T) {
	s := NewTaskStore()

	const n = 64
	var wg sync.WaitGroup
	ids := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- s.Submit("concurrent", "")
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		if seen[id] {
			t.Errorf("duplicate task id %s", id)
		}
		seen[id] = true
	}
	if len(seen) != n {
		t.Errorf("expected %d distinct ids, got %d", n, len(seen))
	}
	if s.Count() != n {
		t.Errorf("expected %d stored tasks, got %d", n, s.Count())
	}
}
