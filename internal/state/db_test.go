package state

import (
	"path/filepath"
	"testing"

	"github.com/nafs-dev/nafs/pkg/models"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nafs.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSaveAndLoadTask(t *testing.T) {
	db := openTestDB(t)

	task := &models.Task{
		ID:              "task-1",
		Description:     "investigate caches",
		Status:          models.TaskStatusInProgress,
		AssignedAgentID: "agent-1",
		PreferredType:   models.AgentTypeResearcher,
	}
	task.AddLog("", "SUBMITTED", "Task submitted: investigate caches")
	task.AddLog("system", "ASSIGNED", "Assigned to agent agent-1")

	if err := db.SaveTask(task); err != nil {
		t.Fatalf("save task: %v", err)
	}

	tasks, err := db.LoadTasks()
	if err != nil {
		t.Fatalf("load tasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}

	got := tasks[0]
	if got.Status != models.TaskStatusInProgress {
		t.Errorf("expected in_progress, got %q", got.Status)
	}
	if got.AssignedAgentID != "agent-1" {
		t.Errorf("expected agent-1, got %q", got.AssignedAgentID)
	}
	if len(got.AuditLog) != 2 || got.AuditLog[1].Action != "ASSIGNED" {
		t.Errorf("audit log did not round-trip: %v", got.AuditLog)
	}
}

func TestSaveTaskUpsert(t *testing.T) {
	db := openTestDB(t)

	task := &models.Task{ID: "task-1", Description: "work", Status: models.TaskStatusPending}
	if err := db.SaveTask(task); err != nil {
		t.Fatalf("save task: %v", err)
	}

	task.Status = models.TaskStatusCompleted
	task.Result = "done"
	if err := db.SaveTask(task); err != nil {
		t.Fatalf("resave task: %v", err)
	}

	tasks, err := db.LoadTasks()
	if err != nil {
		t.Fatalf("load tasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task after upsert, got %d", len(tasks))
	}
	if tasks[0].Status != models.TaskStatusCompleted || tasks[0].Result != "done" {
		t.Errorf("upsert did not stick: %q %q", tasks[0].Status, tasks[0].Result)
	}
}

func TestSaveAndLoadAgent(t *testing.T) {
	db := openTestDB(t)

	profile := models.AgentProfile{
		ID:           "agent-1",
		Name:         "R1",
		Type:         models.AgentTypeResearcher,
		Capabilities: []string{"search"},
	}
	if err := db.SaveAgent(profile); err != nil {
		t.Fatalf("save agent: %v", err)
	}

	profiles, err := db.LoadAgents()
	if err != nil {
		t.Fatalf("load agents: %v", err)
	}
	if len(profiles) != 1 {
		t.Fatalf("expected 1 agent, got %d", len(profiles))
	}
	if profiles[0].Type != models.AgentTypeResearcher {
		t.Errorf("expected researcher, got %q", profiles[0].Type)
	}
	if len(profiles[0].Capabilities) != 1 || profiles[0].Capabilities[0] != "search" {
		t.Errorf("capabilities did not round-trip: %v", profiles[0].Capabilities)
	}
}

func TestReopenPreservesData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nafs.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.SaveTask(&models.Task{ID: "task-1", Description: "persists", Status: models.TaskStatusPending}); err != nil {
		t.Fatalf("save task: %v", err)
	}
	db.Close()

	db, err = Open(path)
	if err != nil {
		t.Fatalf("reopen db: %v", err)
	}
	defer db.Close()

	tasks, err := db.LoadTasks()
	if err != nil {
		t.Fatalf("load tasks: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Description != "persists" {
		t.Errorf("data lost across reopen: %v", tasks)
	}
}
