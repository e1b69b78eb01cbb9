// Package state provides SQLite-backed snapshot persistence for the
// orchestrator's task and agent collections. Snapshots are best-effort:
// they are loaded once at startup and rewritten after every mutation, and
// a failed write never aborts the operation that triggered it.
package state

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/nafs-dev/nafs/pkg/models"
)

// DB wraps an SQLite database holding the task and agent snapshots.
// The two collections are independent tables; there are no cross-table
// transactions.
type DB struct {
	conn *sql.DB
	path string
	mu   sync.Mutex
}

// DefaultPath returns the snapshot database path inside the data directory.
func DefaultPath(dataDir string) string {
	return filepath.Join(dataDir, "nafs.db")
}

// Open opens an SQLite database at the given path, creating parent
// directories and applying schema migrations. WAL mode is enabled for
// concurrent reads.
func Open(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	db := &DB{conn: conn, path: path}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.conn.Close()
}

// Path returns the path to the database file.
func (db *DB) Path() string {
	return db.path
}

// migrate applies all pending schema migrations.
func (db *DB) migrate() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_version table: %w", err)
	}

	var currentVersion int
	row := db.conn.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("get schema version: %w", err)
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{1, migrationV1Tasks},
		{2, migrationV2Agents},
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}

		tx, err := db.conn.Begin()
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}

		if _, err := tx.Exec(m.sql); err != nil {
			tx.Rollback()
			return fmt.Errorf("apply migration v%d: %w", m.version, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration v%d: %w", m.version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration v%d: %w", m.version, err)
		}
	}

	return nil
}

const migrationV1Tasks = `
CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	description TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'pending',
	assigned_agent_id TEXT,
	preferred_type TEXT,
	result TEXT,
	audit_log TEXT
);

CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
`

const migrationV2Agents = `
CREATE TABLE IF NOT EXISTS agents (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	agent_type TEXT NOT NULL,
	capabilities TEXT
);
`

// SaveTask upserts the full row for a task, audit log included.
func (db *DB) SaveTask(task *models.Task) error {
	auditJSON, err := json.Marshal(task.AuditLog)
	if err != nil {
		return fmt.Errorf("marshal audit log: %w", err)
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	_, err = db.conn.Exec(`
		INSERT INTO tasks (id, description, status, assigned_agent_id, preferred_type, result, audit_log)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			description = excluded.description,
			status = excluded.status,
			assigned_agent_id = excluded.assigned_agent_id,
			preferred_type = excluded.preferred_type,
			result = excluded.result,
			audit_log = excluded.audit_log
	`, task.ID, task.Description, string(task.Status), task.AssignedAgentID,
		string(task.PreferredType), task.Result, string(auditJSON))
	if err != nil {
		return fmt.Errorf("save task %s: %w", task.ID, err)
	}
	return nil
}

// SaveAgent upserts the full row for an agent profile.
func (db *DB) SaveAgent(profile models.AgentProfile) error {
	capsJSON, err := json.Marshal(profile.Capabilities)
	if err != nil {
		return fmt.Errorf("marshal capabilities: %w", err)
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	_, err = db.conn.Exec(`
		INSERT INTO agents (id, name, agent_type, capabilities)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			agent_type = excluded.agent_type,
			capabilities = excluded.capabilities
	`, profile.ID, profile.Name, string(profile.Type), string(capsJSON))
	if err != nil {
		return fmt.Errorf("save agent %s: %w", profile.ID, err)
	}
	return nil
}

// LoadTasks reads every task row back into models.
func (db *DB) LoadTasks() ([]*models.Task, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	rows, err := db.conn.Query(`
		SELECT id, description, status, assigned_agent_id, preferred_type, result, audit_log
		FROM tasks
	`)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		var task models.Task
		var status, preferred string
		var assigned, result, auditJSON sql.NullString

		if err := rows.Scan(&task.ID, &task.Description, &status, &assigned,
			&preferred, &result, &auditJSON); err != nil {
			return nil, fmt.Errorf("scan task row: %w", err)
		}

		task.Status = models.TaskStatus(status)
		task.PreferredType = models.AgentType(preferred)
		task.AssignedAgentID = assigned.String
		task.Result = result.String
		if auditJSON.Valid && auditJSON.String != "" {
			if err := json.Unmarshal([]byte(auditJSON.String), &task.AuditLog); err != nil {
				return nil, fmt.Errorf("unmarshal audit log for %s: %w", task.ID, err)
			}
		}

		tasks = append(tasks, &task)
	}
	return tasks, rows.Err()
}

// LoadAgents reads every agent row back into profiles.
func (db *DB) LoadAgents() ([]models.AgentProfile, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	rows, err := db.conn.Query(`SELECT id, name, agent_type, capabilities FROM agents`)
	if err != nil {
		return nil, fmt.Errorf("query agents: %w", err)
	}
	defer rows.Close()

	var profiles []models.AgentProfile
	for rows.Next() {
		var profile models.AgentProfile
		var agentType string
		var capsJSON sql.NullString

		if err := rows.Scan(&profile.ID, &profile.Name, &agentType, &capsJSON); err != nil {
			return nil, fmt.Errorf("scan agent row: %w", err)
		}

		profile.Type = models.AgentType(agentType)
		if capsJSON.Valid && capsJSON.String != "" {
			if err := json.Unmarshal([]byte(capsJSON.String), &profile.Capabilities); err != nil {
				return nil, fmt.Errorf("unmarshal capabilities for %s: %w", profile.ID, err)
			}
		}

		profiles = append(profiles, profile)
	}
	return profiles, rows.Err()
}
