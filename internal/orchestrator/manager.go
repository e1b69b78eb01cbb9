package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nafs-dev/nafs/pkg/models"
)

const managerPlanPrompt = `You are a Project Manager. Break down this objective into specialized steps.
Objective: '%s'
Available Agents: Researcher (data gathering), Analyst (pattern finding), Coder (implementation).
Output strict format per line: PLAN|<AgentType>|<TaskDescription>
Example: PLAN|Researcher|Find libraries for X`

const managerSynthesisPrompt = `You are a Project Manager. Synthesize these subtask results into a final report for: '%s'.

Results:
%s`

const (
	// managerNoSubtasks narrates a plan that produced zero subtasks.
	managerNoSubtasks = "No subtasks generated. Task failed."
	// managerTimedOut narrates a wait that hit the ceiling.
	managerTimedOut = "Manager timed out waiting for subtasks."
	// managerSynthesisFailed narrates a provider failure at the final step.
	managerSynthesisFailed = "Synthesis failed."
)

// managerStrategy decomposes an objective into typed subtasks, submits
// and assigns each through the orchestrator's normal machinery, then
// polls until every subtask reaches a terminal status or the wait
// ceiling elapses. On the timeout path the manager task itself still
// completes, with a timeout narration as its result.
type managerStrategy struct {
	o *Orchestrator
}

func (s *managerStrategy) Execute(ctx context.Context, _ models.AgentProfile, description, taskID string) string {
	subtaskIDs := s.plan(ctx, description)
	if len(subtaskIDs) == 0 {
		return managerNoSubtasks
	}

	debugLog("[manager] task %s spawned %d subtasks", taskID, len(subtaskIDs))

	results, ok := s.await(ctx, subtaskIDs)
	if !ok {
		debugLog("[manager] task %s hit wait ceiling", taskID)
		return managerTimedOut
	}

	out, err := s.o.generate(ctx, fmt.Sprintf(managerSynthesisPrompt, description, strings.Join(results, "\n---\n")))
	if err != nil {
		debugLog("[manager] synthesis failed: %v", err)
		return managerSynthesisFailed
	}
	return out
}

// plan asks the provider for a line-oriented plan and submits one
// subtask per PLAN line, assigning each immediately. Assignment failures
// are tolerated; an unassigned subtask simply stays pending and is
// picked up if a matching agent registers before the wait ceiling.
func (s *managerStrategy) plan(ctx context.Context, description string) []string {
	response, err := s.o.generate(ctx, fmt.Sprintf(managerPlanPrompt, description))
	if err != nil {
		debugLog("[manager] planning failed: %v", err)
		return nil
	}

	var subtaskIDs []string
	for _, line := range strings.Split(response, "\n") {
		parts := strings.Split(line, "|")
		if len(parts) < 3 || strings.TrimSpace(parts[0]) != "PLAN" {
			continue
		}

		subtaskID := s.o.SubmitTask(strings.TrimSpace(parts[2]), planAgentType(strings.TrimSpace(parts[1])))
		if _, err := s.o.AssignTask(subtaskID); err != nil {
			debugLog("[manager] assign subtask %s: %v", subtaskID, err)
		}
		subtaskIDs = append(subtaskIDs, subtaskID)
	}
	return subtaskIDs
}

// await polls every subtask on the manager cadence until all are
// terminal (true) or the ceiling elapses (false). Each terminal subtask
// contributes one labeled line to the returned results.
func (s *managerStrategy) await(ctx context.Context, subtaskIDs []string) ([]string, bool) {
	deadline := time.Now().Add(s.o.managerWaitCeiling)

	for {
		if time.Now().After(deadline) {
			return nil, false
		}

		results := make([]string, 0, len(subtaskIDs))
		allDone := true
		for _, id := range subtaskIDs {
			task, err := s.o.GetTask(id)
			if err != nil {
				continue
			}
			switch task.Status {
			case models.TaskStatusCompleted:
				results = append(results, fmt.Sprintf("Task %s: %s", id, task.Result))
			case models.TaskStatusFailed:
				results = append(results, fmt.Sprintf("Task %s: Failed", id))
			default:
				allDone = false
			}
		}

		if allDone {
			return results, true
		}

		select {
		case <-ctx.Done():
			return nil, false
		case <-time.After(s.o.managerPollInterval):
		}
	}
}

// planAgentType maps a plan line's agent name to a task type. Only the
// worker types are reachable from a plan; anything unrecognized becomes
// a researcher task, so a plan can never spawn another manager.
func planAgentType(name string) models.AgentType {
	switch strings.ToLower(name) {
	case "analyst":
		return models.AgentTypeAnalyst
	case "coder":
		return models.AgentTypeCoder
	default:
		return models.AgentTypeResearcher
	}
}
