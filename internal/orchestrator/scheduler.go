package orchestrator

// AssignTask matches a pending task to a registered agent and moves it
// to in_progress.
//
// Assignment is idempotent: if the task already has an agent, that
// agent's id is returned and nothing changes. When the task carries a
// preferred agent type, only agents of that type are considered — there
// is no fallback to an unrelated agent. With no preference, any
// registered agent is eligible.
//
// Returns store.ErrTaskNotFound for unknown ids and ErrNoSuitableAgent
// when no candidate exists; the task then stays pending and assignment
// can be retried after more agents register.
//
// The agent lookup and the task write are separate critical sections.
// An agent registered between the two is missed by this call; that race
// is acceptable because assignment is retriable.
func (o *Orchestrator) AssignTask(taskID string) (string, error) {
	task, err := o.tasks.Get(taskID)
	if err != nil {
		return "", err
	}
	if task.AssignedAgentID != "" {
		return task.AssignedAgentID, nil
	}

	var agentID string
	if task.PreferredType != "" {
		profile, ok := o.agents.FindByType(task.PreferredType)
		if !ok {
			debugLog("[scheduler] no %s agent for task %s", task.PreferredType, taskID)
			return "", ErrNoSuitableAgent
		}
		agentID = profile.ID
	} else {
		profile, ok := o.agents.Any()
		if !ok {
			debugLog("[scheduler] no agents registered for task %s", taskID)
			return "", ErrNoSuitableAgent
		}
		agentID = profile.ID
	}

	assigned, err := o.tasks.Assign(taskID, agentID)
	if err != nil {
		return "", err
	}
	o.persistTask(taskID)
	debugLog("[scheduler] task %s assigned to %s", taskID, assigned)
	return assigned, nil
}
