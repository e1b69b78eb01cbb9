package orchestrator

import (
	"context"
	"fmt"
	"time"
)

// Run is the perpetual dispatch loop. Each cycle it atomically claims
// every in_progress task with a bound agent (flipping it to executing)
// and launches its strategy in its own goroutine. The loop never waits
// for executions to finish; once launched, a strategy runs to completion
// or to its own internal timeout. Run returns when ctx is cancelled.
func (o *Orchestrator) Run(ctx context.Context) {
	ticker := time.NewTicker(o.dispatchInterval)
	defer ticker.Stop()

	debugLog("[dispatch] loop started, cadence %v", o.dispatchInterval)

	for {
		select {
		case <-ctx.Done():
			debugLog("[dispatch] loop stopped: %v", ctx.Err())
			return
		case <-ticker.C:
			for _, pair := range o.tasks.ClaimRunnable() {
				taskID, agentID := pair[0], pair[1]
				o.persistTask(taskID)
				debugLog("[dispatch] launching task %s on agent %s", taskID, agentID)
				go o.processTask(context.WithoutCancel(ctx), taskID, agentID)
			}
		}
	}
}

// processTask runs the execution strategy for a claimed task and records
// the outcome. Every path ends in a terminal status.
func (o *Orchestrator) processTask(ctx context.Context, taskID, agentID string) {
	profile, ok := o.agents.Get(agentID)
	if !ok {
		// The agent set and task set are guarded separately, so a task can
		// reference an agent the registry no longer resolves.
		_ = o.tasks.Fail(taskID, fmt.Sprintf("assigned agent %s is not registered", agentID))
		o.persistTask(taskID)
		debugLog("[dispatch] task %s failed: agent %s missing", taskID, agentID)
		return
	}

	task, err := o.tasks.Get(taskID)
	if err != nil {
		debugLog("[dispatch] task %s vanished before execution: %v", taskID, err)
		return
	}

	result := o.strategyFor(profile.Type).Execute(ctx, profile, task.Description, taskID)

	o.sinkResult(ctx, taskID, profile, task.Description, result)

	if err := o.tasks.Complete(taskID, result); err != nil {
		debugLog("[dispatch] complete task %s: %v", taskID, err)
		return
	}
	o.persistTask(taskID)
	debugLog("[dispatch] task %s completed", taskID)
}
