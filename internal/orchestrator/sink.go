package orchestrator

import (
	"context"
	"fmt"

	"github.com/nafs-dev/nafs/pkg/models"
)

// sinkResult writes a completed result back into the search collaborator
// as a new document, so agent output becomes searchable context for
// future tasks. Best-effort: a failed write is logged and ignored.
func (o *Orchestrator) sinkResult(ctx context.Context, taskID string, profile models.AgentProfile, description, result string) {
	if o.search == nil {
		return
	}

	docID := fmt.Sprintf("agent-result-%s", taskID)
	content := fmt.Sprintf(
		"Agent Task Result\nTask ID: %s\nAgent: %s (%s)\nQuery: %s\n\n%s",
		taskID, profile.Name, profile.Type, description, result,
	)

	if err := o.search.IngestDocument(ctx, docID, content); err != nil {
		debugLog("[sink] ingest %s failed: %v", docID, err)
	}
}
