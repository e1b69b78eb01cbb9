package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/nafs-dev/nafs/pkg/models"
)

const analystPrompt = `You are a Senior Data Analyst. Analyze this objective: '%s'.

Knowledge Graph Context:
%s

Identify patterns, hidden correlations, and potential anomalies in this data. Provide an analytical summary with actionable insights.`

// analystStrategy linearizes knowledge-graph context around entities
// matching the objective and asks the provider to summarize correlations
// and anomalies.
type analystStrategy struct {
	o *Orchestrator
}

func (s *analystStrategy) Execute(ctx context.Context, _ models.AgentProfile, description, taskID string) string {
	var graphContext strings.Builder

	if s.o.graph != nil {
		entities, err := s.o.graph.FindNodesByText(ctx, description)
		if err != nil {
			debugLog("[analyst] node lookup failed: %v", err)
		}
		if len(entities) > 5 {
			entities = entities[:5]
		}

		for _, ent := range entities {
			sub, err := s.o.graph.FindRelatedContext(ctx, ent.ID, 2)
			if err != nil {
				debugLog("[analyst] context for %s failed: %v", ent.ID, err)
				continue
			}
			for _, rel := range sub.Relationships {
				fmt.Fprintf(&graphContext, "Relationship: %s --[%s]--> %s\n", rel.FromID, rel.Type, rel.ToID)
			}
		}
	}

	return s.o.mustGenerate(ctx, fmt.Sprintf(analystPrompt, description, graphContext.String()))
}
