package orchestrator

import (
	"context"

	"github.com/nafs-dev/nafs/pkg/models"
)

// Strategy is the execution behavior for one agent type. Execute never
// returns an error: failures are encoded as descriptive text so the task
// still reaches a terminal state with the failure narrated in its result.
type Strategy interface {
	Execute(ctx context.Context, profile models.AgentProfile, description, taskID string) string
}

// strategyFor maps an agent type to its strategy. The mapping is the
// single dispatch point over the closed AgentType set; reviewer and any
// unrecognized type fall through to the generic strategy.
func (o *Orchestrator) strategyFor(agentType models.AgentType) Strategy {
	switch agentType {
	case models.AgentTypeManager:
		return &managerStrategy{o: o}
	case models.AgentTypeResearcher:
		return &researcherStrategy{o: o}
	case models.AgentTypeAnalyst:
		return &analystStrategy{o: o}
	case models.AgentTypeCoder:
		return &coderStrategy{o: o}
	case models.AgentTypeIngestor:
		return &ingestorStrategy{o: o}
	default:
		return &genericStrategy{o: o}
	}
}

// genericStrategy passes the task description straight to the
// text-generation collaborator. Used for reviewers and anything without
// a specialized pipeline.
type genericStrategy struct {
	o *Orchestrator
}

func (s *genericStrategy) Execute(ctx context.Context, _ models.AgentProfile, description, _ string) string {
	return s.o.mustGenerate(ctx, description)
}
