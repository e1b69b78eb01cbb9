package models

// AgentType classifies what category of work an agent performs.
type AgentType string

const (
	// AgentTypeResearcher gathers information via planned search queries.
	AgentTypeResearcher AgentType = "researcher"
	// AgentTypeAnalyst correlates knowledge-graph context for an objective.
	AgentTypeAnalyst AgentType = "analyst"
	// AgentTypeCoder produces code using existing documents as reference.
	AgentTypeCoder AgentType = "coder"
	// AgentTypeReviewer reviews work; it has no specialized pipeline.
	AgentTypeReviewer AgentType = "reviewer"
	// AgentTypeManager decomposes an objective into subtasks and aggregates results.
	AgentTypeManager AgentType = "manager"
	// AgentTypeIngestor extracts entities and relationships into the knowledge graph.
	AgentTypeIngestor AgentType = "ingestor"
)

// Valid returns true if the agent type is a known value.
func (t AgentType) Valid() bool {
	switch t {
	case AgentTypeResearcher, AgentTypeAnalyst, AgentTypeCoder,
		AgentTypeReviewer, AgentTypeManager, AgentTypeIngestor:
		return true
	default:
		return false
	}
}

// ParseAgentType converts a string to an AgentType.
// Matching is exact; returns false for anything unknown.
func ParseAgentType(s string) (AgentType, bool) {
	t := AgentType(s)
	if t.Valid() {
		return t, true
	}
	return "", false
}

// AgentProfile describes a registered agent.
// Profiles are immutable once stored and are never deleted.
type AgentProfile struct {
	// ID is the unique identifier for this agent.
	ID string `json:"id"`
	// Name is the human-readable display name.
	Name string `json:"name"`
	// Type determines which execution strategy runs this agent's tasks.
	Type AgentType `json:"agent_type"`
	// Capabilities is an informational list of capability tags.
	// It is not matched against task requirements.
	Capabilities []string `json:"capabilities,omitempty"`
}

// Clone returns an independent copy of the profile.
func (p AgentProfile) Clone() AgentProfile {
	cp := p
	if p.Capabilities != nil {
		cp.Capabilities = make([]string, len(p.Capabilities))
		copy(cp.Capabilities, p.Capabilities)
	}
	return cp
}
