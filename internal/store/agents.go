package store

import (
	"sync"

	"github.com/nafs-dev/nafs/pkg/models"
)

// AgentRegistry holds registered agent profiles.
// It provides thread-safe storage and lookup; there is no removal
// operation and no capacity limit.
type AgentRegistry struct {
	// agents maps agent IDs to profiles.
	agents map[string]models.AgentProfile
	// mu protects agents.
	mu sync.RWMutex
}

// NewAgentRegistry creates an empty AgentRegistry.
func NewAgentRegistry() *AgentRegistry {
	return &AgentRegistry{
		agents: make(map[string]models.AgentProfile),
	}
}

// Register stores a profile, replacing any existing profile with the same id.
func (r *AgentRegistry) Register(profile models.AgentProfile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.agents[profile.ID] = profile.Clone()
}

// Get retrieves a profile by id.
// Returns false if the agent is not registered.
func (r *AgentRegistry) Get(agentID string) (models.AgentProfile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, ok := r.agents[agentID]
	if !ok {
		return models.AgentProfile{}, false
	}
	return profile.Clone(), true
}

// FindByType returns a registered agent of the given type.
// Selection follows map iteration order; callers must not depend on which
// agent is chosen when several share a type.
func (r *AgentRegistry) FindByType(agentType models.AgentType) (models.AgentProfile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, profile := range r.agents {
		if profile.Type == agentType {
			return profile.Clone(), true
		}
	}
	return models.AgentProfile{}, false
}

// Any returns an arbitrary registered agent.
func (r *AgentRegistry) Any() (models.AgentProfile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, profile := range r.agents {
		return profile.Clone(), true
	}
	return models.AgentProfile{}, false
}

// All returns copies of every registered profile.
func (r *AgentRegistry) All() []models.AgentProfile {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profiles := make([]models.AgentProfile, 0, len(r.agents))
	for _, profile := range r.agents {
		profiles = append(profiles, profile.Clone())
	}
	return profiles
}

// Count returns the number of registered agents.
func (r *AgentRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.agents)
}
