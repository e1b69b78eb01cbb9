package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nafs-dev/nafs/pkg/models"
)

// rosterFile is the YAML structure of an agent roster file.
type rosterFile struct {
	Agents []rosterAgent `yaml:"agents"`
}

// rosterAgent is a single agent entry in the roster.
type rosterAgent struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	Type         string   `yaml:"type"`
	Capabilities []string `yaml:"capabilities"`
}

// LoadRoster parses an agent roster YAML file into profiles.
// Entries with a missing id or an unknown type are rejected.
func LoadRoster(path string) ([]models.AgentProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}

	var file rosterFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse roster: %w", err)
	}

	profiles := make([]models.AgentProfile, 0, len(file.Agents))
	for i, entry := range file.Agents {
		if entry.ID == "" {
			return nil, fmt.Errorf("roster entry %d: missing id", i)
		}
		agentType, ok := models.ParseAgentType(entry.Type)
		if !ok {
			return nil, fmt.Errorf("roster entry %q: unknown agent type %q", entry.ID, entry.Type)
		}

		name := entry.Name
		if name == "" {
			name = entry.ID
		}

		profiles = append(profiles, models.AgentProfile{
			ID:           entry.ID,
			Name:         name,
			Type:         agentType,
			Capabilities: entry.Capabilities,
		})
	}

	return profiles, nil
}
