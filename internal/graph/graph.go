// Package graph provides the knowledge-graph collaborator.
package graph

import "context"

// Entity is a node in the knowledge graph.
type Entity struct {
	// ID is the unique identifier (slug) for this entity.
	ID string `json:"id"`
	// Label is the entity category (e.g. "Person", "Chunk").
	Label string `json:"label"`
	// Properties holds arbitrary string key/value properties.
	Properties map[string]string `json:"properties,omitempty"`
}

// Relationship is a directed, typed edge between two entities.
type Relationship struct {
	// FromID is the source entity id.
	FromID string `json:"from_id"`
	// ToID is the target entity id.
	ToID string `json:"to_id"`
	// Type is the relationship type (e.g. "EXTRACTED_FROM").
	Type string `json:"rel_type"`
	// Properties holds arbitrary string key/value properties.
	Properties map[string]string `json:"properties,omitempty"`
}

// ContextGraph is a subgraph returned by context queries.
type ContextGraph struct {
	Entities      []Entity       `json:"entities"`
	Relationships []Relationship `json:"relationships"`
}

// Client is the abstract knowledge-graph contract the orchestrator
// depends on.
type Client interface {
	AddEntity(ctx context.Context, entity Entity) error
	AddRelationship(ctx context.Context, rel Relationship) error
	// FindRelatedContext returns the subgraph reachable from the entity
	// within the given number of relationship hops.
	FindRelatedContext(ctx context.Context, entityID string, depth int) (ContextGraph, error)
	// FindNodesByText returns entities whose id, label, or name property
	// contains the query text (case-insensitive).
	FindNodesByText(ctx context.Context, query string) ([]Entity, error)
}
