package graph

import (
	"context"
	"strings"
	"sync"
)

// MemoryStore is an in-memory Client: an entity map plus a relationship
// list behind a readers-writer lock.
type MemoryStore struct {
	// entities maps entity IDs to entities.
	entities map[string]Entity
	// relationships is the ordered list of every edge added.
	relationships []Relationship
	// mu protects both collections.
	mu sync.RWMutex
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entities: make(map[string]Entity),
	}
}

// AddEntity stores the entity, replacing any existing entity with the same id.
func (s *MemoryStore) AddEntity(_ context.Context, entity Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entities[entity.ID] = entity
	return nil
}

// AddRelationship appends the relationship. Endpoints are not required to
// exist yet; extraction may emit edges before both entities.
func (s *MemoryStore) AddRelationship(_ context.Context, rel Relationship) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.relationships = append(s.relationships, rel)
	return nil
}

// FindRelatedContext walks relationships outward from the entity for up to
// depth hops and returns the touched subgraph.
func (s *MemoryStore) FindRelatedContext(_ context.Context, entityID string, depth int) (ContextGraph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	frontier := map[string]bool{entityID: true}
	visited := map[string]bool{entityID: true}
	var rels []Relationship
	relSeen := make(map[int]bool)

	for hop := 0; hop < depth; hop++ {
		next := make(map[string]bool)
		for i, rel := range s.relationships {
			if relSeen[i] {
				continue
			}
			var other string
			switch {
			case frontier[rel.FromID]:
				other = rel.ToID
			case frontier[rel.ToID]:
				other = rel.FromID
			default:
				continue
			}
			relSeen[i] = true
			rels = append(rels, rel)
			if !visited[other] {
				visited[other] = true
				next[other] = true
			}
		}
		if len(next) == 0 {
			break
		}
		frontier = next
	}

	var entities []Entity
	for id := range visited {
		if ent, ok := s.entities[id]; ok {
			entities = append(entities, ent)
		}
	}

	return ContextGraph{Entities: entities, Relationships: rels}, nil
}

// FindNodesByText returns entities whose id, label, or name property
// contains the query (case-insensitive).
func (s *MemoryStore) FindNodesByText(_ context.Context, query string) ([]Entity, error) {
	q := strings.ToLower(query)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []Entity
	for _, ent := range s.entities {
		if strings.Contains(q, strings.ToLower(ent.ID)) ||
			strings.Contains(q, strings.ToLower(ent.Label)) ||
			matchesName(q, ent) {
			matches = append(matches, ent)
			continue
		}
		if strings.Contains(strings.ToLower(ent.ID), q) ||
			strings.Contains(strings.ToLower(ent.Label), q) {
			matches = append(matches, ent)
		}
	}
	return matches, nil
}

// matchesName reports whether the entity's name property appears in the query.
func matchesName(q string, ent Entity) bool {
	name, ok := ent.Properties["name"]
	if !ok || name == "" {
		return false
	}
	return strings.Contains(q, strings.ToLower(name))
}

// Stats returns the number of stored entities and relationships.
func (s *MemoryStore) Stats() (int, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entities), len(s.relationships)
}

// Data returns a copy of the full graph.
func (s *MemoryStore) Data() ContextGraph {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entities := make([]Entity, 0, len(s.entities))
	for _, ent := range s.entities {
		entities = append(entities, ent)
	}
	rels := make([]Relationship, len(s.relationships))
	copy(rels, s.relationships)

	return ContextGraph{Entities: entities, Relationships: rels}
}
