package search

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryIndex is an in-memory lexical Engine. It scores documents by
// query-term overlap, which is enough for the orchestrator's feedback
// loop where agent results become searchable context for later tasks.
type MemoryIndex struct {
	// docs maps document IDs to content.
	docs map[string]string
	// mu protects docs.
	mu sync.RWMutex
}

// NewMemoryIndex creates an empty MemoryIndex.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		docs: make(map[string]string),
	}
}

// IngestDocument stores the document, replacing any previous content.
func (m *MemoryIndex) IngestDocument(_ context.Context, docID, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[docID] = content
	return nil
}

// Search scores every document by the fraction of query terms it contains
// and returns the topK best matches. Documents with no matching terms are
// excluded.
func (m *MemoryIndex) Search(_ context.Context, query string, topK int) ([]Hit, error) {
	terms := tokenize(query)
	if len(terms) == 0 {
		return nil, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var hits []Hit
	for id, content := range m.docs {
		lower := strings.ToLower(content)
		matched := 0
		for _, term := range terms {
			if strings.Contains(lower, term) {
				matched++
			}
		}
		if matched == 0 {
			continue
		}
		hits = append(hits, Hit{
			DocID:   id,
			Score:   float64(matched) / float64(len(terms)),
			Content: content,
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].DocID < hits[j].DocID
	})

	if topK > 0 && len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

// Count returns the number of stored documents.
func (m *MemoryIndex) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}

// tokenize lowercases and splits a query into terms, dropping single
// characters.
func tokenize(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,;:!?\"'()[]")
		if len(f) > 1 {
			terms = append(terms, f)
		}
	}
	return terms
}
