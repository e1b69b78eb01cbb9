// Package search provides the document-search collaborator.
package search

import "context"

// Hit is a single search result.
type Hit struct {
	// DocID identifies the matching document.
	DocID string `json:"doc_id"`
	// Score is the relevance score, higher is better.
	Score float64 `json:"score"`
	// Content is the document body, when available.
	Content string `json:"content,omitempty"`
}

// Engine is the abstract search contract the orchestrator depends on.
type Engine interface {
	// Search returns up to topK hits for the query.
	Search(ctx context.Context, query string, topK int) ([]Hit, error)
	// IngestDocument stores a document under the given id, replacing any
	// previous content.
	IngestDocument(ctx context.Context, docID, content string) error
}
