package search

import (
	"context"
	"testing"
)

func TestMemoryIndexIngestAndSearch(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()

	if err := idx.IngestDocument(ctx, "doc-1", "quantum computing with qubits"); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if err := idx.IngestDocument(ctx, "doc-2", "classical computing architecture"); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	hits, err := idx.Search(ctx, "quantum computing", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].DocID != "doc-1" {
		t.Errorf("expected doc-1 ranked first, got %s", hits[0].DocID)
	}
	if hits[0].Score <= hits[1].Score {
		t.Errorf("expected descending scores, got %f then %f", hits[0].Score, hits[1].Score)
	}
}

func TestMemoryIndexTopK(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c", "d"} {
		if err := idx.IngestDocument(ctx, id, "shared topic"); err != nil {
			t.Fatalf("ingest: %v", err)
		}
	}

	hits, err := idx.Search(ctx, "shared topic", 2)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 2 {
		t.Errorf("expected topK=2 hits, got %d", len(hits))
	}
}

func TestMemoryIndexNoMatch(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()

	if err := idx.IngestDocument(ctx, "doc-1", "databases and indexes"); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	hits, err := idx.Search(ctx, "astrophysics", 5)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("expected no hits, got %d", len(hits))
	}
}

func TestMemoryIndexReplaceDocument(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()

	idx.IngestDocument(ctx, "doc-1", "original body")
	idx.IngestDocument(ctx, "doc-1", "replacement body")

	if idx.Count() != 1 {
		t.Errorf("expected 1 document after replacement, got %d", idx.Count())
	}

	hits, _ := idx.Search(ctx, "replacement", 5)
	if len(hits) != 1 || hits[0].Content != "replacement body" {
		t.Errorf("expected replacement content, got %v", hits)
	}
}
