package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/nafs-dev/nafs/internal/graph"
	"github.com/nafs-dev/nafs/pkg/models"
)

const ingestorExtractPrompt = `You are a Knowledge Graph Ingestor. Analyze this segment from document '%s'.
Extract important entities and their relationships.
Output Format per line:
ENTITY|<id_slug>|<Label>|<name_property>
REL|<from_id_slug>|<to_id_slug>|<TYPE>

Chunk Segment:
%s`

const (
	// sourcePrefix marks descriptions carrying an inline document.
	sourcePrefix = "SOURCE|"
	// chunkThreshold is the content size above which chunking kicks in.
	chunkThreshold = 3000
	// chunkSize is the byte length of each chunk.
	chunkSize = 2000
	// previewLen is how much chunk content is kept on the chunk node.
	previewLen = 200
)

// ingestorStrategy extracts entities and relationships from document
// content into the knowledge graph, one chunk at a time, and links each
// chunk node to the entities extracted from it.
type ingestorStrategy struct {
	o *Orchestrator
}

func (s *ingestorStrategy) Execute(ctx context.Context, _ models.AgentProfile, description, taskID string) string {
	docID, content := parseSource(description)
	chunks := chunkContent(content)

	totalEntities := 0
	totalRels := 0

	if s.o.graph != nil {
		for i, chunk := range chunks {
			extracted, linked := s.ingestChunk(ctx, docID, i, chunk)
			totalEntities += extracted
			totalRels += linked
		}
	}

	return fmt.Sprintf(
		"Ingestion Complete for %s. Extracted %d entities and %d correlations across %d graph chunks.",
		docID, totalEntities, totalRels, len(chunks),
	)
}

// ingestChunk extracts one chunk's records into the graph and creates the
// chunk node with its EXTRACTED_FROM links. Returns the entity and
// relationship counts written. Failed graph writes are logged and skipped.
func (s *ingestorStrategy) ingestChunk(ctx context.Context, docID string, index int, chunk string) (int, int) {
	response, err := s.o.generate(ctx, fmt.Sprintf(ingestorExtractPrompt, docID, chunk))
	if err != nil {
		debugLog("[ingestor] extraction for chunk %d failed: %v", index, err)
		return 0, 0
	}

	entities := 0
	rels := 0
	var chunkEntityIDs []string

	for _, line := range strings.Split(response, "\n") {
		parts := strings.Split(line, "|")
		if len(parts) < 4 {
			continue
		}
		switch strings.TrimSpace(parts[0]) {
		case "ENTITY":
			ent := graph.Entity{
				ID:    strings.TrimSpace(parts[1]),
				Label: strings.TrimSpace(parts[2]),
				Properties: map[string]string{
					"name": strings.TrimSpace(parts[3]),
				},
			}
			if err := s.o.graph.AddEntity(ctx, ent); err != nil {
				debugLog("[ingestor] add entity %s failed: %v", ent.ID, err)
				continue
			}
			chunkEntityIDs = append(chunkEntityIDs, ent.ID)
			entities++
		case "REL":
			rel := graph.Relationship{
				FromID: strings.TrimSpace(parts[1]),
				ToID:   strings.TrimSpace(parts[2]),
				Type:   strings.TrimSpace(parts[3]),
			}
			if err := s.o.graph.AddRelationship(ctx, rel); err != nil {
				debugLog("[ingestor] add relationship failed: %v", err)
				continue
			}
			rels++
		}
	}

	chunkID := fmt.Sprintf("chunk-%s-%d", docID, index)
	preview := chunk
	if len(preview) > previewLen {
		preview = preview[:previewLen]
	}
	chunkNode := graph.Entity{
		ID:    chunkID,
		Label: "Chunk",
		Properties: map[string]string{
			"doc_source":      docID,
			"content_preview": preview,
		},
	}
	if err := s.o.graph.AddEntity(ctx, chunkNode); err != nil {
		debugLog("[ingestor] add chunk node %s failed: %v", chunkID, err)
		return entities, rels
	}

	for _, entID := range chunkEntityIDs {
		rel := graph.Relationship{FromID: chunkID, ToID: entID, Type: "EXTRACTED_FROM"}
		if err := s.o.graph.AddRelationship(ctx, rel); err != nil {
			debugLog("[ingestor] link chunk %s -> %s failed: %v", chunkID, entID, err)
		}
	}

	return entities, rels
}

// parseSource splits an optional "SOURCE|<id>|<content>" encoding out of
// the description. Without the prefix, the whole description is the
// content of an unknown document.
func parseSource(description string) (string, string) {
	if !strings.HasPrefix(description, sourcePrefix) {
		return "unknown", description
	}
	parts := strings.SplitN(description, "|", 3)
	if len(parts) < 3 {
		return "unknown", description
	}
	return parts[1], parts[2]
}

// chunkContent splits content into fixed-size byte chunks when it
// exceeds the threshold.
func chunkContent(content string) []string {
	if len(content) <= chunkThreshold {
		return []string{content}
	}

	var chunks []string
	for start := 0; start < len(content); start += chunkSize {
		end := start + chunkSize
		if end > len(content) {
			end = len(content)
		}
		chunks = append(chunks, content[start:end])
	}
	return chunks
}
