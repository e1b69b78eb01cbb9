package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/nafs-dev/nafs/pkg/models"
)

const coderPrompt = `You are a Senior Software Engineer. Task: %s.

Reference Material Found:
%s

Generate high-quality, production-ready code. Include comments and ensure best practices. Output blocks in Markdown.`

// codeSuffixes marks document ids that look like source files.
var codeSuffixes = []string{".go", ".rs", ".ts", ".js", ".py"}

// coderStrategy searches existing documents for code references and
// feeds the matches to the provider as reference material.
type coderStrategy struct {
	o *Orchestrator
}

func (s *coderStrategy) Execute(ctx context.Context, _ models.AgentProfile, description, taskID string) string {
	var patterns strings.Builder

	if s.o.search != nil {
		hits, err := s.o.search.Search(ctx, description, 3)
		if err != nil {
			debugLog("[coder] search failed: %v", err)
		}
		for _, hit := range hits {
			if !looksLikeCode(hit.DocID) {
				continue
			}
			fmt.Fprintf(&patterns, "// Reference from %s\n%s\n", hit.DocID, hit.Content)
		}
	}

	return s.o.mustGenerate(ctx, fmt.Sprintf(coderPrompt, description, patterns.String()))
}

// looksLikeCode reports whether a document id resembles a source file.
func looksLikeCode(docID string) bool {
	for _, suffix := range codeSuffixes {
		if strings.Contains(docID, suffix) {
			return true
		}
	}
	return false
}
