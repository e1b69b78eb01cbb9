package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/nafs-dev/nafs/pkg/models"
)

const researcherPlanPrompt = `You are a Lead Researcher. Break down this research topic into 3 specific investigative search queries.
Topic: '%s'
Output Format: just the queries, one per line.`

const researcherExtractPrompt = `As a Researcher, extract key technical details and specific facts related to '%s' from these sources:
%s

Return a bulleted list of facts.`

const researcherReportPrompt = `You are an expert Research Agent. Compile a comprehensive, highly detailed final research report on: '%s'.

Aggregated Research Facts gathered from the database:
%s

Final Report Structure: Executive Summary, Key Findings (grouped by topic), and Technical Deep-Dive.`

// researcherStrategy runs a multi-step pipeline: query planning, search,
// fact extraction, and report synthesis. Planning and extraction failures
// degrade gracefully; only total provider unavailability yields a visibly
// degraded report.
type researcherStrategy struct {
	o *Orchestrator
}

func (s *researcherStrategy) Execute(ctx context.Context, _ models.AgentProfile, description, taskID string) string {
	queries := s.planQueries(ctx, description)

	var facts []string
	if s.o.search != nil {
		for _, query := range queries {
			hits, err := s.o.search.Search(ctx, query, 5)
			if err != nil {
				debugLog("[researcher] search %q failed: %v", query, err)
				continue
			}

			var lines []string
			for _, hit := range hits {
				lines = append(lines, fmt.Sprintf("[Source %s]: %s", hit.DocID, hit.Content))
			}
			context := strings.Join(lines, "\n")
			if context == "" {
				continue
			}

			extracted, err := s.o.generate(ctx, fmt.Sprintf(researcherExtractPrompt, query, context))
			if err != nil {
				debugLog("[researcher] extraction for %q failed: %v", query, err)
				continue
			}
			facts = append(facts, extracted)
		}
	}

	return s.o.mustGenerate(ctx, fmt.Sprintf(researcherReportPrompt, description, strings.Join(facts, "\n\n")))
}

// planQueries asks the provider for up to 3 search queries. On failure
// the whole description is used as a single query.
func (s *researcherStrategy) planQueries(ctx context.Context, description string) []string {
	response, err := s.o.generate(ctx, fmt.Sprintf(researcherPlanPrompt, description))
	if err != nil {
		debugLog("[researcher] planning failed, using description as query: %v", err)
		return []string{description}
	}

	var queries []string
	for _, line := range strings.Split(response, "\n") {
		query := strings.TrimLeftFunc(strings.TrimSpace(line), func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if query == "" {
			continue
		}
		queries = append(queries, query)
		if len(queries) == 3 {
			break
		}
	}

	if len(queries) == 0 {
		return []string{description}
	}
	return queries
}
