// Package llm provides the text-generation collaborator used by
// execution strategies.
package llm

import "context"

// Provider generates text for a prompt.
//
// Callers must treat a failure as absence of intelligence, not a fatal
// condition: strategies substitute a degraded fallback and keep going.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
