// Package llms exposes the language-model capability the providers may use
// to polish their answers. The capability is opaque and strictly optional:
// every provider produces a complete deterministic answer without it, so a
// nil or failing completer never results in a blank response.
package llms

import "context"

// Completer generates a completion for a prompt under a system instruction.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}
