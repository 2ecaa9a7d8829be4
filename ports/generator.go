package ports

import "context"

// Generator produces a text completion for a prompt. Implementations are
// selected once at startup; callers never branch on the provider.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
