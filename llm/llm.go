// Package llm abstracts the text-completion capability injected into the
// conversation helpers.
package llm

import "context"

// Completer generates text from a prompt. Implementations are resolved once
// at startup and injected; they are never looked up per call.
type Completer interface {
	Complete(ctx context.Context, prompt string, temperature float32) (string, error)
}

// CompleterFunc adapts a function to the Completer interface.
type CompleterFunc func(ctx context.Context, prompt string, temperature float32) (string, error)

// Complete implements Completer.
func (f CompleterFunc) Complete(ctx context.Context, prompt string, temperature float32) (string, error) {
	return f(ctx, prompt, temperature)
}
