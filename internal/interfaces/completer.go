package interfaces

import (
	"context"

	"anaam-stocks/internal/types"
)

// Completer sends one system + user prompt to a language model and returns its text.
type Completer interface {
	Complete(ctx context.Context, req types.CompletionRequest) (string, error)
}
