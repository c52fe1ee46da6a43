package noop

import (
	"context"

	"anaam-stocks/internal/logger"
	"anaam-stocks/internal/types"
)

// Reply is returned for every request.
const Reply = "AI commentary is disabled because no language model provider is configured."

// NoopCompleter is the fallback used when llm.provider is NOOP
type NoopCompleter struct{}

func NewNoopCompleter() *NoopCompleter {
	return &NoopCompleter{}
}

// Complete ignores the prompt and returns Reply
func (c *NoopCompleter) Complete(ctx context.Context, req types.CompletionRequest) (string, error) {
	logger.Debug(ctx, "Noop completer called", "prompt_chars", len(req.User))
	return Reply, nil
}
