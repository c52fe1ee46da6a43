package openai

import (
	"context"
	"errors"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"anaam-stocks/internal/interfaces"
	"anaam-stocks/internal/store"
	"anaam-stocks/internal/types"
)

const (
	providerName = "OpenAI"
	defaultModel = "gpt-4o-mini"
)

// OpenAICompleter sends one system and one user message to the chat completions API.
type OpenAICompleter struct {
	client *openai.Client
	model  string
}

var _ interfaces.Completer = (*OpenAICompleter)(nil)

func NewOpenAICompleter(cfg *store.Config) *OpenAICompleter {
	oc := openai.DefaultConfig(cfg.Secrets.OpenAIAPIKey)
	if cfg.LLM.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.LLM.BaseURL, "/")
	}
	oc.HTTPClient = &http.Client{Timeout: cfg.LLMTimeout()}

	model := cfg.LLM.Model
	if model == "" {
		model = defaultModel
	}
	return &OpenAICompleter{client: openai.NewClientWithConfig(oc), model: model}
}

// Complete returns the first choice's text, or "" when the provider returned none.
func (c *OpenAICompleter) Complete(ctx context.Context, req types.CompletionRequest) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", modelError(err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func modelError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &types.UpstreamModelError{Provider: providerName, Status: apiErr.HTTPStatusCode, Message: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		msg := reqErr.Error()
		if reqErr.Err != nil {
			msg = reqErr.Err.Error()
		}
		return &types.UpstreamModelError{Provider: providerName, Status: reqErr.HTTPStatusCode, Message: msg}
	}
	return &types.UpstreamModelError{Provider: providerName, Message: err.Error()}
}
