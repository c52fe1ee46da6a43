package claude

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"anaam-stocks/internal/api"
	"anaam-stocks/internal/interfaces"
	"anaam-stocks/internal/store"
	"anaam-stocks/internal/types"
)

const (
	providerName     = "Claude"
	defaultBaseURL   = "https://api.anthropic.com"
	defaultModel     = "claude-3-5-haiku-latest"
	anthropicVersion = "2023-06-01"
	messagesPath     = "/v1/messages"
)

// ClaudeCompleter implements Completer using the Anthropic Messages API
type ClaudeCompleter struct {
	client *api.Client
	model  string
}

var _ interfaces.Completer = (*ClaudeCompleter)(nil)

// NewClaudeCompleter creates a completer; llm.base_url points it at a proxy.
func NewClaudeCompleter(cfg *store.Config) *ClaudeCompleter {
	baseURL := defaultBaseURL
	if cfg.LLM.BaseURL != "" {
		baseURL = strings.TrimRight(cfg.LLM.BaseURL, "/")
	}
	model := cfg.LLM.Model
	if model == "" {
		model = defaultModel
	}

	client := api.NewClient(
		api.WithBaseURL(baseURL),
		api.WithTimeout(cfg.LLMTimeout()),
		api.WithHeader("x-api-key", cfg.Secrets.ClaudeAPIKey),
		api.WithHeader("anthropic-version", anthropicVersion),
		api.WithLogging(true),
	)
	return &ClaudeCompleter{client: client, model: model}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model       string    `json:"model"`
	System      string    `json:"system,omitempty"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float32   `json:"temperature"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete concatenates the text blocks of the reply.
func (c *ClaudeCompleter) Complete(ctx context.Context, req types.CompletionRequest) (string, error) {
	body := messagesRequest{
		Model:       c.model,
		System:      req.System,
		Messages:    []message{{Role: "user", Content: req.User}},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}

	resp, err := c.client.POST(ctx, messagesPath, body)
	if err != nil {
		return "", modelError(err)
	}

	var out messagesResponse
	if err := resp.ParseJSON(&out); err != nil {
		return "", &types.UpstreamModelError{Provider: providerName, Status: resp.StatusCode, Message: err.Error()}
	}

	var sb strings.Builder
	for _, block := range out.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return strings.TrimSpace(sb.String()), nil
}

func modelError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var se *api.StatusError
	if !errors.As(err, &se) {
		return &types.UpstreamModelError{Provider: providerName, Message: err.Error()}
	}

	msg := http.StatusText(se.StatusCode)
	var er errorResponse
	if json.Unmarshal(se.Body, &er) == nil && er.Error.Message != "" {
		msg = er.Error.Message
	}
	return &types.UpstreamModelError{Provider: providerName, Status: se.StatusCode, Message: msg}
}
