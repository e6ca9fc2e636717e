package completion

import (
	"context"
	"errors"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/yigit/bandhub/internal/pkg/apperrors"
)

// Client turns a prompt into a text completion
type Client interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Config selects the completion provider and model
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// chatCompleter is the slice of go-openai used here
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIClient calls an OpenAI-compatible chat completion endpoint
type OpenAIClient struct {
	api   chatCompleter
	model string
}

// NewOpenAIClient creates a client for config
func NewOpenAIClient(config Config) *OpenAIClient {
	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	return &OpenAIClient{
		api:   openai.NewClientWithConfig(clientConfig),
		model: config.Model,
	}
}

// Complete sends one system+user exchange and returns the first choice.
// Quota and billing rejections are reported as apperrors.ErrQuotaExceeded.
func (c *OpenAIClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.7,
	})
	if err != nil {
		if isQuotaError(err) {
			return "", apperrors.NewQuotaExceededError("Suggestion quota exhausted, try again later", err)
		}
		return "", apperrors.NewUpstreamError("Suggestion service failed", err)
	}

	if len(resp.Choices) == 0 {
		return "", apperrors.NewUnparseableError("Suggestion service returned no choices", nil)
	}
	return resp.Choices[0].Message.Content, nil
}

func isQuotaError(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode == http.StatusPaymentRequired {
			return true
		}
		if code, ok := apiErr.Code.(string); ok && code == "insufficient_quota" {
			return true
		}
		return apiErr.Type == "insufficient_quota"
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusTooManyRequests
	}
	return false
}

// StripCodeFences removes a surrounding markdown code fence and any prose
// around the outermost JSON array.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}

	start := strings.IndexByte(s, '[')
	end := strings.LastIndexByte(s, ']')
	if start >= 0 && end > start {
		s = s[start : end+1]
	}
	return strings.TrimSpace(s)
}
