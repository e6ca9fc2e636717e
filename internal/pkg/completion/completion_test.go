package completion

import (
	"context"
	"errors"
	"net/http"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/yigit/bandhub/internal/pkg/apperrors"
)

type fakeCompleter struct {
	resp openai.ChatCompletionResponse
	err  error
	req  openai.ChatCompletionRequest
}

func (f *fakeCompleter) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.req = req
	return f.resp, f.err
}

func TestCompleteReturnsFirstChoice(t *testing.T) {
	fake := &fakeCompleter{resp: openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: "[]"}}},
	}}
	c := &OpenAIClient{api: fake, model: "test-model"}

	out, err := c.Complete(context.Background(), "sys", "funk songs")
	if err != nil || out != "[]" {
		t.Fatalf("Complete = %q, %v", out, err)
	}
	if fake.req.Model != "test-model" || len(fake.req.Messages) != 2 {
		t.Errorf("request = %+v", fake.req)
	}
}

func TestCompleteClassifiesErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"rate limited", &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests}, apperrors.ErrQuotaExceeded},
		{"billing", &openai.APIError{HTTPStatusCode: http.StatusBadRequest, Type: "insufficient_quota"}, apperrors.ErrQuotaExceeded},
		{"server", &openai.APIError{HTTPStatusCode: http.StatusInternalServerError}, apperrors.ErrUpstream},
		{"network", errors.New("dial tcp: timeout"), apperrors.ErrUpstream},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &OpenAIClient{api: &fakeCompleter{err: tt.err}}
			_, err := c.Complete(context.Background(), "", "x")
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCompleteWithoutChoicesIsUnparseable(t *testing.T) {
	c := &OpenAIClient{api: &fakeCompleter{}}
	if _, err := c.Complete(context.Background(), "", "x"); !errors.Is(err, apperrors.ErrUnparseable) {
		t.Errorf("err = %v", err)
	}
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"```json\n[{\"title\":\"a\"}]\n```", `[{"title":"a"}]`},
		{"```\n[1,2]\n```", "[1,2]"},
		{"Here you go:\n[{\"t\":1}]\nEnjoy!", `[{"t":1}]`},
		{"  [ ]  ", "[ ]"},
		{"no json here", "no json here"},
	}
	for _, tt := range tests {
		if got := StripCodeFences(tt.in); got != tt.want {
			t.Errorf("StripCodeFences(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
