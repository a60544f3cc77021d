package xllm

import (
	"context"
	"errors"

	"github.com/daodao97/xgo/xrequest"
)

type OpenAIOption func(*OpenAI)

func WithModel(model string) OpenAIOption {
	return func(o *OpenAI) {
		o.model = model
	}
}

func WithAPIUrl(apiUrl string) OpenAIOption {
	return func(o *OpenAI) {
		o.apiUrl = apiUrl
	}
}

func WithAPIKey(apiKey string) OpenAIOption {
	return func(o *OpenAI) {
		o.apiKey = apiKey
	}
}

type OpenAI struct {
	model  string
	apiKey string
	apiUrl string
}

func NewOpenAI(opts ...OpenAIOption) LLM {
	openai := &OpenAI{}
	for _, opt := range opts {
		opt(openai)
	}
	return openai
}

func (o *OpenAI) Chat(ctx context.Context, req Request) (*Response, error) {
	if len(req.Messages) == 0 {
		return nil, errors.New("messages is required")
	}

	model := o.model
	if req.Model != "" {
		model = req.Model
	}

	body := map[string]any{
		"model":    model,
		"messages": req.Messages,
	}
	if req.MaxTokens > 0 {
		body["max_tokens"] = req.MaxTokens
	}
	if req.Temperature != nil {
		body["temperature"] = *req.Temperature
	}

	request, err := xrequest.New().
		SetDebug(false).
		SetHeader("Authorization", "Bearer "+o.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(o.apiUrl + "/chat/completions")

	if err != nil {
		return nil, err
	}

	if err := request.Error(); err != nil {
		return nil, err
	}

	response := request.Json()

	return &Response{
		Content: response.Get("choices.0.message.content").String(),
		Usage: &Usage{
			PromptTokens:     int(response.Get("usage.prompt_tokens").Int()),
			CompletionTokens: int(response.Get("usage.completion_tokens").Int()),
			TotalTokens:      int(response.Get("usage.total_tokens").Int()),
		},
	}, nil
}
