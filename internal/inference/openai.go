package inference

import (
	"context"
	"errors"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/dgallion1/clausewise/internal/analysis"
)

// OpenAIClient uses an OpenAI-compatible chat completions endpoint for
// summaries and answers.
type OpenAIClient struct {
	client *openai.Client
	model  string
	guard  *Guard
}

// NewOpenAIClient builds a client; baseURL may point at any
// OpenAI-compatible server.
func NewOpenAIClient(apiKey, baseURL, model string, guard *Guard) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	if guard == nil {
		guard = NewGuard(GuardConfig{}, nil, nil, nil)
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		guard:  guard,
	}
}

func (c *OpenAIClient) Summarize(ctx context.Context, text string) (string, error) {
	reply, err := c.complete(ctx, OpSummarize, BuildSummaryPrompt(text), 512)
	if err != nil {
		return "", err
	}
	return stripCodeBlock(reply), nil
}

func (c *OpenAIClient) Answer(ctx context.Context, question, passage string) (analysis.Answer, error) {
	reply, err := c.complete(ctx, OpAnswer, BuildAnswerPrompt(question, passage), 256)
	if err != nil {
		return analysis.Answer{}, err
	}
	text, score := generatedAnswerText(reply)
	return analysis.Answer{Text: text, Score: score}, nil
}

func (c *OpenAIClient) complete(ctx context.Context, op, prompt string, maxTokens int) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You are a careful assistant that reads legal contracts."},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.2,
	}

	var text string
	err := c.guard.Do(ctx, op, func(ctx context.Context) error {
		resp, err := c.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return openAIError(op, err)
		}
		if len(resp.Choices) == 0 {
			return &ModelError{Operation: op, Message: "no response from openai"}
		}
		text = strings.TrimSpace(resp.Choices[0].Message.Content)
		return nil
	})
	return text, err
}

func openAIError(op string, err error) error {
	me := &ModelError{Operation: op, Message: err.Error(), Err: err}
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		me.StatusCode = apiErr.HTTPStatusCode
		me.Message = apiErr.Message
	case errors.As(err, &reqErr):
		me.StatusCode = reqErr.HTTPStatusCode
	}
	return me
}
