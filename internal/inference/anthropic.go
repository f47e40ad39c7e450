package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dgallion1/clausewise/internal/analysis"
)

const (
	DefaultAnthropicURL   = "https://api.anthropic.com/v1/messages"
	DefaultAnthropicModel = "claude-3-5-haiku-latest"
)

// AnthropicClient calls the Anthropic Messages API for summaries and
// answers.
type AnthropicClient struct {
	apiKey     string
	model      string
	url        string
	guard      *Guard
	httpClient *http.Client
}

func NewAnthropicClient(apiKey, model string, timeout time.Duration, guard *Guard) *AnthropicClient {
	if model == "" {
		model = DefaultAnthropicModel
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	if guard == nil {
		guard = NewGuard(GuardConfig{}, nil, nil, nil)
	}
	return &AnthropicClient{
		apiKey:     apiKey,
		model:      model,
		url:        DefaultAnthropicURL,
		guard:      guard,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *AnthropicClient) Summarize(ctx context.Context, text string) (string, error) {
	reply, err := c.complete(ctx, OpSummarize, BuildSummaryPrompt(text), 512)
	if err != nil {
		return "", err
	}
	return stripCodeBlock(reply), nil
}

func (c *AnthropicClient) Answer(ctx context.Context, question, passage string) (analysis.Answer, error) {
	reply, err := c.complete(ctx, OpAnswer, BuildAnswerPrompt(question, passage), 256)
	if err != nil {
		return analysis.Answer{}, err
	}
	text, score := generatedAnswerText(reply)
	return analysis.Answer{Text: text, Score: score}, nil
}

func (c *AnthropicClient) complete(ctx context.Context, op, prompt string, maxTokens int) (string, error) {
	body, err := json.Marshal(anthropicRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		Messages:  []anthropicMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	var text string
	err = c.guard.Do(ctx, op, func(ctx context.Context) error {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("x-api-key", c.apiKey)
		httpReq.Header.Set("anthropic-version", "2023-06-01")

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			return &ModelError{Operation: op, Message: "claude api: " + err.Error(), Err: err}
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return &ModelError{Operation: op, StatusCode: resp.StatusCode, Message: "read response: " + err.Error(), Err: err}
		}
		if resp.StatusCode != http.StatusOK {
			return &ModelError{Operation: op, StatusCode: resp.StatusCode, Message: string(respBody)}
		}

		var apiResp anthropicResponse
		if err := json.Unmarshal(respBody, &apiResp); err != nil {
			return &ModelError{Operation: op, StatusCode: resp.StatusCode, Message: "decode response: " + err.Error(), Err: err}
		}
		if apiResp.Error != nil {
			return &ModelError{Operation: op, StatusCode: resp.StatusCode, Message: apiResp.Error.Type + ": " + apiResp.Error.Message}
		}
		if len(apiResp.Content) == 0 {
			return &ModelError{Operation: op, StatusCode: resp.StatusCode, Message: "empty response from claude"}
		}
		text = strings.TrimSpace(apiResp.Content[0].Text)
		return nil
	})
	return text, err
}

// Close releases resources.
func (c *AnthropicClient) Close() {
	c.httpClient.CloseIdleConnections()
}
