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

const DefaultHFBaseURL = "https://api-inference.huggingface.co/models"

// Default hosted models.
const (
	DefaultSentimentModel = "distilbert-base-uncased-finetuned-sst-2-english"
	DefaultEmotionModel   = "j-hartmann/emotion-english-distilroberta-base"
	DefaultSummaryModel   = "facebook/bart-large-cnn"
	DefaultQAModel        = "distilbert-base-cased-distilled-squad"
)

// Operation names used for breakers, stats and metrics.
const (
	OpSentiment = "sentiment"
	OpEmotion   = "emotion"
	OpSummarize = "summarize"
	OpAnswer    = "answer"
)

type HFConfig struct {
	BaseURL        string
	Token          string
	SentimentModel string
	EmotionModel   string
	SummaryModel   string
	QAModel        string
	Timeout        time.Duration
}

// HFClient calls the Hugging Face Inference API. It implements the
// sentiment, emotion, summarization and question-answering model interfaces.
type HFClient struct {
	cfg        HFConfig
	guard      *Guard
	httpClient *http.Client
}

func NewHFClient(cfg HFConfig, guard *Guard) *HFClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultHFBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.SentimentModel == "" {
		cfg.SentimentModel = DefaultSentimentModel
	}
	if cfg.EmotionModel == "" {
		cfg.EmotionModel = DefaultEmotionModel
	}
	if cfg.SummaryModel == "" {
		cfg.SummaryModel = DefaultSummaryModel
	}
	if cfg.QAModel == "" {
		cfg.QAModel = DefaultQAModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	if guard == nil {
		guard = NewGuard(GuardConfig{}, nil, nil, nil)
	}
	return &HFClient{
		cfg:        cfg,
		guard:      guard,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type hfOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

type hfRequest struct {
	Inputs     any            `json:"inputs"`
	Parameters map[string]any `json:"parameters,omitempty"`
	Options    hfOptions      `json:"options"`
}

type hfQAInputs struct {
	Question string `json:"question"`
	Context  string `json:"context"`
}

type hfSummary struct {
	SummaryText string `json:"summary_text"`
}

type hfAnswer struct {
	Answer string  `json:"answer"`
	Score  float64 `json:"score"`
}

type hfError struct {
	Error string `json:"error"`
}

// ClassifySentiment returns the top polarity label.
func (c *HFClient) ClassifySentiment(ctx context.Context, text string) (analysis.Label, error) {
	var raw json.RawMessage
	req := hfRequest{Inputs: text, Options: hfOptions{WaitForModel: true}}
	if err := c.post(ctx, OpSentiment, c.cfg.SentimentModel, req, &raw); err != nil {
		return analysis.Label{}, err
	}
	labels, err := decodeLabels(raw)
	if err != nil {
		return analysis.Label{}, &ModelError{Operation: OpSentiment, Message: err.Error(), Err: err}
	}
	top, ok := analysis.DominantLabel(labels)
	if !ok {
		return analysis.Label{}, &ModelError{Operation: OpSentiment, Message: "no labels returned"}
	}
	return top, nil
}

// ClassifyEmotions returns scores for every emotion label.
func (c *HFClient) ClassifyEmotions(ctx context.Context, text string) ([]analysis.Label, error) {
	var raw json.RawMessage
	req := hfRequest{
		Inputs:     text,
		Parameters: map[string]any{"top_k": nil},
		Options:    hfOptions{WaitForModel: true},
	}
	if err := c.post(ctx, OpEmotion, c.cfg.EmotionModel, req, &raw); err != nil {
		return nil, err
	}
	labels, err := decodeLabels(raw)
	if err != nil {
		return nil, &ModelError{Operation: OpEmotion, Message: err.Error(), Err: err}
	}
	return labels, nil
}

func (c *HFClient) Summarize(ctx context.Context, text string) (string, error) {
	var out []hfSummary
	req := hfRequest{Inputs: text, Options: hfOptions{WaitForModel: true}}
	if err := c.post(ctx, OpSummarize, c.cfg.SummaryModel, req, &out); err != nil {
		return "", err
	}
	if len(out) == 0 {
		return "", &ModelError{Operation: OpSummarize, Message: "empty summary response"}
	}
	return strings.TrimSpace(out[0].SummaryText), nil
}

// Answer runs extractive question answering over the given context.
func (c *HFClient) Answer(ctx context.Context, question, passage string) (analysis.Answer, error) {
	var out hfAnswer
	req := hfRequest{
		Inputs:  hfQAInputs{Question: question, Context: passage},
		Options: hfOptions{WaitForModel: true},
	}
	if err := c.post(ctx, OpAnswer, c.cfg.QAModel, req, &out); err != nil {
		return analysis.Answer{}, err
	}
	return analysis.Answer{Text: out.Answer, Score: out.Score}, nil
}

func (c *HFClient) post(ctx context.Context, op, model string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", op, err)
	}
	url := c.cfg.BaseURL + "/" + model

	return c.guard.Do(ctx, op, func(ctx context.Context) error {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		httpReq.Header.Set("Content-Type", "application/json")
		if c.cfg.Token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+c.cfg.Token)
		}

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			return &ModelError{Operation: op, Message: err.Error(), Err: err}
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return &ModelError{Operation: op, StatusCode: resp.StatusCode, Message: "read response: " + err.Error(), Err: err}
		}
		if resp.StatusCode != http.StatusOK {
			msg := string(respBody)
			var apiErr hfError
			if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
				msg = apiErr.Error
			}
			return &ModelError{Operation: op, StatusCode: resp.StatusCode, Message: msg}
		}
		if err := json.Unmarshal(respBody, out); err != nil {
			return &ModelError{Operation: op, StatusCode: resp.StatusCode, Message: "decode response: " + err.Error(), Err: err}
		}
		return nil
	})
}

// decodeLabels accepts both the nested [[...]] and flat [...] shapes the
// text-classification endpoint returns.
func decodeLabels(raw json.RawMessage) ([]analysis.Label, error) {
	var nested [][]analysis.Label
	if err := json.Unmarshal(raw, &nested); err == nil {
		if len(nested) == 0 {
			return nil, nil
		}
		return nested[0], nil
	}
	var flat []analysis.Label
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, fmt.Errorf("decode labels: %w", err)
	}
	return flat, nil
}

// Close releases idle connections.
func (c *HFClient) Close() {
	c.httpClient.CloseIdleConnections()
}
