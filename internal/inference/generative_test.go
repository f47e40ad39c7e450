package inference

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnthropicClientSummarize(t *testing.T) {
	var got anthropicRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sk-test", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &got)
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"The supplier delivers goods."}]}`))
	}))
	defer srv.Close()

	c := NewAnthropicClient("sk-test", "", time.Second, nil)
	c.url = srv.URL

	out, err := c.Summarize(context.Background(), "The Supplier shall deliver the goods.")
	require.NoError(t, err)
	assert.Equal(t, "The supplier delivers goods.", out)
	assert.Equal(t, DefaultAnthropicModel, got.Model)
	require.Len(t, got.Messages, 1)
	assert.Contains(t, got.Messages[0].Content, "The Supplier shall deliver the goods.")
}

func TestAnthropicClientAnswerNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"NOT FOUND"}]}`))
	}))
	defer srv.Close()

	c := NewAnthropicClient("sk-test", "claude-test", time.Second, nil)
	c.url = srv.URL

	ans, err := c.Answer(context.Background(), "Who pays?", "Nothing relevant.")
	require.NoError(t, err)
	assert.Empty(t, ans.Text)
	assert.Zero(t, ans.Score)
}

func TestAnthropicClientErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`))
	}))
	defer srv.Close()

	c := NewAnthropicClient("sk-test", "", time.Second, nil)
	c.url = srv.URL

	_, err := c.Summarize(context.Background(), "text")
	var me *ModelError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, http.StatusTooManyRequests, me.StatusCode)
}

func TestOpenAIClientAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-openai", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"thirty days"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("sk-openai", srv.URL, "gpt-test", nil)
	ans, err := c.Answer(context.Background(), "What is the notice period?", "Notice is thirty days.")
	require.NoError(t, err)
	assert.Equal(t, "thirty days", ans.Text)
	assert.Equal(t, 1.0, ans.Score)
}

func TestOpenAIClientAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("bad", srv.URL, "", nil)
	_, err := c.Summarize(context.Background(), "text")
	var me *ModelError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, http.StatusUnauthorized, me.StatusCode)
	assert.Equal(t, "invalid key", me.Message)
}

func TestStripCodeBlockAndPrompts(t *testing.T) {
	assert.Equal(t, "summary", stripCodeBlock("```text\nsummary\n```"))
	assert.Equal(t, "plain", stripCodeBlock("  plain  "))

	p := BuildAnswerPrompt(" Who pays? ", "The Buyer pays.")
	assert.Contains(t, p, `Question: "Who pays?"`)
	assert.Contains(t, p, "The Buyer pays.")
}
