package inference

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type hfCall struct {
	path string
	auth string
	body map[string]any
}

func newHFServer(t *testing.T, handler func(path string) (int, string)) (*httptest.Server, *[]hfCall) {
	t.Helper()
	var calls []hfCall
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = json.Unmarshal(raw, &body)
		calls = append(calls, hfCall{path: r.URL.Path, auth: r.Header.Get("Authorization"), body: body})
		status, resp := handler(r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(resp))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestHFClientSentimentNestedShape(t *testing.T) {
	srv, calls := newHFServer(t, func(string) (int, string) {
		return http.StatusOK, `[[{"label":"NEGATIVE","score":0.97},{"label":"POSITIVE","score":0.03}]]`
	})
	c := NewHFClient(HFConfig{BaseURL: srv.URL, Token: "hf_test"}, nil)

	label, err := c.ClassifySentiment(context.Background(), "The tenant is liable.")
	require.NoError(t, err)
	assert.Equal(t, "NEGATIVE", label.Label)
	assert.InDelta(t, 0.97, label.Score, 1e-9)

	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, "/"+DefaultSentimentModel, call.path)
	assert.Equal(t, "Bearer hf_test", call.auth)
	assert.Equal(t, "The tenant is liable.", call.body["inputs"])
}

func TestHFClientEmotionsFlatShapeAndTopK(t *testing.T) {
	srv, calls := newHFServer(t, func(string) (int, string) {
		return http.StatusOK, `[{"label":"fear","score":0.6},{"label":"neutral","score":0.4}]`
	})
	c := NewHFClient(HFConfig{BaseURL: srv.URL, EmotionModel: "custom/emotions"}, nil)

	labels, err := c.ClassifyEmotions(context.Background(), "text")
	require.NoError(t, err)
	require.Len(t, labels, 2)
	assert.Equal(t, "fear", labels[0].Label)

	call := (*calls)[0]
	assert.Equal(t, "/custom/emotions", call.path)
	params, ok := call.body["parameters"].(map[string]any)
	require.True(t, ok)
	v, present := params["top_k"]
	assert.True(t, present)
	assert.Nil(t, v)
	assert.Empty(t, call.auth)
}

func TestHFClientSummarize(t *testing.T) {
	srv, _ := newHFServer(t, func(string) (int, string) {
		return http.StatusOK, `[{"summary_text":"  The supplier delivers goods. "}]`
	})
	c := NewHFClient(HFConfig{BaseURL: srv.URL + "/"}, nil)

	out, err := c.Summarize(context.Background(), "long text")
	require.NoError(t, err)
	assert.Equal(t, "The supplier delivers goods.", out)
}

func TestHFClientAnswer(t *testing.T) {
	srv, calls := newHFServer(t, func(string) (int, string) {
		return http.StatusOK, `{"answer":"30 days","score":0.81,"start":10,"end":17}`
	})
	c := NewHFClient(HFConfig{BaseURL: srv.URL}, nil)

	ans, err := c.Answer(context.Background(), "What is the notice period?", "Notice is 30 days.")
	require.NoError(t, err)
	assert.Equal(t, "30 days", ans.Text)
	assert.InDelta(t, 0.81, ans.Score, 1e-9)

	inputs, ok := (*calls)[0].body["inputs"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "What is the notice period?", inputs["question"])
	assert.Equal(t, "Notice is 30 days.", inputs["context"])
}

func TestHFClientErrorResponse(t *testing.T) {
	srv, _ := newHFServer(t, func(string) (int, string) {
		return http.StatusServiceUnavailable, `{"error":"Model is currently loading"}`
	})
	c := NewHFClient(HFConfig{BaseURL: srv.URL}, nil)

	_, err := c.Summarize(context.Background(), "text")
	require.Error(t, err)
	assert.True(t, IsModelFailure(err))
	var me *ModelError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, OpSummarize, me.Operation)
	assert.Equal(t, http.StatusServiceUnavailable, me.StatusCode)
	assert.Equal(t, "Model is currently loading", me.Message)
}

func TestHFClientMalformedBody(t *testing.T) {
	srv, _ := newHFServer(t, func(string) (int, string) {
		return http.StatusOK, `{"unexpected":true}`
	})
	c := NewHFClient(HFConfig{BaseURL: srv.URL}, nil)

	_, err := c.ClassifySentiment(context.Background(), "text")
	require.Error(t, err)
	assert.True(t, IsModelFailure(err))
}

func TestHFClientUnreachable(t *testing.T) {
	srv, _ := newHFServer(t, func(string) (int, string) { return http.StatusOK, `[]` })
	url := srv.URL
	srv.Close()

	c := NewHFClient(HFConfig{BaseURL: url}, nil)
	_, err := c.Summarize(context.Background(), "text")
	require.Error(t, err)
	assert.True(t, IsModelFailure(err))
	assert.True(t, strings.HasPrefix(err.Error(), "model summarize"))
}

func TestDecodeLabels(t *testing.T) {
	labels, err := decodeLabels(json.RawMessage(`[[{"label":"a","score":1}]]`))
	require.NoError(t, err)
	assert.Len(t, labels, 1)

	labels, err = decodeLabels(json.RawMessage(`[]`))
	require.NoError(t, err)
	assert.Empty(t, labels)

	_, err = decodeLabels(json.RawMessage(`{"error":"x"}`))
	assert.Error(t, err)
}
