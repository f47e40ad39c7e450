package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/clausewise/internal/analysis"
)

func TestFinishAnalysisCountsClauses(t *testing.T) {
	m := New()
	m.StartAnalysis()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.analysesInFlight))

	rep := &analysis.Report{Clauses: []analysis.ClauseResult{
		{Category: analysis.CategoryRisk, Importance: analysis.ImportanceHigh},
		{Category: analysis.CategoryRisk, Importance: analysis.ImportanceHigh},
		{Category: analysis.CategoryOther, Importance: analysis.ImportanceLow},
	}}
	m.FinishAnalysis("completed", time.Second, rep)

	assert.Equal(t, 0.0, testutil.ToFloat64(m.analysesInFlight))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.analysesTotal.WithLabelValues("completed")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.clausesTotal.WithLabelValues("Risk", "High")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.clausesTotal.WithLabelValues("Other", "Low")))
}

func TestObserveModelCall(t *testing.T) {
	m := New()
	m.ObserveModelCall("sentiment", 10*time.Millisecond, nil)
	m.ObserveModelCall("sentiment", 20*time.Millisecond, errors.New("down"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.modelCallsTotal.WithLabelValues("sentiment", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.modelCallsTotal.WithLabelValues("sentiment", "error")))
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New()
	m.CacheHit()
	m.ObserveRequest("GET", "/health", 200)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	text := string(body)
	assert.True(t, strings.Contains(text, "clausewise_pipeline_cache_hits_total 1"))
	assert.Contains(t, text, `clausewise_http_requests_total{method="GET",route="/health",status="200"} 1`)
}
