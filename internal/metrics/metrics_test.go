package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitegen_ai_server/internal/types"
)

func TestObserveStage(t *testing.T) {
	r := NewRecorder()

	r.ObserveStage("copy", types.SourceMixed, "timeout", 120*time.Millisecond)
	r.ObserveStage("copy", types.SourceAI, "", 80*time.Millisecond)
	r.ObserveStage("normalize", types.SourceDeterministic, "validation", time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.StagesTotal.WithLabelValues("copy", "mixed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.StagesTotal.WithLabelValues("copy", "ai")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.RecoveredErrors.WithLabelValues("copy", "timeout")))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.RecoveredErrors.WithLabelValues("normalize", "validation")))
	assert.Equal(t, 2, testutil.CollectAndCount(r.StageDurationSeconds))
}

func TestRecordersAreIndependent(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	a.ObserveGeneration("completed")

	assert.Equal(t, 1.0, testutil.ToFloat64(a.GenerationsTotal.WithLabelValues("completed")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.GenerationsTotal.WithLabelValues("completed")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	r := NewRecorder()
	r.ObserveStage("theme", types.SourceFallback, "malformed_response", time.Second)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `sitegen_pipeline_stages_total{source="fallback",stage="theme"} 1`)
	assert.Contains(t, string(body), `sitegen_pipeline_recovered_errors_total{class="malformed_response",stage="theme"} 1`)
}
