package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	m.ObserveToolCall("edit_file", "ok", 10*time.Millisecond)
	m.ObserveToolCall("edit_file", "NoMatch", time.Millisecond)
	m.ObserveToolCall("edit_file", "ok", time.Millisecond)
	m.AddDetectedFiles(3)
	m.AddDetectedFiles(0)
	m.IncDatasetReads()
	m.ObserveDictBuild("ok")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ToolCalls().WithLabelValues("edit_file", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ToolCalls().WithLabelValues("edit_file", "NoMatch")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.DetectedFiles()))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DatasetReads()))

	n, err := testutil.GatherAndCount(reg, "wick_tool_call_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	t.Run("double registration fails", func(t *testing.T) {
		_, err := New(reg)
		assert.Error(t, err)
	})
}

func TestMetrics_Nil(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveToolCall("x", "ok", time.Second)
		m.AddDetectedFiles(1)
		m.ObserveDictBuild("ok")
		m.IncDatasetReads()
	})
}
