package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumValue(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestOTelMetrics_RecordTurn(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	m, err := newOTelMetrics(ctx, reader)
	require.NoError(t, err)
	defer func() { _ = m.Close(ctx) }()

	m.RecordTurn(ctx, TurnRecord{Level: "intern", Persona: "peer_engineer", Action: "continue", Score: 7, Duration: 1200 * time.Millisecond})
	m.RecordTurn(ctx, TurnRecord{Level: "intern", Persona: "peer_engineer", Action: "hand_off", Score: 8, HandOff: true})
	m.RecordTurn(ctx, TurnRecord{Level: "intern", Persona: "tech_lead", Action: "continue", Score: 5, Fallback: true})

	metrics := collect(t, reader)
	assert.Equal(t, int64(3), sumValue(t, metrics["team_interview_turns_total"]))
	assert.Equal(t, int64(1), sumValue(t, metrics["team_interview_hand_offs_total"]))
	assert.Equal(t, int64(1), sumValue(t, metrics["team_interview_fallback_turns_total"]))

	hist, ok := metrics["team_interview_answer_score"].Data.(metricdata.Histogram[int64])
	require.True(t, ok)
	var count uint64
	var total int64
	for _, dp := range hist.DataPoints {
		count += dp.Count
		total += dp.Sum
	}
	assert.Equal(t, uint64(3), count)
	assert.Equal(t, int64(20), total)
}

func TestOTelMetrics_RecordSession(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	m, err := newOTelMetrics(ctx, reader)
	require.NoError(t, err)
	defer func() { _ = m.Close(ctx) }()

	m.RecordSession(ctx, SessionRecord{Level: "junior", Turns: 9, QuestionsAsked: 6, MeanScore: 6.5})

	metrics := collect(t, reader)
	assert.Equal(t, int64(1), sumValue(t, metrics["team_interview_sessions_total"]))
	assert.Contains(t, metrics, "team_interview_session_turns")
	assert.Contains(t, metrics, "team_interview_session_questions_asked")
	assert.Contains(t, metrics, "team_interview_session_mean_score")
}

func TestNewOTelMetrics_Disabled(t *testing.T) {
	_, err := NewOTelMetrics(context.Background(), MetricsConfig{Enabled: false, Endpoint: "localhost:4317"})
	require.Error(t, err)

	_, err = NewOTelMetrics(context.Background(), MetricsConfig{Enabled: true})
	require.Error(t, err)
}

func TestNewMetrics_DefaultsToNoOp(t *testing.T) {
	m, err := NewMetrics(context.Background(), MetricsConfig{})
	require.NoError(t, err)
	assert.IsType(t, &NoOpMetrics{}, m)

	m.RecordTurn(context.Background(), TurnRecord{})
	m.RecordSession(context.Background(), SessionRecord{})
	assert.NoError(t, m.Close(context.Background()))
}

func TestLoadMetricsConfig(t *testing.T) {
	t.Setenv("TEAM_INTERVIEW_OTEL_ENABLED", "true")
	t.Setenv("TEAM_INTERVIEW_OTEL_ENDPOINT", "collector:4317")
	t.Setenv("TEAM_INTERVIEW_OTEL_INSECURE", "1")

	cfg := LoadMetricsConfig()
	assert.True(t, cfg.Enabled)
	assert.True(t, cfg.Insecure)
	assert.Equal(t, "collector:4317", cfg.Endpoint)
}
