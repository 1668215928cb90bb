package observability

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const (
	serviceName    = "team-interview"
	serviceVersion = "1.0.0"
)

// TurnRecord describes one processed interview turn
type TurnRecord struct {
	Level    string
	Persona  string
	Action   string // Effective action applied by the session
	Score    int
	HandOff  bool
	Fallback bool
	Duration time.Duration
}

// SessionRecord describes one finished interview
type SessionRecord struct {
	Level          string
	Turns          int
	QuestionsAsked int
	MeanScore      float64
}

// Metrics receives interview telemetry
type Metrics interface {
	RecordTurn(ctx context.Context, r TurnRecord)
	RecordSession(ctx context.Context, r SessionRecord)
	Close(ctx context.Context) error
}

// MetricsConfig holds OTLP exporter configuration
type MetricsConfig struct {
	Endpoint string
	Enabled  bool
	Insecure bool
}

// LoadMetricsConfig loads exporter configuration from environment variables
func LoadMetricsConfig() MetricsConfig {
	enabled, _ := strconv.ParseBool(os.Getenv("TEAM_INTERVIEW_OTEL_ENABLED"))
	insecure, _ := strconv.ParseBool(os.Getenv("TEAM_INTERVIEW_OTEL_INSECURE"))

	return MetricsConfig{
		Endpoint: os.Getenv("TEAM_INTERVIEW_OTEL_ENDPOINT"),
		Enabled:  enabled,
		Insecure: insecure,
	}
}

// OTelMetrics exports interview metrics to an OTel collector
type OTelMetrics struct {
	provider     *sdkmetric.MeterProvider
	turnsTotal   metric.Int64Counter
	fallbacks    metric.Int64Counter
	handOffs     metric.Int64Counter
	scoreHist    metric.Int64Histogram
	turnDuration metric.Float64Histogram
	sessions     metric.Int64Counter
	sessionTurns metric.Int64Histogram
	sessionAsked metric.Int64Histogram
	sessionScore metric.Float64Histogram
}

// NewOTelMetrics creates a metrics exporter pushing to cfg.Endpoint over OTLP/gRPC
func NewOTelMetrics(ctx context.Context, cfg MetricsConfig) (*OTelMetrics, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return nil, fmt.Errorf("OTEL exporter is disabled or endpoint not configured")
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	m, err := newOTelMetrics(ctx, sdkmetric.NewPeriodicReader(exp))
	if err != nil {
		return nil, err
	}
	otel.SetMeterProvider(m.provider)
	return m, nil
}

func newOTelMetrics(ctx context.Context, reader sdkmetric.Reader) (*OTelMetrics, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(reader),
		sdkmetric.WithResource(res),
	)
	meter := provider.Meter(serviceName)
	m := &OTelMetrics{provider: provider}

	if m.turnsTotal, err = meter.Int64Counter(
		"team_interview_turns_total",
		metric.WithDescription("Interview turns processed, by effective action"),
		metric.WithUnit("{turn}"),
	); err != nil {
		return nil, fmt.Errorf("creating turns counter: %w", err)
	}
	if m.fallbacks, err = meter.Int64Counter(
		"team_interview_fallback_turns_total",
		metric.WithDescription("Turns answered with the default outcome"),
		metric.WithUnit("{turn}"),
	); err != nil {
		return nil, fmt.Errorf("creating fallback counter: %w", err)
	}
	if m.handOffs, err = meter.Int64Counter(
		"team_interview_hand_offs_total",
		metric.WithDescription("Hand-offs between interviewers"),
		metric.WithUnit("{hand_off}"),
	); err != nil {
		return nil, fmt.Errorf("creating hand-off counter: %w", err)
	}
	if m.scoreHist, err = meter.Int64Histogram(
		"team_interview_answer_score",
		metric.WithDescription("Per-answer evaluation score (1-10)"),
		metric.WithUnit("{score}"),
		metric.WithExplicitBucketBoundaries(1, 2, 3, 4, 5, 6, 7, 8, 9, 10),
	); err != nil {
		return nil, fmt.Errorf("creating score histogram: %w", err)
	}
	if m.turnDuration, err = meter.Float64Histogram(
		"team_interview_turn_duration_seconds",
		metric.WithDescription("Wall time of one turn including generation"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("creating turn duration histogram: %w", err)
	}
	if m.sessions, err = meter.Int64Counter(
		"team_interview_sessions_total",
		metric.WithDescription("Interviews that reached wrap-up"),
		metric.WithUnit("{session}"),
	); err != nil {
		return nil, fmt.Errorf("creating sessions counter: %w", err)
	}
	if m.sessionTurns, err = meter.Int64Histogram(
		"team_interview_session_turns",
		metric.WithDescription("Candidate turns per interview"),
		metric.WithUnit("{turn}"),
	); err != nil {
		return nil, fmt.Errorf("creating session turns histogram: %w", err)
	}
	if m.sessionAsked, err = meter.Int64Histogram(
		"team_interview_session_questions_asked",
		metric.WithDescription("Backlog questions asked per interview"),
		metric.WithUnit("{question}"),
	); err != nil {
		return nil, fmt.Errorf("creating questions asked histogram: %w", err)
	}
	if m.sessionScore, err = meter.Float64Histogram(
		"team_interview_session_mean_score",
		metric.WithDescription("Mean answer score per interview"),
		metric.WithUnit("{score}"),
	); err != nil {
		return nil, fmt.Errorf("creating mean score histogram: %w", err)
	}

	return m, nil
}

// RecordTurn records one processed turn
func (m *OTelMetrics) RecordTurn(ctx context.Context, r TurnRecord) {
	opt := metric.WithAttributes(
		attribute.String("level", r.Level),
		attribute.String("persona", r.Persona),
		attribute.String("action", r.Action),
	)

	m.turnsTotal.Add(ctx, 1, opt)
	m.scoreHist.Record(ctx, int64(r.Score), opt)
	m.turnDuration.Record(ctx, r.Duration.Seconds(), opt)
	if r.Fallback {
		m.fallbacks.Add(ctx, 1, opt)
	}
	if r.HandOff {
		m.handOffs.Add(ctx, 1, opt)
	}
}

// RecordSession records one finished interview
func (m *OTelMetrics) RecordSession(ctx context.Context, r SessionRecord) {
	opt := metric.WithAttributes(attribute.String("level", r.Level))

	m.sessions.Add(ctx, 1, opt)
	m.sessionTurns.Record(ctx, int64(r.Turns), opt)
	m.sessionAsked.Record(ctx, int64(r.QuestionsAsked), opt)
	m.sessionScore.Record(ctx, r.MeanScore, opt)
}

// Close shuts down the provider and flushes any pending metrics
func (m *OTelMetrics) Close(ctx context.Context) error {
	return m.provider.Shutdown(ctx)
}

// NoOpMetrics is a Metrics implementation that does nothing
type NoOpMetrics struct{}

// NewNoOpMetrics creates a no-op recorder for when export is disabled
func NewNoOpMetrics() *NoOpMetrics {
	return &NoOpMetrics{}
}

// RecordTurn does nothing
func (NoOpMetrics) RecordTurn(context.Context, TurnRecord) {}

// RecordSession does nothing
func (NoOpMetrics) RecordSession(context.Context, SessionRecord) {}

// Close does nothing
func (NoOpMetrics) Close(context.Context) error { return nil }

// NewMetrics returns an OTel exporter when cfg enables one, otherwise a no-op.
// Exporter setup failures also degrade to the no-op recorder.
func NewMetrics(ctx context.Context, cfg MetricsConfig) (Metrics, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return NewNoOpMetrics(), nil
	}
	m, err := NewOTelMetrics(ctx, cfg)
	if err != nil {
		return NewNoOpMetrics(), err
	}
	return m, nil
}
