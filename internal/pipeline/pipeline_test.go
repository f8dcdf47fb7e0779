package pipeline_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/couchcryptid/impact-effects-service/internal/domain"
	"github.com/couchcryptid/impact-effects-service/internal/impact"
	"github.com/couchcryptid/impact-effects-service/internal/observability"
	"github.com/couchcryptid/impact-effects-service/internal/pipeline"
	"github.com/couchcryptid/impact-effects-service/internal/zones"
)

const (
	testBatchSize = 10
	testWorkers   = 4
)

// --- mocks ---

// mockExtractor hands out its events in a single batch, then blocks until the
// context is cancelled to simulate waiting for messages.
type mockExtractor struct {
	events []domain.RawEvent
	served bool
}

func (m *mockExtractor) ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error) {
	if !m.served && len(m.events) > 0 {
		m.served = true
		if len(m.events) > batchSize {
			return m.events[:batchSize], nil
		}
		return m.events, nil
	}
	<-ctx.Done()
	return nil, ctx.Err()
}

type mockTransformer struct {
	err     error
	failKey string
}

func (m *mockTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	if m.err != nil {
		return domain.OutputEvent{}, m.err
	}
	if m.failKey != "" && string(raw.Key) == m.failKey {
		return domain.OutputEvent{}, errors.New("rejected")
	}
	return domain.OutputEvent{Key: raw.Key, Value: raw.Value}, nil
}

type mockLoader struct {
	loaded []domain.OutputEvent
	err    error
}

func (m *mockLoader) LoadBatch(_ context.Context, events []domain.OutputEvent) error {
	if m.err != nil {
		return m.err
	}
	m.loaded = append(m.loaded, events...)
	return nil
}

type mockClassifier struct {
	result domain.SurfaceResult
}

func (m *mockClassifier) ClassifySurface(_ context.Context, _, _ float64) (domain.SurfaceResult, error) {
	return m.result, nil
}

type mockEstimator struct {
	gotDiameter float64
}

func (m *mockEstimator) Estimate(_ context.Context, _ impact.Assessment, _, _, diameter float64) (domain.Casualties, error) {
	m.gotDiameter = diameter
	return domain.Casualties{Deaths: 12, Injuries: 1500}, nil
}

// --- pipeline tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	raw := makeRawRequest(t, "req-1", chelyabinsk())

	ext := &mockExtractor{events: []domain.RawEvent{raw}}
	ldr := &mockLoader{}
	metrics := observability.NewMetricsForTesting()

	p := pipeline.New(ext, &mockTransformer{}, ldr, slog.Default(), metrics, testBatchSize, testWorkers)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	require.NoError(t, p.Run(ctx))
	require.Len(t, ldr.loaded, 1)
	assert.Equal(t, raw.Value, ldr.loaded[0].Value)
	require.NoError(t, p.CheckReadiness(context.Background()))
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.MessagesConsumed), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.MessagesProduced), 1e-9)
	assert.InDelta(t, 0, testutil.ToFloat64(metrics.PipelineRunning), 1e-9)
}

func TestPipeline_Run_ContextCancellation(t *testing.T) {
	ldr := &mockLoader{}
	p := pipeline.New(&mockExtractor{}, &mockTransformer{}, ldr, slog.Default(), observability.NewMetricsForTesting(), testBatchSize, testWorkers)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, p.Run(ctx))
	assert.Empty(t, ldr.loaded)
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_PoisonMessageCommitted(t *testing.T) {
	committed := false
	raw := makeRawRequest(t, "req-2", chelyabinsk())
	raw.Commit = func(_ context.Context) error {
		committed = true
		return nil
	}

	ext := &mockExtractor{events: []domain.RawEvent{raw}}
	ldr := &mockLoader{}
	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(ext, &mockTransformer{err: errors.New("bad data")}, ldr, slog.Default(), metrics, testBatchSize, testWorkers)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	require.NoError(t, p.Run(ctx))
	assert.Empty(t, ldr.loaded)
	assert.True(t, committed, "poison messages are skipped, not retried")
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.TransformErrors), 1e-9)
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_CommitsAfterLoad(t *testing.T) {
	committed := false
	raw := makeRawRequest(t, "req-3", chelyabinsk())
	raw.Topic = "impact-requests"
	raw.Commit = func(_ context.Context) error {
		committed = true
		return nil
	}

	ext := &mockExtractor{events: []domain.RawEvent{raw}}
	p := pipeline.New(ext, &mockTransformer{}, &mockLoader{}, slog.Default(), observability.NewMetricsForTesting(), testBatchSize, testWorkers)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	require.NoError(t, p.Run(ctx))
	assert.True(t, committed)
}

func TestPipeline_Run_BatchOrderWithPartialFailure(t *testing.T) {
	var events []domain.RawEvent
	for i := 1; i <= 8; i++ {
		events = append(events, makeRawRequest(t, fmt.Sprintf("req-%d", i), chelyabinsk()))
	}

	ext := &mockExtractor{events: events}
	ldr := &mockLoader{}
	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(ext, &mockTransformer{failKey: "req-3"}, ldr, slog.Default(), metrics, testBatchSize, testWorkers)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	require.NoError(t, p.Run(ctx))

	keys := make([]string, len(ldr.loaded))
	for i, out := range ldr.loaded {
		keys[i] = string(out.Key)
	}
	assert.Equal(t, []string{"req-1", "req-2", "req-4", "req-5", "req-6", "req-7", "req-8"}, keys)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.TransformErrors), 1e-9)
}

func TestPipeline_Run_LoadFailureLeavesOffsetUncommitted(t *testing.T) {
	committed := false
	raw := makeRawRequest(t, "req-4", chelyabinsk())
	raw.Commit = func(_ context.Context) error {
		committed = true
		return nil
	}

	ext := &mockExtractor{events: []domain.RawEvent{raw}}
	ldr := &mockLoader{err: errors.New("broker unavailable")}
	p := pipeline.New(ext, &mockTransformer{}, ldr, slog.Default(), observability.NewMetricsForTesting(), testBatchSize, testWorkers)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	require.NoError(t, p.Run(ctx))
	assert.False(t, committed)
	assert.Error(t, p.CheckReadiness(context.Background()))
}

// --- transformer tests ---

func TestAssessmentTransformer_Transform(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	tfm := pipeline.NewTransformer(slog.Default(), metrics)

	out, err := tfm.Transform(context.Background(), makeRawRequest(t, "req-5", chelyabinsk()))
	require.NoError(t, err)

	assert.Equal(t, "req-5", out.Headers[domain.HeaderRequestID])
	assert.Equal(t, string(impact.BurstHighAirburst), out.Headers[domain.HeaderBurst])
	assert.Equal(t, string(impact.TargetLand), out.Headers[domain.HeaderTarget])

	var event domain.AssessmentEvent
	require.NoError(t, json.Unmarshal(out.Value, &event))
	assert.Equal(t, string(out.Key), event.Key)
	assert.Equal(t, domain.SurfaceDefault, event.Surface.Source)
	assert.Nil(t, event.Casualties)
	assert.Empty(t, event.Zones)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.AssessmentsByBurst.WithLabelValues("high_airburst")), 1e-9)
}

func TestAssessmentTransformer_ValidationFailure(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	metrics := observability.NewMetricsForTesting()
	tfm := pipeline.NewTransformer(slog.Default(), metrics, pipeline.WithTracer(tp.Tracer("test")))

	spec := chelyabinsk()
	spec.Velocity = -1
	_, err := tfm.Transform(context.Background(), makeRawRequest(t, "req-6", spec))

	var verr *impact.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.ValidationFailures), 1e-9)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Contains(t, spans[0].Attributes(), attribute.StringSlice("impact.invalid_fields", []string{"velocity"}))
}

func TestAssessmentTransformer_ParseFailure(t *testing.T) {
	tfm := pipeline.NewTransformer(slog.Default(), observability.NewMetricsForTesting())
	_, err := tfm.Transform(context.Background(), domain.RawEvent{Value: []byte("not json")})
	assert.Error(t, err)
}

func TestAssessmentTransformer_SpanAttributes(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	tfm := pipeline.NewTransformer(slog.Default(), observability.NewMetricsForTesting(), pipeline.WithTracer(tp.Tracer("test")))

	raw := makeRawRequest(t, "req-7", chelyabinsk())
	raw.Topic = "impact-requests"
	raw.Offset = 42
	_, err := tfm.Transform(context.Background(), raw)
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, pipeline.AssessSpanName, spans[0].Name())
	attrs := spans[0].Attributes()
	assert.Contains(t, attrs, attribute.String("impact.request_id", "req-7"))
	assert.Contains(t, attrs, attribute.String("impact.burst", "high_airburst"))
	assert.Contains(t, attrs, attribute.String("impact.crater", "none"))
	assert.Contains(t, attrs, attribute.Int64("messaging.kafka.offset", 42))
}

func TestAssessmentTransformer_Enrichment(t *testing.T) {
	builder, err := zones.NewBuilder(zones.MinSegments, zones.CRSGeographic)
	require.NoError(t, err)
	estimator := &mockEstimator{}
	classifier := &mockClassifier{result: domain.SurfaceResult{Water: true, PlaceName: "Barents Sea", Confidence: 0.8}}

	tfm := pipeline.NewTransformer(slog.Default(), observability.NewMetricsForTesting(),
		pipeline.WithClassifier(classifier),
		pipeline.WithCasualtyEstimator(estimator),
		pipeline.WithZones(builder),
	)

	out, err := tfm.Transform(context.Background(), makeRawRequest(t, "req-8", chelyabinsk()))
	require.NoError(t, err)
	assert.Equal(t, string(impact.TargetWater), out.Headers[domain.HeaderTarget])

	var event domain.AssessmentEvent
	require.NoError(t, json.Unmarshal(out.Value, &event))
	assert.Equal(t, domain.SurfaceFromClassifier, event.Surface.Source)
	assert.Equal(t, "Barents Sea", event.Surface.PlaceName)
	assert.True(t, event.Specification.Water)

	require.NotNil(t, event.Casualties)
	assert.Equal(t, int64(12), event.Casualties.Deaths)
	assert.Equal(t, 20.0, estimator.gotDiameter)

	var fc struct {
		Type     string            `json:"type"`
		Features []json.RawMessage `json:"features"`
	}
	require.NoError(t, json.Unmarshal(event.Zones, &fc))
	assert.Equal(t, "FeatureCollection", fc.Type)
	assert.Len(t, fc.Features, positiveRadii(event.DamageRadii)+1)
}

func TestAssessmentTransformer_CustomParams(t *testing.T) {
	params := impact.DefaultParams()
	params.DragCoefficient = 1

	base := pipeline.NewTransformer(slog.Default(), observability.NewMetricsForTesting())
	tuned := pipeline.NewTransformer(slog.Default(), observability.NewMetricsForTesting(), pipeline.WithParams(params))

	raw := makeRawRequest(t, "req-9", chelyabinsk())
	a, err := base.Transform(context.Background(), raw)
	require.NoError(t, err)
	b, err := tuned.Transform(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, a.Key, b.Key, "key depends on the specification only")

	var ea, eb domain.AssessmentEvent
	require.NoError(t, json.Unmarshal(a.Value, &ea))
	require.NoError(t, json.Unmarshal(b.Value, &eb))
	require.NotNil(t, ea.Assessment.Entry.BurstAltitude)
	require.NotNil(t, eb.Assessment.Entry.BurstAltitude)
	assert.NotEqual(t, *ea.Assessment.Entry.BurstAltitude, *eb.Assessment.Entry.BurstAltitude)
}

// --- helpers ---

func chelyabinsk() impact.Specification {
	return impact.Specification{
		Diameter: 20, Density: 3000, Velocity: 19000, Angle: 45,
		Latitude: 55.15, Longitude: 61.41,
	}
}

func makeRawRequest(t *testing.T, id string, spec impact.Specification) domain.RawEvent {
	t.Helper()
	data, err := json.Marshal(domain.AssessmentRequest{
		ID:            id,
		RequestedAt:   time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		Specification: spec,
	})
	require.NoError(t, err)
	return domain.RawEvent{
		Key:   []byte(id),
		Value: data,
	}
}

func positiveRadii(radii []impact.DamageRadius) int {
	n := 0
	for _, r := range radii {
		if r.Radius > 0 {
			n++
		}
	}
	return n
}
