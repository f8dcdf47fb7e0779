package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/couchcryptid/impact-effects-service/internal/domain"
	"github.com/couchcryptid/impact-effects-service/internal/impact"
	"github.com/couchcryptid/impact-effects-service/internal/observability"
	"github.com/couchcryptid/impact-effects-service/internal/zones"
)

// AssessSpanName names the span recorded for every transformed message.
const AssessSpanName = "impact.assess"

// AssessmentTransformer implements Transformer: it parses an assessment
// request, resolves the impact surface, runs the impact model and attaches
// optional casualty estimates and damage zones.
type AssessmentTransformer struct {
	params     impact.Params
	classifier domain.SurfaceClassifier
	estimator  domain.CasualtyEstimator
	zones      *zones.Builder
	tracer     trace.Tracer
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// TransformerOption configures an AssessmentTransformer.
type TransformerOption func(*AssessmentTransformer)

// WithParams replaces the default physical parameters.
func WithParams(p impact.Params) TransformerOption {
	return func(t *AssessmentTransformer) { t.params = p }
}

// WithClassifier enables surface classification. A nil classifier keeps the
// specification's own water flag.
func WithClassifier(c domain.SurfaceClassifier) TransformerOption {
	return func(t *AssessmentTransformer) { t.classifier = c }
}

// WithCasualtyEstimator attaches casualty estimates to each assessment.
func WithCasualtyEstimator(e domain.CasualtyEstimator) TransformerOption {
	return func(t *AssessmentTransformer) { t.estimator = e }
}

// WithZones attaches damage-zone GeoJSON built by b.
func WithZones(b *zones.Builder) TransformerOption {
	return func(t *AssessmentTransformer) { t.zones = b }
}

// WithTracer replaces the global tracer.
func WithTracer(tr trace.Tracer) TransformerOption {
	return func(t *AssessmentTransformer) { t.tracer = tr }
}

// NewTransformer creates an AssessmentTransformer using the default physical
// parameters and the global OpenTelemetry tracer.
func NewTransformer(logger *slog.Logger, metrics *observability.Metrics, opts ...TransformerOption) *AssessmentTransformer {
	t := &AssessmentTransformer{
		params:  impact.DefaultParams(),
		tracer:  otel.Tracer("impact-effects/pipeline"),
		metrics: metrics,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *AssessmentTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	ctx, span := t.tracer.Start(ctx, AssessSpanName, trace.WithAttributes(
		attribute.String("messaging.destination.name", raw.Topic),
		attribute.Int("messaging.kafka.partition", raw.Partition),
		attribute.Int64("messaging.kafka.offset", raw.Offset),
	))
	defer span.End()

	req, err := domain.ParseRequest(raw)
	if err != nil {
		return domain.OutputEvent{}, fail(span, err)
	}
	span.SetAttributes(attribute.String("impact.request_id", req.ID))

	surface := domain.ResolveSurface(ctx, req, t.classifier, t.logger)

	event, err := domain.Evaluate(t.params, req, surface)
	if err != nil {
		var verr *impact.ValidationError
		if errors.As(err, &verr) {
			t.metrics.ValidationFailures.Inc()
			span.SetAttributes(attribute.StringSlice("impact.invalid_fields", verr.Fields()))
		}
		return domain.OutputEvent{}, fail(span, err)
	}

	regimes := event.Assessment.Regimes
	span.SetAttributes(
		attribute.String("impact.burst", string(regimes.Burst)),
		attribute.String("impact.target", string(regimes.Target)),
		attribute.String("impact.crater", string(regimes.Crater)),
		attribute.String("impact.seismic", string(regimes.Seismic)),
		attribute.String("impact.surface_source", string(surface.Source)),
	)
	t.metrics.AssessmentsByBurst.WithLabelValues(string(regimes.Burst)).Inc()

	spec := event.Specification
	if t.estimator != nil {
		c, err := t.estimator.Estimate(ctx, event.Assessment, spec.Latitude, spec.Longitude, spec.Diameter)
		if err != nil {
			t.logger.Warn("casualty estimate failed", "request_id", event.ID, "error", err)
		} else {
			event.Casualties = &c
		}
	}

	if t.zones != nil {
		z, err := t.zones.Marshal(spec.Latitude, spec.Longitude, event.DamageRadii)
		if err != nil {
			t.logger.Warn("damage zones failed", "request_id", event.ID, "error", err)
		} else {
			event.Zones = z
		}
	}

	out, err := domain.SerializeAssessmentEvent(event)
	if err != nil {
		return domain.OutputEvent{}, fail(span, err)
	}
	return out, nil
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
