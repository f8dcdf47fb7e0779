package domain

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/couchcryptid/impact-effects-service/internal/impact"
)

// Header names set on output messages.
const (
	HeaderRequestID  = "request_id"
	HeaderBurst      = "burst"
	HeaderTarget     = "target"
	HeaderComputedAt = "computed_at"
)

// ParseRequest deserializes a RawEvent's value into an AssessmentRequest.
// A missing ID is taken from the request_id header or generated; a missing
// RequestedAt falls back to the message timestamp and then to the clock.
func ParseRequest(raw RawEvent) (AssessmentRequest, error) {
	var req AssessmentRequest
	dec := json.NewDecoder(bytes.NewReader(raw.Value))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return AssessmentRequest{}, fmt.Errorf("parse assessment request: %w", err)
	}

	if req.ID == "" {
		req.ID = raw.Headers[HeaderRequestID]
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.RequestedAt.IsZero() {
		req.RequestedAt = raw.Timestamp
	}
	if req.RequestedAt.IsZero() {
		req.RequestedAt = clock.Now()
	}
	req.RequestedAt = req.RequestedAt.UTC()
	return req, nil
}

// Evaluate applies the resolved surface to the request's specification and
// runs the impact model. The error is an *impact.ValidationError when the
// specification is rejected.
func Evaluate(params impact.Params, req AssessmentRequest, surface Surface) (AssessmentEvent, error) {
	spec := req.Specification
	spec.Water = surface.Water

	a, err := params.Assess(spec)
	if err != nil {
		return AssessmentEvent{}, fmt.Errorf("assess request %s: %w", req.ID, err)
	}

	return AssessmentEvent{
		ID:            req.ID,
		Key:           SpecificationKey(spec),
		RequestedAt:   req.RequestedAt,
		ComputedAt:    clock.Now().UTC(),
		Specification: spec,
		Surface:       surface,
		Assessment:    a,
		DamageRadii:   a.DamageRadii(),
	}, nil
}

// SpecificationKey produces a deterministic key from the physical inputs.
// Identical impactors hash to the same key regardless of request ID, so a
// replayed request overwrites its earlier result in a compacted topic.
func SpecificationKey(s impact.Specification) string {
	fields := []string{
		optional(s.Mass),
		formatFloat(s.Diameter),
		formatFloat(s.Density),
		formatFloat(s.Velocity),
		formatFloat(s.Angle),
		strconv.FormatBool(s.Water),
		strconv.FormatFloat(s.Latitude, 'f', 4, 64),
		strconv.FormatFloat(s.Longitude, 'f', 4, 64),
		optional(s.LuminousEfficiency),
		optional(s.DragCoefficient),
		optional(s.SurfaceAirDensity),
		optional(s.ScaleHeight),
		optional(s.WaterDepth),
	}
	hash := sha256.Sum256([]byte(strings.Join(fields, "|")))
	return "impact-" + hex.EncodeToString(hash[:8])
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func optional(v *float64) string {
	if v == nil {
		return "-"
	}
	return formatFloat(*v)
}

// SerializeAssessmentEvent marshals an AssessmentEvent into an OutputEvent.
func SerializeAssessmentEvent(event AssessmentEvent) (OutputEvent, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize assessment event: %w", err)
	}
	return OutputEvent{
		Key:   []byte(event.Key),
		Value: data,
		Headers: map[string]string{
			HeaderRequestID:  event.ID,
			HeaderBurst:      string(event.Assessment.Regimes.Burst),
			HeaderTarget:     string(event.Assessment.Regimes.Target),
			HeaderComputedAt: event.ComputedAt.Format(time.RFC3339),
		},
	}, nil
}
