package domain

import (
	"context"
	"encoding/json"
	"time"

	"github.com/couchcryptid/impact-effects-service/internal/impact"
)

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// AssessmentRequest is the message published to the source topic.
//
// Water overrides both the specification's own flag and the surface
// classifier when set.
type AssessmentRequest struct {
	ID            string               `json:"id,omitempty"`
	RequestedAt   time.Time            `json:"requested_at"`
	Specification impact.Specification `json:"specification"`
	Water         *bool                `json:"water,omitempty"`
}

// SurfaceSource records how the land/water flag was decided.
type SurfaceSource string

const (
	SurfaceFromRequest    SurfaceSource = "request"
	SurfaceFromClassifier SurfaceSource = "classifier"
	SurfaceDefault        SurfaceSource = "default"
	SurfaceFailed         SurfaceSource = "failed"
)

// Surface is the resolved impact surface.
type Surface struct {
	Water      bool          `json:"water"`
	Source     SurfaceSource `json:"source"`
	PlaceName  string        `json:"place_name,omitempty"`
	Confidence float64       `json:"confidence,omitempty"`
}

// Casualties is the output of a CasualtyEstimator.
type Casualties struct {
	Deaths   int64 `json:"deaths"`
	Injuries int64 `json:"injuries"`
}

// AssessmentEvent is the domain-rich record published to the sink topic.
type AssessmentEvent struct {
	ID            string                `json:"id"`
	Key           string                `json:"key"`
	RequestedAt   time.Time             `json:"requested_at"`
	ComputedAt    time.Time             `json:"computed_at"`
	Specification impact.Specification  `json:"specification"`
	Surface       Surface               `json:"surface"`
	Assessment    impact.Assessment     `json:"assessment"`
	DamageRadii   []impact.DamageRadius `json:"damage_radii"`
	Casualties    *Casualties           `json:"casualties,omitempty"`
	Zones         json.RawMessage       `json:"zones,omitempty"` // GeoJSON FeatureCollection

	RawPayload []byte `json:"-"`
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}
