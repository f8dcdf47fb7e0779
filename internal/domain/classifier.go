package domain

import (
	"context"

	"github.com/couchcryptid/impact-effects-service/internal/impact"
)

// SurfaceResult is a classifier's verdict for one coordinate.
type SurfaceResult struct {
	Water      bool
	PlaceName  string
	Confidence float64 // 0.0–1.0 provider confidence score
}

// SurfaceClassifier decides whether a coordinate lies over water.
type SurfaceClassifier interface {
	ClassifySurface(ctx context.Context, lat, lon float64) (SurfaceResult, error)
}

// CasualtyEstimator turns an assessment into a death and injury count by
// sampling population within the damage radii around the impact point.
type CasualtyEstimator interface {
	Estimate(ctx context.Context, a impact.Assessment, lat, lon, diameter float64) (Casualties, error)
}
