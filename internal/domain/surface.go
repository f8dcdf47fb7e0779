package domain

import (
	"context"
	"log/slog"
)

// ResolveSurface decides the impact surface for req. A nil classifier or a
// classifier error falls back to the specification's flag (graceful
// degradation).
func ResolveSurface(ctx context.Context, req AssessmentRequest, classifier SurfaceClassifier, logger *slog.Logger) Surface {
	if req.Water != nil {
		return Surface{Water: *req.Water, Source: SurfaceFromRequest}
	}

	fallback := Surface{Water: req.Specification.Water, Source: SurfaceDefault}
	if classifier == nil {
		return fallback
	}

	lat, lon := req.Specification.Latitude, req.Specification.Longitude
	result, err := classifier.ClassifySurface(ctx, lat, lon)
	if err != nil {
		logger.Warn("surface classification failed",
			"request_id", req.ID,
			"lat", lat,
			"lon", lon,
			"error", err,
		)
		fallback.Source = SurfaceFailed
		return fallback
	}

	return Surface{
		Water:      result.Water,
		Source:     SurfaceFromClassifier,
		PlaceName:  result.PlaceName,
		Confidence: result.Confidence,
	}
}
