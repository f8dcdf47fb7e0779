// Package zones draws damage radii as concentric rings around ground zero
// and encodes them as a GeoJSON FeatureCollection.
package zones

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/wroge/wgs84"

	"github.com/couchcryptid/impact-effects-service/internal/impact"
)

// Supported output coordinate reference systems.
const (
	CRSGeographic  = 4326 // WGS 84 longitude/latitude
	CRSWebMercator = 3857
)

// Segment bounds for a ring.
const (
	MinSegments     = 8
	MaxSegments     = 720
	DefaultSegments = 64
)

// MaxDrawnRadius limits how far a ring is drawn from ground zero, in m.
// Larger radii wrap past the poles and are drawn at this radius with the
// "clipped" property set.
const MaxDrawnRadius = 5_000_000.0

// GroundZeroID identifies the point feature at the impact site.
const GroundZeroID = "ground_zero"

var ErrInvalidSegments = fmt.Errorf("segments must be between %d and %d", MinSegments, MaxSegments)

// Builder turns damage radii into GeoJSON.
type Builder struct {
	segments int
	crs      int
	project  func(a, b, c float64) (float64, float64, float64)
}

// NewBuilder returns a Builder drawing rings with the given number of
// segments in the given CRS.
func NewBuilder(segments, crs int) (*Builder, error) {
	if segments < MinSegments || segments > MaxSegments {
		return nil, ErrInvalidSegments
	}
	b := &Builder{segments: segments, crs: crs}
	switch crs {
	case CRSGeographic:
	case CRSWebMercator:
		b.project = wgs84.EPSG().Transform(CRSGeographic, CRSWebMercator)
	default:
		return nil, fmt.Errorf("unsupported CRS EPSG:%d", crs)
	}
	return b, nil
}

// Build returns a feature collection holding a ground-zero point followed by
// one polygon per positive radius, in the order given.
func (b *Builder) Build(lat, lon float64, radii []impact.DamageRadius) (geom.GeoJSONFeatureCollection, error) {
	if math.IsNaN(lat) || math.IsNaN(lon) || lat < -90 || lat > 90 {
		return nil, errors.New("invalid ground zero")
	}

	x, y := b.point(lon, lat)
	center := geom.NewPoint(geom.Coordinates{XY: geom.XY{X: x, Y: y}})
	fc := geom.GeoJSONFeatureCollection{{
		Geometry: center.AsGeometry(),
		ID:       GroundZeroID,
		Properties: map[string]any{
			"name": GroundZeroID,
			"crs":  fmt.Sprintf("EPSG:%d", b.crs),
		},
	}}

	for _, r := range radii {
		if !(r.Radius > 0) {
			continue
		}
		drawn := math.Min(r.Radius, MaxDrawnRadius)
		ring := geom.NewLineString(geom.NewSequence(b.ring(lat, lon, drawn), geom.DimXY))
		poly := geom.NewPolygon([]geom.LineString{ring})
		fc = append(fc, geom.GeoJSONFeature{
			Geometry: poly.AsGeometry(),
			ID:       r.Name,
			Properties: map[string]any{
				"name":           r.Name,
				"radius_m":       r.Radius,
				"drawn_radius_m": drawn,
				"clipped":        drawn < r.Radius,
			},
		})
	}
	return fc, nil
}

// Marshal builds the collection and encodes it as GeoJSON.
func (b *Builder) Marshal(lat, lon float64, radii []impact.DamageRadius) (json.RawMessage, error) {
	fc, err := b.Build(lat, lon, radii)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(fc)
	if err != nil {
		return nil, fmt.Errorf("encode damage zones: %w", err)
	}
	return data, nil
}

// ring returns a closed ring of flat XY coordinates at distance r from the
// centre. Longitudes are unwrapped so the ring stays continuous across the
// antimeridian.
func (b *Builder) ring(lat, lon, r float64) []float64 {
	coords := make([]float64, 0, 2*(b.segments+1))
	prevLon := lon
	for i := 0; i < b.segments; i++ {
		bearing := 2 * math.Pi * float64(i) / float64(b.segments)
		dLat, dLon := Destination(lat, lon, bearing, r)
		dLon = unwrap(dLon, prevLon)
		prevLon = dLon
		x, y := b.point(dLon, dLat)
		coords = append(coords, x, y)
	}
	return append(coords, coords[0], coords[1])
}

func (b *Builder) point(lon, lat float64) (float64, float64) {
	if b.project == nil {
		return lon, lat
	}
	x, y, _ := b.project(lon, lat, 0)
	return x, y
}

// Destination returns the point reached by travelling distance metres from
// (lat, lon) along the initial bearing (radians clockwise from north) on a
// sphere of impact.EarthRadius.
func Destination(lat, lon, bearing, distance float64) (float64, float64) {
	phi1 := lat * math.Pi / 180
	lambda1 := lon * math.Pi / 180
	delta := distance / impact.EarthRadius

	sinPhi2 := math.Sin(phi1)*math.Cos(delta) + math.Cos(phi1)*math.Sin(delta)*math.Cos(bearing)
	phi2 := math.Asin(math.Max(-1, math.Min(1, sinPhi2)))
	lambda2 := lambda1 + math.Atan2(
		math.Sin(bearing)*math.Sin(delta)*math.Cos(phi1),
		math.Cos(delta)-math.Sin(phi1)*sinPhi2,
	)
	return phi2 * 180 / math.Pi, lambda2 * 180 / math.Pi
}

// Distance is the great-circle distance in metres between two points.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	phi1, phi2 := lat1*math.Pi/180, lat2*math.Pi/180
	dPhi := phi2 - phi1
	dLambda := (lon2 - lon1) * math.Pi / 180
	h := math.Sin(dPhi/2)*math.Sin(dPhi/2) + math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return 2 * impact.EarthRadius * math.Asin(math.Min(1, math.Sqrt(h)))
}

func unwrap(lon, ref float64) float64 {
	for lon-ref > 180 {
		lon -= 360
	}
	for lon-ref < -180 {
		lon += 360
	}
	return lon
}
