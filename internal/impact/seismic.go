package impact

import "math"

// SeismicProfile describes ground shaking from a surface impact. Radius is
// the distance out to which the effective magnitude stays at or above the
// reporting threshold; it is null below the threshold, after an airburst,
// and when no distance correlation applies.
type SeismicProfile struct {
	Magnitude   *float64 `json:"magnitude"`
	Radius      *float64 `json:"radius_m"`
	Description *string  `json:"description"`
}

// SeismicMagnitude is the Richter magnitude of an impact releasing joules.
func SeismicMagnitude(joules float64) float64 {
	return 0.67*math.Log10(joules) - 5.87
}

// EffectiveMagnitude attenuates magnitude m to a distance of km kilometres
// using the near, regional and teleseismic correlations.
func EffectiveMagnitude(m, km float64) float64 {
	switch {
	case km < 60:
		return m - 0.0238*km
	case km < 700:
		return m - 0.0048*km - 1.1644
	default:
		return m - 1.66*math.Log10(km/kmPerDegree) - 6.399
	}
}

// seismicMilestone describes shaking for magnitudes too large for any
// distance correlation to bound.
type seismicMilestone struct {
	magnitude   float64
	description string
}

var seismicMilestones = []seismicMilestone{
	{7.5, "Severe regional shaking; widespread structural damage"},
	{9.5, "Regional catastrophe; masonry collapse across the impact region"},
	{11.0, "Continental disruption; destructive shaking across the continent"},
	{12.5, "Global crustal upheaval; destructive surface waves circle the planet"},
	{13.5, "Ocean-vaporization threshold; crust fractured worldwide"},
}

// SeismicDescription returns the milestone text for the highest milestone not
// above m, or "" below the first one.
func SeismicDescription(m float64) string {
	out := ""
	for _, ms := range seismicMilestones {
		if m >= ms.magnitude {
			out = ms.description
		}
	}
	return out
}

// SeismicRadius inverts EffectiveMagnitude for the threshold and returns the
// radius in metres along with the regime whose correlation produced it.
func SeismicRadius(m, threshold float64) (float64, SeismicRegime) {
	if math.IsNaN(m) {
		return math.NaN(), SeismicDegenerate
	}
	if m < threshold {
		return math.NaN(), SeismicBelowThreshold
	}
	if km := (m - threshold) / 0.0238; km <= 60 {
		return km * 1000, SeismicNear
	}
	if km := (m - threshold - 1.1644) / 0.0048; km >= 60 && km <= 700 {
		return km * 1000, SeismicRegional
	}
	// The teleseismic law takes whatever the bounded regimes leave; it only
	// fails once the radius passes the antipode.
	deg := math.Pow(10, (m-threshold-6.399)/1.66)
	if r := deg * kmPerDegree * 1000; r <= HalfEarthArc {
		return r, SeismicTeleseismic
	}
	return math.NaN(), SeismicDegenerate
}

type seismicResult struct {
	shaking     bool
	magnitude   float64
	radius      float64
	regime      SeismicRegime
	description string
}

func computeSeismic(p Params, energy energyResult, entry entryResult) seismicResult {
	if entry.airburst {
		return seismicResult{regime: SeismicNone, magnitude: math.NaN(), radius: math.NaN()}
	}
	m := SeismicMagnitude(energy.joules)
	r := seismicResult{shaking: true, magnitude: m}
	r.radius, r.regime = SeismicRadius(m, p.SeismicThreshold)
	if r.regime == SeismicDegenerate {
		r.description = SeismicDescription(m)
	}
	return r
}

func (r seismicResult) profile() SeismicProfile {
	if !r.shaking {
		return SeismicProfile{}
	}
	out := SeismicProfile{Magnitude: finite(r.magnitude), Radius: finite(r.radius)}
	if r.description != "" {
		d := r.description
		out.Description = &d
	}
	return out
}
