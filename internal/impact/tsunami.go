package impact

import "math"

// TsunamiProfile describes the rim wave raised by an ocean impact. Arrival
// times are null beyond the distance at which the wave decays below the
// minimum amplitude.
type TsunamiProfile struct {
	Possible          bool     `json:"possible"`
	RimWaveHeight     *float64 `json:"rim_wave_height_m"`
	RimWaveRadius     *float64 `json:"rim_wave_radius_m"`
	PropagationRadius *float64 `json:"propagation_radius_m"`
	WaveSpeed         *float64 `json:"wave_speed_m_s"`
	ArrivalAt1km      *float64 `json:"arrival_1km_s"`
	ArrivalAt100km    *float64 `json:"arrival_100km_s"`
}

// RimWaveHeight is the amplitude in m of the wave raised at the rim of a
// water cavity of the given diameter, capped at the water depth and at
// MeanOceanDepth.
func RimWaveHeight(cavity, depth float64) float64 {
	return math.Min(cavity/14.1, math.Min(depth, MeanOceanDepth))
}

// ShallowWaterSpeed is the long-wave speed over water of the given depth.
func ShallowWaterSpeed(depth float64) float64 {
	return math.Sqrt(gravity * depth)
}

// PropagationRadius is the distance at which a rim wave of the given height,
// decaying as 1/r from rimRadius, falls to minAmplitude. It is capped at
// HalfEarthArc.
func PropagationRadius(rimRadius, height, minAmplitude float64) float64 {
	if height <= minAmplitude {
		return rimRadius
	}
	return math.Min(HalfEarthArc, rimRadius*height/minAmplitude)
}

type tsunamiResult struct {
	water       bool
	possible    bool
	height      float64
	rimRadius   float64
	propagation float64
	speed       float64
	at1km       float64
	at100km     float64
}

func computeTsunami(in inputs, p Params, entry entryResult, crater craterResult) tsunamiResult {
	if !in.water {
		return tsunamiResult{}
	}
	r := tsunamiResult{water: true}
	if entry.airburst || !crater.formed {
		return r
	}

	r.height = RimWaveHeight(crater.oceanFloor, in.waterDepth)
	if !(r.height > 0) {
		r.height = 0
		return r
	}
	r.possible = true
	r.rimRadius = 0.75 * crater.oceanFloor
	r.propagation = PropagationRadius(r.rimRadius, r.height, p.MinTsunamiAmplitude)
	r.speed = ShallowWaterSpeed(in.waterDepth)
	r.at1km = arrival(1_000, r.propagation, r.speed)
	r.at100km = arrival(100_000, r.propagation, r.speed)
	return r
}

func arrival(distance, reach, speed float64) float64 {
	if distance > reach {
		return math.NaN()
	}
	return distance / speed
}

func (r tsunamiResult) profile() *TsunamiProfile {
	if !r.water {
		return nil
	}
	if !r.possible {
		return &TsunamiProfile{
			RimWaveHeight:     finite(0),
			RimWaveRadius:     finite(0),
			PropagationRadius: finite(0),
			WaveSpeed:         finite(0),
			ArrivalAt1km:      finite(0),
			ArrivalAt100km:    finite(0),
		}
	}
	return &TsunamiProfile{
		Possible:          true,
		RimWaveHeight:     finite(r.height),
		RimWaveRadius:     finite(r.rimRadius),
		PropagationRadius: finite(r.propagation),
		WaveSpeed:         finite(r.speed),
		ArrivalAt1km:      finite(r.at1km),
		ArrivalAt100km:    finite(r.at100km),
	}
}
