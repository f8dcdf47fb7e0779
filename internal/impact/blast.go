package impact

import "math"

// BlastProfile holds the air-blast damage radii and the overpressure and
// peak wind at the reference distance.
type BlastProfile struct {
	BuildingCollapseRadius *float64 `json:"building_collapse_radius_m"`
	GlassShatterRadius     *float64 `json:"glass_shatter_radius_m"`
	IonizationRadius       *float64 `json:"ionization_radius_m"`
	ReferenceDistance      float64  `json:"reference_distance_m"`
	ReferenceOverpressure  *float64 `json:"reference_overpressure_pa"`
	ReferenceWindSpeed     *float64 `json:"reference_wind_speed_m_s"`
}

const (
	surfacePeakPressure    = 75_000.0 // Pa, crossover pressure of the surface-burst curve
	surfaceCrossover       = 290.0    // m, crossover distance for a 1 kt surface burst
	highAirburstPressure   = 3.14e11
	highAirburstDecay      = 34.87
	highAirburstPressureEx = -2.6
	highAirburstDecayEx    = -1.73
)

// PeakOverpressure is the peak air-blast overpressure in Pa at ground range r
// metres from an explosion of joules detonated at burstAltitude metres.
// Distances and altitude are scaled to a 1 kt explosion.
func PeakOverpressure(r, burstAltitude, joules float64) float64 {
	scale := math.Cbrt(joules / JoulesPerKiloton)
	r1 := r / scale

	if burstAltitude > highAirburstAltitude {
		zb1 := burstAltitude / scale
		p0 := highAirburstPressure * math.Pow(zb1, highAirburstPressureEx)
		beta := highAirburstDecay * math.Pow(zb1, highAirburstDecayEx)
		return p0 * math.Exp(-beta*r1)
	}

	rx := surfaceCrossover
	if burstAltitude > 0 {
		rx = 289 + 0.65*burstAltitude/50
	}
	return surfacePeakPressure * rx / (4 * r1) * (1 + 3*math.Pow(rx/r1, 1.3))
}

// WindSpeed is the peak wind behind a shock front of overpressure dp in Pa.
func WindSpeed(dp float64) float64 {
	x := dp / (7 * seaLevelPressure)
	return 5 * x * soundSpeed / math.Sqrt(1+6*x)
}

// OverpressureRadius finds the ground range at which the peak overpressure
// falls to target, searching [lo, HalfEarthArc].
func OverpressureRadius(target, burstAltitude, joules, lo float64, opts SolverOptions) Solution {
	f := func(r float64) float64 { return PeakOverpressure(r, burstAltitude, joules) }
	return opts.Invert(f, target, lo, HalfEarthArc)
}

type blastResult struct {
	collapse   float64
	glass      float64
	ionization float64
	refDist    float64
	refPress   float64
	refWind    float64
}

func computeBlast(p Params, energy energyResult, entry entryResult, thermal thermalResult) blastResult {
	zb := entry.burstAltitude
	if !entry.airburst {
		zb = 0
	}
	lo := 0.0
	if !entry.airburst {
		lo = thermal.fireball
	}
	radius := func(target, from float64) float64 {
		return OverpressureRadius(target, zb, energy.joules, from, p.Solver).Radius
	}

	refPress := PeakOverpressure(p.ReferenceDistance, zb, energy.joules)
	return blastResult{
		collapse:   radius(p.BuildingCollapsePressure, lo),
		glass:      radius(p.GlassShatterPressure, lo),
		ionization: radius(p.IonizationPressure, p.IonizationMinRadius),
		refDist:    p.ReferenceDistance,
		refPress:   refPress,
		refWind:    WindSpeed(refPress),
	}
}

func (r blastResult) profile() BlastProfile {
	return BlastProfile{
		BuildingCollapseRadius: finite(r.collapse),
		GlassShatterRadius:     finite(r.glass),
		IonizationRadius:       finite(r.ionization),
		ReferenceDistance:      r.refDist,
		ReferenceOverpressure:  finite(r.refPress),
		ReferenceWindSpeed:     finite(r.refWind),
	}
}
