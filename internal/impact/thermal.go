package impact

import "math"

// ThermalProfile holds the fireball size and the distances within which
// thermal radiation reaches each injury threshold.
type ThermalProfile struct {
	FireballRadius         *float64 `json:"fireball_radius_m"`
	ClothingIgnitionRadius *float64 `json:"clothing_ignition_radius_m"`
	SecondDegreeBurnRadius *float64 `json:"second_degree_burn_radius_m"`
	ThirdDegreeBurnRadius  *float64 `json:"third_degree_burn_radius_m"`
}

// FireballRadius is the radius of the impact fireball in m, capped at the
// Earth's radius.
func FireballRadius(joules float64) float64 {
	return math.Min(EarthRadius, 0.002*math.Cbrt(joules))
}

// ScaledFluence raises a 1 Mt ignition threshold for larger yields, whose
// longer pulses deliver the same fluence less effectively.
func ScaledFluence(fluence1Mt, megatons float64) float64 {
	return fluence1Mt * math.Pow(megatons, 1.0/6)
}

// ThermalRadius is the distance at which the radiated fraction k of joules
// delivers the given fluence, capped at BurnHorizon.
func ThermalRadius(k, joules, fluence float64) float64 {
	return math.Min(BurnHorizon, math.Sqrt(k*joules/(2*math.Pi*fluence)))
}

type thermalResult struct {
	fireball     float64
	clothing     float64
	secondDegree float64
	thirdDegree  float64
}

func computeThermal(in inputs, p Params, energy energyResult) thermalResult {
	radius := func(fluence1Mt float64) float64 {
		return ThermalRadius(in.k, energy.joules, ScaledFluence(fluence1Mt, energy.megatons))
	}
	return thermalResult{
		fireball:     FireballRadius(energy.joules),
		clothing:     radius(p.ClothingIgnitionFluence),
		secondDegree: radius(p.SecondDegreeFluence),
		thirdDegree:  radius(p.ThirdDegreeFluence),
	}
}

func (r thermalResult) profile() ThermalProfile {
	return ThermalProfile{
		FireballRadius:         finite(r.fireball),
		ClothingIgnitionRadius: finite(r.clothing),
		SecondDegreeBurnRadius: finite(r.secondDegree),
		ThirdDegreeBurnRadius:  finite(r.thirdDegree),
	}
}
