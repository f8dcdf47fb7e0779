package impact

import "math"

// EntryProfile describes the impactor's passage through the atmosphere.
type EntryProfile struct {
	Strength        *float64 `json:"strength_pa"`
	BreakupFactor   *float64 `json:"breakup_factor"`
	Breakup         bool     `json:"breakup"`
	BreakupAltitude *float64 `json:"breakup_altitude_m"` // null without breakup
	Airburst        bool     `json:"airburst"`
	BurstAltitude   *float64 `json:"burst_altitude_m"` // 0 for surface impacts
	SurfaceVelocity *float64 `json:"surface_velocity_m_s"`
}

// SurfaceVelocity is the speed of an intact body at the ground after
// exponential drag through an isothermal atmosphere.
func SurfaceVelocity(v0, cd, rho0, scaleHeight, density, diameter, sinAngle float64) float64 {
	return v0 * math.Exp(-3*cd*rho0*scaleHeight/(4*density*diameter*sinAngle))
}

// YieldStrength is the empirical bulk strength of an impactor of the given
// density, in Pa.
func YieldStrength(density float64) float64 {
	return math.Pow(10, 2.107+0.0624*math.Sqrt(density))
}

// BreakupFactor compares the impactor's strength with the peak ram pressure
// it would meet. Values below 1 mean the body breaks up in flight.
func BreakupFactor(cd, scaleHeight, strength, density, diameter, v0, sinAngle float64) float64 {
	return cd * scaleHeight * strength / (density * diameter * v0 * v0 * sinAngle)
}

// BreakupAltitude is the altitude z* at which ram pressure first exceeds the
// impactor's strength. It returns NaN when the log argument is not positive.
func BreakupAltitude(scaleHeight, strength, rho0, v0, breakupFactor float64) float64 {
	arg := strength / (rho0 * v0 * v0)
	if !(arg > 0) || breakupFactor > 1 {
		return math.NaN()
	}
	return -scaleHeight * (math.Log(arg) + 1.308 - 0.314*breakupFactor - 1.303*math.Sqrt(1-breakupFactor))
}

// AirburstAltitude follows the pancake model from breakup at zStar until the
// debris cloud has spread to dispersion times its initial diameter. The
// result can be negative, meaning the cloud reaches the ground first.
func AirburstAltitude(zStar, scaleHeight, rho0, cd, density, diameter, sinAngle, dispersion float64) float64 {
	rhoBreakup := rho0 * math.Exp(-zStar/scaleHeight)
	dispersionLength := diameter * sinAngle * math.Sqrt(density/(cd*rhoBreakup))
	spread := 1 + dispersionLength/(2*scaleHeight)*math.Sqrt(dispersion*dispersion-1)
	if !(spread > 0) {
		return math.NaN()
	}
	return zStar - 2*scaleHeight*math.Log(spread)
}

type entryResult struct {
	strength        float64
	breakupFactor   float64
	breakup         bool
	breakupAltitude float64
	airburst        bool
	burstAltitude   float64
	surfaceVelocity float64
}

func computeEntry(in inputs, p Params) entryResult {
	r := entryResult{
		strength:        YieldStrength(in.density),
		surfaceVelocity: SurfaceVelocity(in.velocity, in.cd, in.rho0, in.h, in.density, in.diameter, in.sinAngle),
		breakupAltitude: math.NaN(),
	}
	r.breakupFactor = BreakupFactor(in.cd, in.h, r.strength, in.density, in.diameter, in.velocity, in.sinAngle)
	r.breakup = r.breakupFactor < 1
	if !r.breakup {
		return r
	}

	r.breakupAltitude = BreakupAltitude(in.h, r.strength, in.rho0, in.velocity, r.breakupFactor)
	zb := AirburstAltitude(r.breakupAltitude, in.h, in.rho0, in.cd, in.density, in.diameter, in.sinAngle, p.DispersionFactor)
	switch {
	case math.IsNaN(zb):
		r.burstAltitude = zb
	case zb > 0:
		r.burstAltitude = zb
		r.airburst = true
	}
	return r
}

func (r entryResult) profile() EntryProfile {
	out := EntryProfile{
		Strength:        finite(r.strength),
		BreakupFactor:   finite(r.breakupFactor),
		Breakup:         r.breakup,
		Airburst:        r.airburst,
		BurstAltitude:   finite(r.burstAltitude),
		SurfaceVelocity: finite(r.surfaceVelocity),
	}
	if r.breakup {
		out.BreakupAltitude = finite(r.breakupAltitude)
	}
	return out
}
