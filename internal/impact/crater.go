package impact

import "math"

// EarthEffect grades how much of the planet a crater's excavation displaces.
type EarthEffect string

const (
	EarthDestroyed           EarthEffect = "destroyed"
	EarthStronglyDisturbed   EarthEffect = "strongly_disturbed"
	EarthNegligiblyDisturbed EarthEffect = "negligible_disturbed"
)

// CraterProfile describes the crater left by a surface impact. Every numeric
// field is null after an airburst.
type CraterProfile struct {
	Airburst          bool         `json:"airburst"`
	TransientDiameter *float64     `json:"transient_diameter_m"`
	TransientDepth    *float64     `json:"transient_depth_m"`
	FinalDiameter     *float64     `json:"final_diameter_m"`
	FinalDepth        *float64     `json:"final_depth_m"`
	Volume            *float64     `json:"volume_km3"`
	VolumeRatio       *float64     `json:"volume_ratio"`
	EarthEffect       *EarthEffect `json:"earth_effect"`
	// SeafloorVelocity is the impactor speed after crossing the water column.
	SeafloorVelocity *float64 `json:"seafloor_velocity_m_s,omitempty"`
	// OceanFloorDiameter is the transient cavity opened in the water column,
	// which seeds the tsunami.
	OceanFloorDiameter *float64 `json:"ocean_floor_diameter_m,omitempty"`
}

const (
	craterCoefficient     = 1.161
	oceanFloorCoefficient = 1.365
)

// TransientDiameter is the pi-scaling transient crater diameter in m for an
// impactor of diameter L and density rhoI striking a target of density rhoT.
func TransientDiameter(coefficient, rhoI, rhoT, diameter, velocity, sinAngle float64) float64 {
	return coefficient * math.Cbrt(rhoI/rhoT) *
		math.Pow(diameter, 0.78) * math.Pow(velocity, 0.44) *
		math.Pow(gravity, -0.22) * math.Cbrt(sinAngle)
}

// WaterColumnVelocity is the impactor speed at the sea floor after drag
// through depth metres of water.
func WaterColumnVelocity(v, rhoW, cdW, depth, rhoI, diameter, sinAngle float64) float64 {
	return v * math.Exp(-3*rhoW*cdW*depth/(2*rhoI*diameter*sinAngle))
}

// FinalCrater returns the collapsed crater diameter and depth in m for a
// transient diameter, choosing the simple or complex scaling law at the
// given transition diameter.
func FinalCrater(transient, transition float64) (diameter, depth float64, regime CraterRegime) {
	if transient < transition {
		return 1.25 * transient, transientDepth(transient), CraterSimple
	}
	diameter = 1.17 * math.Pow(transient, 1.13) / math.Pow(transition, 0.13)
	depth = 294 * math.Pow(diameter/1000, 0.301)
	return diameter, depth, CraterComplex
}

func transientDepth(transient float64) float64 {
	return transient / (2 * math.Sqrt2)
}

// CraterVolume is the transient crater volume in km³, capped at EarthVolume.
func CraterVolume(transient float64) float64 {
	v := math.Pi * transient * transient * transient / (16 * math.Sqrt2) / 1e9
	return math.Min(v, EarthVolume)
}

// EffectFor grades a crater by the share of the Earth's volume it displaces.
func EffectFor(ratio float64) EarthEffect {
	switch {
	case ratio > 0.5:
		return EarthDestroyed
	case ratio >= 0.1:
		return EarthStronglyDisturbed
	default:
		return EarthNegligiblyDisturbed
	}
}

type craterResult struct {
	formed           bool
	regime           CraterRegime
	transient        float64
	transientDepth   float64
	final            float64
	finalDepth       float64
	volume           float64
	ratio            float64
	effect           EarthEffect
	seafloorVelocity float64
	oceanFloor       float64
}

func computeCrater(in inputs, p Params, entry entryResult) craterResult {
	if entry.airburst {
		return craterResult{regime: CraterNone}
	}

	v := entry.surfaceVelocity
	rhoT := p.LandDensity
	r := craterResult{formed: true, seafloorVelocity: math.NaN(), oceanFloor: math.NaN()}
	if in.water {
		r.oceanFloor = capDiameter(TransientDiameter(oceanFloorCoefficient, in.density, p.WaterDensity, in.diameter, v, in.sinAngle))
		r.seafloorVelocity = WaterColumnVelocity(v, p.WaterDensity, p.WaterDragCoefficient, in.waterDepth, in.density, in.diameter, in.sinAngle)
		v = r.seafloorVelocity
		rhoT = p.SeaFloorDensity
	}

	dtc := TransientDiameter(craterCoefficient, in.density, rhoT, in.diameter, v, in.sinAngle)
	final, finalDepth, regime := FinalCrater(dtc, p.SimpleComplexDiameter)
	r.regime = regime
	r.transient = capDiameter(dtc)
	r.transientDepth = capDiameter(transientDepth(dtc))
	r.final = capDiameter(final)
	r.finalDepth = capDiameter(finalDepth)
	r.volume = CraterVolume(dtc)
	r.ratio = math.Min(1, r.volume/EarthVolume)
	r.effect = EffectFor(r.ratio)
	return r
}

func capDiameter(d float64) float64 {
	return math.Min(d, EarthDiameter)
}

func (r craterResult) profile() CraterProfile {
	if !r.formed {
		return CraterProfile{Airburst: true}
	}
	effect := r.effect
	return CraterProfile{
		TransientDiameter:  finite(r.transient),
		TransientDepth:     finite(r.transientDepth),
		FinalDiameter:      finite(r.final),
		FinalDepth:         finite(r.finalDepth),
		Volume:             finite(r.volume),
		VolumeRatio:        finite(r.ratio),
		EarthEffect:        &effect,
		SeafloorVelocity:   finite(r.seafloorVelocity),
		OceanFloorDiameter: finite(r.oceanFloor),
	}
}
