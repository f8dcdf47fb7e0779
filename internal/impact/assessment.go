package impact

import "math"

// Assessment is the complete set of effect estimates for one impactor.
// Fields that do not apply, or that a degenerate input drove to NaN or
// infinity, are nil.
type Assessment struct {
	Regimes Regimes         `json:"regimes"`
	Energy  EnergyProfile   `json:"energy"`
	Entry   EntryProfile    `json:"entry"`
	Thermal ThermalProfile  `json:"thermal"`
	Crater  CraterProfile   `json:"crater"`
	Seismic SeismicProfile  `json:"seismic"`
	Blast   BlastProfile    `json:"blast"`
	Tsunami *TsunamiProfile `json:"tsunami"` // nil for land targets
}

// Names reported by DamageRadii.
const (
	RadiusFireball           = "fireball"
	RadiusClothingIgnition   = "clothing_ignition"
	RadiusSecondDegreeBurn   = "second_degree_burn"
	RadiusThirdDegreeBurn    = "third_degree_burn"
	RadiusIonization         = "ionization"
	RadiusBuildingCollapse   = "building_collapse"
	RadiusGlassShatter       = "glass_shatter"
	RadiusSeismic            = "seismic"
	RadiusCraterRim          = "crater_rim"
	RadiusTsunamiPropagation = "tsunami_propagation"
)

// DamageRadius is a named distance from ground zero, in metres.
type DamageRadius struct {
	Name   string  `json:"name"`
	Radius float64 `json:"radius_m"`
}

// DamageRadii lists every non-null damage radius, innermost effects first.
// A radius of zero is kept: it means the effect was computed and does not
// reach beyond ground zero.
func (a Assessment) DamageRadii() []DamageRadius {
	var rim *float64
	if a.Crater.FinalDiameter != nil {
		rim = finite(*a.Crater.FinalDiameter / 2)
	}
	var tsunami *float64
	if a.Tsunami != nil && a.Tsunami.Possible {
		tsunami = a.Tsunami.PropagationRadius
	}

	candidates := []struct {
		name   string
		radius *float64
	}{
		{RadiusFireball, a.Thermal.FireballRadius},
		{RadiusCraterRim, rim},
		{RadiusIonization, a.Blast.IonizationRadius},
		{RadiusBuildingCollapse, a.Blast.BuildingCollapseRadius},
		{RadiusThirdDegreeBurn, a.Thermal.ThirdDegreeBurnRadius},
		{RadiusSecondDegreeBurn, a.Thermal.SecondDegreeBurnRadius},
		{RadiusClothingIgnition, a.Thermal.ClothingIgnitionRadius},
		{RadiusGlassShatter, a.Blast.GlassShatterRadius},
		{RadiusSeismic, a.Seismic.Radius},
		{RadiusTsunamiPropagation, tsunami},
	}
	out := make([]DamageRadius, 0, len(candidates))
	for _, c := range candidates {
		if c.radius == nil {
			continue
		}
		out = append(out, DamageRadius{Name: c.name, Radius: *c.radius})
	}
	return out
}

// MaxDamageRadius is the largest entry of DamageRadii, or 0 when there is none.
func (a Assessment) MaxDamageRadius() float64 {
	var m float64
	for _, r := range a.DamageRadii() {
		m = math.Max(m, r.Radius)
	}
	return m
}

// finite returns a pointer to v, or nil when v is NaN or infinite.
func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
