package impact

import "math"

// EnergyProfile is the impactor's kinetic energy and how often such an impact recurs.
type EnergyProfile struct {
	KineticEnergy    *float64 `json:"kinetic_energy_j"`
	Megatons         *float64 `json:"energy_megatons"`
	RecurrencePeriod *float64 `json:"recurrence_period_years"`
}

// KineticEnergy returns ½mv² in joules.
func KineticEnergy(mass, velocity float64) float64 {
	return 0.5 * mass * velocity * velocity
}

// Megatons converts joules to megatons of TNT.
func Megatons(joules float64) float64 {
	return joules / JoulesPerMegaton
}

// RecurrencePeriod is the mean interval in years between impacts of at least
// the given yield. The floor keeps the power law defined for vanishing yields.
func RecurrencePeriod(megatons float64) float64 {
	return 109 * math.Pow(math.Max(megatons, 1e-12), 0.78)
}

type energyResult struct {
	joules   float64
	megatons float64
	period   float64
}

func computeEnergy(in inputs) energyResult {
	e := KineticEnergy(in.mass, in.velocity)
	mt := Megatons(e)
	return energyResult{joules: e, megatons: mt, period: RecurrencePeriod(mt)}
}

func (r energyResult) profile() EnergyProfile {
	return EnergyProfile{
		KineticEnergy:    finite(r.joules),
		Megatons:         finite(r.megatons),
		RecurrencePeriod: finite(r.period),
	}
}
