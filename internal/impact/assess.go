package impact

// Assess validates s and runs every model stage with DefaultParams.
func Assess(s Specification) (Assessment, error) {
	return DefaultParams().Assess(s)
}

// Assess validates s and runs every model stage with p. It returns a
// *ValidationError for rejected input and never fails otherwise.
func (p Params) Assess(s Specification) (Assessment, error) {
	if err := s.Validate(); err != nil {
		return Assessment{}, err
	}
	return p.assess(resolve(p, s)), nil
}

func (p Params) assess(in inputs) Assessment {
	energy := computeEnergy(in)
	entry := computeEntry(in, p)
	thermal := computeThermal(in, p, energy)
	crater := computeCrater(in, p, entry)
	seismic := computeSeismic(p, energy, entry)
	blast := computeBlast(p, energy, entry, thermal)
	tsunami := computeTsunami(in, p, entry, crater)

	target := TargetLand
	if in.water {
		target = TargetWater
	}
	return Assessment{
		Regimes: Regimes{
			Burst:   burstFor(entry),
			Target:  target,
			Crater:  crater.regime,
			Seismic: seismic.regime,
		},
		Energy:  energy.profile(),
		Entry:   entry.profile(),
		Thermal: thermal.profile(),
		Crater:  crater.profile(),
		Seismic: seismic.profile(),
		Blast:   blast.profile(),
		Tsunami: tsunami.profile(),
	}
}
