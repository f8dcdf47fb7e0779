package impact

// Burst classifies where the impactor deposits its energy.
type Burst string

const (
	BurstSurface      Burst = "surface"
	BurstLowAirburst  Burst = "low_airburst"
	BurstHighAirburst Burst = "high_airburst"
)

// highAirburstAltitude separates the two airburst overpressure models, in m.
const highAirburstAltitude = 10_000.0

func burstFor(entry entryResult) Burst {
	switch {
	case !entry.airburst:
		return BurstSurface
	case entry.burstAltitude > highAirburstAltitude:
		return BurstHighAirburst
	default:
		return BurstLowAirburst
	}
}

// Target is the surface the impactor strikes.
type Target string

const (
	TargetLand  Target = "land"
	TargetWater Target = "water"
)

// CraterRegime selects the final-crater scaling law.
type CraterRegime string

const (
	CraterNone    CraterRegime = "none"
	CraterSimple  CraterRegime = "simple"
	CraterComplex CraterRegime = "complex"
)

// SeismicRegime records which distance correlation produced the seismic radius.
type SeismicRegime string

const (
	SeismicNone           SeismicRegime = "none"
	SeismicBelowThreshold SeismicRegime = "below_threshold"
	SeismicNear           SeismicRegime = "near"
	SeismicRegional       SeismicRegime = "regional"
	SeismicTeleseismic    SeismicRegime = "teleseismic"
	SeismicDegenerate     SeismicRegime = "degenerate"
)

// Regimes is the branch context resolved once per assessment and threaded
// through the later stages.
type Regimes struct {
	Burst   Burst         `json:"burst"`
	Target  Target        `json:"target"`
	Crater  CraterRegime  `json:"crater"`
	Seismic SeismicRegime `json:"seismic"`
}

// Airburst reports whether the impactor disintegrated above the surface.
func (r Regimes) Airburst() bool { return r.Burst != BurstSurface }
