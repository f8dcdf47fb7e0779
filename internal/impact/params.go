package impact

import "math"

// Physical constants shared by every stage of the model.
const (
	// JoulesPerMegaton is the TNT equivalent used for yield conversions.
	JoulesPerMegaton = 4.184e15
	// JoulesPerKiloton is the TNT equivalent used for blast scaling.
	JoulesPerKiloton = 4.184e12

	EarthRadius   = 6.371e6           // m
	EarthDiameter = 2 * EarthRadius   // m
	EarthVolume   = 1.08321e12        // km³
	HalfEarthArc  = 20_037_508.342789 // m, half the equatorial circumference

	// MeanOceanDepth bounds the tsunami rim wave and is the default water depth.
	MeanOceanDepth = 3682.0 // m

	// BurnHorizon is the line-of-sight limit for thermal radiation.
	BurnHorizon = 1_500_000.0 // m

	gravity          = 9.8      // m/s²
	seaLevelPressure = 101325.0 // Pa
	soundSpeed       = 330.0    // m/s, ambient speed of sound for wind estimates
	kmPerDegree      = 111.2
)

// Params holds the model constants and the defaults for optional tunables.
// A Params value is never mutated after construction, so one value can be
// shared across goroutines.
type Params struct {
	LuminousEfficiency float64 // K, fraction of energy radiated thermally
	DragCoefficient    float64 // Cd
	SurfaceAirDensity  float64 // ρ0, kg/m³
	ScaleHeight        float64 // H, m
	WaterDepth         float64 // m, used for ocean impacts
	DispersionFactor   float64 // pancake-model spread ratio at airburst

	LandDensity          float64 // kg/m³
	SeaFloorDensity      float64 // kg/m³, crust under the water column
	WaterDensity         float64 // kg/m³
	WaterDragCoefficient float64

	// Thermal fluence thresholds at 1 Mt, J/m².
	ClothingIgnitionFluence float64
	SecondDegreeFluence     float64
	ThirdDegreeFluence      float64

	// Overpressure thresholds, Pa.
	BuildingCollapsePressure float64
	GlassShatterPressure     float64
	IonizationPressure       float64

	ReferenceDistance     float64 // m, distance for the reported overpressure/wind
	IonizationMinRadius   float64 // m, lower bracket of the ionization search
	SimpleComplexDiameter float64 // m, transient diameter where complex craters begin
	SeismicThreshold      float64 // effective magnitude reported by the seismic radius
	MinTsunamiAmplitude   float64 // m, amplitude bounding the tsunami propagation radius

	Solver SolverOptions
}

// DefaultParams returns the published Earth Impact Effects constants.
func DefaultParams() Params {
	return Params{
		LuminousEfficiency: 3e-3,
		DragCoefficient:    2,
		SurfaceAirDensity:  1,
		ScaleHeight:        8000,
		WaterDepth:         MeanOceanDepth,
		DispersionFactor:   7,

		LandDensity:          2500,
		SeaFloorDensity:      2700,
		WaterDensity:         1000,
		WaterDragCoefficient: 0.877,

		ClothingIgnitionFluence: 1.0e6,
		SecondDegreeFluence:     0.25e6,
		ThirdDegreeFluence:      0.42e6,

		BuildingCollapsePressure: 273_000,
		GlassShatterPressure:     6_900,
		IonizationPressure:       75.75e6,

		ReferenceDistance:     50_000,
		IonizationMinRadius:   50_000,
		SimpleComplexDiameter: 3200,
		SeismicThreshold:      7.5,
		MinTsunamiAmplitude:   1,

		Solver: SolverOptions{MaxIterations: 200, RelativeTolerance: 1e-6},
	}
}

// inputs is a Specification resolved against Params: optional tunables filled
// in and mass derived. Every stage reads from it.
type inputs struct {
	mass     float64
	diameter float64
	density  float64
	velocity float64
	angle    float64 // radians
	sinAngle float64
	water    bool

	k          float64
	cd         float64
	rho0       float64
	h          float64
	waterDepth float64
}

func resolve(p Params, s Specification) inputs {
	in := inputs{
		diameter:   s.Diameter,
		density:    s.Density,
		velocity:   s.Velocity,
		angle:      s.Angle * math.Pi / 180,
		water:      s.Water,
		k:          orDefault(s.LuminousEfficiency, p.LuminousEfficiency),
		cd:         orDefault(s.DragCoefficient, p.DragCoefficient),
		rho0:       orDefault(s.SurfaceAirDensity, p.SurfaceAirDensity),
		h:          orDefault(s.ScaleHeight, p.ScaleHeight),
		waterDepth: orDefault(s.WaterDepth, p.WaterDepth),
	}
	in.sinAngle = math.Sin(in.angle)
	in.mass = orDefault(s.Mass, SphereMass(s.Diameter, s.Density))
	return in
}

// SphereMass is the mass of a spherical body of the given diameter and density.
func SphereMass(diameter, density float64) float64 {
	return density * math.Pi / 6 * diameter * diameter * diameter
}

func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
