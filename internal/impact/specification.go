package impact

// Specification describes an impactor at atmospheric entry and where it lands.
//
// Mass is optional: when nil it is derived from Diameter and Density assuming a
// sphere. The optional tunables fall back to DefaultParams when nil.
type Specification struct {
	Mass     *float64 `json:"mass,omitempty" yaml:"mass,omitempty" validate:"omitempty,finite,gt=0"`
	Diameter float64  `json:"diameter" yaml:"diameter" validate:"finite,gt=0"`
	Density  float64  `json:"density" yaml:"density" validate:"finite,gt=0"`
	Velocity float64  `json:"velocity" yaml:"velocity" validate:"finite,gt=0"`
	// Angle is measured from the horizontal, in degrees.
	Angle     float64 `json:"angle" yaml:"angle" validate:"finite,gt=0,lte=90"`
	Water     bool    `json:"water" yaml:"water"`
	Latitude  float64 `json:"latitude" yaml:"latitude" validate:"finite,gte=-90,lte=90"`
	Longitude float64 `json:"longitude" yaml:"longitude" validate:"finite,gte=-180,lte=180"`

	LuminousEfficiency *float64 `json:"luminous_efficiency,omitempty" yaml:"luminous_efficiency,omitempty" validate:"omitempty,finite,gt=0,lte=1"`
	DragCoefficient    *float64 `json:"drag_coefficient,omitempty" yaml:"drag_coefficient,omitempty" validate:"omitempty,finite,gt=0"`
	SurfaceAirDensity  *float64 `json:"surface_air_density,omitempty" yaml:"surface_air_density,omitempty" validate:"omitempty,finite,gt=0"`
	ScaleHeight        *float64 `json:"scale_height,omitempty" yaml:"scale_height,omitempty" validate:"omitempty,finite,gt=0"`
	WaterDepth         *float64 `json:"water_depth,omitempty" yaml:"water_depth,omitempty" validate:"omitempty,finite,gt=0"`
}

// Float returns a pointer to v, for filling optional Specification fields.
func Float(v float64) *float64 { return &v }
