package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/impact-effects-service/internal/impact"
	"github.com/couchcryptid/impact-effects-service/internal/scenario"
	"github.com/couchcryptid/impact-effects-service/internal/zones"
)

type assessOptions struct {
	file     string
	name     string
	spec     impact.Specification
	mass     float64
	cd       float64
	k        float64
	depth    float64
	zones    bool
	segments int
	crs      int
}

func newAssessCmd() *cobra.Command {
	var o assessOptions

	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Assess a single impactor given by flags or a scenario file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			r, err := o.run(cmd)
			if err != nil {
				return err
			}
			if format == formatJSON {
				return writeJSON(cmd.OutOrStdout(), r)
			}
			return printAssessment(cmd.OutOrStdout(), r)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.file, "file", "f", "", "scenario file (.yaml, .yml or .csv)")
	f.StringVar(&o.name, "name", "", "scenario to assess from --file (default: the first)")
	f.Float64Var(&o.spec.Diameter, "diameter", 0, "impactor diameter in m")
	f.Float64Var(&o.spec.Density, "density", 3000, "impactor density in kg/m³")
	f.Float64Var(&o.spec.Velocity, "velocity", 0, "entry velocity in m/s")
	f.Float64Var(&o.spec.Angle, "angle", 45, "entry angle from horizontal in degrees")
	f.BoolVar(&o.spec.Water, "water", false, "target is ocean")
	f.Float64Var(&o.spec.Latitude, "lat", 0, "impact latitude")
	f.Float64Var(&o.spec.Longitude, "lon", 0, "impact longitude")
	f.Float64Var(&o.mass, "mass", 0, "impactor mass in kg (default: sphere of diameter and density)")
	f.Float64Var(&o.cd, "drag-coefficient", 0, "override the drag coefficient")
	f.Float64Var(&o.k, "luminous-efficiency", 0, "override the luminous efficiency")
	f.Float64Var(&o.depth, "water-depth", 0, "override the water depth in m")
	f.BoolVar(&o.zones, "zones", false, "include damage-zone GeoJSON")
	f.IntVar(&o.segments, "segments", zones.DefaultSegments, "vertices per damage-zone ring")
	f.IntVar(&o.crs, "crs", zones.CRSGeographic, "damage-zone CRS: 4326 or 3857")

	return cmd
}

func (o *assessOptions) run(cmd *cobra.Command) (result, error) {
	spec, name, err := o.specification(cmd)
	if err != nil {
		return result{}, err
	}

	a, err := impact.Assess(spec)
	if err != nil {
		return result{}, err
	}
	r := result{Name: name, Specification: spec, Assessment: a, DamageRadii: a.DamageRadii()}

	if o.zones {
		b, err := zones.NewBuilder(o.segments, o.crs)
		if err != nil {
			return result{}, err
		}
		r.Zones, err = b.Marshal(spec.Latitude, spec.Longitude, r.DamageRadii)
		if err != nil {
			return result{}, err
		}
	}
	return r, nil
}

// specification resolves the impactor from --file or the individual flags.
// Tunable overrides apply in both cases.
func (o *assessOptions) specification(cmd *cobra.Command) (impact.Specification, string, error) {
	spec, name := o.spec, ""
	if o.file != "" {
		sc, err := pick(o.file, o.name)
		if err != nil {
			return impact.Specification{}, "", err
		}
		spec, name = sc.Specification, sc.Name
	}

	flags := cmd.Flags()
	if flags.Changed("mass") {
		spec.Mass = impact.Float(o.mass)
	}
	if flags.Changed("drag-coefficient") {
		spec.DragCoefficient = impact.Float(o.cd)
	}
	if flags.Changed("luminous-efficiency") {
		spec.LuminousEfficiency = impact.Float(o.k)
	}
	if flags.Changed("water-depth") {
		spec.WaterDepth = impact.Float(o.depth)
	}
	return spec, name, nil
}

func pick(path, name string) (scenario.Scenario, error) {
	scenarios, err := scenario.Load(path)
	if err != nil {
		return scenario.Scenario{}, err
	}
	if name == "" {
		return scenarios[0], nil
	}
	for _, sc := range scenarios {
		if sc.Name == name {
			return sc, nil
		}
	}
	return scenario.Scenario{}, fmt.Errorf("scenario %q not found in %s", name, path)
}
