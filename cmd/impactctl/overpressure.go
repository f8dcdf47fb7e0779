package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/impact-effects-service/internal/impact"
)

type overpressureResult struct {
	Joules        float64      `json:"energy_j"`
	BurstAltitude float64      `json:"burst_altitude_m"`
	Target        float64      `json:"target_overpressure_pa"`
	Radius        float64      `json:"radius_m"`
	Achieved      float64      `json:"overpressure_at_radius_pa"`
	WindSpeed     float64      `json:"wind_speed_m_s"`
	Iterations    int          `json:"iterations"`
	Bound         impact.Bound `json:"bound,omitempty"`
}

func newOverpressureCmd() *cobra.Command {
	var megatons, joules, altitude, pressure, minRadius float64

	cmd := &cobra.Command{
		Use:   "overpressure",
		Short: "Find the ground range where peak overpressure falls to a target",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}

			switch {
			case cmd.Flags().Changed("joules"):
			case cmd.Flags().Changed("megatons"):
				joules = megatons * impact.JoulesPerMegaton
			default:
				return errors.New("one of --megatons or --joules is required")
			}
			if !(joules > 0) || !(pressure > 0) {
				return errors.New("energy and pressure must be positive")
			}
			if !(minRadius >= 0 && minRadius < impact.HalfEarthArc) {
				return fmt.Errorf("--min-radius must be in [0, %.0f) m", impact.HalfEarthArc)
			}

			opts := impact.DefaultParams().Solver
			sol := impact.OverpressureRadius(pressure, altitude, joules, minRadius, opts)
			achieved := impact.PeakOverpressure(sol.Radius, altitude, joules)
			r := overpressureResult{
				Joules:        joules,
				BurstAltitude: altitude,
				Target:        pressure,
				Radius:        sol.Radius,
				Achieved:      achieved,
				WindSpeed:     impact.WindSpeed(achieved),
				Iterations:    sol.Iterations,
				Bound:         sol.Bound,
			}

			out := cmd.OutOrStdout()
			if format == formatJSON {
				return writeJSON(out, r)
			}
			fmt.Fprintf(out, "Radius:       %.6g km\n", r.Radius/1000)
			fmt.Fprintf(out, "Overpressure: %.6g Pa (target %.6g Pa)\n", r.Achieved, r.Target)
			fmt.Fprintf(out, "Wind speed:   %.4g m/s\n", r.WindSpeed)
			fmt.Fprintf(out, "Iterations:   %d\n", r.Iterations)
			if r.Bound != impact.BoundNone {
				fmt.Fprintf(out, "Clamped to the %s end of the search range\n", r.Bound)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.Float64Var(&megatons, "megatons", 0, "explosion energy in Mt TNT")
	f.Float64Var(&joules, "joules", 0, "explosion energy in J")
	f.Float64Var(&altitude, "altitude", 0, "burst altitude in m (0 for a surface burst)")
	f.Float64Var(&pressure, "pressure", 0, "target overpressure in Pa")
	f.Float64Var(&minRadius, "min-radius", 0, "lower end of the search range in m")
	_ = cmd.MarkFlagRequired("pressure")
	cmd.MarkFlagsMutuallyExclusive("megatons", "joules")

	return cmd
}
