package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/impact-effects-service/internal/impact"
	"github.com/couchcryptid/impact-effects-service/internal/scenario"
)

var errExpectationFailed = errors.New("scenario expectations not met")

func newScenariosCmd() *cobra.Command {
	var (
		file  string
		check bool
	)

	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "Assess every scenario in a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			scenarios, err := scenario.Load(file)
			if err != nil {
				return err
			}

			results := make([]result, 0, len(scenarios))
			var mismatched []string
			for _, sc := range scenarios {
				a, err := impact.Assess(sc.Specification)
				if err != nil {
					return fmt.Errorf("scenario %s: %w", sc.Name, err)
				}
				if sc.ExpectedBurst != "" && sc.ExpectedBurst != a.Regimes.Burst {
					mismatched = append(mismatched,
						fmt.Sprintf("%s: burst %s, expected %s", sc.Name, a.Regimes.Burst, sc.ExpectedBurst))
				}
				results = append(results, result{
					Name:          sc.Name,
					Specification: sc.Specification,
					Assessment:    a,
					DamageRadii:   a.DamageRadii(),
				})
			}

			out := cmd.OutOrStdout()
			if format == formatJSON {
				err = writeJSON(out, results)
			} else {
				err = printSummary(cmd, results)
			}
			if err != nil {
				return err
			}

			if check && len(mismatched) > 0 {
				for _, m := range mismatched {
					fmt.Fprintln(cmd.ErrOrStderr(), m)
				}
				return errExpectationFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "scenario file (.yaml, .yml or .csv)")
	cmd.Flags().BoolVar(&check, "check", false, "fail when a scenario's burst regime differs from expected_burst")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func printSummary(cmd *cobra.Command, results []result) error {
	tw := newTable(cmd.OutOrStdout())
	fmt.Fprintln(tw, "NAME\tBURST\tTARGET\tMEGATONS\tCRATER (km)\tMAGNITUDE\tMAX RADIUS (km)")
	for _, r := range results {
		a := r.Assessment
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%.4g\n",
			r.Name,
			a.Regimes.Burst,
			a.Regimes.Target,
			num(a.Energy.Megatons, 1),
			num(a.Crater.FinalDiameter, 1000),
			num(a.Seismic.Magnitude, 1),
			a.MaxDamageRadius()/1000,
		)
	}
	return tw.Flush()
}
