package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/impact-effects-service/internal/impact"
)

const (
	formatText = "text"
	formatJSON = "json"
)

func outputFormat(cmd *cobra.Command) (string, error) {
	f, err := cmd.Flags().GetString("output")
	if err != nil {
		return "", err
	}
	switch f {
	case formatText, formatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q: want text or json", f)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// num formats an optional value, printing "-" for nil.
func num(v *float64, scale float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.4g", *v/scale)
}

func printAssessment(w io.Writer, r result) error {
	a := r.Assessment
	if r.Name != "" {
		fmt.Fprintf(w, "Scenario:   %s\n", r.Name)
	}
	fmt.Fprintf(w, "Regime:     %s over %s (crater %s, seismic %s)\n",
		a.Regimes.Burst, a.Regimes.Target, a.Regimes.Crater, a.Regimes.Seismic)
	fmt.Fprintf(w, "Energy:     %s Mt (recurrence %s years)\n",
		num(a.Energy.Megatons, 1), num(a.Energy.RecurrencePeriod, 1))
	if a.Entry.Airburst {
		fmt.Fprintf(w, "Airburst:   %s km altitude\n", num(a.Entry.BurstAltitude, 1000))
	}
	if a.Crater.FinalDiameter != nil {
		fmt.Fprintf(w, "Crater:     %s km across, %s km deep\n",
			num(a.Crater.FinalDiameter, 1000), num(a.Crater.FinalDepth, 1000))
	}
	if a.Seismic.Magnitude != nil {
		fmt.Fprintf(w, "Seismic:    magnitude %s\n", num(a.Seismic.Magnitude, 1))
	}
	if a.Seismic.Description != nil {
		fmt.Fprintf(w, "            %s\n", *a.Seismic.Description)
	}
	if a.Tsunami != nil && a.Tsunami.Possible {
		fmt.Fprintf(w, "Tsunami:    %s m rim wave, reaches %s km\n",
			num(a.Tsunami.RimWaveHeight, 1), num(a.Tsunami.PropagationRadius, 1000))
	}

	fmt.Fprintln(w)
	tw := newTable(w)
	fmt.Fprintln(tw, "EFFECT\tRADIUS (km)")
	for _, d := range r.DamageRadii {
		fmt.Fprintf(tw, "%s\t%.4g\n", d.Name, d.Radius/1000)
	}
	return tw.Flush()
}

// result is what assess prints for one impactor.
type result struct {
	Name          string                `json:"name,omitempty"`
	Specification impact.Specification  `json:"specification"`
	Assessment    impact.Assessment     `json:"assessment"`
	DamageRadii   []impact.DamageRadius `json:"damage_radii"`
	Zones         json.RawMessage       `json:"zones,omitempty"`
}
