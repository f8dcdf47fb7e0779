// Command genmock turns the scenario CSV into request and assessment JSON
// fixtures. It runs the real domain package under a fixed clock so the
// assessments match what the pipeline would publish.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -scenarios data/mock/scenarios.csv \
//	  -requests-out data/mock/impact_requests.json \
//	  -assessments-out data/mock/impact_assessments.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/impact-effects-service/internal/domain"
	"github.com/couchcryptid/impact-effects-service/internal/impact"
	"github.com/couchcryptid/impact-effects-service/internal/scenario"
	"github.com/couchcryptid/impact-effects-service/internal/zones"
)

var (
	requestedAt = time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	computedAt  = time.Date(2026, time.March, 1, 6, 0, 0, 0, time.UTC)
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	scenariosPath := flag.String("scenarios", "data/mock/scenarios.csv", "scenario CSV or YAML file")
	requestsOut := flag.String("requests-out", "", "output path for the request fixture")
	assessmentsOut := flag.String("assessments-out", "", "output path for the assessment fixture")
	withZones := flag.Bool("zones", false, "attach damage-zone GeoJSON to each assessment")
	flag.Parse()

	if *requestsOut == "" || *assessmentsOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -requests-out, -assessments-out")
	}

	scenarios, err := scenario.Load(*scenariosPath)
	if err != nil {
		return err
	}

	// Fixed clock for reproducible computed_at timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(computedAt))
	defer domain.SetClock(nil)

	var builder *zones.Builder
	if *withZones {
		builder, err = zones.NewBuilder(zones.DefaultSegments, zones.CRSGeographic)
		if err != nil {
			return err
		}
	}

	requests := make([]domain.AssessmentRequest, 0, len(scenarios))
	events := make([]domain.AssessmentEvent, 0, len(scenarios))
	for i, sc := range scenarios {
		req := sc.Request(fmt.Sprintf("mock-%02d", i+1), requestedAt)
		event, err := assess(req, builder)
		if err != nil {
			return fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
		if sc.ExpectedBurst != "" && sc.ExpectedBurst != event.Assessment.Regimes.Burst {
			log.Printf("warning: %s expected %s, got %s", sc.Name, sc.ExpectedBurst, event.Assessment.Regimes.Burst)
		}
		requests = append(requests, req)
		events = append(events, event)
	}
	log.Printf("total: %d scenarios", len(scenarios))

	if err := writeJSON(*requestsOut, requests); err != nil {
		return fmt.Errorf("writing request fixture: %w", err)
	}
	log.Printf("wrote request fixture: %s", *requestsOut)

	if err := writeJSON(*assessmentsOut, events); err != nil {
		return fmt.Errorf("writing assessment fixture: %w", err)
	}
	log.Printf("wrote assessment fixture: %s", *assessmentsOut)

	printStats(scenarios, events)
	return nil
}

// assess runs a request through the same steps as the pipeline transformer,
// without a surface classifier.
func assess(req domain.AssessmentRequest, builder *zones.Builder) (domain.AssessmentEvent, error) {
	surface := domain.ResolveSurface(context.Background(), req, nil, slog.Default())
	event, err := domain.Evaluate(impact.DefaultParams(), req, surface)
	if err != nil {
		return domain.AssessmentEvent{}, err
	}
	if builder != nil {
		spec := event.Specification
		event.Zones, err = builder.Marshal(spec.Latitude, spec.Longitude, event.DamageRadii)
		if err != nil {
			return domain.AssessmentEvent{}, err
		}
	}
	return event, nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

type tally map[string]int

func (t tally) String() string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var out string
	for _, k := range keys {
		out += fmt.Sprintf("%s=%d ", k, t[k])
	}
	return out
}

func printStats(scenarios []scenario.Scenario, events []domain.AssessmentEvent) {
	burst, target, crater, seismic := tally{}, tally{}, tally{}, tally{}
	for i := range events {
		r := events[i].Assessment.Regimes
		burst[string(r.Burst)]++
		target[string(r.Target)]++
		crater[string(r.Crater)]++
		seismic[string(r.Seismic)]++
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total: %d\n", len(events))
	fmt.Printf("By burst:   %s\n", burst)
	fmt.Printf("By target:  %s\n", target)
	fmt.Printf("By crater:  %s\n", crater)
	fmt.Printf("By seismic: %s\n", seismic)

	fmt.Println("\nPer scenario:")
	for i := range events {
		a := events[i].Assessment
		fmt.Printf("  %-20s %-14s %10.4g Mt  max radius %9.1f km  key %s\n",
			scenarios[i].Name, a.Regimes.Burst, deref(a.Energy.Megatons), a.MaxDamageRadius()/1000, events[i].Key)
	}
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
