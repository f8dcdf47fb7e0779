// Command validate checks the request and assessment fixtures against the
// scenario file, re-computes every assessment, and verifies the physical
// invariants each published assessment must hold.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -scenarios data/mock/scenarios.csv \
//	  -requests data/mock/impact_requests.json \
//	  -assessments data/mock/impact_assessments.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/impact-effects-service/internal/domain"
	"github.com/couchcryptid/impact-effects-service/internal/impact"
	"github.com/couchcryptid/impact-effects-service/internal/scenario"
)

// Matches genmock so computed_at re-computes identically.
var computedAt = time.Date(2026, time.March, 1, 6, 0, 0, 0, time.UTC)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	scenariosPath := flag.String("scenarios", "data/mock/scenarios.csv", "scenario CSV or YAML file")
	requestsPath := flag.String("requests", "", "path to the request fixture")
	assessmentsPath := flag.String("assessments", "", "path to the assessment fixture")
	flag.Parse()

	if *requestsPath == "" || *assessmentsPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(*scenariosPath, *requestsPath, *assessmentsPath))
}

func run(scenariosPath, requestsPath, assessmentsPath string) int {
	domain.SetClock(clockwork.NewFakeClockAt(computedAt))
	defer domain.SetClock(nil)

	fmt.Println("=== Impact Fixture Validation ===")
	fmt.Println()

	scenarios, err := scenario.Load(scenariosPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load scenarios: %v\n", err)
		return 1
	}
	requests, err := loadJSON[domain.AssessmentRequest](requestsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load requests: %v\n", err)
		return 1
	}
	events, err := loadJSON[domain.AssessmentEvent](assessmentsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load assessments: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateRequests(scenarios, requests),
		validateRecomputation(requests, events),
		validateInvariants(events),
		validateExpectations(scenarios, events),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d scenarios, %d requests, %d assessments\n", len(scenarios), len(requests), len(events))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func loadJSON[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// recompute re-runs the pipeline's domain steps without a classifier.
func recompute(req domain.AssessmentRequest) (domain.AssessmentEvent, error) {
	surface := domain.ResolveSurface(context.Background(), req, nil, slog.Default())
	return domain.Evaluate(impact.DefaultParams(), req, surface)
}
