package main

import (
	"encoding/json"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/couchcryptid/impact-effects-service/internal/domain"
	"github.com/couchcryptid/impact-effects-service/internal/impact"
	"github.com/couchcryptid/impact-effects-service/internal/scenario"
)

// ── Phase 1: Request parity ──

func validateRequests(scenarios []scenario.Scenario, requests []domain.AssessmentRequest) *phase {
	p := &phase{name: "Phase 1: Requests (JSON vs scenarios)"}

	if len(requests) != len(scenarios) {
		p.errorf("count: %d scenarios, %d requests", len(scenarios), len(requests))
	}

	seen := map[string]bool{}
	for i := range requests {
		id := requests[i].ID
		if id == "" {
			p.errorf("request %d: missing id", i)
		} else if seen[id] {
			p.errorf("request %d: duplicate id %q", i, id)
		}
		seen[id] = true

		if requests[i].RequestedAt.IsZero() {
			p.errorf("request %s: requested_at is zero", id)
		}
		if i < len(scenarios) {
			if diff := cmp.Diff(scenarios[i].Specification, requests[i].Specification); diff != "" {
				p.errorf("request %s: specification differs from %s (-scenario +request):\n%s", id, scenarios[i].Name, diff)
			}
		}
	}
	return p
}

// ── Phase 2: Re-computation ──

var eventOpts = []cmp.Option{
	cmpopts.IgnoreFields(domain.AssessmentEvent{}, "Zones", "RawPayload"),
	cmpopts.EquateEmpty(),
}

func validateRecomputation(requests []domain.AssessmentRequest, events []domain.AssessmentEvent) *phase {
	p := &phase{name: "Phase 2: Re-computation (determinism)"}

	byID := make(map[string]*domain.AssessmentEvent, len(events))
	for i := range events {
		byID[events[i].ID] = &events[i]
	}

	for _, req := range requests {
		want, err := recompute(req)
		if err != nil {
			p.errorf("request %s: %v", req.ID, err)
			continue
		}
		got, ok := byID[req.ID]
		if !ok {
			p.errorf("request %s: no assessment in fixture", req.ID)
			continue
		}
		if diff := cmp.Diff(want, *got, eventOpts...); diff != "" {
			p.errorf("request %s: assessment drifted (-recomputed +fixture):\n%s", req.ID, diff)
		}
	}
	return p
}

// ── Phase 3: Invariants ──

func validateInvariants(events []domain.AssessmentEvent) *phase {
	p := &phase{name: "Phase 3: Invariants (physical bounds)"}
	for i := range events {
		checkEvent(p, &events[i])
	}
	return p
}

func checkEvent(p *phase, e *domain.AssessmentEvent) {
	pf := func(format string, args ...any) {
		p.errorf("assessment %s: "+format, append([]any{e.ID}, args...)...)
	}

	if e.Key != domain.SpecificationKey(e.Specification) {
		pf("key %q does not match specification", e.Key)
	}
	a := e.Assessment
	checkAirburstExclusion(pf, a)
	checkCaps(pf, a)

	water := e.Specification.Water
	if water != (a.Regimes.Target == impact.TargetWater) {
		pf("target %s for water=%t", a.Regimes.Target, water)
	}
	if water != (a.Tsunami != nil) {
		pf("tsunami profile presence does not match water=%t", water)
	}
	checkZones(pf, e)
}

func checkAirburstExclusion(pf func(string, ...any), a impact.Assessment) {
	if a.Regimes.Airburst() != a.Entry.Airburst {
		pf("burst regime %s disagrees with entry airburst=%t", a.Regimes.Burst, a.Entry.Airburst)
	}
	if !a.Regimes.Airburst() {
		if a.Crater.FinalDiameter == nil {
			pf("surface impact without a final crater")
		}
		return
	}
	c := a.Crater
	for name, v := range map[string]*float64{
		"transient_diameter": c.TransientDiameter,
		"transient_depth":    c.TransientDepth,
		"final_diameter":     c.FinalDiameter,
		"final_depth":        c.FinalDepth,
		"volume":             c.Volume,
		"volume_ratio":       c.VolumeRatio,
		"seismic magnitude":  a.Seismic.Magnitude,
		"seismic radius":     a.Seismic.Radius,
	} {
		if v != nil {
			pf("airburst with non-null %s", name)
		}
	}
}

func checkCaps(pf func(string, ...any), a impact.Assessment) {
	limit := func(name string, v *float64, max float64) {
		if v != nil && *v > max {
			pf("%s %g exceeds %g", name, *v, max)
		}
	}
	limit("fireball radius", a.Thermal.FireballRadius, impact.EarthRadius)
	limit("clothing ignition radius", a.Thermal.ClothingIgnitionRadius, impact.BurnHorizon)
	limit("second degree burn radius", a.Thermal.SecondDegreeBurnRadius, impact.BurnHorizon)
	limit("third degree burn radius", a.Thermal.ThirdDegreeBurnRadius, impact.BurnHorizon)
	limit("final crater diameter", a.Crater.FinalDiameter, impact.EarthDiameter)
	limit("crater volume", a.Crater.Volume, impact.EarthVolume)
	limit("volume ratio", a.Crater.VolumeRatio, 1)
	if a.Tsunami != nil {
		limit("rim wave height", a.Tsunami.RimWaveHeight, impact.MeanOceanDepth)
	}
}

func checkZones(pf func(string, ...any), e *domain.AssessmentEvent) {
	if len(e.Zones) == 0 {
		return
	}
	var fc struct {
		Type     string            `json:"type"`
		Features []json.RawMessage `json:"features"`
	}
	if err := json.Unmarshal(e.Zones, &fc); err != nil {
		pf("zones: %v", err)
		return
	}
	if fc.Type != "FeatureCollection" {
		pf("zones type %q", fc.Type)
	}
	rings := 0
	for _, r := range e.DamageRadii {
		if r.Radius > 0 {
			rings++
		}
	}
	if len(fc.Features) != rings+1 {
		pf("zones has %d features, want %d rings plus ground zero", len(fc.Features), rings)
	}
}

// ── Phase 4: Scenario expectations ──

func validateExpectations(scenarios []scenario.Scenario, events []domain.AssessmentEvent) *phase {
	p := &phase{name: "Phase 4: Expectations (burst regime)"}
	for i := range scenarios {
		if i >= len(events) {
			p.errorf("%s: no assessment", scenarios[i].Name)
			continue
		}
		want := scenarios[i].ExpectedBurst
		if want == "" {
			continue
		}
		if got := events[i].Assessment.Regimes.Burst; got != want {
			p.errorf("%s: burst %s, expected %s", scenarios[i].Name, got, want)
		}
	}
	return p
}
