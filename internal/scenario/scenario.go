// Package scenario loads named impact scenarios from CSV or YAML files. The
// CLI, the fixture tools and the mock-data tests share these loaders.
package scenario

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/impact-effects-service/internal/domain"
	"github.com/couchcryptid/impact-effects-service/internal/impact"
)

// Scenario is a named impactor specification, optionally tagged with the
// burst regime it is expected to produce.
type Scenario struct {
	impact.Specification `yaml:",inline"`

	Name          string       `json:"name" yaml:"name"`
	ExpectedBurst impact.Burst `json:"expected_burst,omitempty" yaml:"expected_burst,omitempty"`
}

// Request wraps the scenario in an assessment request envelope.
func (s Scenario) Request(id string, at time.Time) domain.AssessmentRequest {
	return domain.AssessmentRequest{
		ID:            id,
		RequestedAt:   at,
		Specification: s.Specification,
	}
}

// File is the YAML document layout.
type File struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

var errNoScenarios = errors.New("no scenarios")

// Load reads scenarios from path, choosing the format from the extension.
func Load(path string) ([]Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scenarios: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSV(f)
	case ".yaml", ".yml":
		return ReadYAML(f)
	default:
		return nil, fmt.Errorf("unsupported scenario file %q: want .csv, .yaml or .yml", path)
	}
}

// ReadYAML decodes a scenarios document. Unknown keys are rejected.
func ReadYAML(r io.Reader) ([]Scenario, error) {
	var doc File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode scenarios: %w", err)
	}
	if len(doc.Scenarios) == 0 {
		return nil, errNoScenarios
	}
	for i := range doc.Scenarios {
		if doc.Scenarios[i].Name == "" {
			doc.Scenarios[i].Name = fmt.Sprintf("scenario-%d", i+1)
		}
	}
	return doc.Scenarios, nil
}

var requiredColumns = []string{"name", "diameter_m", "density_kg_m3", "velocity_m_s", "angle_deg"}

// ReadCSV decodes a header-indexed CSV file with one scenario per row.
// Optional columns are mass_kg, water, latitude, longitude and
// expected_burst.
func ReadCSV(r io.Reader) ([]Scenario, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) < 2 {
		return nil, errNoScenarios
	}

	col := map[string]int{}
	for i, h := range rows[0] {
		col[strings.TrimSpace(h)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	out := make([]Scenario, 0, len(rows)-1)
	for n, row := range rows[1:] {
		s, err := parseRow(row, col)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n+2, err)
		}
		out = append(out, s)
	}
	return out, nil
}

func parseRow(row []string, col map[string]int) (Scenario, error) {
	get := func(name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	s := Scenario{
		Name:          get("name"),
		ExpectedBurst: impact.Burst(get("expected_burst")),
	}
	numbers := []struct {
		column string
		dst    *float64
	}{
		{"diameter_m", &s.Diameter},
		{"density_kg_m3", &s.Density},
		{"velocity_m_s", &s.Velocity},
		{"angle_deg", &s.Angle},
		{"latitude", &s.Latitude},
		{"longitude", &s.Longitude},
	}
	for _, f := range numbers {
		v := get(f.column)
		if v == "" {
			continue
		}
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Scenario{}, fmt.Errorf("%s: %w", f.column, err)
		}
		*f.dst = parsed
	}

	if v := get("mass_kg"); v != "" {
		m, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Scenario{}, fmt.Errorf("mass_kg: %w", err)
		}
		s.Mass = &m
	}
	if v := get("water"); v != "" {
		w, err := strconv.ParseBool(v)
		if err != nil {
			return Scenario{}, fmt.Errorf("water: %w", err)
		}
		s.Water = w
	}
	return s, nil
}
