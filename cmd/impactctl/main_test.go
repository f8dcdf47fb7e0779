package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/impact-effects-service/internal/impact"
)

var scenariosYAML = filepath.Join("..", "..", "data", "mock", "scenarios.yaml")

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestAssess_Flags(t *testing.T) {
	out, _, err := execute(t, "assess", "--diameter", "20", "--velocity", "19000", "-o", "json")
	require.NoError(t, err)

	var r result
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, impact.BurstHighAirburst, r.Assessment.Regimes.Burst)
	assert.Equal(t, 3000.0, r.Specification.Density)
	assert.Nil(t, r.Assessment.Crater.FinalDiameter)
	assert.NotEmpty(t, r.DamageRadii)
	assert.Empty(t, r.Zones)
}

func TestAssess_TextOutput(t *testing.T) {
	out, _, err := execute(t, "assess", "--diameter", "1000", "--velocity", "20000", "--water")
	require.NoError(t, err)

	assert.Contains(t, out, "Regime:     surface over water")
	assert.Contains(t, out, "Crater:")
	assert.Contains(t, out, "Tsunami:")
	assert.Contains(t, out, "fireball")
}

func TestAssess_FileWithZones(t *testing.T) {
	out, _, err := execute(t, "assess", "-f", scenariosYAML, "--name", "tunguska", "--zones", "-o", "json")
	require.NoError(t, err)

	var r result
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, "tunguska", r.Name)
	assert.Equal(t, impact.BurstLowAirburst, r.Assessment.Regimes.Burst)

	var fc struct {
		Type string `json:"type"`
	}
	require.NoError(t, json.Unmarshal(r.Zones, &fc))
	assert.Equal(t, "FeatureCollection", fc.Type)
}

func TestAssess_OverridesApplyToFile(t *testing.T) {
	out, _, err := execute(t, "assess", "-f", scenariosYAML, "--drag-coefficient", "1.5", "-o", "json")
	require.NoError(t, err)

	var r result
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, "chelyabinsk", r.Name)
	require.NotNil(t, r.Specification.DragCoefficient)
	assert.Equal(t, 1.5, *r.Specification.DragCoefficient)
}

func TestAssess_ValidationError(t *testing.T) {
	_, _, err := execute(t, "assess", "--diameter", "20", "--angle", "95")

	var verr *impact.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ElementsMatch(t, []string{"velocity", "angle"}, verr.Fields())
}

func TestAssess_UnknownScenario(t *testing.T) {
	_, _, err := execute(t, "assess", "-f", scenariosYAML, "--name", "nope")
	assert.ErrorContains(t, err, `scenario "nope" not found`)
}

func TestAssess_BadOutputFormat(t *testing.T) {
	_, _, err := execute(t, "assess", "--diameter", "20", "--velocity", "19000", "-o", "xml")
	assert.ErrorContains(t, err, "unknown output format")
}

func TestScenarios_Check(t *testing.T) {
	out, stderr, err := execute(t, "scenarios", "-f", scenariosYAML, "--check")
	require.NoError(t, err, stderr)

	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "chelyabinsk")
	assert.Contains(t, out, "chicxulub-shallow-shelf")
}

func TestScenarios_CSVAsJSON(t *testing.T) {
	out, _, err := execute(t, "scenarios", "-f", filepath.Join("..", "..", "data", "mock", "scenarios.csv"), "-o", "json")
	require.NoError(t, err)

	var results []result
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	assert.Len(t, results, 14)
}

func TestScenarios_RequiresFile(t *testing.T) {
	_, _, err := execute(t, "scenarios")
	assert.ErrorContains(t, err, `"file"`)
}

func TestOverpressure_Inverts(t *testing.T) {
	out, _, err := execute(t, "overpressure", "--megatons", "10", "--altitude", "5000", "--pressure", "6900", "-o", "json")
	require.NoError(t, err)

	var r overpressureResult
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Greater(t, r.Radius, 0.0)
	assert.InEpsilon(t, 6900, r.Achieved, 1e-4)
	assert.Equal(t, impact.BoundNone, r.Bound)
	assert.Equal(t, 10*impact.JoulesPerMegaton, r.Joules)
}

func TestOverpressure_RequiresEnergy(t *testing.T) {
	_, _, err := execute(t, "overpressure", "--pressure", "6900")
	assert.ErrorContains(t, err, "--megatons or --joules")
}

func TestOverpressure_MinRadiusOutOfRange(t *testing.T) {
	for _, v := range []string{"-1", "20037508.35", "3e7", "NaN"} {
		_, _, err := execute(t, "overpressure", "--megatons", "1", "--pressure", "6900", "--min-radius", v, "-o", "json")
		assert.ErrorContains(t, err, "--min-radius", v)
	}
}

func TestOverpressure_EnergyFlagsExclusive(t *testing.T) {
	_, _, err := execute(t, "overpressure", "--megatons", "1", "--joules", "1e15", "--pressure", "6900")
	assert.Error(t, err)
}
