package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exampleTrip = "../../examples/errands.yaml"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestOptimizeTable(t *testing.T) {
	out, err := run(t, "optimize", "-f", exampleTrip)
	require.NoError(t, err)

	assert.Contains(t, out, "RANK")
	assert.Contains(t, out, "Route with 1 stop(s): Bakery")
	assert.Contains(t, out, "4 of 4 combinations evaluated")
	assert.NotContains(t, out, "NOTE:")
}

func TestOptimizeJSONWithThresholdOverride(t *testing.T) {
	out, err := run(t, "optimize", "-f", exampleTrip, "--json", "--threshold", "0", "--workers", "2")
	require.NoError(t, err)

	var res struct {
		Mode     string            `json:"mode"`
		Notice   string            `json:"notice"`
		Rankings []json.RawMessage `json:"rankings"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "single_stop_marginal", res.Mode)
	assert.Contains(t, res.Notice, "single-stop marginal costs only")
	assert.Len(t, res.Rankings, 3)
}

func TestValidate(t *testing.T) {
	out, err := run(t, "validate", "-f", exampleTrip)
	require.NoError(t, err)
	assert.Contains(t, out, "locations=5 mandatory=1 optional=2")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "ok"))
}

func TestValidateReportsMissingLegs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trip.yaml")
	trip := `
origin: {id: a, lon: 0, lat: 0}
destination: {id: b, lon: 1, lat: 1}
costs:
  - {from: a, to: b, duration_seconds: 60, distance_meters: 500}
`
	require.NoError(t, os.WriteFile(path, []byte(trip), 0o600))

	out, err := run(t, "validate", "-f", path)
	require.Error(t, err)
	assert.Contains(t, out, "missing b -> a")
}

func TestOptimizeRequiresFile(t *testing.T) {
	_, err := run(t, "optimize")
	assert.Error(t, err)
}
