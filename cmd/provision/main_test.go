package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"worker-fleet/internal/domain"
	"worker-fleet/internal/provision"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func captureOutput(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	origOut, origErr := stdout, stderr
	var out, errOut bytes.Buffer
	stdout, stderr = &out, &errOut
	t.Cleanup(func() { stdout, stderr = origOut, origErr })
	return &out, &errOut
}

func TestRunWritesJSONPlanToStdout(t *testing.T) {
	out, errOut := captureOutput(t)

	require.NoError(t, run([]string{"--workers", "25", "--log-level", "error"}))

	var plan domain.Plan
	require.NoError(t, json.Unmarshal(out.Bytes(), &plan))
	assert.Equal(t, 25, plan.TotalWorkers)
	require.Len(t, plan.Workers, 25)
	for _, w := range plan.Workers {
		assert.Len(t, w.Tasks, 3)
	}
	total := 0
	for _, n := range plan.Allocation {
		total += n
	}
	assert.Equal(t, 25, total)

	assert.Contains(t, errOut.String(), "TOPIC")
	assert.Contains(t, errOut.String(), "workers: 25")
}

func TestRunWritesYAMLPlanToFile(t *testing.T) {
	out, _ := captureOutput(t)
	seeds := filepath.Join(t.TempDir(), "seeds.txt")
	require.NoError(t, os.WriteFile(seeds, []byte("one\ntwo\nthree\nfour\n"), 0o600))
	dest := filepath.Join(t.TempDir(), "plan.yaml")

	require.NoError(t, run([]string{
		"--seed-file", seeds,
		"--format", "yaml",
		"--out", dest,
		"--endpoint-base", "http://localhost:9000/",
		"--log-level", "error",
	}))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	var plan domain.Plan
	require.NoError(t, yaml.Unmarshal(data, &plan))
	assert.Equal(t, 4, plan.TotalWorkers)
	assert.Regexp(t, `^http://localhost:9000/inference/\d\?worker_id=1$`, plan.Workers[0].Tasks[0].InferenceEndpoint)

	assert.Contains(t, out.String(), "workers: 4")
}

func TestRunZeroWorkersWritesEmptyPlan(t *testing.T) {
	out, errOut := captureOutput(t)

	require.NoError(t, run([]string{"--workers", "0", "--log-level", "error"}))

	var plan domain.Plan
	require.NoError(t, json.Unmarshal(out.Bytes(), &plan))
	assert.Zero(t, plan.TotalWorkers)
	assert.Empty(t, plan.Workers)
	assert.Contains(t, errOut.String(), "workers: 0")
}

func TestRunRejectsInvalidOptions(t *testing.T) {
	captureOutput(t)
	assert.Error(t, run([]string{"--format", "xml", "-n", "2"}))
	assert.Error(t, run([]string{"--bogus"}))
}

func TestMainExitsOnError(t *testing.T) {
	_, errOut := captureOutput(t)
	origExit, origArgs := exitFunc, os.Args
	t.Cleanup(func() { exitFunc, os.Args = origExit, origArgs })

	code := -1
	exitFunc = func(c int) { code = c }
	os.Args = []string{"provision"}

	main()
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut.String(), "one of --workers or --seed-file is required")
}

func TestRenderSummary(t *testing.T) {
	rows := []provision.SummaryRow{
		{TopicID: 1, Symbol: "ETH", Timeframe: "10m", Target: 2, Actual: 3, Percent: 30},
		{TopicID: 3, Symbol: "BTC", Timeframe: "10m", Target: 1, Actual: 0, Percent: 0},
	}
	got := renderSummary(rows, 10)
	assert.Contains(t, got, "ETH")
	assert.Contains(t, got, "30.0%")
	assert.Contains(t, got, "workers: 10")
}

func TestEncodePlanUnsupportedFormat(t *testing.T) {
	_, err := encodePlan(&domain.Plan{}, "toml")
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}
