package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/edoalrw/internal/canonical"
)

// Snapshot returns the golden representation of a result: session ID, temp
// variable count, diagnostic codes and subjects, and the rewritten query.
// Diagnostic messages are left out so wording changes do not churn golden
// files.
func Snapshot(scenarioName string, result *Result) ([]byte, error) {
	ds := make([]any, len(result.Diagnostics))
	for i, d := range result.Diagnostics {
		ds[i] = map[string]any{"code": string(d.Code), "subject": d.Subject}
	}
	var output any
	if result.Query != nil {
		output = result.Query.Value()
	}
	return canonical.MarshalIndent(map[string]any{
		"scenario":    scenarioName,
		"session_id":  result.SessionID,
		"temp_vars":   result.TempVars,
		"diagnostics": ds,
		"output":      output,
	})
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	return result, AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := Snapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
