package harness

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSuite_TestdataScenarios(t *testing.T) {
	paths, err := FindScenarios(filepath.Join("testdata", "scenarios"))
	require.NoError(t, err)
	require.Len(t, paths, 5)
	assert.Equal(t, "assignments.yaml", filepath.Base(paths[0]))

	res := RunSuite(paths)
	assert.Equal(t, 5, res.Total)
	assert.Equal(t, 5, res.Passed)
	assert.Zero(t, res.Failed)
	assert.Empty(t, res.Failures())
	require.Len(t, res.Scenarios, 5)
	assert.Equal(t, "assignments", res.Scenarios[0].Name)
	assert.Equal(t, paths[0], res.Scenarios[0].Path)
}

// writeSuite writes a broken, a failing and a passing scenario into a temp
// directory and returns it.
func writeSuite(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	align, err := filepath.Abs(filepath.Join("testdata", "alignments", "conference.edoal"))
	require.NoError(t, err)
	query, err := filepath.Abs(filepath.Join("testdata", "queries", "unmapped.json"))
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a_broken.yaml"), []byte("name: [\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b_failing.yml"), []byte(
		"name: failing\nalignment: "+align+"\nquery: "+query+"\nassertions:\n  - type: temp_vars\n    count: 9\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c_passing.yaml"), []byte(
		"name: passing\nalignment: "+align+"\nquery: "+query+"\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))
	return dir
}

func TestRunSuite_CountsFailures(t *testing.T) {
	paths, err := FindScenarios(writeSuite(t))
	require.NoError(t, err)
	require.Len(t, paths, 3)

	res := RunSuite(paths)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 1, res.Passed)
	assert.Equal(t, 2, res.Failed)

	failures := res.Failures()
	require.Len(t, failures, 2)
	assert.Equal(t, "a_broken.yaml", failures[0].Name)
	assert.Contains(t, failures[0].Errors[0], "failed to load scenario")
	assert.Equal(t, "failing", failures[1].Name)
	assert.NotEmpty(t, failures[1].Errors)
}

func TestRunSuite_ChecksFailPassingScenarios(t *testing.T) {
	paths, err := FindScenarios(writeSuite(t))
	require.NoError(t, err)

	var seen []string
	check := func(sc *Scenario, r *Result) error {
		seen = append(seen, sc.Name)
		if sc.Name == "passing" {
			return errors.New("snapshot differs")
		}
		return nil
	}

	res := RunSuite(paths, check)
	assert.Equal(t, []string{"failing", "passing"}, seen)
	assert.Zero(t, res.Passed)
	assert.Equal(t, 3, res.Failed)
	assert.Equal(t, []string{"snapshot differs"}, res.Scenarios[2].Errors)
}

func TestFindScenarios_Recursive(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "subdir")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "root.yaml"), []byte(""), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yml"), []byte(""), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "sub.yaml"), []byte(""), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignore.txt"), []byte(""), 0o644))

	paths, err := FindScenarios(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "other.yml"),
		filepath.Join(dir, "root.yaml"),
		filepath.Join(sub, "sub.yaml"),
	}, paths)
}

func TestFindScenarios_MissingDir(t *testing.T) {
	_, err := FindScenarios(filepath.Join(t.TempDir(), "none"))
	assert.Error(t, err)
}
