package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	conferenceAlignment = filepath.Join("..", "harness", "testdata", "alignments", "conference.edoal")
	personQuery         = filepath.Join("..", "harness", "testdata", "queries", "person_papers.json")
	unmappedQuery       = filepath.Join("..", "harness", "testdata", "queries", "unmapped.json")
	scenariosDir        = filepath.Join("..", "harness", "testdata", "scenarios")
	goldenDir           = filepath.Join("..", "harness", "testdata", "golden")
)

// execute runs the root command with args and returns stdout, stderr and
// the command error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func decodeResponse(t *testing.T, out string) CLIResponse {
	t.Helper()
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), "output: %s", out)
	return resp
}

// goldenOutput returns the "output" member of a harness golden snapshot.
func goldenOutput(t *testing.T, name string) any {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(goldenDir, name+".golden"))
	require.NoError(t, err)
	var snap map[string]any
	require.NoError(t, json.Unmarshal(data, &snap))
	return snap["output"]
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
