package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/edoalrw/internal/diag"
	"github.com/roach88/edoalrw/internal/sparqlast"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Alignment is the path to the EDOAL alignment file.
	Alignment string `yaml:"alignment"`

	// Query is the path to the JSON query document.
	Query string `yaml:"query"`

	// SessionID is the fixed session ID. If empty, defaults to
	// "test-session-default" for deterministic golden file comparison.
	SessionID string `yaml:"session_id,omitempty"`

	// TempVarPrefix overrides the temp variable prefix.
	TempVarPrefix string `yaml:"temp_var_prefix,omitempty"`

	// Assertions validate the rewrite.
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion validates the rewritten query or its diagnostics.
type Assertion struct {
	// Type specifies the assertion type, one of the Assert* constants.
	Type string `yaml:"type"`

	// Code is the diagnostic code (used by diagnostic).
	Code diag.Code `yaml:"code,omitempty"`

	// Subject narrows a diagnostic match (used by diagnostic).
	Subject string `yaml:"subject,omitempty"`

	// Count is the expected number of matches. Required by temp_vars and
	// node_count; optional for diagnostic, where nil means at least one.
	Count *int `yaml:"count,omitempty"`

	// Node is the node type to count (used by node_count).
	Node string `yaml:"node,omitempty"`

	// URI is the IRI to look for (used by contains_uri and absent_uri).
	URI string `yaml:"uri,omitempty"`

	// Expression is the exact filter expression (used by filter).
	Expression string `yaml:"expression,omitempty"`
}

// Assertion type constants.
const (
	AssertDiagnostic    = "diagnostic"
	AssertNoDiagnostics = "no_diagnostics"
	AssertTempVars      = "temp_vars"
	AssertNodeCount     = "node_count"
	AssertContainsURI   = "contains_uri"
	AssertAbsentURI     = "absent_uri"
	AssertFilter        = "filter"
)

// LoadScenario reads and parses a scenario YAML file. Alignment and query
// paths are resolved relative to the scenario file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	base := filepath.Dir(path)
	scenario.Alignment = resolve(base, scenario.Alignment)
	scenario.Query = resolve(base, scenario.Query)

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// validateScenario checks required fields and assertion shapes.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Alignment == "" {
		return fmt.Errorf("alignment is required")
	}
	if s.Query == "" {
		return fmt.Errorf("query is required")
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(a, i); err != nil {
			return err
		}
	}
	return nil
}

func validateAssertion(a Assertion, index int) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}
	if a.Count != nil && *a.Count < 0 {
		return fmt.Errorf("assertions[%d]: count must be non-negative", index)
	}

	switch a.Type {
	case AssertDiagnostic:
		if a.Code == "" {
			return fmt.Errorf("assertions[%d]: code is required for diagnostic", index)
		}
	case AssertNoDiagnostics:
	case AssertTempVars:
		if a.Count == nil {
			return fmt.Errorf("assertions[%d]: count is required for temp_vars", index)
		}
	case AssertNodeCount:
		if a.Node == "" {
			return fmt.Errorf("assertions[%d]: node is required for node_count", index)
		}
		if a.Count == nil {
			return fmt.Errorf("assertions[%d]: count is required for node_count", index)
		}
		if !knownNodeType(a.Node) {
			return fmt.Errorf("assertions[%d]: unknown node type %q", index, a.Node)
		}
	case AssertContainsURI, AssertAbsentURI:
		if a.URI == "" {
			return fmt.Errorf("assertions[%d]: uri is required for %s", index, a.Type)
		}
	case AssertFilter:
		if a.Expression == "" {
			return fmt.Errorf("assertions[%d]: expression is required for filter", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}

func knownNodeType(t string) bool {
	switch t {
	case sparqlast.TypeGroup, sparqlast.TypeBgp, sparqlast.TypeTriple, sparqlast.TypePathTriple,
		sparqlast.TypeUnion, sparqlast.TypeOptional, sparqlast.TypeFilter,
		sparqlast.TypeURI, sparqlast.TypeVariable, sparqlast.TypeLiteral:
		return true
	}
	return false
}
