package harness

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
)

// SuiteResult summarizes a set of scenarios.
type SuiteResult struct {
	Scenarios []ScenarioOutcome `json:"scenarios"`
	Passed    int               `json:"passed"`
	Failed    int               `json:"failed"`
	Total     int               `json:"total"`
}

// ScenarioOutcome is the result of one scenario file. Name falls back to the
// file name when the scenario could not be loaded.
type ScenarioOutcome struct {
	Name   string   `json:"name"`
	Path   string   `json:"path"`
	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`
}

// Check is an extra verification of a scenario that ran. A non-nil error
// fails the scenario.
type Check func(sc *Scenario, r *Result) error

// FindScenarios returns the *.yaml and *.yml files under dir, recursively,
// sorted by path.
func FindScenarios(dir string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch filepath.Ext(path) {
		case ".yaml", ".yml":
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading scenario directory: %w", err)
	}
	sort.Strings(out)
	return out, nil
}

// RunSuite loads and runs every scenario at paths, applying checks to each
// one that ran. A scenario that fails to load or run is counted as failed;
// the suite continues.
func RunSuite(paths []string, checks ...Check) *SuiteResult {
	res := &SuiteResult{
		Scenarios: make([]ScenarioOutcome, 0, len(paths)),
		Total:     len(paths),
	}
	for _, p := range paths {
		res.add(runOne(p, checks))
	}
	return res
}

// Failures returns the outcomes that did not pass.
func (r *SuiteResult) Failures() []ScenarioOutcome {
	var out []ScenarioOutcome
	for _, o := range r.Scenarios {
		if !o.Pass {
			out = append(out, o)
		}
	}
	return out
}

func runOne(path string, checks []Check) ScenarioOutcome {
	sc, err := LoadScenario(path)
	if err != nil {
		return ScenarioOutcome{
			Name:   filepath.Base(path),
			Path:   path,
			Errors: []string{fmt.Sprintf("failed to load scenario: %v", err)},
		}
	}

	r, err := Run(sc)
	if err != nil {
		return ScenarioOutcome{
			Name:   sc.Name,
			Path:   path,
			Errors: []string{fmt.Sprintf("execution error: %v", err)},
		}
	}

	errs := append([]string(nil), r.Errors...)
	for _, check := range checks {
		if err := check(sc, r); err != nil {
			errs = append(errs, err.Error())
		}
	}
	return ScenarioOutcome{Name: sc.Name, Path: path, Pass: r.Pass && len(errs) == 0, Errors: errs}
}

func (r *SuiteResult) add(o ScenarioOutcome) {
	r.Scenarios = append(r.Scenarios, o)
	if o.Pass {
		r.Passed++
	} else {
		r.Failed++
	}
}
