// Package harness provides conformance testing for alignment-driven query
// rewriting.
//
// A scenario names an alignment, a query document and assertions on the
// rewrite. The harness runs the full pipeline (load, compile, contract
// check, rewrite) in a fresh session with a fixed session ID, journals the
// session in an in-memory store and evaluates assertions against what the
// journal recorded.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	alignment: alignments/conference.edoal
//	query: queries/person.json
//	session_id: harness-session
//	temp_var_prefix: variable_temp
//	assertions:
//	  - type: diagnostic
//	    code: EMPTY_EXPANSION
//	    count: 1
//	  - type: temp_vars
//	    count: 1
//	  - type: node_count
//	    node: union
//	    count: 1
//	  - type: contains_uri
//	    uri: http://conference#Author
//	  - type: filter
//	    expression: "(= ?variable_temp0 true)"
//
// Paths are relative to the scenario file.
//
// # Assertion Types
//
//   - diagnostic: a diagnostic with the code (and subject, if given) was
//     recorded, exactly count times when count is set
//   - no_diagnostics: the rewrite recorded nothing
//   - temp_vars: exactly count temp variables were synthesized
//   - node_count: the output has exactly count nodes of the given type
//   - contains_uri / absent_uri: the IRI does or does not occur in the
//     output, in terms or property paths
//   - filter: a filter with exactly this expression occurs in the output
//
// # Deterministic Testing
//
// Session IDs are fixed per scenario and the output is canonical JSON, so
// the same scenario always produces byte-identical golden snapshots.
package harness
