// Package rewriter rewrites a query AST from the source vocabulary of an
// alignment to its target vocabulary.
//
// A Session rewrites exactly one query. It owns the temp-variable counter,
// so synthesized variable names (variable_temp0, variable_temp1, ...) are
// unique within that query and never continue across queries.
//
// Rewriting happens at two levels:
//   - Terms: a URI mapped to an identified entity is replaced in place.
//   - Triples: a predicate or rdf:type object mapped to a complex expression
//     is expanded into triples, unions, filters or a property path.
//
// Unsupported expression shapes never fail the rewrite. They produce an
// empty expansion for that subtree and a diag.Diagnostic on the session.
//
// Thread-safety: a Session is not safe for concurrent use. Rewrite
// independent queries concurrently with one Session each.
package rewriter
