// Package edoal provides the typed model of EDOAL correspondence expressions
// and a loader that builds it from alignment documents.
//
// Expression and Value are closed sum types: every variant is declared in
// this package and carries an unexported marker method, so consumers switch
// exhaustively over them. Values are immutable once Load returns.
//
// Key constraints:
//   - A Cell admitted to an Alignment always has non-nil Entity1 and Entity2
//   - Operand order is document order (compose chains depend on it)
//   - Unknown element kinds become Unrecognized, never a guessed variant
package edoal
