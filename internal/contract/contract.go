// Package contract checks query documents against an embedded CUE schema
// before they are decoded into an AST.
//
// The schema accepts both document shapes the parser writes: an envelope
// whose pattern tree sits under "ast", and a bare pattern node. Node kinds
// the rewriter does not model are accepted as long as they carry a "type".
package contract

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaSource string

// Violation is one schema mismatch.
type Violation struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Error reports a document that does not satisfy the schema.
type Error struct {
	Violations []Violation
}

func (e *Error) Error() string {
	if len(e.Violations) == 0 {
		return "contract violation"
	}
	v := e.Violations[0]
	msg := "contract violation"
	if v.Path != "" {
		msg += " at " + v.Path
	}
	msg += ": " + v.Message
	if n := len(e.Violations) - 1; n > 0 {
		msg += fmt.Sprintf(" (and %d more)", n)
	}
	return msg
}

// Validator holds the compiled schema.
//
// Thread-safety: a cue.Context is not safe for concurrent use, so Validate
// serializes callers.
type Validator struct {
	mu       sync.Mutex
	ctx      *cue.Context
	envelope cue.Value
	node     cue.Value
}

// NewValidator compiles the embedded schema.
func NewValidator() (*Validator, error) {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compiling query schema: %w", err)
	}
	return &Validator{
		ctx:      ctx,
		envelope: schema.LookupPath(cue.ParsePath("#Envelope")),
		node:     schema.LookupPath(cue.ParsePath("#Node")),
	}, nil
}

// Validate checks a JSON query document. It returns *Error for schema
// mismatches and a plain error when data is not JSON.
func (v *Validator) Validate(data []byte) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	doc := v.ctx.CompileBytes(data, cue.Filename("query.json"))
	if err := doc.Err(); err != nil {
		return fmt.Errorf("parsing query document: %w", err)
	}
	if doc.IncompleteKind() != cue.StructKind {
		return &Error{Violations: []Violation{{Message: "query document must be an object"}}}
	}

	def := v.node
	if doc.LookupPath(cue.ParsePath("ast")).Exists() {
		def = v.envelope
	}
	if err := def.Unify(doc).Validate(cue.Concrete(true)); err != nil {
		return toError(err)
	}
	return nil
}

func toError(err error) *Error {
	var out []Violation
	for _, e := range cueerrors.Errors(err) {
		format, args := e.Msg()
		out = append(out, Violation{
			Path:    strings.Join(e.Path(), "."),
			Message: fmt.Sprintf(format, args...),
		})
	}
	if len(out) == 0 {
		out = append(out, Violation{Message: err.Error()})
	}
	return &Error{Violations: out}
}

var defaultValidator = sync.OnceValues(NewValidator)

// Validate checks data with a shared Validator.
func Validate(data []byte) error {
	v, err := defaultValidator()
	if err != nil {
		return err
	}
	return v.Validate(data)
}
