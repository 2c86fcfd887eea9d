package sparqlast

import (
	"maps"

	"github.com/roach88/edoalrw/internal/canonical"
)

// Query is a parsed query document: the AST under "ast" plus the envelope
// fields written by the parser (prefixes, queryType, selectVariables,
// orderBy, limit, ...). Envelope fields are kept verbatim.
//
// A document without an "ast" key is accepted as a bare node; Bare is set so
// encoding writes it back the same way.
type Query struct {
	AST    Node
	Fields map[string]any
	Bare   bool
}

// DecodeQuery decodes a query document.
func DecodeQuery(data []byte) (*Query, error) {
	v, err := DecodeJSON(data)
	if err != nil {
		return nil, err
	}
	return QueryFromValue(v)
}

// QueryFromValue builds a Query from a generic JSON value.
func QueryFromValue(v any) (*Query, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, &DecodeError{Message: "query document must be an object, got " + jsonKind(v)}
	}

	raw, hasAST := obj["ast"]
	if !hasAST {
		if _, isNode := obj["type"].(string); !isNode {
			return nil, &DecodeError{Message: `query document has neither "ast" nor "type"`}
		}
		n, err := decodeNode(obj, "")
		if err != nil {
			return nil, err
		}
		return &Query{AST: n, Fields: map[string]any{}, Bare: true}, nil
	}

	n, err := decodeNode(raw, "ast")
	if err != nil {
		return nil, err
	}
	q := &Query{AST: n, Fields: make(map[string]any, len(obj)-1)}
	for k, fv := range obj {
		if k != "ast" {
			q.Fields[k] = fv
		}
	}
	return q, nil
}

// WithAST returns a copy of q carrying a different AST.
func (q *Query) WithAST(n Node) *Query {
	return &Query{AST: n, Fields: maps.Clone(q.Fields), Bare: q.Bare}
}

// QueryType returns the "queryType" envelope field, or "".
func (q *Query) QueryType() string {
	s, _ := q.Fields["queryType"].(string)
	return s
}

// Value converts q to a generic JSON value.
func (q *Query) Value() any {
	if q.Bare {
		return NodeValue(q.AST)
	}
	m := make(map[string]any, len(q.Fields)+1)
	maps.Copy(m, q.Fields)
	m["ast"] = NodeValue(q.AST)
	return m
}

// Encode returns q as canonical JSON.
func (q *Query) Encode() ([]byte, error) {
	return canonical.Marshal(q.Value())
}

// EncodeIndent returns q as indented canonical JSON.
func (q *Query) EncodeIndent() ([]byte, error) {
	return canonical.MarshalIndent(q.Value())
}
