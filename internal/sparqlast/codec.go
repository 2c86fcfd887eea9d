package sparqlast

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/roach88/edoalrw/internal/canonical"
)

// DecodeError reports a JSON document that does not match the AST schema.
type DecodeError struct {
	// Path locates the offending value, e.g. "ast.patterns[0].triples[2]".
	Path    string
	Message string
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return "ast decode: " + e.Message
	}
	return fmt.Sprintf("ast decode: %s: %s", e.Path, e.Message)
}

// DecodeJSON decodes data into a generic value, keeping numbers as
// json.Number.
func DecodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, &DecodeError{Message: err.Error()}
	}
	if dec.More() {
		return nil, &DecodeError{Message: "trailing data after JSON value"}
	}
	return v, nil
}

// DecodeNode decodes a single node document.
func DecodeNode(data []byte) (Node, error) {
	v, err := DecodeJSON(data)
	if err != nil {
		return nil, err
	}
	return NodeFromValue(v)
}

// EncodeNode encodes a node as canonical JSON.
func EncodeNode(n Node) ([]byte, error) {
	return canonical.Marshal(NodeValue(n))
}

// NodeFromValue builds a node from a generic JSON value.
func NodeFromValue(v any) (Node, error) {
	return decodeNode(v, "")
}

func decodeNode(v any, at string) (Node, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, &DecodeError{Path: at, Message: fmt.Sprintf("expected object, got %s", jsonKind(v))}
	}
	typ, ok := obj["type"].(string)
	if !ok {
		return nil, &DecodeError{Path: at, Message: `missing string field "type"`}
	}

	switch typ {
	case TypeGroup:
		ps, err := decodeNodes(obj, "patterns", at)
		if err != nil {
			return nil, err
		}
		return &Group{Patterns: ps}, nil
	case TypeBgp:
		ts, err := decodeNodes(obj, "triples", at)
		if err != nil {
			return nil, err
		}
		return &Bgp{Triples: ts}, nil
	case TypeUnion:
		ps, err := decodeNodes(obj, "patterns", at)
		if err != nil {
			return nil, err
		}
		return &Union{Patterns: ps}, nil
	case TypeTriple:
		s, err := requiredNode(obj, "subject", at)
		if err != nil {
			return nil, err
		}
		p, err := requiredNode(obj, "predicate", at)
		if err != nil {
			return nil, err
		}
		o, err := requiredNode(obj, "object", at)
		if err != nil {
			return nil, err
		}
		return &Triple{Subject: s, Predicate: p, Object: o}, nil
	case TypePathTriple:
		s, err := requiredNode(obj, "subject", at)
		if err != nil {
			return nil, err
		}
		rawPath, ok := obj["path"]
		if !ok {
			return nil, &DecodeError{Path: at, Message: `missing field "path"`}
		}
		p, err := decodePath(rawPath, join(at, "path"))
		if err != nil {
			return nil, err
		}
		o, err := requiredNode(obj, "object", at)
		if err != nil {
			return nil, err
		}
		return &PathTriple{Subject: s, Path: p, Object: o}, nil
	case TypeOptional:
		p, err := requiredNode(obj, "pattern", at)
		if err != nil {
			return nil, err
		}
		return &Optional{Pattern: p}, nil
	case TypeFilter:
		expr, err := requiredString(obj, "expression", at)
		if err != nil {
			return nil, err
		}
		return &Filter{Expression: expr}, nil
	case TypeURI:
		val, err := requiredString(obj, "value", at)
		if err != nil {
			return nil, err
		}
		return &URI{Value: val}, nil
	case TypeVariable:
		val, err := requiredString(obj, "value", at)
		if err != nil {
			return nil, err
		}
		return &Variable{Value: val}, nil
	case TypeLiteral:
		val, err := requiredString(obj, "value", at)
		if err != nil {
			return nil, err
		}
		lit := &Literal{Value: val}
		lit.Datatype, _ = obj["datatype"].(string)
		if lang, ok := obj["lang"].(string); ok {
			lit.Lang = lang
		} else {
			lit.Lang, _ = obj["language"].(string)
		}
		return lit, nil
	}

	op := &Opaque{Type: typ, Fields: make(map[string]Field, len(obj)-1)}
	for k, fv := range obj {
		if k == "type" {
			continue
		}
		f, err := decodeField(fv, join(at, k))
		if err != nil {
			return nil, err
		}
		op.Fields[k] = f
	}
	return op, nil
}

func decodeField(v any, at string) (Field, error) {
	if isNodeObject(v) {
		n, err := decodeNode(v, at)
		if err != nil {
			return nil, err
		}
		return NodeField{Node: n}, nil
	}
	if arr, ok := v.([]any); ok && len(arr) > 0 {
		for _, e := range arr {
			if !isNodeObject(e) {
				return RawField{Value: v}, nil
			}
		}
		nodes := make([]Node, len(arr))
		for i, e := range arr {
			n, err := decodeNode(e, fmt.Sprintf("%s[%d]", at, i))
			if err != nil {
				return nil, err
			}
			nodes[i] = n
		}
		return NodesField{Nodes: nodes}, nil
	}
	return RawField{Value: v}, nil
}

func isNodeObject(v any) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return false
	}
	_, ok = obj["type"].(string)
	return ok
}

func decodeNodes(obj map[string]any, key, at string) ([]Node, error) {
	raw, ok := obj[key]
	if !ok || raw == nil {
		return []Node{}, nil
	}
	arr, ok := raw.([]any)
	if !ok {
		return nil, &DecodeError{Path: join(at, key), Message: fmt.Sprintf("expected array, got %s", jsonKind(raw))}
	}
	out := make([]Node, len(arr))
	for i, e := range arr {
		n, err := decodeNode(e, fmt.Sprintf("%s[%d]", join(at, key), i))
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

func requiredNode(obj map[string]any, key, at string) (Node, error) {
	raw, ok := obj[key]
	if !ok || raw == nil {
		return nil, &DecodeError{Path: at, Message: fmt.Sprintf("missing field %q", key)}
	}
	return decodeNode(raw, join(at, key))
}

func requiredString(obj map[string]any, key, at string) (string, error) {
	s, ok := obj[key].(string)
	if !ok {
		return "", &DecodeError{Path: at, Message: fmt.Sprintf("missing string field %q", key)}
	}
	return s, nil
}

func decodePath(v any, at string) (Path, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, &DecodeError{Path: at, Message: fmt.Sprintf("expected path object, got %s", jsonKind(v))}
	}
	typ, ok := obj["type"].(string)
	if !ok {
		return nil, &DecodeError{Path: at, Message: `missing string field "type"`}
	}

	sub := func(key string) (Path, error) {
		raw, ok := obj[key]
		if !ok || raw == nil {
			return nil, &DecodeError{Path: at, Message: fmt.Sprintf("missing field %q", key)}
		}
		return decodePath(raw, join(at, key))
	}

	switch typ {
	case PathLink:
		uri, err := requiredString(obj, "uri", at)
		if err != nil {
			return nil, err
		}
		return &Link{URI: uri}, nil
	case PathMod:
		modifier, err := requiredString(obj, "modifier", at)
		if err != nil {
			return nil, err
		}
		s, err := sub("subPath")
		if err != nil {
			return nil, err
		}
		m := &Mod{Modifier: modifier, Sub: s}
		if m.Min, err = optionalInt(obj, "min", at); err != nil {
			return nil, err
		}
		if m.Max, err = optionalInt(obj, "max", at); err != nil {
			return nil, err
		}
		return m, nil
	case PathInverse:
		s, err := sub("subPath")
		if err != nil {
			return nil, err
		}
		return &Inverse{Sub: s}, nil
	case PathSeq, PathAlt:
		l, err := sub("left")
		if err != nil {
			return nil, err
		}
		r, err := sub("right")
		if err != nil {
			return nil, err
		}
		if typ == PathSeq {
			return &Seq{Left: l, Right: r}, nil
		}
		return &Alt{Left: l, Right: r}, nil
	}

	op := &OpaquePath{Type: typ, Fields: make(map[string]any, len(obj)-1)}
	for k, fv := range obj {
		if k != "type" {
			op.Fields[k] = fv
		}
	}
	return op, nil
}

func optionalInt(obj map[string]any, key, at string) (*int64, error) {
	raw, ok := obj[key]
	if !ok || raw == nil {
		return nil, nil
	}
	num, ok := raw.(json.Number)
	if !ok {
		return nil, &DecodeError{Path: join(at, key), Message: fmt.Sprintf("expected integer, got %s", jsonKind(raw))}
	}
	n, err := num.Int64()
	if err != nil {
		return nil, &DecodeError{Path: join(at, key), Message: fmt.Sprintf("expected integer, got %s", num)}
	}
	return &n, nil
}

// NodeValue converts a node to a generic JSON value suitable for
// canonical.Marshal.
func NodeValue(n Node) any {
	switch x := n.(type) {
	case nil:
		return nil
	case *Group:
		return map[string]any{"type": TypeGroup, "patterns": nodeValues(x.Patterns)}
	case *Bgp:
		return map[string]any{"type": TypeBgp, "triples": nodeValues(x.Triples)}
	case *Union:
		return map[string]any{"type": TypeUnion, "patterns": nodeValues(x.Patterns)}
	case *Triple:
		return map[string]any{
			"type":      TypeTriple,
			"subject":   NodeValue(x.Subject),
			"predicate": NodeValue(x.Predicate),
			"object":    NodeValue(x.Object),
		}
	case *PathTriple:
		return map[string]any{
			"type":    TypePathTriple,
			"subject": NodeValue(x.Subject),
			"path":    PathValue(x.Path),
			"object":  NodeValue(x.Object),
		}
	case *Optional:
		return map[string]any{"type": TypeOptional, "pattern": NodeValue(x.Pattern)}
	case *Filter:
		return map[string]any{"type": TypeFilter, "expression": x.Expression}
	case *URI:
		return map[string]any{"type": TypeURI, "value": x.Value}
	case *Variable:
		return map[string]any{"type": TypeVariable, "value": x.Value}
	case *Literal:
		m := map[string]any{"type": TypeLiteral, "value": x.Value}
		if x.Datatype != "" {
			m["datatype"] = x.Datatype
		}
		if x.Lang != "" {
			m["lang"] = x.Lang
		}
		return m
	case *Opaque:
		m := make(map[string]any, len(x.Fields)+1)
		for k, f := range x.Fields {
			switch fv := f.(type) {
			case NodeField:
				m[k] = NodeValue(fv.Node)
			case NodesField:
				m[k] = nodeValues(fv.Nodes)
			case RawField:
				m[k] = fv.Value
			}
		}
		m["type"] = x.Type
		return m
	}
	return nil
}

func nodeValues(ns []Node) []any {
	out := make([]any, len(ns))
	for i, n := range ns {
		out[i] = NodeValue(n)
	}
	return out
}

// PathValue converts a path to a generic JSON value.
func PathValue(p Path) any {
	switch x := p.(type) {
	case nil:
		return nil
	case *Link:
		return map[string]any{"type": PathLink, "uri": x.URI}
	case *Mod:
		m := map[string]any{"type": PathMod, "modifier": x.Modifier, "subPath": PathValue(x.Sub)}
		if x.Min != nil {
			m["min"] = *x.Min
		}
		if x.Max != nil {
			m["max"] = *x.Max
		}
		return m
	case *Inverse:
		return map[string]any{"type": PathInverse, "subPath": PathValue(x.Sub)}
	case *Seq:
		return map[string]any{"type": PathSeq, "left": PathValue(x.Left), "right": PathValue(x.Right)}
	case *Alt:
		return map[string]any{"type": PathAlt, "left": PathValue(x.Left), "right": PathValue(x.Right)}
	case *OpaquePath:
		m := make(map[string]any, len(x.Fields)+1)
		for k, v := range x.Fields {
			m[k] = v
		}
		m["type"] = x.Type
		return m
	}
	return nil
}

// FieldNames returns the field keys of an opaque node in sorted order.
func (o *Opaque) FieldNames() []string {
	keys := make([]string, 0, len(o.Fields))
	for k := range o.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func join(at, key string) string {
	if at == "" {
		return key
	}
	return at + "." + key
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, float64:
		return "number"
	}
	return fmt.Sprintf("%T", v)
}
