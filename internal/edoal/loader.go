package edoal

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/roach88/edoalrw/internal/diag"
)

// RDFNamespace is the RDF syntax namespace used for rdf:about,
// rdf:resource and rdf:parseType.
const RDFNamespace = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"

// LoadResult is the outcome of loading an alignment document.
type LoadResult struct {
	Alignment   *Alignment
	Diagnostics []diag.Diagnostic
}

// LoadOption configures Load.
type LoadOption func(*loadConfig)

type loadConfig struct {
	logger *slog.Logger
	path   string
}

// WithLogger sets the logger used for load progress and diagnostics.
func WithLogger(l *slog.Logger) LoadOption {
	return func(c *loadConfig) { c.logger = l }
}

// LoadFile reads and loads an alignment document from disk.
func LoadFile(path string, opts ...LoadOption) (*LoadResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &AlignmentFormatError{Path: path, Message: "cannot read document", Err: err}
	}
	return Load(data, append(opts, func(c *loadConfig) { c.path = path })...)
}

// Load parses an EDOAL alignment document.
//
// Elements are matched by local name so any namespace prefix binding works.
// rdf attributes are matched by namespace URI, or by the conventional "rdf"
// prefix when the document leaves it unbound.
//
// Returns *AlignmentFormatError when the document is not XML, does not have
// exactly one Alignment element, or lacks onto1/onto2. Cells that cannot be
// resolved are dropped and reported in LoadResult.Diagnostics.
func Load(data []byte, opts ...LoadOption) (*LoadResult, error) {
	cfg := loadConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, &AlignmentFormatError{Path: cfg.path, Message: "malformed XML", Err: err}
	}
	if doc.Root() == nil {
		return nil, &AlignmentFormatError{Path: cfg.path, Message: "empty document"}
	}

	roots := descendants(doc.Root(), "Alignment")
	switch len(roots) {
	case 0:
		return nil, &AlignmentFormatError{Path: cfg.path, Message: "no Alignment element"}
	case 1:
	default:
		return nil, &AlignmentFormatError{
			Path:    cfg.path,
			Message: fmt.Sprintf("expected one Alignment element, found %d", len(roots)),
		}
	}
	root := roots[0]

	onto1 := ontologyRef(root, "onto1")
	if onto1 == "" {
		return nil, &AlignmentFormatError{Path: cfg.path, Message: "onto1 reference not found"}
	}
	onto2 := ontologyRef(root, "onto2")
	if onto2 == "" {
		return nil, &AlignmentFormatError{Path: cfg.path, Message: "onto2 reference not found"}
	}

	collector := diag.NewCollector(cfg.logger)
	r := &resolver{diags: collector}

	alignment := &Alignment{Onto1: onto1, Onto2: onto2}
	for i, cellEl := range descendants(root, "Cell") {
		if cell, ok := r.cell(cellEl, i); ok {
			alignment.Cells = append(alignment.Cells, cell)
		}
	}

	cfg.logger.Debug("alignment loaded",
		"onto1", onto1,
		"onto2", onto2,
		"cells", len(alignment.Cells),
		"diagnostics", collector.Len())

	return &LoadResult{Alignment: alignment, Diagnostics: collector.Diagnostics()}, nil
}

type resolver struct {
	diags *diag.Collector
}

func (r *resolver) cell(el *etree.Element, index int) (Cell, bool) {
	subject := rdfAttr(el, "about")
	if subject == "" {
		subject = fmt.Sprintf("Cell[%d]", index)
	}

	e1 := r.slot(el, "entity1")
	e2 := r.slot(el, "entity2")
	if e1 == nil || e2 == nil {
		missing := "entity1"
		if e1 != nil {
			missing = "entity2"
		}
		r.diags.Report(diag.CodeCellDropped, subject, "%s has no resolvable expression", missing)
		return Cell{}, false
	}

	cell := Cell{Entity1: e1, Entity2: e2}
	if rel := child(el, "relation"); rel != nil {
		cell.Relation = strings.TrimSpace(rel.Text())
	}
	if m := child(el, "measure"); m != nil {
		text := strings.TrimSpace(m.Text())
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			r.diags.Report(diag.CodeMeasureInvalid, subject, "measure %q is not a number, using 0.0", text)
		} else {
			cell.Measure = f
		}
	}
	return cell, true
}

// slot resolves the first child element of the named child of el.
// Returns nil if either is missing.
func (r *resolver) slot(el *etree.Element, name string) Expression {
	s := child(el, name)
	if s == nil {
		return nil
	}
	children := s.ChildElements()
	if len(children) == 0 {
		return nil
	}
	return r.resolve(children[0])
}

// resolve interprets one expression element.
func (r *resolver) resolve(el *etree.Element) Expression {
	tag := el.Tag
	kind := EntityKind(tag)

	if kind.IsValid() {
		if about := rdfAttr(el, "about"); about != "" {
			return &IdentifiedEntity{Kind: kind, URI: about}
		}
		if children := el.ChildElements(); len(children) == 1 {
			return r.resolve(children[0])
		}
		return &Unrecognized{Tag: tag}
	}

	switch tag {
	case "AttributeDomainRestriction":
		return &AttributeDomainRestriction{
			OnAttribute:     r.slot(el, "onAttribute"),
			ClassExpression: r.slot(el, "class"),
		}
	case "AttributeValueRestriction":
		return &AttributeValueRestriction{
			OnAttribute: r.slot(el, "onAttribute"),
			Comparator:  comparator(el),
			Value:       r.value(el),
		}
	case "AttributeOccurenceRestriction", "AttributeOccurrenceRestriction":
		return &AttributeOccurrenceRestriction{
			OnAttribute: r.slot(el, "onAttribute"),
			Comparator:  comparator(el),
			Value:       r.value(el),
		}
	case "RelationDomainRestriction":
		return &RelationDomainRestriction{ClassExpression: r.slot(el, "class")}
	case "RelationCoDomainRestriction":
		return &RelationCoDomainRestriction{ClassExpression: r.slot(el, "class")}
	}

	op := Operator(tag)
	switch {
	case op.IsLogical():
		return &LogicalConstructor{Operator: op, Operands: r.operands(el)}
	case op.IsPath():
		return &PathConstructor{Operator: op, Operands: r.operands(el)}
	}

	return &Unrecognized{Tag: tag}
}

// operands resolves every child element in document order, descending
// through a single rdf:parseType="Collection" wrapper.
func (r *resolver) operands(el *etree.Element) []Expression {
	children := el.ChildElements()
	if len(children) == 1 && rdfAttr(children[0], "parseType") == "Collection" {
		children = children[0].ChildElements()
	}
	out := make([]Expression, 0, len(children))
	for _, c := range children {
		out = append(out, r.resolve(c))
	}
	return out
}

// value classifies a restriction's value slot. Checks run in this order:
//  1. Literal child element
//  2. child resolving to an identified entity, or rdf:resource on the slot
//  3. raw integer text
//  4. any other child element, resolved recursively
//  5. any other raw text, as a plain literal
func (r *resolver) value(el *etree.Element) Value {
	s := child(el, "value")
	if s == nil {
		return nil
	}

	if children := s.ChildElements(); len(children) > 0 {
		c := children[0]
		if c.Tag == "Literal" {
			lex := attr(c, "string")
			if lex == "" {
				lex = c.Text()
			}
			return &Literal{Lexical: lex, Datatype: attr(c, "type"), Lang: attr(c, "lang")}
		}
		e := r.resolve(c)
		if ie, ok := e.(*IdentifiedEntity); ok {
			return &URIRef{URI: ie.URI}
		}
		return &ExpressionValue{Expression: e}
	}

	if res := rdfAttr(s, "resource"); res != "" {
		return &URIRef{URI: res}
	}

	text := strings.TrimSpace(s.Text())
	if text == "" {
		return nil
	}
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return Integer(n)
	}
	return &Literal{Lexical: text}
}

func comparator(el *etree.Element) string {
	c := child(el, "comparator")
	if c == nil {
		return ""
	}
	if res := rdfAttr(c, "resource"); res != "" {
		return res
	}
	return strings.TrimSpace(c.Text())
}

// ontologyRef reads onto1/onto2: Ontology@rdf:about, then the slot's own
// rdf:resource, then its text.
func ontologyRef(root *etree.Element, name string) string {
	s := child(root, name)
	if s == nil {
		return ""
	}
	if o := child(s, "Ontology"); o != nil {
		if about := rdfAttr(o, "about"); about != "" {
			return about
		}
	}
	if res := rdfAttr(s, "resource"); res != "" {
		return res
	}
	if len(s.ChildElements()) == 0 {
		return strings.TrimSpace(s.Text())
	}
	return ""
}

// child returns the first direct child element with the given local name.
func child(el *etree.Element, local string) *etree.Element {
	for _, c := range el.ChildElements() {
		if c.Tag == local {
			return c
		}
	}
	return nil
}

// descendants returns every element below el (el included) with the given
// local name, in document order.
func descendants(el *etree.Element, local string) []*etree.Element {
	var out []*etree.Element
	var walk func(*etree.Element)
	walk = func(e *etree.Element) {
		if e.Tag == local {
			out = append(out, e)
		}
		for _, c := range e.ChildElements() {
			walk(c)
		}
	}
	walk(el)
	return out
}

// rdfAttr returns the value of an rdf-namespaced attribute.
func rdfAttr(el *etree.Element, key string) string {
	for i := range el.Attr {
		a := &el.Attr[i]
		if a.Key != key {
			continue
		}
		if a.Space == "rdf" || a.NamespaceURI() == RDFNamespace {
			return a.Value
		}
	}
	return ""
}

// attr returns the value of an attribute by local name in any namespace.
func attr(el *etree.Element, key string) string {
	for _, a := range el.Attr {
		if a.Key == key {
			return a.Value
		}
	}
	return ""
}
