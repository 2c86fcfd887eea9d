package rewriter

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/roach88/edoalrw/internal/compiler"
	"github.com/roach88/edoalrw/internal/diag"
	"github.com/roach88/edoalrw/internal/sparqlast"
)

// DefaultTempVarPrefix is the name prefix of synthesized variables.
const DefaultTempVarPrefix = "variable_temp"

// ErrSessionConsumed is returned when a Session is asked to rewrite a second
// query.
var ErrSessionConsumed = errors.New("rewrite session already used for a query")

// IDGenerator produces session identifiers.
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 session IDs.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate returns a new hyphenated UUIDv7.
//
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger. Diagnostics are logged at WARN and
// individual rewrites at DEBUG.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTempVarPrefix overrides DefaultTempVarPrefix.
func WithTempVarPrefix(prefix string) Option {
	return func(s *Session) {
		if prefix != "" {
			s.tempPrefix = prefix
		}
	}
}

// WithIDGenerator sets the session ID source. Tests use a fixed generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Session) {
		if g != nil {
			s.ids = g
		}
	}
}

// Session is the state of one query rewrite.
type Session struct {
	id         string
	mapping    compiler.Mapping
	counter    int
	tempPrefix string
	ids        IDGenerator
	logger     *slog.Logger
	diags      *diag.Collector
	consumed   bool
}

// NewSession creates a session over mapping. The counter starts at 0.
func NewSession(mapping compiler.Mapping, opts ...Option) *Session {
	s := &Session{
		mapping:    mapping,
		tempPrefix: DefaultTempVarPrefix,
		ids:        UUIDv7Generator{},
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.id = s.ids.Generate()
	s.logger = s.logger.With("session", s.id)
	s.diags = diag.NewCollector(s.logger)
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// TempVarCount returns how many temp variables have been synthesized.
func (s *Session) TempVarCount() int { return s.counter }

// Diagnostics returns the diagnostics recorded so far, in order.
func (s *Session) Diagnostics() []diag.Diagnostic { return s.diags.Diagnostics() }

// Rewrite rewrites one node. When the rewrite yields several nodes they are
// wrapped in a Group.
func (s *Session) Rewrite(n sparqlast.Node) sparqlast.Node {
	out := s.RewriteNode(n)
	if len(out) == 1 {
		return out[0]
	}
	return &sparqlast.Group{Patterns: out}
}

// RewriteNode rewrites one node and returns every node it expands to.
// Only triples expand to more than one node.
func (s *Session) RewriteNode(n sparqlast.Node) []sparqlast.Node {
	return s.dispatch(n)
}

// RewriteQuery rewrites the AST of q and returns a new query with the same
// envelope. A session rewrites one query; a second call returns
// ErrSessionConsumed.
func (s *Session) RewriteQuery(q *sparqlast.Query) (*sparqlast.Query, error) {
	if s.consumed {
		return nil, ErrSessionConsumed
	}
	s.consumed = true
	if q == nil || q.AST == nil {
		return nil, fmt.Errorf("rewrite query: empty AST")
	}

	s.logger.Debug("rewriting query", "query_type", q.QueryType(), "mapped_terms", len(s.mapping))
	out := q.WithAST(s.Rewrite(q.AST))
	s.logger.Debug("query rewritten", "temp_vars", s.counter, "diagnostics", s.diags.Len())
	return out, nil
}

// Result is the outcome of RewriteQuery.
type Result struct {
	SessionID   string
	Query       *sparqlast.Query
	Diagnostics []diag.Diagnostic
	TempVars    int
}

// RewriteQuery rewrites q in a fresh session.
func RewriteQuery(mapping compiler.Mapping, q *sparqlast.Query, opts ...Option) (*Result, error) {
	s := NewSession(mapping, opts...)
	out, err := s.RewriteQuery(q)
	if err != nil {
		return nil, err
	}
	return &Result{
		SessionID:   s.id,
		Query:       out,
		Diagnostics: s.Diagnostics(),
		TempVars:    s.counter,
	}, nil
}

// freshVar synthesizes the next temp variable.
func (s *Session) freshVar() *sparqlast.Variable {
	v := sparqlast.NewVar(fmt.Sprintf("%s%d", s.tempPrefix, s.counter))
	s.counter++
	return v
}

func (s *Session) report(code diag.Code, subject, format string, args ...any) {
	s.diags.Report(code, subject, format, args...)
}
