package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/edoalrw/internal/canonical"
	"github.com/roach88/edoalrw/internal/compiler"
	"github.com/roach88/edoalrw/internal/diag"
	"github.com/roach88/edoalrw/internal/edoal"
	"github.com/roach88/edoalrw/internal/rewriter"
	"github.com/roach88/edoalrw/internal/sparqlast"
	"github.com/roach88/edoalrw/internal/testutil"
)

func TestWriteSession_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	rec := createTestRecord("s-1", "q-1",
		diag.Diagnostic{Code: diag.CodeUnsupportedOccurrence, Subject: "http://x#less-than", Message: "not supported"},
		diag.Diagnostic{Code: diag.CodeEmptyExpansion, Subject: "http://a#Author", Message: "triple kept"},
	)
	require.NoError(t, s.WriteSession(ctx, rec))

	got, err := s.ReadSession(ctx, "s-1")
	require.NoError(t, err)

	rec.Seq = 1
	assert.Equal(t, rec, got)
}

func TestWriteSession_AssignsIncreasingSeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"b", "a", "c"} {
		require.NoError(t, s.WriteSession(ctx, createTestRecord(id, "q")))
	}

	list, err := s.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)

	var ids []string
	for i, r := range list {
		assert.Equal(t, int64(i+1), r.Seq)
		assert.Empty(t, r.Output, "listings omit output")
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"b", "a", "c"}, ids)
}

func TestWriteSession_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	first := createTestRecord("dup", "q", diag.Diagnostic{Code: diag.CodeCellDropped, Message: "one"})
	second := createTestRecord("dup", "other", diag.Diagnostic{Code: diag.CodeCellDropped, Message: "two"})
	require.NoError(t, s.WriteSession(ctx, first))
	require.NoError(t, s.WriteSession(ctx, second))

	got, err := s.ReadSession(ctx, "dup")
	require.NoError(t, err)
	assert.Equal(t, "q", got.QueryHash)
	require.Len(t, got.Diagnostics, 1)
	assert.Equal(t, "one", got.Diagnostics[0].Message)
}

func TestWriteSession_EmptyID(t *testing.T) {
	s := createTestStore(t)
	assert.Error(t, s.WriteSession(context.Background(), Record{}))
}

func TestReadSession_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReadSession(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestListSessions_Empty(t *testing.T) {
	s := createTestStore(t)

	list, err := s.ListSessions(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestSessionsForQueryAndCodeCounts(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	dropped := diag.Diagnostic{Code: diag.CodeCellDropped, Message: "x"}
	empty := diag.Diagnostic{Code: diag.CodeEmptyExpansion, Message: "y"}
	require.NoError(t, s.WriteSession(ctx, createTestRecord("s1", "q1", dropped, empty)))
	require.NoError(t, s.WriteSession(ctx, createTestRecord("s2", "q2", empty)))
	require.NoError(t, s.WriteSession(ctx, createTestRecord("s3", "q1")))

	forQ1, err := s.SessionsForQuery(ctx, "q1")
	require.NoError(t, err)
	require.Len(t, forQ1, 2)
	assert.Equal(t, "s1", forQ1[0].ID)
	assert.Equal(t, 2, forQ1[0].DiagnosticCount)
	assert.Equal(t, "s3", forQ1[1].ID)

	counts, err := s.CodeCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[diag.Code]int{diag.CodeCellDropped: 1, diag.CodeEmptyExpansion: 2}, counts)
}

func TestNewRecord_FromRewrite(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	m := compiler.Mapping{"http://a#p": &edoal.IdentifiedEntity{Kind: edoal.KindRelation, URI: "http://b#p"}}
	q, err := sparqlast.DecodeQuery([]byte(`{"queryType":"SELECT","ast":{"type":"bgp","triples":[
		{"type":"triple","subject":{"type":"variable","value":"s"},"predicate":{"type":"uri","value":"http://a#p"},"object":{"type":"variable","value":"o"}}]}}`))
	require.NoError(t, err)

	res, err := rewriter.RewriteQuery(m, q, rewriter.WithIDGenerator(testutil.NewFixedIDGenerator("sess-42")))
	require.NoError(t, err)

	rec, err := NewRecord(res, "align", "query")
	require.NoError(t, err)
	assert.Equal(t, "sess-42", rec.ID)
	assert.Equal(t, "SELECT", rec.QueryType)
	assert.Contains(t, rec.Output, `"http://b#p"`)
	assert.Equal(t, canonical.Hash(canonical.DomainQuery, []byte(rec.Output)), rec.OutputHash)

	require.NoError(t, s.WriteSession(ctx, rec))
	got, err := s.ReadSession(ctx, "sess-42")
	require.NoError(t, err)
	assert.Equal(t, rec.Output, got.Output)
	assert.Equal(t, []diag.Diagnostic{}, got.Diagnostics)
}

func TestNewRecord_EmptyResult(t *testing.T) {
	_, err := NewRecord(nil, "", "")
	assert.Error(t, err)
}
