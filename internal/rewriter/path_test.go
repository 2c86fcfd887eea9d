package rewriter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/edoalrw/internal/compiler"
	"github.com/roach88/edoalrw/internal/diag"
	"github.com/roach88/edoalrw/internal/edoal"
	"github.com/roach88/edoalrw/internal/sparqlast"
)

func link(u string) *sparqlast.Link { return &sparqlast.Link{URI: u} }

func mod(m string, sub sparqlast.Path) *sparqlast.Mod {
	return &sparqlast.Mod{Modifier: m, Sub: sub}
}

func TestTransformPath(t *testing.T) {
	m := compiler.Mapping{
		"http://a#p":    rel("http://b#p"),
		"http://a#q":    rel("http://b#q"),
		"http://a#part": path(edoal.OpTransitive, rel("http://b#partOf")),
	}
	two := int64(2)
	tests := []struct {
		name string
		in   sparqlast.Path
		want sparqlast.Path
	}{
		{"mapped link", link("http://a#p"), link("http://b#p")},
		{"unmapped link", link("http://a#z"), link("http://a#z")},
		{"transitive link", link("http://a#part"), mod("+", link("http://b#partOf"))},
		{"inverse", &sparqlast.Inverse{Sub: link("http://a#p")}, &sparqlast.Inverse{Sub: link("http://b#p")}},
		{
			"seq",
			&sparqlast.Seq{Left: link("http://a#p"), Right: link("http://a#q")},
			&sparqlast.Seq{Left: link("http://b#p"), Right: link("http://b#q")},
		},
		{
			"alt",
			&sparqlast.Alt{Left: link("http://a#p"), Right: link("http://a#z")},
			&sparqlast.Alt{Left: link("http://b#p"), Right: link("http://a#z")},
		},
		{"mod over mapped link", mod("*", link("http://a#p")), mod("*", link("http://b#p"))},
		{"mod over transitive collapses", mod("*", link("http://a#part")), mod("*", link("http://b#partOf"))},
		{
			"custom mod keeps bounds",
			&sparqlast.Mod{Modifier: sparqlast.ModCustom, Min: &two, Max: &two, Sub: link("http://a#part")},
			&sparqlast.Mod{Modifier: sparqlast.ModCustom, Min: &two, Max: &two, Sub: link("http://b#partOf")},
		},
		{"input nesting collapses to outer", mod("*", mod("+", link("http://a#p"))), mod("*", link("http://b#p"))},
		{"unmapped input nesting collapses", mod("?", mod("*", link("http://a#z"))), mod("?", link("http://a#z"))},
		{"triple nesting keeps outermost", mod("+", mod("*", mod("?", link("http://a#q")))), mod("+", link("http://b#q"))},
		{"opaque kept", &sparqlast.OpaquePath{Type: "negated", Fields: map[string]any{"x": "y"}}, &sparqlast.OpaquePath{Type: "negated", Fields: map[string]any{"x": "y"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession(m)
			assert.Equal(t, tt.want, s.transformPath(tt.in))
			assert.Empty(t, s.Diagnostics())
		})
	}
}

func TestTransformPath_ComplexLinkIsReported(t *testing.T) {
	s := newSession(compiler.Mapping{"http://a#p": or(rel("x"), rel("y"))})

	out := s.transformPath(&sparqlast.Inverse{Sub: link("http://a#p")})

	assert.Equal(t, &sparqlast.Inverse{Sub: link("http://a#p")}, out)
	assert.True(t, diag.HasCode(s.Diagnostics(), diag.CodeUnsupportedExpression))
}
