package contract

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_AcceptsParserOutput(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "select_papers.json"))
	require.NoError(t, err)

	assert.NoError(t, Validate(data))
}

func TestValidate_Accepts(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"bare group", `{"type":"group","patterns":[]}`},
		{"bgp without triples", `{"type":"bgp"}`},
		{"null patterns", `{"type":"group","patterns":null}`},
		{"unknown node kind", `{"type":"minus","left":{"type":"bgp","triples":[]},"right":[1,2]}`},
		{"language key", `{"type":"triple","subject":{"type":"variable","value":"s"},"predicate":{"type":"uri","value":"p"},"object":{"type":"literal","value":"chat","language":"fr"}}`},
		{"custom mod", `{"ast":{"type":"path_triple","subject":{"type":"variable","value":"s"},"path":{"type":"mod","modifier":"custom","min":1,"max":null,"subPath":{"type":"link","uri":"p"}},"object":{"type":"blank","value":"b"}},"limit":null}`},
		{"extra envelope keys", `{"ast":{"type":"bgp","triples":[]},"queryType":"ASK","valuesClause":{"vars":[]}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, Validate([]byte(tt.doc)))
		})
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not an object", `[1,2]`},
		{"missing type", `{"patterns":[]}`},
		{"empty type", `{"type":""}`},
		{"triple without subject", `{"type":"triple","predicate":{"type":"uri","value":"p"},"object":{"type":"uri","value":"o"}}`},
		{"numeric literal value", `{"type":"literal","value":12}`},
		{"filter without expression", `{"type":"filter"}`},
		{"patterns not a list", `{"type":"group","patterns":{"type":"bgp"}}`},
		{"string limit", `{"ast":{"type":"bgp"},"limit":"10"}`},
		{"link without uri", `{"type":"path_triple","subject":{"type":"variable","value":"s"},"path":{"type":"link"},"object":{"type":"variable","value":"o"}}`},
		{"nested bad node", `{"ast":{"type":"group","patterns":[{"type":"optional"}]}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate([]byte(tt.doc))
			require.Error(t, err)

			var cerr *Error
			require.True(t, errors.As(err, &cerr), "got %T: %v", err, err)
			assert.NotEmpty(t, cerr.Violations)
			assert.Contains(t, cerr.Error(), "contract violation")
		})
	}
}

func TestValidate_MalformedJSON(t *testing.T) {
	err := Validate([]byte(`{"type":`))
	require.Error(t, err)

	var cerr *Error
	assert.False(t, errors.As(err, &cerr))
}

func TestError_Message(t *testing.T) {
	err := &Error{Violations: []Violation{
		{Path: "ast.patterns.0", Message: "field not allowed"},
		{Message: "second"},
	}}
	assert.Equal(t, "contract violation at ast.patterns.0: field not allowed (and 1 more)", err.Error())
	assert.Equal(t, "contract violation", (&Error{}).Error())
}

func TestValidator_Concurrent(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	done := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() { done <- v.Validate([]byte(`{"type":"bgp","triples":[]}`)) }()
	}
	for i := 0; i < 8; i++ {
		assert.NoError(t, <-done)
	}
}
