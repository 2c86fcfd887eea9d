package diag

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_ReportKeepsOrder(t *testing.T) {
	c := NewCollector(nil)
	c.Report(CodeCellDropped, "cell#1", "entity1 missing")
	c.Report(CodeUnknownComparator, "http://x#weird", "no filter form for %q", "weird")

	ds := c.Diagnostics()
	require.Len(t, ds, 2)
	assert.Equal(t, CodeCellDropped, ds[0].Code)
	assert.Equal(t, `no filter form for "weird"`, ds[1].Message)
	assert.Equal(t, 2, c.Len())
}

func TestCollector_DiagnosticsReturnsCopy(t *testing.T) {
	c := NewCollector(nil)
	c.Report(CodeEmptyExpansion, "u", "empty")

	ds := c.Diagnostics()
	ds[0].Message = "changed"

	assert.Equal(t, "empty", c.Diagnostics()[0].Message)
}

func TestCollector_LogsAtWarn(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	c := NewCollector(logger)
	c.Report(CodeUnsupportedOccurrence, "http://x#p", "only greater-than 0 is supported")

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "code=UNSUPPORTED_OCCURRENCE")
	assert.Contains(t, out, "subject=http://x#p")
}

func TestDiagnostic_String(t *testing.T) {
	tests := []struct {
		name string
		d    Diagnostic
		want string
	}{
		{"with subject", Diagnostic{Code: CodeCellDropped, Message: "m", Subject: "s"}, "CELL_DROPPED: m (s)"},
		{"without subject", Diagnostic{Code: CodeCellDropped, Message: "m"}, "CELL_DROPPED: m"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.d.String())
		})
	}
}

func TestHasCode(t *testing.T) {
	ds := []Diagnostic{{Code: CodeCellDropped}, {Code: CodeEmptyExpansion}}
	assert.True(t, HasCode(ds, CodeEmptyExpansion))
	assert.False(t, HasCode(ds, CodeUnknownComparator))
	assert.False(t, HasCode(nil, CodeCellDropped))
}
