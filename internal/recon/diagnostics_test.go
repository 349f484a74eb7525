package recon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiagnosticsAccumulate(t *testing.T) {
	var d Diagnostics
	assert.True(t, d.Empty())
	assert.False(t, d.HasErrors())

	d.Warningf("scale on %s looks odd", "a")
	assert.False(t, d.HasErrors())
	assert.False(t, d.Empty())

	d.Errorf("binding %s failed", "b")
	assert.True(t, d.HasErrors())

	entries := d.Entries()
	assert.Len(t, entries, 2)
	assert.Equal(t, DiagWarning, entries[0].Level)
	assert.Equal(t, "scale on a looks odd", entries[0].Message)
	assert.Equal(t, DiagError, entries[1].Level)
}

func TestDiagnosticsMergePreservesOrder(t *testing.T) {
	var a, b Diagnostics
	a.Warningf("first")
	b.Errorf("second")
	b.Warningf("third")

	a.Merge(b)

	entries := a.Entries()
	assert.Len(t, entries, 3)
	assert.Equal(t, "first", entries[0].Message)
	assert.Equal(t, "second", entries[1].Message)
	assert.Equal(t, "third", entries[2].Message)
	assert.True(t, a.HasErrors())
}

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{Level: DiagError, Message: "boom"}
	assert.Equal(t, "error: boom", d.String())
	w := Diagnostic{Level: DiagWarning, Message: "meh"}
	assert.Equal(t, "warning: meh", w.String())
}
