package recon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedScale(t *testing.T) {
	tests := []struct {
		name         string
		count        int
		expected     int
		expectCoerce bool
	}{
		{
			name:     "positive count passes through",
			count:    3,
			expected: 3,
		},
		{
			name:     "one passes through",
			count:    1,
			expected: 1,
		},
		{
			name:         "zero is coerced to one",
			count:        0,
			expected:     1,
			expectCoerce: true,
		},
		{
			name:         "negative is coerced to one",
			count:        -2,
			expected:     1,
			expectCoerce: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, diags := Fixed{Count: tt.count}.Instances("listener-x")
			assert.Equal(t, tt.expected, got)
			if tt.expectCoerce {
				entries := diags.Entries()
				assert.Len(t, entries, 1)
				assert.Equal(t, DiagWarning, entries[0].Level)
				assert.Contains(t, entries[0].Message, "listener-x")
			} else {
				assert.True(t, diags.Empty())
			}
		})
	}
}

func TestSingletonScale(t *testing.T) {
	got, diags := Singleton{}.Instances("anything")
	assert.Equal(t, 1, got)
	assert.True(t, diags.Empty())
}
