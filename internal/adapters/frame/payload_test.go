package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rftools/ctx/internal/core/domain"
)

func TestPayloadGenerator_BoundsInclusive(t *testing.T) {
	gen, err := NewPayloadGenerator(2, 5)
	require.NoError(t, err)

	seen := map[int]bool{}
	for i := 0; i < 2000; i++ {
		p := gen.Next()
		if len(p) < 2 || len(p) > 5 {
			t.Fatalf("payload length %d outside [2, 5]", len(p))
		}
		seen[len(p)] = true
	}
	// Both endpoints of the inclusive range must be reachable.
	assert.True(t, seen[2], "min length never produced")
	assert.True(t, seen[5], "max length never produced")
}

func TestPayloadGenerator_FixedSize(t *testing.T) {
	gen, err := NewPayloadGenerator(64, 64)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		assert.Len(t, gen.Next(), 64)
	}
}

func TestPayloadGenerator_ZeroLength(t *testing.T) {
	gen, err := NewPayloadGenerator(0, 0)
	require.NoError(t, err)
	assert.Len(t, gen.Next(), 0)
}

func TestPayloadGenerator_InvalidRanges(t *testing.T) {
	cases := []struct {
		name     string
		min, max int
	}{
		{"negative min", -1, 10},
		{"negative max", 0, -5},
		{"min above max", 512, 64},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewPayloadGenerator(tc.min, tc.max)
			require.Error(t, err)
			var rangeErr *domain.InvalidRangeError
			assert.ErrorAs(t, err, &rangeErr)
		})
	}
}

func TestPayloadGenerator_Randomized(t *testing.T) {
	gen, err := NewPayloadGenerator(64, 64)
	require.NoError(t, err)

	a := gen.Next()
	b := gen.Next()
	assert.NotEqual(t, a, b, "consecutive payloads should differ")
}
