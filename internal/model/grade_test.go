package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGrade_Ordinal(t *testing.T) {
	ord, ok := GradeAPlus.Ordinal()
	assert.True(t, ok)
	assert.Equal(t, 0.0, ord)

	ord, ok = GradeF.Ordinal()
	assert.True(t, ok)
	assert.Equal(t, 5.0, ord)

	_, ok = GradeUnknown.Ordinal()
	assert.False(t, ok)

	_, ok = Grade("Z").Ordinal()
	assert.False(t, ok)
}

func TestGradeFromOrdinal_RoundTrip(t *testing.T) {
	for _, g := range []Grade{GradeAPlus, GradeA, GradeB, GradeC, GradeD, GradeF} {
		ord, ok := g.Ordinal()
		assert.True(t, ok)
		assert.Equal(t, g, GradeFromOrdinal(ord))
	}
}

func TestGradeFromOrdinal_Rounding(t *testing.T) {
	assert.Equal(t, GradeA, GradeFromOrdinal(1.2))
	assert.Equal(t, GradeC, GradeFromOrdinal(2.6))
	// Halfway rounds down the scale (toward the worse grade).
	assert.Equal(t, GradeC, GradeFromOrdinal(2.5))
}

func TestGradeFromOrdinal_Clamps(t *testing.T) {
	assert.Equal(t, GradeAPlus, GradeFromOrdinal(-3))
	assert.Equal(t, GradeF, GradeFromOrdinal(12))
}
