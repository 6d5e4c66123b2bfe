package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeight_Conversions(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"2.27 kg", 2.27},
		{"2.27 Kilograms", 2.27},
		{"500 g", 0.5},
		{"5 lbs", 2.26796185},
		{"1 pound", 0.45359237},
		{"16 oz", 0.45359237},
		{"2,27 kg", 2.27},
	}
	for _, tt := range tests {
		kg, ok := Weight(tt.raw)
		require.True(t, ok, tt.raw)
		assert.InDelta(t, tt.want, kg, 0.0001, tt.raw)
	}
}

func TestWeight_OutOfRangeDropped(t *testing.T) {
	for _, raw := range []string{"900 kg", "0.5 g", "0 kg"} {
		_, ok := Weight(raw)
		assert.False(t, ok, raw)
	}
}

func TestWeight_Unparseable(t *testing.T) {
	for _, raw := range []string{"", "heavy", "kg 2", "2.27"} {
		_, ok := Weight(raw)
		assert.False(t, ok, raw)
	}
}

func TestDimensions_Conversions(t *testing.T) {
	d, ok := Dimensions("30 x 20 x 15 cm")
	require.True(t, ok)
	assert.InDelta(t, 30, d.LengthCM, 0.001)
	assert.InDelta(t, 20, d.WidthCM, 0.001)
	assert.InDelta(t, 15, d.HeightCM, 0.001)

	d, ok = Dimensions("12 x 8 x 4 inches")
	require.True(t, ok)
	assert.InDelta(t, 30.48, d.LengthCM, 0.001)
	assert.InDelta(t, 20.32, d.WidthCM, 0.001)
	assert.InDelta(t, 10.16, d.HeightCM, 0.001)

	d, ok = Dimensions("300 x 200 x 150 mm")
	require.True(t, ok)
	assert.InDelta(t, 30, d.LengthCM, 0.001)
}

func TestDimensions_MultiplicationSign(t *testing.T) {
	d, ok := Dimensions("20 × 20 × 28 cm")
	require.True(t, ok)
	assert.InDelta(t, 28, d.HeightCM, 0.001)
}

func TestDimensions_AnySideOutOfRangeInvalidatesAll(t *testing.T) {
	_, ok := Dimensions("900 x 20 x 15 cm")
	assert.False(t, ok)

	_, ok = Dimensions("30 x 0.01 x 15 cm")
	assert.False(t, ok)
}

func TestDimensions_Unparseable(t *testing.T) {
	for _, raw := range []string{"", "30 x 20 cm", "big x wide x tall cm"} {
		_, ok := Dimensions(raw)
		assert.False(t, ok, raw)
	}
}
