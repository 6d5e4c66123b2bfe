package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripNonContainer_NutritionalAmounts(t *testing.T) {
	tests := []string{
		"25g Protein Per Serving",
		"5 g of creatine in every scoop",
		"200mg caffeine",
		"Protein: 25g",
		"Sugar 2 g",
		"3g BCAAs",
	}
	for _, in := range tests {
		out := stripNonContainer(in)
		assert.NotRegexp(t, `\d+\s*(?:g|mg)\b`, out, in)
	}
}

func TestStripNonContainer_ServingSizes(t *testing.T) {
	assert.NotContains(t, stripNonContainer("Serving Size: 30g"), "30g")
	assert.NotContains(t, stripNonContainer("30 g per scoop"), "30 g")
}

func TestStripNonContainer_ElectricalRatings(t *testing.T) {
	out := stripNonContainer("Fast 25 W charging, 5000 mAh battery, 220V")
	assert.NotContains(t, out, "25 W")
	assert.NotContains(t, out, "5000 mAh")
	assert.NotContains(t, out, "220V")
}

func TestStripNonContainer_ShippingAndWarranty(t *testing.T) {
	out := stripNonContainer("Ships in 24 hours with a 2 year warranty")
	assert.NotContains(t, out, "24 hours")
	assert.NotContains(t, out, "2 year warranty")
}

func TestStripNonContainer_Percentages(t *testing.T) {
	assert.NotContains(t, stripNonContainer("100% whey isolate"), "100%")
}

func TestStripNonContainer_Counts(t *testing.T) {
	out := stripNonContainer("90 capsules, 30 servings")
	assert.NotContains(t, out, "90 capsules")
	assert.NotContains(t, out, "30 servings")
}

func TestStripNonContainer_KeepsContainerWeight(t *testing.T) {
	out := stripNonContainer("25g Protein Per Serving, 2.27kg tub")
	assert.Contains(t, out, "2.27kg tub")
	assert.NotContains(t, out, "25g Protein")
}

func TestStripNonContainer_KeepsPlainWeight(t *testing.T) {
	assert.Contains(t, stripNonContainer("Item weight: 1.5 kg"), "1.5 kg")
	assert.Contains(t, stripNonContainer("Net weight 5 lbs"), "5 lbs")
}
