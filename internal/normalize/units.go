// Package normalize converts recognized units to canonical form and
// range-validates the results. It is pure: it never re-fetches and never
// mutates its inputs.
package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ecotrace/carbon-cli/internal/model"
)

// Sanity ranges. Values outside these bounds are dropped to absent rather
// than kept as confidently wrong data.
const (
	MinWeightKG = 0.001
	MaxWeightKG = 500.0
	MinSideCM   = 0.1
	MaxSideCM   = 500.0
)

// kgPerUnit converts recognized weight units to kilograms.
var kgPerUnit = map[string]float64{
	"kg":        1,
	"kilogram":  1,
	"kilograms": 1,
	"g":         0.001,
	"gram":      0.001,
	"grams":     0.001,
	"lb":        0.45359237,
	"lbs":       0.45359237,
	"pound":     0.45359237,
	"pounds":    0.45359237,
	"oz":        0.028349523125,
	"ounce":     0.028349523125,
	"ounces":    0.028349523125,
}

// cmPerUnit converts recognized length units to centimeters.
var cmPerUnit = map[string]float64{
	"cm":     1,
	"mm":     0.1,
	"in":     2.54,
	"inch":   2.54,
	"inches": 2.54,
	`"`:      2.54,
}

var weightValueRe = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(kg|kilograms?|g|grams?|lbs?|pounds?|oz|ounces?)\b`)

// Weight parses a raw weight phrase ("2.27 kg", "5 lbs") into kilograms.
// Out-of-range results report ok=false so callers drop the field instead
// of keeping an implausible value.
func Weight(raw string) (kg float64, ok bool) {
	m := weightValueRe.FindStringSubmatch(raw)
	if m == nil {
		return 0, false
	}
	value, err := parseNumber(m[1])
	if err != nil {
		return 0, false
	}
	factor, known := kgPerUnit[strings.ToLower(m[2])]
	if !known {
		return 0, false
	}
	kg = value * factor
	if kg < MinWeightKG || kg > MaxWeightKG {
		return 0, false
	}
	return kg, true
}

var dimsValueRe = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*[x×]\s*(\d+(?:[.,]\d+)?)\s*[x×]\s*(\d+(?:[.,]\d+)?)\s*(cm|mm|in|inch|inches|")`)

// Dimensions parses a raw dimension phrase ("30 x 20 x 15 cm",
// "12 x 8 x 4 inches") into centimeters. Any side outside the sanity
// range invalidates the whole triple.
func Dimensions(raw string) (*model.Dimensions, bool) {
	m := dimsValueRe.FindStringSubmatch(raw)
	if m == nil {
		return nil, false
	}
	factor, known := cmPerUnit[strings.ToLower(m[4])]
	if !known {
		return nil, false
	}

	sides := make([]float64, 3)
	for i := 0; i < 3; i++ {
		v, err := parseNumber(m[i+1])
		if err != nil {
			return nil, false
		}
		sides[i] = v * factor
		if sides[i] < MinSideCM || sides[i] > MaxSideCM {
			return nil, false
		}
	}

	return &model.Dimensions{LengthCM: sides[0], WidthCM: sides[1], HeightCM: sides[2]}, true
}

func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
}
