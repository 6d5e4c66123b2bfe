// Package model holds the shared domain types flowing between pipeline
// stages: extracted records, quality assessments, carbon estimates, and
// the merged analysis output.
package model

import "fmt"

// ConfidenceTier classifies how reliable an extraction rule is. Tiers are
// declared on the rule, never computed from the match.
type ConfidenceTier string

const (
	TierHigh   ConfidenceTier = "high"
	TierMedium ConfidenceTier = "medium"
	TierLow    ConfidenceTier = "low"
	TierNone   ConfidenceTier = "none"
)

var tierRank = map[ConfidenceTier]int{
	TierNone:   0,
	TierLow:    1,
	TierMedium: 2,
	TierHigh:   3,
}

// Score maps the tier to the numeric confidence reported in output.
func (t ConfidenceTier) Score() float64 {
	switch t {
	case TierHigh:
		return 1.0
	case TierMedium:
		return 0.7
	case TierLow:
		return 0.4
	default:
		return 0
	}
}

// AtLeast reports whether t is at or above the given tier.
func (t ConfidenceTier) AtLeast(min ConfidenceTier) bool {
	return tierRank[t] >= tierRank[min]
}

// ExtractedField is one attribute's extraction result, tagged with the
// rule that produced it and that rule's confidence tier.
type ExtractedField struct {
	Name       string         `json:"name"`
	RawValue   string         `json:"raw_value,omitempty"`
	Normalized string         `json:"normalized,omitempty"`
	Tier       ConfidenceTier `json:"tier"`
	SourceRule string         `json:"source_rule,omitempty"`
}

// Present reports whether the field was extracted at all.
func (f ExtractedField) Present() bool {
	return f.Tier != TierNone && f.Tier != "" && f.Normalized != ""
}

// Dimensions is a product's bounding box in centimeters.
type Dimensions struct {
	LengthCM float64 `json:"length_cm"`
	WidthCM  float64 `json:"width_cm"`
	HeightCM float64 `json:"height_cm"`
}

// VolumeCM3 returns the bounding-box volume.
func (d *Dimensions) VolumeCM3() float64 {
	return d.LengthCM * d.WidthCM * d.HeightCM
}

func (d *Dimensions) String() string {
	return fmt.Sprintf("%.1f x %.1f x %.1f cm", d.LengthCM, d.WidthCM, d.HeightCM)
}

// AttributeNames lists every attribute the extraction engine targets.
// Completeness scoring divides by its length.
var AttributeNames = []string{
	"title", "weight_kg", "material", "origin", "brand", "dimensions_cm", "asin",
}

// ProductRecord is the typed output of the extraction engine. Typed
// convenience fields mirror the entries in Fields; Fields carries the
// per-attribute provenance.
type ProductRecord struct {
	URL        string                    `json:"url"`
	Title      string                    `json:"title,omitempty"`
	WeightKG   *float64                  `json:"weight_kg,omitempty"`
	Material   string                    `json:"material,omitempty"`
	Origin     string                    `json:"origin,omitempty"`
	Brand      string                    `json:"brand,omitempty"`
	Dimensions *Dimensions               `json:"dimensions,omitempty"`
	ASIN       string                    `json:"asin,omitempty"`
	Fields     map[string]ExtractedField `json:"fields"`
}

// Field returns the extraction result for an attribute; a zero field with
// TierNone when the attribute was never attempted.
func (r *ProductRecord) Field(name string) ExtractedField {
	if f, ok := r.Fields[name]; ok {
		return f
	}
	return ExtractedField{Name: name, Tier: TierNone}
}

// Populated counts how many target attributes were extracted.
func (r *ProductRecord) Populated() int {
	n := 0
	for _, name := range AttributeNames {
		if r.Field(name).Present() {
			n++
		}
	}
	return n
}
