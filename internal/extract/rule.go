package extract

import (
	"go.uber.org/zap"

	"github.com/ecotrace/carbon-cli/internal/model"
)

// Rule is one extraction attempt for an attribute: a matcher plus the
// confidence tier baked into its definition. Tiers are declared, never
// computed, so a low-tier rule can never report a high-tier result.
type Rule struct {
	Name  string
	Tier  model.ConfidenceTier
	Apply func(d *Document) (string, bool)
}

// firstMatch evaluates rules in order and stops at the first success.
// Rules are expected to be ordered from highest to lowest reliability, so
// low-confidence rules only run when everything above them failed. A
// non-match is not an error, just a fall-through.
func firstMatch(attr string, doc *Document, rules []Rule) (model.ExtractedField, bool) {
	for _, r := range rules {
		raw, ok := r.Apply(doc)
		if !ok {
			zap.L().Debug("extract: rule did not match",
				zap.String("attribute", attr),
				zap.String("rule", r.Name),
			)
			continue
		}
		return model.ExtractedField{
			Name:       attr,
			RawValue:   raw,
			Normalized: raw,
			Tier:       r.Tier,
			SourceRule: r.Name,
		}, true
	}
	return model.ExtractedField{Name: attr, Tier: model.TierNone}, false
}
