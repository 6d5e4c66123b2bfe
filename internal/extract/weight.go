package extract

import (
	"regexp"
	"strings"

	"github.com/ecotrace/carbon-cli/internal/model"
)

var (
	// weightRe matches a number with a recognized weight unit.
	weightRe = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(kg|kilograms?|g|grams?|lbs?|pounds?|oz|ounces?)\b`)

	// containerWeightRe additionally requires a container noun right after
	// the unit ("2.27kg tub"), the strongest free-text weight signal.
	containerWeightRe = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(kg|kilograms?|g|grams?|lbs?|pounds?|oz|ounces?)\s+(?:tub|bag|jar|bottle|box|pack|pouch|can|tin|tube|roll|drum|sack)\b`)
)

// weightRules is the ordered rule chain for the container weight, highest
// reliability first.
func weightRules() []Rule {
	return []Rule{
		{
			Name: "spec_table_weight",
			Tier: model.TierHigh,
			Apply: func(d *Document) (string, bool) {
				raw, ok := d.specValue("item weight", "net weight", "weight")
				if !ok {
					return "", false
				}
				m := weightRe.FindString(stripNonContainer(raw))
				return m, m != ""
			},
		},
		{
			Name: "container_suffix_weight",
			Tier: model.TierHigh,
			Apply: func(d *Document) (string, bool) {
				text := stripNonContainer(d.Title + " " + strings.Join(d.Bullets, " "))
				m := containerWeightRe.FindStringSubmatch(text)
				if m == nil {
					return "", false
				}
				return m[1] + " " + m[2], true
			},
		},
		{
			Name: "bullet_weight",
			Tier: model.TierMedium,
			Apply: func(d *Document) (string, bool) {
				for _, b := range d.Bullets {
					m := weightRe.FindString(stripNonContainer(b))
					if m != "" {
						return m, true
					}
				}
				return "", false
			},
		},
		{
			Name: "description_weight",
			Tier: model.TierLow,
			Apply: func(d *Document) (string, bool) {
				text := stripNonContainer(d.Description)
				if text == "" {
					text = stripNonContainer(d.Title)
				}
				m := weightRe.FindString(text)
				return m, m != ""
			},
		},
		{
			Name: "category_fallback_weight",
			Tier: model.TierLow,
			Apply: func(d *Document) (string, bool) {
				if cat, ok := DetectCategory(d); ok {
					return cat.DefaultWeight, true
				}
				return "", false
			},
		},
	}
}

// Category carries the fallback defaults used when a listing says nothing
// usable about weight or material.
type Category struct {
	Name          string
	DefaultWeight string // raw weight text, normalized downstream
	Material      string
	Keywords      []string
}

// categories is scanned in order; first keyword match wins.
var categories = []Category{
	{Name: "protein powder", DefaultWeight: "2 kg", Material: "plastic", Keywords: []string{"protein powder", "whey", "mass gainer", "isolate protein"}},
	{Name: "supplement", DefaultWeight: "0.25 kg", Material: "plastic", Keywords: []string{"capsules", "vitamin", "supplement", "tablets"}},
	{Name: "smartphone", DefaultWeight: "0.2 kg", Material: "aluminum", Keywords: []string{"smartphone", "iphone", "android phone"}},
	{Name: "laptop", DefaultWeight: "2 kg", Material: "aluminum", Keywords: []string{"laptop", "notebook computer", "macbook"}},
	{Name: "headphones", DefaultWeight: "0.3 kg", Material: "plastic", Keywords: []string{"headphones", "earbuds", "headset"}},
	{Name: "book", DefaultWeight: "0.35 kg", Material: "paper", Keywords: []string{"paperback", "hardcover", "book"}},
	{Name: "clothing", DefaultWeight: "0.25 kg", Material: "cotton", Keywords: []string{"t-shirt", "shirt", "hoodie", "jeans", "jacket"}},
	{Name: "footwear", DefaultWeight: "0.9 kg", Material: "leather", Keywords: []string{"sneakers", "running shoes", "boots", "shoes"}},
	{Name: "cookware", DefaultWeight: "1.5 kg", Material: "stainless steel", Keywords: []string{"frying pan", "saucepan", "cookware", "skillet"}},
	{Name: "water bottle", DefaultWeight: "0.3 kg", Material: "stainless steel", Keywords: []string{"water bottle", "flask", "thermos"}},
}

// DetectCategory scans the title and bullets for a known product category.
func DetectCategory(d *Document) (Category, bool) {
	haystack := strings.ToLower(d.Title + " " + strings.Join(d.Bullets, " "))
	for _, cat := range categories {
		for _, kw := range cat.Keywords {
			if strings.Contains(haystack, kw) {
				return cat, true
			}
		}
	}
	return Category{}, false
}
