package extract

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ecotrace/carbon-cli/internal/model"
)

var titleCaser = cases.Title(language.English)

// knownMaterials is scanned in order; longer, more specific names first so
// "stainless steel" wins over "steel".
var knownMaterials = []string{
	"stainless steel", "carbon fiber", "cardboard", "aluminum", "aluminium",
	"plastic", "silicone", "ceramic", "leather", "polyester", "bamboo",
	"cotton", "rubber", "nylon", "glass", "steel", "paper", "wood", "wool",
}

func materialRules() []Rule {
	return []Rule{
		{
			Name: "spec_table_material",
			Tier: model.TierHigh,
			Apply: func(d *Document) (string, bool) {
				raw, ok := d.specValue("material type", "material composition", "fabric type", "material")
				if !ok {
					return "", false
				}
				if m, found := matchMaterial(raw); found {
					return m, true
				}
				return strings.ToLower(raw), true
			},
		},
		{
			Name: "text_material",
			Tier: model.TierMedium,
			Apply: func(d *Document) (string, bool) {
				return matchMaterial(d.Title + " " + strings.Join(d.Bullets, " ") + " " + d.Description)
			},
		},
		{
			Name: "category_fallback_material",
			Tier: model.TierLow,
			Apply: func(d *Document) (string, bool) {
				if cat, ok := DetectCategory(d); ok && cat.Material != "" {
					return cat.Material, true
				}
				return "", false
			},
		},
	}
}

func matchMaterial(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, m := range knownMaterials {
		if strings.Contains(lower, m) {
			if m == "aluminium" {
				m = "aluminum"
			}
			return m, true
		}
	}
	return "", false
}

var madeInRe = regexp.MustCompile(`(?i)\b(?:made|manufactured|produced)\s+in\s+(?:the\s+)?([A-Z][A-Za-z]+(?:\s+[A-Z][A-Za-z]+){0,2})`)

func originRules() []Rule {
	return []Rule{
		{
			Name: "spec_table_origin",
			Tier: model.TierHigh,
			Apply: func(d *Document) (string, bool) {
				raw, ok := d.specValue("country of origin", "origin")
				if !ok || raw == "" {
					return "", false
				}
				return strings.ToLower(raw), true
			},
		},
		{
			Name: "text_made_in",
			Tier: model.TierMedium,
			Apply: func(d *Document) (string, bool) {
				m := madeInRe.FindStringSubmatch(d.Text)
				if m == nil {
					return "", false
				}
				return strings.ToLower(strings.TrimSpace(m[1])), true
			},
		},
	}
}

var bylineRe = regexp.MustCompile(`(?i)(?:visit\s+the\s+(.+?)\s+store|brand:\s*([^|,;]+))`)

func brandRules() []Rule {
	return []Rule{
		{
			Name: "spec_table_brand",
			Tier: model.TierHigh,
			Apply: func(d *Document) (string, bool) {
				raw, ok := d.specValue("brand name", "brand", "manufacturer")
				if !ok || raw == "" {
					return "", false
				}
				return titleCaser.String(strings.ToLower(raw)), true
			},
		},
		{
			Name: "byline_brand",
			Tier: model.TierMedium,
			Apply: func(d *Document) (string, bool) {
				m := bylineRe.FindStringSubmatch(d.Text)
				if m == nil {
					return "", false
				}
				brand := m[1]
				if brand == "" {
					brand = m[2]
				}
				brand = strings.TrimSpace(brand)
				if brand == "" || len(brand) > 40 {
					return "", false
				}
				return titleCaser.String(strings.ToLower(brand)), true
			},
		},
		{
			Name: "title_leading_brand",
			Tier: model.TierLow,
			Apply: func(d *Document) (string, bool) {
				words := strings.Fields(d.Title)
				if len(words) == 0 {
					return "", false
				}
				first := strings.Trim(words[0], "|,-:")
				if len(first) < 2 || len(first) > 25 {
					return "", false
				}
				return titleCaser.String(strings.ToLower(first)), true
			},
		},
	}
}

var dimsRe = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*[x×]\s*(\d+(?:[.,]\d+)?)\s*[x×]\s*(\d+(?:[.,]\d+)?)\s*(cm|mm|in|inch|inches|")`)

func dimensionRules() []Rule {
	return []Rule{
		{
			Name: "spec_table_dimensions",
			Tier: model.TierHigh,
			Apply: func(d *Document) (string, bool) {
				raw, ok := d.specValue("product dimensions", "package dimensions", "item dimensions", "dimensions")
				if !ok {
					return "", false
				}
				m := dimsRe.FindString(raw)
				return m, m != ""
			},
		},
		{
			Name: "text_dimensions",
			Tier: model.TierMedium,
			Apply: func(d *Document) (string, bool) {
				m := dimsRe.FindString(stripNonContainer(d.Text))
				return m, m != ""
			},
		},
	}
}

var asinURLRe = regexp.MustCompile(`/(?:dp|gp/product)/([A-Z0-9]{10})`)

func asinRules() []Rule {
	return []Rule{
		{
			Name: "spec_table_asin",
			Tier: model.TierHigh,
			Apply: func(d *Document) (string, bool) {
				raw, ok := d.specValue("asin")
				if !ok || len(raw) != 10 {
					return "", false
				}
				return strings.ToUpper(raw), true
			},
		},
		{
			Name: "url_asin",
			Tier: model.TierHigh,
			Apply: func(d *Document) (string, bool) {
				u, err := url.Parse(d.URL)
				if err != nil {
					return "", false
				}
				m := asinURLRe.FindStringSubmatch(u.Path)
				if m == nil {
					return "", false
				}
				return m[1], true
			},
		},
	}
}

func titleRules() []Rule {
	return []Rule{
		{
			Name: "page_title",
			Tier: model.TierHigh,
			Apply: func(d *Document) (string, bool) {
				return d.Title, d.Title != ""
			},
		},
	}
}
