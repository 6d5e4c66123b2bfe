// Package extract derives typed product attributes from semi-structured
// listing markup through ordered, confidence-tiered rule chains.
package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
)

// Document is the parsed view of a fetched listing page. Extraction rules
// match against its sections in decreasing order of structure: spec table
// rows first, then feature bullets, then free text.
type Document struct {
	URL         string
	Title       string
	SpecRows    map[string]string // lowercased label -> value
	Bullets     []string
	Description string
	Text        string
}

// ParseDocument builds a Document from raw HTML.
func ParseDocument(rawURL, html string) (*Document, error) {
	gq, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, eris.Wrap(err, "extract: parse html")
	}

	d := &Document{
		URL:      rawURL,
		SpecRows: make(map[string]string),
	}

	d.Title = firstNonEmpty(
		cleanText(gq.Find("#productTitle").First().Text()),
		cleanText(gq.Find("h1").First().Text()),
		cleanText(gq.Find("title").First().Text()),
	)

	// Specification tables: th/td or two-column td rows.
	gq.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		label := cleanText(row.Find("th").First().Text())
		value := cleanText(row.Find("td").First().Text())
		if label == "" {
			cells := row.Find("td")
			if cells.Length() >= 2 {
				label = cleanText(cells.Eq(0).Text())
				value = cleanText(cells.Eq(1).Text())
			}
		}
		if label != "" && value != "" {
			d.SpecRows[strings.ToLower(label)] = value
		}
	})

	// Detail-bullet style "Label : Value" lists double as spec rows.
	gq.Find("#detailBullets_feature_div li, #detail-bullets li").Each(func(_ int, li *goquery.Selection) {
		text := cleanText(li.Text())
		if k, v, ok := strings.Cut(text, ":"); ok {
			k, v = cleanText(k), cleanText(v)
			if k != "" && v != "" {
				d.SpecRows[strings.ToLower(k)] = v
			}
		}
	})

	// Feature bullets.
	gq.Find("#feature-bullets li, ul.a-unordered-list li, ul li").EachWithBreak(func(i int, li *goquery.Selection) bool {
		if i > 60 {
			return false
		}
		text := cleanText(li.Text())
		if len(text) > 3 && len(text) < 500 {
			d.Bullets = append(d.Bullets, text)
		}
		return true
	})

	d.Description = firstNonEmpty(
		cleanText(gq.Find("#productDescription").First().Text()),
		metaContent(gq, "description"),
	)

	gq.Find("script, style, noscript").Remove()
	d.Text = cleanText(gq.Find("body").Text())
	if d.Text == "" {
		d.Text = cleanText(gq.Text())
	}

	return d, nil
}

func metaContent(gq *goquery.Document, name string) string {
	val, _ := gq.Find(`meta[name="` + name + `"]`).First().Attr("content")
	return cleanText(val)
}

var spaceRe = regexp.MustCompile(`\s+`)

func cleanText(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// specValue returns the first spec-row value whose label contains one of
// the given keys, in key priority order. Labels are scanned in sorted
// order so repeated extraction over the same document is deterministic.
func (d *Document) specValue(keys ...string) (string, bool) {
	labels := make([]string, 0, len(d.SpecRows))
	for label := range d.SpecRows {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	for _, key := range keys {
		for _, label := range labels {
			if strings.Contains(label, key) {
				return d.SpecRows[label], true
			}
		}
	}
	return "", false
}
