package extract

import "regexp"

// Non-container numeric phrases. A listing for a 2.27 kg protein tub also
// says "25g Protein" and "ships in 24 hours"; those numbers must never be
// read as the container weight. The prefilter strips every recognized
// phrase from the search text before any numeric weight or dimension
// pattern runs against it.
var nonContainerRes = []*regexp.Regexp{
	// Nutritional amounts: "25g Protein", "5 g of creatine", "200mg caffeine".
	regexp.MustCompile(`(?i)\d+(?:[.,]\d+)?\s*(?:g|mg|grams?|milligrams?)\s+(?:of\s+)?(?:protein|sugars?|fat|carbs?|carbohydrates?|fib(?:er|re)|sodium|caffeine|creatine|bcaas?|eaas?|glutamine|collagen|omega|calcium|iron|zinc|vitamin\s*\w*)`),
	// Reversed phrasing: "Protein: 25g", "Protein 25 g per serving".
	regexp.MustCompile(`(?i)(?:protein|sugars?|fat|carbs?|carbohydrates?|fib(?:er|re)|sodium|caffeine|creatine|bcaas?|glutamine|collagen)s?\s*[:\-]?\s*\d+(?:[.,]\d+)?\s*(?:g|mg|grams?|milligrams?)\b`),
	// Serving sizes: "Serving Size 30g", "30 g per serving/scoop".
	regexp.MustCompile(`(?i)serving\s+size\s*[:\-]?\s*\d+(?:[.,]\d+)?\s*(?:g|mg|oz|grams?)`),
	regexp.MustCompile(`(?i)\d+(?:[.,]\d+)?\s*(?:g|mg|grams?)\s*(?:per|/)\s*(?:serving|scoop|capsule|tablet|dose)`),
	// Electrical ratings: "25 W power", "5000 mAh", "220V".
	regexp.MustCompile(`(?i)\d+(?:[.,]\d+)?\s*(?:w|kw|watts?|wh|kwh|v|volts?|mah|amps?|hz)\b`),
	// Shipping and warranty durations: "ships in 24 hours", "2 year warranty".
	regexp.MustCompile(`(?i)ships?\s+(?:with)?in\s+\d+\s*(?:hours?|days?|business\s+days?)`),
	regexp.MustCompile(`(?i)\d+\s*(?:-?\s*)(?:years?|months?)\s+(?:warranty|guarantee)`),
	// Percentages: "100% whey".
	regexp.MustCompile(`(?i)\d+(?:[.,]\d+)?\s*%`),
	// Unit counts that carry a trailing weight-free number.
	regexp.MustCompile(`(?i)\d+\s*(?:servings?|capsules?|tablets?|scoops?|count|ct)\b`),
}

// stripNonContainer removes recognized non-container numeric phrases,
// replacing them with spaces so surrounding token boundaries survive.
func stripNonContainer(text string) string {
	for _, re := range nonContainerRes {
		text = re.ReplaceAllString(text, " ")
	}
	return text
}
