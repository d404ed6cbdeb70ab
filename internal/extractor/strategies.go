package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
)

// badgeContainerClass is the exact class attribute the aggregator puts on
// its pill-shaped source attribution chips.
const badgeContainerClass = "flex font-bold bg-light-light dark:bg-tertiary-light dark:text-dark-primary rounded-full px-[0.6rem] py-[5px] gap-[8px] items-center shrink-0"

// headlineTiers: primary heading, then known class-based containers.
var headlineTiers = []textStrategy{
	selectorText("h1"),
	selectorText(".headline"),
	selectorText(".article-title"),
}

// summaryTiers: structured bullet list, single descriptive span, then the
// generic meta description.
var summaryTiers = []textStrategy{
	summaryBulletList,
	selectorText("span[class*='description']"),
	metaDescription,
}

// sourceTiers: attribution badges, legacy class variants as a single batch,
// then a generic text scan.
var sourceTiers = []listStrategy{
	sourceBadges,
	sourceLegacyClasses,
	sourceTextScan,
}

// selectorText returns a strategy yielding the first matching element's
// trimmed text.
func selectorText(selector string) textStrategy {
	return func(doc *goquery.Document) string {
		return strings.TrimSpace(doc.Find(selector).First().Text())
	}
}

// summaryBulletList collects the bullet points of a structured summary list.
func summaryBulletList(doc *goquery.Document) string {
	var points []string
	doc.Find("ul[class*='summary'] li, ol[class*='summary'] li").Each(func(_ int, sel *goquery.Selection) {
		if t := strings.TrimSpace(sel.Text()); t != "" {
			points = append(points, t)
		}
	})
	return strings.Join(points, " ")
}

// metaDescription reads the page's meta description content.
func metaDescription(doc *goquery.Document) string {
	content, _ := doc.Find("meta[name='description']").Attr("content")
	return strings.TrimSpace(content)
}

// sourceBadges collects the inner label of every attribution badge, in
// document order.
func sourceBadges(doc *goquery.Document) []string {
	var sources []string
	seen := make(map[string]bool)

	doc.Find("div[class='" + badgeContainerClass + "']").Each(func(_ int, sel *goquery.Selection) {
		label := strings.TrimSpace(sel.Find("span").First().Text())
		if label != "" && !seen[label] {
			seen[label] = true
			sources = append(sources, label)
		}
	})

	return sources
}

// legacySourceSelectors are older naming variants of the attribution
// containers, tried as one batch: the first selector yielding any matches
// supplies the whole batch, and matches are never mixed across selectors.
var legacySourceSelectors = []string{
	".source",
	".publication",
	".article-source",
	".publisher",
	".source-attribution",
	".byline",
	".source-container",
	".publisher-name",
	".source-name",
	".source-link",
	".primary-source",
	".article-meta",
}

// legacyClassSubstrings are matched case-insensitively against the class
// attribute of the given element name, after the fixed selectors.
var legacyClassSubstrings = []struct {
	element   string
	substring string
}{
	{"span", "source"},
	{"div", "publisher"},
	{"span", "byline"},
}

func sourceLegacyClasses(doc *goquery.Document) []string {
	for _, selector := range legacySourceSelectors {
		if sources := collectText(doc.Find(selector)); len(sources) > 0 {
			return sources
		}
	}

	for _, pattern := range legacyClassSubstrings {
		matches := doc.Find(pattern.element).FilterFunction(func(_ int, sel *goquery.Selection) bool {
			class, ok := sel.Attr("class")
			return ok && strings.Contains(strings.ToLower(class), pattern.substring)
		})
		if sources := collectText(matches); len(sources) > 0 {
			return sources
		}
	}

	return nil
}

// collectText gathers trimmed, deduplicated element texts in document order.
func collectText(sel *goquery.Selection) []string {
	var out []string
	seen := make(map[string]bool)
	sel.Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" && !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	})
	return out
}

// sourceTextScan walks every span, div, and p node and keeps those whose
// text mentions an attribution marker. The full trimmed text of each
// matching node counts as one attribution.
func sourceTextScan(doc *goquery.Document) []string {
	if len(doc.Nodes) == 0 {
		return nil
	}

	nodes, err := htmlquery.QueryAll(doc.Nodes[0], "//span | //div | //p")
	if err != nil {
		return nil
	}

	var sources []string
	seen := make(map[string]bool)
	for _, n := range nodes {
		text := strings.TrimSpace(htmlquery.InnerText(n))
		lower := strings.ToLower(text)
		if text == "" || seen[text] {
			continue
		}
		if strings.Contains(lower, "published by") || strings.Contains(lower, "source:") {
			seen[text] = true
			sources = append(sources, text)
		}
	}
	return sources
}
