package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// junkSelector matches elements that never carry article text: chrome,
// scripts, ad slots and the usual cookie/newsletter overlays.
const junkSelector = "script, style, nav, header, footer, aside, iframe, noscript, form, " +
	".ad, .advertisement, .cookie-banner, .menu, .sidebar, .newsletter, .popup, .modal"

// contentSelectors are tried in order; article-specific containers first,
// bare paragraphs as the generic fallback.
var contentSelectors = []string{
	`[itemprop="articleBody"] p`,
	"main article p",
	".article-body p",
	".story-body p",
	".content-body p",
	"p",
}

// Paragraphs parses raw HTML, strips boilerplate elements and returns the
// candidate body paragraphs: trimmed text blocks longer than minLen that do
// not contain any denylist phrase (case-insensitive). A parse failure yields
// no paragraphs rather than an error; callers treat that as insufficient
// content.
func Paragraphs(html string, minLen int, denylist []string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	doc.Find(junkSelector).Remove()

	var paragraphs []string
	for _, selector := range contentSelectors {
		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			text := strings.TrimSpace(s.Text())
			if len(text) <= minLen {
				return
			}
			if containsAny(text, denylist) {
				return
			}
			paragraphs = append(paragraphs, text)
		})
		if len(paragraphs) > 0 {
			break
		}
	}

	return paragraphs
}

// StripTags returns the plain text of an HTML fragment. RSS descriptions often
// wrap their snippet in anchors and font tags; those are discarded here.
func StripTags(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return strings.TrimSpace(doc.Text())
}

func containsAny(text string, phrases []string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range phrases {
		if phrase != "" && strings.Contains(lower, strings.ToLower(phrase)) {
			return true
		}
	}
	return false
}
