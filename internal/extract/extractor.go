package extract

import (
	"bytes"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Extractor defines a minimal interface for text extraction strategies.
// Implementations must be deterministic, side-effect free, and honor the
// character budget invariant: len(result) <= maxChars in runes.
type Extractor interface {
	Text(markup []byte, maxChars int) (string, error)
}

// VisibleText is the default strategy: after boilerplate pruning it keeps all
// remaining visible text under the body, which matches how real pages spread
// readable content outside strict paragraph tags.
type VisibleText struct{}

func (VisibleText) Text(markup []byte, maxChars int) (string, error) {
	return Text(markup, maxChars)
}

// ContentTags is the strict strategy: it collects text only from the
// content-bearing tags in the classification table (paragraphs, headings,
// list items, blockquotes). Pages that hang their prose off bare divs come
// back thinner here than under VisibleText.
type ContentTags struct{}

func (ContentTags) Text(markup []byte, maxChars int) (string, error) {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return "", &ParseError{Err: err}
	}
	doc.Find(selectorFor(classBoilerplate)).Remove()
	sel := selectorFor(classContent)
	var parts []string
	doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
		// A matched tag nested in another matched tag is already covered by
		// the ancestor's text; collecting it again would duplicate it.
		if s.ParentsFiltered(sel).Length() > 0 {
			return
		}
		if t := strings.TrimSpace(s.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	return Truncate(NormalizeWhitespace(strings.Join(parts, " ")), maxChars), nil
}

// ForMode maps a config string to a strategy. Unknown modes fall back to the
// default VisibleText.
func ForMode(mode string) Extractor {
	if strings.EqualFold(strings.TrimSpace(mode), "content") {
		return ContentTags{}
	}
	return VisibleText{}
}

// selectorFor renders the tags of one class as a CSS selector, sorted for
// deterministic matching order.
func selectorFor(class tagClass) string {
	tags := make([]string, 0, len(tagClasses))
	for tag, c := range tagClasses {
		if c == class {
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)
	return strings.Join(tags, ", ")
}
