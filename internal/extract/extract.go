package extract

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// DefaultMaxChars is the character budget applied when the caller does not
// supply one. Sized at a ~1:4 token-to-character ratio so a full extraction
// fits comfortably into a downstream model prompt.
const DefaultMaxChars = 40000

// ParseError reports markup that could not be parsed into any usable tree.
// Most malformed HTML still parses best-effort; this is the rare hard failure.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse markup: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// tagClass classifies element names consulted during traversal. The table is
// fixed, process-wide configuration, never per-request state.
type tagClass int

const (
	classOther tagClass = iota
	// classBoilerplate subtrees are pruned entirely: their text contributes
	// nothing even when they nest content-bearing tags.
	classBoilerplate
	// classContent marks the tags that usually carry the article body. The
	// strict ContentTags strategy collects only from these.
	classContent
)

var tagClasses = map[string]tagClass{
	"script":   classBoilerplate,
	"style":    classBoilerplate,
	"noscript": classBoilerplate,
	"header":   classBoilerplate,
	"footer":   classBoilerplate,
	"nav":      classBoilerplate,

	"p":          classContent,
	"h1":         classContent,
	"h2":         classContent,
	"h3":         classContent,
	"h4":         classContent,
	"h5":         classContent,
	"h6":         classContent,
	"li":         classContent,
	"blockquote": classContent,
}

func classify(name string) tagClass {
	return tagClasses[strings.ToLower(name)]
}

// Text extracts the readable body text from markup and truncates it to the
// first maxChars characters. A non-positive maxChars falls back to
// DefaultMaxChars. The result never exceeds maxChars characters; it may be
// empty when the page carries no visible text.
//
// Every visible text run under <body> (or the whole document when no body
// exists) survives except those inside boilerplate subtrees: script, style,
// noscript, header, footer and nav are pruned wholesale. Fragments are joined
// with single spaces and whitespace runs collapse to one space.
func Text(markup []byte, maxChars int) (string, error) {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	root, err := parse(markup)
	if err != nil {
		return "", err
	}
	scope := findFirst(root, "body")
	if scope == nil {
		scope = root
	}
	var parts []string
	collectVisible(scope, &parts)
	return Truncate(NormalizeWhitespace(strings.Join(parts, " ")), maxChars), nil
}

// Links returns every raw href value carried by an <a> element, in document
// order, duplicates preserved, unresolved and unmodified. Boilerplate is NOT
// pruned here: anchors inside navigation or footers still count.
func Links(markup []byte) ([]string, error) {
	root, err := parse(markup)
	if err != nil {
		return nil, err
	}
	links := make([]string, 0, 16)
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && strings.EqualFold(n.Data, "a") {
			if href, ok := attr(n, "href"); ok {
				links = append(links, href)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return links, nil
}

func parse(markup []byte) (*html.Node, error) {
	root, err := html.Parse(bytes.NewReader(markup))
	if err != nil || root == nil {
		if err == nil {
			err = fmt.Errorf("no document root")
		}
		return nil, &ParseError{Err: err}
	}
	return root, nil
}

// collectVisible appends trimmed, non-empty text runs in document order,
// skipping pruned subtrees. Filtering during the walk keeps the tree intact
// rather than mutating it mid-iteration.
func collectVisible(n *html.Node, out *[]string) {
	switch n.Type {
	case html.ElementNode:
		if classify(n.Data) == classBoilerplate {
			return
		}
	case html.TextNode:
		if t := strings.TrimSpace(n.Data); t != "" {
			*out = append(*out, t)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectVisible(c, out)
	}
}

func findFirst(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && strings.EqualFold(n.Data, tag) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

// NormalizeWhitespace collapses every run of spaces, tabs and newlines into a
// single space and trims the ends. Applying it twice is a no-op.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate returns the first maxChars characters of s, counted in runes so a
// multi-byte character is never split. The cut is a raw slice: it may land
// mid-word.
func Truncate(s string, maxChars int) string {
	if maxChars <= 0 {
		return ""
	}
	seen := 0
	for i := range s {
		if seen == maxChars {
			return s[:i]
		}
		seen++
	}
	return s
}
