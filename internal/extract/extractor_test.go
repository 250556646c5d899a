package extract

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestVisibleText_MatchesTextFunction(t *testing.T) {
	want, err := Text([]byte(articlePage), 50)
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	got, err := VisibleText{}.Text([]byte(articlePage), 50)
	if err != nil {
		t.Fatalf("VisibleText: %v", err)
	}
	if got != want {
		t.Fatalf("VisibleText diverged from Text: %q vs %q", got, want)
	}
}

func TestContentTags_KeepsOnlyContentBearingTags(t *testing.T) {
	got, err := ContentTags{}.Text([]byte(articlePage), DefaultMaxChars)
	if err != nil {
		t.Fatalf("ContentTags: %v", err)
	}
	for _, want := range []string{"Main Heading", "First paragraph", "First item", "A quoted line."} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in strict output: %q", want, got)
		}
	}
	// Bare-div text is visible but not content-bearing, so strict mode drops it.
	if strings.Contains(got, "bare div") {
		t.Errorf("strict mode kept non-content text: %q", got)
	}
	for _, banned := range []string{"Site chrome", "navigation menu", "Copyright footer", "var tracked"} {
		if strings.Contains(got, banned) {
			t.Errorf("boilerplate %q leaked into strict output: %q", banned, got)
		}
	}
}

func TestContentTags_HonorsBudget(t *testing.T) {
	for _, budget := range []int{1, 9, 64} {
		got, err := ContentTags{}.Text([]byte(articlePage), budget)
		if err != nil {
			t.Fatalf("ContentTags(budget=%d): %v", budget, err)
		}
		if n := utf8.RuneCountInString(got); n > budget {
			t.Errorf("budget %d exceeded: %d chars", budget, n)
		}
	}
}

func TestContentTags_PrunesBoilerplateNestedInContent(t *testing.T) {
	html := `<body><p>kept</p><blockquote>quote<footer>chrome <p>hidden</p></footer></blockquote></body>`
	got, err := ContentTags{}.Text([]byte(html), DefaultMaxChars)
	if err != nil {
		t.Fatalf("ContentTags: %v", err)
	}
	if strings.Contains(got, "chrome") || strings.Contains(got, "hidden") {
		t.Fatalf("boilerplate nested in content leaked: %q", got)
	}
	if !strings.Contains(got, "kept") || !strings.Contains(got, "quote") {
		t.Fatalf("expected content text, got %q", got)
	}
}

func TestContentTags_NestedContentTagsCollectedOnce(t *testing.T) {
	html := `<body><ul><li>item <p>para</p></li></ul><blockquote><p>quoted</p></blockquote></body>`
	got, err := ContentTags{}.Text([]byte(html), DefaultMaxChars)
	if err != nil {
		t.Fatalf("ContentTags: %v", err)
	}
	// A content tag inside another content tag contributes its text exactly
	// once, through the outermost match.
	if got != "item para quoted" {
		t.Fatalf("expected %q, got %q", "item para quoted", got)
	}
}

func TestForMode(t *testing.T) {
	if _, ok := ForMode("content").(ContentTags); !ok {
		t.Fatalf("ForMode(content) should select ContentTags")
	}
	if _, ok := ForMode("visible").(VisibleText); !ok {
		t.Fatalf("ForMode(visible) should select VisibleText")
	}
	if _, ok := ForMode("").(VisibleText); !ok {
		t.Fatalf("unknown mode should fall back to VisibleText")
	}
}
