package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/VadimDu/url-text-fetch-mcp/internal/extract"
	"github.com/VadimDu/url-text-fetch-mcp/internal/fetch"
)

// PageFetcher is the operation surface the builtin tools dispatch to.
// Implementations fetch markup for a URL and run the extraction core on it.
type PageFetcher interface {
	// FetchPageText returns readable page text truncated to maxChars
	// characters; maxChars <= 0 selects the configured default budget.
	FetchPageText(ctx context.Context, url string, maxChars int) (string, error)
	// FetchPageLinks returns every raw href on the page in document order.
	FetchPageLinks(ctx context.Context, url string) ([]string, error)
}

// Deps bundles dependencies for the builtin tool surface.
type Deps struct {
	// Fetcher performs the fetch+extract pipeline. Required.
	Fetcher PageFetcher
	// DefaultMaxChars is used when fetch_url_text omits max_chars.
	// Zero selects extract.DefaultMaxChars.
	DefaultMaxChars int
}

// NewFetcherRegistry registers the page-fetching tool surface:
//   - fetch_url_text: readable body text with an optional character cap
//   - fetch_page_links: every raw hyperlink target on the page
func NewFetcherRegistry(deps Deps) (*Registry, error) {
	if deps.Fetcher == nil {
		return nil, fmt.Errorf("NewFetcherRegistry: Fetcher is nil")
	}
	defaultMax := deps.DefaultMaxChars
	if defaultMax <= 0 {
		defaultMax = extract.DefaultMaxChars
	}

	r := NewRegistry()

	textSchema := json.RawMessage(`{
        "type":"object",
        "properties":{
            "url":{"type":"string","format":"uri"},
            "max_chars":{"type":"integer","minimum":1}
        },
        "required":["url"],
        "additionalProperties":false
    }`)
	if err := r.Register(ToolDefinition{
		StableName:   "fetch_url_text",
		SemVer:       "v1.0.0",
		Description:  "Fetch the main readable body text from a URL web page, with optional size limits",
		JSONSchema:   textSchema,
		Capabilities: []string{"fetch", "extract"},
		Handler: func(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
			var in struct {
				URL      string `json:"url"`
				MaxChars *int   `json:"max_chars"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return nil, fmt.Errorf("invalid args: %w", err)
			}
			u := strings.TrimSpace(in.URL)
			if u == "" {
				return nil, fmt.Errorf("missing url")
			}
			// Only an omitted budget selects the default; an explicit
			// non-positive one is a caller error.
			maxChars := defaultMax
			if in.MaxChars != nil {
				if *in.MaxChars <= 0 {
					return nil, fmt.Errorf("invalid args: max_chars must be positive")
				}
				maxChars = *in.MaxChars
			}
			text, err := deps.Fetcher.FetchPageText(ctx, u, maxChars)
			if err != nil {
				return nil, err
			}
			out := struct {
				URL   string `json:"url"`
				Text  string `json:"text"`
				Chars int    `json:"chars"`
			}{URL: u, Text: text, Chars: utf8.RuneCountInString(text)}
			return json.Marshal(out)
		},
	}); err != nil {
		return nil, err
	}

	linksSchema := json.RawMessage(`{
        "type":"object",
        "properties":{ "url": {"type":"string","format":"uri"} },
        "required":["url"],
        "additionalProperties":false
    }`)
	if err := r.Register(ToolDefinition{
		StableName:   "fetch_page_links",
		SemVer:       "v1.0.0",
		Description:  "Return a list of every URL hyperlink (href) found on a page",
		JSONSchema:   linksSchema,
		Capabilities: []string{"fetch", "links"},
		Handler: func(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
			var in struct {
				URL string `json:"url"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return nil, fmt.Errorf("invalid args: %w", err)
			}
			u := strings.TrimSpace(in.URL)
			if u == "" {
				return nil, fmt.Errorf("missing url")
			}
			links, err := deps.Fetcher.FetchPageLinks(ctx, u)
			if err != nil {
				return nil, err
			}
			if links == nil {
				links = []string{}
			}
			out := struct {
				URL   string   `json:"url"`
				Links []string `json:"links"`
				Count int      `json:"count"`
			}{URL: u, Links: links, Count: len(links)}
			return json.Marshal(out)
		},
	}); err != nil {
		return nil, err
	}

	return r, nil
}

// ClassifyError maps tool errors to stable codes so hosts can react
// deterministically.
func ClassifyError(err error) string {
	if err == nil {
		return ""
	}
	var pe *extract.ParseError
	if errors.As(err, &pe) {
		return "E_PARSE"
	}
	var se *fetch.StatusError
	if errors.As(err, &se) {
		return "E_FETCH"
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "invalid args") || strings.Contains(msg, "missing "):
		return "E_ARGS"
	case strings.Contains(msg, "unknown tool"):
		return "E_UNKNOWN_TOOL"
	case errors.Is(err, context.DeadlineExceeded) || strings.Contains(msg, "timeout"):
		return "E_TIMEOUT"
	default:
		return "E_FETCH"
	}
}
