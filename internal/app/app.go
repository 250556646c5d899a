package app

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/VadimDu/url-text-fetch-mcp/internal/extract"
	"github.com/VadimDu/url-text-fetch-mcp/internal/fetch"
	"github.com/VadimDu/url-text-fetch-mcp/internal/tools"
)

// App wires the fetch collaborator, the extraction core, and the tool surface.
// It holds no per-request state: every operation parses its own tree, so
// concurrent invocations need no coordination.
type App struct {
	cfg       Config
	client    *fetch.Client
	extractor extract.Extractor
	registry  *tools.Registry
}

// New builds an App from cfg after validation.
func New(cfg Config) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()
	a := &App{
		cfg: cfg,
		client: &fetch.Client{
			UserAgent:       cfg.UserAgent,
			Timeout:         cfg.Timeout,
			RedirectMaxHops: cfg.RedirectMaxHops,
			MaxConcurrent:   cfg.MaxConcurrent,
		},
		extractor: extract.ForMode(cfg.ExtractMode),
	}
	reg, err := tools.NewFetcherRegistry(tools.Deps{Fetcher: a, DefaultMaxChars: cfg.MaxChars})
	if err != nil {
		return nil, fmt.Errorf("init tool registry: %w", err)
	}
	a.registry = reg
	return a, nil
}

// Registry exposes the tool surface hosting the two operations.
func (a *App) Registry() *tools.Registry { return a.registry }

// FetchPageText retrieves the page at url and extracts its readable text,
// truncated to maxChars characters. maxChars <= 0 selects the configured
// default budget.
func (a *App) FetchPageText(ctx context.Context, url string, maxChars int) (string, error) {
	if maxChars <= 0 {
		maxChars = a.cfg.MaxChars
	}
	started := time.Now()
	markup, _, err := a.client.Get(ctx, url)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	text, err := a.extractor.Text(markup, maxChars)
	if err != nil {
		return "", err
	}
	log.Debug().
		Str("stage", "text").
		Str("url", url).
		Int("markup_bytes", len(markup)).
		Int("chars", utf8.RuneCountInString(text)).
		Int("max_chars", maxChars).
		Int64("duration_ms", time.Since(started).Milliseconds()).
		Msg("extracted page text")
	return text, nil
}

// FetchPageLinks retrieves the page at url and returns every raw hyperlink
// target in document order.
func (a *App) FetchPageLinks(ctx context.Context, url string) ([]string, error) {
	started := time.Now()
	markup, _, err := a.client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	links, err := extract.Links(markup)
	if err != nil {
		return nil, err
	}
	log.Debug().
		Str("stage", "links").
		Str("url", url).
		Int("markup_bytes", len(markup)).
		Int("links", len(links)).
		Int64("duration_ms", time.Since(started).Milliseconds()).
		Msg("collected page links")
	return links, nil
}
