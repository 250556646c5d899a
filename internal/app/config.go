package app

import (
	"errors"
	"strings"
	"time"

	"github.com/VadimDu/url-text-fetch-mcp/internal/extract"
	"github.com/VadimDu/url-text-fetch-mcp/internal/fetch"
)

// Config holds runtime configuration for the fetcher.
type Config struct {
	// Fetch
	UserAgent       string
	Timeout         time.Duration
	RedirectMaxHops int
	MaxConcurrent   int

	// Extraction
	// MaxChars is the default character budget when a request omits one.
	MaxChars int
	// ExtractMode selects the text strategy: "visible" (default) keeps all
	// text remaining after boilerplate pruning, "content" keeps only
	// paragraph/heading/list/quote tags.
	ExtractMode string

	// Behavior
	Verbose bool
}

const (
	defaultUserAgent = "url-text-fetch/1.0 (+https://github.com/VadimDu/url-text-fetch-mcp)"
)

// withDefaults fills unset fields with sane defaults.
func (c Config) withDefaults() Config {
	if strings.TrimSpace(c.UserAgent) == "" {
		c.UserAgent = defaultUserAgent
	}
	if c.Timeout <= 0 {
		c.Timeout = fetch.DefaultTimeout
	}
	if c.MaxChars <= 0 {
		c.MaxChars = extract.DefaultMaxChars
	}
	if c.ExtractMode == "" {
		c.ExtractMode = "visible"
	}
	return c
}

// ValidateConfig performs minimal schema validation for required settings.
func ValidateConfig(cfg Config) error {
	if cfg.MaxChars < 0 {
		return errors.New("config: negative character budget is not allowed")
	}
	if cfg.Timeout < 0 || cfg.RedirectMaxHops < 0 || cfg.MaxConcurrent < 0 {
		return errors.New("config: negative limits are not allowed")
	}
	switch strings.ToLower(strings.TrimSpace(cfg.ExtractMode)) {
	case "", "visible", "content":
	default:
		return errors.New("config: extract mode must be \"visible\" or \"content\"")
	}
	return nil
}
