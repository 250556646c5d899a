package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/VadimDu/url-text-fetch-mcp/internal/app"
	"github.com/VadimDu/url-text-fetch-mcp/internal/extract"
	"github.com/VadimDu/url-text-fetch-mcp/internal/tools"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		rawURL      string
		links       bool
		maxChars    int
		extractMode string
		userAgent   string
		timeout     time.Duration
		configPath  string
		catalog     bool
		verbose     bool
	)

	flag.StringVar(&rawURL, "url", "", "Fully-qualified HTTP/HTTPS address of the page to fetch")
	flag.BoolVar(&links, "links", false, "Collect hyperlink targets instead of readable text")
	flag.IntVar(&maxChars, "max.chars", envInt("URLFETCH_MAX_CHARS", 0), "Maximum characters of extracted text (0 selects the default 40000)")
	flag.StringVar(&extractMode, "extract.mode", os.Getenv("URLFETCH_EXTRACT_MODE"), "Text strategy: visible (all text after boilerplate pruning) or content (content tags only)")
	flag.StringVar(&userAgent, "fetch.ua", os.Getenv("URLFETCH_UA"), "Custom User-Agent for page requests")
	flag.DurationVar(&timeout, "fetch.timeout", 0, "Per-request timeout (0 selects the default 10s)")
	flag.StringVar(&configPath, "config", os.Getenv("URLFETCH_CONFIG"), "Optional YAML config file")
	flag.BoolVar(&catalog, "catalog", false, "Print the tool catalog and specs as JSON and exit")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	cfg := app.Config{
		UserAgent:   userAgent,
		Timeout:     timeout,
		MaxChars:    maxChars,
		ExtractMode: extractMode,
		Verbose:     verbose,
	}
	if strings.TrimSpace(configPath) != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Error().Err(err).Str("path", configPath).Msg("load config file")
			os.Exit(1)
		}
		app.ApplyFileConfig(&cfg, fc)
		if cfg.Verbose && !verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}
	}

	a, err := app.New(cfg)
	if err != nil {
		log.Error().Err(err).Msg("init app")
		os.Exit(1)
	}

	if catalog {
		printCatalog(a.Registry())
		return
	}

	if strings.TrimSpace(rawURL) == "" {
		fmt.Fprintln(os.Stderr, "usage: urlfetch -url https://example.com [-links] [-max.chars N]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := run(a, rawURL, links, maxChars); err != nil {
		log.Error().Err(err).Str("code", tools.ClassifyError(err)).Msg("run failed")
		os.Exit(exitCode(err))
	}
}

// run dispatches the requested operation through the tool registry so the
// same arg validation applies as for any other host.
func run(a *app.App, rawURL string, links bool, maxChars int) error {
	ctx := context.Background()

	name := "fetch_url_text"
	args := map[string]any{"url": rawURL}
	if links {
		name = "fetch_page_links"
	} else if maxChars > 0 {
		args["max_chars"] = maxChars
	}
	rawArgs, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode args: %w", err)
	}

	raw, err := a.Registry().Invoke(ctx, name, rawArgs)
	if err != nil {
		return err
	}

	if links {
		var out struct {
			Links []string `json:"links"`
		}
		if err := json.Unmarshal(raw, &out); err != nil {
			return fmt.Errorf("decode result: %w", err)
		}
		for _, l := range out.Links {
			fmt.Println(l)
		}
		return nil
	}
	var out struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("decode result: %w", err)
	}
	fmt.Println(out.Text)
	return nil
}

func printCatalog(r *tools.Registry) {
	out := struct {
		Catalog []tools.ToolMeta `json:"catalog"`
		Specs   []tools.ToolSpec `json:"specs"`
	}{Catalog: r.Catalog(), Specs: r.Specs()}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)
}

// exitCode maps error kinds to exit codes: 2 for unparsable markup, 1 for
// fetch and argument failures.
func exitCode(err error) int {
	var pe *extract.ParseError
	if errors.As(err, &pe) {
		return 2
	}
	return 1
}

func envInt(key string, def int) int {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
