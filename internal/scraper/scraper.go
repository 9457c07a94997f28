// Package scraper crawls the tools directory and extracts one catalog
// record per detail page.
package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"github.com/mfenderov/aitools/pkg/models"
)

// ErrListing wraps a failure to read the listing page. It aborts the whole
// run, unlike a failed detail page.
var ErrListing = errors.New("listing page unavailable")

// Config holds scraper configuration.
type Config struct {
	Delay        time.Duration // pause after every request
	Timeout      time.Duration
	UserAgent    string
	MaxTools     int    // detail pages visited per run; <= 0 means no cap
	LinkSelector string // anchors on the listing page that point at tools
	Selectors    Selectors
}

// Scraper fetches the listing and detail pages one at a time.
type Scraper struct {
	config    Config
	extractor *Extractor
	now       func() time.Time
}

// New creates a new Scraper with the given configuration.
func New(config Config) *Scraper {
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}
	if config.UserAgent == "" {
		config.UserAgent = "aitools/1.0"
	}
	if config.LinkSelector == "" {
		config.LinkSelector = `a[href^="/ai/"]`
	}
	return &Scraper{
		config:    config,
		extractor: NewExtractor(config.Selectors),
		now:       time.Now,
	}
}

// PageError records a detail page that was skipped.
type PageError struct {
	URL string
	Err error
}

func (e PageError) Error() string {
	return fmt.Sprintf("%s: %v", e.URL, e.Err)
}

// Result is the outcome of one scrape run.
type Result struct {
	Source string
	Listed int // distinct tool links found on the listing
	Tools  []models.Tool
	Errors []PageError
}

// collector returns a collector that visits one URL at a time. Clones share
// its limits but not its callbacks; see abortOnDone.
func (s *Scraper) collector() *colly.Collector {
	c := colly.NewCollector(
		colly.UserAgent(s.config.UserAgent),
		colly.AllowURLRevisit(),
	)

	c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Delay:       s.config.Delay,
		Parallelism: 1,
	})
	c.SetRequestTimeout(s.config.Timeout)

	return c
}

// abortOnDone makes c stop issuing requests once ctx is done. It must be
// installed on the collector that visits, since Clone drops callbacks.
func abortOnDone(ctx context.Context, c *colly.Collector) *colly.Collector {
	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			slog.Debug("scrape cancelled", "url", r.URL.String())
			r.Abort()
		}
	})
	return c
}

// ListToolURLs returns the absolute tool page URLs linked from the listing,
// de-duplicated in page order.
func (s *Scraper) ListToolURLs(ctx context.Context, listingURL string) ([]string, error) {
	return s.listToolURLs(ctx, s.collector(), listingURL)
}

func (s *Scraper) listToolURLs(ctx context.Context, base *colly.Collector, listingURL string) ([]string, error) {
	if _, err := url.ParseRequestURI(listingURL); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrListing, err)
	}

	c := abortOnDone(ctx, base.Clone())
	var links []string
	var fetched bool
	var fetchErr error
	seen := make(map[string]bool)

	c.OnResponse(func(r *colly.Response) {
		fetched = true
	})
	c.OnError(func(r *colly.Response, err error) {
		fetchErr = err
	})
	c.OnHTML(s.config.LinkSelector, func(e *colly.HTMLElement) {
		link := e.Request.AbsoluteURL(e.Attr("href"))
		if link == "" || seen[link] {
			return
		}
		seen[link] = true
		links = append(links, link)
	})

	slog.Debug("fetching listing", "url", listingURL)
	err := c.Visit(listingURL)
	c.Wait()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err == nil {
		err = fetchErr
	}
	if err != nil || !fetched {
		if err == nil {
			err = errors.New("no response")
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrListing, listingURL, err)
	}

	slog.Debug("listing parsed", "url", listingURL, "links", len(links))
	return links, nil
}

// ScrapeTool fetches one detail page and extracts its record.
func (s *Scraper) ScrapeTool(ctx context.Context, pageURL string) (models.Tool, error) {
	return s.scrapeTool(ctx, s.collector(), pageURL)
}

func (s *Scraper) scrapeTool(ctx context.Context, base *colly.Collector, pageURL string) (models.Tool, error) {
	c := abortOnDone(ctx, base.Clone())

	var tool models.Tool
	var parsed bool
	var fetchErr error

	c.OnResponse(func(r *colly.Response) {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
		if err != nil {
			fetchErr = fmt.Errorf("failed to parse page: %w", err)
			return
		}
		tool, fetchErr = s.extractor.Extract(doc.Selection, r.Body, r.Request.URL.String(), s.now())
		parsed = fetchErr == nil
	})
	c.OnError(func(r *colly.Response, err error) {
		fetchErr = err
	})

	err := c.Visit(pageURL)
	c.Wait()

	if ctx.Err() != nil {
		return models.Tool{}, ctx.Err()
	}
	if err == nil {
		err = fetchErr
	}
	if err != nil {
		return models.Tool{}, err
	}
	if !parsed {
		return models.Tool{}, errors.New("no response")
	}
	return tool, nil
}

// Scrape reads the listing, then visits at most MaxTools detail pages in
// order. A detail page that fails is logged and skipped; a listing that
// fails aborts the run.
func (s *Scraper) Scrape(ctx context.Context, listingURL string) (*Result, error) {
	base := s.collector()

	links, err := s.listToolURLs(ctx, base, listingURL)
	if err != nil {
		return nil, err
	}

	res := &Result{Source: listingURL, Listed: len(links)}
	if s.config.MaxTools > 0 && len(links) > s.config.MaxTools {
		links = links[:s.config.MaxTools]
	}

	slog.Info("scraping tools", "listing", listingURL, "found", res.Listed, "visiting", len(links))

	for i, link := range links {
		if ctx.Err() != nil {
			slog.Info("scrape cancelled by context", "tools_scraped", len(res.Tools))
			return res, ctx.Err()
		}

		slog.Debug("scraping tool", "n", i+1, "of", len(links), "url", link)

		tool, err := s.scrapeTool(ctx, base, link)
		if err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			slog.Warn("skipping tool page", "url", link, "error", err)
			res.Errors = append(res.Errors, PageError{URL: link, Err: err})
			continue
		}
		res.Tools = append(res.Tools, tool)
	}

	slog.Info("scrape complete", "listing", listingURL, "tools", len(res.Tools), "skipped", len(res.Errors))
	return res, nil
}
