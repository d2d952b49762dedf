// Package scraper fetches YouTube search result pages and extracts the
// embedded video listing.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/vidwatch/vidwatch/internal/tracker"
)

const resultsURL = "https://www.youtube.com/results?search_query="

// Config controls the fetch behavior.
type Config struct {
	UserAgent string
	Timeout   time.Duration
}

// Client implements tracker.Scraper using a Colly collector.
type Client struct {
	baseCollector *colly.Collector
	logger        *zap.Logger
}

var _ tracker.Scraper = (*Client)(nil)

// New constructs a configured Colly-based Client.
func New(cfg Config, logger *zap.Logger) *Client {
	base := colly.NewCollector(
		colly.UserAgent(cfg.UserAgent),
	)
	base.AllowURLRevisit = true
	base.WithTransport(&http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          16,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: cfg.Timeout,
		ForceAttemptHTTP2:     true,
	})
	base.SetRequestTimeout(cfg.Timeout)

	return &Client{
		baseCollector: base,
		logger:        logger,
	}
}

// Search fetches the results page for query and returns the extracted
// listing. Entries missing required fields are dropped, not surfaced.
func (c *Client) Search(ctx context.Context, query string) ([]tracker.Video, error) {
	pageURL := resultsURL + url.QueryEscape(query)
	c.logger.Info("Fetching search results", zap.String("url", pageURL))

	body, err := c.fetch(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch results page: %w", err)
	}

	videos, err := ParseResults(body)
	if err != nil {
		return nil, err
	}
	c.logger.Info("Scraped videos",
		zap.String("query", query),
		zap.Int("count", len(videos)),
	)
	return videos, nil
}

func (c *Client) fetch(ctx context.Context, pageURL string) ([]byte, error) {
	collector := c.baseCollector.Clone()
	resultCh := make(chan fetchResult, 1)
	send := func(res fetchResult) {
		select {
		case resultCh <- res:
		default:
		}
	}

	collector.OnResponse(func(r *colly.Response) {
		send(fetchResult{body: append([]byte{}, r.Body...)})
	})
	collector.OnError(func(_ *colly.Response, err error) {
		if err == nil {
			err = errors.New("unknown colly error")
		}
		send(fetchResult{err: err})
	})

	if err := collector.Visit(pageURL); err != nil {
		return nil, err
	}
	collector.Wait()

	select {
	case res := <-resultCh:
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return res.body, res.err
	default:
		return nil, errors.New("fetch produced no result")
	}
}

type fetchResult struct {
	body []byte
	err  error
}
