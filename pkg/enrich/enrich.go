// Package enrich fetches favicons and page metadata for bookmark links
// before they are attached to a group.
//
// The pipeline has two halves with different shapes. Favicon resolution is
// synchronous and pure: a parseable URL maps to a favicon-service URL keyed
// by hostname, anything else maps to a fixed embedded fallback icon. The
// metadata fetch is a single asynchronous request to a remote service and
// degrades to an empty-title result on any failure; callers never see it
// fail outright.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tilemarks/tilemarks/pkg/groups"
	"github.com/tilemarks/tilemarks/pkg/httputil"
	"github.com/tilemarks/tilemarks/pkg/observability"
)

// Default service endpoints. Both are overridable via [Config].
const (
	// DefaultFaviconService is the hostname-templated favicon service.
	// %s is replaced with the link's hostname.
	DefaultFaviconService = "https://icons.duckduckgo.com/ip3/%s.ico"

	// DefaultMetaEndpoint is the metadata service. The target URL is
	// appended percent-encoded as the "url" query parameter.
	DefaultMetaEndpoint = "https://api.linkpreview.dev/v1/preview"
)

// FallbackIcon is the embedded icon substituted when a URL can't be parsed.
// The same icon is the rendering-time substitute when a resolved favicon
// URL fails to load as an image.
const FallbackIcon = "data:image/svg+xml;base64,PHN2ZyB4bWxucz0iaHR0cDovL3d3dy53My5vcmcvMjAwMC9zdmciIHZpZXdCb3g9IjAgMCAyNCAyNCIgZmlsbD0iIzk0YTNiOCI+PHBhdGggZD0iTTEyIDJhMTAgMTAgMCAxIDAgMCAyMCAxMCAxMCAwIDAgMCAwLTIweiIvPjwvc3ZnPg=="

// defaultTimeout bounds a single metadata request.
const defaultTimeout = 10 * time.Second

// Config configures a Client.
type Config struct {
	// FaviconService is a format string with one %s for the hostname.
	FaviconService string

	// MetaEndpoint is the metadata service base URL.
	MetaEndpoint string

	// Timeout bounds each metadata request. Zero means 10s.
	Timeout time.Duration

	// Logger receives fetch-failure logs. Nil means the default logger.
	Logger *log.Logger
}

// Client is the enrichment pipeline.
type Client struct {
	http           *http.Client
	faviconService string
	metaEndpoint   string
	log            *log.Logger
}

// NewClient creates a Client. Zero-value config fields fall back to the
// package defaults.
func NewClient(cfg Config) *Client {
	if cfg.FaviconService == "" {
		cfg.FaviconService = DefaultFaviconService
	}
	if cfg.MetaEndpoint == "" {
		cfg.MetaEndpoint = DefaultMetaEndpoint
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &Client{
		http:           &http.Client{Timeout: cfg.Timeout},
		faviconService: cfg.FaviconService,
		metaEndpoint:   cfg.MetaEndpoint,
		log:            cfg.Logger,
	}
}

// ResolveFavicon maps a link URL to a favicon URL. Pure, never fails:
// unparseable input is an expected branch and yields the embedded fallback.
func (c *Client) ResolveFavicon(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Hostname() == "" {
		observability.Enrich().OnFaviconFallback(context.Background(), rawURL)
		return FallbackIcon
	}
	return fmt.Sprintf(c.faviconService, u.Hostname())
}

// metaResponse is the metadata service's response shape.
type metaResponse struct {
	Data struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Image       struct {
			URL string `json:"url"`
		} `json:"image"`
	} `json:"data"`
}

// FetchMetaData issues one GET to the metadata service for the target URL.
//
// Any failure (request error, non-success status, malformed body) is
// logged and degrades to MetaData{Title: ""}. Missing response fields
// default to empty strings.
func (c *Client) FetchMetaData(ctx context.Context, target string) groups.MetaData {
	start := time.Now()

	meta, err := c.fetchMeta(ctx, target)
	observability.Enrich().OnMetaFetch(ctx, target, time.Since(start), err)
	if err != nil {
		c.log.Warn("metadata fetch failed", "url", target, "err", err)
		return groups.MetaData{Title: ""}
	}
	return meta
}

func (c *Client) fetchMeta(ctx context.Context, target string) (groups.MetaData, error) {
	endpoint := c.metaEndpoint + "?url=" + url.QueryEscape(target)

	var resp metaResponse
	err := httputil.RetryWithBackoff(ctx, func() error {
		return c.getJSON(ctx, endpoint, &resp)
	})
	if err != nil {
		return groups.MetaData{}, err
	}

	return groups.MetaData{
		Title:       resp.Data.Title,
		Description: resp.Data.Description,
		Image:       resp.Data.Image.URL,
	}, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &httputil.RetryableError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return json.NewDecoder(resp.Body).Decode(v)
	case resp.StatusCode >= 500:
		return &httputil.RetryableError{Err: fmt.Errorf("status %d", resp.StatusCode)}
	default:
		return fmt.Errorf("status %d", resp.StatusCode)
	}
}

// Enrich builds a QuickLink for attachment: favicon first (synchronous,
// never fails), then the metadata fetch. Both results are attached
// regardless of partial failure in either step.
func (c *Client) Enrich(ctx context.Context, id, title, rawURL string) groups.QuickLink {
	favicon := c.ResolveFavicon(rawURL)
	meta := c.FetchMetaData(ctx, rawURL)
	return groups.QuickLink{
		ID:      id,
		Title:   title,
		URL:     rawURL,
		Favicon: favicon,
		Meta:    &meta,
	}
}
