package lunar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// maxPageBytes bounds the lunar page read
const maxPageBytes = 4 << 20

// ErrUnexpectedStatus indicates the lunar site answered with a non-200 status
var ErrUnexpectedStatus = errors.New("unexpected status from lunar site")

// DataFetcher retrieves lunar data for a city slug
type DataFetcher interface {
	Fetch(ctx context.Context, city string) (*Data, error)
}

// HTTPFetcher scrapes lunar data over HTTP. Each call makes exactly one request.
type HTTPFetcher struct {
	client  *http.Client
	baseURL string
	siteURL string
}

// NewHTTPFetcher creates a fetcher that requests baseURL+city and resolves images against siteURL
func NewHTTPFetcher(baseURL, siteURL string, timeout time.Duration) *HTTPFetcher {
	transport := &http.Transport{
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   2,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
	}

	return &HTTPFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		baseURL: baseURL,
		siteURL: siteURL,
	}
}

// Fetch downloads and parses the lunar phase page of city
func (f *HTTPFetcher) Fetch(ctx context.Context, city string) (*Data, error) {
	pageURL := f.baseURL + url.PathEscape(city)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	req.Header.Set("User-Agent", "Moon-Schumann-Dashboard/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch lunar page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	data, err := Parse(io.LimitReader(resp.Body, maxPageBytes), f.siteURL)
	if err != nil {
		return nil, err
	}
	data.City = city
	return data, nil
}
