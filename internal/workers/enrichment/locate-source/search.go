// internal/workers/enrichment/locate-source/search.go
package locatesource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"orion-enrichment/internal/common/errors"
)

// SearchClient is the external web search capability. It takes a query string
// and returns the raw result text; URL extraction happens in the handler.
type SearchClient interface {
	Search(ctx context.Context, query string) (string, error)
}

// WebSearchClient implements SearchClient against a programmable search API
// (key + engine ID + query, JSON response treated as raw text).
type WebSearchClient struct {
	config *Config
	client *http.Client
}

func NewWebSearchClient(config *Config) *WebSearchClient {
	return &WebSearchClient{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

func (c *WebSearchClient) Search(ctx context.Context, query string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildSearchURL(query), nil)
	if err != nil {
		return "", err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.IsTimeout(err) {
			return "", errors.NewSearchTimeoutError(query)
		}
		return "", errors.NewSearchFailedError(query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.NewSearchFailedError(query, fmt.Errorf("search API returned %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.NewSearchFailedError(query, err)
	}

	return string(body), nil
}

func (c *WebSearchClient) buildSearchURL(query string) string {
	baseURL, _ := url.Parse(c.config.SearchAPIBaseURL)
	params := url.Values{}
	params.Add("key", c.config.SearchAPIKey)
	params.Add("cx", c.config.SearchEngineID)
	params.Add("q", query)
	params.Add("num", fmt.Sprintf("%d", c.config.MaxResults))
	baseURL.RawQuery = params.Encode()
	return baseURL.String()
}
