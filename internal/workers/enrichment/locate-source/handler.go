// internal/workers/enrichment/locate-source/handler.go
package locatesource

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"orion-enrichment/internal/common/errors"
	"orion-enrichment/internal/common/logger"
	"orion-enrichment/internal/models"
)

const (
	TaskType = "locate-source"
)

// preferredDomains get first pick when search results contain several URLs;
// these sites reliably embed structured place data.
var preferredDomains = []string{"maps.google.com", "tripadvisor.com", "yelp.com"}

var urlPattern = regexp.MustCompile(`https?://[^\s/$.?#].[^\s]*`)

type Handler struct {
	config *Config
	search SearchClient
	cache  URLCache
	logger logger.Logger
}

// NewHandler builds the locator. cache may be nil; location then always goes
// through the search client.
func NewHandler(config *Config, search SearchClient, cache URLCache, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		search: search,
		cache:  cache,
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

// Execute discovers an authoritative source URL for the place. It returns a
// NoSuitableURL error when the search results contain nothing usable.
func (h *Handler) Execute(ctx context.Context, place models.Place) (string, error) {
	if h.cache != nil {
		cached, err := h.cache.GetURL(ctx, place)
		if err != nil {
			// Advisory only: a broken cache never fails a locate.
			h.logger.Warn("locator cache read failed", map[string]interface{}{
				"place": place.Place,
				"error": err.Error(),
			})
		} else if cached != "" {
			h.logger.Debug("locator cache hit", map[string]interface{}{
				"place": place.Place,
				"url":   cached,
			})
			return cached, nil
		}
	}

	query := h.buildQuery(place)
	h.logger.Info("searching for place", map[string]interface{}{
		"place": place.Place,
	})

	rawResults, err := h.search.Search(ctx, query)
	if err != nil {
		return "", err
	}

	located := bestURL(rawResults)
	if located == "" {
		return "", errors.NewNoSuitableURLError(place.Place)
	}

	if h.cache != nil {
		if err := h.cache.SetURL(ctx, place, located); err != nil {
			h.logger.Warn("locator cache write failed", map[string]interface{}{
				"place": place.Place,
				"error": err.Error(),
			})
		}
	}

	return located, nil
}

// buildQuery biases results toward an official source with hours/rating info.
func (h *Handler) buildQuery(place models.Place) string {
	query := fmt.Sprintf("%q %q official website hours rating", place.Place, place.Note)
	return regexp.MustCompile(`\s+`).ReplaceAllString(strings.TrimSpace(query), " ")
}

// bestURL extracts the most promising URL from raw search results: a
// preferred-domain match first, otherwise the first URL found. It does no
// further relevance filtering.
func bestURL(rawResults string) string {
	if rawResults == "" {
		return ""
	}

	urls := urlPattern.FindAllString(rawResults, -1)
	if len(urls) == 0 {
		return ""
	}

	for _, domain := range preferredDomains {
		for _, candidate := range urls {
			if strings.Contains(candidate, domain) {
				return candidate
			}
		}
	}

	return urls[0]
}
