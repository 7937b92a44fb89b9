// internal/workers/enrichment/scrape-live-data/handler.go
package scrapelivedata

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"orion-enrichment/internal/common/errors"
	"orion-enrichment/internal/common/logger"
	"orion-enrichment/internal/common/metrics"
	"orion-enrichment/internal/models"
)

const (
	TaskType = "scrape-live-data"
)

// Fetcher is the outbound HTTP capability the scraper depends on. The
// production implementation rotates user agents and rate-limits per host.
type Fetcher interface {
	Get(ctx context.Context, url string) (*http.Response, error)
}

type Handler struct {
	config *Config
	client Fetcher
	logger logger.Logger
}

func NewHandler(config *Config, client Fetcher, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		client: client,
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

// Execute fetches url and extracts structured place facts from it. It never
// returns an error: any failure lands in LiveData.Error with the URL and the
// root cause, and ScrapedAt timestamps the attempt either way.
func (h *Handler) Execute(ctx context.Context, url string) *models.LiveData {
	scrapedAt := time.Now().UTC()
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	resp, err := h.client.Get(ctx, url)
	if err != nil {
		if errors.IsTimeout(err) {
			cause := fmt.Errorf("request timed out after %s", h.config.Timeout)
			return h.failed(url, scrapedAt, start, errors.NewFetchTimeoutError(url), cause)
		}
		return h.failed(url, scrapedAt, start, errors.NewFetchFailedError(url, err), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		cause := fmt.Errorf("unexpected status %d", resp.StatusCode)
		return h.failed(url, scrapedAt, start, errors.NewFetchFailedError(url, cause), cause)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		cause := fmt.Errorf("parse document: %w", err)
		return h.failed(url, scrapedAt, start, errors.NewParseFailedError(url, err), cause)
	}

	facts := h.extractStructuredData(doc, url)

	// Fallback for website URL if not found in structured data.
	if facts.websiteURL == nil {
		u := url
		facts.websiteURL = &u
	}

	metrics.ScrapeDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())
	h.logger.Debug("scrape completed", map[string]interface{}{
		"url":       url,
		"hasHours":  facts.operatingHours != nil,
		"hasRating": facts.rating != nil,
	})

	return &models.LiveData{
		OperatingHours: facts.operatingHours,
		Rating:         facts.rating,
		WebsiteURL:     facts.websiteURL,
		ScrapedAt:      scrapedAt,
		Error:          nil,
	}
}

func (h *Handler) failed(url string, scrapedAt time.Time, start time.Time, stdErr *errors.StandardError, cause error) *models.LiveData {
	msg := fmt.Sprintf("failed to fetch %s: %v", url, cause)

	metrics.ScrapeDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
	metrics.PlaceFailures.WithLabelValues("scrape", string(stdErr.Code)).Inc()
	h.logger.Warn("scrape failed", map[string]interface{}{
		"url":       url,
		"errorCode": string(stdErr.Code),
		"error":     cause.Error(),
	})

	return &models.LiveData{
		ScrapedAt: scrapedAt,
		Error:     &msg,
	}
}
