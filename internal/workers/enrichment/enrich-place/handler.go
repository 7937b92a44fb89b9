// internal/workers/enrichment/enrich-place/handler.go
package enrichplace

import (
	"context"
	goerrors "errors"
	"fmt"
	"time"

	"orion-enrichment/internal/common/errors"
	"orion-enrichment/internal/common/logger"
	"orion-enrichment/internal/common/metrics"
	"orion-enrichment/internal/models"
)

const (
	TaskType = "enrich-place"
)

// Locator discovers a source URL for a place.
type Locator interface {
	Execute(ctx context.Context, place models.Place) (string, error)
}

// Scraper extracts live facts from a URL. It never fails; errors are carried
// inside the returned LiveData.
type Scraper interface {
	Execute(ctx context.Context, url string) *models.LiveData
}

type Handler struct {
	locator Locator
	scraper Scraper
	logger  logger.Logger
}

func NewHandler(locator Locator, scraper Scraper, log logger.Logger) *Handler {
	return &Handler{
		locator: locator,
		scraper: scraper,
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

// Execute enriches a single place. It always returns a complete
// EnrichedPlace: whatever goes wrong in locating or scraping ends up in
// LiveData.Error, never as a returned error or panic. This is the failure
// isolation boundary that keeps one bad source from failing a batch.
func (h *Handler) Execute(ctx context.Context, place models.Place) models.EnrichedPlace {
	liveData := h.enrich(ctx, place)

	if liveData.Error != nil {
		metrics.PlacesEnriched.WithLabelValues("error").Inc()
	} else {
		metrics.PlacesEnriched.WithLabelValues("ok").Inc()
	}

	return models.EnrichedPlace{
		Place:    place.Place,
		Note:     place.Note,
		LiveData: liveData,
	}
}

func (h *Handler) enrich(ctx context.Context, place models.Place) (liveData *models.LiveData) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("enrichment panicked", map[string]interface{}{
				"place": place.Place,
				"panic": fmt.Sprintf("%v", r),
			})
			liveData = failureData(fmt.Errorf("unexpected failure enriching %q: %v", place.Place, r))
		}
	}()

	url, err := h.locator.Execute(ctx, place)
	if err != nil {
		h.logger.Warn("failed to locate source", map[string]interface{}{
			"place": place.Place,
			"error": err.Error(),
		})
		metrics.PlaceFailures.WithLabelValues("locate", errorCode(err)).Inc()
		return failureData(err)
	}

	h.logger.Info("scraping located URL", map[string]interface{}{
		"place": place.Place,
		"url":   url,
	})
	liveData = h.scraper.Execute(ctx, url)
	if liveData.Error != nil {
		metrics.PlaceFailures.WithLabelValues("scrape", string(errors.ErrCodeFetchFailed)).Inc()
	}
	return liveData
}

// failureData converts an error from either stage into the LiveData shape the
// response carries: all fact fields null, error populated, attempt timestamped.
func failureData(err error) *models.LiveData {
	msg := errorMessage(err)
	return &models.LiveData{
		ScrapedAt: time.Now().UTC(),
		Error:     &msg,
	}
}

func errorMessage(err error) string {
	var stdErr *errors.StandardError
	if goerrors.As(err, &stdErr) {
		if stdErr.Details != "" {
			return fmt.Sprintf("%s (%s)", stdErr.Message, stdErr.Details)
		}
		return stdErr.Message
	}
	return err.Error()
}

func errorCode(err error) string {
	var stdErr *errors.StandardError
	if goerrors.As(err, &stdErr) {
		return string(stdErr.Code)
	}
	return string(errors.ErrCodeInternal)
}
