// internal/workers/enrichment/enrich-itinerary/handler.go
package enrichitinerary

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"orion-enrichment/internal/common/logger"
	"orion-enrichment/internal/common/metrics"
	"orion-enrichment/internal/common/observability"
	"orion-enrichment/internal/models"
)

const (
	TaskType = "enrich-itinerary"
)

// PlaceEnricher enriches one place. Implementations never fail; per-place
// errors arrive inside the EnrichedPlace.
type PlaceEnricher interface {
	Execute(ctx context.Context, place models.Place) models.EnrichedPlace
}

type Handler struct {
	config   *Config
	enricher PlaceEnricher
	limiter  *semaphore.Weighted
	obs      *observability.Observability
	logger   logger.Logger
}

// NewHandler builds the orchestrator. The concurrency limiter is owned by the
// handler, so separate handlers (as tests construct) are fully independent.
// obs may be nil.
func NewHandler(config *Config, enricher PlaceEnricher, obs *observability.Observability, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		enricher: enricher,
		limiter:  semaphore.NewWeighted(int64(config.ConcurrencyLimit)),
		obs:      obs,
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

// Execute enriches every place in the itinerary under the shared concurrency
// cap and reassembles the per-day structure. The output mirrors the input
// 1:1 in day count, segment count and order; reassembly keys off positional
// index, so identical place+note pairs stay distinct. Execute only fails on
// context cancellation, never for per-place reasons.
func (h *Handler) Execute(ctx context.Context, itinerary *models.BaseItinerary) (*models.EnrichedItinerary, error) {
	start := time.Now()

	flat := itinerary.Places()
	h.logger.Info("enriching itinerary", map[string]interface{}{
		"title":  itinerary.Title,
		"days":   len(itinerary.Days),
		"places": len(flat),
	})

	enriched := make([]models.EnrichedPlace, len(flat))

	g, gctx := errgroup.WithContext(ctx)
	for i, place := range flat {
		g.Go(func() error {
			if err := h.limiter.Acquire(gctx, 1); err != nil {
				return err
			}
			defer h.limiter.Release(1)

			metrics.EnrichmentsInFlight.Inc()
			defer metrics.EnrichmentsInFlight.Dec()

			enriched[i] = h.enricher.Execute(gctx, place)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		h.recordRun(ctx, start, "canceled")
		return nil, err
	}

	out := h.reassemble(itinerary, enriched)

	metrics.ItineraryDuration.Observe(time.Since(start).Seconds())
	h.recordRun(ctx, start, "ok")
	h.logger.Info("itinerary enrichment completed", map[string]interface{}{
		"title":    itinerary.Title,
		"places":   len(flat),
		"duration": time.Since(start).String(),
	})

	return out, nil
}

// reassemble rebuilds the day structure from the flat enriched slice, walking
// days and segments in input order so indices line up with Places().
func (h *Handler) reassemble(itinerary *models.BaseItinerary, enriched []models.EnrichedPlace) *models.EnrichedItinerary {
	out := &models.EnrichedItinerary{
		Title: itinerary.Title,
		Days:  make([]models.EnrichedDay, 0, len(itinerary.Days)),
	}

	idx := 0
	for _, day := range itinerary.Days {
		segments := make([]models.EnrichedPlace, 0, len(day.Segments))
		for range day.Segments {
			segments = append(segments, enriched[idx])
			idx++
		}
		out.Days = append(out.Days, models.EnrichedDay{
			Day:      day.Day,
			Segments: segments,
		})
	}

	return out
}

func (h *Handler) recordRun(ctx context.Context, start time.Time, status string) {
	if h.obs != nil {
		h.obs.RecordItineraryDuration(ctx, time.Since(start), status)
	}
}
