// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PlacesEnriched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichment_places_total",
			Help: "Total number of places processed by the enrichment pipeline",
		},
		[]string{"outcome"},
	)

	PlaceFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichment_place_failures_total",
			Help: "Total number of per-place enrichment failures by stage",
		},
		[]string{"stage", "error_code"},
	)

	ScrapeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "enrichment_scrape_duration_seconds",
			Help: "Duration of single-URL scrape attempts in seconds",
		},
		[]string{"outcome"},
	)

	EnrichmentsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "enrichment_in_flight",
			Help: "Number of place enrichments currently in flight",
		},
	)

	ItineraryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "enrichment_itinerary_duration_seconds",
			Help: "Duration of whole-itinerary enrichment runs in seconds",
		},
	)
)
