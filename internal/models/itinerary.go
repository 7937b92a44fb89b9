// internal/models/itinerary.go
package models

import "time"

// Place is a single point of interest to be enriched. The place name plus the
// free-text note is all the enrichment pipeline has to work with.
type Place struct {
	Place string `json:"place"`
	Note  string `json:"note"`
}

// Day groups the ordered places visited on one itinerary day.
type Day struct {
	Day      int     `json:"day"`
	Segments []Place `json:"segments"`
}

// BaseItinerary is the inbound request contract. It is never mutated;
// enrichment produces a new EnrichedItinerary mirroring its structure.
type BaseItinerary struct {
	Title string `json:"title"`
	Days  []Day  `json:"days"`
}

// LiveData holds the facts scraped for a single place. Fact fields are
// pointers so absent data serializes as null. ScrapedAt timestamps the
// attempt, not the data, and is set on both success and failure.
type LiveData struct {
	OperatingHours *string   `json:"operating_hours"`
	Rating         *string   `json:"rating"`
	WebsiteURL     *string   `json:"website_url"`
	ScrapedAt      time.Time `json:"scraped_at"`
	Error          *string   `json:"error"`
}

// EnrichedPlace is the original place plus whatever live data the pipeline
// produced for it.
type EnrichedPlace struct {
	Place    string    `json:"place"`
	Note     string    `json:"note"`
	LiveData *LiveData `json:"live_data,omitempty"`
}

type EnrichedDay struct {
	Day      int             `json:"day"`
	Segments []EnrichedPlace `json:"segments"`
}

// EnrichedItinerary is the outbound response contract. Day count, per-day
// segment count and segment order always match the input itinerary.
type EnrichedItinerary struct {
	Title string        `json:"title"`
	Days  []EnrichedDay `json:"days"`
}

// Places flattens all segments across all days in input order.
func (it *BaseItinerary) Places() []Place {
	var all []Place
	for _, day := range it.Days {
		all = append(all, day.Segments...)
	}
	return all
}
