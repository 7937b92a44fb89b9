// internal/workers/enrichment/scrape-live-data/jsonld.go
package scrapelivedata

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// placeTypes are the schema.org categories eligible for fact extraction.
var placeTypes = []string{"Place", "LocalBusiness", "Restaurant", "TouristAttraction", "Museum"}

type placeFacts struct {
	operatingHours *string
	rating         *string
	websiteURL     *string
}

// extractStructuredData walks every JSON-LD script block in the document and
// collects facts from place-typed records. First match wins per field; a
// malformed block is skipped so it cannot abort extraction from the others.
func (h *Handler) extractStructuredData(doc *goquery.Document, url string) placeFacts {
	var facts placeFacts

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		raw := strings.TrimSpace(sel.Text())
		if raw == "" {
			return
		}

		var data interface{}
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			h.logger.Warn("skipping malformed structured data block", map[string]interface{}{
				"url":   url,
				"error": err.Error(),
			})
			return
		}

		for _, item := range graphItems(data) {
			record, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			if !isPlaceType(record["@type"]) {
				continue
			}

			if facts.operatingHours == nil {
				if hours := joinedHours(record["openingHours"]); hours != "" {
					facts.operatingHours = &hours
				}
			}
			if facts.rating == nil {
				if rating := aggregateRatingValue(record["aggregateRating"]); rating != "" {
					facts.rating = &rating
				}
			}
			if facts.websiteURL == nil {
				if site, ok := record["url"].(string); ok && site != "" {
					facts.websiteURL = &site
				}
			}
		}
	})

	return facts
}

// graphItems normalizes the three shapes a JSON-LD payload takes: a @graph
// wrapper, a bare array, or a single record.
func graphItems(data interface{}) []interface{} {
	switch d := data.(type) {
	case []interface{}:
		return d
	case map[string]interface{}:
		if graph, ok := d["@graph"].([]interface{}); ok {
			return graph
		}
		return []interface{}{d}
	}
	return nil
}

// isPlaceType reports whether the @type declaration matches a place-like
// category. The declaration may be a single string or a list of strings.
func isPlaceType(declared interface{}) bool {
	switch t := declared.(type) {
	case string:
		for _, placeType := range placeTypes {
			if strings.Contains(t, placeType) {
				return true
			}
		}
	case []interface{}:
		for _, entry := range t {
			if s, ok := entry.(string); ok && isPlaceType(s) {
				return true
			}
		}
	}
	return false
}

// joinedHours renders an openingHours field, joining list values with ", ".
func joinedHours(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case []interface{}:
		parts := make([]string, 0, len(v))
		for _, entry := range v {
			if s := stringifyValue(entry); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	}
	return ""
}

// aggregateRatingValue pulls ratingValue out of an aggregateRating record.
func aggregateRatingValue(value interface{}) string {
	rating, ok := value.(map[string]interface{})
	if !ok {
		return ""
	}
	return stringifyValue(rating["ratingValue"])
}

func stringifyValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}
