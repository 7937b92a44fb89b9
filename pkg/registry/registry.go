// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadRegistry reads a task registry from a JSON file.
func LoadRegistry(path string) (*TaskRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry file %s: %w", path, err)
	}

	var reg TaskRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("failed to parse registry file %s: %w", path, err)
	}

	return &reg, nil
}

// Save writes the registry back to a JSON file with stable formatting.
func (r *TaskRegistry) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write registry file %s: %w", path, err)
	}

	return nil
}

// FindTask returns the task with the given type, or nil when absent.
func (r *TaskRegistry) FindTask(taskType string) *Task {
	for i := range r.Tasks {
		if r.Tasks[i].TaskType == taskType {
			return &r.Tasks[i]
		}
	}
	return nil
}

// placeSchema describes a single itinerary stop.
var placeSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"place": map[string]interface{}{"type": "string", "minLength": 1},
		"note":  map[string]interface{}{"type": "string"},
	},
	"required":             []interface{}{"place", "note"},
	"additionalProperties": false,
}

// ItinerarySchema is the input contract for the enrich-itinerary task. The
// HTTP layer validates request bodies against it before any work starts.
var ItinerarySchema = map[string]interface{}{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type":    "object",
	"properties": map[string]interface{}{
		"title": map[string]interface{}{"type": "string", "minLength": 1},
		"days": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"day": map[string]interface{}{"type": "integer", "minimum": 1},
					"segments": map[string]interface{}{
						"type":  "array",
						"items": placeSchema,
					},
				},
				"required":             []interface{}{"day", "segments"},
				"additionalProperties": false,
			},
		},
	},
	"required":             []interface{}{"title", "days"},
	"additionalProperties": false,
}

var liveDataSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"operating_hours": map[string]interface{}{"type": []interface{}{"string", "null"}},
		"rating":          map[string]interface{}{"type": []interface{}{"string", "null"}},
		"website_url":     map[string]interface{}{"type": []interface{}{"string", "null"}},
		"scraped_at":      map[string]interface{}{"type": "string", "format": "date-time"},
		"error":           map[string]interface{}{"type": []interface{}{"string", "null"}},
	},
	"required": []interface{}{"scraped_at"},
}

// Default returns the built-in catalog of enrichment tasks.
func Default() *TaskRegistry {
	return &TaskRegistry{
		Version:     "1.0.0",
		LastUpdated: "2026-08-01",
		Tasks: []Task{
			{
				ID:          "enrichment-locate-source",
				DisplayName: "Locate Source",
				Description: "Discovers the best public web page for a place using the configured search provider",
				Category:    "enrichment",
				Version:     "1.0.0",
				TaskType:    "locate-source",
				InputSchema: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"place": map[string]interface{}{"type": "string", "minLength": 1},
						"note":  map[string]interface{}{"type": "string"},
					},
					"required": []interface{}{"place"},
				},
				OutputSchema: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"url": map[string]interface{}{"type": "string", "format": "uri"},
					},
					"required": []interface{}{"url"},
				},
				ErrorCodes: []string{"SEARCH_FAILED", "SEARCH_TIMEOUT", "NO_SUITABLE_URL"},
				Timeout:    "10s",
				Tags:       []string{"search", "discovery"},
			},
			{
				ID:          "enrichment-scrape-live-data",
				DisplayName: "Scrape Live Data",
				Description: "Fetches a page and extracts opening hours, rating and website from its structured data",
				Category:    "enrichment",
				Version:     "1.0.0",
				TaskType:    "scrape-live-data",
				InputSchema: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"url": map[string]interface{}{"type": "string", "format": "uri"},
					},
					"required": []interface{}{"url"},
				},
				OutputSchema: liveDataSchema,
				ErrorCodes:   []string{"FETCH_FAILED", "FETCH_TIMEOUT", "PARSE_FAILED"},
				Timeout:      "15s",
				Tags:         []string{"scraping", "structured-data"},
			},
			{
				ID:           "enrichment-enrich-place",
				DisplayName:  "Enrich Place",
				Description:  "Runs discovery and scraping for a single place, converting failures into live data errors",
				Category:     "enrichment",
				Version:      "1.0.0",
				TaskType:     "enrich-place",
				InputSchema:  placeSchema,
				OutputSchema: liveDataSchema,
				ErrorCodes:   []string{"SEARCH_FAILED", "NO_SUITABLE_URL", "FETCH_FAILED", "PARSE_FAILED"},
				Timeout:      "30s",
				Tags:         []string{"pipeline"},
			},
			{
				ID:           "enrichment-enrich-itinerary",
				DisplayName:  "Enrich Itinerary",
				Description:  "Enriches every place in an itinerary concurrently and mirrors its structure",
				Category:     "enrichment",
				Version:      "1.0.0",
				TaskType:     "enrich-itinerary",
				InputSchema:  ItinerarySchema,
				OutputSchema: map[string]interface{}{"type": "object"},
				ErrorCodes:   []string{"VALIDATION_FAILED", "INTERNAL_ERROR"},
				Timeout:      "120s",
				Tags:         []string{"pipeline", "orchestration"},
			},
		},
	}
}
