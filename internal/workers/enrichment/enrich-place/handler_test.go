// internal/workers/enrichment/enrich-place/handler_test.go
package enrichplace

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orion-enrichment/internal/common/errors"
	"orion-enrichment/internal/common/logger"
	"orion-enrichment/internal/models"
)

type stubLocator struct {
	url   string
	err   error
	panic bool
}

func (s *stubLocator) Execute(_ context.Context, _ models.Place) (string, error) {
	if s.panic {
		panic("locator exploded")
	}
	return s.url, s.err
}

type stubScraper struct {
	liveData *models.LiveData
	seenURL  string
}

func (s *stubScraper) Execute(_ context.Context, url string) *models.LiveData {
	s.seenURL = url
	return s.liveData
}

func strPtr(s string) *string { return &s }

func successLiveData() *models.LiveData {
	return &models.LiveData{
		OperatingHours: strPtr("Mo-Su 09:00-22:00"),
		Rating:         strPtr("4.8"),
		WebsiteURL:     strPtr("https://example.com"),
		ScrapedAt:      time.Now().UTC(),
	}
}

func testPlace() models.Place {
	return models.Place{Place: "Mock Nook", Note: "dinner"}
}

func TestExecute_Success(t *testing.T) {
	locator := &stubLocator{url: "https://located.example.com"}
	scraper := &stubScraper{liveData: successLiveData()}
	handler := NewHandler(locator, scraper, logger.NewTestLogger(t))

	enriched := handler.Execute(context.Background(), testPlace())

	assert.Equal(t, "Mock Nook", enriched.Place)
	assert.Equal(t, "dinner", enriched.Note)
	require.NotNil(t, enriched.LiveData)
	assert.Nil(t, enriched.LiveData.Error)
	assert.Equal(t, "4.8", *enriched.LiveData.Rating)
	assert.Equal(t, "https://located.example.com", scraper.seenURL)
}

func TestExecute_NoURLFound(t *testing.T) {
	locator := &stubLocator{err: errors.NewNoSuitableURLError("Mock Nook")}
	scraper := &stubScraper{liveData: successLiveData()}
	handler := NewHandler(locator, scraper, logger.NewTestLogger(t))

	enriched := handler.Execute(context.Background(), testPlace())

	require.NotNil(t, enriched.LiveData)
	require.NotNil(t, enriched.LiveData.Error)
	assert.Contains(t, *enriched.LiveData.Error, "Could not find a suitable URL")
	assert.Nil(t, enriched.LiveData.OperatingHours)
	assert.Nil(t, enriched.LiveData.Rating)
	assert.Nil(t, enriched.LiveData.WebsiteURL)
	assert.False(t, enriched.LiveData.ScrapedAt.IsZero())
	// Fetch is skipped entirely when no URL was located.
	assert.Empty(t, scraper.seenURL)
}

func TestExecute_SearchFailure(t *testing.T) {
	locator := &stubLocator{err: errors.NewSearchFailedError("q", fmt.Errorf("connection refused"))}
	scraper := &stubScraper{liveData: successLiveData()}
	handler := NewHandler(locator, scraper, logger.NewTestLogger(t))

	enriched := handler.Execute(context.Background(), testPlace())

	require.NotNil(t, enriched.LiveData.Error)
	assert.Contains(t, *enriched.LiveData.Error, "connection refused")
}

func TestExecute_ScrapeFailurePassedThrough(t *testing.T) {
	locator := &stubLocator{url: "https://located.example.com"}
	scraper := &stubScraper{liveData: &models.LiveData{
		ScrapedAt: time.Now().UTC(),
		Error:     strPtr("failed to fetch https://located.example.com: connection reset"),
	}}
	handler := NewHandler(locator, scraper, logger.NewTestLogger(t))

	enriched := handler.Execute(context.Background(), testPlace())

	assert.Equal(t, "Mock Nook", enriched.Place)
	require.NotNil(t, enriched.LiveData.Error)
	assert.Contains(t, *enriched.LiveData.Error, "connection reset")
}

func TestExecute_PanicRecovered(t *testing.T) {
	locator := &stubLocator{panic: true}
	scraper := &stubScraper{liveData: successLiveData()}
	handler := NewHandler(locator, scraper, logger.NewTestLogger(t))

	var enriched models.EnrichedPlace
	require.NotPanics(t, func() {
		enriched = handler.Execute(context.Background(), testPlace())
	})

	assert.Equal(t, "Mock Nook", enriched.Place)
	require.NotNil(t, enriched.LiveData)
	require.NotNil(t, enriched.LiveData.Error)
	assert.Contains(t, *enriched.LiveData.Error, "locator exploded")
}
