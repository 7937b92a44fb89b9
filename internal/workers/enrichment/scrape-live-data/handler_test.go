// internal/workers/enrichment/scrape-live-data/handler_test.go
package scrapelivedata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonhttp "orion-enrichment/internal/common/http"
	"orion-enrichment/internal/common/logger"
)

const restaurantHTML = `
<html>
<head>
	<title>The Mock Nook</title>
	<script type="application/ld+json">
	{
		"@context": "https://schema.org",
		"@type": "Restaurant",
		"name": "The Mock Nook",
		"openingHours": ["Mo-Fr 11:00-22:00", "Sa-Su 10:00-23:00"],
		"aggregateRating": {"@type": "AggregateRating", "ratingValue": "4.7"},
		"url": "https://official-mock-nook.com"
	}
	</script>
</head>
<body><h1>Welcome to The Mock Nook</h1></body>
</html>`

const emptyHTML = `<html><head><title>Empty Page</title></head><body><p>Nothing to see here.</p></body></html>`

func newTestHandler(t *testing.T, timeout time.Duration) *Handler {
	t.Helper()
	client := commonhttp.NewClient(timeout, commonhttp.WithUserAgents([]string{"test-agent/1.0"}))
	return NewHandler(&Config{Timeout: timeout}, client, logger.NewTestLogger(t))
}

func serveHTML(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestExecute_JSONLDExtraction(t *testing.T) {
	server := serveHTML(t, restaurantHTML)
	handler := newTestHandler(t, 3*time.Second)

	result := handler.Execute(context.Background(), server.URL)

	require.NotNil(t, result)
	assert.Nil(t, result.Error)
	require.NotNil(t, result.OperatingHours)
	assert.Equal(t, "Mo-Fr 11:00-22:00, Sa-Su 10:00-23:00", *result.OperatingHours)
	require.NotNil(t, result.Rating)
	assert.Equal(t, "4.7", *result.Rating)
	require.NotNil(t, result.WebsiteURL)
	assert.Equal(t, "https://official-mock-nook.com", *result.WebsiteURL)
	assert.False(t, result.ScrapedAt.IsZero())
}

func TestExecute_SingleStringHoursAndNumericRating(t *testing.T) {
	html := `<html><head><script type="application/ld+json">
	{
		"@type": "Museum",
		"openingHours": "Mo-Su 09:00-22:00",
		"aggregateRating": {"ratingValue": 4.8},
		"url": "https://example.com"
	}
	</script></head><body></body></html>`
	server := serveHTML(t, html)
	handler := newTestHandler(t, 3*time.Second)

	result := handler.Execute(context.Background(), server.URL)

	assert.Nil(t, result.Error)
	require.NotNil(t, result.OperatingHours)
	assert.Equal(t, "Mo-Su 09:00-22:00", *result.OperatingHours)
	require.NotNil(t, result.Rating)
	assert.Equal(t, "4.8", *result.Rating)
	require.NotNil(t, result.WebsiteURL)
	assert.Equal(t, "https://example.com", *result.WebsiteURL)
}

func TestExecute_GraphWrapper(t *testing.T) {
	html := `<html><head><script type="application/ld+json">
	{
		"@context": "https://schema.org",
		"@graph": [
			{"@type": "WebSite", "url": "https://ignored.example.com"},
			{"@type": "LocalBusiness", "openingHours": "Tu-Su 10:00-18:00", "url": "https://business.example.com"}
		]
	}
	</script></head><body></body></html>`
	server := serveHTML(t, html)
	handler := newTestHandler(t, 3*time.Second)

	result := handler.Execute(context.Background(), server.URL)

	assert.Nil(t, result.Error)
	require.NotNil(t, result.OperatingHours)
	assert.Equal(t, "Tu-Su 10:00-18:00", *result.OperatingHours)
	require.NotNil(t, result.WebsiteURL)
	assert.Equal(t, "https://business.example.com", *result.WebsiteURL)
	assert.Nil(t, result.Rating)
}

func TestExecute_MalformedBlockDoesNotAbortOthers(t *testing.T) {
	html := `<html><head>
	<script type="application/ld+json">{not valid json</script>
	<script type="application/ld+json">
	{"@type": "TouristAttraction", "aggregateRating": {"ratingValue": "4.2"}}
	</script>
	</head><body></body></html>`
	server := serveHTML(t, html)
	handler := newTestHandler(t, 3*time.Second)

	result := handler.Execute(context.Background(), server.URL)

	assert.Nil(t, result.Error)
	require.NotNil(t, result.Rating)
	assert.Equal(t, "4.2", *result.Rating)
}

func TestExecute_FirstMatchWinsAcrossBlocks(t *testing.T) {
	html := `<html><head>
	<script type="application/ld+json">
	{"@type": "Restaurant", "aggregateRating": {"ratingValue": "4.9"}}
	</script>
	<script type="application/ld+json">
	{"@type": "Restaurant", "aggregateRating": {"ratingValue": "1.0"}}
	</script>
	</head><body></body></html>`
	server := serveHTML(t, html)
	handler := newTestHandler(t, 3*time.Second)

	result := handler.Execute(context.Background(), server.URL)

	require.NotNil(t, result.Rating)
	assert.Equal(t, "4.9", *result.Rating)
}

func TestExecute_NonPlaceTypesIgnored(t *testing.T) {
	html := `<html><head><script type="application/ld+json">
	{"@type": "Article", "url": "https://article.example.com", "aggregateRating": {"ratingValue": "5.0"}}
	</script></head><body></body></html>`
	server := serveHTML(t, html)
	handler := newTestHandler(t, 3*time.Second)

	result := handler.Execute(context.Background(), server.URL)

	assert.Nil(t, result.Error)
	assert.Nil(t, result.Rating)
	// No place data means the website URL falls back to the request URL.
	require.NotNil(t, result.WebsiteURL)
	assert.Equal(t, server.URL, *result.WebsiteURL)
}

func TestExecute_NoStructuredData(t *testing.T) {
	server := serveHTML(t, emptyHTML)
	handler := newTestHandler(t, 3*time.Second)

	result := handler.Execute(context.Background(), server.URL)

	assert.Nil(t, result.Error)
	assert.Nil(t, result.OperatingHours)
	assert.Nil(t, result.Rating)
	require.NotNil(t, result.WebsiteURL)
	assert.Equal(t, server.URL, *result.WebsiteURL)
}

func TestExecute_ConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	handler := newTestHandler(t, 2*time.Second)
	result := handler.Execute(context.Background(), url)

	require.NotNil(t, result.Error)
	assert.Contains(t, *result.Error, url)
	assert.Nil(t, result.OperatingHours)
	assert.Nil(t, result.Rating)
	assert.Nil(t, result.WebsiteURL)
	assert.False(t, result.ScrapedAt.IsZero())
}

func TestExecute_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	handler := newTestHandler(t, 2*time.Second)
	result := handler.Execute(context.Background(), server.URL)

	require.NotNil(t, result.Error)
	assert.Contains(t, *result.Error, "unexpected status 500")
	assert.Contains(t, *result.Error, server.URL)
}

func TestExecute_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	t.Cleanup(server.Close)

	handler := newTestHandler(t, 50*time.Millisecond)
	result := handler.Execute(context.Background(), server.URL)

	require.NotNil(t, result.Error)
	assert.Contains(t, *result.Error, server.URL)
	assert.Nil(t, result.WebsiteURL)
}

func TestExecute_SendsConfiguredUserAgent(t *testing.T) {
	var seenUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(emptyHTML))
	}))
	t.Cleanup(server.Close)

	handler := newTestHandler(t, 2*time.Second)
	handler.Execute(context.Background(), server.URL)

	assert.Equal(t, "test-agent/1.0", seenUA)
}
