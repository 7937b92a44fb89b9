// internal/workers/enrichment/locate-source/handler_test.go
package locatesource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orion-enrichment/internal/common/database"
	"orion-enrichment/internal/common/errors"
	"orion-enrichment/internal/common/logger"
	"orion-enrichment/internal/models"
)

// stubSearch implements SearchClient with canned results.
type stubSearch struct {
	results string
	err     error
	queries []string
}

func (s *stubSearch) Search(_ context.Context, query string) (string, error) {
	s.queries = append(s.queries, query)
	if s.err != nil {
		return "", s.err
	}
	return s.results, nil
}

func testPlace() models.Place {
	return models.Place{Place: "Mock Nook", Note: "dinner"}
}

func newCache(t *testing.T) (*RedisURLCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := &database.RedisClient{Client: goredis.NewClient(&goredis.Options{Addr: mr.Addr()})}
	return NewRedisURLCache(client, time.Hour), mr
}

func TestExecute_ReturnsFirstURL(t *testing.T) {
	search := &stubSearch{results: "Top result: https://mock-nook.example.com/info and more text"}
	handler := NewHandler(LoadConfig(), search, nil, logger.NewTestLogger(t))

	url, err := handler.Execute(context.Background(), testPlace())

	require.NoError(t, err)
	assert.Equal(t, "https://mock-nook.example.com/info", url)
	require.Len(t, search.queries, 1)
	assert.Contains(t, search.queries[0], `"Mock Nook"`)
	assert.Contains(t, search.queries[0], `"dinner"`)
	assert.Contains(t, search.queries[0], "official website hours rating")
}

func TestExecute_PrefersKnownDomains(t *testing.T) {
	search := &stubSearch{results: "https://random.example.com/x then https://www.tripadvisor.com/Restaurant_Review"}
	handler := NewHandler(LoadConfig(), search, nil, logger.NewTestLogger(t))

	url, err := handler.Execute(context.Background(), testPlace())

	require.NoError(t, err)
	assert.Equal(t, "https://www.tripadvisor.com/Restaurant_Review", url)
}

func TestExecute_NoURLFound(t *testing.T) {
	search := &stubSearch{results: "no links in here at all"}
	handler := NewHandler(LoadConfig(), search, nil, logger.NewTestLogger(t))

	url, err := handler.Execute(context.Background(), testPlace())

	assert.Empty(t, url)
	require.Error(t, err)
	var stdErr *errors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, errors.ErrCodeNoSuitableURL, stdErr.Code)
}

func TestExecute_EmptyResults(t *testing.T) {
	search := &stubSearch{results: ""}
	handler := NewHandler(LoadConfig(), search, nil, logger.NewTestLogger(t))

	_, err := handler.Execute(context.Background(), testPlace())
	require.Error(t, err)
}

func TestExecute_SearchErrorPropagates(t *testing.T) {
	search := &stubSearch{err: errors.NewSearchTimeoutError("q")}
	handler := NewHandler(LoadConfig(), search, nil, logger.NewTestLogger(t))

	_, err := handler.Execute(context.Background(), testPlace())

	var stdErr *errors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, errors.ErrCodeSearchTimeout, stdErr.Code)
}

func TestExecute_CacheHitSkipsSearch(t *testing.T) {
	cache, _ := newCache(t)
	require.NoError(t, cache.SetURL(context.Background(), testPlace(), "https://cached.example.com"))

	search := &stubSearch{results: "https://fresh.example.com"}
	handler := NewHandler(LoadConfig(), search, cache, logger.NewTestLogger(t))

	url, err := handler.Execute(context.Background(), testPlace())

	require.NoError(t, err)
	assert.Equal(t, "https://cached.example.com", url)
	assert.Empty(t, search.queries)
}

func TestExecute_CachesLocatedURL(t *testing.T) {
	cache, _ := newCache(t)
	search := &stubSearch{results: "https://fresh.example.com/page"}
	handler := NewHandler(LoadConfig(), search, cache, logger.NewTestLogger(t))

	url, err := handler.Execute(context.Background(), testPlace())
	require.NoError(t, err)
	assert.Equal(t, "https://fresh.example.com/page", url)

	cached, err := cache.GetURL(context.Background(), testPlace())
	require.NoError(t, err)
	assert.Equal(t, "https://fresh.example.com/page", cached)
}

func TestExecute_CacheFailureFallsThroughToSearch(t *testing.T) {
	cache, mr := newCache(t)
	mr.Close()

	search := &stubSearch{results: "https://fresh.example.com"}
	handler := NewHandler(LoadConfig(), search, cache, logger.NewTestLogger(t))

	url, err := handler.Execute(context.Background(), testPlace())

	require.NoError(t, err)
	assert.Equal(t, "https://fresh.example.com", url)
}

func TestCacheKey_NormalizesIdentity(t *testing.T) {
	a := cacheKey(models.Place{Place: " Mock Nook ", Note: "Dinner"})
	b := cacheKey(models.Place{Place: "mock nook", Note: "dinner"})
	c := cacheKey(models.Place{Place: "mock nook", Note: "lunch"})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestWebSearchClient_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "test-engine", r.URL.Query().Get("cx"))
		assert.NotEmpty(t, r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(`{"items":[{"link":"https://found.example.com"}]}`))
	}))
	t.Cleanup(server.Close)

	client := NewWebSearchClient(&Config{
		SearchAPIBaseURL: server.URL,
		SearchAPIKey:     "test-key",
		SearchEngineID:   "test-engine",
		Timeout:          2 * time.Second,
		MaxResults:       5,
	})

	raw, err := client.Search(context.Background(), "mock nook dinner")
	require.NoError(t, err)
	assert.Contains(t, raw, "https://found.example.com")
}

func TestWebSearchClient_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(server.Close)

	client := NewWebSearchClient(&Config{
		SearchAPIBaseURL: server.URL,
		Timeout:          2 * time.Second,
	})

	_, err := client.Search(context.Background(), "q")
	var stdErr *errors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, errors.ErrCodeSearchFailed, stdErr.Code)
}

func TestWebSearchClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	t.Cleanup(server.Close)

	client := NewWebSearchClient(&Config{
		SearchAPIBaseURL: server.URL,
		Timeout:          30 * time.Millisecond,
	})

	_, err := client.Search(context.Background(), "q")
	var stdErr *errors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, errors.ErrCodeSearchTimeout, stdErr.Code)
}
