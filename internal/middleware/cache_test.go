package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garagex/garagex/internal/config"
)

func cacheEcho(t *testing.T, cfg config.CacheConfig) (*echo.Echo, *int) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	hits := 0
	e := echo.New()
	e.GET("/jobs/:id", func(c echo.Context) error {
		hits++
		return c.JSON(http.StatusOK, echo.Map{"id": c.Param("id"), "served": hits})
	}, NewRedisCache(cfg, rdb))
	e.GET("/missing", func(c echo.Context) error {
		hits++
		return c.JSON(http.StatusNotFound, echo.Map{"error": "nope"})
	}, NewRedisCache(cfg, rdb))
	return e, &hits
}

func testCacheConfig() config.CacheConfig {
	return config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{"GET": true},
		TTL:          time.Minute,
		Prefix:       "cache-test",
		MaxBodyBytes: 1 << 20,
	}
}

func TestCacheServesSecondRequestFromRedis(t *testing.T) {
	e, hits := cacheEcho(t, testCacheConfig())

	req := httptest.NewRequest(http.MethodGet, "/jobs/42", nil)
	rec1 := httptest.NewRecorder()
	e.ServeHTTP(rec1, req)
	require.Equal(t, http.StatusOK, rec1.Code)
	assert.Equal(t, "MISS", rec1.Header().Get("X-Cache"))

	req = httptest.NewRequest(http.MethodGet, "/jobs/42", nil)
	rec2 := httptest.NewRecorder()
	e.ServeHTTP(rec2, req)
	require.Equal(t, http.StatusOK, rec2.Code)
	assert.Equal(t, "HIT", rec2.Header().Get("X-Cache"))

	// The handler ran once; the cached body is byte-identical.
	assert.Equal(t, 1, *hits)
	assert.Equal(t, rec1.Body.String(), rec2.Body.String())
}

func TestCachePathParamsAreSeparateEntries(t *testing.T) {
	e, hits := cacheEcho(t, testCacheConfig())

	// Two jobs behind the same route template must never share an entry.
	req := httptest.NewRequest(http.MethodGet, "/jobs/job-a", nil)
	recA := httptest.NewRecorder()
	e.ServeHTTP(recA, req)
	require.Equal(t, http.StatusOK, recA.Code)
	assert.Equal(t, "MISS", recA.Header().Get("X-Cache"))

	req = httptest.NewRequest(http.MethodGet, "/jobs/job-b", nil)
	recB := httptest.NewRecorder()
	e.ServeHTTP(recB, req)
	require.Equal(t, http.StatusOK, recB.Code)
	assert.Equal(t, "MISS", recB.Header().Get("X-Cache"))
	assert.Contains(t, recB.Body.String(), "job-b")
	assert.NotContains(t, recB.Body.String(), "job-a")
	assert.Equal(t, 2, *hits)

	// Repeats still hit their own entries with their own bodies.
	req = httptest.NewRequest(http.MethodGet, "/jobs/job-a", nil)
	recA2 := httptest.NewRecorder()
	e.ServeHTTP(recA2, req)
	assert.Equal(t, "HIT", recA2.Header().Get("X-Cache"))
	assert.Contains(t, recA2.Body.String(), "job-a")
	assert.Equal(t, 2, *hits)
}

func TestCacheQueryStringsAreSeparateEntries(t *testing.T) {
	e, hits := cacheEcho(t, testCacheConfig())

	for i, target := range []string{"/jobs/42?view=full", "/jobs/42?view=slim"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, "request "+strconv.Itoa(i))
	}
	assert.Equal(t, 2, *hits)
}

func TestCacheSkipsNon200(t *testing.T) {
	e, hits := cacheEcho(t, testCacheConfig())

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/missing", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNotFound, rec.Code)
	}
	assert.Equal(t, 2, *hits)
}
