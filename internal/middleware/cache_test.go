package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/handwash-service/internal/config"
)

func TestNewRedisCacheDisabledPassesThrough(t *testing.T) {
	e := echo.New()
	mw := NewRedisCache(config.CacheConfig{Enabled: true}, nil)

	called := 0
	h := mw(func(c echo.Context) error {
		called++
		return c.String(http.StatusOK, "fresh")
	})

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/stats", nil), rec)
		require.NoError(t, h(c))
		assert.Equal(t, "fresh", rec.Body.String())
		assert.Empty(t, rec.Header().Get("X-Cache"))
	}
	assert.Equal(t, 2, called)
	assert.Nil(t, CachePurger(config.CacheConfig{Enabled: false}, nil))
}

func TestCacheKeyFrom(t *testing.T) {
	e := echo.New()
	newCtx := func(target string) echo.Context {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder())
		c.SetPath("/api/records")
		return c
	}
	cfg := config.CacheConfig{Prefix: "handwash:cache", KeyStrategy: "route_query"}

	a := cacheKeyFrom(cfg, newCtx("/api/records?x=1"))
	b := cacheKeyFrom(cfg, newCtx("/api/records?x=2"))
	assert.NotEqual(t, a, b)
	assert.Regexp(t, `^handwash:cache:[0-9a-f]{40}$`, a)

	cfg.KeyStrategy = "route"
	assert.Equal(t, cacheKeyFrom(cfg, newCtx("/api/records?x=1")), cacheKeyFrom(cfg, newCtx("/api/records?x=2")))
}

func TestPayloadCodec(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"status":"success"}`))
	require.NoError(t, err)

	status, gotHdr, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, hdr, gotHdr)
	assert.Equal(t, `{"status":"success"}`, string(body))

	_, _, _, ok = decodePayload(bs[:5])
	assert.False(t, ok)
}

func TestCaptureWriterLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 4}

	_, err := cw.Write([]byte("abc"))
	require.NoError(t, err)
	_, err = cw.Write([]byte("defg"))
	require.NoError(t, err)

	assert.Equal(t, "abcd", cw.buf.String())
	assert.Equal(t, int64(7), cw.size)
	assert.Equal(t, "abcdefg", rec.Body.String())
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func testCacheConfig() config.CacheConfig {
	return config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{http.MethodGet: true},
		TTL:          time.Minute,
		KeyStrategy:  "route_query",
		Prefix:       "handwash:cache",
		MaxBodyBytes: 1 << 20,
	}
}

func TestRedisCacheMissThenHit(t *testing.T) {
	mr, rdb := newTestRedis(t)

	e := echo.New()
	e.Use(RequestID())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{AllowOrigins: []string{"*"}}))

	calls := 0
	e.GET("/api/stats", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, map[string]string{"status": "success"})
	}, NewRedisCache(testCacheConfig(), rdb))

	get := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
		req.Header.Set(echo.HeaderOrigin, "http://example.com")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	first := get()
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.Equal(t, time.Minute, mr.TTL(keys[0]))

	second := get()
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, 1, calls)
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	h := second.Header()
	assert.Equal(t, []string{"*"}, h.Values(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, []string{echo.HeaderOrigin}, h.Values(echo.HeaderVary))
	require.Len(t, h.Values(echo.HeaderXRequestID), 1)
	assert.NotEqual(t, first.Header().Get(echo.HeaderXRequestID), h.Get(echo.HeaderXRequestID))
	assert.Equal(t, []string{echo.MIMEApplicationJSON}, h.Values(echo.HeaderContentType))
}

func TestRedisCacheSkipsErrorResponses(t *testing.T) {
	mr, rdb := newTestRedis(t)

	e := echo.New()
	calls := 0
	e.GET("/api/records", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusInternalServerError, map[string]string{"status": "error"})
	}, NewRedisCache(testCacheConfig(), rdb))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/records", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	}
	assert.Equal(t, 2, calls)
	assert.Empty(t, mr.Keys())
}

func TestCachePurgerDeletesPrefixOnly(t *testing.T) {
	mr, rdb := newTestRedis(t)
	require.NoError(t, mr.Set("handwash:cache:a", "1"))
	require.NoError(t, mr.Set("handwash:cache:b", "2"))
	require.NoError(t, mr.Set("other:c", "3"))

	purge := CachePurger(testCacheConfig(), rdb)
	require.NotNil(t, purge)
	require.NoError(t, purge(context.Background()))

	assert.Equal(t, []string{"other:c"}, mr.Keys())
	require.NoError(t, purge(context.Background()))
}
