package cache

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheSetGet(t *testing.T) {
	c := NewCache(time.Minute)

	c.Set("key", []byte("value"))
	data, found := c.Get("key")
	assert.True(t, found)
	assert.Equal(t, []byte("value"), data)
}

func TestCacheMiss(t *testing.T) {
	c := NewCache(time.Minute)

	_, found := c.Get("absent")
	assert.False(t, found)
}

func TestCacheExpiry(t *testing.T) {
	c := NewCache(10 * time.Millisecond)

	c.Set("key", []byte("value"))
	time.Sleep(20 * time.Millisecond)

	_, found := c.Get("key")
	assert.False(t, found)
}

func TestCacheDeleteAndClear(t *testing.T) {
	c := NewCache(time.Minute)

	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))
	assert.Equal(t, 2, c.Size())

	c.Delete("a")
	assert.Equal(t, 1, c.Size())

	c.Clear()
	assert.Equal(t, 0, c.Size())
}

func TestCacheStats(t *testing.T) {
	c := NewCache(time.Minute)
	c.Set("a", []byte("1"))

	stats := c.Stats()
	assert.Equal(t, 1, stats["total_items"])
	assert.Equal(t, 60.0, stats["ttl_seconds"])
}

func TestGenerateKeyIsStable(t *testing.T) {
	c := NewCache(time.Minute)

	assert.Equal(t, c.generateKey("input"), c.generateKey("input"))
	assert.NotEqual(t, c.generateKey("input"), c.generateKey("other"))
}

type stubMetrics struct {
	hits, misses int
}

func (m *stubMetrics) IncrementCacheHit()  { m.hits++ }
func (m *stubMetrics) IncrementCacheMiss() { m.misses++ }

type stubLogger struct {
	hits []bool
}

func (l *stubLogger) CacheLogger(operation, key string, hit bool, itemCount int) {
	l.hits = append(l.hits, hit)
}

func TestMiddlewareServesRepeatFromCache(t *testing.T) {
	gin.SetMode(gin.TestMode)

	metrics := &stubMetrics{}
	log := &stubLogger{}
	c := NewCache(time.Minute)

	handlerCalls := 0
	r := gin.New()
	r.Use(c.Middleware(metrics, log, "/evaluate"))
	r.POST("/evaluate", func(ctx *gin.Context) {
		handlerCalls++
		ctx.JSON(http.StatusOK, gin.H{"ok": true})
	})

	post := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/evaluate", strings.NewReader(`{"in":1}`))
		r.ServeHTTP(w, req)
		return w
	}

	first := post()
	second := post()

	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, handlerCalls)
	assert.Equal(t, 1, metrics.misses)
	assert.Equal(t, 1, metrics.hits)
	assert.Equal(t, []bool{false, true}, log.hits)
}

func TestMiddlewareSkipsUnlistedPaths(t *testing.T) {
	gin.SetMode(gin.TestMode)

	metrics := &stubMetrics{}
	c := NewCache(time.Minute)

	handlerCalls := 0
	r := gin.New()
	r.Use(c.Middleware(metrics, &stubLogger{}, "/evaluate"))
	r.POST("/other", func(ctx *gin.Context) {
		handlerCalls++
		ctx.JSON(http.StatusOK, gin.H{"ok": true})
	})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/other", strings.NewReader(`{}`))
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
	}

	assert.Equal(t, 2, handlerCalls)
	assert.Equal(t, 0, metrics.hits)
	assert.Equal(t, 0, metrics.misses)
}
