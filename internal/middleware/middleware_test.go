package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/complyhub/riskgate/internal/pkg/apperrors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestErrorHandlerRendersAppError(t *testing.T) {
	router := gin.New()
	router.Use(ErrorHandler())
	router.GET("/missing", func(c *gin.Context) {
		c.Error(apperrors.NewNotFound("entity not found"))
	})
	router.GET("/boom", func(c *gin.Context) {
		c.Error(errors.New("db down"))
	})
	router.GET("/wrapped", func(c *gin.Context) {
		c.Error(fmt.Errorf("lookup: %w", apperrors.NewNotFound("entity not found")))
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"NOT_FOUND"`)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"INTERNAL_ERROR"`)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/wrapped", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"message":"entity not found"`)
}

func TestReadOnlyMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(ErrorHandler(), ReadOnlyMiddleware(true))
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }
	router.GET("/v1/entities", ok)
	router.POST("/v1/entities", ok)
	router.POST("/v1/assessments", ok)

	cases := []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/v1/entities", http.StatusNoContent},
		{http.MethodPost, "/v1/entities", http.StatusForbidden},
		{http.MethodPost, "/v1/assessments", http.StatusNoContent},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, tc.want, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestRateLimitPerClient(t *testing.T) {
	limiters := NewClientLimiters(1, 2)
	router := gin.New()
	router.Use(ErrorHandler(), RateLimitMiddleware(limiters))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = ip + ":1234"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, hit("10.0.0.1"))
	assert.Equal(t, http.StatusOK, hit("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, hit("10.0.0.1"))
	// 其他客户端不受影响
	assert.Equal(t, http.StatusOK, hit("10.0.0.2"))
	assert.Equal(t, 2, limiters.Len())
}

func TestClientLimitersEvictIdle(t *testing.T) {
	limiters := NewClientLimiters(5, 5)
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	limiters.now = func() time.Time { return now }

	limiters.Get("a")
	limiters.Get("b")
	require.Equal(t, 2, limiters.Len())

	now = now.Add(2 * limiterIdleTTL)
	limiters.Get("c")
	assert.Equal(t, 1, limiters.Len())
}

func TestIdempotencyReplaysResponse(t *testing.T) {
	var calls int32
	router := gin.New()
	router.Use(ErrorHandler(), IdempotencyMiddleware(NewInMemIdempotencyStore(time.Hour)))
	router.POST("/v1/entities", func(c *gin.Context) {
		n := atomic.AddInt32(&calls, 1)
		c.JSON(http.StatusCreated, gin.H{"call": n})
	})

	send := func(key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/v1/entities", strings.NewReader(`{}`))
		if key != "" {
			req.Header.Set(HeaderIdempotencyKey, key)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	first := send("k1")
	second := send("k1")
	require.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "true", second.Header().Get("Idempotent-Replay"))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	send("")
	send("k2")
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestIdempotencyInProgressConflict(t *testing.T) {
	store := NewInMemIdempotencyStore(time.Hour)
	_, hit := store.GetOrLock("POST:/v1/entities:busy")
	require.False(t, hit)

	router := gin.New()
	router.Use(ErrorHandler(), IdempotencyMiddleware(store))
	router.POST("/v1/entities", func(c *gin.Context) { c.Status(http.StatusCreated) })

	req := httptest.NewRequest(http.MethodPost, "/v1/entities", nil)
	req.Header.Set(HeaderIdempotencyKey, "busy")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestIdempotencyDoesNotCacheServerErrors(t *testing.T) {
	store := NewInMemIdempotencyStore(time.Hour)
	router := gin.New()
	router.Use(IdempotencyMiddleware(store))
	router.POST("/v1/assessments", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	req := httptest.NewRequest(http.MethodPost, "/v1/assessments", nil)
	req.Header.Set(HeaderIdempotencyKey, "retry-me")
	router.ServeHTTP(httptest.NewRecorder(), req)

	_, hit := store.GetOrLock("POST:/v1/assessments:retry-me")
	assert.False(t, hit)
}
