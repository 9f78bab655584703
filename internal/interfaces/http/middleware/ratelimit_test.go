package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter(t *testing.T) {
	t.Run("allows requests within limit", func(t *testing.T) {
		limiter := NewRateLimiter(5, time.Minute)
		for i := 0; i < 5; i++ {
			assert.True(t, limiter.Allow("shop-a"), "request %d should be allowed", i+1)
		}
	})

	t.Run("blocks requests exceeding limit", func(t *testing.T) {
		limiter := NewRateLimiter(3, time.Minute)
		for i := 0; i < 3; i++ {
			assert.True(t, limiter.Allow("shop-b"))
		}
		assert.False(t, limiter.Allow("shop-b"))
	})

	t.Run("keys are independent", func(t *testing.T) {
		limiter := NewRateLimiter(2, time.Minute)

		assert.True(t, limiter.Allow("shop-a"))
		assert.True(t, limiter.Allow("shop-a"))
		assert.False(t, limiter.Allow("shop-a"))

		assert.True(t, limiter.Allow("shop-b"))
		assert.True(t, limiter.Allow("shop-b"))
	})

	t.Run("refills after the window", func(t *testing.T) {
		limiter := NewRateLimiter(2, 50*time.Millisecond)

		assert.True(t, limiter.Allow("shop-c"))
		assert.True(t, limiter.Allow("shop-c"))
		assert.False(t, limiter.Allow("shop-c"))

		time.Sleep(60 * time.Millisecond)
		assert.True(t, limiter.Allow("shop-c"))
	})

	t.Run("remaining tracks consumed tokens", func(t *testing.T) {
		limiter := NewRateLimiter(5, time.Minute)
		assert.Equal(t, 5, limiter.Remaining("shop-d"))

		limiter.Allow("shop-d")
		limiter.Allow("shop-d")
		assert.Equal(t, 3, limiter.Remaining("shop-d"))
	})

	t.Run("concurrent access is safe", func(t *testing.T) {
		limiter := NewRateLimiter(100, time.Minute)
		var wg sync.WaitGroup
		allowed := 0
		var mu sync.Mutex

		for i := 0; i < 150; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if limiter.Allow("busy-shop") {
					mu.Lock()
					allowed++
					mu.Unlock()
				}
			}()
		}

		wg.Wait()
		assert.Equal(t, 100, allowed)
	})
}

func quoteRouter(mw gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(mw)
	router.POST("/api/v1/pricing/quote", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"grand_total": "67240.46"})
	})
	return router
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("passes requests under the limit", func(t *testing.T) {
		router := quoteRouter(RateLimit(NewRateLimiter(3, time.Minute)))

		for i := 0; i < 3; i++ {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest("POST", "/api/v1/pricing/quote", nil))
			assert.Equal(t, http.StatusOK, w.Code)
		}
	})

	t.Run("returns 429 once the limit is spent", func(t *testing.T) {
		router := quoteRouter(RateLimit(NewRateLimiter(2, time.Minute)))

		for i := 0; i < 2; i++ {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest("POST", "/api/v1/pricing/quote", nil))
			assert.Equal(t, http.StatusOK, w.Code)
		}

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("POST", "/api/v1/pricing/quote", nil))
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, w.Body.String(), "RATE_LIMIT_EXCEEDED")
	})

	t.Run("tenant header scopes the key", func(t *testing.T) {
		router := quoteRouter(RateLimit(NewRateLimiter(1, time.Minute)))

		first := httptest.NewRequest("POST", "/api/v1/pricing/quote", nil)
		first.Header.Set("X-Tenant-ID", "shop-mumbai")
		w1 := httptest.NewRecorder()
		router.ServeHTTP(w1, first)
		assert.Equal(t, http.StatusOK, w1.Code)

		second := httptest.NewRequest("POST", "/api/v1/pricing/quote", nil)
		second.Header.Set("X-Tenant-ID", "shop-mumbai")
		w2 := httptest.NewRecorder()
		router.ServeHTTP(w2, second)
		assert.Equal(t, http.StatusTooManyRequests, w2.Code)

		other := httptest.NewRequest("POST", "/api/v1/pricing/quote", nil)
		other.Header.Set("X-Tenant-ID", "shop-surat")
		w3 := httptest.NewRecorder()
		router.ServeHTTP(w3, other)
		assert.Equal(t, http.StatusOK, w3.Code)
	})
}

func TestRateLimitByKey(t *testing.T) {
	gin.SetMode(gin.TestMode)

	limiter := NewRateLimiter(1, time.Minute)
	router := quoteRouter(RateLimitByKey(limiter, func(c *gin.Context) string {
		return c.GetHeader("X-Terminal-ID")
	}))

	first := httptest.NewRequest("POST", "/api/v1/pricing/quote", nil)
	first.Header.Set("X-Terminal-ID", "counter-1")
	w1 := httptest.NewRecorder()
	router.ServeHTTP(w1, first)
	assert.Equal(t, http.StatusOK, w1.Code)

	second := httptest.NewRequest("POST", "/api/v1/pricing/quote", nil)
	second.Header.Set("X-Terminal-ID", "counter-1")
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, second)
	assert.Equal(t, http.StatusTooManyRequests, w2.Code)
}

func importRouter(limiter *RateLimiter) *gin.Engine {
	router := gin.New()
	router.Use(ImportRateLimit(limiter))
	router.POST("/api/v1/gst/statements/2a", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"record_count": 3})
	})
	return router
}

func TestImportRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("allows imports within the limit", func(t *testing.T) {
		router := importRouter(NewRateLimiter(5, time.Minute))

		for i := 0; i < 5; i++ {
			req := httptest.NewRequest("POST", "/api/v1/gst/statements/2a", nil)
			req.RemoteAddr = "10.0.0.7:40001"
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code, "import %d should be allowed", i+1)
		}
	})

	t.Run("blocks with the import-specific error code", func(t *testing.T) {
		router := importRouter(NewRateLimiter(2, time.Minute))

		for i := 0; i < 2; i++ {
			req := httptest.NewRequest("POST", "/api/v1/gst/statements/2a", nil)
			req.RemoteAddr = "10.0.0.7:40001"
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
		}

		req := httptest.NewRequest("POST", "/api/v1/gst/statements/2a", nil)
		req.RemoteAddr = "10.0.0.7:40001"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, w.Body.String(), "IMPORT_RATE_LIMIT_EXCEEDED")
		assert.Equal(t, "60", w.Header().Get("Retry-After"))
	})

	t.Run("exposes the remaining allowance", func(t *testing.T) {
		router := importRouter(NewRateLimiter(5, time.Minute))

		req := httptest.NewRequest("POST", "/api/v1/gst/statements/2a", nil)
		req.RemoteAddr = "10.0.0.7:40001"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "5", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "4", w.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("tenant header takes precedence over the client IP", func(t *testing.T) {
		router := importRouter(NewRateLimiter(1, time.Minute))

		first := httptest.NewRequest("POST", "/api/v1/gst/statements/2a", nil)
		first.Header.Set("X-Tenant-ID", "shop-mumbai")
		w1 := httptest.NewRecorder()
		router.ServeHTTP(w1, first)
		assert.Equal(t, http.StatusOK, w1.Code)

		// Same tenant from a different address is still limited.
		second := httptest.NewRequest("POST", "/api/v1/gst/statements/2a", nil)
		second.Header.Set("X-Tenant-ID", "shop-mumbai")
		second.RemoteAddr = "10.0.0.99:40002"
		w2 := httptest.NewRecorder()
		router.ServeHTTP(w2, second)
		assert.Equal(t, http.StatusTooManyRequests, w2.Code)
	})

	t.Run("import key is isolated from the global limiter", func(t *testing.T) {
		shared := NewRateLimiter(2, time.Minute)

		router := gin.New()
		imports := router.Group("/api/v1/gst")
		imports.Use(ImportRateLimit(shared))
		imports.POST("/statements/2a", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"record_count": 3})
		})
		router.Use(RateLimit(shared))
		router.GET("/api/v1/gold-rates/board", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"rates": []string{}})
		})

		for i := 0; i < 2; i++ {
			req := httptest.NewRequest("POST", "/api/v1/gst/statements/2a", nil)
			req.RemoteAddr = "10.0.0.7:40001"
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
		}

		blocked := httptest.NewRequest("POST", "/api/v1/gst/statements/2a", nil)
		blocked.RemoteAddr = "10.0.0.7:40001"
		w1 := httptest.NewRecorder()
		router.ServeHTTP(w1, blocked)
		assert.Equal(t, http.StatusTooManyRequests, w1.Code)

		// The board read spends from a different bucket.
		board := httptest.NewRequest("GET", "/api/v1/gold-rates/board", nil)
		board.RemoteAddr = "10.0.0.7:40001"
		w2 := httptest.NewRecorder()
		router.ServeHTTP(w2, board)
		assert.Equal(t, http.StatusOK, w2.Code)
	})
}
