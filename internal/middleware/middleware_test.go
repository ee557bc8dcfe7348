package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestCors(t *testing.T) {
	handler := CORS([]string{"http://localhost:3000", "https://shop.example.com/"})(okHandler)

	t.Run("Preflight request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/products", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", "GET")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "GET")
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Content-Type")
		assert.Equal(t, "600", w.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("Normal request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/products", nil)
		req.Header.Set("Origin", "https://shop.example.com")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, "https://shop.example.com", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "Origin", w.Header().Get("Vary"))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Disallowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/products", nil)
		req.Header.Set("Origin", "http://evil.com")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Wildcard", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://anything.test")
		w := httptest.NewRecorder()

		CORS([]string{"*"})(okHandler).ServeHTTP(w, req)

		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("Disabled without origins", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", "GET")
		w := httptest.NewRecorder()

		CORS(nil)(okHandler).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRateLimiter(t *testing.T) {
	t.Run("Disabled when rps is zero", func(t *testing.T) {
		l := NewRateLimiter(0, 10)
		assert.Nil(t, l)

		h := l.Handler(okHandler)
		for i := 0; i < 50; i++ {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
			require.Equal(t, http.StatusOK, w.Code)
		}
	})

	t.Run("Rejects over burst", func(t *testing.T) {
		h := NewRateLimiter(0.001, 2).Handler(okHandler)

		codes := make([]int, 0, 3)
		for i := 0; i < 3; i++ {
			req := httptest.NewRequest(http.MethodGet, "/products", nil)
			req.RemoteAddr = "10.0.0.1:1234"
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			codes = append(codes, w.Code)
			if w.Code == http.StatusTooManyRequests {
				assert.Equal(t, "1", w.Header().Get("Retry-After"))
			}
		}

		assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	})

	t.Run("Separate buckets", func(t *testing.T) {
		h := NewRateLimiter(0.001, 1).Handler(okHandler)

		send := func(path, addr, device string) int {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			req.RemoteAddr = addr
			if device != "" {
				req.Header.Set("X-Device-ID", device)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			return w.Code
		}

		assert.Equal(t, http.StatusOK, send("/products", "10.0.0.1:1", ""))
		assert.Equal(t, http.StatusTooManyRequests, send("/products", "10.0.0.1:2", ""))
		assert.Equal(t, http.StatusOK, send("/search/suggest", "10.0.0.1:3", ""), "autocomplete has its own bucket")
		assert.Equal(t, http.StatusOK, send("/products", "10.0.0.2:1", ""))
		assert.Equal(t, http.StatusOK, send("/products", "10.0.0.1:4", "device-1"))
	})

	t.Run("Cleanup evicts idle visitors", func(t *testing.T) {
		now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		l := NewRateLimiter(1, 1)
		l.now = func() time.Time { return now }

		l.getVisitor("ip:10.0.0.1:general")
		now = now.Add(time.Minute)
		l.getVisitor("ip:10.0.0.2:general")

		now = now.Add(visitorTTL)
		l.cleanup()

		assert.NotContains(t, l.visitors, "ip:10.0.0.1:general")
		assert.Contains(t, l.visitors, "ip:10.0.0.2:general")
	})
}
