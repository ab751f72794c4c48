package ratelimiter

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func TestLimiter_Allow(t *testing.T) {
	t.Run("allows up to the limit, then rejects", func(t *testing.T) {
		l := New(3, time.Minute)

		assert.True(t, l.Allow("1.2.3.4"))
		assert.True(t, l.Allow("1.2.3.4"))
		assert.True(t, l.Allow("1.2.3.4"))
		assert.False(t, l.Allow("1.2.3.4"), "4th request in the window must be rejected")
	})

	t.Run("keys are counted independently", func(t *testing.T) {
		l := New(1, time.Minute)

		assert.True(t, l.Allow("a"))
		assert.False(t, l.Allow("a"))
		assert.True(t, l.Allow("b"), "a different key has its own window")
	})

	t.Run("window resets after the interval", func(t *testing.T) {
		l := New(1, 10*time.Millisecond)

		assert.True(t, l.Allow("a"))
		assert.False(t, l.Allow("a"))

		time.Sleep(15 * time.Millisecond)

		assert.True(t, l.Allow("a"), "a fresh window starts after the interval")
	})
}

func TestMiddleware(t *testing.T) {
	l := New(2, time.Minute)

	router := gin.New()
	router.POST("/auth/signin", Middleware(l), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/auth/signin", nil)
		req.RemoteAddr = "10.0.0.1:12345"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, send().Code)
	assert.Equal(t, http.StatusOK, send().Code)

	w := send()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error": "too many requests"}`, w.Body.String())

	// A different client IP is not affected.
	req := httptest.NewRequest(http.MethodPost, "/auth/signin", nil)
	req.RemoteAddr = "10.0.0.2:12345"
	other := httptest.NewRecorder()
	router.ServeHTTP(other, req)
	assert.Equal(t, http.StatusOK, other.Code)
}
