package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func init() { gin.SetMode(gin.TestMode) }

func hit(t *testing.T, r http.Handler, path string) int {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimitInMemory(t *testing.T) {
	rl := NewRateLimiter(nil)

	r := gin.New()
	r.GET("/test", rl.ByIP("api", 2, time.Minute), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	for i := 0; i < 2; i++ {
		if code := hit(t, r, "/test"); code != 200 {
			t.Fatalf("request %d: expected 200 got %d", i, code)
		}
	}
	if code := hit(t, r, "/test"); code != 429 {
		t.Fatalf("expected 429 got %d", code)
	}
}

func TestMemoryWindowResets(t *testing.T) {
	m := newMemoryWindow()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	for i := int64(1); i <= 3; i++ {
		if got := m.incr("k", time.Second); got != i {
			t.Fatalf("incr = %d, want %d", got, i)
		}
	}
	now = now.Add(time.Second)
	if got := m.incr("k", time.Second); got != 1 {
		t.Errorf("after window incr = %d, want 1", got)
	}
}

func TestRateLimitByUser(t *testing.T) {
	rl := NewRateLimiter(nil)
	auth := stubAuth{}

	r := gin.New()
	r.GET("/me", JWT(auth), rl.ByUser(1, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	do := func(token string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)
		return w.Code
	}

	if code := do("1"); code != http.StatusNoContent {
		t.Fatalf("first request for user 1: %d", code)
	}
	if code := do("1"); code != http.StatusTooManyRequests {
		t.Fatalf("second request for user 1: %d", code)
	}
	if code := do("2"); code != http.StatusNoContent {
		t.Fatalf("user 2 should have its own window: %d", code)
	}
}

// Integration-style test: runs only if REDIS_ADDR env is set.
func TestRedisRateLimitIntegration(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping integration test")
	}
	pass := os.Getenv("REDIS_PASSWORD")
	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			db = n
		}
	}

	client := ConnectRedis(addr, pass, db)
	if client == nil {
		t.Fatal("redis ping failed")
	}
	defer client.Close()
	rl := NewRateLimiter(client)

	// small window and a unique scope per run
	w := 2 * time.Second
	max := 2
	scope := "test" + strconv.FormatInt(time.Now().UnixNano(), 10)

	r := gin.New()
	r.GET("/test", rl.ByIP(scope, max, w), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	srv := httptest.NewServer(r)
	defer srv.Close()

	client2 := &http.Client{}

	// do max allowed requests
	for i := 0; i < max; i++ {
		req, _ := http.NewRequest("GET", srv.URL+"/test", nil)
		res, err := client2.Do(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		res.Body.Close()
		if res.StatusCode != 200 {
			t.Fatalf("expected 200 got %d", res.StatusCode)
		}
	}

	// next request should be blocked
	req, _ := http.NewRequest("GET", srv.URL+"/test", nil)
	res, err := client2.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != 429 {
		t.Fatalf("expected 429 got %d", res.StatusCode)
	}
}
