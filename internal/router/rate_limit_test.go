package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestKeyByIPAndJSONField(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth", strings.NewReader(`{"username":" Alice "}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.RemoteAddr = "1.2.3.4:5678"

	key := KeyByIPAndJSONField("username")(c)
	if key != "alice|1.2.3.4" {
		t.Fatalf("key want alice|1.2.3.4 got %s", key)
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		t.Fatalf("read body after key extraction failed: %v", err)
	}
	if !strings.Contains(string(body), " Alice ") {
		t.Fatalf("request body should be restored after reading field")
	}
}

func TestRateLimitMiddlewareWithoutClient(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RateLimitMiddleware(nil, RateLimitRule{WindowSeconds: 60, MaxRequests: 1}, KeyByIP))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok":true`) {
		t.Fatalf("expected handler response body, got %s", w.Body.String())
	}
}

func TestRateLimitRuleHelpers(t *testing.T) {
	rule := RateLimitRule{Prefix: "ezlab:rate:login", WindowSeconds: 300, MaxRequests: 20}
	if !rule.enabled() {
		t.Fatalf("rule should be enabled")
	}
	if (RateLimitRule{WindowSeconds: 60}).enabled() {
		t.Fatalf("rule without max requests should be disabled")
	}
	if got := rule.key("1.2.3.4"); got != "ezlab:rate:login:1.2.3.4" {
		t.Fatalf("unexpected key %s", got)
	}
	if got := (RateLimitRule{}).key("x"); got != "x" {
		t.Fatalf("key without prefix want x got %s", got)
	}

	cases := []struct {
		remaining int64
		want      int
	}{
		{remaining: 1500, want: 2},
		{remaining: 1000, want: 1},
		{remaining: 1, want: 1},
		{remaining: -1, want: 300},
		{remaining: 0, want: 300},
	}
	for _, tc := range cases {
		if got := rule.retryAfter(tc.remaining); got != tc.want {
			t.Fatalf("retryAfter(%d) want %d got %d", tc.remaining, tc.want, got)
		}
	}
}

func TestKeyByIPAndJSONFieldFallsBackToIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for _, body := range []string{`{"username":42}`, `not json`, ``} {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
		c.Request.RemoteAddr = "5.6.7.8:1234"
		if key := KeyByIPAndJSONField("username")(c); key != "5.6.7.8" {
			t.Fatalf("body %q: want ip key got %s", body, key)
		}
	}
}
