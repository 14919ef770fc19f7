package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// TestRateLimiter_AllowsWithinLimit verifies requests under the limit pass.
func TestRateLimiter_AllowsWithinLimit(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	defer rl.Stop()

	handler := rl.Middleware(okHandler)

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/auth/login/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want %d", i+1, rec.Code, http.StatusOK)
		}
	}
}

// TestRateLimiter_BlocksOverLimit verifies the limit is enforced per IP.
func TestRateLimiter_BlocksOverLimit(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	defer rl.Stop()

	handler := rl.Middleware(okHandler)

	fire := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/auth/login/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	fire("10.0.0.2:1234")
	fire("10.0.0.2:1234")

	third := fire("10.0.0.2:1234")
	if third.Code != http.StatusTooManyRequests {
		t.Errorf("third request: status = %d, want %d", third.Code, http.StatusTooManyRequests)
	}
	if third.Header().Get("Retry-After") != "60" {
		t.Errorf("Retry-After = %q, want %q", third.Header().Get("Retry-After"), "60")
	}

	// A different client is unaffected.
	if rec := fire("10.0.0.3:1234"); rec.Code != http.StatusOK {
		t.Errorf("other client: status = %d, want %d", rec.Code, http.StatusOK)
	}
}

// TestClientIP verifies proxy header precedence.
func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		xri        string
		want       string
	}{
		{name: "remote addr only", remoteAddr: "192.168.1.5:4321", want: "192.168.1.5"},
		{name: "x-forwarded-for single", remoteAddr: "10.0.0.1:80", xff: "203.0.113.7", want: "203.0.113.7"},
		{name: "x-forwarded-for chain", remoteAddr: "10.0.0.1:80", xff: "203.0.113.7, 10.0.0.2", want: "203.0.113.7"},
		{name: "x-real-ip fallback", remoteAddr: "10.0.0.1:80", xri: "198.51.100.4", want: "198.51.100.4"},
		{name: "xff wins over xri", remoteAddr: "10.0.0.1:80", xff: "203.0.113.7", xri: "198.51.100.4", want: "203.0.113.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}

			if got := clientIP(req); got != tt.want {
				t.Errorf("clientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
