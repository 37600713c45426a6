package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/chronicle-dates/internal/apperror"
)

func TestRateLimiter_Allow(t *testing.T) {
	now := time.Unix(1000, 0)
	l := NewRateLimiter(2, time.Minute)
	l.now = func() time.Time { return now }

	if !l.Allow("1.2.3.4") || !l.Allow("1.2.3.4") {
		t.Fatal("expected the first two requests to pass")
	}
	if l.Allow("1.2.3.4") {
		t.Error("expected the third request in the window to be rejected")
	}
	if !l.Allow("5.6.7.8") {
		t.Error("expected a different IP to have its own budget")
	}

	now = now.Add(61 * time.Second)
	if !l.Allow("1.2.3.4") {
		t.Error("expected a new window to reset the count")
	}
}

func TestRateLimiter_Cleanup(t *testing.T) {
	now := time.Unix(1000, 0)
	l := NewRateLimiter(1, time.Minute)
	l.now = func() time.Time { return now }

	l.Allow("1.2.3.4")
	now = now.Add(3 * time.Minute)
	l.Cleanup()

	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.entries) != 0 {
		t.Errorf("expected expired entries to be dropped, have %d", len(l.entries))
	}
}

func TestRateLimiter_Middleware(t *testing.T) {
	e := echo.New()
	l := NewRateLimiter(1, time.Minute)
	h := l.Middleware()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	newCtx := func() (echo.Context, *httptest.ResponseRecorder) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "9.9.9.9:1234"
		rec := httptest.NewRecorder()
		return e.NewContext(req, rec), rec
	}

	c, _ := newCtx()
	if err := h(c); err != nil {
		t.Fatalf("unexpected error on first request: %v", err)
	}

	c, rec := newCtx()
	err := h(c)
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 AppError, got %v", err)
	}
	if rec.Header().Get("Retry-After") != "60" {
		t.Errorf("expected Retry-After 60, got %q", rec.Header().Get("Retry-After"))
	}
}

func TestRecovery(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	err := Recovery()(func(echo.Context) error { panic("boom") })(c)
	if !apperror.Is(err, http.StatusInternalServerError) {
		t.Fatalf("expected 500 AppError, got %v", err)
	}
	if apperror.SafeMessage(err) == "boom" {
		t.Error("panic value leaked into the client message")
	}
}

func TestRequestLogger_RequestID(t *testing.T) {
	e := echo.New()
	h := RequestLogger()(func(c echo.Context) error {
		return c.String(http.StatusOK, RequestID(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRequestID, "abc-123")
	rec := httptest.NewRecorder()
	if err := h(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Body.String() != "abc-123" || rec.Header().Get(echo.HeaderXRequestID) != "abc-123" {
		t.Errorf("expected incoming request ID to be reused, got body %q header %q",
			rec.Body.String(), rec.Header().Get(echo.HeaderXRequestID))
	}

	rec = httptest.NewRecorder()
	if err := h(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.Header().Get(echo.HeaderXRequestID)) != 36 {
		t.Errorf("expected a generated UUID, got %q", rec.Header().Get(echo.HeaderXRequestID))
	}
}

func TestCORS(t *testing.T) {
	e := echo.New()
	h := CORS(CORSConfig{AllowedOrigins: []string{"https://campaign.example"}})(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	tests := []struct {
		name       string
		method     string
		origin     string
		wantOrigin string
		wantStatus int
	}{
		{"allowed origin", http.MethodPost, "https://campaign.example", "https://campaign.example", http.StatusOK},
		{"unlisted origin", http.MethodPost, "https://evil.example", "", http.StatusOK},
		{"preflight", http.MethodOptions, "https://campaign.example", "https://campaign.example", http.StatusNoContent},
		{"same origin", http.MethodGet, "", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/v1/calendars", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()
			if err := h(e.NewContext(req, rec)); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("expected allow-origin %q, got %q", tt.wantOrigin, got)
			}
		})
	}
}

func TestTrustedProxies(t *testing.T) {
	extract := buildIPExtractor([]string{"10.0.0.0/8", "not-a-cidr"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.1.2.3")
	if got := extract(req); got != "203.0.113.7" {
		t.Errorf("expected forwarded client IP, got %s", got)
	}

	req.RemoteAddr = "198.51.100.1:5555"
	if got := extract(req); got != "198.51.100.1" {
		t.Errorf("expected untrusted peer to be used as-is, got %s", got)
	}
}
