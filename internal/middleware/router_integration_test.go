package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

// newIntegrationRouter は本番と同じ順序でミドルウェアを重ねたルーターを構築する。
func newIntegrationRouter(t *testing.T, cfg RateLimiterConfig) *chi.Mux {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	rl := NewRateLimiter(cfg)
	t.Cleanup(rl.Stop)

	r := chi.NewRouter()
	r.Use(NewRecoveryMiddleware())
	r.Use(NewLoggingMiddleware(logger))
	r.Use(NewCORSMiddleware("http://localhost:3000"))
	r.Use(NewSecurityHeadersMiddleware())
	r.Use(rl.GeneralMiddleware())

	r.Get("/api/posts", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"posts":[]}`))
	})
	r.Get("/api/panic", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	return r
}

// TestRouterIntegration_MiddlewareChain はミドルウェアチェーン全体の組み合わせ動作を検証する。
func TestRouterIntegration_MiddlewareChain(t *testing.T) {
	cfg := DefaultRateLimiterConfig()
	router := newIntegrationRouter(t, cfg)

	t.Run("GETリクエストにセキュリティヘッダとCORSヘッダが付与される", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
		req.RemoteAddr = "198.51.100.1:1234"
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
			t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
		}
		if got := w.Header().Get("X-Frame-Options"); got != "DENY" {
			t.Errorf("X-Frame-Options = %q, want DENY", got)
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
			t.Errorf("Access-Control-Allow-Origin = %q, want http://localhost:3000", got)
		}
	})

	t.Run("OPTIONSプリフライトは204で応答する", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/posts", nil)
		req.RemoteAddr = "198.51.100.2:1234"
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", "GET")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusNoContent {
			t.Errorf("status = %d, want 204", w.Code)
		}
	})

	t.Run("ハンドラのpanicは500に変換される", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/panic", nil)
		req.RemoteAddr = "198.51.100.3:1234"
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", w.Code)
		}
	})

	t.Run("バースト超過で429が返る", func(t *testing.T) {
		cfg := RateLimiterConfig{
			GeneralRate:     1.0 / 60,
			GeneralBurst:    2,
			ImportRate:      1.0 / 60,
			ImportBurst:     1,
			CleanupInterval: time.Minute,
		}
		limited := newIntegrationRouter(t, cfg)

		var last int
		for i := 0; i < 3; i++ {
			req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
			req.RemoteAddr = "198.51.100.4:1234"
			w := httptest.NewRecorder()
			limited.ServeHTTP(w, req)
			last = w.Code
		}

		if last != http.StatusTooManyRequests {
			t.Errorf("third request status = %d, want 429", last)
		}
	})
}

// TestRouterIntegration_LoggingDoesNotAlterResponse はログ記録がレスポンス内容を変えないことを検証する。
func TestRouterIntegration_LoggingDoesNotAlterResponse(t *testing.T) {
	router := newIntegrationRouter(t, DefaultRateLimiterConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	req.RemoteAddr = "198.51.100.5:1234"
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := w.Body.String(); got != `{"posts":[]}` {
		t.Errorf("body = %q, want %q", got, `{"posts":[]}`)
	}
}
