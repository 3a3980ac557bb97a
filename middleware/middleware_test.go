package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wordseek/seekengine/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestServiceAuth(t *testing.T) {
	r := gin.New()
	r.GET("/x", ServiceAuth("secret"), func(ctx *gin.Context) {
		ctx.String(http.StatusOK, ctx.GetString(ContextClientKey))
	})
	token, err := utils.GenerateToken("secret", "discord", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		header string
		status int
	}{
		{"", http.StatusUnauthorized},
		{"Token abc", http.StatusUnauthorized},
		{"Bearer ", http.StatusUnauthorized},
		{"Bearer nope", http.StatusUnauthorized},
		{"Bearer " + token, http.StatusOK},
		{"bearer " + token, http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != tc.status {
			t.Errorf("%q: status %d, want %d", tc.header, w.Code, tc.status)
		}
		if tc.status == http.StatusOK && w.Body.String() != "discord" {
			t.Errorf("client = %q", w.Body.String())
		}
	}
}

func TestRateLimitPerCaller(t *testing.T) {
	r := gin.New()
	r.Use(func(ctx *gin.Context) {
		ctx.Set(ContextClientKey, ctx.GetHeader("X-Client"))
		ctx.Next()
	})
	// 2 per minute gives a burst of 1
	r.Use(RateLimit(2))
	r.GET("/x", func(ctx *gin.Context) { ctx.Status(http.StatusOK) })

	hit := func(client string) int {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("X-Client", client)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}
	if code := hit("a"); code != http.StatusOK {
		t.Fatalf("first = %d", code)
	}
	if code := hit("a"); code != http.StatusTooManyRequests {
		t.Fatalf("second = %d", code)
	}
	if code := hit("b"); code != http.StatusOK {
		t.Fatalf("other caller = %d", code)
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, ctx.GetString(ContextRequestIDKey))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	id := w.Header().Get(RequestIDHeader)
	if id == "" || w.Body.String() != id {
		t.Fatalf("generated id %q, body %q", id, w.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get(RequestIDHeader) != "abc-123" {
		t.Fatalf("propagated id = %q", w.Header().Get(RequestIDHeader))
	}
}

func TestRecoveryAndAccessLog(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), AccessLog(zap.NewNop()), Recovery(zap.NewNop()))
	r.GET("/boom", func(ctx *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
}
