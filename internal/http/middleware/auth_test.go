package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"taskquest/internal/domain"

	"github.com/gin-gonic/gin"
)

// stubAuth accepts any numeric token as that user id.
type stubAuth struct{}

func (stubAuth) Authenticate(token string) (domain.Identity, error) {
	id, err := strconv.ParseInt(token, 10, 64)
	if err != nil {
		return domain.Identity{}, errors.New("bad token")
	}
	return domain.Identity{UserID: id, Username: "u" + token}, nil
}

func TestJWT(t *testing.T) {
	r := gin.New()
	r.GET("/me", JWT(stubAuth{}), func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, "%d:%s", id.UserID, id.Username)
	})

	tests := []struct {
		name   string
		header string
		code   int
		body   string
	}{
		{"valid", "Bearer 7", http.StatusOK, "7:u7"},
		{"missing", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic 7", http.StatusUnauthorized, ""},
		{"invalid", "Bearer nope", http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)
			if w.Code != tt.code {
				t.Fatalf("code = %d, want %d", w.Code, tt.code)
			}
			if tt.body != "" && w.Body.String() != tt.body {
				t.Errorf("body = %q, want %q", w.Body.String(), tt.body)
			}
		})
	}
}

func TestJobToken(t *testing.T) {
	r := gin.New()
	r.POST("/guarded", JobToken("tok"), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/open", JobToken(""), func(c *gin.Context) { c.Status(http.StatusOK) })

	cases := []struct {
		path, token string
		code        int
	}{
		{"/guarded", "tok", http.StatusOK},
		{"/guarded", "bad", http.StatusUnauthorized},
		{"/guarded", "", http.StatusUnauthorized},
		{"/open", "", http.StatusOK},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, tc.path, nil)
		if tc.token != "" {
			req.Header.Set("X-Job-Token", tc.token)
		}
		r.ServeHTTP(w, req)
		if w.Code != tc.code {
			t.Errorf("%s token=%q: code = %d, want %d", tc.path, tc.token, w.Code, tc.code)
		}
	}
}

func TestRequestLogger_SetsID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Header().Get(RequestIDHeader) == "" {
		t.Error("expected generated request id")
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	r.ServeHTTP(w, req)
	if got := w.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("request id = %q, want propagated abc-123", got)
	}
}
