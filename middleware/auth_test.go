package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken("secret", "u1", "ada@example.com", time.Now())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ParseToken("secret", token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "u1" || claims.Email != "ada@example.com" {
		t.Fatalf("unexpected claims %+v", claims)
	}

	if _, err := ParseToken("other-secret", token); err == nil {
		t.Fatalf("token signed with another secret must be rejected")
	}
}

func TestParseToken_Expired(t *testing.T) {
	token, err := GenerateToken("secret", "u1", "ada@example.com", time.Now().Add(-TokenTTL-time.Hour))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ParseToken("secret", token); err == nil {
		t.Fatalf("expired token must be rejected")
	}
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthMiddleware("secret"), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("user_id"))
	})

	token, _ := GenerateToken("secret", "u1", "ada@example.com", time.Now())

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, w.Code)
			}
			if tc.status == http.StatusOK && w.Body.String() != "u1" {
				t.Fatalf("expected user id in context, got %q", w.Body.String())
			}
		})
	}
}

func TestPaginationDefaults(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/list", PaginationDefaults(), func(c *gin.Context) {
		c.String(http.StatusOK, c.Query("page")+"/"+c.Query("limit"))
	})

	cases := map[string]string{
		"/list":                 "1/10",
		"/list?page=3&limit=20": "3/20",
		"/list?page=0&limit=-1": "1/10",
		"/list?limit=500":       "1/50",
	}
	for url, want := range cases {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))
		if w.Body.String() != want {
			t.Fatalf("%s: expected %s, got %s", url, want, w.Body.String())
		}
	}
}
