package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbearia-console/internal/auth"
	"github.com/BruksfildServices01/barbearia-console/internal/models"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware())

	secured := r.Group("/", AuthMiddleware("secret"))
	secured.GET("/me", func(c *gin.Context) {
		c.String(http.StatusOK, EmployeeID(c))
	})
	secured.GET("/admin", RequireRole("gerente"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func token(t *testing.T, role string) string {
	t.Helper()
	now := time.Now()
	raw, err := auth.IssueToken("secret", models.Session{
		ID: "7", Name: "Vitor", Role: role, LoginTime: now, ExpiresAt: now.Add(time.Hour),
	})
	if err != nil {
		t.Fatal(err)
	}
	return raw
}

func do(r *gin.Engine, method, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	req.Header.Set("Origin", "http://localhost:5500")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter()

	if w := do(r, http.MethodGet, "/me", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("no token: %d", w.Code)
	}
	if w := do(r, http.MethodGet, "/me", "garbage"); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: %d", w.Code)
	}

	w := do(r, http.MethodGet, "/me", token(t, "barbeiro"))
	if w.Code != http.StatusOK || w.Body.String() != "7" {
		t.Fatalf("valid token: %d %q", w.Code, w.Body.String())
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5500" {
		t.Fatal("cors header missing")
	}
}

func TestTokenFromQuery(t *testing.T) {
	r := newRouter()
	w := do(r, http.MethodGet, "/me?token="+token(t, "barbeiro"), "")
	if w.Code != http.StatusOK {
		t.Fatalf("query token: %d", w.Code)
	}
}

func TestRequireRole(t *testing.T) {
	r := newRouter()

	if w := do(r, http.MethodGet, "/admin", token(t, "barbeiro")); w.Code != http.StatusForbidden {
		t.Fatalf("barbeiro: %d", w.Code)
	}
	if w := do(r, http.MethodGet, "/admin", token(t, "gerente")); w.Code != http.StatusOK {
		t.Fatalf("gerente: %d", w.Code)
	}
}

func TestPreflight(t *testing.T) {
	r := newRouter()
	if w := do(r, http.MethodOptions, "/me", ""); w.Code != http.StatusNoContent {
		t.Fatalf("preflight: %d", w.Code)
	}
}
