package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"settlement-service/internal/models"

	"github.com/gin-gonic/gin"
)

func roleEcho() (*gin.Engine, *models.Role) {
	gin.SetMode(gin.TestMode)
	captured := &models.Role{}

	r := gin.New()
	r.GET("/whoami", IdentityContext(), func(c *gin.Context) {
		*captured = RoleFrom(c)
		c.Status(http.StatusOK)
	})
	r.GET("/admin-only", IdentityContext(), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	return r, captured
}

func TestIdentityContextMember(t *testing.T) {
	r, captured := roleEcho()

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-Client-Id", "3")
	req.Header.Set("X-User-Id", "42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if captured.Admin {
		t.Error("Expected member role")
	}
	if captured.ClientId != 3 || captured.MemberId != 42 {
		t.Errorf("Unexpected role %+v", captured)
	}
	if captured.Key() != "member:42" {
		t.Errorf("Role key = %s", captured.Key())
	}
}

func TestIdentityContextAdmin(t *testing.T) {
	r, captured := roleEcho()

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-Client-Id", "3")
	req.Header.Set("X-User-Id", "7")
	req.Header.Set("X-Is-Admin", "true")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if !captured.Admin {
		t.Error("Expected admin role")
	}
	if captured.Key() != "admin" {
		t.Errorf("Role key = %s", captured.Key())
	}
}

func TestIdentityContextMissingHeaders(t *testing.T) {
	r, _ := roleEcho()

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without identity headers, got %d", w.Code)
	}
}

func TestRequireAdminForbidsMembers(t *testing.T) {
	r, _ := roleEcho()

	req := httptest.NewRequest(http.MethodGet, "/admin-only", nil)
	req.Header.Set("X-Client-Id", "3")
	req.Header.Set("X-User-Id", "42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for member on admin route, got %d", w.Code)
	}
}
