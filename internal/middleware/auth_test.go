package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ukydev/bike-fleet-maintenance/internal/auth"
	"github.com/ukydev/bike-fleet-maintenance/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func newMiddleware(t *testing.T) (*AuthMiddleware, *auth.Service) {
	t.Helper()
	service, err := auth.NewService()
	if err != nil {
		t.Fatalf("auth.NewService: %v", err)
	}
	return NewAuthMiddleware(service), service
}

func TestAuthenticate_SkipsPublicPaths(t *testing.T) {
	m, _ := newMiddleware(t)
	handler := m.Authenticate(okHandler())

	for _, path := range []string{"/api/auth/login", "/api/auth/register", "/api/health"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, w.Code)
		}
	}
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	m, _ := newMiddleware(t)
	handler := m.Authenticate(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/predictions", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	m, _ := newMiddleware(t)
	handler := m.Authenticate(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/predictions", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuthenticate_ValidToken(t *testing.T) {
	m, service := newMiddleware(t)

	var gotClaims *models.Claims
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims, _ = GetUserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := m.Authenticate(inner)

	user := &models.User{ID: primitive.NewObjectID(), Username: "viewer1", Role: models.RoleViewer}
	token, err := service.GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/predictions", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if gotClaims == nil || gotClaims.Username != "viewer1" {
		t.Errorf("claims not propagated: %+v", gotClaims)
	}
}

func TestRequirePermission(t *testing.T) {
	m, service := newMiddleware(t)

	chain := m.Authenticate(m.RequirePermission("create_maintenance")(okHandler()))

	tests := []struct {
		name     string
		role     models.Role
		expected int
	}{
		{"mechanic allowed", models.RoleMechanic, http.StatusOK},
		{"admin allowed", models.RoleAdmin, http.StatusOK},
		{"viewer forbidden", models.RoleViewer, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &models.User{ID: primitive.NewObjectID(), Username: "u", Role: tt.role}
			token, _ := service.GenerateToken(user)

			req := httptest.NewRequest(http.MethodPost, "/api/maintenance", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			chain.ServeHTTP(w, req)

			if w.Code != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, w.Code)
			}
		})
	}
}

func TestRequirePermission_NoClaims(t *testing.T) {
	m, _ := newMiddleware(t)
	handler := m.RequirePermission("view_bikes")(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/bikes", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}
