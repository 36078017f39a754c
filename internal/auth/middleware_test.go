package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/osteria-vecchia/reservations-api/internal/config"
)

func TestAdminMiddleware(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	handler := NewHandler(cfg)

	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Context().Value(AdminSubjectKey) == nil {
			t.Error("expected admin subject in context")
		}
		w.WriteHeader(http.StatusOK)
	})
	middleware := handler.AdminMiddleware(nextHandler)

	t.Run("BearerToken", func(t *testing.T) {
		token, err := handler.GenerateAdminToken("staff@example.com")
		if err != nil {
			t.Fatalf("GenerateAdminToken returned error: %v", err)
		}

		req, _ := http.NewRequest("GET", "/admin/reservations/2025-06-01", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		middleware.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("expected status OK, got %v", rr.Code)
		}
	})

	t.Run("Cookie", func(t *testing.T) {
		token, _ := handler.GenerateAdminToken("staff@example.com")

		req, _ := http.NewRequest("GET", "/admin/reservations/2025-06-01", nil)
		req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
		rr := httptest.NewRecorder()
		middleware.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("expected status OK, got %v", rr.Code)
		}
	})

	t.Run("NoToken", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/admin/reservations/2025-06-01", nil)
		rr := httptest.NewRecorder()
		middleware.ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %v", rr.Code)
		}
	})

	t.Run("WrongSecret", func(t *testing.T) {
		claims := jwt.MapClaims{
			"sub":  "intruder",
			"role": "admin",
			"exp":  time.Now().Add(time.Hour).Unix(),
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		tokenString, _ := token.SignedString([]byte("other-secret"))

		req, _ := http.NewRequest("GET", "/admin/reservations/2025-06-01", nil)
		req.Header.Set("Authorization", "Bearer "+tokenString)
		rr := httptest.NewRecorder()
		middleware.ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %v", rr.Code)
		}
	})

	t.Run("MissingAdminRole", func(t *testing.T) {
		claims := jwt.MapClaims{
			"sub": "guest@example.com",
			"exp": time.Now().Add(time.Hour).Unix(),
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		tokenString, _ := token.SignedString([]byte(cfg.JWTSecret))

		req, _ := http.NewRequest("GET", "/admin/reservations/2025-06-01", nil)
		req.Header.Set("Authorization", "Bearer "+tokenString)
		rr := httptest.NewRecorder()
		middleware.ServeHTTP(rr, req)

		if rr.Code != http.StatusForbidden {
			t.Errorf("expected status 403, got %v", rr.Code)
		}
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		claims := jwt.MapClaims{
			"sub":  "staff@example.com",
			"role": "admin",
			"exp":  time.Now().Add(-time.Hour).Unix(),
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		tokenString, _ := token.SignedString([]byte(cfg.JWTSecret))

		req, _ := http.NewRequest("GET", "/admin/reservations/2025-06-01", nil)
		req.Header.Set("Authorization", "Bearer "+tokenString)
		rr := httptest.NewRecorder()
		middleware.ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %v", rr.Code)
		}
	})
}
