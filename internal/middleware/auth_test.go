package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"finance-backend/internal/auth"
	"finance-backend/internal/config"
)

func testJWTManager() *auth.JWTManager {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpirationHours = 1
	cfg.JWT.Issuer = "finance-backend"
	return auth.NewJWTManager(cfg)
}

func TestAuthenticateInjectsOrgScope(t *testing.T) {
	jwtManager := testJWTManager()
	token, err := jwtManager.GenerateToken(7, "owner@example.com", "admin")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	var gotOrg int64
	var gotOK bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotOrg, gotOK = GetOrgIDFromContext(r.Context())
	})

	req := httptest.NewRequest("GET", "/api/transactions", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	NewAuthMiddleware(jwtManager).Authenticate(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !gotOK || gotOrg != 7 {
		t.Errorf("org scope = (%d, %v), want (7, true)", gotOrg, gotOK)
	}
}

func TestAuthenticateRejectsBadRequests(t *testing.T) {
	jwtManager := testJWTManager()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run for unauthenticated request")
	})
	handler := NewAuthMiddleware(jwtManager).Authenticate(next)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic dXNlcjpwYXNz"},
		{"malformed token", "Bearer not.a.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/transactions", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}
