package auth

import (
	"testing"

	"finance-backend/internal/config"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpirationHours = 1
	cfg.JWT.Issuer = "finance-backend"
	return cfg
}

func TestGenerateAndValidateToken(t *testing.T) {
	m := NewJWTManager(testConfig())

	token, err := m.GenerateToken(42, "owner@example.com", "admin")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.OrganizationID != 42 {
		t.Errorf("OrganizationID = %d, want 42", claims.OrganizationID)
	}
	if claims.Email != "owner@example.com" {
		t.Errorf("Email = %q, want owner@example.com", claims.Email)
	}
	if claims.Role != "admin" {
		t.Errorf("Role = %q, want admin", claims.Role)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	token, err := NewJWTManager(testConfig()).GenerateToken(42, "a@b.c", "admin")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	other := testConfig()
	other.JWT.Secret = "different-secret"
	if _, err := NewJWTManager(other).ValidateToken(token); err == nil {
		t.Error("expected validation to fail for a token signed with another secret")
	}
}

func TestValidateTokenRejectsMissingOrgScope(t *testing.T) {
	m := NewJWTManager(testConfig())
	token, err := m.GenerateToken(0, "a@b.c", "admin")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := m.ValidateToken(token); err == nil {
		t.Error("expected validation to fail for a token without organization scope")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	if _, err := NewJWTManager(testConfig()).ValidateToken("not.a.token"); err == nil {
		t.Error("expected validation to fail for malformed token")
	}
}
