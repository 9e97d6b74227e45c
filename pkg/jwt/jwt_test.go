package jwt

import (
	"errors"
	"testing"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndValidate(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateToken("ink@example.com", 7)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}

	userID, email, err := ExtractIdentity(claims)
	if err != nil {
		t.Fatalf("ExtractIdentity: %v", err)
	}
	if userID != 7 || email != "ink@example.com" {
		t.Errorf("identity = (%d, %s), want (7, ink@example.com)", userID, email)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-a")
	token, err := GenerateToken("ink@example.com", 7)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	t.Setenv("JWT_SECRET", "secret-b")
	if _, err := ValidateToken(token); err == nil {
		t.Error("expected validation to fail with a different secret")
	}
}

func TestExtractIdentityRequiresBothClaims(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	claims := jwtlib.MapClaims{"email": "ink@example.com"}
	if _, _, err := ExtractIdentity(claims); !errors.Is(err, ErrMissingClaims) {
		t.Errorf("expected ErrMissingClaims without user_id, got %v", err)
	}

	claims = jwtlib.MapClaims{"user_id": float64(7)}
	if _, _, err := ExtractIdentity(claims); !errors.Is(err, ErrMissingClaims) {
		t.Errorf("expected ErrMissingClaims without email, got %v", err)
	}
}
