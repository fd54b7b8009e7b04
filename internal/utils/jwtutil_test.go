package utils

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	token, exp, err := GenerateToken(secret, 7, 42, "analyst", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if !exp.After(time.Now()) {
		t.Errorf("expiry %v not in the future", exp)
	}

	claims, err := ParseToken(secret, token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserId != 7 || claims.CompanyId != 42 || claims.Username != "analyst" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, _, err := GenerateToken([]byte("one"), 1, 1, "u", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := ParseToken([]byte("two"), token); err == nil {
		t.Fatal("expected signature verification failure")
	}
}

func TestParseTokenExpired(t *testing.T) {
	secret := []byte("s")
	token, _, err := GenerateToken(secret, 1, 1, "u", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := ParseToken(secret, token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}
