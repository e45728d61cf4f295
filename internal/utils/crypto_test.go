package utils

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Moonlit-Garden7!")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Fatalf("unexpected hash format: %s", hash)
	}

	ok, err := VerifyPassword("Moonlit-Garden7!", hash)
	if err != nil {
		t.Fatalf("VerifyPassword failed: %v", err)
	}
	if !ok {
		t.Fatal("expected correct password to verify")
	}

	ok, err = VerifyPassword("wrong-password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword failed: %v", err)
	}
	if ok {
		t.Fatal("expected wrong password to fail verification")
	}
}

func TestHashPasswordProducesUniqueSalts(t *testing.T) {
	h1, err := HashPassword("same-password-A1!")
	if err != nil {
		t.Fatal(err)
	}
	h2, err := HashPassword("same-password-A1!")
	if err != nil {
		t.Fatal(err)
	}
	if h1 == h2 {
		t.Fatal("expected different hashes for the same password")
	}
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	if _, err := VerifyPassword("anything", "not-a-hash"); err == nil {
		t.Fatal("expected error for malformed hash")
	}
	if _, err := VerifyPassword("anything", "$bcrypt$whatever$x$y$z"); err == nil {
		t.Fatal("expected error for non-argon2id hash")
	}
}

func TestGenerateSecureToken(t *testing.T) {
	token, err := GenerateSecureToken(32)
	if err != nil {
		t.Fatalf("GenerateSecureToken failed: %v", err)
	}
	if len(token) != 64 { // hex doubles the length
		t.Fatalf("expected 64 hex chars, got %d", len(token))
	}
}

func TestGenerateGiftCardCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		code, err := GenerateGiftCardCode()
		if err != nil {
			t.Fatalf("GenerateGiftCardCode failed: %v", err)
		}
		if !strings.HasPrefix(code, "LF-") || len(code) != 17 {
			t.Fatalf("unexpected code format: %s", code)
		}
		if strings.ContainsAny(code, "01OI") {
			t.Fatalf("code contains ambiguous characters: %s", code)
		}
		seen[code] = true
	}
	if len(seen) != 20 {
		t.Fatalf("expected 20 distinct codes, got %d", len(seen))
	}
}
