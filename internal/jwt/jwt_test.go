package jwt

import (
	"testing"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestGenerateAndValidate(t *testing.T) {
	raw, err := Generate(42, testSecret, DefaultKID)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	token, err := Validate(raw, DefaultKID, testSecret)
	if err != nil {
		t.Fatalf("failed to validate token: %v", err)
	}

	userID, err := Subject(token)
	if err != nil {
		t.Fatalf("failed to extract subject: %v", err)
	}
	if userID != 42 {
		t.Errorf("expected subject 42, got %d", userID)
	}
}

func TestValidateWrongSecret(t *testing.T) {
	raw, err := Generate(42, testSecret, DefaultKID)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if _, err := Validate(raw, DefaultKID, []byte("another-secret-another-secret-ab")); err == nil {
		t.Error("expected validation to fail with the wrong secret")
	}
}

func TestValidateWrongKID(t *testing.T) {
	raw, err := Generate(42, testSecret, "2")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if _, err := Validate(raw, DefaultKID, testSecret); err == nil {
		t.Error("expected validation to fail with a mismatched kid")
	}
}

func TestValidateGarbage(t *testing.T) {
	if _, err := Validate("not-a-token", DefaultKID, testSecret); err == nil {
		t.Error("expected validation to fail for a malformed token")
	}
}
