package argon2id

import (
	"errors"
	"strings"
	"testing"
)

// testParams keeps hashing cheap in tests.
var testParams = Params{
	Memory:      16 * 1024,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

func TestEncodeAndVerifyHash(t *testing.T) {
	encoded, err := EncodeHash("c0rrect-Horse-battery", testParams)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$") {
		t.Errorf("expected an $argon2id$ prefix, got %q", encoded)
	}

	match, err := VerifyHash("c0rrect-Horse-battery", encoded)
	if err != nil {
		t.Fatalf("failed to verify password: %v", err)
	}
	if !match {
		t.Error("expected the password to match its own hash")
	}

	match, err = VerifyHash("wrong-password", encoded)
	if err != nil {
		t.Fatalf("failed to verify password: %v", err)
	}
	if match {
		t.Error("expected a wrong password not to match")
	}
}

func TestEncodeHashUnique(t *testing.T) {
	first, err := EncodeHash("c0rrect-Horse-battery", testParams)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	second, err := EncodeHash("c0rrect-Horse-battery", testParams)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if first == second {
		t.Error("expected distinct salts to give distinct hashes")
	}
}

func TestVerifyHashMalformed(t *testing.T) {
	for _, encoded := range []string{
		"",
		"not-a-hash",
		"$argon2id$v=19$m=65536,t=3,p=2$onlyonesegment",
	} {
		if _, err := VerifyHash("password", encoded); !errors.Is(err, ErrInvalidHash) {
			t.Errorf("encoded %q: expected ErrInvalidHash, got %v", encoded, err)
		}
	}
}
