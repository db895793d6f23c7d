package password

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{name: "valid password", password: "c0rrect-Horse-battery"},
		{name: "too short", password: "Ab1", wantErr: ErrTooShort},
		{name: "no uppercase", password: "lowercase-only-1", wantErr: ErrNoUppercase},
		{name: "no lowercase", password: "UPPERCASE-ONLY-1", wantErr: ErrNoLowercase},
		{name: "no digit", password: "No-Digits-Here", wantErr: ErrNoDigit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.password)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected %q to validate, got %v", tt.password, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateLowEntropy(t *testing.T) {
	// Long enough and has all character classes, but highly repetitive.
	if err := Validate("Aaaaaaaaa1"); err == nil {
		t.Error("expected a repetitive password to fail the entropy check")
	}
}
