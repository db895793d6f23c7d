package identity

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	tbHttp "github.com/rgood/tastebook/internal/http"
	tbJwt "github.com/rgood/tastebook/internal/jwt"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestLocalVerifier(t *testing.T) {
	raw, err := tbJwt.Generate(7, testSecret, tbJwt.DefaultKID)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	verifier := LocalVerifier{Secret: testSecret}
	id, err := verifier.Verify(context.Background(), raw)
	if err != nil {
		t.Fatalf("failed to verify token: %v", err)
	}
	if id.UserID != 7 {
		t.Errorf("expected user id 7, got %d", id.UserID)
	}
}

func TestLocalVerifierInvalidToken(t *testing.T) {
	verifier := LocalVerifier{Secret: testSecret}
	_, err := verifier.Verify(context.Background(), "garbage")
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestIntrospector(t *testing.T) {
	tests := []struct {
		name      string
		response  string
		status    int
		wantID    int64
		wantError bool
	}{
		{
			name:     "active token",
			response: `{"active": true, "sub": "12"}`,
			status:   http.StatusOK,
			wantID:   12,
		},
		{
			name:      "inactive token",
			response:  `{"active": false}`,
			status:    http.StatusOK,
			wantError: true,
		},
		{
			name:      "unparsable subject",
			response:  `{"active": true, "sub": "alice"}`,
			status:    http.StatusOK,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST, got %s", r.Method)
				}
				if err := r.ParseForm(); err != nil {
					t.Errorf("failed to parse form: %v", err)
				}
				if r.PostForm.Get("token") == "" {
					t.Error("expected a token form value")
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.response))
			}))
			defer server.Close()

			introspector := &Introspector{
				HTTP: tbHttp.New(tbHttp.DefaultConfig()),
				URL:  server.URL,
			}
			id, err := introspector.Verify(context.Background(), "opaque-token")
			if tt.wantError {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if id.UserID != tt.wantID {
				t.Errorf("expected user id %d, got %d", tt.wantID, id.UserID)
			}
		})
	}
}
