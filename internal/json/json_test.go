package json

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantError bool
	}{
		{name: "single object", input: `{"name": "flour"}`},
		{name: "trailing object", input: `{"name": "flour"}{"name": "sugar"}`, wantError: true},
		{name: "trailing garbage", input: `{"name": "flour"} tail`, wantError: true},
		{name: "malformed", input: `{"name": `, wantError: true},
		{name: "empty input", input: ``, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dst struct {
				Name string `json:"name"`
			}
			err := Decode(&dst, json.NewDecoder(strings.NewReader(tt.input)))
			if tt.wantError {
				if err == nil {
					t.Error("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if dst.Name != "flour" {
				t.Errorf("expected name flour, got %q", dst.Name)
			}
		})
	}
}
