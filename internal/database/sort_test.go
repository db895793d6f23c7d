package database

import "testing"

func TestOrderClause(t *testing.T) {
	tests := []struct {
		name string
		sort string
		want string
	}{
		{name: "empty falls back to default", sort: "", want: "created_at DESC, id DESC"},
		{name: "ascending column", sort: "cooking_time", want: "cooking_time ASC, id ASC"},
		{name: "descending column", sort: "-servings", want: "servings DESC, id DESC"},
		{name: "preparation time", sort: "preparation_time", want: "preparation_time ASC, id ASC"},
		{name: "created at descending", sort: "-created_at", want: "created_at DESC, id DESC"},
		{name: "unknown column ignored", sort: "title", want: "created_at DESC, id DESC"},
		{name: "injection attempt ignored", sort: "created_at; DROP TABLE recipes", want: "created_at DESC, id DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := orderClause(tt.sort); got != tt.want {
				t.Errorf("orderClause(%q) = %q, want %q", tt.sort, got, tt.want)
			}
		})
	}
}

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		input     string
		want      Difficulty
		wantError bool
	}{
		{input: "easy", want: DifficultyEasy},
		{input: "MEDIUM", want: DifficultyMedium},
		{input: "Hard", want: DifficultyHard},
		{input: "extreme", wantError: true},
		{input: "", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDifficulty(tt.input)
			if tt.wantError {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseDifficulty(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
