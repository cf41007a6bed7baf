package sanitizer

import (
	"strings"
	"testing"
)

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "basic trim",
			input: "  hello  ",
			want:  "hello",
		},
		{
			name:  "multiple spaces",
			input: "hello    world",
			want:  "hello world",
		},
		{
			name:  "tabs and newlines",
			input: "hello\t\nworld",
			want:  "hello world",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   \t\n  ",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrimAndNormalize(tt.input)
			if got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeLocation(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "trim and collapse",
			input: "  Studio   A,\tMain Street ",
			want:  "Studio A, Main Street",
		},
		{
			name:  "keeps casing and punctuation",
			input: "Café & Spa – Room 2",
			want:  "Café & Spa – Room 2",
		},
		{
			name:  "strips control characters",
			input: "Gym\x00 Hall\x07",
			want:  "Gym Hall",
		},
		{
			name:  "non latin",
			input: " סטודיו תל אביב ",
			want:  "סטודיו תל אביב",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeLocation(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeLocation(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if again := NormalizeLocation(got); again != got {
				t.Errorf("NormalizeLocation is not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestNormalizeTitle_Truncates(t *testing.T) {
	long := strings.Repeat("á", MaxTitleLength+10)
	got := NormalizeTitle(long)
	if n := len([]rune(got)); n != MaxTitleLength {
		t.Errorf("NormalizeTitle length = %d, want %d", n, MaxTitleLength)
	}
}

func TestNormalizeRole(t *testing.T) {
	if got := NormalizeRole("  Admin "); got != "admin" {
		t.Errorf("NormalizeRole = %q, want %q", got, "admin")
	}
}
