package sanitizer

import (
	"reflect"
	"testing"
)

func TestNormalizeRoles(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "convert to lowercase",
			input: []string{"Admin", "COACH"},
			want:  []string{"admin", "coach"},
		},
		{
			name:  "remove duplicates",
			input: []string{"admin", " Admin", "ADMIN "},
			want:  []string{"admin"},
		},
		{
			name:  "filter empty strings",
			input: []string{"admin", "", "  ", "member"},
			want:  []string{"admin", "member"},
		},
		{
			name:  "empty input",
			input: []string{},
			want:  []string{},
		},
		{
			name:  "nil input",
			input: nil,
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeRoles(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeRoles(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeIDs_PreservesCase(t *testing.T) {
	got := NormalizeIDs([]string{" AbC ", "AbC", "def"})
	want := []string{"AbC", "def"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeIDs = %v, want %v", got, want)
	}
}
