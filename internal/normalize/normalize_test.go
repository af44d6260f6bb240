package normalize

import (
	"strings"
	"testing"
)

func TestFold(t *testing.T) {
	tests := []struct {
		a, b string
	}{
		{"Hello", "hello"},
		{"ÉTÉ", "été"},
		{"été", "été"},
		{"Straße", "STRASSE"},
		{"ΣΊΣΥΦΟΣ", "σίσυφος"},
	}

	for _, tt := range tests {
		t.Run(tt.a, func(t *testing.T) {
			if Fold(tt.a) != Fold(tt.b) {
				t.Errorf("Fold(%q) = %q, Fold(%q) = %q; want equal", tt.a, Fold(tt.a), tt.b, Fold(tt.b))
			}
		})
	}
}

func TestFold_PreservesSubstrings(t *testing.T) {
	haystack := Fold("Notes on Go CONCURRENCY patterns")
	for _, needle := range []string{"go", "Concurrency", "ON GO"} {
		if !strings.Contains(haystack, Fold(needle)) {
			t.Errorf("expected %q to contain %q", haystack, Fold(needle))
		}
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"  Go  ", "Go"},
		{"Slow \t  Burn", "Slow Burn"},
		{"nul\x00byte", "nulbyte"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Name(tt.input); got != tt.want {
			t.Errorf("Name(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"Science Fiction", "science-fiction"},
		{"Café Culture", "cafe-culture"},
		{"Sci-Fi/Fantasy", "sci-fi-fantasy"},
		{"  --leading--  ", "leading"},
		{"Go 1.22", "go-1-22"},
		{"日本語 テスト", "日本語-テスト"},
		{"!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Slug(tt.input); got != tt.want {
				t.Errorf("Slug(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
