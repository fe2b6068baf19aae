package services

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"accents and space", "José Pérez", "jose-perez"},
		{"plain", "Ana", "ana"},
		{"enye", "Begoña Muñoz", "begona-munoz"},
		{"surrounding punctuation", "  ¡Hola, Mundo!  ", "hola-mundo"},
		{"collapses runs", "a -- b", "a-b"},
		{"digits kept", "Tío 2", "tio-2"},
		{"only punctuation", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.in); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestGenerateAccessCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := GenerateAccessCode()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("expected 6 characters, got %q", code)
		}
		for _, r := range code {
			if !strings.ContainsRune(accessCodeAlphabet, r) {
				t.Fatalf("unexpected character %q in %q", r, code)
			}
		}
		seen[code] = true
	}
	if len(seen) < 95 {
		t.Errorf("expected mostly distinct codes, got %d of 100", len(seen))
	}
}
