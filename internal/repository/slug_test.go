package repository

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"Pick a DB!", "pick-a-db"},
		{"  spaced   out  ", "spaced-out"},
		{"under_score-kept", "under_score-kept"},
		{"---edges---", "edges"},
		{"", "untitled"},
		{"!!!", "untitled"},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSlugifyNonASCII(t *testing.T) {
	got := Slugify("Desktop 控制台")
	if got == "" || got == "untitled" {
		t.Fatalf("Slugify = %q, want the ASCII part kept", got)
	}
	for _, r := range got {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-' || r == '_') {
			t.Errorf("Slugify produced forbidden rune %q in %q", r, got)
		}
	}
	if got != "desktop" {
		t.Errorf("Slugify = %q, want %q", got, "desktop")
	}
}

func TestSlugifyLengthCap(t *testing.T) {
	got := Slugify(strings.Repeat("a", 200))
	if len(got) != 48 {
		t.Errorf("len = %d, want 48", len(got))
	}
}
