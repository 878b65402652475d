package fixture

import (
	"path/filepath"
	"testing"
)

func TestIdentDerivation(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{filepath.Join("tests_root", "loops", "for_scoping.lox"), "loops_for_scoping"},
		{filepath.Join("tests_root", "strings", "concat.lox"), "strings_concat"},
		{filepath.Join("a", "b", "c.lox"), "b_c"},
		{filepath.Join("root", "category", "no_ext"), "category_no_ext"},
	}
	for _, tc := range cases {
		got := FromPath(tc.path).Ident()
		if got != tc.want {
			t.Fatalf("FromPath(%q).Ident() = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestFromPathKeepsPathVerbatim(t *testing.T) {
	path := filepath.Join("tests_root", "strings", "literal.lox")
	f := FromPath(path)
	if f.Path != path {
		t.Fatalf("f.Path = %q, want %q", f.Path, path)
	}
	if f.Category != "strings" {
		t.Fatalf("f.Category = %q, want strings", f.Category)
	}
	if f.Stem != "literal" {
		t.Fatalf("f.Stem = %q, want literal", f.Stem)
	}
}
