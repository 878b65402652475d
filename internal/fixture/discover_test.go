package fixture

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func writeFixture(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte("print 1;\n"), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestDirDiscoverMatchesOneCategoryLevel(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, filepath.Join(root, "loops", "for_scoping.lox"))
	writeFixture(t, filepath.Join(root, "strings", "concat.lox"))
	// Outside the <root>/<category>/<name> shape: must not match.
	writeFixture(t, filepath.Join(root, "toplevel.lox"))
	writeFixture(t, filepath.Join(root, "loops", "nested", "deep.lox"))
	writeFixture(t, filepath.Join(root, "loops", "readme.txt"))

	fixtures, err := (Dir{Root: root, Ext: ".lox"}).Discover()
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	idents := make([]string, 0, len(fixtures))
	for _, f := range fixtures {
		idents = append(idents, f.Ident())
	}
	sort.Strings(idents)
	want := []string{"loops_for_scoping", "strings_concat"}
	if len(idents) != len(want) {
		t.Fatalf("discovered %v, want %v", idents, want)
	}
	for i := range want {
		if idents[i] != want[i] {
			t.Fatalf("discovered %v, want %v", idents, want)
		}
	}
}

func TestDirDiscoverMissingRootIsEmpty(t *testing.T) {
	fixtures, err := (Dir{Root: filepath.Join(t.TempDir(), "nope"), Ext: ".lox"}).Discover()
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(fixtures) != 0 {
		t.Fatalf("expected no fixtures, got %d", len(fixtures))
	}
}

func TestListDiscoverReturnsCopy(t *testing.T) {
	list := List{FromPath(filepath.Join("r", "c", "a.lox"))}
	got, err := list.Discover()
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	got[0].Stem = "mutated"
	if list[0].Stem != "a" {
		t.Fatalf("Discover must not alias the list, list[0].Stem = %q", list[0].Stem)
	}
}
