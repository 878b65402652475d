package fixture

import (
	"path/filepath"
	"strings"
)

// Fixture is one externally authored test-case file discovered under a
// corpus root. Category is the immediate parent directory name, Stem is the
// file name without extension; both feed identifier derivation.
type Fixture struct {
	Path     string
	Category string
	Stem     string
}

// FromPath derives a Fixture from a matched path of the shape
// <root>/<category>/<name><ext>. Path is kept exactly as matched so the
// emitted document references the fixture the way the harness will open it.
func FromPath(path string) Fixture {
	base := filepath.Base(path)
	return Fixture{
		Path:     path,
		Category: filepath.Base(filepath.Dir(path)),
		Stem:     strings.TrimSuffix(base, filepath.Ext(base)),
	}
}

// Ident returns the test identifier: category and stem joined with a
// literal underscore. Identifier validity of the parts is a corpus
// precondition and is not enforced here.
func (f Fixture) Ident() string {
	return f.Category + "_" + f.Stem
}
