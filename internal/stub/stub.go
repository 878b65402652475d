// Package stub renders generated test declarations. Rendering is a pure
// function of identifier and fixture path so it stays unit-testable apart
// from discovery, ordering and file I/O.
package stub

import "fmt"

// DefaultHeader opens a from-scratch generated document: the module
// declaration for the shared test utilities and the import of the
// test_program helper every stub delegates to.
const DefaultHeader = "mod ci_test_utilities;\n\nuse crate::ci_test_utilities::test_program;\n"

// Render produces one test declaration bound to a fixture path. The path is
// emitted exactly as discovered, with no escaping. Each declaration starts
// with a newline so consecutive stubs concatenate into blank-line separated
// blocks.
func Render(ident, path string) string {
	return fmt.Sprintf("\n#[test]\nfn %s() {\n    test_program(\"%s\");\n}\n", ident, path)
}
