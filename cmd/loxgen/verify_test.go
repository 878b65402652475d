package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"loxgen/internal/fixture"
	"loxgen/internal/gen"
)

const verifyCreateManifest = `[package]
name = "rlox"

[[pipeline]]
name   = "ci-tests"
root   = "corpus"
output = "generated.rs"
`

const verifyMergeManifest = `[package]
name = "rlox"

[[pipeline]]
name   = "ci-runner"
root   = "corpus"
output = "merged.rs"
input  = "missing.rs"
mode   = "merge"
`

func TestVerifyDetectsStaleOutput(t *testing.T) {
	dir := chdirTemp(t)
	writeManifest(t, dir, verifyCreateManifest)
	writeFile(t, filepath.Join("corpus", "cat", "x.lox"), "print 1;\n")

	cfg := gen.Config{Name: "ci-tests", Root: "corpus", Ext: ".lox", Output: "generated.rs", Mode: gen.ModeCreate}
	if _, err := gen.Run(cfg, fixture.Dir{Root: cfg.Root, Ext: cfg.Ext}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if err := runVerify(verifyCmd, nil); err != nil {
		t.Fatalf("fresh output must verify clean: %v", err)
	}

	// Hand-edited drift must fail, naming the stale document.
	doc, err := os.ReadFile("generated.rs")
	if err != nil {
		t.Fatalf("read generated.rs: %v", err)
	}
	writeFile(t, "generated.rs", string(doc)+"// drift\n")
	err = runVerify(verifyCmd, nil)
	if err == nil {
		t.Fatalf("stale output must fail verification")
	}
	if !strings.Contains(err.Error(), "generated.rs") || !strings.Contains(err.Error(), "stale") {
		t.Fatalf("error must name the stale document: %v", err)
	}
}

func TestVerifyTreatsMissingOutputAsStale(t *testing.T) {
	dir := chdirTemp(t)
	writeManifest(t, dir, verifyCreateManifest)
	writeFile(t, filepath.Join("corpus", "cat", "x.lox"), "print 1;\n")

	err := runVerify(verifyCmd, nil)
	if err == nil || !strings.Contains(err.Error(), "generated.rs") {
		t.Fatalf("missing output must count as stale, got %v", err)
	}
}

func TestVerifySkipsGuardedMergePipeline(t *testing.T) {
	dir := chdirTemp(t)
	writeManifest(t, dir, verifyMergeManifest)
	writeFile(t, filepath.Join("corpus", "cat", "x.lox"), "print 1;\n")

	// Neither merged.rs nor missing.rs exists: the guard skips and
	// verification must not report staleness.
	if err := runVerify(verifyCmd, nil); err != nil {
		t.Fatalf("guard-skipped pipeline must not fail verification: %v", err)
	}
}
