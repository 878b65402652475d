package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"loxgen/internal/gen"
)

// chdirTemp moves the working directory into a fresh temp dir. Tests
// calling this must not use t.Parallel.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(orig) })
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestRunPipelinesExecutesEveryPipeline(t *testing.T) {
	chdirTemp(t)
	writeFile(t, filepath.Join("corpus_a", "cat", "x.lox"), "print 1;\n")
	writeFile(t, filepath.Join("corpus_b", "cat", "y.lox"), "print 2;\n")
	writeFile(t, "prefix.rs", "PREFIX\n")
	writeFile(t, "merged.rs", "stale\n")

	configs := []gen.Config{
		{Name: "a", Root: "corpus_a", Ext: ".lox", Output: "a.rs", Mode: gen.ModeCreate},
		{Name: "b", Root: "corpus_b", Ext: ".lox", Output: "merged.rs", Input: "prefix.rs", Mode: gen.ModeMerge},
	}
	results, err := runPipelines(context.Background(), configs, 2, nil)
	if err != nil {
		t.Fatalf("runPipelines: %v", err)
	}
	for i, res := range results {
		if !res.Written {
			t.Fatalf("pipeline %d not written: %+v", i, res)
		}
	}
	merged, err := os.ReadFile("merged.rs")
	if err != nil {
		t.Fatalf("read merged.rs: %v", err)
	}
	if !strings.HasPrefix(string(merged), "PREFIX\n") || !strings.Contains(string(merged), "fn cat_y()") {
		t.Fatalf("merged document wrong:\n%s", merged)
	}
}

func TestRunPipelinesWrapsErrorsWithPipelineName(t *testing.T) {
	chdirTemp(t)
	writeFile(t, filepath.Join("corpus", "cat", "x.lox"), "print 1;\n")
	if err := os.Mkdir("outdir", 0o755); err != nil {
		t.Fatalf("mkdir outdir: %v", err)
	}

	configs := []gen.Config{
		// Writing to a directory path fails the write stage.
		{Name: "boom", Root: "corpus", Ext: ".lox", Output: "outdir", Mode: gen.ModeCreate},
	}
	_, err := runPipelines(context.Background(), configs, 1, nil)
	if err == nil {
		t.Fatalf("expected write failure")
	}
	if !strings.Contains(err.Error(), `pipeline "boom"`) {
		t.Fatalf("error does not name the failing pipeline: %v", err)
	}
}

func TestRunPipelinesRunsProducerBeforeConsumer(t *testing.T) {
	chdirTemp(t)
	writeFile(t, filepath.Join("corpus_a", "cat", "x.lox"), "print 1;\n")
	writeFile(t, filepath.Join("corpus_b", "cat", "y.lox"), "print 2;\n")
	writeFile(t, "merged.rs", "stale\n")

	// chain.rs does not exist yet: the merge pipeline's guard passes only
	// if the pipeline producing it has already run and fully written it.
	// The consumer is listed first so declaration order cannot save it.
	configs := []gen.Config{
		{Name: "runner", Root: "corpus_b", Ext: ".lox", Output: "merged.rs", Input: "chain.rs", Mode: gen.ModeMerge},
		{Name: "tests", Root: "corpus_a", Ext: ".lox", Output: "chain.rs", Mode: gen.ModeCreate},
	}
	results, err := runPipelines(context.Background(), configs, 2, nil)
	if err != nil {
		t.Fatalf("runPipelines: %v", err)
	}
	if results[0].SkipReason != "" || !results[0].Written {
		t.Fatalf("merge pipeline must run after its producer, got %+v", results[0])
	}
	if !results[1].Written {
		t.Fatalf("create pipeline not written: %+v", results[1])
	}

	chain, err := os.ReadFile("chain.rs")
	if err != nil {
		t.Fatalf("read chain.rs: %v", err)
	}
	merged, err := os.ReadFile("merged.rs")
	if err != nil {
		t.Fatalf("read merged.rs: %v", err)
	}
	if !strings.HasPrefix(string(merged), string(chain)) {
		t.Fatalf("merged document does not start with the freshly generated prefix:\n%s", merged)
	}
	if !strings.Contains(string(merged), "fn cat_y()") {
		t.Fatalf("merged document missing appended stub:\n%s", merged)
	}
}

func TestRunPipelinesRejectsDependencyCycles(t *testing.T) {
	chdirTemp(t)
	configs := []gen.Config{
		{Name: "a", Root: "r", Ext: ".lox", Output: "a.rs", Input: "b.rs", Mode: gen.ModeMerge},
		{Name: "b", Root: "r", Ext: ".lox", Output: "b.rs", Input: "a.rs", Mode: gen.ModeMerge},
	}
	_, err := runPipelines(context.Background(), configs, 2, nil)
	if err == nil || !strings.Contains(err.Error(), "cycle") {
		t.Fatalf("expected cycle error, got %v", err)
	}
}

func TestRunPipelinesGuardSkipIsNotAnError(t *testing.T) {
	chdirTemp(t)
	writeFile(t, filepath.Join("corpus", "cat", "x.lox"), "print 1;\n")

	configs := []gen.Config{
		{Name: "skip", Root: "corpus", Ext: ".lox", Output: "out.rs", Input: "missing.rs", Mode: gen.ModeMerge},
	}
	results, err := runPipelines(context.Background(), configs, 1, nil)
	if err != nil {
		t.Fatalf("guard skip must not fail the group: %v", err)
	}
	if results[0].Written || results[0].SkipReason == "" {
		t.Fatalf("results[0] = %+v, want silent skip", results[0])
	}
}
