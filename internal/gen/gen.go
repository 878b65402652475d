// Package gen assembles and emits generated test documents. One Config
// describes one pipeline; running it is a pure function of the fixture set
// and, in merge mode, the prefix document's content.
package gen

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"loxgen/internal/fixture"
	"loxgen/internal/stub"
)

// Mode selects how the output document is assembled.
type Mode string

const (
	// ModeCreate writes a fresh document: fixed header plus sorted stubs.
	ModeCreate Mode = "create"
	// ModeMerge prefixes an existing document's content and requires both
	// the input and output files to already exist.
	ModeMerge Mode = "merge"
)

// Config describes one generation pipeline. Paths are taken as given;
// callers resolve them against whatever directory they consider current.
type Config struct {
	// Name identifies the pipeline in progress events and summaries.
	Name string
	// Root is the fixture corpus root; fixtures live one category
	// directory below it.
	Root string
	// Ext is the fixture file extension, dot included.
	Ext string
	// Output is the generated document path.
	Output string
	// Input is the existing document used as prefix (merge mode only).
	Input string
	// Header overrides stub.DefaultHeader in create mode when non-empty.
	Header string
	// Mode selects create or merge assembly.
	Mode Mode
	// Progress receives pipeline events; may be nil.
	Progress ProgressSink
}

// Result reports what one pipeline run did.
type Result struct {
	// Written is true when the output document was (re)written.
	Written bool
	// SkipReason is set when merge preconditions were unmet and the run
	// was a silent no-op.
	SkipReason string
	// Fixtures is the number of discovered fixtures, duplicates included.
	Fixtures int
	// Stubs is the number of distinct identifiers emitted.
	Stubs int
	// Bytes is the size of the assembled document.
	Bytes int
}

// CollisionError reports two distinct fixture files deriving the same test
// identifier. Generation fails before writing anything rather than letting
// one declaration silently replace the other.
type CollisionError struct {
	Ident      string
	FirstPath  string
	SecondPath string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("identifier %q derived from both %q and %q", e.Ident, e.FirstPath, e.SecondPath)
}

type rendered struct {
	path string
	text string
}

// Run executes one pipeline: guard, discover, render, assemble, write.
// Merge mode skips silently when its prerequisites are missing; any other
// failure aborts with nothing written.
func Run(cfg Config, disc fixture.Discoverer) (Result, error) {
	doc, res, err := Document(cfg, disc)
	if err != nil || res.SkipReason != "" {
		return res, err
	}

	start := time.Now()
	cfg.report(StageWrite, StatusWorking, nil, 0)
	if err := os.WriteFile(cfg.Output, doc, 0o600); err != nil {
		wrapped := fmt.Errorf("failed to write %q: %w", cfg.Output, err)
		cfg.report(StageWrite, StatusError, wrapped, time.Since(start))
		return res, wrapped
	}
	cfg.report(StageWrite, StatusDone, nil, time.Since(start))

	res.Written = true
	return res, nil
}

// Document assembles the complete output document without touching the
// output path. Verification recomputes documents through this and compares
// them against the files on disk. A merge pipeline whose prerequisites are
// missing returns a nil document and a Result with SkipReason set.
func Document(cfg Config, disc fixture.Discoverer) ([]byte, Result, error) {
	if cfg.Mode == ModeMerge {
		reason, ok, err := mergeReady(cfg)
		if err != nil {
			cfg.report(StageDiscover, StatusError, err, 0)
			return nil, Result{}, err
		}
		if !ok {
			cfg.report(StageDiscover, StatusSkipped, nil, 0)
			return nil, Result{SkipReason: reason}, nil
		}
	}

	start := time.Now()
	cfg.report(StageDiscover, StatusWorking, nil, 0)
	fixtures, err := disc.Discover()
	if err != nil {
		cfg.report(StageDiscover, StatusError, err, time.Since(start))
		return nil, Result{}, err
	}
	cfg.report(StageDiscover, StatusDone, nil, time.Since(start))
	res := Result{Fixtures: len(fixtures)}

	start = time.Now()
	cfg.report(StageRender, StatusWorking, nil, 0)
	stubs, err := renderAll(fixtures)
	if err != nil {
		cfg.report(StageRender, StatusError, err, time.Since(start))
		return nil, res, err
	}
	cfg.report(StageRender, StatusDone, nil, time.Since(start))
	res.Stubs = len(stubs)

	doc, err := assemble(cfg, stubs)
	if err != nil {
		cfg.report(StageWrite, StatusError, err, 0)
		return nil, res, err
	}
	res.Bytes = len(doc)
	return doc, res, nil
}

// renderAll maps identifiers to rendered stubs. The same path discovered
// twice deduplicates silently; two distinct paths deriving one identifier
// fail fast.
func renderAll(fixtures []fixture.Fixture) (map[string]rendered, error) {
	stubs := make(map[string]rendered, len(fixtures))
	for _, f := range fixtures {
		ident := f.Ident()
		if prev, ok := stubs[ident]; ok {
			if prev.path == f.Path {
				continue
			}
			return nil, &CollisionError{Ident: ident, FirstPath: prev.path, SecondPath: f.Path}
		}
		stubs[ident] = rendered{path: f.Path, text: stub.Render(ident, f.Path)}
	}
	return stubs, nil
}

// assemble concatenates the document prefix and all stubs in ascending
// identifier order, so output is byte-identical regardless of the
// filesystem's enumeration order.
func assemble(cfg Config, stubs map[string]rendered) ([]byte, error) {
	var b strings.Builder

	switch cfg.Mode {
	case ModeMerge:
		prefix, err := os.ReadFile(cfg.Input)
		if err != nil {
			return nil, fmt.Errorf("failed to read %q: %w", cfg.Input, err)
		}
		b.Write(prefix)
	default:
		if cfg.Header != "" {
			b.WriteString(cfg.Header)
		} else {
			b.WriteString(stub.DefaultHeader)
		}
	}

	idents := make([]string, 0, len(stubs))
	for ident := range stubs {
		idents = append(idents, ident)
	}
	sort.Strings(idents)
	for _, ident := range idents {
		b.WriteString(stubs[ident].text)
	}
	return []byte(b.String()), nil
}

// mergeReady checks the merge-mode guard: both the prefix input and the
// output must already exist as regular files. Absence is not an error,
// generation is optional scaffolding in an unbootstrapped tree; any other
// stat failure surfaces.
func mergeReady(cfg Config) (string, bool, error) {
	for _, path := range []string{cfg.Input, cfg.Output} {
		info, err := os.Stat(path)
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Sprintf("missing prerequisite %s", path), false, nil
		}
		if err != nil {
			return "", false, fmt.Errorf("failed to stat %q: %w", path, err)
		}
		if !info.Mode().IsRegular() {
			return fmt.Sprintf("missing prerequisite %s", path), false, nil
		}
	}
	return "", true, nil
}

func (cfg Config) report(stage Stage, status Status, err error, elapsed time.Duration) {
	if cfg.Progress == nil {
		return
	}
	cfg.Progress.OnEvent(Event{
		Pipeline: cfg.Name,
		Stage:    stage,
		Status:   status,
		Err:      err,
		Elapsed:  elapsed,
	})
}
