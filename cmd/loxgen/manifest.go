package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"loxgen/internal/gen"
)

const noLoxgenTomlMessage = "no loxgen.toml found\nplease pass the manifest path explicitly, e.g.:\n  loxgen all path/to/loxgen.toml"

// defaultExt is assumed for pipelines that do not declare one.
const defaultExt = ".lox"

type manifest struct {
	Path   string
	Root   string
	Config manifestConfig
}

type manifestConfig struct {
	Package   packageConfig    `toml:"package"`
	Pipelines []pipelineConfig `toml:"pipeline"`
}

type packageConfig struct {
	Name string `toml:"name"`
}

type pipelineConfig struct {
	Name   string `toml:"name"`
	Root   string `toml:"root"`
	Ext    string `toml:"ext"`
	Output string `toml:"output"`
	Input  string `toml:"input"`
	Mode   string `toml:"mode"`
	Header string `toml:"header"`
}

// findLoxgenToml walks from startDir up to the filesystem root looking for
// a loxgen.toml manifest.
func findLoxgenToml(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "loxgen.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// locateManifest resolves the optional positional argument of the manifest
// driven commands: an explicit manifest file, a directory to start the
// upward search from, or nothing (search from the working directory).
func locateManifest(args []string) (*manifest, error) {
	start := "."
	if len(args) > 0 && args[0] != "" {
		start = args[0]
	}
	if info, err := os.Stat(start); err == nil && !info.IsDir() {
		return loadManifest(start)
	}
	path, ok, err := findLoxgenToml(start)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New(noLoxgenTomlMessage)
	}
	return loadManifest(path)
}

func loadManifest(path string) (*manifest, error) {
	cfg, err := decodeManifest(path)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", path, err)
	}
	return &manifest{
		Path:   abs,
		Root:   filepath.Dir(abs),
		Config: cfg,
	}, nil
}

func decodeManifest(path string) (manifestConfig, error) {
	var cfg manifestConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return manifestConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return manifestConfig{}, fmt.Errorf("%s: missing [package].name", path)
	}
	if len(cfg.Pipelines) == 0 {
		return manifestConfig{}, fmt.Errorf("%s: no [[pipeline]] sections", path)
	}
	names := make(map[string]bool, len(cfg.Pipelines))
	outputs := make(map[string]bool, len(cfg.Pipelines))
	for i := range cfg.Pipelines {
		p := &cfg.Pipelines[i]
		if err := validatePipeline(path, p); err != nil {
			return manifestConfig{}, err
		}
		if names[p.Name] {
			return manifestConfig{}, fmt.Errorf("%s: duplicate pipeline name %q", path, p.Name)
		}
		if outputs[p.Output] {
			return manifestConfig{}, fmt.Errorf("%s: duplicate pipeline output %q", path, p.Output)
		}
		names[p.Name] = true
		outputs[p.Output] = true
	}
	return cfg, nil
}

func validatePipeline(path string, p *pipelineConfig) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%s: pipeline missing name", path)
	}
	if strings.TrimSpace(p.Root) == "" {
		return fmt.Errorf("%s: pipeline %q missing root", path, p.Name)
	}
	if strings.TrimSpace(p.Output) == "" {
		return fmt.Errorf("%s: pipeline %q missing output", path, p.Name)
	}
	if p.Ext == "" {
		p.Ext = defaultExt
	}
	switch p.Mode {
	case "", string(gen.ModeCreate):
		p.Mode = string(gen.ModeCreate)
	case string(gen.ModeMerge):
		if strings.TrimSpace(p.Input) == "" {
			return fmt.Errorf("%s: merge pipeline %q missing input", path, p.Name)
		}
	default:
		return fmt.Errorf("%s: pipeline %q has unknown mode %q (must be create or merge)", path, p.Name, p.Mode)
	}
	return nil
}

// genConfigs turns manifest pipelines into runnable configs. Paths stay
// manifest-relative so the emitted path literals match the corpus
// convention; callers chdir to the manifest root first.
func (m *manifest) genConfigs() ([]gen.Config, error) {
	configs := make([]gen.Config, 0, len(m.Config.Pipelines))
	for _, p := range m.Config.Pipelines {
		cfg := gen.Config{
			Name:   p.Name,
			Root:   p.Root,
			Ext:    p.Ext,
			Output: p.Output,
			Input:  p.Input,
			Mode:   gen.Mode(p.Mode),
		}
		if p.Header != "" {
			data, err := os.ReadFile(filepath.Join(m.Root, p.Header))
			if err != nil {
				return nil, fmt.Errorf("%s: pipeline %q: failed to read header file: %w", m.Path, p.Name, err)
			}
			cfg.Header = string(data)
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}

// enterManifestRoot makes pipeline paths resolvable as written in the
// manifest. Generated documents must embed fixture paths relative to the
// manifest root, so the process runs from there.
func enterManifestRoot(m *manifest) error {
	if err := os.Chdir(m.Root); err != nil {
		return fmt.Errorf("failed to enter manifest root %q: %w", m.Root, err)
	}
	return nil
}
