package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"loxgen/internal/fixture"
	"loxgen/internal/gen"
	"loxgen/internal/ui"
)

var allCmd = &cobra.Command{
	Use:   "all [path]",
	Short: "Run every pipeline declared in loxgen.toml",
	Long: `All locates a loxgen.toml manifest (given explicitly or found by walking
parent directories) and runs every declared pipeline. Pipelines own their
output files exclusively; a pipeline that reads another pipeline's output
runs after its producer, and the remaining pipelines run concurrently.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAll,
}

func init() {
	allCmd.Flags().Int("jobs", 0, "maximum concurrent pipelines (0 = GOMAXPROCS)")
	allCmd.Flags().Bool("ui", false, "render interactive progress (requires a terminal)")
}

func runAll(cmd *cobra.Command, args []string) error {
	m, err := locateManifest(args)
	if err != nil {
		return err
	}
	configs, err := m.genConfigs()
	if err != nil {
		return err
	}
	if err := enterManifestRoot(m); err != nil {
		return err
	}

	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	useUI, err := cmd.Flags().GetBool("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}

	var results []gen.Result
	if useUI && isTerminal(os.Stdout) {
		results, err = runPipelinesWithUI(cmd.Context(), m.Config.Package.Name, configs, jobs)
	} else {
		results, err = runPipelines(cmd.Context(), configs, jobs, nil)
	}
	if err != nil {
		return err
	}

	setupColor(cmd)
	if !quietMode(cmd) {
		for i, cfg := range configs {
			printResult(os.Stdout, cfg, results[i])
		}
	}
	return nil
}

// runPipelines runs the pipelines wave by wave: a pipeline whose input is
// another pipeline's output starts only after its producer finished, and
// the pipelines within one wave fan out over a bounded errgroup. Result
// indexes are goroutine-unique, so no locking is needed.
func runPipelines(ctx context.Context, configs []gen.Config, jobs int, sink gen.ProgressSink) ([]gen.Result, error) {
	if len(configs) == 0 {
		return nil, nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	waves, err := pipelineWaves(configs)
	if err != nil {
		return nil, err
	}

	results := make([]gen.Result, len(configs))
	for _, wave := range waves {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(min(jobs, len(wave)))
		for _, i := range wave {
			i := i
			cfg := configs[i]
			g.Go(func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				cfg.Progress = sink
				res, err := gen.Run(cfg, fixture.Dir{Root: cfg.Root, Ext: cfg.Ext})
				results[i] = res
				if err != nil {
					return fmt.Errorf("pipeline %q: %w", cfg.Name, err)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return results, err
		}
	}
	return results, nil
}

// pipelineWaves groups pipeline indexes by their input/output dependency
// depth. A merge pipeline reading a document another pipeline generates
// lands one wave after its producer, so its guard sees the fresh, fully
// written prefix regardless of scheduling.
func pipelineWaves(configs []gen.Config) ([][]int, error) {
	producer := make(map[string]int, len(configs))
	for i, cfg := range configs {
		producer[cfg.Output] = i
	}

	const unresolved = -1
	depths := make([]int, len(configs))
	for i := range depths {
		depths[i] = unresolved
	}
	var resolve func(i int, seen []bool) (int, error)
	resolve = func(i int, seen []bool) (int, error) {
		if depths[i] != unresolved {
			return depths[i], nil
		}
		if seen[i] {
			return 0, fmt.Errorf("pipelines form an input/output cycle through %q", configs[i].Name)
		}
		seen[i] = true
		depth := 0
		if in := configs[i].Input; in != "" {
			if j, ok := producer[in]; ok && j != i {
				parent, err := resolve(j, seen)
				if err != nil {
					return 0, err
				}
				depth = parent + 1
			}
		}
		depths[i] = depth
		return depth, nil
	}

	maxDepth := 0
	for i := range configs {
		depth, err := resolve(i, make([]bool, len(configs)))
		if err != nil {
			return nil, err
		}
		if depth > maxDepth {
			maxDepth = depth
		}
	}
	waves := make([][]int, maxDepth+1)
	for i, depth := range depths {
		waves[depth] = append(waves[depth], i)
	}
	return waves, nil
}

type allOutcome struct {
	results []gen.Result
	err     error
}

// runPipelinesWithUI drives the pipelines in the background while a Bubble
// Tea model consumes their progress events in the foreground.
func runPipelinesWithUI(ctx context.Context, title string, configs []gen.Config, jobs int) ([]gen.Result, error) {
	events := make(chan gen.Event, 256)
	outcomeCh := make(chan allOutcome, 1)

	go func() {
		results, err := runPipelines(ctx, configs, jobs, gen.ChannelSink{Ch: events})
		outcomeCh <- allOutcome{results: results, err: err}
		close(events)
	}()

	names := make([]string, 0, len(configs))
	for _, cfg := range configs {
		names = append(names, cfg.Name)
	}
	model := ui.NewProgressModel(title, names, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
