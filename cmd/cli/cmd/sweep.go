package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pagerank-bench/internal/pagerank"
	"github.com/pagerank-bench/pkg/config"
	"github.com/pagerank-bench/pkg/parallel"
	"github.com/pagerank-bench/pkg/model"
	"github.com/pagerank-bench/pkg/utils"
	"github.com/pagerank-bench/pkg/writer"
)

var (
	// Sweep command flags
	sweepInputs     []string
	sweepFormat     string
	sweepDampings   string
	sweepTolerances string
	sweepVariants   string
	sweepWorkers    string
	sweepRepeat     int
	sweepParallel   int
	sweepOutput     string
	sweepSelfLoops  bool
)

// sweepCmd represents the sweep command
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run a configuration grid of PageRank solves",
	Long: `Fan a grid of damping x tolerance x variant x workers combinations out
across the given graphs, running a bounded number of solves concurrently
and printing one observability line per grid point.

The first grid point of each graph acts as its reference run; later grid
points report their L1 distance against it.`,
	RunE: runSweep,
}

func init() {
	rootCmd.AddCommand(sweepCmd)

	binName := BinName()
	sweepCmd.Example = `  # Compare all three variants at two damping values
  ` + binName + ` sweep -i ./graphs/web-Stanford.mtx --damping 0.75,0.85 --variant basic,barrierfree,monolithic

  # Sweep worker counts for the barrier-free solver, save results
  ` + binName + ` sweep -i ./graphs/web-Stanford.mtx --variant barrierfree --workers 1,2,4,8 -o sweep.json`

	sweepCmd.Flags().StringSliceVarP(&sweepInputs, "input", "i", nil, "Input graph file(s) (required)")
	sweepCmd.Flags().StringVar(&sweepFormat, "format", "", "Graph format: mtx or temporal (default: by file extension)")
	sweepCmd.Flags().StringVar(&sweepDampings, "damping", "", "Comma-separated damping values (default: configured value)")
	sweepCmd.Flags().StringVar(&sweepTolerances, "tolerance", "", "Comma-separated tolerance values (default: configured value)")
	sweepCmd.Flags().StringVar(&sweepVariants, "variant", "", "Comma-separated variants (default: configured value)")
	sweepCmd.Flags().StringVar(&sweepWorkers, "workers", "", "Comma-separated worker counts (default: configured value)")
	sweepCmd.Flags().IntVar(&sweepRepeat, "repeat", 0, "Timed repeats per grid point")
	sweepCmd.Flags().IntVar(&sweepParallel, "parallel", 0, "Concurrent solves (default: scheduler worker_count)")
	sweepCmd.Flags().StringVarP(&sweepOutput, "output", "o", "", "Write all grid-point results to this JSON file")
	sweepCmd.Flags().BoolVar(&sweepSelfLoops, "self-loops", true, "Add a self-loop to every vertex before solving")

	sweepCmd.MarkFlagRequired("input")
}

// sweepPoint is one grid point: the graph it runs on and its options.
type sweepPoint struct {
	graphFile string
	opts      model.RunOptions
}

func runSweep(cmd *cobra.Command, args []string) error {
	log := GetLogger()
	conf := GetConfig()

	points, err := buildGrid(conf.Pagerank)
	if err != nil {
		return err
	}
	log.Info("Sweeping %d grid points over %d graph(s)", len(points), len(sweepInputs))

	limit := sweepParallel
	if limit <= 0 {
		limit = conf.Scheduler.WorkerCount
	}

	var (
		mu      sync.Mutex
		results []*model.Run
		refs    = make(map[string]*pagerank.Result)
	)

	group, ctx := errgroup.WithContext(cmd.Context())
	group.SetLimit(limit)

	tracker := parallel.NewProgressTracker(int64(len(points)*len(sweepInputs)),
		func(completed, total int64) {
			log.Info("Sweep progress: %d/%d grid points", completed, total)
		}, 5*time.Second)
	tracker.Start(ctx)
	defer tracker.Stop()

	for _, graphFile := range sweepInputs {
		// The reference run is solved up front, sequentially, so every
		// concurrent grid point can report an error against it.
		ref, err := solvePoint(ctx, sweepPoint{graphFile: graphFile, opts: points[0].opts}, log)
		if err != nil {
			return fmt.Errorf("reference run for %s failed: %w", graphFile, err)
		}
		refs[graphFile] = ref

		for _, pt := range points {
			pt := sweepPoint{graphFile: graphFile, opts: pt.opts}
			group.Go(func() error {
				res, err := solvePoint(ctx, pt, log)
				if err != nil {
					return err
				}

				reference := refs[pt.graphFile]
				refRanks := make(map[int64]float64, len(reference.Ranks))
				for i, key := range reference.Keys {
					refRanks[key] = reference.Ranks[i]
				}
				fmt.Printf("(%09.3f ms, %09.3f ms, %03d iters, %.4e err) %s damping=%g tolerance=%g workers=%d [%s]\n",
					res.CorrectedTimeMs, res.TimeMs, res.Iterations,
					l1Distance(res, refRanks), res.Variant,
					pt.opts.Damping, pt.opts.Tolerance, pt.opts.Workers, pt.graphFile)

				run := model.NewRun(sweepRunID(pt), pt.graphFile, pt.opts)
				run.ApplyResult(res)
				run.Status = model.RunStatusCompleted
				mu.Lock()
				results = append(results, run)
				mu.Unlock()
				tracker.Increment()
				return nil
			})
		}
	}

	if err := group.Wait(); err != nil {
		return err
	}

	if sweepOutput != "" {
		w := writer.NewPrettyJSONWriter[[]*model.Run]()
		if err := w.WriteToFile(results, sweepOutput); err != nil {
			return err
		}
		log.Info("Sweep results written to %s", sweepOutput)
	}
	return nil
}

// solvePoint loads a grid point's graph and solves it.
func solvePoint(ctx context.Context, pt sweepPoint, log utils.Logger) (*pagerank.Result, error) {
	g, err := loadGraphFile(pt.graphFile, sweepFormat)
	if err != nil {
		return nil, err
	}
	if sweepSelfLoops {
		g.AddSelfLoops()
	}
	return pagerank.Run(ctx, g, pt.opts.ToPagerankOptions(), nil, log)
}

// buildGrid expands the sweep flags into the cartesian product of
// damping, tolerance, variant, and worker-count values, falling back to
// the configured default for any axis left unset.
func buildGrid(pc config.PagerankConfig) ([]sweepPoint, error) {
	dampings, err := splitFloats(sweepDampings, pc.Damping)
	if err != nil {
		return nil, err
	}
	tolerances, err := splitFloats(sweepTolerances, pc.Tolerance)
	if err != nil {
		return nil, err
	}
	workers, err := splitInts(sweepWorkers, pc.Workers)
	if err != nil {
		return nil, err
	}
	variants := splitStrings(sweepVariants, pc.Variant)

	repeat := sweepRepeat
	if repeat <= 0 {
		repeat = pc.Repeat
	}

	var points []sweepPoint
	for _, variant := range variants {
		for _, damping := range dampings {
			for _, tolerance := range tolerances {
				for _, w := range workers {
					points = append(points, sweepPoint{opts: model.RunOptions{
						Repeat:        repeat,
						ToleranceNorm: pc.ToleranceNorm,
						Tolerance:     tolerance,
						Damping:       damping,
						MaxIterations: pc.MaxIterations,
						Workers:       w,
						Variant:       variant,
						Async:         pc.Async,
						Dead:          pc.Dead,
					}})
				}
			}
		}
	}
	return points, nil
}

// sweepRunID derives a stable, human-readable run id for a grid point.
func sweepRunID(pt sweepPoint) string {
	return fmt.Sprintf("%s-%s-p%g-t%g-w%d",
		strings.TrimSuffix(pt.graphFile, ".mtx"), pt.opts.Variant,
		pt.opts.Damping, pt.opts.Tolerance, pt.opts.Workers)
}

func splitFloats(s string, fallback float64) ([]float64, error) {
	if s == "" {
		return []float64{fallback}, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid numeric list %q: %w", s, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func splitInts(s string, fallback int) ([]int, error) {
	if s == "" {
		return []int{fallback}, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid integer list %q: %w", s, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func splitStrings(s string, fallback string) []string {
	if s == "" {
		return []string{fallback}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}
