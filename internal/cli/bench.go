package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"graph-cloner/cloner"
	"graph-cloner/internal/graphgen"
	"graph-cloner/internal/metrics"
)

var (
	benchMode       string
	benchWorkers    int
	benchRules      string
	benchIterations int
	benchMetrics    bool
	benchGraph      = graphgen.DefaultConfig()
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Clone a generated graph repeatedly and report timings",
	Long: `Generate a random acyclic graph, clone it a number of times and report
how long each clone took. Every clone is checked for equal content
and for independence from the original.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if benchIterations < 1 {
			return fmt.Errorf("iterations must be positive, got %d", benchIterations)
		}

		opts, err := engineOptions(cmd, benchRules, benchMode, benchWorkers)
		if err != nil {
			return err
		}

		reg := prometheus.NewRegistry()
		last := &lastStats{}
		opts = append(opts, cloner.WithObserver(cloner.Observers(metrics.New(reg), last)))

		e, err := cloner.New(opts...)
		if err != nil {
			return err
		}

		gen := graphgen.New(benchGraph)
		root := gen.Graph()

		want, err := graphgen.Fingerprint(root)
		if err != nil {
			return fmt.Errorf("failed to fingerprint graph: %w", err)
		}

		out := cmd.OutOrStdout()
		titleColor.Fprintf(out, "%s: %d nodes, width %d, depth %d, seed %d\n",
			e.Mode(), gen.Count(), benchGraph.Width, benchGraph.Depth, benchGraph.Seed)

		var total time.Duration

		for i := range benchIterations {
			dup, err := cloner.CloneOf(cmd.Context(), e, root)
			if err != nil {
				failColor.Fprintf(out, "#%d failed: %v\n", i+1, err)
				return err
			}

			got, err := graphgen.Fingerprint(dup)
			if err != nil {
				return fmt.Errorf("failed to fingerprint clone: %w", err)
			}

			if got != want {
				failColor.Fprintf(out, "#%d differs from the original\n", i+1)
				return fmt.Errorf("clone %d differs from the original", i+1)
			}

			if err := graphgen.Independent(root, dup); err != nil {
				failColor.Fprintf(out, "#%d is not independent: %v\n", i+1, err)
				return fmt.Errorf("clone %d is not independent: %w", i+1, err)
			}

			total += last.stats.Duration
			fmt.Fprintf(out, "#%-3d %s %12v  nodes=%d tasks=%d\n",
				i+1, okColor.Sprint("ok"), last.stats.Duration, last.stats.Nodes, last.stats.Tasks)
		}

		fmt.Fprintf(out, "mean %v\n", total/time.Duration(benchIterations))

		if benchMetrics {
			return writeMetrics(out, reg)
		}

		return nil
	},
}

func init() {
	benchCmd.Flags().StringVarP(&benchMode, "mode", "m", "depth-first", "Execution mode: depth-first, breadth-first or parallel")
	benchCmd.Flags().IntVarP(&benchWorkers, "workers", "w", 4, "Parallel workers (implies --mode parallel)")
	benchCmd.Flags().StringVar(&benchRules, "rules", "", "YAML rules file")
	benchCmd.Flags().IntVarP(&benchIterations, "iterations", "n", 5, "Number of clones")
	benchCmd.Flags().BoolVar(&benchMetrics, "metrics", false, "Print Prometheus metrics when done")
	benchCmd.Flags().Uint64Var(&benchGraph.Seed, "seed", benchGraph.Seed, "Random seed")
	benchCmd.Flags().IntVar(&benchGraph.Width, "width", benchGraph.Width, "Maximum children per node")
	benchCmd.Flags().IntVar(&benchGraph.Depth, "depth", benchGraph.Depth, "Maximum graph depth")
	benchCmd.Flags().Float64Var(&benchGraph.Share, "share", benchGraph.Share, "Probability of reusing an existing node")
}

// lastStats keeps the stats of the most recent clone. Bench clones one graph
// at a time, so no locking is needed.
type lastStats struct {
	stats cloner.Stats
}

func (*lastStats) CloneStarted(cloner.Mode) {}

func (l *lastStats) CloneFinished(_ cloner.Mode, stats cloner.Stats, _ error) {
	l.stats = stats
}

func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}

	return nil
}
