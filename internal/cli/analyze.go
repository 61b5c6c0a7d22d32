package cli

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/me/schedcheck/internal/sched"
	"github.com/me/schedcheck/internal/store"
	"github.com/me/schedcheck/pkg/model"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		speeds       []float64
		samplingRate float64
		parallel     int
		rerun        bool
		showProgress bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the G-EDF sufficient test over stored task sets",
		Long: "analyze loads task sets from the database, runs the G-EDF sufficient\n" +
			"test against the given platform, and writes the verdicts back. Task\n" +
			"sets the test cannot decide (invalid input, analytical domain errors)\n" +
			"are logged and left without a verdict; the batch keeps going.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if len(speeds) == 0 {
				speeds = cfg.Speeds
			}
			if samplingRate <= 0 {
				samplingRate = cfg.SamplingRate
			}
			platform, err := model.NewPlatform(speeds)
			if err != nil {
				return err
			}

			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			records, err := st.ListTaskSets(ctx, store.TaskSetFilter{})
			if err != nil {
				return fmt.Errorf("list task sets: %w", err)
			}

			opts := sched.LoadOptions{SamplingRate: samplingRate, Parallel: parallel}
			if showProgress {
				opts.Progress = newScanPrinter(os.Stderr)
			}

			var accepted, rejected, skipped int
			for _, rec := range records {
				if rec.Sufficient != nil && !rerun {
					continue
				}

				verdict, err := sched.SufficientTest(ctx, rec.Tasks, platform, opts)
				if err != nil {
					if ctx.Err() != nil {
						return err
					}
					// Record nothing for this set: its cached verdict stays
					// "inconclusive". Deterministic computation, no retry.
					logger.Warn("task set not analyzable",
						"id", rec.ID, "code", model.CodeOf(err), "error", err)
					skipped++
					continue
				}

				if err := st.UpdateSufficient(ctx, rec.ID, verdict); err != nil {
					return fmt.Errorf("record verdict for set %d: %w", rec.ID, err)
				}
				if verdict {
					accepted++
				} else {
					rejected++
				}
			}

			fmt.Printf("Analyzed %s task sets on %d cores: %s accepted, %s rejected, %s skipped\n",
				humanize.Comma(int64(accepted+rejected+skipped)), len(platform.Speeds),
				humanize.Comma(int64(accepted)), humanize.Comma(int64(rejected)),
				humanize.Comma(int64(skipped)))
			return nil
		},
	}

	cmd.Flags().Float64SliceVar(&speeds, "speeds", nil, "Per-core platform speeds (default from config)")
	cmd.Flags().Float64Var(&samplingRate, "sampling-rate", 0, "Load scan step as a fraction of the hyper-period")
	cmd.Flags().IntVar(&parallel, "parallel", 0, "Workers for the sampled load scan (0 = sequential, -1 = all cores)")
	cmd.Flags().BoolVar(&rerun, "rerun", false, "Re-analyze sets that already have a verdict")
	cmd.Flags().BoolVar(&showProgress, "progress", false, "Print load scan progress to stderr")

	return cmd
}

// scanPrinter reports sampled load scans to stderr. On a terminal it
// rewrites one line in place, at most once per percent; on redirected
// output it emits whole lines at 10% milestones so logs stay free of
// carriage returns. Safe for concurrent Step calls.
type scanPrinter struct {
	out  *os.File
	tty  bool
	last atomic.Int64
}

func newScanPrinter(out *os.File) *scanPrinter {
	return &scanPrinter{out: out, tty: isatty.IsTerminal(out.Fd())}
}

func (p *scanPrinter) Step(done, total int64) {
	pct := done * 100 / total
	if p.tty {
		if prev := p.last.Load(); pct > prev && p.last.CompareAndSwap(prev, pct) {
			fmt.Fprintf(p.out, "\rscanning load: %3d%% (%s/%s samples)",
				pct, humanize.Comma(done), humanize.Comma(total))
			if done == total {
				fmt.Fprintln(p.out)
			}
		}
		return
	}

	milestone := pct / 10 * 10
	if prev := p.last.Load(); milestone > prev && p.last.CompareAndSwap(prev, milestone) {
		fmt.Fprintf(p.out, "scanning load: %3d%% (%s/%s samples)\n",
			milestone, humanize.Comma(done), humanize.Comma(total))
	}
}
