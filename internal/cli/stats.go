package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/me/schedcheck/internal/store"
)

func newStatsCmd() *cobra.Command {
	var (
		bins    int
		minUtil float64
		maxUtil float64
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show acceptance counts per utilization bucket",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if bins < 1 {
				return fmt.Errorf("--bins must be at least 1")
			}
			if maxUtil <= minUtil {
				return fmt.Errorf("--max-util must exceed --min-util")
			}

			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			md, err := st.GetMetadata(ctx)
			if err != nil {
				logger.Warn("experiment metadata unreadable", "error", err)
			} else if md != nil {
				fmt.Printf("Experiment: %d tasks/set, periods [%d, %d], speeds %v\n\n",
					md.NumTask, md.PeriodBound[0], md.PeriodBound[1], md.SpeedList)
			}

			accepted := true
			width := (maxUtil - minUtil) / float64(bins)

			fmt.Printf("%-16s  %10s  %10s  %9s\n", "UTILIZATION", "TOTAL", "ACCEPTED", "RATIO")
			for i := 0; i < bins; i++ {
				lo := minUtil + float64(i)*width
				hi := lo + width

				total, err := st.CountInUtilizationRange(ctx, lo, hi, store.TaskSetFilter{})
				if err != nil {
					return fmt.Errorf("count [%v, %v]: %w", lo, hi, err)
				}
				pass, err := st.CountInUtilizationRange(ctx, lo, hi, store.TaskSetFilter{Sufficient: &accepted})
				if err != nil {
					return fmt.Errorf("count accepted [%v, %v]: %w", lo, hi, err)
				}

				ratio := "-"
				if total > 0 {
					ratio = fmt.Sprintf("%8.1f%%", 100*float64(pass)/float64(total))
				}
				fmt.Printf("[%.3f, %.3f)  %10s  %10s  %9s\n",
					lo, hi, humanize.Comma(int64(total)), humanize.Comma(int64(pass)), ratio)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&bins, "bins", 10, "Number of utilization buckets")
	cmd.Flags().Float64Var(&minUtil, "min-util", 0, "Lower utilization bound")
	cmd.Flags().Float64Var(&maxUtil, "max-util", 2, "Upper utilization bound")

	return cmd
}
