package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/me/schedcheck/internal/store"
	"github.com/me/schedcheck/internal/taskgen"
)

func newGenCmd() *cobra.Command {
	var (
		count       int
		tasks       int
		utilization float64
		periodMin   int64
		periodMax   int64
		seed        uint64
	)

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate random task sets into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			gen, err := taskgen.New(taskgen.Config{
				NumTasks:          tasks,
				SystemUtilization: utilization,
				PeriodBound:       [2]int64{periodMin, periodMax},
			}, seed)
			if err != nil {
				return err
			}

			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.SaveMetadata(ctx, store.Metadata{
				SpeedList:   cfg.Speeds,
				PeriodBound: [2]int64{periodMin, periodMax},
				NumTask:     tasks,
			}); err != nil {
				return fmt.Errorf("save metadata: %w", err)
			}

			for i := 0; i < count; i++ {
				ts := gen.TaskSet()
				if _, err := st.InsertTaskSet(ctx, ts, nil, nil, ts.TotalUtilization()); err != nil {
					return fmt.Errorf("insert set %d: %w", i, err)
				}
			}

			logger.Info("generated task sets",
				"count", count, "tasks_per_set", tasks, "utilization", utilization)
			fmt.Printf("Generated %s task sets (%s tasks each) at utilization %.3f\n",
				humanize.Comma(int64(count)), humanize.Comma(int64(tasks)), utilization)
			return nil
		},
	}

	cmd.Flags().IntVar(&count, "count", 100, "Number of task sets to generate")
	cmd.Flags().IntVar(&tasks, "tasks", 8, "Tasks per set")
	cmd.Flags().Float64Var(&utilization, "utilization", 1.0, "Target total utilization per set")
	cmd.Flags().Int64Var(&periodMin, "period-min", 10, "Minimum task period")
	cmd.Flags().Int64Var(&periodMax, "period-max", 100, "Maximum task period")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "Random seed")

	return cmd
}
