package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/me/schedcheck/pkg/model"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <taskset_id>",
		Short: "Print one stored task set with derived metrics and verdicts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("bad task set id %q", args[0])
			}

			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			rec, err := st.GetTaskSet(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("load task set: %w", err)
			}
			if rec == nil {
				return model.NewNotFound("task set", id)
			}

			fmt.Printf("Task set %d: %d tasks, utilization %.4f\n", rec.ID, rec.Size, rec.SystemUtilization)
			fmt.Printf("  schedulable: %s   sufficient: %s\n\n",
				verdictString(rec.Schedulable), verdictString(rec.Sufficient))

			fmt.Printf("%-42s  %8s  %8s  %8s  %8s  %8s\n",
				"TASK", "WCET", "DEADLINE", "PERIOD", "UTIL", "DENSITY")
			for _, task := range rec.Tasks {
				fmt.Printf("%-42s  %8.3f  %8.3f  %8.3f  %8.4f  %8.4f\n",
					task.ID, task.WCET, task.Deadline, task.Period,
					task.Utilization(), task.Density())
			}
			return nil
		},
	}
}

func verdictString(v *bool) string {
	if v == nil {
		return "unknown"
	}
	if *v {
		return "yes"
	}
	return "no"
}
