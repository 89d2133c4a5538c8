package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aadipatodia/Scheduler/internal/cli/formatter"
	"github.com/aadipatodia/Scheduler/internal/scheduler"
)

func newTimelineCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "timeline PHRASE...",
		Short:   "Show how timeline phrases are read as day counts",
		Example: `  scheduler timeline "2 Weeks" "Month 1-2" "10 days"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, len(args))
			for _, phrase := range args {
				days, ok := scheduler.ParseTimeline(phrase)
				estimate := fmt.Sprintf("%d", days)
				if !ok {
					estimate = formatter.Dim("unrecognised")
				}
				rows = append(rows, []string{phrase, estimate})
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable([]string{"PHRASE", "DAYS"}, rows))
			return nil
		},
	}
}
