package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/chalk-ml/chalk/internal/runlog"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	Database string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	opts := &HistoryOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded training runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := runlog.Open(opts.Database)
			if err != nil {
				return err
			}
			defer log.Close()

			runs, err := log.Runs()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				cmd.Println("no recorded runs")
				return nil
			}

			cmd.Printf("%-4s %-20s %-8s %-8s %-6s %-6s %s\n",
				"ID", "STARTED", "BACKEND", "LR", "STEPS", "SEED", "FINAL LOSS")
			for _, run := range runs {
				cmd.Printf("%-4d %-20s %-8s %-8.4g %-6d %-6d %.6f\n",
					run.ID, run.StartedAt.Format(time.DateTime), run.Backend,
					run.LR, run.Steps, run.Seed, run.FinalLoss)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite run log (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}
