package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/chalk-ml/chalk/internal/config"
	"github.com/chalk-ml/chalk/internal/lesson"
	"github.com/chalk-ml/chalk/internal/runlog"
)

// TrainOptions holds flags for the train command.
type TrainOptions struct {
	*RootOptions
	ConfigPath string
	Database   string
}

// NewTrainCommand creates the train command.
func NewTrainCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TrainOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Run the training loop and record the run",
		Long: `Train the single-layer model from the train lesson. Without a config
file the lesson defaults apply: 150 steps, the first 15 logged. With
--db, the run and its per-step losses are recorded for chalk history.

Example:
  chalk train
  chalk train --config train.yaml --db runs.db`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultTrain()
			if opts.ConfigPath != "" {
				loaded, err := config.LoadTrain(opts.ConfigPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			if cmd.Flags().Changed("backend") {
				cfg.Backend = rootOpts.Backend
			}

			backend, err := newBackend(cfg.Backend)
			if err != nil {
				return err
			}

			startedAt := time.Now()
			result, err := lesson.Train(cfg, cmd.OutOrStdout(), backend)
			if err != nil {
				return err
			}

			if opts.Database == "" {
				return nil
			}

			log, err := runlog.Open(opts.Database)
			if err != nil {
				return err
			}
			defer log.Close()

			steps := make([]runlog.Step, len(result.Steps))
			for i, s := range result.Steps {
				steps[i] = runlog.Step{Step: s.Step, Loss: s.Loss}
			}
			id, err := log.Record(runlog.Run{
				StartedAt: startedAt,
				Backend:   cfg.Backend,
				LR:        cfg.LR,
				Steps:     cfg.Steps,
				Seed:      cfg.Seed,
				FinalLoss: result.FinalLoss,
			}, steps)
			if err != nil {
				return err
			}
			cmd.Printf("recorded run %d in %s\n", id, opts.Database)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "path to YAML training config")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite run log")

	return cmd
}
