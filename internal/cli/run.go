package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chalk-ml/chalk/internal/lesson"
)

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run <lesson|all>",
		Short: "Run a lesson, or every lesson in order",
		Long: `Run a single lesson by slug, or "all" for the full course.

Example:
  chalk run tensors
  chalk run train --backend webgpu
  chalk run all`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := newBackend(rootOpts.Backend)
			if err != nil {
				return err
			}

			if args[0] == "all" {
				for i, l := range lesson.All() {
					if i > 0 {
						cmd.Println()
					}
					if err := l.Run(cmd.OutOrStdout(), backend); err != nil {
						return fmt.Errorf("lesson %s: %w", l.Slug, err)
					}
				}
				return nil
			}

			l, ok := lesson.Find(args[0])
			if !ok {
				return fmt.Errorf("unknown lesson %q, try: chalk list", args[0])
			}
			if err := l.Run(cmd.OutOrStdout(), backend); err != nil {
				return fmt.Errorf("lesson %s: %w", l.Slug, err)
			}
			return nil
		},
	}
}
