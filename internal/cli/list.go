package cli

import (
	"github.com/spf13/cobra"

	"github.com/chalk-ml/chalk/internal/lesson"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List lessons in teaching order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for i, l := range lesson.All() {
				cmd.Printf("%d. %-13s %s\n", i+1, l.Slug, l.Title)
			}
			return nil
		},
	}
}
