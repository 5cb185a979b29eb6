// Package cli implements the chalk command line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chalk-ml/chalk/internal/backend/cpu"
	"github.com/chalk-ml/chalk/internal/backend/webgpu"
	"github.com/chalk-ml/chalk/internal/tensor"
)

// Version is the chalk release version.
const Version = "v0.1.0"

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	Backend string
}

// NewRootCommand creates the root command for the chalk CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "chalk",
		Short: "chalk - a teaching framework for graph-based computation",
		Long: `Chalk teaches the vocabulary of graph-based deep-learning frameworks:
tensors, computation graphs, sessions, placeholders, variables, and a
gradient-descent training loop. Each lesson is a narrated program.

Start with:
  chalk list
  chalk run tensors`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Backend, "backend", "cpu", "execution backend (cpu|webgpu)")

	cmd.AddCommand(NewListCommand())
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewTrainCommand(opts))
	cmd.AddCommand(NewHistoryCommand())
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// newBackend builds the requested execution backend.
func newBackend(name string) (tensor.Backend, error) {
	switch name {
	case "cpu":
		return cpu.New(), nil
	case "webgpu":
		backend, err := webgpu.New()
		if err != nil {
			return nil, fmt.Errorf("webgpu backend: %w", err)
		}
		return backend, nil
	default:
		return nil, fmt.Errorf("unknown backend %q (want cpu or webgpu)", name)
	}
}
