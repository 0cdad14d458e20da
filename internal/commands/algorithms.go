package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/fcrypt/internal/logic"
)

// NewAlgorithmsCommand creates a new cobra command listing the supported algorithms.
func NewAlgorithmsCommand(_ *state) *cobra.Command {
	return &cobra.Command{
		Use:     "algorithms",
		Aliases: []string{"algs"},
		Short:   "List the supported algorithms",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			logic.Algorithms(cmd.OutOrStdout())
		},
	}
}
