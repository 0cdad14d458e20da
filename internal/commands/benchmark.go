package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/fcrypt/internal/logic"
)

// NewBenchmarkCommand creates a new cobra command for the benchmark subcommand.
func NewBenchmarkCommand(s *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "benchmark [flags]",
		Aliases: []string{"bench"},
		Short:   "Measure encryption and decryption throughput",
		Args:    cobra.NoArgs,
		PreRunE: validate(s, false, "Size", "Algorithms", "KDF"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if show(cmd, s.cfg) {
				return nil
			}

			return logic.Benchmark(s.cfg, s.log, cmd.OutOrStdout())
		},
	}

	cmd.Flags().String("size", logic.DefaultBenchmarkSize, "Payload size, such as 64KiB or 16MiB")
	cmd.Flags().StringSliceP("algorithms", "a", nil, "Algorithms to measure, defaults to all")
	cmd.Flags().String("kdf", "argon2id", "Key derivation function to time")

	return cmd
}
