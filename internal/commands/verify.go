package commands

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/idelchi/fcrypt/internal/logic"
)

// NewVerifyCommand creates a new cobra command for the verify subcommand.
func NewVerifyCommand(s *state) *cobra.Command {
	check := validate(s, false, "Password", "Parallel", "Files")

	cmd := &cobra.Command{
		Use:   "verify [flags] paths...",
		Short: "Check that encrypted files authenticate, without writing anything",
		Long: `Decrypt and authenticate containers without writing the plaintext.
Files are checked as given. Directories are searched recursively for files matching the
include patterns (default "*.fcr") and none of the exclude patterns. Patterns follow
find -path semantics, where * also matches the path separator.`,
		Example: `  fcrypt verify backup.fcr
  fcrypt verify -j 8 --exclude '*/old/*' backups/`,
		Args: cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			s.cfg.Files = args

			return check(cmd, args)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if show(cmd, s.cfg) {
				return nil
			}

			return logic.Verify(s.cfg, s.log, cmd.OutOrStdout(), s.options)
		},
	}

	cmd.Flags().StringP("password", "p", "", "Password; prompted for when omitted on a terminal")
	cmd.Flags().IntP("parallel", "j", runtime.NumCPU(), "Number of parallel workers, defaults to number of CPUs")
	cmd.Flags().StringSliceP("include", "I", nil, "Patterns of files to check inside directories")
	cmd.Flags().StringSliceP("exclude", "E", nil, "Patterns of files to skip inside directories")
	cmd.Flags().String("include-from", "", "JSON file with an array of include patterns, comments allowed")
	cmd.Flags().String("exclude-from", "", "JSON file with an array of exclude patterns, comments allowed")

	return cmd
}
