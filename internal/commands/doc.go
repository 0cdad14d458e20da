// Package commands provides the command-line interface for the fcrypt tool.
//
// It implements commands for:
//   - encryption
//   - decryption
//   - verification
//   - benchmarking
//   - listing algorithms
//
// The package handles command-line parsing, password prompting and configuration
// validation, binding flags into the configuration through cobra and viper.
package commands

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/idelchi/fcrypt/internal/config"
)

// validate returns a PreRunE handler that resolves the password, if the command takes one,
// and validates the named configuration fields.
func validate(s *state, confirm bool, fields ...string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		if s.cfg.ShowConfig {
			return nil
		}

		if slices.Contains(fields, "Password") && s.cfg.Password == "" {
			password, err := s.readPassword(cmd.ErrOrStderr(), confirm)
			if err != nil {
				return err
			}

			s.cfg.Password = password
		}

		return s.cfg.Validate(fields...)
	}
}

// show prints the configuration and reports whether the command should stop there.
func show(cmd *cobra.Command, cfg *config.Config) bool {
	if !cfg.ShowConfig {
		return false
	}

	fmt.Fprintln(cmd.OutOrStdout(), cfg.Show())

	return true
}
