package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/fcrypt/internal/logic"
)

// NewDecryptCommand creates a new cobra command for the decrypt subcommand.
// The cipher and key derivation are read from the container.
func NewDecryptCommand(s *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "decrypt [flags]",
		Aliases: []string{"dec"},
		Short:   "Decrypt a file",
		Args:    cobra.NoArgs,
		PreRunE: validate(s, false, "Input", "Output", "Password"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if show(cmd, s.cfg) {
				return nil
			}

			return logic.Decrypt(s.cfg, s.log, s.options)
		},
	}

	cmd.Flags().StringP("input", "i", "", "Path of the encrypted file")
	cmd.Flags().StringP("output", "o", "", "Path of the decrypted file to write")
	cmd.Flags().StringP("password", "p", "", "Password; prompted for when omitted on a terminal")

	return cmd
}
