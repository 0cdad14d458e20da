package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/fcrypt/internal/encryption"
	"github.com/idelchi/fcrypt/internal/logic"
)

// NewEncryptCommand creates a new cobra command for the encrypt subcommand.
func NewEncryptCommand(s *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "encrypt [flags]",
		Aliases: []string{"enc"},
		Short:   "Encrypt a file",
		Example: `  fcrypt encrypt -i report.pdf -o report.pdf.fcr
  fcrypt encrypt -i notes.txt -o notes.fcr -a chacha20 --kdf scrypt`,
		Args:    cobra.NoArgs,
		PreRunE: validate(s, true, "Input", "Output", "Password", "KDF"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if show(cmd, s.cfg) {
				return nil
			}

			return logic.Encrypt(s.cfg, s.log, s.options)
		},
	}

	cmd.Flags().StringP("input", "i", "", "Path of the file to encrypt")
	cmd.Flags().StringP("output", "o", "", "Path of the encrypted file to write")
	cmd.Flags().StringP("password", "p", "", "Password; prompted for when omitted on a terminal")
	cmd.Flags().StringP("algorithm", "a", "",
		"Algorithm, either a family (aes256, chacha20, xchacha20) or a full name; defaults to "+encryption.DefaultName)
	cmd.Flags().StringP("mode", "m", "",
		"Mode for an algorithm family (aes256: cbc, gcm, siv); without -a it selects from "+encryption.DefaultFamily)
	cmd.Flags().String("kdf", "argon2id", "Key derivation function (argon2id, scrypt, pbkdf2-sha256)")

	return cmd
}
