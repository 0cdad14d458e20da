package commands

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idelchi/gogen/pkg/cobraext"
	"github.com/idelchi/fcrypt/internal/config"
	"github.com/idelchi/fcrypt/internal/logging"
	"github.com/idelchi/fcrypt/internal/logic"
)

// state is shared by the root command and its subcommands for one invocation.
type state struct {
	cfg      *config.Config
	log      *logrus.Logger
	options  logic.Options
	terminal Terminal
}

// NewRootCommand creates the root command with common configuration.
// Flags of the invoked command are bound into the configuration before it runs;
// no environment variables or configuration files are read.
func NewRootCommand(version string, options logic.Options, terminal Terminal) *cobra.Command {
	s := &state{
		cfg:      &config.Config{},
		log:      logging.Discard(),
		options:  options,
		terminal: terminal,
	}

	root := &cobra.Command{
		Use:   "fcrypt [flags] command [flags]",
		Short: "Password-based file encryption utility",
		Long: `A file encryption utility that derives keys from passwords.
Encrypted files are self-describing containers that record the cipher, key derivation
parameters, salt and nonce, so decryption needs only the password.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE:          cobraext.UnknownSubcommandAction,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			v := viper.New()

			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return fmt.Errorf("binding flags: %w", err)
			}

			if err := v.Unmarshal(s.cfg); err != nil {
				return fmt.Errorf("parsing flags: %w", err)
			}

			s.log = logging.New(cmd.ErrOrStderr(), s.cfg.Verbose, s.cfg.Quiet)

			return nil
		},
	}

	root.PersistentFlags().BoolP("verbose", "v", false, "Log every processing step")
	root.PersistentFlags().BoolP("quiet", "q", false, "Suppress non-error output")
	root.PersistentFlags().BoolP("show", "s", false, "Show the configuration and exit")

	root.AddCommand(
		NewEncryptCommand(s),
		NewDecryptCommand(s),
		NewVerifyCommand(s),
		NewBenchmarkCommand(s),
		NewAlgorithmsCommand(s),
	)

	return root
}

// Execute runs the command line with the process terminal.
func Execute(version string) error {
	return NewRootCommand(version, logic.Options{}, Stdin()).Execute()
}
