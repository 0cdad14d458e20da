// Package logic implements the operations behind each fcrypt command.
package logic

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/idelchi/fcrypt/internal/config"
	"github.com/idelchi/fcrypt/internal/dispatch"
	"github.com/idelchi/fcrypt/internal/kdf"
)

// Options carries collaborators that tests replace.
type Options struct {
	// Dispatch is appended to the dispatcher options derived from the configuration.
	Dispatch []dispatch.Option
}

// newDispatcher builds a dispatcher for the configured key derivation function.
func newDispatcher(cfg *config.Config, log logrus.FieldLogger, opts Options) (*dispatch.Dispatcher, error) {
	function := kdf.Argon2id

	if cfg.KDF != "" {
		f, err := kdf.Lookup(cfg.KDF)
		if err != nil {
			return nil, err
		}

		function = f
	}

	options := append([]dispatch.Option{
		dispatch.WithKDF(kdf.DefaultParams(function)),
		dispatch.WithLogger(log),
	}, opts.Dispatch...)

	return dispatch.New(options...), nil
}

// Encrypt encrypts cfg.Input into cfg.Output.
func Encrypt(cfg *config.Config, log logrus.FieldLogger, opts Options) error {
	d, err := newDispatcher(cfg, log, opts)
	if err != nil {
		return err
	}

	start := time.Now()

	log.Debugf("Encrypting %q", cfg.Input)

	size, err := d.EncryptFile(cfg.Input, cfg.Output, []byte(cfg.Password), cfg.Algorithm, cfg.Mode)
	if err != nil {
		return fmt.Errorf("encrypting %q: %w", cfg.Input, err)
	}

	log.Infof("Encrypted %q -> %q (%s in %s)", cfg.Input, cfg.Output, humanBytes(size), since(start))

	return nil
}

// Decrypt decrypts cfg.Input into cfg.Output.
func Decrypt(cfg *config.Config, log logrus.FieldLogger, opts Options) error {
	d, err := newDispatcher(cfg, log, opts)
	if err != nil {
		return err
	}

	start := time.Now()

	log.Debugf("Decrypting %q", cfg.Input)

	size, err := d.DecryptFile(cfg.Input, cfg.Output, []byte(cfg.Password))
	if err != nil {
		return fmt.Errorf("decrypting %q: %w", cfg.Input, err)
	}

	log.Infof("Decrypted %q -> %q (%s in %s)", cfg.Input, cfg.Output, humanBytes(size), since(start))

	return nil
}

func humanBytes(n int64) string {
	//nolint:gosec // sizes are never negative
	return humanize.IBytes(uint64(max(0, n)))
}

func since(start time.Time) time.Duration {
	return time.Since(start).Round(time.Millisecond)
}
