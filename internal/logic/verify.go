package logic

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/idelchi/fcrypt/internal/config"
	"github.com/idelchi/fcrypt/internal/dispatch"
	"github.com/idelchi/fcrypt/internal/fileutil"
)

// ErrVerificationFailed is returned when at least one file does not verify.
var ErrVerificationFailed = errors.New("verification failed")

// Verify authenticates every file in cfg.Files with up to cfg.Parallel workers.
// Directories are expanded with resolveFiles. Results are printed to out in completion
// order; failures are logged and counted.
//
//nolint:cyclop // parallel pipeline with printer goroutine
func Verify(cfg *config.Config, log logrus.FieldLogger, out io.Writer, opts Options) error {
	d, err := newDispatcher(cfg, log, opts)
	if err != nil {
		return err
	}

	start := time.Now()

	scanned, err := resolveFiles(cfg)
	if err != nil {
		return err
	}

	results := make(chan Result, len(cfg.Files))

	group := errgroup.Group{}
	group.SetLimit(cfg.Parallel)

	printed := make(chan struct{})

	var verified, failed int

	var totalSize int64

	go func() {
		defer close(printed)

		for res := range results {
			if res.Error != nil {
				failed++

				log.WithError(res.Error).Errorf("FAIL %s", res.Input)

				continue
			}

			verified++

			totalSize += res.Size

			if !cfg.Quiet {
				fmt.Fprintf(out, "OK   %s (%s, %s, %s)\n", res.Input, res.Algorithm, res.KDF, humanBytes(res.Size))
			}
		}
	}()

	for _, file := range cfg.Files {
		group.Go(func() error {
			res := verifyFile(d, file, []byte(cfg.Password))
			results <- res

			return res.Error
		})
	}

	err = group.Wait()

	close(results)

	<-printed

	log.Debugf("Verified %d of %d files (%d scanned, %s) in %s",
		verified, verified+failed, scanned, humanBytes(totalSize), since(start))

	if err != nil {
		return fmt.Errorf("%w: %d of %d files", ErrVerificationFailed, failed, len(cfg.Files))
	}

	return nil
}

// verifyFile reads and authenticates one container.
func verifyFile(d *dispatch.Dispatcher, file string, password []byte) Result {
	data, err := fileutil.ReadFile(file)
	if err != nil {
		return Result{Input: file, Error: err}
	}

	container, err := d.Verify(data, password)
	if err != nil {
		return Result{Input: file, Error: err}
	}

	res := Result{
		Input: file,
		KDF:   container.KDF.String(),
		Size:  int64(len(data)),
	}

	if desc, err := container.Descriptor(); err == nil {
		res.Algorithm = desc.Name
	}

	return res
}
