package logic

import (
	"crypto/rand"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"

	"github.com/idelchi/fcrypt/internal/config"
	"github.com/idelchi/fcrypt/internal/encryption"
	"github.com/idelchi/fcrypt/internal/kdf"
)

const (
	// DefaultBenchmarkSize is the payload size used when none is configured.
	DefaultBenchmarkSize = "1MiB"
	benchmarkRounds      = 3
)

// Measurement is the best-of-rounds timing of one variant.
type Measurement struct {
	Descriptor encryption.Descriptor
	Size       uint64
	Encrypt    time.Duration
	Decrypt    time.Duration
}

// Benchmark measures raw cipher throughput for the configured variants, or all of them,
// and prints a table to out. Key derivation is timed once for the configured function.
func Benchmark(cfg *config.Config, log logrus.FieldLogger, out io.Writer) error {
	sizeFlag := cfg.Size
	if sizeFlag == "" {
		sizeFlag = DefaultBenchmarkSize
	}

	size, err := humanize.ParseBytes(sizeFlag)
	if err != nil {
		return fmt.Errorf("parsing size %q: %w", sizeFlag, err)
	}

	descriptors, err := selectDescriptors(cfg.Algorithms)
	if err != nil {
		return err
	}

	payload := make([]byte, size)
	if _, err := rand.Read(payload); err != nil {
		return fmt.Errorf("generating payload: %w", err)
	}

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Algorithm", "Size", "Encrypt", "Decrypt"})
	table.SetAutoFormatHeaders(false)
	table.SetBorder(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, desc := range descriptors {
		log.Debugf("Benchmarking %s with %s", desc.Name, humanize.IBytes(size))

		m, err := Measure(desc, payload, benchmarkRounds)
		if err != nil {
			return fmt.Errorf("benchmarking %s: %w", desc.Name, err)
		}

		table.Append([]string{desc.Name, humanize.IBytes(m.Size), throughput(m.Size, m.Encrypt), throughput(m.Size, m.Decrypt)})
	}

	table.Render()

	function := kdf.Argon2id
	if cfg.KDF != "" {
		if function, err = kdf.Lookup(cfg.KDF); err != nil {
			return err
		}
	}

	elapsed, err := measureDerivation(kdf.DefaultParams(function))
	if err != nil {
		return fmt.Errorf("benchmarking %s: %w", function, err)
	}

	fmt.Fprintf(out, "\nKey derivation: %s in %s\n", kdf.DefaultParams(function), elapsed.Round(time.Millisecond))

	return nil
}

// Measure encrypts and decrypts payload rounds times with a random key and nonce and keeps
// the fastest run of each.
func Measure(desc encryption.Descriptor, payload []byte, rounds int) (Measurement, error) {
	c, err := encryption.New(desc.ID)
	if err != nil {
		return Measurement{}, err
	}

	key := make([]byte, desc.KeySize)
	nonce := make([]byte, desc.NonceSize)

	if _, err := rand.Read(key); err != nil {
		return Measurement{}, fmt.Errorf("generating key: %w", err)
	}

	if _, err := rand.Read(nonce); err != nil {
		return Measurement{}, fmt.Errorf("generating nonce: %w", err)
	}

	m := Measurement{Descriptor: desc, Size: uint64(len(payload))}

	for range max(1, rounds) {
		start := time.Now()

		ciphertext, tag, err := c.Encrypt(payload, key, nonce, nil)
		if err != nil {
			return Measurement{}, err
		}

		encrypted := time.Since(start)

		start = time.Now()

		if _, err := c.Decrypt(ciphertext, key, nonce, tag, nil); err != nil {
			return Measurement{}, err
		}

		decrypted := time.Since(start)

		if m.Encrypt == 0 || encrypted < m.Encrypt {
			m.Encrypt = encrypted
		}

		if m.Decrypt == 0 || decrypted < m.Decrypt {
			m.Decrypt = decrypted
		}
	}

	return m, nil
}

func measureDerivation(params kdf.Params) (time.Duration, error) {
	salt := make([]byte, kdf.SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return 0, fmt.Errorf("generating salt: %w", err)
	}

	start := time.Now()

	key, err := kdf.Derive([]byte("benchmark"), salt, params, 32)
	if err != nil {
		return 0, err
	}

	kdf.Wipe(key)

	return time.Since(start), nil
}

// selectDescriptors resolves the requested names, or returns every variant when none are given.
func selectDescriptors(names []string) ([]encryption.Descriptor, error) {
	if len(names) == 0 {
		return encryption.Descriptors(), nil
	}

	descriptors := make([]encryption.Descriptor, 0, len(names))

	for _, name := range names {
		desc, err := encryption.Resolve(name, "")
		if err != nil {
			return nil, err
		}

		descriptors = append(descriptors, desc)
	}

	return descriptors, nil
}

func throughput(size uint64, elapsed time.Duration) string {
	if elapsed <= 0 {
		return "-"
	}

	perSecond := float64(size) / elapsed.Seconds()

	return humanize.IBytes(uint64(perSecond)) + "/s"
}
