// Package dispatch drives a single encrypt or decrypt run through key derivation, the cipher
// and the container codec.
//
// Every run walks the states Idle, LoadingInput, DerivingKey, Transforming, EncodingOutput and
// Done in that order, skipping states it has no work for. A failure stops the run in Failed and
// is returned as an *Error naming the state in which it occurred.
package dispatch

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/idelchi/fcrypt/internal/encryption"
	"github.com/idelchi/fcrypt/internal/envelope"
	"github.com/idelchi/fcrypt/internal/fileutil"
	"github.com/idelchi/fcrypt/internal/kdf"
	"github.com/idelchi/fcrypt/internal/logging"
)

// Dispatcher runs encrypt and decrypt operations. It holds no per-run state and is safe for
// concurrent use as long as its random source is.
type Dispatcher struct {
	params kdf.Params
	random io.Reader
	log    logrus.FieldLogger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithKDF sets the key derivation function and work factor used for new containers.
// Decryption always uses the parameters recorded in the container.
func WithKDF(params kdf.Params) Option {
	return func(d *Dispatcher) {
		d.params = params
	}
}

// WithRandom sets the source of salts and nonces.
func WithRandom(r io.Reader) Option {
	return func(d *Dispatcher) {
		d.random = r
	}
}

// WithLogger sets the logger that receives state transitions at debug level.
func WithLogger(log logrus.FieldLogger) Option {
	return func(d *Dispatcher) {
		d.log = log
	}
}

// New returns a Dispatcher using argon2id with default parameters, crypto/rand and a discarding logger.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		params: kdf.DefaultParams(kdf.Argon2id),
		random: rand.Reader,
		log:    logging.Discard(),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Result is the outcome of a successful encryption.
type Result struct {
	Container *envelope.Container
	Bytes     []byte
}

// RunEncrypt encrypts plaintext under a key derived from password with the variant named by
// algorithm and mode. An empty algorithm selects the default variant.
func (d *Dispatcher) RunEncrypt(plaintext, password []byte, algorithm, mode string) (*Result, error) {
	r := d.start("encrypt")

	desc, err := encryption.Resolve(algorithm, mode)
	if err != nil {
		return nil, r.fail(err)
	}

	result, err := d.encrypt(r, desc, plaintext, password)
	if err != nil {
		return nil, err
	}

	r.enter(Done)

	return result, nil
}

// RunDecrypt parses a container, derives the key from password and the recorded salt and
// parameters, and returns the authenticated plaintext.
func (d *Dispatcher) RunDecrypt(data, password []byte) ([]byte, error) {
	r := d.start("decrypt")

	plaintext, _, err := d.decrypt(r, data, password)
	if err != nil {
		return nil, err
	}

	r.enter(Done)

	return plaintext, nil
}

// Verify fully decrypts and authenticates a container, discarding the plaintext.
// It returns the parsed container for reporting.
func (d *Dispatcher) Verify(data, password []byte) (*envelope.Container, error) {
	r := d.start("verify")

	plaintext, container, err := d.decrypt(r, data, password)
	if err != nil {
		return nil, err
	}

	kdf.Wipe(plaintext)
	r.enter(Done)

	return container, nil
}

// EncryptFile encrypts the file at in and atomically writes the container to out.
// It returns the number of bytes written.
func (d *Dispatcher) EncryptFile(in, out string, password []byte, algorithm, mode string) (int64, error) {
	r := d.start("encrypt")

	desc, err := encryption.Resolve(algorithm, mode)
	if err != nil {
		return 0, r.fail(err)
	}

	r.enter(LoadingInput)

	plaintext, err := fileutil.ReadFile(in)
	if err != nil {
		return 0, r.fail(err)
	}

	defer kdf.Wipe(plaintext)

	result, err := d.encrypt(r, desc, plaintext, password)
	if err != nil {
		return 0, err
	}

	size, err := fileutil.WriteAtomic(out, result.Bytes)
	if err != nil {
		return 0, r.fail(err)
	}

	r.enter(Done)

	return size, nil
}

// DecryptFile decrypts the container at in and atomically writes the plaintext to out.
// Nothing is written unless the container authenticates.
func (d *Dispatcher) DecryptFile(in, out string, password []byte) (int64, error) {
	r := d.start("decrypt")
	r.enter(LoadingInput)

	data, err := fileutil.ReadFile(in)
	if err != nil {
		return 0, r.fail(err)
	}

	plaintext, _, err := d.decrypt(r, data, password)
	if err != nil {
		return 0, err
	}

	defer kdf.Wipe(plaintext)

	r.enter(EncodingOutput)

	size, err := fileutil.WriteAtomic(out, plaintext)
	if err != nil {
		return 0, r.fail(err)
	}

	r.enter(Done)

	return size, nil
}

func (d *Dispatcher) encrypt(r *run, desc encryption.Descriptor, plaintext, password []byte) (*Result, error) {
	r.log = r.log.WithFields(logrus.Fields{
		"algorithm": desc.Name,
		"kdf":       d.params.Function.String(),
	})

	r.enter(DerivingKey)

	salt, err := d.read(kdf.SaltSize)
	if err != nil {
		return nil, r.fail(err)
	}

	nonce, err := d.read(desc.NonceSize)
	if err != nil {
		return nil, r.fail(err)
	}

	key, err := kdf.Derive(password, salt, d.params, desc.KeySize)
	if err != nil {
		return nil, r.fail(err)
	}

	defer kdf.Wipe(key)

	r.enter(Transforming)

	container := &envelope.Container{
		Version:   envelope.Version,
		Algorithm: desc.ID,
		KDF:       d.params,
		Salt:      salt,
		Nonce:     nonce,
	}

	aad, err := container.AssociatedData()
	if err != nil {
		return nil, r.fail(err)
	}

	c, err := encryption.New(desc.ID)
	if err != nil {
		return nil, r.fail(err)
	}

	if container.Ciphertext, container.Tag, err = c.Encrypt(plaintext, key, nonce, aad); err != nil {
		return nil, r.fail(err)
	}

	r.enter(EncodingOutput)

	encoded, err := envelope.Encode(container)
	if err != nil {
		return nil, r.fail(err)
	}

	r.log.WithField("bytes", len(encoded)).Debug("container encoded")

	return &Result{Container: container, Bytes: encoded}, nil
}

func (d *Dispatcher) decrypt(r *run, data, password []byte) ([]byte, *envelope.Container, error) {
	r.enter(LoadingInput)

	container, err := envelope.Decode(data)
	if err != nil {
		return nil, nil, r.fail(err)
	}

	desc, err := container.Descriptor()
	if err != nil {
		return nil, nil, r.fail(err)
	}

	r.log = r.log.WithFields(logrus.Fields{
		"algorithm": desc.Name,
		"kdf":       container.KDF.Function.String(),
	})

	r.enter(DerivingKey)

	key, err := kdf.Derive(password, container.Salt, container.KDF, desc.KeySize)
	if err != nil {
		return nil, nil, r.fail(err)
	}

	defer kdf.Wipe(key)

	r.enter(Transforming)

	aad, err := container.AssociatedData()
	if err != nil {
		return nil, nil, r.fail(err)
	}

	c, err := encryption.New(desc.ID)
	if err != nil {
		return nil, nil, r.fail(err)
	}

	plaintext, err := c.Decrypt(container.Ciphertext, key, container.Nonce, container.Tag, aad)
	if err != nil {
		return nil, nil, r.fail(err)
	}

	r.log.WithField("bytes", len(plaintext)).Debug("container authenticated")

	return plaintext, container, nil
}

func (d *Dispatcher) read(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(d.random, b); err != nil {
		return nil, fmt.Errorf("reading random bytes: %w", err)
	}

	return b, nil
}

func (d *Dispatcher) start(operation string) *run {
	return &run{
		state: Idle,
		log:   d.log.WithField("operation", operation),
	}
}

// run tracks the state of one operation.
type run struct {
	state State
	log   logrus.FieldLogger
}

func (r *run) enter(s State) {
	if s <= r.state {
		return
	}

	r.state = s
	r.log.WithField("state", s.String()).Debug("state transition")
}

func (r *run) fail(err error) error {
	failed := &Error{State: r.state, Err: err}

	r.state = Failed
	r.log.WithField("state", Failed.String()).WithError(err).Debug("state transition")

	return failed
}
