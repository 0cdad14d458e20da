// Package envelope serializes and parses the self-describing container written by fcrypt.
//
// Layout, with every length a single byte:
//
//	magic        4  "FCRY"
//	version      1
//	algorithm    1  encryption.ID
//	kdf          1  kdf.Function
//	kdf_len      1
//	kdf_params   kdf_len
//	salt_len     1
//	salt         salt_len
//	nonce_len    1
//	nonce        nonce_len
//	tag_len      1
//	tag          tag_len
//	ciphertext   remainder
package envelope

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/idelchi/fcrypt/internal/encryption"
	"github.com/idelchi/fcrypt/internal/kdf"
)

const (
	// Magic marks the start of every container.
	Magic = "FCRY"
	// Version is the newest format version this package reads and the one it writes.
	Version = byte(1)
	// Extension is the conventional suffix of container files.
	Extension = ".fcr"
)

var (
	// ErrNotAContainer is returned when the magic marker is missing.
	ErrNotAContainer = errors.New("not an fcrypt container")
	// ErrUnsupportedVersion is returned for versions this package cannot read.
	ErrUnsupportedVersion = errors.New("unsupported container version")
	// ErrTruncated is returned when the data ends inside a declared field.
	ErrTruncated = errors.New("truncated container")
	// ErrFieldTooLong is returned by Encode for fields that do not fit a one-byte length.
	ErrFieldTooLong = errors.New("field too long")
)

// Container is the decoded envelope.
type Container struct {
	Version    byte
	Algorithm  encryption.ID
	KDF        kdf.Params
	Salt       []byte
	Nonce      []byte
	Tag        []byte
	Ciphertext []byte
}

// Descriptor returns the cipher metadata named by the container's algorithm id.
func (c *Container) Descriptor() (encryption.Descriptor, error) {
	return encryption.Lookup(c.Algorithm)
}

// AssociatedData returns the encoded header from the magic through the nonce.
// Ciphers authenticate it so that header fields cannot be swapped.
func (c *Container) AssociatedData() ([]byte, error) {
	params, err := c.KDF.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("encoding kdf parameters: %w", err)
	}

	for name, field := range map[string][]byte{"kdf parameters": params, "salt": c.Salt, "nonce": c.Nonce} {
		if len(field) > math.MaxUint8 {
			return nil, fmt.Errorf("%w: %s is %d bytes", ErrFieldTooLong, name, len(field))
		}
	}

	version := c.Version
	if version == 0 {
		version = Version
	}

	header := make([]byte, 0, len(Magic)+6+len(params)+len(c.Salt)+len(c.Nonce))
	header = append(header, Magic...)
	header = append(header, version, byte(c.Algorithm), byte(c.KDF.Function))
	header = appendField(header, params)
	header = appendField(header, c.Salt)
	header = appendField(header, c.Nonce)

	return header, nil
}

// Encode serializes the container.
func Encode(c *Container) ([]byte, error) {
	header, err := c.AssociatedData()
	if err != nil {
		return nil, err
	}

	if len(c.Tag) > math.MaxUint8 {
		return nil, fmt.Errorf("%w: tag is %d bytes", ErrFieldTooLong, len(c.Tag))
	}

	out := make([]byte, 0, len(header)+1+len(c.Tag)+len(c.Ciphertext))
	out = append(out, header...)
	out = appendField(out, c.Tag)

	return append(out, c.Ciphertext...), nil
}

// Decode parses and validates a container. The returned container does not alias data.
//
//nolint:cyclop
func Decode(data []byte) (*Container, error) {
	if len(data) < len(Magic) {
		if bytes.HasPrefix([]byte(Magic), data) {
			return nil, fmt.Errorf("%w: %d bytes", ErrTruncated, len(data))
		}

		return nil, ErrNotAContainer
	}

	if !bytes.Equal(data[:len(Magic)], []byte(Magic)) {
		return nil, ErrNotAContainer
	}

	r := reader{data: data, pos: len(Magic)}

	version, err := r.readByte("version")
	if err != nil {
		return nil, err
	}

	if version == 0 || version > Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	algorithm, err := r.readByte("algorithm")
	if err != nil {
		return nil, err
	}

	if _, err := encryption.Lookup(encryption.ID(algorithm)); err != nil {
		return nil, err
	}

	function, err := r.readByte("kdf")
	if err != nil {
		return nil, err
	}

	if !kdf.Function(function).Valid() {
		return nil, fmt.Errorf("%w: key derivation function %d", encryption.ErrUnknownAlgorithm, function)
	}

	rawParams, err := r.field("kdf parameters")
	if err != nil {
		return nil, err
	}

	params, err := kdf.ParseParams(kdf.Function(function), rawParams)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedVersion, err)
	}

	container := &Container{
		Version:   version,
		Algorithm: encryption.ID(algorithm),
		KDF:       params,
	}

	if container.Salt, err = r.field("salt"); err != nil {
		return nil, err
	}

	if container.Nonce, err = r.field("nonce"); err != nil {
		return nil, err
	}

	if container.Tag, err = r.field("tag"); err != nil {
		return nil, err
	}

	container.Ciphertext = bytes.Clone(data[r.pos:])
	if container.Ciphertext == nil {
		container.Ciphertext = []byte{}
	}

	return container, nil
}

func appendField(dst, field []byte) []byte {
	dst = append(dst, byte(len(field)))

	return append(dst, field...)
}

// reader walks the header, reporting ErrTruncated for fields that run past the end.
type reader struct {
	data []byte
	pos  int
}

func (r *reader) readByte(name string) (byte, error) {
	if r.pos >= len(r.data) {
		return 0, fmt.Errorf("%w: missing %s", ErrTruncated, name)
	}

	b := r.data[r.pos]
	r.pos++

	return b, nil
}

func (r *reader) field(name string) ([]byte, error) {
	n, err := r.readByte(name + " length")
	if err != nil {
		return nil, err
	}

	end := r.pos + int(n)
	if end > len(r.data) {
		return nil, fmt.Errorf("%w: %s needs %d bytes, %d left", ErrTruncated, name, n, len(r.data)-r.pos)
	}

	field := bytes.Clone(r.data[r.pos:end])
	if field == nil {
		field = []byte{}
	}

	r.pos = end

	return field, nil
}
