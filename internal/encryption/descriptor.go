package encryption

import (
	"fmt"
	"slices"
	"strings"
)

// ID is the one-byte algorithm identifier stored in container headers.
// Each id names an algorithm and mode pair.
type ID byte

const (
	// AES256CBC is AES-256 in CBC mode with PKCS#7 padding and an HMAC-SHA256 tag.
	AES256CBC ID = iota + 1
	// AES256GCM is AES-256 in GCM mode.
	AES256GCM
	// ChaCha20Poly1305 is the IETF ChaCha20-Poly1305 AEAD.
	ChaCha20Poly1305
	// XChaCha20Poly1305 is ChaCha20-Poly1305 with a 192-bit nonce.
	XChaCha20Poly1305
	// AES256SIV is AES-SIV with a random nonce bound as associated data.
	AES256SIV
)

const (
	// DefaultName is the variant used when neither algorithm nor mode is requested.
	DefaultName = "aes256-gcm"
	// DefaultFamily is the family a mode selects from when no algorithm is requested.
	DefaultFamily = "aes256"
)

// Kind classifies a variant as a block or stream construction.
type Kind byte

const (
	// Block ciphers operate on fixed-size blocks.
	Block Kind = iota + 1
	// Stream ciphers XOR a keystream over arbitrary lengths.
	Stream
)

func (k Kind) String() string {
	switch k {
	case Block:
		return "block"
	case Stream:
		return "stream"
	default:
		return "unknown"
	}
}

// Descriptor is the static metadata of one cipher variant.
type Descriptor struct {
	ID        ID
	Name      string
	Family    string
	Mode      string
	KeySize   int
	NonceSize int
	TagSize   int
	Kind      Kind
}

// Authenticated reports whether the variant produces an authentication tag.
func (d Descriptor) Authenticated() bool {
	return d.TagSize > 0
}

func (d Descriptor) String() string {
	return d.Name
}

//nolint:gochecknoglobals
var descriptors = []Descriptor{
	{ID: AES256CBC, Name: "aes256-cbc", Family: "aes256", Mode: "cbc", KeySize: 32, NonceSize: 16, TagSize: 32, Kind: Block},
	{ID: AES256GCM, Name: "aes256-gcm", Family: "aes256", Mode: "gcm", KeySize: 32, NonceSize: 12, TagSize: 16, Kind: Block},
	{
		ID: ChaCha20Poly1305, Name: "chacha20-poly1305", Family: "chacha20", Mode: "poly1305",
		KeySize: 32, NonceSize: 12, TagSize: 16, Kind: Stream,
	},
	{
		ID: XChaCha20Poly1305, Name: "xchacha20-poly1305", Family: "xchacha20", Mode: "poly1305",
		KeySize: 32, NonceSize: 24, TagSize: 16, Kind: Stream,
	},
	{ID: AES256SIV, Name: "aes256-siv", Family: "aes256", Mode: "siv", KeySize: 64, NonceSize: 16, TagSize: 16, Kind: Block},
}

// familyDefaults maps an algorithm family to the mode used when none is given.
//
//nolint:gochecknoglobals
var familyDefaults = map[string]string{
	"aes256":    "gcm",
	"chacha20":  "poly1305",
	"xchacha20": "poly1305",
}

// Descriptors returns a copy of the descriptor table in id order.
func Descriptors() []Descriptor {
	return slices.Clone(descriptors)
}

// Lookup returns the descriptor with the given id.
func Lookup(id ID) (Descriptor, error) {
	for _, d := range descriptors {
		if d.ID == id {
			return d, nil
		}
	}

	return Descriptor{}, fmt.Errorf("%w: id %d", ErrUnknownAlgorithm, id)
}

// LookupName returns the descriptor with the given full name, such as "aes256-gcm".
func LookupName(name string) (Descriptor, error) {
	for _, d := range descriptors {
		if d.Name == name {
			return d, nil
		}
	}

	return Descriptor{}, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}

// Resolve selects a variant from an algorithm name and an optional mode.
//
// The algorithm is either a full variant name ("aes256-gcm") or a family ("aes256").
// A family takes its mode from the mode argument or the family default.
// A full name accepts only an empty or matching mode.
// An empty algorithm means DefaultName, or DefaultFamily when a mode is given.
// Combinations that do not exist fail with ErrInvalidParameters, unknown names with ErrUnknownAlgorithm.
func Resolve(algorithm, mode string) (Descriptor, error) {
	algorithm = strings.ToLower(strings.TrimSpace(algorithm))
	mode = strings.ToLower(strings.TrimSpace(mode))

	switch {
	case algorithm == "" && mode == "":
		algorithm = DefaultName
	case algorithm == "":
		algorithm = DefaultFamily
	}

	if d, err := LookupName(algorithm); err == nil {
		if mode == "" || mode == d.Mode {
			return d, nil
		}

		return Descriptor{}, fmt.Errorf("%w: algorithm %q is fixed to mode %q, got %q",
			ErrInvalidParameters, algorithm, d.Mode, mode)
	}

	defaultMode, ok := familyDefaults[algorithm]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
	}

	if mode == "" {
		mode = defaultMode
	}

	d, err := LookupName(algorithm + "-" + mode)
	if err != nil {
		return Descriptor{}, fmt.Errorf("%w: algorithm %q does not support mode %q (supported: %s)",
			ErrInvalidParameters, algorithm, mode, strings.Join(Modes(algorithm), ", "))
	}

	return d, nil
}

// Modes lists the modes offered by a family.
func Modes(family string) []string {
	var modes []string

	for _, d := range descriptors {
		if d.Family == family {
			modes = append(modes, d.Mode)
		}
	}

	return modes
}
