// Package kdf turns a password and a random salt into a fixed-length symmetric key.
//
// Three functions are supported: argon2id (the default), scrypt and PBKDF2-HMAC-SHA256.
// Each carries its work factor in Params, which serializes to a fixed-size block so that
// the parameters can travel in a container header next to the salt.
package kdf

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"
)

// SaltSize is the length of the random per-file salt.
const SaltSize = 16

var (
	// ErrInvalidKey is returned for unusable derivation input: an empty password,
	// a salt of the wrong length or parameters outside the accepted range.
	ErrInvalidKey = errors.New("invalid key material")
	// ErrDerivationFailed is returned when the derivation cannot obtain the working memory it needs.
	ErrDerivationFailed = errors.New("key derivation failed")
	// ErrUnknownFunction is returned when a function name or id is not recognized.
	ErrUnknownFunction = errors.New("unknown key derivation function")
)

// Function identifies a key derivation function.
type Function byte

const (
	// Argon2id is the memory-hard argon2id function.
	Argon2id Function = iota + 1
	// Scrypt is the memory-hard scrypt function.
	Scrypt
	// PBKDF2 is PBKDF2 with HMAC-SHA256.
	PBKDF2
)

//nolint:gochecknoglobals
var names = map[Function]string{
	Argon2id: "argon2id",
	Scrypt:   "scrypt",
	PBKDF2:   "pbkdf2-sha256",
}

// String returns the function name.
func (f Function) String() string {
	if name, ok := names[f]; ok {
		return name
	}

	return fmt.Sprintf("kdf(%d)", byte(f))
}

// Valid reports whether f is a known function.
func (f Function) Valid() bool {
	_, ok := names[f]

	return ok
}

// Functions returns the known functions in id order.
func Functions() []Function {
	return []Function{Argon2id, Scrypt, PBKDF2}
}

// Lookup returns the function with the given name.
func Lookup(name string) (Function, error) {
	for f, n := range names {
		if n == name {
			return f, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownFunction, name)
}

// Derive produces keyLen bytes from password and salt using the function and cost in params.
// The output is deterministic for fixed inputs.
func Derive(password, salt []byte, params Params, keyLen int) ([]byte, error) {
	if len(password) == 0 {
		return nil, fmt.Errorf("%w: empty password", ErrInvalidKey)
	}

	if len(salt) != SaltSize {
		return nil, fmt.Errorf("%w: salt must be %d bytes, got %d", ErrInvalidKey, SaltSize, len(salt))
	}

	if keyLen <= 0 {
		return nil, fmt.Errorf("%w: key length %d", ErrInvalidKey, keyLen)
	}

	if err := params.Validate(); err != nil {
		return nil, err
	}

	switch params.Function {
	case Argon2id:
		//nolint:gosec // keyLen is a descriptor key size
		return argon2.IDKey(password, salt, params.Cost, params.Memory, params.Parallelism, uint32(keyLen)), nil
	case Scrypt:
		key, err := scrypt.Key(password, salt, 1<<params.Cost, int(params.Memory), int(params.Parallelism), keyLen)
		if err != nil {
			return nil, fmt.Errorf("%w: scrypt: %w", ErrDerivationFailed, err)
		}

		return key, nil
	case PBKDF2:
		return pbkdf2.Key(password, salt, int(params.Cost), keyLen, sha256.New), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownFunction, params.Function)
	}
}

// Wipe overwrites b with zeros.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}

	runtime.KeepAlive(b)
}
