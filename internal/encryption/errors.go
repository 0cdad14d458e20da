package encryption

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameters is returned when key, nonce or tag sizes do not match the variant,
	// or when an algorithm and mode cannot be combined.
	ErrInvalidParameters = errors.New("invalid parameters")
	// ErrInvalidPadding is returned when PKCS7 padding is malformed.
	ErrInvalidPadding = errors.New("invalid padding")
	// ErrInvalidBlockSize is returned when encrypted data length is not aligned with the block size.
	ErrInvalidBlockSize = fmt.Errorf("%w: ciphertext is not a multiple of block size", ErrInvalidPadding)
	// ErrAuthenticationFailed is returned when tag verification fails.
	ErrAuthenticationFailed = errors.New("authentication failed")
	// ErrUnknownAlgorithm is returned for algorithm names or ids outside the descriptor table.
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
)
