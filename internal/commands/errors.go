package commands

import (
	"errors"

	"github.com/idelchi/fcrypt/internal/encryption"
	"github.com/idelchi/fcrypt/internal/envelope"
	"github.com/idelchi/fcrypt/internal/kdf"
)

//nolint:gochecknoglobals
var hints = []struct {
	err  error
	hint string
}{
	{encryption.ErrAuthenticationFailed, "wrong password, or the file was modified"},
	{encryption.ErrInvalidPadding, "wrong password, or the file was modified"},
	{envelope.ErrNotAContainer, "the input is not an fcrypt file"},
	{envelope.ErrTruncated, "the input is incomplete"},
	{envelope.ErrUnsupportedVersion, "the file was written by a newer fcrypt"},
	{encryption.ErrUnknownAlgorithm, "run 'fcrypt algorithms' for the supported names"},
	{kdf.ErrDerivationFailed, "the key derivation needs more memory than allowed"},
}

// Describe renders err for the user, appending a hint for known failure kinds.
func Describe(err error) string {
	for _, h := range hints {
		if errors.Is(err, h.err) {
			return err.Error() + " (" + h.hint + ")"
		}
	}

	return err.Error()
}
