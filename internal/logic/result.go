package logic

// Result represents the outcome of verifying a single file.
type Result struct {
	// Input file path
	Input string

	// Variant and key derivation recorded in the container
	Algorithm string
	KDF       string

	// Size of the container in bytes
	Size int64

	// Any error that occurred during verification
	Error error
}
