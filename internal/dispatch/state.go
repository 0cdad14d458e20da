package dispatch

import "fmt"

// State is a step of a single dispatcher run. A run only ever moves forward.
type State int

const (
	// Idle is the state before any work: the request is resolved here.
	Idle State = iota
	// LoadingInput reads the input and, when decrypting, parses the container.
	LoadingInput
	// DerivingKey generates or reads the salt and derives the key.
	DerivingKey
	// Transforming runs the cipher.
	Transforming
	// EncodingOutput serializes the container or writes the output.
	EncodingOutput
	// Done is terminal on success.
	Done
	// Failed is terminal on error.
	Failed
)

//nolint:gochecknoglobals
var stateNames = [...]string{
	Idle:           "idle",
	LoadingInput:   "loading input",
	DerivingKey:    "deriving key",
	Transforming:   "transforming",
	EncodingOutput: "encoding output",
	Done:           "done",
	Failed:         "failed",
}

// String returns a human-readable name of the state.
func (s State) String() string {
	if s >= Idle && int(s) < len(stateNames) {
		return stateNames[s]
	}

	return fmt.Sprintf("state(%d)", int(s))
}

// Error reports the state a run was in when it failed.
type Error struct {
	State State
	Err   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.State, e.Err)
}

// Unwrap returns the originating error.
func (e *Error) Unwrap() error {
	return e.Err
}
