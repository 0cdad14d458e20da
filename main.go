// Command fcrypt encrypts and decrypts files with password-derived keys.
package main

import (
	"fmt"
	"os"

	"github.com/idelchi/fcrypt/internal/commands"
)

// Global variable for CI stamping.
//
//nolint:gochecknoglobals
var version = "unknown - unofficial & generated by unknown"

func main() {
	if err := commands.Execute(version); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", commands.Describe(err))
		os.Exit(1)
	}
}
