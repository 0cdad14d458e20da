package commands

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// ErrPasswordMismatch is returned when the confirmation differs from the first entry.
var ErrPasswordMismatch = errors.New("passwords do not match")

// Terminal reads passwords without echo.
type Terminal interface {
	IsTerminal() bool
	ReadPassword() ([]byte, error)
}

type fdTerminal struct {
	fd int
}

// Stdin returns the terminal attached to standard input, if any.
func Stdin() Terminal {
	return fdTerminal{fd: int(os.Stdin.Fd())} //nolint:gosec // file descriptors fit in int
}

func (t fdTerminal) IsTerminal() bool {
	return term.IsTerminal(t.fd)
}

func (t fdTerminal) ReadPassword() ([]byte, error) {
	return term.ReadPassword(t.fd)
}

// readPassword prompts on w when standard input is a terminal. Without a terminal it
// returns an empty password and leaves the error to validation.
func (s *state) readPassword(w io.Writer, confirm bool) (string, error) {
	if s.terminal == nil || !s.terminal.IsTerminal() {
		return "", nil
	}

	password, err := prompt(s.terminal, w, "Password: ")
	if err != nil {
		return "", err
	}

	if !confirm {
		return string(password), nil
	}

	again, err := prompt(s.terminal, w, "Confirm password: ")
	if err != nil {
		return "", err
	}

	if !bytes.Equal(password, again) {
		return "", ErrPasswordMismatch
	}

	return string(password), nil
}

func prompt(t Terminal, w io.Writer, label string) ([]byte, error) {
	fmt.Fprint(w, label)

	password, err := t.ReadPassword()

	fmt.Fprintln(w)

	if err != nil {
		return nil, fmt.Errorf("reading password: %w", err)
	}

	return password, nil
}
