// Package logging builds the logrus logger used by the command line.
package logging

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"
)

// Level maps the verbosity flags to a logrus level. Quiet wins over verbose.
func Level(verbose, quiet bool) logrus.Level {
	switch {
	case quiet:
		return logrus.WarnLevel
	case verbose:
		return logrus.DebugLevel
	default:
		return logrus.InfoLevel
	}
}

// New returns a logger writing plain text to w.
func New(w io.Writer, verbose, quiet bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(Level(verbose, quiet))
	logger.SetFormatter(&plainFormatter{})

	return logger
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return logger
}

// plainFormatter prints info messages bare and prefixes everything else with its level.
// Fields follow the message as sorted key=value pairs.
type plainFormatter struct{}

func (p *plainFormatter) Format(e *logrus.Entry) ([]byte, error) {
	b := new(bytes.Buffer)

	if e.Level != logrus.InfoLevel {
		fmt.Fprintf(b, "[%s] ", strings.ToUpper(e.Level.String()))
	}

	b.WriteString(e.Message)

	keys := make([]string, 0, len(e.Data))
	for k := range e.Data {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	for _, k := range keys {
		fmt.Fprintf(b, " %s=%v", k, e.Data[k])
	}

	b.WriteByte('\n')

	return b.Bytes(), nil
}
