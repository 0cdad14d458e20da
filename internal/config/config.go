// Package config holds the command-line configuration of fcrypt.
package config

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/idelchi/gogen/pkg/validator"
)

// ErrInvalidConfig is returned when flags fail validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is populated from the command-line flags of the invoked command.
type Config struct {
	// Global flags
	Verbose    bool
	Quiet      bool
	ShowConfig bool `mapstructure:"show"`

	// Key material
	Password string `label:"--password" validate:"required"`
	KDF      string `label:"--kdf"      validate:"kdf"      mapstructure:"kdf"`

	// Single-file operations
	Input     string `label:"--input"  validate:"required"`
	Output    string `label:"--output" validate:"required"`
	Algorithm string
	Mode      string

	// Benchmark
	Size       string   `label:"--size" validate:"bytesize"`
	Algorithms []string `label:"--algorithms" validate:"dive,required"`

	// Verify
	Parallel    int      `label:"--parallel" validate:"min=1"`
	Files       []string `label:"files"      validate:"min=1,dive,required"`
	Include     []string
	Exclude     []string
	IncludeFrom string `mapstructure:"include-from"`
	ExcludeFrom string `mapstructure:"exclude-from"`
}

// Validate checks the named fields against their struct tags, or all fields when none are named.
// Every failing field is reported, in a stable order.
func (c *Config) Validate(fields ...string) error {
	validate := validator.NewValidator()

	if err := register(validate); err != nil {
		return err
	}

	var err error
	if len(fields) == 0 {
		err = validate.Validator().Struct(c)
	} else {
		err = validate.Validator().StructPartial(c, fields...)
	}

	if err == nil {
		return nil
	}

	errs := validate.FormatErrors(err)
	slices.SortFunc(errs, func(a, b error) int {
		return cmp.Compare(a.Error(), b.Error())
	})

	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// Show renders the configuration with the password masked.
func (c Config) Show() string {
	if c.Password != "" {
		c.Password = "********"
	}

	return fmt.Sprintf("%+v", c)
}
