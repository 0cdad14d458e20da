package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/idelchi/gogen/pkg/validator"
	"github.com/idelchi/fcrypt/internal/kdf"
)

// register adds the custom validations with their messages and reports fields by their label tag.
func register(validator *validator.Validator) error {
	names := make([]string, 0, len(kdf.Functions()))
	for _, f := range kdf.Functions() {
		names = append(names, f.String())
	}

	if err := validator.RegisterValidationAndTranslation(
		"kdf",
		validateKDF,
		"{0} must be one of "+strings.Join(names, ", "),
	); err != nil {
		return fmt.Errorf("registering kdf validation: %w", err)
	}

	if err := validator.RegisterValidationAndTranslation(
		"bytesize",
		validateByteSize,
		"{0} must be a size such as 16MiB",
	); err != nil {
		return fmt.Errorf("registering bytesize validation: %w", err)
	}

	validator.Validator().RegisterTagNameFunc(func(fld reflect.StructField) string {
		const splitSize = 2

		name := strings.SplitN(fld.Tag.Get("label"), ",", splitSize)[0]
		if name == "-" || name == "" {
			return fld.Name
		}

		return name
	})

	return nil
}

// validateKDF accepts an empty value, meaning the default function, or a known function name.
func validateKDF(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if name == "" {
		return true
	}

	_, err := kdf.Lookup(name)

	return err == nil
}

// validateByteSize accepts an empty value or a size humanize can parse.
func validateByteSize(fl validator.FieldLevel) bool {
	size := fl.Field().String()
	if size == "" {
		return true
	}

	_, err := humanize.ParseBytes(size)

	return err == nil
}
