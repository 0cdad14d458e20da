package logic

import (
	"fmt"

	"github.com/idelchi/fcrypt/internal/config"
	"github.com/idelchi/fcrypt/internal/envelope"
	"github.com/idelchi/fcrypt/internal/filter"
)

// resolveFiles expands directories in cfg.Files using the include and exclude patterns.
// Without include patterns, directories contribute only files ending in the container extension.
// Returns the total number of candidates scanned.
func resolveFiles(cfg *config.Config) (int, error) {
	includes := append([]string{}, cfg.Include...)
	excludes := append([]string{}, cfg.Exclude...)

	if cfg.IncludeFrom != "" {
		patterns, err := filter.LoadPatterns(cfg.IncludeFrom)
		if err != nil {
			return 0, fmt.Errorf("loading include patterns: %w", err)
		}

		includes = append(includes, patterns...)
	}

	if cfg.ExcludeFrom != "" {
		patterns, err := filter.LoadPatterns(cfg.ExcludeFrom)
		if err != nil {
			return 0, fmt.Errorf("loading exclude patterns: %w", err)
		}

		excludes = append(excludes, patterns...)
	}

	if len(includes) == 0 {
		includes = []string{"*" + envelope.Extension}
	}

	flt, err := filter.New(includes, excludes)
	if err != nil {
		return 0, err
	}

	files, scanned, err := flt.Resolve(cfg.Files)
	if err != nil {
		return scanned, fmt.Errorf("selecting files: %w", err)
	}

	cfg.Files = files

	return scanned, nil
}
