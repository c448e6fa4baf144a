// =============================================================================
// Transibase - Input Validation Module
// =============================================================================
//
// This module checks the command-line inputs before any file is parsed:
//   - the input file must exist
//   - the optional filter year must be exactly four ASCII digits
//
// Failures wrap the sentinel errors of the types package.
//
// =============================================================================

package validation

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"

	"github.com/quebecstudio/transibase/internal/types"
)

// yearPattern matches exactly four ASCII digits. RE2's \d is ASCII-only.
var yearPattern = regexp.MustCompile(`^\d{4}$`)

// ValidateYear checks the filter year. An empty year means "no filter" and is
// always valid.
func ValidateYear(year string) error {
	if year == "" {
		return nil
	}
	return ValidateYearArgument(year)
}

// ValidateYearArgument checks a year given on the command line. Unlike
// ValidateYear it rejects "", since an explicit empty argument is not a year.
func ValidateYearArgument(year string) error {
	if !yearPattern.MatchString(year) {
		return fmt.Errorf("%w: got %q", types.ErrInvalidYearFormat, year)
	}
	return nil
}

// ValidateInputFile checks that path exists.
//
// RETURNS:
//   - An error wrapping types.ErrMissingFile if nothing exists at path.
//   - An error wrapping types.ErrIOFailure if the path cannot be inspected.
func ValidateInputFile(path string) error {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s", types.ErrMissingFile, path)
	default:
		return fmt.Errorf("%w: failed to inspect input file: %w", types.ErrIOFailure, err)
	}
}
