// =============================================================================
// Transibase - File Manager Utility
// =============================================================================
//
// This module provides the file helpers used around the conversion:
//   - existence checks
//   - interactive overwrite confirmation
//   - atomic file replacement
//
// =============================================================================

package utils

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// =============================================================================
// FILE CHECKS
// =============================================================================

// FileExists reports whether something exists at path.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}

// =============================================================================
// OVERWRITE CONFIRMATION
// =============================================================================

// overwriteAnswer is the reply that accepts the overwrite ("oui").
const overwriteAnswer = "o"

// ConfirmOverwrite asks on out whether path may be overwritten and reads one
// line from in.
//
// RETURNS:
//   - true if the answer is "o" (case-insensitive, surrounding spaces
//     ignored); false for any other answer, including end of input.
//   - An error if in cannot be read.
func ConfirmOverwrite(in io.Reader, out io.Writer, path string) (bool, error) {
	fmt.Fprintf(out, "Output file %s already exists. Overwrite it? (o/n) ", path)

	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}

	return strings.EqualFold(strings.TrimSpace(answer), overwriteAnswer), nil
}

// =============================================================================
// ATOMIC WRITES
// =============================================================================

// WriteFileAtomic writes a file through a temporary sibling and renames it to
// path once write returns without error. On failure path is left untouched
// and the temporary file is removed.
//
// If path is a symbolic link, the file it points to is replaced and the link
// is kept. An existing file keeps its permission bits.
//
// PARAMETERS:
//   - path:  The destination file.
//   - perm:  The permissions of a newly created file.
//   - write: Fills the file. It must not retain the writer.
func WriteFileAtomic(path string, perm os.FileMode, write func(w io.Writer) error) (err error) {
	if target, evalErr := filepath.EvalSymlinks(path); evalErr == nil {
		path = target
	}
	if info, statErr := os.Stat(path); statErr == nil {
		perm = info.Mode().Perm()
	}

	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()

	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if err = write(tmp); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err = os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to move file into place: %w", err)
	}

	return nil
}
