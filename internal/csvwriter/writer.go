// =============================================================================
// Transibase - CSV Writer Module
// =============================================================================
//
// This module serializes ExtractedRows as CSV.
//
// OUTPUT FORMAT:
//   "R1","a@b.com","Jean","Dupont","1990-01-01","50","2023-05-10"
//
//   - Column order is fixed: reference, email, first name, last name,
//     birth date, donation amount, transaction date.
//   - Every field is quoted, including empty ones, so leading zeros and
//     empty strings survive spreadsheet imports.
//   - Embedded quotes are doubled (RFC 4180).
//   - A header row is written only when Options.Header is set.
//
// encoding/csv only quotes fields that need it, so records are encoded here.
//
// =============================================================================

package csvwriter

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/quebecstudio/transibase/internal/config"
	"github.com/quebecstudio/transibase/internal/types"
	"github.com/quebecstudio/transibase/pkg/utils"
)

// =============================================================================
// WRITE OPTIONS
// =============================================================================

// Options controls the CSV encoding.
type Options struct {
	// Comma is the field delimiter.
	Comma rune

	// UseCRLF ends records with \r\n instead of \n.
	UseCRLF bool

	// Header is written as the first record when non-empty.
	Header []string
}

// DefaultOptions returns comma-separated, LF-terminated output without header.
func DefaultOptions() Options {
	return Options{Comma: ','}
}

// OptionsFromConfig derives the writer options from the converter settings.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := Options{
		Comma:   cfg.Comma(),
		UseCRLF: cfg.LineEnding == config.LineEndingCRLF,
	}
	if cfg.IncludeHeader {
		opts.Header = HeaderFor(cfg.OptionKeys)
	}
	return opts
}

// HeaderFor returns the header row. Option columns are named after the
// option keys they are read from.
func HeaderFor(keys config.OptionKeys) []string {
	return []string{
		"reference",
		"email",
		keys.FirstName,
		keys.LastName,
		keys.BirthDate,
		keys.DonationAmount,
		"transactionDate",
	}
}

// =============================================================================
// WRITER FUNCTIONS
// =============================================================================

// Write encodes rows to w.
//
// RETURNS:
//   - An error wrapping types.ErrIOFailure if w fails.
func Write(w io.Writer, rows []types.ExtractedRow, opts Options) error {
	if opts.Comma == 0 {
		opts.Comma = ','
	}

	bw := bufio.NewWriter(w)

	if len(opts.Header) > 0 {
		writeRecord(bw, opts.Header, opts)
	}
	for _, row := range rows {
		writeRecord(bw, row.Fields(), opts)
	}

	// bufio.Writer keeps the first error, so checking Flush is enough.
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: failed to write CSV: %w", types.ErrIOFailure, err)
	}

	return nil
}

// WriteFile encodes rows into the file at path. The file is replaced only
// once every row has been written.
func WriteFile(path string, rows []types.ExtractedRow, opts Options) error {
	err := utils.WriteFileAtomic(path, 0644, func(w io.Writer) error {
		return Write(w, rows, opts)
	})
	if err != nil && !errors.Is(err, types.ErrIOFailure) {
		return fmt.Errorf("%w: failed to write output file: %w", types.ErrIOFailure, err)
	}
	return err
}

// writeRecord writes one fully quoted record.
func writeRecord(w *bufio.Writer, fields []string, opts Options) {
	for i, field := range fields {
		if i > 0 {
			w.WriteRune(opts.Comma)
		}
		w.WriteByte('"')
		w.WriteString(strings.ReplaceAll(field, `"`, `""`))
		w.WriteByte('"')
	}

	if opts.UseCRLF {
		w.WriteString("\r\n")
	} else {
		w.WriteByte('\n')
	}
}
