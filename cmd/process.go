// =============================================================================
// Transibase - Conversion Command
// =============================================================================
//
// This file implements the root command's action: converting one JSON export
// into one CSV file.
//
// COMMAND USAGE:
//   transibase <inputFile> <outputFile> [year] [flags]
//
// FLAGS:
//   --header : Write a header row
//   --yes    : Overwrite an existing output file without asking
//
// EXIT STATUS:
//   0 : CSV written, no matching record (nothing written), or overwrite
//       declined
//   1 : Missing arguments, missing input file, invalid year, malformed JSON
//       or I/O failure
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quebecstudio/transibase/internal/converter"
	"github.com/quebecstudio/transibase/internal/validation"
	"github.com/quebecstudio/transibase/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// includeHeader writes a header row before the data rows.
var includeHeader bool

// assumeYes overwrites an existing output file without prompting.
var assumeYes bool

func init() {
	rootCmd.Flags().BoolVar(
		&includeHeader,
		"header",
		false,
		"Write a header row before the data rows",
	)

	rootCmd.Flags().BoolVarP(
		&assumeYes,
		"yes",
		"y",
		false,
		"Overwrite the output file without asking",
	)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runConvert validates the arguments, confirms an overwrite if needed and runs
// the converter.
func runConvert(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	outputPath := args[1]

	var filterYear string
	if len(args) > 2 {
		filterYear = args[2]
	}
	if len(args) > 3 {
		logger.Warn("Ignoring extra arguments", zap.Strings("args", args[3:]))
	}

	// Argument count is valid; later errors are not usage errors.
	cmd.SilenceUsage = true
	out := cmd.OutOrStdout()

	// =========================================================================
	// STEP 1: CHECK INPUTS
	// =========================================================================

	if err := validation.ValidateInputFile(inputPath); err != nil {
		return err
	}
	if len(args) > 2 {
		if err := validation.ValidateYearArgument(filterYear); err != nil {
			return err
		}
	}

	if includeHeader {
		cfg.IncludeHeader = true
	}
	if assumeYes {
		cfg.AssumeYes = true
	}

	// =========================================================================
	// STEP 2: CONFIRM OVERWRITE
	// =========================================================================

	if utils.FileExists(outputPath) && !cfg.AssumeYes {
		ok, err := utils.ConfirmOverwrite(cmd.InOrStdin(), out, outputPath)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Operation cancelled.")
			return nil
		}
	}

	// =========================================================================
	// STEP 3: CONVERT
	// =========================================================================

	result := converter.New(inputPath, outputPath, filterYear, cfg, logger).Run()
	if result.Error != nil {
		return fmt.Errorf("processing failed: %w", result.Error)
	}

	// =========================================================================
	// STEP 4: REPORT
	// =========================================================================

	if result.OutputFile == "" {
		if filterYear != "" {
			fmt.Fprintf(out, "No transactions found for year %s.\n", filterYear)
		} else {
			fmt.Fprintln(out, "No transactions found.")
		}
		return nil
	}

	fmt.Fprintf(out, "Extraction succeeded! CSV file created: %s\n", result.OutputFile)
	fmt.Fprintf(out, "Rows written: %d\n", result.Stats.RowsWritten)
	if filterYear != "" {
		fmt.Fprintf(out, "Filter applied: year %s\n", filterYear)
	}
	fmt.Fprintf(out, "Total donations: %s\n", result.Stats.DonationTotal.StringFixed(2))
	if result.Stats.UnparsedAmounts > 0 {
		fmt.Fprintf(out, "Amounts not counted (unreadable): %d\n", result.Stats.UnparsedAmounts)
	}

	return nil
}
