// =============================================================================
// Transibase - Converter Module
// =============================================================================
//
// This module runs the conversion pipeline for one export file.
//
// CONVERSION PIPELINE:
//   1. Validate the filter year and the input path
//   2. Read and decode the JSON export (array / object / bracketed)
//   3. Extract one row per order with a transaction, applying the year filter
//   4. Write the CSV file, unless no row matched
//   5. Summarize the run (row counts, donation total)
//
// Every step either succeeds or ends the run with an error; the output file
// is written atomically, so a failed run never leaves a partial CSV.
//
// =============================================================================

package converter

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/quebecstudio/transibase/internal/config"
	"github.com/quebecstudio/transibase/internal/csvwriter"
	"github.com/quebecstudio/transibase/internal/jsonloader"
	"github.com/quebecstudio/transibase/internal/validation"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of converting a single file.
type Result struct {
	// InputFile is the path to the JSON export.
	InputFile string

	// OutputFile is the path to the CSV file.
	// This is empty if nothing was written.
	OutputFile string

	// Success indicates whether the run completed. A run that matched no
	// rows is successful and has an empty OutputFile.
	Success bool

	// Error contains the error if the run failed.
	Error error

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the run.
type ProcessingStats struct {
	ExtractStats

	// Strategy is the loader strategy that decoded the export.
	Strategy string

	// RowsWritten is the number of CSV data rows written.
	RowsWritten int

	// DonationTotal sums the donation amounts of the written rows that
	// parse as decimal numbers.
	DonationTotal decimal.Decimal

	// UnparsedAmounts counts non-empty donation amounts that could not be
	// parsed and are missing from DonationTotal.
	UnparsedAmounts int

	// ProcessingTime is the time taken by the run.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter converts one JSON export into one CSV file.
type Converter struct {
	inputPath  string
	outputPath string
	filterYear string
	cfg        *config.Config
	logger     *zap.Logger
}

// New creates a new Converter.
//
// PARAMETERS:
//   - inputPath:  The JSON export to read.
//   - outputPath: The CSV file to write.
//   - filterYear: Four-digit year, or "" for no filtering.
//   - cfg:        The converter settings; nil means defaults.
//   - logger:     The logger; nil disables logging.
func New(inputPath, outputPath, filterYear string, cfg *config.Config, logger *zap.Logger) *Converter {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Converter{
		inputPath:  inputPath,
		outputPath: outputPath,
		filterYear: filterYear,
		cfg:        cfg,
		logger: logger.With(
			zap.String("run_id", uuid.NewString()),
			zap.String("input", inputPath),
		),
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the conversion pipeline.
func (c *Converter) Run() Result {
	startTime := time.Now()
	result := Result{InputFile: c.inputPath}

	// =========================================================================
	// STEP 1: VALIDATE INPUTS
	// =========================================================================

	if err := validation.ValidateYear(c.filterYear); err != nil {
		result.Error = err
		return result
	}
	if err := validation.ValidateInputFile(c.inputPath); err != nil {
		result.Error = err
		return result
	}

	// =========================================================================
	// STEP 2: LOAD THE EXPORT
	// =========================================================================

	data, err := jsonloader.ReadFile(c.inputPath)
	if err != nil {
		result.Error = err
		return result
	}

	records, strategy, err := jsonloader.ParseWithStrategy(data)
	if err != nil {
		c.logger.Error("Export could not be decoded", zap.Error(err))
		result.Error = err
		return result
	}

	result.Stats.Strategy = strategy
	c.logger.Debug("Decoded export",
		zap.String("strategy", strategy),
		zap.Int("records", len(records)))

	// =========================================================================
	// STEP 3: EXTRACT ROWS
	// =========================================================================

	extractor := NewExtractor(c.filterYear, c.cfg.OptionKeys)
	rows, stats := extractor.Extract(records)
	result.Stats.ExtractStats = stats

	c.logger.Debug("Extracted rows",
		zap.Int("kept", stats.RowsKept),
		zap.Int("skipped_without_transaction", stats.RecordsSkipped),
		zap.Int("filtered_by_year", stats.RowsFiltered))

	// =========================================================================
	// STEP 4: WRITE THE CSV
	// =========================================================================

	if len(rows) == 0 {
		c.logger.Info("No matching records, nothing written",
			zap.String("year", c.filterYear))
		result.Success = true
		result.Stats.ProcessingTime = time.Since(startTime)
		return result
	}

	if err := csvwriter.WriteFile(c.outputPath, rows, csvwriter.OptionsFromConfig(c.cfg)); err != nil {
		c.logger.Error("Failed to write CSV", zap.String("output", c.outputPath), zap.Error(err))
		result.Error = err
		return result
	}

	result.OutputFile = c.outputPath
	result.Stats.RowsWritten = len(rows)

	// =========================================================================
	// STEP 5: SUMMARIZE
	// =========================================================================

	for _, row := range rows {
		amount, ok := ParseAmount(row.DonationAmount)
		switch {
		case ok:
			result.Stats.DonationTotal = result.Stats.DonationTotal.Add(amount)
		case strings.TrimSpace(row.DonationAmount) != "":
			result.Stats.UnparsedAmounts++
		}
	}

	result.Success = true
	result.Stats.ProcessingTime = time.Since(startTime)

	c.logger.Info("Wrote CSV",
		zap.String("output", c.outputPath),
		zap.Int("rows", result.Stats.RowsWritten),
		zap.String("donation_total", result.Stats.DonationTotal.StringFixed(2)),
		zap.Duration("elapsed", result.Stats.ProcessingTime))

	return result
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// amountReplacer strips currency symbols and grouping spaces.
var amountReplacer = strings.NewReplacer("$", "", "€", "", " ", "", "\u00a0", "", "\u202f", "")

// ParseAmount parses a donation amount such as "50", "25.50", "25,50 $",
// "1.000,50" or "1,000.50".
//
// SEPARATOR RULES:
//   - Both "." and "," present: the last one is the decimal separator and the
//     other is a grouping separator.
//   - A single ",": decimal separator.
//   - A repeated "," or ".": grouping separator.
func ParseAmount(raw string) (decimal.Decimal, bool) {
	s := amountReplacer.Replace(strings.TrimSpace(raw))
	if s == "" {
		return decimal.Zero, false
	}

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")
	switch {
	case lastDot >= 0 && lastComma > lastDot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case lastComma >= 0 && lastDot > lastComma:
		s = strings.ReplaceAll(s, ",", "")
	case strings.Count(s, ",") == 1:
		s = strings.Replace(s, ",", ".", 1)
	case strings.Count(s, ",") > 1:
		s = strings.ReplaceAll(s, ",", "")
	case strings.Count(s, ".") > 1:
		s = strings.ReplaceAll(s, ".", "")
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return amount, true
}
