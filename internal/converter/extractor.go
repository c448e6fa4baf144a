package converter

import (
	"github.com/quebecstudio/transibase/internal/config"
	"github.com/quebecstudio/transibase/internal/types"
)

// ExtractStats counts what happened to the records during extraction.
type ExtractStats struct {
	// RecordsRead is the number of order records examined.
	RecordsRead int

	// RecordsSkipped is the number of records without any transaction.
	RecordsSkipped int

	// RowsFiltered is the number of rows dropped by the year filter.
	RowsFiltered int

	// RowsKept is the number of rows returned.
	RowsKept int
}

// Extractor flattens order records into ExtractedRows.
type Extractor struct {
	// FilterYear keeps only rows whose transaction date starts with it.
	// Empty disables the filter.
	FilterYear string

	// Keys names the option keys read from the first line item.
	Keys config.OptionKeys
}

// NewExtractor creates an Extractor reading the given option keys.
func NewExtractor(filterYear string, keys config.OptionKeys) *Extractor {
	return &Extractor{
		FilterYear: filterYear,
		Keys:       keys,
	}
}

// Extract flattens records using the default option keys.
func Extract(records []types.OrderRecord, filterYear string) []types.ExtractedRow {
	rows, _ := NewExtractor(filterYear, config.Default().OptionKeys).Extract(records)
	return rows
}

// Extract flattens records into rows, in input order.
//
// For each record:
//   - no transactions: skipped
//   - the last transaction supplies the reference and date
//   - the customer supplies the email
//   - the first line item's options supply the donor fields
//   - the row is kept only if its date matches FilterYear
//
// Missing substructures yield empty fields; Extract never fails.
func (e *Extractor) Extract(records []types.OrderRecord) ([]types.ExtractedRow, ExtractStats) {
	stats := ExtractStats{RecordsRead: len(records)}
	rows := make([]types.ExtractedRow, 0, len(records))

	for i := range records {
		row, ok := e.extractRecord(&records[i])
		if !ok {
			stats.RecordsSkipped++
			continue
		}

		if !MatchesYear(row.TransactionDate, e.FilterYear) {
			stats.RowsFiltered++
			continue
		}

		rows = append(rows, row)
	}

	stats.RowsKept = len(rows)
	return rows, stats
}

// extractRecord builds the row for one record. It returns false when the
// record has no transaction.
func (e *Extractor) extractRecord(record *types.OrderRecord) (types.ExtractedRow, bool) {
	if len(record.Transactions) == 0 {
		return types.ExtractedRow{}, false
	}
	last := record.Transactions[len(record.Transactions)-1]

	var email string
	if record.Customer != nil {
		email = string(record.Customer.Email)
	}

	var options types.Options
	if len(record.LineItems) > 0 {
		options = record.LineItems[0].Options
	}

	return types.ExtractedRow{
		Reference:       string(last.Reference),
		Email:           email,
		FirstName:       options.Get(e.Keys.FirstName),
		LastName:        options.Get(e.Keys.LastName),
		BirthDate:       options.Get(e.Keys.BirthDate),
		DonationAmount:  options.Get(e.Keys.DonationAmount),
		TransactionDate: NormalizeDate(string(last.DateCreated)),
	}, true
}
