// =============================================================================
// Transibase - JSON Loader Module
// =============================================================================
//
// This module reads an order export and decodes it into OrderRecords. Exports
// are not always well formed at the top level, so decoding runs an ordered
// chain of strategies and keeps the first that succeeds:
//
//   1. array      : [ {...}, {...} ]
//   2. object     : {...}                  (becomes a one-element slice)
//   3. bracketed  : {...}, {...}           (wrapped in [ ] and retried)
//
// Each strategy decodes into fresh values, so a failed attempt leaves nothing
// behind for the next one. A document that is just null fails every strategy.
//
// =============================================================================

package jsonloader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/quebecstudio/transibase/internal/types"
)

// utf8BOM is stripped from the start of the input before decoding.
var utf8BOM = []byte("\xef\xbb\xbf")

// errNullDocument rejects a bare null, which encoding/json would otherwise
// decode as an empty list.
var errNullDocument = errors.New("document is null")

// =============================================================================
// PARSE STRATEGIES
// =============================================================================

// strategy is one decoding attempt in the fallback chain.
type strategy struct {
	name  string
	parse func(data []byte) ([]types.OrderRecord, error)
}

// strategies lists the fallback chain in the order it is tried.
var strategies = []strategy{
	{name: "array", parse: parseArray},
	{name: "object", parse: parseObject},
	{name: "bracketed", parse: parseBracketed},
}

func parseArray(data []byte) ([]types.OrderRecord, error) {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil, errNullDocument
	}

	var records []types.OrderRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func parseObject(data []byte) ([]types.OrderRecord, error) {
	var record types.OrderRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return []types.OrderRecord{record}, nil
}

func parseBracketed(data []byte) ([]types.OrderRecord, error) {
	wrapped := make([]byte, 0, len(data)+2)
	wrapped = append(wrapped, '[')
	wrapped = append(wrapped, data...)
	wrapped = append(wrapped, ']')
	return parseArray(wrapped)
}

// =============================================================================
// PUBLIC API
// =============================================================================

// Parse decodes raw export text into order records.
//
// RETURNS:
//   - The decoded records (possibly empty, e.g. for "[]").
//   - An error wrapping types.ErrMalformedInput and the last strategy's
//     decode error when no strategy succeeds.
func Parse(data []byte) ([]types.OrderRecord, error) {
	records, _, err := ParseWithStrategy(data)
	return records, err
}

// ParseWithStrategy is Parse that also reports the name of the strategy that
// succeeded ("array", "object" or "bracketed").
func ParseWithStrategy(data []byte) ([]types.OrderRecord, string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	var lastErr error
	for _, s := range strategies {
		records, err := s.parse(data)
		if err == nil {
			return records, s.name, nil
		}
		lastErr = fmt.Errorf("%s: %w", s.name, err)
	}

	return nil, "", fmt.Errorf("%w: %w", types.ErrMalformedInput, lastErr)
}

// ReadFile reads the export at path.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read input file: %w", types.ErrIOFailure, err)
	}
	return data, nil
}

// Load reads the file at path and decodes it with Parse.
func Load(path string) ([]types.OrderRecord, error) {
	data, err := ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(data)
}
