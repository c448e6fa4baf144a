// =============================================================================
// Transibase - Shared Types
// =============================================================================
//
// This package contains the order export model and the flattened output row.
// They are shared by:
//   - jsonloader (decodes OrderRecord)
//   - converter  (produces ExtractedRow)
//   - csvwriter  (serializes ExtractedRow)
//
// Every field of the export model is optional. Absent substructures decode to
// nil pointers, nil slices or nil maps and are read as empty strings.
//
// DECODING RULES:
//   - Object keys match exactly ("transactions", not "Transactions").
//   - A null order, transaction or line item inside an array is an error.
//   - A null customer, list or option map is the same as an absent one.
//
// =============================================================================

package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// =============================================================================
// ORDER EXPORT MODEL
// =============================================================================

// OrderRecord is one exported commerce order.
type OrderRecord struct {
	Transactions []Transaction `json:"transactions"`
	Customer     *Customer     `json:"customer"`
	LineItems    []LineItem    `json:"lineItems"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *OrderRecord) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return fmt.Errorf("order: %w", errNullElement)
	}
	return decodeFields(data, []field{
		{"transactions", &r.Transactions},
		{"customer", &r.Customer},
		{"lineItems", &r.LineItems},
	})
}

// Transaction is a payment record attached to an order.
type Transaction struct {
	// Reference is the payment gateway reference.
	Reference Text `json:"reference"`

	// DateCreated is usually ISO-8601 ("2023-05-10T12:00:00") or a plain
	// "YYYY-MM-DD" date, but any string is accepted.
	DateCreated Text `json:"dateCreated"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return fmt.Errorf("transaction: %w", errNullElement)
	}
	return decodeFields(data, []field{
		{"reference", &t.Reference},
		{"dateCreated", &t.DateCreated},
	})
}

// Customer holds the buyer contact information.
type Customer struct {
	Email Text `json:"email"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Customer) UnmarshalJSON(data []byte) error {
	return decodeFields(data, []field{
		{"email", &c.Email},
	})
}

// LineItem is one purchased item. Its options carry the donor fields.
type LineItem struct {
	Options Options `json:"options"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *LineItem) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return fmt.Errorf("line item: %w", errNullElement)
	}
	return decodeFields(data, []field{
		{"options", &l.Options},
	})
}

// Options maps option keys (e.g. "prenom", "donationAmount") to values.
type Options map[string]Text

// Get returns the value stored under key, or "" when the map or key is absent.
func (o Options) Get(key string) string {
	return string(o[key])
}

// UnmarshalJSON implements json.Unmarshaler. PHP exports encode an empty
// option map as [], so anything other than an object decodes to nil.
func (o *Options) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		*o = nil
		return nil
	}

	var m map[string]Text
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*o = m

	return nil
}

// =============================================================================
// OBJECT DECODING
// =============================================================================

// errNullElement is returned for a null where an array element is required.
var errNullElement = errors.New("null is not allowed here")

// field binds an exact object key to its destination.
type field struct {
	key string
	dst any
}

// decodeFields decodes the JSON object in data into fields. encoding/json
// matches struct keys case-insensitively, so keys are looked up here instead.
// Unknown keys are ignored.
func decodeFields(data []byte, fields []field) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	for _, f := range fields {
		value, ok := raw[f.key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(value, f.dst); err != nil {
			return fmt.Errorf("%s: %w", f.key, err)
		}
	}

	return nil
}

func isNull(data []byte) bool {
	return bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}

// =============================================================================
// TOLERANT SCALAR
// =============================================================================

// Text is a string that decodes from any JSON scalar.
//
// DECODING RULES:
//   - string          -> its value
//   - null            -> ""
//   - number, boolean -> the literal JSON text (e.g. 50.5, true)
//   - object, array   -> ""
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*t = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	case 'n', '{', '[':
		*t = ""
	default:
		*t = Text(data)
	}

	return nil
}

// =============================================================================
// OUTPUT ROW
// =============================================================================

// ExtractedRow is the flattened record written to the CSV file.
// Field order matches the CSV column order.
type ExtractedRow struct {
	Reference       string
	Email           string
	FirstName       string
	LastName        string
	BirthDate       string
	DonationAmount  string
	TransactionDate string
}

// Fields returns the row values in CSV column order.
func (r ExtractedRow) Fields() []string {
	return []string{
		r.Reference,
		r.Email,
		r.FirstName,
		r.LastName,
		r.BirthDate,
		r.DonationAmount,
		r.TransactionDate,
	}
}
