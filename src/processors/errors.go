// backend/src/processors/errors.go
package processors

import "fmt"

// The cleaning and aggregation pipeline surfaces typed errors so the web
// layer can build a helpful message from the error kind plus the offending
// value. The pipeline itself never retries or recovers; any of these aborts
// the whole request.

// MalformedInputError reports required columns missing from the source table,
// or a cell whose content cannot be read as its declared type.
type MalformedInputError struct {
	Missing []string
	Detail  string
}

func (e *MalformedInputError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("malformed input: missing required columns %v", e.Missing)
	}
	return fmt.Sprintf("malformed input: %s", e.Detail)
}

// UnknownCurrencyError reports a transaction currency outside the accepted set.
type UnknownCurrencyError struct {
	Code string
}

func (e *UnknownCurrencyError) Error() string {
	return fmt.Sprintf("unknown currency code %q", e.Code)
}

// DateFormatError reports a declared date that is not hyphen-delimited with a
// numeric month segment.
type DateFormatError struct {
	Value string
}

func (e *DateFormatError) Error() string {
	return fmt.Sprintf("declared date %q is not in YYYY-MM-DD format", e.Value)
}

// InvalidGroupKeyError reports an unsupported grouping dimension.
type InvalidGroupKeyError struct {
	Key string
}

func (e *InvalidGroupKeyError) Error() string {
	return fmt.Sprintf("invalid group key %q", e.Key)
}

// AttributeParseError reports a deal-attribute cell that does not match the
// list-encoded grammar.
type AttributeParseError struct {
	Cell   string
	Reason string
}

func (e *AttributeParseError) Error() string {
	return fmt.Sprintf("deal attribute cell %q: %s", e.Cell, e.Reason)
}
