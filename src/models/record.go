// backend/src/models/record.go
package models

// RawRecord holds the direct string values from a single row of an uploaded
// corporate-actions spreadsheet. Cells are kept exactly as read; the
// normalizer decides what counts as missing or malformed.
type RawRecord struct {
	CorporateActionID   string
	DeclaredDate        string
	InfoSource          string
	DealAttributes      string
	TransactionAmount   string
	TransactionCurrency string
}

// NormalizedRecord is the canonical representation of a corporate-action
// transaction after cleaning. Amounts are always expressed in the reference
// currency; the original currency code is retained for traceability, and the
// geographical region is derived from it.
//
// A NormalizedRecord can only be produced by the normalizer, so a normalized
// table can never be fed through the cleaning pipeline a second time.
type NormalizedRecord struct {
	CorpActionID        string  `json:"corpActionID"`
	DeclaredDate        string  `json:"declaredDate"`
	InfoSource          string  `json:"infoSource"`
	DealAttributes      string  `json:"dealAttributes"`
	TransactionAmount   float64 `json:"transactionAmount"`
	TransactionCurrency string  `json:"transactionCurrency"`
	GeographicalRegion  string  `json:"geographicalRegion"`
}
