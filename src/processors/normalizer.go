// backend/src/processors/normalizer.go
package processors

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/username/corpinsights/backend/src/models"
)

// Normalizer turns raw spreadsheet rows into the canonical normalized table.
// It is a pure transform: persistence of the result is the caller's job, so
// the cleaning rules stay testable without I/O.
type Normalizer struct{}

func NewNormalizer() *Normalizer { return &Normalizer{} }

// Normalize applies the cleaning pipeline in a fixed order: duplicate ids are
// dropped (first occurrence wins), rows with any empty cell are removed, then
// every amount is converted to the reference currency and the geographical
// region is attached from the currency lookup.
func (n *Normalizer) Normalize(rows []models.RawRecord) ([]models.NormalizedRecord, error) {
	rows = dedupByID(rows)
	rows = dropIncomplete(rows)

	normalized := make([]models.NormalizedRecord, 0, len(rows))
	for _, row := range rows {
		amount, err := strconv.ParseFloat(strings.TrimSpace(row.TransactionAmount), 64)
		if err != nil {
			return nil, &MalformedInputError{
				Detail: fmt.Sprintf("transaction amount %q for id %s is not numeric", row.TransactionAmount, row.CorporateActionID),
			}
		}

		info, ok := models.LookupCurrency(row.TransactionCurrency)
		if !ok {
			return nil, &UnknownCurrencyError{Code: row.TransactionCurrency}
		}
		if row.TransactionCurrency != models.ReferenceCurrency {
			amount = roundTo(amount*info.RateToGBP, 2)
		}

		normalized = append(normalized, models.NormalizedRecord{
			CorpActionID:        row.CorporateActionID,
			DeclaredDate:        row.DeclaredDate,
			InfoSource:          row.InfoSource,
			DealAttributes:      row.DealAttributes,
			TransactionAmount:   amount,
			TransactionCurrency: row.TransactionCurrency,
			GeographicalRegion:  info.Region,
		})
	}
	return normalized, nil
}

// dedupByID keeps the first occurrence of each corporate-action id and
// silently discards the rest.
func dedupByID(rows []models.RawRecord) []models.RawRecord {
	seen := make(map[string]struct{}, len(rows))
	kept := make([]models.RawRecord, 0, len(rows))
	for _, row := range rows {
		if _, dup := seen[row.CorporateActionID]; dup {
			continue
		}
		seen[row.CorporateActionID] = struct{}{}
		kept = append(kept, row)
	}
	return kept
}

// rawColumns exposes the six source cells in schema order. The null sweep
// iterates these one column at a time; dropping is monotonic, so the kept-row
// set does not depend on the column order.
var rawColumns = []func(models.RawRecord) string{
	func(r models.RawRecord) string { return r.CorporateActionID },
	func(r models.RawRecord) string { return r.DeclaredDate },
	func(r models.RawRecord) string { return r.InfoSource },
	func(r models.RawRecord) string { return r.DealAttributes },
	func(r models.RawRecord) string { return r.TransactionAmount },
	func(r models.RawRecord) string { return r.TransactionCurrency },
}

// dropIncomplete removes every row with an empty cell in any source column.
func dropIncomplete(rows []models.RawRecord) []models.RawRecord {
	for _, column := range rawColumns {
		kept := make([]models.RawRecord, 0, len(rows))
		for _, row := range rows {
			if strings.TrimSpace(column(row)) == "" {
				continue
			}
			kept = append(kept, row)
		}
		rows = kept
	}
	return rows
}

// roundTo rounds v to the given number of decimal places, half away from zero.
func roundTo(v float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Round(v*shift) / shift
}
